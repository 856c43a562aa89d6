// Package flash carries notifications across one redirect in a cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
)

const (
	CookieName = "storefront_flash"

	maxItems = 5
	ttl      = time.Minute
)

// Write stores notes for the next rendered page. Older entries are dropped
// past a small bound so the cookie stays small.
func Write(c echo.Context, notes ...listing.Notification) {
	if len(notes) == 0 {
		return
	}
	pending := append(read(c.Request()), notes...)
	if len(pending) > maxItems {
		pending = pending[len(pending)-maxItems:]
	}
	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	c.SetCookie(tokens.CreateCookie(CookieName, base64.RawURLEncoding.EncodeToString(raw), "/", time.Now().Add(ttl), secure(c)))
}

// Pop returns the pending notes and clears the cookie. Undecodable cookies
// are cleared and ignored.
func Pop(c echo.Context) []listing.Notification {
	if _, err := c.Cookie(CookieName); err != nil {
		return nil
	}
	c.SetCookie(tokens.DeleteCookie(CookieName, "/", secure(c)))
	return read(c.Request())
}

func read(r *http.Request) []listing.Notification {
	ck, err := r.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var notes []listing.Notification
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil
	}
	return notes
}

func secure(c echo.Context) bool {
	return c.Scheme() == "https"
}
