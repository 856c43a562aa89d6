// Package session adapts the access token to the listing view's Session.
package session

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
)

// FromRequest reports the user set on c by auth.Authenticate.
func FromRequest(c echo.Context) listing.Session {
	return listing.SessionFunc(func() bool { return auth.UserID(c) != "" })
}

// FromToken verifies raw with secret. Without a secret the token cannot be
// checked locally, so its presence alone counts.
func FromToken(raw string, secret []byte) listing.Session {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return listing.Anonymous
	}
	if len(secret) == 0 {
		return listing.SessionFunc(func() bool { return true })
	}
	return listing.SessionFunc(func() bool {
		_, err := tokens.AccessClaimsFromToken(raw, secret)
		return err == nil
	})
}
