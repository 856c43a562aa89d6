package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
)

func responseCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestWriteThenPop(t *testing.T) {
	t.Parallel()

	e := echo.New()
	note := listing.Notification{Variant: listing.VariantDestructive, Title: listing.TitleError, Description: listing.MsgSignInRequired}

	rec := httptest.NewRecorder()
	Write(e.NewContext(httptest.NewRequest(http.MethodPost, "/products/1/purchase", nil), rec), note)
	ck := responseCookie(t, rec)
	assert.True(t, ck.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(ck)
	rec = httptest.NewRecorder()
	got := Pop(e.NewContext(req, rec))

	require.Len(t, got, 1)
	assert.Equal(t, note, got[0])
	cleared := responseCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestPopWithoutCookie(t *testing.T) {
	t.Parallel()

	e := echo.New()
	rec := httptest.NewRecorder()
	assert.Nil(t, Pop(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Empty(t, rec.Result().Cookies())
}

func TestPopGarbage(t *testing.T) {
	t.Parallel()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "%%%not-base64"})
	rec := httptest.NewRecorder()

	assert.Nil(t, Pop(e.NewContext(req, rec)))
	assert.Empty(t, responseCookie(t, rec).Value)
}

func TestWriteKeepsNewest(t *testing.T) {
	t.Parallel()

	e := echo.New()
	var notes []listing.Notification
	for i := 0; i < maxItems+2; i++ {
		notes = append(notes, listing.Notification{Description: string(rune('a' + i))})
	}
	rec := httptest.NewRecorder()
	Write(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), notes...)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(responseCookie(t, rec))
	got := Pop(e.NewContext(req, httptest.NewRecorder()))

	require.Len(t, got, maxItems)
	assert.Equal(t, "c", got[0].Description)
	assert.Equal(t, notes[len(notes)-1], got[maxItems-1])
}
