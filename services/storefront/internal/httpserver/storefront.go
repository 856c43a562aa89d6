package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/pkg/authclient"
	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/Skotchmaster/storefront/services/storefront/internal/flash"
	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
	"github.com/Skotchmaster/storefront/services/storefront/internal/productclient"
	"github.com/Skotchmaster/storefront/services/storefront/internal/render"
	"github.com/Skotchmaster/storefront/services/storefront/internal/session"
)

const (
	loginTitle = "Đăng nhập"

	msgInvalidCredentials = "Tên đăng nhập hoặc mật khẩu không đúng"
	msgSignInFailed       = "Không thể đăng nhập, vui lòng thử lại"
	msgProductUnavailable = "Không thể tải sản phẩm"
)

// Catalog is what the storefront needs from the catalog service.
type Catalog interface {
	listing.Loader
	GetProduct(ctx context.Context, id listing.ProductID) (*listing.Product, error)
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) (*authclient.LoginResponse, error)
}

type StorefrontHTTP struct {
	Catalog       Catalog
	Auth          Authenticator
	Events        events.Publisher
	LoadWait      time.Duration
	SecureCookies bool
}

func (h *StorefrontHTTP) page(c echo.Context, title string, extra ...listing.Notification) render.Page {
	return render.Page{
		Title:         title,
		CSRFToken:     csrf.Token(c),
		Authenticated: session.FromRequest(c).IsAuthenticated(),
		Toasts:        append(flash.Pop(c), extra...),
	}
}

// Products mounts one listing view for the request, waits for its load and
// renders every loaded product. The q parameter only sets the initial filter;
// later filtering runs in the page over the rendered cards.
func (h *StorefrontHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.products")

	var inbox listing.Inbox
	v := listing.NewView(listing.Options{
		Loader:   h.Catalog,
		Session:  session.FromRequest(c),
		Notifier: &inbox,
		Events:   h.Events,
		Logger:   l,
	})
	defer v.Unmount()

	done := v.Mount(ctx)
	v.SetQuery(c.QueryParam("q"))

	wait := time.NewTimer(h.loadWait())
	defer wait.Stop()

	var snap listing.Snapshot
	select {
	case <-done:
		snap = v.Snapshot()
	case <-wait.C:
		snap = v.Close()
		if snap.State == listing.StateLoading {
			l.Warn("products_load_timeout", "wait", h.loadWait().String())
			inbox.Notify(listing.FailureNotification(context.DeadlineExceeded))
		}
	case <-ctx.Done():
		l.Info("products_request_cancelled", "error", ctx.Err())
		return nil
	}

	l.Info("products_rendered", "state", snap.State.String(), "total", snap.Total, "visible", len(snap.Cards), "query", snap.Query)
	return c.Render(http.StatusOK, render.PageProducts, render.NewProductsPage(h.page(c, listing.PageTitle, inbox.Drain()...), snap))
}

func (h *StorefrontHTTP) loadWait() time.Duration {
	if h.LoadWait <= 0 {
		return productclient.DefaultTimeout + time.Second
	}
	return h.LoadWait
}

// Purchase runs the purchase gate and redirects to wherever it navigated.
func (h *StorefrontHTTP) Purchase(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.purchase")

	id := listing.ProductID(strings.TrimSpace(c.Param("id")))
	if id == "" {
		l.Warn("purchase_failed", "status", 400, "reason", "empty product id")
		return echo.NewHTTPError(http.StatusBadRequest, "empty product id")
	}

	var inbox listing.Inbox
	var target string
	gate := listing.Gate{
		Session:   session.FromRequest(c),
		Navigator: listing.NavigatorFunc(func(route string) { target = route }),
		Notifier:  &inbox,
		Events:    h.Events,
		Logger:    l,
	}
	gate.Purchase(ctx, id)

	flash.Write(c, inbox.Drain()...)
	return c.Redirect(http.StatusSeeOther, target)
}

func (h *StorefrontHTTP) Product(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.product")

	id := listing.ProductID(c.Param("id"))
	p, err := h.Catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, productclient.ErrNotFound) {
			l.Warn("get_product_failed", "status", 404, "reason", "product not found", "product_id", string(id))
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 502, "reason", "catalog unavailable", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, msgProductUnavailable)
	}

	card := listing.NewCard(*p)
	return c.Render(http.StatusOK, render.PageProduct, render.ProductPage{Page: h.page(c, card.Name), Card: card})
}

func (h *StorefrontHTTP) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, render.PageLogin, render.LoginPage{Page: h.page(c, loginTitle)})
}

func (h *StorefrontHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "storefront.login")

	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	resp, err := h.Auth.Login(ctx, username, password)
	if err != nil {
		status, msg := http.StatusBadGateway, msgSignInFailed
		if errors.Is(err, authclient.ErrInvalidCredentials) {
			status, msg = http.StatusUnauthorized, msgInvalidCredentials
			l.Warn("login_failed", "status", status, "reason", "invalid credentials")
		} else {
			l.Error("login_failed", "status", status, "reason", "auth service error", "error", err)
		}
		note := listing.Notification{Variant: listing.VariantDestructive, Title: listing.TitleError, Description: msg}
		return c.Render(status, render.PageLogin, render.LoginPage{Page: h.page(c, loginTitle, note), Username: username})
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookieName, resp.AccessToken, "/", resp.ExpiresAt(), h.SecureCookies))
	l.Info("login_success", "is_admin", resp.IsAdmin)
	return c.Redirect(http.StatusSeeOther, "/products")
}

func (h *StorefrontHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookieName, "/", h.SecureCookies))
	logging.FromContext(c.Request().Context()).Info("logout_success", "handler", "storefront.logout")
	return c.Redirect(http.StatusSeeOther, "/products")
}
