package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/pkg/middleware/auth"
	"github.com/Skotchmaster/storefront/pkg/middleware/csrf"
	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
	"github.com/Skotchmaster/storefront/services/storefront/internal/render"
)

type Deps struct {
	Handler    *StorefrontHTTP
	Renderer   *render.Renderer
	CatalogURL string
	JWTSecret  []byte
	CSRFConfig csrf.Config
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Renderer = d.Renderer
	e.Use(echomw.Secure())
	e.Use(csrf.Middleware(d.CSRFConfig))
	e.Use(auth.Authenticate(d.JWTSecret))

	catalogProxy, err := newProxy(d.CatalogURL, "")
	if err != nil {
		return err
	}
	e.Any("/api/*", catalogProxy)

	e.GET(listing.PlaceholderImage, echo.WrapHandler(render.Static()))

	e.GET("/", func(c echo.Context) error { return c.Redirect(http.StatusSeeOther, "/products") })
	e.GET("/products", d.Handler.Products)
	e.POST("/products/:id/purchase", d.Handler.Purchase)
	e.GET("/product/:id", d.Handler.Product)
	e.GET(listing.SignInRoute, d.Handler.LoginForm)
	e.POST(listing.SignInRoute, d.Handler.Login)
	e.POST("/logout", d.Handler.Logout)

	return nil
}
