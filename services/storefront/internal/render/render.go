// Package render draws the storefront pages from embedded html/template files.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
)

const (
	PageProducts = "products"
	PageProduct  = "product"
	PageLogin    = "login"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page is the data every template receives.
type Page struct {
	Title         string
	CSRFToken     string
	Authenticated bool
	Toasts        []listing.Notification
}

type ProductsPage struct {
	Page
	SearchLabel       string
	SearchPlaceholder string
	EmptyMessage      string
	PurchaseLabel     string
	View              listing.Snapshot
}

type ProductPage struct {
	Page
	Card listing.Card
}

type LoginPage struct {
	Page
	Username string
}

// NewProductsPage fills the fixed listing texts.
func NewProductsPage(p Page, snap listing.Snapshot) ProductsPage {
	if p.Title == "" {
		p.Title = listing.PageTitle
	}
	return ProductsPage{
		Page:              p,
		SearchLabel:       listing.SearchLabel,
		SearchPlaceholder: listing.SearchPlaceholder,
		EmptyMessage:      listing.EmptyMessage,
		PurchaseLabel:     listing.PurchaseLabel,
		View:              snap,
	}
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs()).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{PageProducts, PageProduct, PageLogin} {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, path.Join("templates", name+".html")); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("render: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

// Static serves the embedded assets such as the placeholder image.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"destructive": func(n listing.Notification) bool { return n.Variant == listing.VariantDestructive },
	}
}
