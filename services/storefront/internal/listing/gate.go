package listing

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const (
	SignInRoute = "/login"

	EventPurchaseRedirected    = "purchase_redirected"
	EventPurchaseLoginRequired = "purchase_login_required"
)

// Session is the only thing the view knows about the user.
type Session interface {
	IsAuthenticated() bool
}

type SessionFunc func() bool

func (f SessionFunc) IsAuthenticated() bool { return f() }

var Anonymous Session = SessionFunc(func() bool { return false })

type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

func ProductRoute(id ProductID) string {
	return "/product/" + url.PathEscape(string(id))
}

// Gate decides where a purchase click leads. Purchasing is navigation only:
// stock and cart are not touched here.
type Gate struct {
	Session   Session
	Navigator Navigator
	Notifier  Notifier
	Events    events.Publisher
	Logger    *slog.Logger
}

// Purchase navigates to the product page for an authenticated session and to
// the sign-in page otherwise. It returns the route it navigated to.
func (g *Gate) Purchase(ctx context.Context, id ProductID) string {
	l := g.logger(ctx).With("product_id", string(id))

	if g.Session == nil || !g.Session.IsAuthenticated() {
		g.Notifier.Notify(errorNotification(MsgSignInRequired))
		g.Navigator.Navigate(SignInRoute)
		g.publish(ctx, l, EventPurchaseLoginRequired, id)
		l.Info("purchase_login_required")
		return SignInRoute
	}

	route := ProductRoute(id)
	g.Navigator.Navigate(route)
	g.publish(ctx, l, EventPurchaseRedirected, id)
	l.Info("purchase_redirected", "route", route)
	return route
}

func (g *Gate) publish(ctx context.Context, l *slog.Logger, typ string, id ProductID) {
	if g.Events == nil {
		return
	}
	ev := events.NewEvent(typ, map[string]any{"productID": string(id)})
	if err := g.Events.Publish(ctx, events.TopicStorefrontEvents, string(id), ev); err != nil {
		l.Error("kafka_publish_error", "event", typ, "error", err)
	}
}

func (g *Gate) logger(ctx context.Context) *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return logging.FromContext(ctx)
}
