package listing

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Skotchmaster/storefront/pkg/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateLoadFailed:
		return "load_failed"
	default:
		return "unknown"
	}
}

// Snapshot is what a renderer draws. It is a copy: changing it does not
// affect the view.
type Snapshot struct {
	State State
	Query string
	Total int
	Cards []Card
	// Rows holds every stored product in order, with Match set on the ones
	// that appear in Cards. Renderers that filter on their own side use it.
	Rows []Row
	// Empty is set when no card matches; renderers show EmptyMessage.
	Empty bool
}

type Row struct {
	Card
	Match bool
}

type Options struct {
	Loader    Loader
	Session   Session
	Navigator Navigator
	Notifier  Notifier
	Events    events.Publisher
	Logger    *slog.Logger
}

// View owns the listing state for one mount. All methods are safe for
// concurrent use; the notifier is invoked with the view's lock held and must
// not call back into the view.
type View struct {
	loader   Loader
	notifier Notifier
	gate     Gate
	logger   *slog.Logger

	mu       sync.Mutex
	state    State
	products []Product
	query    string
	mounted  bool
	torn     bool
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewView(opts Options) *View {
	l := opts.Logger
	if l == nil {
		l = logging.Discard()
	}
	session := opts.Session
	if session == nil {
		session = Anonymous
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = &Inbox{}
	}
	nav := opts.Navigator
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &View{
		loader:   opts.Loader,
		notifier: notifier,
		gate: Gate{
			Session:   session,
			Navigator: nav,
			Notifier:  notifier,
			Events:    opts.Events,
			Logger:    l,
		},
		logger: l.With("component", "listing.view"),
		done:   make(chan struct{}),
	}
}

// Mount starts the single catalog fetch of this view and returns a channel
// closed when the fetch has settled. Mounting twice does not fetch again.
func (v *View) Mount(ctx context.Context) <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mounted {
		return v.done
	}
	v.mounted = true
	if v.torn {
		close(v.done)
		return v.done
	}
	v.state = StateLoading

	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	go v.load(ctx)

	return v.done
}

func (v *View) load(ctx context.Context) {
	defer close(v.done)

	products, err := v.loader.FetchProducts(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	// torn down while the request was in flight: drop the result
	if v.torn || ctx.Err() != nil {
		v.logger.Debug("load_discarded", "reason", "view unmounted")
		return
	}

	if err != nil {
		v.state = StateLoadFailed
		v.logger.Warn("load_failed", "error", err, "kept", len(v.products))
		v.notifier.Notify(FailureNotification(err))
		return
	}

	v.products = products
	v.state = StateLoaded
	v.logger.Info("load_succeeded", "products", len(products))
}

// Loaded is closed once the fetch started by Mount has settled.
func (v *View) Loaded() <-chan struct{} {
	return v.done
}

// Unmount cancels an in-flight fetch and discards the view's state. Results
// that arrive afterwards are ignored.
func (v *View) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.teardownLocked()
}

// Close unmounts the view and returns the snapshot it held at that moment.
// A load settling concurrently is either in the snapshot or dropped.
func (v *View) Close() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	snap := v.snapshotLocked()
	v.teardownLocked()
	return snap
}

func (v *View) teardownLocked() {
	if v.torn {
		return
	}
	v.torn = true
	v.products = nil
	if v.cancel != nil {
		v.cancel()
	}
}

// SetQuery replaces the search text and returns the recomputed snapshot.
func (v *View) SetQuery(q string) Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = q
	return v.snapshotLocked()
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *View) snapshotLocked() Snapshot {
	rows := make([]Row, 0, len(v.products))
	cards := make([]Card, 0, len(v.products))
	for _, p := range v.products {
		row := Row{Card: NewCard(p), Match: Matches(p, v.query)}
		rows = append(rows, row)
		if row.Match {
			cards = append(cards, row.Card)
		}
	}
	return Snapshot{
		State: v.state,
		Query: v.query,
		Total: len(v.products),
		Cards: cards,
		Rows:  rows,
		Empty: len(cards) == 0,
	}
}

// Products returns the stored list, the last successful fetch.
func (v *View) Products() []Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Product, len(v.products))
	copy(out, v.products)
	return out
}

// Purchase runs the purchase gate for id. It does nothing once unmounted.
func (v *View) Purchase(ctx context.Context, id ProductID) string {
	v.mu.Lock()
	torn := v.torn
	v.mu.Unlock()
	if torn {
		return ""
	}
	return v.gate.Purchase(ctx, id)
}
