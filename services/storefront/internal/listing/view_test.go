package listing

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func settle(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("load did not settle")
	}
}

func staticLoader(products []Product, err error) LoaderFunc {
	return func(context.Context) ([]Product, error) { return products, err }
}

func TestView_LoadSuccessReplacesList(t *testing.T) {
	t.Parallel()

	// duplicates and order must survive verbatim
	want := append(sample(), sample()[0])
	var inbox Inbox
	v := NewView(Options{Loader: staticLoader(want, nil), Notifier: &inbox})
	assert.Equal(t, StateIdle, v.Snapshot().State)

	settle(t, v.Mount(context.Background()))
	defer v.Unmount()

	snap := v.Snapshot()
	assert.Equal(t, StateLoaded, snap.State)
	assert.Equal(t, want, v.Products())
	assert.Equal(t, 4, snap.Total)
	assert.Len(t, snap.Cards, 4)
	assert.False(t, snap.Empty)
	assert.Zero(t, inbox.Len())
}

func TestView_LoadFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "unsuccessful", err: ErrUnsuccessful, want: MsgFetchUnsuccessful},
		{name: "malformed", err: ErrMalformed, want: MsgFetchFailed},
		{name: "network", err: errors.New("dial tcp: connection refused"), want: MsgFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var inbox Inbox
			v := NewView(Options{Loader: staticLoader(nil, tt.err), Notifier: &inbox})
			settle(t, v.Mount(context.Background()))
			defer v.Unmount()

			snap := v.Snapshot()
			assert.Equal(t, StateLoadFailed, snap.State)
			assert.Empty(t, v.Products())
			assert.True(t, snap.Empty)

			got := inbox.Drain()
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Description)
			assert.Equal(t, TitleError, got[0].Title)
		})
	}
}

func TestView_MountFetchesOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	v := NewView(Options{Loader: LoaderFunc(func(context.Context) ([]Product, error) {
		calls.Add(1)
		return sample(), nil
	})})

	done := v.Mount(context.Background())
	settle(t, done)
	assert.Equal(t, done, v.Mount(context.Background()))
	v.Unmount()

	assert.EqualValues(t, 1, calls.Load())
}

func TestView_QueryStaysResponsiveDuringLoad(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	v := NewView(Options{Loader: LoaderFunc(func(ctx context.Context) ([]Product, error) {
		select {
		case <-release:
			return sample(), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})})
	done := v.Mount(context.Background())
	defer v.Unmount()

	snap := v.SetQuery("pen")
	assert.Equal(t, StateLoading, snap.State)
	assert.Equal(t, "pen", snap.Query)
	assert.True(t, snap.Empty)

	close(release)
	settle(t, done)

	snap = v.Snapshot()
	require.Len(t, snap.Cards, 2)
	assert.Equal(t, ProductID("1"), snap.Cards[0].ID)
	assert.Equal(t, ProductID("2"), snap.Cards[1].ID)
	assert.Equal(t, 3, snap.Total)

	require.Len(t, snap.Rows, 3)
	assert.True(t, snap.Rows[0].Match)
	assert.True(t, snap.Rows[1].Match)
	assert.False(t, snap.Rows[2].Match)
	assert.Equal(t, "Notebook", snap.Rows[2].Name)

	snap = v.SetQuery("")
	assert.Len(t, snap.Cards, 3)
	for _, row := range snap.Rows {
		assert.True(t, row.Match, row.Name)
	}
}

func TestView_UnmountCancelsFetch(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	var inbox Inbox
	v := NewView(Options{Notifier: &inbox, Loader: LoaderFunc(func(ctx context.Context) ([]Product, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})})

	done := v.Mount(context.Background())
	<-started
	v.Unmount()
	settle(t, done)

	assert.Zero(t, inbox.Len())
	assert.Equal(t, StateLoading, v.Snapshot().State)
	assert.Empty(t, v.Products())
}

func TestView_LateResultAfterUnmountIsDropped(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var inbox Inbox
	v := NewView(Options{Notifier: &inbox, Loader: LoaderFunc(func(context.Context) ([]Product, error) {
		// ignores cancellation on purpose
		<-release
		return sample(), nil
	})})

	done := v.Mount(context.Background())
	v.Unmount()
	close(release)
	settle(t, done)

	assert.Empty(t, v.Products())
	assert.Zero(t, inbox.Len())
	assert.NotEqual(t, StateLoaded, v.Snapshot().State)
}

func TestView_Close(t *testing.T) {
	t.Parallel()

	t.Run("while loading", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		var inbox Inbox
		v := NewView(Options{Notifier: &inbox, Loader: LoaderFunc(func(context.Context) ([]Product, error) {
			<-release
			return nil, ErrUnsuccessful
		})})

		done := v.Mount(context.Background())
		snap := v.Close()
		close(release)
		settle(t, done)

		assert.Equal(t, StateLoading, snap.State)
		assert.True(t, snap.Empty)
		assert.Zero(t, inbox.Len())
	})

	t.Run("after load", func(t *testing.T) {
		t.Parallel()

		v := NewView(Options{Loader: staticLoader(sample(), nil)})
		settle(t, v.Mount(context.Background()))
		v.SetQuery("pen")

		snap := v.Close()
		assert.Equal(t, StateLoaded, snap.State)
		assert.Len(t, snap.Cards, 2)
		assert.Len(t, snap.Rows, 3)
		assert.Empty(t, v.Products())
		assert.Empty(t, v.Purchase(context.Background(), "1"))
	})
}

func TestView_UnmountBeforeMount(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	v := NewView(Options{Loader: LoaderFunc(func(context.Context) ([]Product, error) {
		calls.Add(1)
		return nil, nil
	})})
	v.Unmount()
	settle(t, v.Mount(context.Background()))

	assert.Zero(t, calls.Load())
	assert.Equal(t, StateIdle, v.Snapshot().State)
}

func TestView_ParentContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var inbox Inbox
	v := NewView(Options{Notifier: &inbox, Loader: LoaderFunc(func(ctx context.Context) ([]Product, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})})

	done := v.Mount(ctx)
	cancel()
	settle(t, done)
	v.Unmount()

	assert.Zero(t, inbox.Len())
}

func TestView_Purchase(t *testing.T) {
	t.Parallel()

	var nav routes
	var inbox Inbox
	v := NewView(Options{
		Loader:    staticLoader(sample(), nil),
		Session:   SessionFunc(func() bool { return true }),
		Navigator: &nav,
		Notifier:  &inbox,
	})
	settle(t, v.Mount(context.Background()))

	assert.Equal(t, "/product/42", v.Purchase(context.Background(), "42"))

	v.Unmount()
	assert.Empty(t, v.Purchase(context.Background(), "1"))
	assert.Equal(t, []string{"/product/42"}, nav.visited)
}

func TestView_PurchaseWithoutSession(t *testing.T) {
	t.Parallel()

	var nav routes
	var inbox Inbox
	v := NewView(Options{Loader: staticLoader(sample(), nil), Navigator: &nav, Notifier: &inbox})
	settle(t, v.Mount(context.Background()))
	defer v.Unmount()

	assert.Equal(t, SignInRoute, v.Purchase(context.Background(), "42"))
	assert.Equal(t, []string{SignInRoute}, nav.visited)
	assert.Equal(t, 1, inbox.Len())
}
