package listing

import (
	"context"
	"errors"
)

var (
	// ErrUnsuccessful means the endpoint answered with success=false.
	ErrUnsuccessful = errors.New("product listing unsuccessful")
	// ErrMalformed means the response did not have the expected shape.
	ErrMalformed = errors.New("malformed product listing")
)

// Loader fetches the whole product catalog in one request.
type Loader interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

type LoaderFunc func(ctx context.Context) ([]Product, error)

func (f LoaderFunc) FetchProducts(ctx context.Context) ([]Product, error) { return f(ctx) }

// FailureNotification is the toast shown when a fetch fails with err.
func FailureNotification(err error) Notification {
	if errors.Is(err, ErrUnsuccessful) {
		return errorNotification(MsgFetchUnsuccessful)
	}
	return errorNotification(MsgFetchFailed)
}
