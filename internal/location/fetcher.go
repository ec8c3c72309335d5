// ABOUTME: Permission-checked, time-bounded location retrieval
// ABOUTME: Maps provider failures onto the location error taxonomy

package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/logging"
)

// DefaultTimeout bounds a single location request.
const DefaultTimeout = 5 * time.Second

// Fetcher asks a Provider for permission and then for the current position.
// A denial is reported once per call and never retried.
type Fetcher struct {
	provider Provider
	timeout  time.Duration
	logger   *log.Logger
}

// NewFetcher creates a fetcher. A non-positive timeout uses DefaultTimeout.
func NewFetcher(p Provider, timeout time.Duration, logger *log.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		provider: p,
		timeout:  timeout,
		logger:   logging.OrDefault(logger),
	}
}

// Timeout returns the per-request timeout.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

type fetchResult struct {
	coord geo.Coordinate
	err   error
}

// Fetch returns the viewer's position, or ErrPermissionDenied, ErrUnavailable
// or ErrTimeout. Cancelling ctx returns ctx.Err().
//
// Fetch returns on timeout even if the provider ignores ctx, but the
// goroutine running the provider lives until the provider itself returns.
// Its result is then dropped. Providers that can block indefinitely should
// honor ctx.
func (f *Fetcher) Fetch(ctx context.Context) (geo.Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// Providers may ignore ctx, so both calls race against it.
	done := make(chan fetchResult, 1)
	go func() {
		perm, err := f.provider.RequestPermission(ctx)
		if err != nil {
			done <- fetchResult{err: fmt.Errorf("request permission: %w", err)}
			return
		}
		if perm != Granted {
			done <- fetchResult{err: ErrPermissionDenied}
			return
		}
		c, err := f.provider.CurrentLocation(ctx)
		done <- fetchResult{coord: c, err: err}
	}()

	select {
	case <-ctx.Done():
		return geo.Coordinate{}, f.contextErr(ctx)
	case res := <-done:
		if res.err != nil {
			return geo.Coordinate{}, f.classify(ctx, res.err)
		}
		if err := res.coord.Validate(); err != nil {
			f.logger.Warn("provider returned invalid coordinate", "err", err)
			return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		f.logger.Debug("location fetched", "location", res.coord.String())
		return res.coord, nil
	}
}

func (f *Fetcher) contextErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		f.logger.Warn("location request timed out", "timeout", f.timeout)
		return ErrTimeout
	}
	return ctx.Err()
}

func (f *Fetcher) classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		f.logger.Warn("location permission denied")
		return ErrPermissionDenied
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrTimeout):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		if ctx.Err() != nil {
			return f.contextErr(ctx)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		f.logger.Warn("location provider failed", "err", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
