package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Rejection reports a refused order operation. The order is untouched; the
// reason is safe to show to the shopper as-is.
type Rejection struct {
	reason string
}

func (r *Rejection) Error() string { return r.reason }

var (
	ErrNotCancellable   = &Rejection{reason: "order cannot be cancelled in its current state"}
	ErrCancelInProgress = &Rejection{reason: "operation already in progress"}
)

// IsRejection distinguishes refused operations from store failures.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// StatusWriter is the slice of the order store the tracker mutates.
type StatusWriter interface {
	SetStatus(ctx context.Context, id string, status Status) error
}

// Tracker projects order state for the shopper and owns the one mutation a
// shopper may make: cancellation. The canonical status lives in the store;
// the local copy is updated only after the store acknowledges the write.
type Tracker struct {
	store StatusWriter

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewTracker(store StatusWriter) *Tracker {
	return &Tracker{store: store, inflight: make(map[string]struct{})}
}

// IsCancellable reports whether the shopper may still cancel the order.
func IsCancellable(o Order) bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// Cancel asks the store to mark the order cancelled. Exactly one cancel per
// order id may be in flight; a second call while the first is outstanding is
// rejected. A store failure is returned as-is (retryable, caller's call) and
// leaves the local copy unchanged.
func (t *Tracker) Cancel(ctx context.Context, o *Order) error {
	if !IsCancellable(*o) {
		return ErrNotCancellable
	}

	t.mu.Lock()
	if _, busy := t.inflight[o.ID]; busy {
		t.mu.Unlock()
		return ErrCancelInProgress
	}
	t.inflight[o.ID] = struct{}{}
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.inflight, o.ID)
		t.mu.Unlock()
	}()

	if err := t.store.SetStatus(ctx, o.ID, StatusCancelled); err != nil {
		return fmt.Errorf("cancel order %s: %w", o.ID, err)
	}

	o.Status = StatusCancelled
	return nil
}
