package order

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("order not found")

// Repository is the canonical order store.
type Repository interface {
	Create(ctx context.Context, o Order) (Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	GetByPaymentID(ctx context.Context, paymentID string) (Order, error)
	// List* return newest first; callers filter by status with FilterByStatus.
	ListByVendor(ctx context.Context, vendorID string) ([]Order, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]Order, error)
	SetStatus(ctx context.Context, id string, status Status) error
	SetPaymentStatus(ctx context.Context, id string, status PaymentStatus, paymentID string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Order
}

func NewInMemoryRepository(seed []Order) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Order, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) Create(ctx context.Context, o Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	r.storage = append(r.storage, o)
	return o, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.storage {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) GetByPaymentID(ctx context.Context, paymentID string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.storage {
		if o.PaymentID == paymentID && paymentID != "" {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByVendor(ctx context.Context, vendorID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for i := len(r.storage) - 1; i >= 0; i-- {
		if r.storage[i].VendorID == vendorID {
			out = append(out, r.storage[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListBySupplier(ctx context.Context, supplierID string) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Order, 0)
	for i := len(r.storage) - 1; i >= 0; i-- {
		if r.storage[i].SupplierID == supplierID {
			out = append(out, r.storage[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) SetStatus(ctx context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].Status = status
			r.storage[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) SetPaymentStatus(ctx context.Context, id string, status PaymentStatus, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage[i].PaymentStatus = status
			if paymentID != "" {
				r.storage[i].PaymentID = paymentID
			}
			r.storage[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrNotFound
}
