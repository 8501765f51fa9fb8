package notification

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("notification not found")

type Repository interface {
	ListByUser(userID string) ([]Notification, error)
	Create(n Notification) (Notification, error)
	MarkRead(userID, id string) error
	MarkAllRead(userID string) error
	Delete(userID, id string) error
}

// InMemoryRepository is used for tests and local scenarios.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Notification
}

func NewInMemoryRepository(seed []Notification) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Notification, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) ListByUser(userID string) ([]Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Notification, 0)
	for i := len(r.storage) - 1; i >= 0; i-- {
		if r.storage[i].UserID == userID {
			out = append(out, r.storage[i])
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(n Notification) (Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	r.storage = append(r.storage, n)
	return n, nil
}

func (r *InMemoryRepository) MarkRead(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id && r.storage[i].UserID == userID {
			r.storage[i].IsRead = true
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) MarkAllRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].UserID == userID {
			r.storage[i].IsRead = true
		}
	}
	return nil
}

func (r *InMemoryRepository) Delete(userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id && r.storage[i].UserID == userID {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
