package user

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repository interface {
	GetByID(id string) (User, error)
	GetByEmail(email string) (User, error)
	Create(u User) (User, error)
	Update(id string, u User) (User, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests
// and local scenarios without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []User
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]User, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) GetByID(id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.storage {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.storage {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Create(u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.storage = append(r.storage, u)
	return u, nil
}

func (r *InMemoryRepository) Update(id string, u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.storage {
		if r.storage[i].ID == id {
			u.ID = id
			r.storage[i] = u
			return u, nil
		}
	}
	return User{}, ErrNotFound
}
