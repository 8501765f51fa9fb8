package cart

import (
	"context"
	"sync"

	"github.com/vendormitra/vendormitra-backend/internal/product"
)

// Catalog is the narrow view of the product catalog the cart needs. The
// returned values are treated as a snapshot at add/update time.
type Catalog interface {
	GetByID(id string) (product.Product, error)
}

// Service runs one cart state machine per shopper. A cart is restored from
// its persisted snapshot the first time a session touches it, and every
// successful mutation writes the new snapshot back before it is committed
// in memory, so a failed write leaves the cart exactly as it was.
type Service struct {
	store   Store
	catalog Catalog

	mu    sync.Mutex
	carts map[string]State
}

func NewService(store Store, catalog Catalog) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		carts:   make(map[string]State),
	}
}

// Get returns the current cart, restoring it from the store on first use.
func (s *Service) Get(ctx context.Context, userID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session(ctx, userID)
}

// AddItem puts a product in the cart. A non-positive quantity means "use the
// product's minimum order quantity". Adding a product already in the cart
// merges quantities; if the combined quantity would exceed the stock ceiling
// the whole add is rejected, never partially filled.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.session(ctx, userID)
	if err != nil {
		return state, err
	}

	if existing, ok := state.find(productID); ok {
		requested := quantity
		if requested <= 0 {
			requested = existing.MinOrderQuantity
		}
		if existing.Quantity+requested > existing.StockCeiling {
			return state, ErrInsufficientStock
		}
		line := existing
		line.Quantity = requested
		return s.commit(ctx, userID, reduce(state, addLine{line: line}))
	}

	p, err := s.catalog.GetByID(productID)
	if err != nil {
		return state, err
	}

	requested := quantity
	if requested <= 0 {
		requested = p.MinOrderQuantity
	}
	if p.StockQuantity <= 0 || requested > p.StockQuantity {
		return state, ErrInsufficientStock
	}
	if requested < p.MinOrderQuantity {
		return state, ErrBelowMinimum
	}

	line := Line{
		ProductID:        p.ID,
		ProductName:      p.Name,
		SupplierID:       p.SupplierID,
		Unit:             p.Unit,
		UnitPrice:        p.Price,
		Quantity:         requested,
		MinOrderQuantity: p.MinOrderQuantity,
		StockCeiling:     p.StockQuantity,
		ImageURL:         p.ImageURL,
	}
	return s.commit(ctx, userID, reduce(state, addLine{line: line}))
}

// UpdateQuantity sets a line to an exact quantity. Zero or less removes the
// line; anything outside the [min order quantity, stock ceiling] range is
// rejected and the cart is left unchanged.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.session(ctx, userID)
	if err != nil {
		return state, err
	}

	line, ok := state.find(productID)
	if !ok {
		return state, nil
	}
	if quantity > 0 {
		if quantity < line.MinOrderQuantity {
			return state, ErrBelowMinimum
		}
		if quantity > line.StockCeiling {
			return state, ErrInsufficientStock
		}
	}
	return s.commit(ctx, userID, reduce(state, setQuantity{productID: productID, quantity: quantity}))
}

// RemoveItem drops a line. Removing an absent product is not an error.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.session(ctx, userID)
	if err != nil {
		return state, err
	}
	return s.commit(ctx, userID, reduce(state, removeLine{productID: productID}))
}

// Clear resets the cart to empty.
func (s *Service) Clear(ctx context.Context, userID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session(ctx, userID); err != nil {
		return emptyState(), err
	}
	return s.commit(ctx, userID, emptyState())
}

// session returns the in-memory cart for a user, restoring it from the
// persisted snapshot the first time. A snapshot that does not parse, or that
// violates the cart invariant, yields an empty cart instead of an error.
func (s *Service) session(ctx context.Context, userID string) (State, error) {
	if state, ok := s.carts[userID]; ok {
		return state, nil
	}

	data, err := s.store.Get(ctx, cartKey(userID))
	if err != nil {
		return emptyState(), err
	}

	state := emptyState()
	if lines, ok := decodeSnapshot(data); ok {
		state = reduce(state, loadLines{lines: lines})
	}
	s.carts[userID] = state
	return state, nil
}

// commit persists the snapshot and only then replaces the in-memory state.
func (s *Service) commit(ctx context.Context, userID string, next State) (State, error) {
	data, err := encodeSnapshot(next.Lines)
	if err != nil {
		return s.carts[userID], err
	}
	if err := s.store.Set(ctx, cartKey(userID), data); err != nil {
		return s.carts[userID], err
	}
	s.carts[userID] = next
	return next, nil
}
