package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendormitra/vendormitra-backend/internal/cart"
	"github.com/vendormitra/vendormitra-backend/internal/notification"
	"github.com/vendormitra/vendormitra-backend/internal/product"
)

var (
	ErrEmptyCart         = errors.New("empty cart")
	ErrStockChanged      = &Rejection{reason: "insufficient stock"}
	ErrIllegalTransition = &Rejection{reason: "illegal status transition"}
)

// Catalog is the slice of the product service checkout needs to re-validate
// and decrement stock. Cart snapshots can be stale by the time the shopper
// checks out, so stock is checked again against the live catalog here.
type Catalog interface {
	GetByID(id string) (product.Product, error)
	AdjustStock(id string, delta int) error
}

// Service provides business logic for orders.
type Service struct {
	repo    Repository
	carts   *cart.Service
	catalog Catalog
	tracker *Tracker
	hub     *notification.Hub
}

func NewService(repo Repository, carts *cart.Service, catalog Catalog, hub *notification.Hub) *Service {
	return &Service{
		repo:    repo,
		carts:   carts,
		catalog: catalog,
		tracker: NewTracker(repo),
		hub:     hub,
	}
}

// Checkout turns the vendor's cart into orders, one per supplier. Stock is
// re-validated against the live catalog before anything is written; any
// shortfall rejects the whole checkout. On success stock is decremented, the
// cart is cleared and both parties are notified.
func (s *Service) Checkout(ctx context.Context, vendorID, deliveryAddress, notes string) ([]Order, error) {
	state, err := s.carts.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if len(state.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	for _, l := range state.Lines {
		p, err := s.catalog.GetByID(l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("checkout: product %s: %w", l.ProductID, err)
		}
		if l.Quantity > p.StockQuantity {
			return nil, ErrStockChanged
		}
	}

	bySupplier := make(map[string][]cart.Line)
	supplierOrder := make([]string, 0)
	for _, l := range state.Lines {
		if _, seen := bySupplier[l.SupplierID]; !seen {
			supplierOrder = append(supplierOrder, l.SupplierID)
		}
		bySupplier[l.SupplierID] = append(bySupplier[l.SupplierID], l)
	}

	now := time.Now().UTC()
	orders := make([]Order, 0, len(supplierOrder))
	for _, supplierID := range supplierOrder {
		lines := bySupplier[supplierID]
		items := make([]Item, 0, len(lines))
		for _, l := range lines {
			items = append(items, Item{
				ProductID:   l.ProductID,
				ProductName: l.ProductName,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
			})
		}

		o := Order{
			ID:              uuid.NewString(),
			OrderNumber:     newOrderNumber(now),
			VendorID:        vendorID,
			SupplierID:      supplierID,
			Status:          StatusPending,
			PaymentStatus:   PaymentPending,
			Items:           items,
			DeliveryAddress: deliveryAddress,
			Notes:           notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		o.TotalAmount = AggregateTotal(o)

		created, err := s.repo.Create(ctx, o)
		if err != nil {
			return nil, err
		}

		for _, l := range lines {
			if err := s.catalog.AdjustStock(l.ProductID, -l.Quantity); err != nil {
				log.Printf("checkout: stock decrement failed for %s: %v", l.ProductID, err)
			}
		}

		s.publish(notification.Event{
			UserID:  supplierID,
			OrderID: created.ID,
			Title:   "New Order Received",
			Message: fmt.Sprintf("Order %s has been placed", created.OrderNumber),
			Kind:    notification.KindInfo,
		})
		orders = append(orders, created)
	}

	if _, err := s.carts.Clear(ctx, vendorID); err != nil {
		log.Printf("checkout: clearing cart for %s: %v", vendorID, err)
	}

	return orders, nil
}

// ListForVendor returns the vendor's orders, newest first, optionally
// filtered by status ("all" or empty keeps everything). Orders whose stored
// total disagrees with the derived item total are logged as a data-integrity
// warning; the stored value stays authoritative.
func (s *Service) ListForVendor(ctx context.Context, vendorID, status string) ([]Order, error) {
	all, err := s.repo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return s.filterAndCheck(all, status), nil
}

func (s *Service) ListForSupplier(ctx context.Context, supplierID, status string) ([]Order, error) {
	all, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	return s.filterAndCheck(all, status), nil
}

func (s *Service) GetForUser(ctx context.Context, userID, orderID string) (Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if o.VendorID != userID && o.SupplierID != userID {
		return Order{}, ErrNotFound
	}
	return o, nil
}

// Cancel is the one mutation a vendor may make to an order's lifecycle.
func (s *Service) Cancel(ctx context.Context, vendorID, orderID string) (Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if o.VendorID != vendorID {
		return Order{}, ErrNotFound
	}

	if err := s.tracker.Cancel(ctx, &o); err != nil {
		return o, err
	}

	s.publish(notification.Event{
		UserID:  o.SupplierID,
		OrderID: o.ID,
		Title:   "Order Cancelled",
		Message: fmt.Sprintf("Order %s was cancelled by the vendor", o.OrderNumber),
		Kind:    notification.KindWarning,
	})
	return o, nil
}

// UpdateStatus applies a supplier-side forward transition. Cancellation is
// not reachable through here; it belongs to the vendor via Cancel.
func (s *Service) UpdateStatus(ctx context.Context, supplierID, orderID string, next Status) (Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if o.SupplierID != supplierID {
		return Order{}, ErrNotFound
	}
	if next == StatusCancelled || !o.Status.CanTransitionTo(next) {
		return o, ErrIllegalTransition
	}

	if err := s.repo.SetStatus(ctx, orderID, next); err != nil {
		return o, err
	}
	o.Status = next
	o.UpdatedAt = time.Now().UTC()

	s.publish(notification.Event{
		UserID:  o.VendorID,
		OrderID: o.ID,
		Title:   "Order Update",
		Message: fmt.Sprintf("Order %s is now %s", o.OrderNumber, next),
		Kind:    notification.KindInfo,
	})
	return o, nil
}

// AttachPayment records the gateway's payment request id against the order.
func (s *Service) AttachPayment(ctx context.Context, orderID, paymentID string) error {
	return s.repo.SetPaymentStatus(ctx, orderID, PaymentPending, paymentID)
}

// MarkPayment applies a gateway-reported payment outcome.
func (s *Service) MarkPayment(ctx context.Context, orderID string, status PaymentStatus, paymentID string) (Order, error) {
	if err := s.repo.SetPaymentStatus(ctx, orderID, status, paymentID); err != nil {
		return Order{}, err
	}
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return Order{}, err
	}

	kind := notification.KindSuccess
	title := "Payment Received"
	if status == PaymentFailed {
		kind = notification.KindError
		title = "Payment Failed"
	}
	s.publish(notification.Event{
		UserID:  o.VendorID,
		OrderID: o.ID,
		Title:   title,
		Message: fmt.Sprintf("Payment for order %s is %s", o.OrderNumber, status),
		Kind:    kind,
	})
	return o, nil
}

func (s *Service) FindByPaymentID(ctx context.Context, paymentID string) (Order, error) {
	return s.repo.GetByPaymentID(ctx, paymentID)
}

func (s *Service) filterAndCheck(orders []Order, status string) []Order {
	filtered := FilterByStatus(orders, status)
	for _, o := range filtered {
		if TotalMismatch(o) {
			log.Printf("order %s: stored total %s disagrees with derived total %s",
				o.ID, o.TotalAmount, AggregateTotal(o))
		}
	}
	return filtered
}

func (s *Service) publish(e notification.Event) {
	if s.hub != nil {
		s.hub.Publish(e)
	}
}

func newOrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("VM-%s-%s", t.Format("20060102"), suffix)
}
