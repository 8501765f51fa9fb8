package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vendormitra/vendormitra-backend/internal/cart"
	"github.com/vendormitra/vendormitra-backend/internal/notification"
	"github.com/vendormitra/vendormitra-backend/internal/product"
)

type stubCatalog struct {
	products map[string]product.Product
	adjusted map[string]int
}

func newStubCatalog(products ...product.Product) *stubCatalog {
	c := &stubCatalog{products: make(map[string]product.Product), adjusted: make(map[string]int)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *stubCatalog) GetByID(id string) (product.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

func (c *stubCatalog) AdjustStock(id string, delta int) error {
	p, ok := c.products[id]
	if !ok {
		return product.ErrNotFound
	}
	p.StockQuantity += delta
	c.products[id] = p
	c.adjusted[id] += delta
	return nil
}

func checkoutFixture(t *testing.T, products ...product.Product) (*Service, *cart.Service, *stubCatalog, *notification.Hub) {
	t.Helper()
	catalog := newStubCatalog(products...)
	carts := cart.NewService(cart.NewMemoryStore(), catalog)
	hub := notification.NewHub()
	svc := NewService(NewInMemoryRepository(nil), carts, catalog, hub)
	return svc, carts, catalog, hub
}

func testProduct(id, supplierID string, price int64, stock int) product.Product {
	return product.Product{
		ID:               id,
		SupplierID:       supplierID,
		Name:             "Onions 10kg",
		Unit:             "bag",
		Price:            decimal.NewFromInt(price),
		StockQuantity:    stock,
		MinOrderQuantity: 1,
		IsActive:         true,
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, _, _, _ := checkoutFixture(t)

	_, err := svc.Checkout(context.Background(), "vendor-1", "12 Market Rd", "")
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_SplitsPerSupplier(t *testing.T) {
	svc, carts, catalog, _ := checkoutFixture(t,
		testProduct("p1", "sup-a", 50, 10),
		testProduct("p2", "sup-b", 20, 10),
		testProduct("p3", "sup-a", 30, 10),
	)
	ctx := context.Background()
	for _, add := range []struct {
		id  string
		qty int
	}{{"p1", 2}, {"p2", 3}, {"p3", 1}} {
		if _, err := carts.AddItem(ctx, "vendor-1", add.id, add.qty); err != nil {
			t.Fatalf("seeding cart: %v", err)
		}
	}

	orders, err := svc.Checkout(ctx, "vendor-1", "12 Market Rd", "before 7am")
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected one order per supplier, got %d", len(orders))
	}
	if orders[0].SupplierID != "sup-a" || orders[1].SupplierID != "sup-b" {
		t.Fatalf("supplier order not preserved: %s, %s", orders[0].SupplierID, orders[1].SupplierID)
	}
	if len(orders[0].Items) != 2 || len(orders[1].Items) != 1 {
		t.Fatalf("items split wrong: %d and %d", len(orders[0].Items), len(orders[1].Items))
	}
	// 2*50 + 1*30 for sup-a, 3*20 for sup-b.
	if !orders[0].TotalAmount.Equal(decimal.NewFromInt(130)) {
		t.Fatalf("sup-a total = %s, want 130", orders[0].TotalAmount)
	}
	if !orders[1].TotalAmount.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("sup-b total = %s, want 60", orders[1].TotalAmount)
	}

	if catalog.adjusted["p1"] != -2 || catalog.adjusted["p2"] != -3 || catalog.adjusted["p3"] != -1 {
		t.Fatalf("stock not decremented: %+v", catalog.adjusted)
	}

	state, err := carts.Get(ctx, "vendor-1")
	if err != nil {
		t.Fatalf("reading cart: %v", err)
	}
	if len(state.Lines) != 0 {
		t.Fatalf("cart not cleared after checkout, %d lines remain", len(state.Lines))
	}
}

func TestCheckout_StaleStockRejected(t *testing.T) {
	svc, carts, catalog, _ := checkoutFixture(t, testProduct("p1", "sup-a", 50, 5))
	ctx := context.Background()
	if _, err := carts.AddItem(ctx, "vendor-1", "p1", 5); err != nil {
		t.Fatalf("seeding cart: %v", err)
	}

	// Stock sold out from under the cart between add and checkout.
	if err := catalog.AdjustStock("p1", -3); err != nil {
		t.Fatalf("adjusting stock: %v", err)
	}
	catalog.adjusted = map[string]int{}

	_, err := svc.Checkout(ctx, "vendor-1", "12 Market Rd", "")
	if !IsRejection(err) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if len(catalog.adjusted) != 0 {
		t.Fatalf("stock mutated on rejected checkout: %+v", catalog.adjusted)
	}
	state, err := carts.Get(ctx, "vendor-1")
	if err != nil {
		t.Fatalf("reading cart: %v", err)
	}
	if len(state.Lines) != 1 {
		t.Fatal("cart must survive a rejected checkout")
	}
}

func TestCheckout_NotifiesSupplier(t *testing.T) {
	svc, carts, _, hub := checkoutFixture(t, testProduct("p1", "sup-a", 50, 10))
	ctx := context.Background()
	if _, err := carts.AddItem(ctx, "vendor-1", "p1", 2); err != nil {
		t.Fatalf("seeding cart: %v", err)
	}

	var events []notification.Event
	unsubscribe := hub.Subscribe(func(e notification.Event) { events = append(events, e) })
	defer unsubscribe()

	if _, err := svc.Checkout(ctx, "vendor-1", "12 Market Rd", ""); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if len(events) != 1 || events[0].UserID != "sup-a" || events[0].Kind != notification.KindInfo {
		t.Fatalf("expected one info event for sup-a, got %+v", events)
	}
}

func TestUpdateStatus_IllegalTransitionRejected(t *testing.T) {
	svc, _, _, _ := checkoutFixture(t)
	ctx := context.Background()
	created, err := svc.repo.Create(ctx, Order{
		ID: "o1", VendorID: "vendor-1", SupplierID: "sup-a", Status: StatusPending,
	})
	if err != nil {
		t.Fatalf("seeding order: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, "sup-a", created.ID, StatusShipped); !IsRejection(err) {
		t.Fatalf("pending -> shipped must be rejected, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "sup-a", created.ID, StatusCancelled); !IsRejection(err) {
		t.Fatalf("supplier-side cancel must be rejected, got %v", err)
	}

	o, err := svc.UpdateStatus(ctx, "sup-a", created.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("pending -> confirmed failed: %v", err)
	}
	if o.Status != StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", o.Status)
	}
}

func TestUpdateStatus_WrongSupplierSeesNotFound(t *testing.T) {
	svc, _, _, _ := checkoutFixture(t)
	ctx := context.Background()
	if _, err := svc.repo.Create(ctx, Order{
		ID: "o1", VendorID: "vendor-1", SupplierID: "sup-a", Status: StatusPending,
	}); err != nil {
		t.Fatalf("seeding order: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, "sup-b", "o1", StatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign supplier, got %v", err)
	}
}

func TestCancel_OwnershipEnforced(t *testing.T) {
	svc, _, _, _ := checkoutFixture(t)
	ctx := context.Background()
	if _, err := svc.repo.Create(ctx, Order{
		ID: "o1", VendorID: "vendor-1", SupplierID: "sup-a", Status: StatusPending,
	}); err != nil {
		t.Fatalf("seeding order: %v", err)
	}

	if _, err := svc.Cancel(ctx, "vendor-2", "o1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign vendor, got %v", err)
	}

	o, err := svc.Cancel(ctx, "vendor-1", "o1")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if o.Status != StatusCancelled {
		t.Fatalf("status = %s, want cancelled", o.Status)
	}
}
