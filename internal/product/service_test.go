package product

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func seedProducts() []Product {
	return []Product{
		{ID: "p1", SupplierID: "sup-a", Name: "Onions 10kg", Category: "Vegetables",
			Price: decimal.NewFromInt(50), Unit: "bag", StockQuantity: 10, MinOrderQuantity: 1, IsActive: true},
		{ID: "p2", SupplierID: "sup-a", Name: "Old Stock Tomatoes", Category: "Vegetables",
			Price: decimal.NewFromInt(30), Unit: "crate", StockQuantity: 0, MinOrderQuantity: 1, IsActive: false},
		{ID: "p3", SupplierID: "sup-b", Name: "Turmeric 1kg", Category: "Spices",
			Price: decimal.NewFromInt(120), Unit: "packet", StockQuantity: 25, MinOrderQuantity: 2, IsActive: true},
	}
}

func TestList_OnlyActiveProducts(t *testing.T) {
	svc := NewService(NewInMemoryRepository(seedProducts()))

	listed := svc.List()
	if len(listed) != 2 {
		t.Fatalf("expected 2 active products, got %d", len(listed))
	}
	for _, p := range listed {
		if !p.IsActive {
			t.Fatalf("inactive product %s leaked into the catalog", p.ID)
		}
	}
}

func TestListBySupplier_IncludesInactive(t *testing.T) {
	svc := NewService(NewInMemoryRepository(seedProducts()))

	mine := svc.ListBySupplier("sup-a")
	if len(mine) != 2 {
		t.Fatalf("supplier must see their inactive products too, got %d", len(mine))
	}
}

func TestAdjustStock(t *testing.T) {
	svc := NewService(NewInMemoryRepository(seedProducts()))

	if err := svc.AdjustStock("p1", -4); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	p, err := svc.GetByID("p1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if p.StockQuantity != 6 {
		t.Fatalf("stock = %d, want 6", p.StockQuantity)
	}

	if err := svc.AdjustStock("p1", -7); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("over-decrement must fail with ErrInsufficientStock, got %v", err)
	}
	p, _ = svc.GetByID("p1")
	if p.StockQuantity != 6 {
		t.Fatalf("stock mutated by a rejected decrement, now %d", p.StockQuantity)
	}

	if err := svc.AdjustStock("missing", -1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
