package product

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func productRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "supplier_id", "name", "description", "price", "unit", "category",
		"stock_quantity", "min_order_quantity", "image_url", "is_active", "created_at", "updated_at",
	}).AddRow("p1", "sup-a", "Onions 10kg", nil, "50", "bag", "Vegetables", 10, 1, nil, true, now, now)
}

func TestPostgresRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs("p1").
		WillReturnRows(productRows())

	repo := NewPostgresRepository(db)
	p, err := repo.GetByID("p1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if p.Name != "Onions 10kg" || p.StockQuantity != 10 || p.Description != "" {
		t.Fatalf("unexpected product %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresRepository_AdjustStock(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1`).
		WithArgs(-4, "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.AdjustStock("p1", -4); err != nil {
		t.Fatalf("decrement failed: %v", err)
	}

	// No row matched but the product exists: the guard clause blocked a
	// decrement below zero.
	mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1`).
		WithArgs(-20, "p1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs("p1").
		WillReturnRows(productRows())
	if err := repo.AdjustStock("p1", -20); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// No row matched and no such product.
	mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1`).
		WithArgs(-1, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT .+ FROM products WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if err := repo.AdjustStock("missing", -1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
