package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func orderRow(id, orderNumber string, status Status) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "order_number", "vendor_id", "supplier_id", "status", "payment_status",
		"payment_id", "total_amount", "items", "delivery_address", "notes", "created_at", "updated_at",
	}).AddRow(id, orderNumber, "vendor-1", "sup-a", string(status), "pending",
		nil, "130", `[{"productId":"p1","productName":"Onions 10kg","quantity":2,"unitPrice":"65"}]`,
		"12 Market Rd", nil, now, now)
}

func TestPostgresRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM orders WHERE id = \$1`).
		WithArgs("o1").
		WillReturnRows(orderRow("o1", "VM-20260829-A1B2C3", StatusPending))

	repo := NewPostgresRepository(db)
	o, err := repo.GetByID(context.Background(), "o1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if o.OrderNumber != "VM-20260829-A1B2C3" || o.Status != StatusPending {
		t.Fatalf("unexpected order %+v", o)
	}
	if len(o.Items) != 1 || o.Items[0].Quantity != 2 {
		t.Fatalf("items not decoded: %+v", o.Items)
	}
	if !o.TotalAmount.Equal(decimal.NewFromInt(130)) {
		t.Fatalf("total = %s, want 130", o.TotalAmount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM orders WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewPostgresRepository(db)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresRepository_SetStatusMissingOrder(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE orders SET status = \$1`).
		WithArgs("cancelled", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepository(db)
	if err := repo.SetStatus(context.Background(), "missing", StatusCancelled); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresRepository_ListBySupplier(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := orderRow("o2", "VM-20260829-D4E5F6", StatusConfirmed)
	now := time.Now().UTC()
	rows.AddRow("o1", "VM-20260828-A1B2C3", "vendor-1", "sup-a", "delivered", "paid",
		"MOJO123", "60", `[]`, "12 Market Rd", "before 7am", now, now)
	mock.ExpectQuery(`SELECT .+ FROM orders WHERE supplier_id = \$1 ORDER BY created_at DESC`).
		WithArgs("sup-a").
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	orders, err := repo.ListBySupplier(context.Background(), "sup-a")
	if err != nil {
		t.Fatalf("ListBySupplier failed: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "o2" || orders[1].PaymentID != "MOJO123" {
		t.Fatalf("unexpected orders %+v", orders)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
