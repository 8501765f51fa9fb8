package cart

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresStore_GetAbsentKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	mock.ExpectQuery("SELECT snapshot FROM cart_snapshots").
		WithArgs("cart:u1").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}))

	data, err := store.Get(context.Background(), "cart:u1")
	if err != nil {
		t.Fatalf("absent key must not be an error: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil for absent key, got %q", string(data))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	store := NewPostgresStore(db)

	snapshot := `[{"productId":"p1","quantity":2}]`

	mock.ExpectExec("INSERT INTO cart_snapshots").
		WithArgs("cart:u1", snapshot).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT snapshot FROM cart_snapshots").
		WithArgs("cart:u1").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow(snapshot))

	if err := store.Set(context.Background(), "cart:u1", []byte(snapshot)); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, err := store.Get(context.Background(), "cart:u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != snapshot {
		t.Fatalf("unexpected snapshot %q", string(data))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
