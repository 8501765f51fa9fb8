package order

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
)

// PostgresRepository stores orders with their line items as a jsonb column.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `id, order_number, vendor_id, supplier_id, status, payment_status, payment_id, total_amount, items, delivery_address, notes, created_at, updated_at`

func (r *PostgresRepository) Create(ctx context.Context, o Order) (Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return Order{}, err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO orders (id, order_number, vendor_id, supplier_id, status, payment_status, payment_id, total_amount, items, delivery_address, notes, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		o.ID, o.OrderNumber, o.VendorID, o.SupplierID, string(o.Status), string(o.PaymentStatus), nullable(o.PaymentID),
		o.TotalAmount, string(items), o.DeliveryAddress, o.Notes, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (r *PostgresRepository) GetByPaymentID(ctx context.Context, paymentID string) (Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_id = $1`, paymentID)
	return scanOrder(row)
}

func (r *PostgresRepository) ListByVendor(ctx context.Context, vendorID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE vendor_id = $1 ORDER BY created_at DESC`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *PostgresRepository) ListBySupplier(ctx context.Context, supplierID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE supplier_id = $1 ORDER BY created_at DESC`, supplierID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetPaymentStatus(ctx context.Context, id string, status PaymentStatus, paymentID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET payment_status = $1, payment_id = COALESCE($2, payment_id), updated_at = now() WHERE id = $3`,
		string(status), nullable(paymentID), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	var status, paymentStatus string
	var paymentID, notes sql.NullString
	var items []byte
	err := row.Scan(&o.ID, &o.OrderNumber, &o.VendorID, &o.SupplierID, &status, &paymentStatus, &paymentID,
		&o.TotalAmount, &items, &o.DeliveryAddress, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	o.PaymentStatus = PaymentStatus(paymentStatus)
	o.PaymentID = paymentID.String
	o.Notes = notes.String
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return Order{}, err
	}
	return o, nil
}

func collectOrders(rows *sql.Rows) ([]Order, error) {
	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
