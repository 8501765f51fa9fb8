package product

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `id, supplier_id, name, description, price, unit, category, stock_quantity, min_order_quantity, image_url, is_active, created_at, updated_at`

func (r *PostgresRepository) List() []Product {
	rows, err := r.db.Query(`SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PostgresRepository) ListBySupplier(supplierID string) []Product {
	rows, err := r.db.Query(`SELECT `+productColumns+` FROM products WHERE supplier_id = $1 ORDER BY created_at DESC`, supplierID)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *PostgresRepository) GetByID(id string) (Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) GetByIDs(ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	rows, err := r.db.Query(`SELECT `+productColumns+` FROM products
        WHERE id = ANY($1::uuid[])
        ORDER BY array_position($1::uuid[], id)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows), nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.Exec(`INSERT INTO products (id, supplier_id, name, description, price, unit, category, stock_quantity, min_order_quantity, image_url, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.SupplierID, p.Name, p.Description, p.Price, p.Unit, p.Category, p.StockQuantity, p.MinOrderQuantity, p.ImageURL, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Update(id string, p Product) (Product, error) {
	res, err := r.db.Exec(`UPDATE products SET name = $1, description = $2, price = $3, unit = $4, category = $5, stock_quantity = $6, min_order_quantity = $7, image_url = $8, is_active = $9, updated_at = $10 WHERE id = $11`,
		p.Name, p.Description, p.Price, p.Unit, p.Category, p.StockQuantity, p.MinOrderQuantity, p.ImageURL, p.IsActive, p.UpdatedAt, id)
	if err != nil {
		return Product{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Product{}, ErrNotFound
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) AdjustStock(id string, delta int) error {
	// the WHERE clause keeps stock from going negative under concurrent checkouts
	res, err := r.db.Exec(`UPDATE products SET stock_quantity = stock_quantity + $1 WHERE id = $2 AND stock_quantity + $1 >= 0`, delta, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

func collectProducts(rows *sql.Rows) []Product {
	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		var description, imageURL sql.NullString
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.Name, &description, &p.Price, &p.Unit, &p.Category,
			&p.StockQuantity, &p.MinOrderQuantity, &imageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			continue
		}
		p.Description = description.String
		p.ImageURL = imageURL.String
		out = append(out, p)
	}
	return out
}

func scanProduct(row *sql.Row) (Product, error) {
	var p Product
	var description, imageURL sql.NullString
	err := row.Scan(&p.ID, &p.SupplierID, &p.Name, &description, &p.Price, &p.Unit, &p.Category,
		&p.StockQuantity, &p.MinOrderQuantity, &imageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	p.Description = description.String
	p.ImageURL = imageURL.String
	return p, nil
}
