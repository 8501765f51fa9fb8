package product

import "github.com/shopspring/decimal"

// Product is a supplier's catalog entry. MinOrderQuantity and StockQuantity
// drive the cart constraints: the cart snapshots them at add time and does
// not poll for staleness afterwards.
type Product struct {
	ID               string          `json:"id"`
	SupplierID       string          `json:"supplierId"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Unit             string          `json:"unit"`
	Category         string          `json:"category"`
	StockQuantity    int             `json:"stockQuantity"`
	MinOrderQuantity int             `json:"minOrderQuantity"`
	ImageURL         string          `json:"imageUrl,omitempty"`
	IsActive         bool            `json:"isActive"`
	CreatedAt        string          `json:"createdAt,omitempty"`
	UpdatedAt        string          `json:"updatedAt,omitempty"`
}

// AllowedCategories contains the raw-material categories used across the app.
var AllowedCategories = []string{
	"Vegetables",
	"Fruits",
	"Spices",
	"Grains & Flour",
	"Oil & Ghee",
	"Dairy",
	"Meat & Poultry",
	"Packaging",
}
