package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle position of an order. Forward transitions are
// monotonic through the chain pending -> confirmed -> processing -> shipped
// -> delivered; cancelled is reachable only from pending or confirmed.
// Delivered and cancelled are terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether next is a legal transition from s.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusShipped
	case StatusShipped:
		return next == StatusDelivered
	}
	return false
}

// PaymentStatus is reported by the payment gateway and moves independently
// of Status: an order may be confirmed while its payment is still pending.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Item struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Order is owned by the store; everything held here is a local copy of what
// the store last reported.
type Order struct {
	ID              string          `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	VendorID        string          `json:"vendorId"`
	SupplierID      string          `json:"supplierId"`
	Status          Status          `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	PaymentID       string          `json:"paymentId,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Items           []Item          `json:"items"`
	DeliveryAddress string          `json:"deliveryAddress,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// AggregateTotal derives the order total from its line items. The
// store-reported TotalAmount stays authoritative for display; a mismatch is
// a data-integrity problem to surface, not to correct.
func AggregateTotal(o Order) decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// TotalMismatch reports whether the derived total disagrees with the
// store-reported one.
func TotalMismatch(o Order) bool {
	return !AggregateTotal(o).Equal(o.TotalAmount)
}

// FilterByStatus keeps the orders matching status, preserving relative
// order. "all" (or empty) is the identity filter.
func FilterByStatus(orders []Order, status string) []Order {
	if status == "" || status == "all" {
		return orders
	}
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == Status(status) {
			out = append(out, o)
		}
	}
	return out
}
