package cart

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// Line is one product selected for purchase. MinOrderQuantity and
// StockCeiling are snapshots of the catalog taken when the line was added;
// they bound every later quantity change of the line.
type Line struct {
	ProductID        string          `json:"productId"`
	ProductName      string          `json:"productName"`
	SupplierID       string          `json:"supplierId"`
	Unit             string          `json:"unit"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Quantity         int             `json:"quantity"`
	MinOrderQuantity int             `json:"minOrderQuantity"`
	StockCeiling     int             `json:"stockCeiling"`
	ImageURL         string          `json:"imageUrl,omitempty"`
}

// valid reports whether the line satisfies the cart invariant:
// min <= quantity <= ceiling, with a positive ceiling.
func (l Line) valid() bool {
	return l.ProductID != "" &&
		l.MinOrderQuantity >= 1 &&
		l.StockCeiling > 0 &&
		l.Quantity >= l.MinOrderQuantity &&
		l.Quantity <= l.StockCeiling
}

// State is the cart of one shopper. TotalItems and TotalAmount are derived
// and recomputed on every change, never stored in the snapshot.
type State struct {
	Lines       []Line          `json:"items"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func emptyState() State {
	return State{Lines: []Line{}, TotalItems: 0, TotalAmount: decimal.Zero}
}

func (s State) find(productID string) (Line, bool) {
	for _, l := range s.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// Commands consumed by reduce. Constraint checks happen before dispatch, in
// the Service; reduce itself only applies state changes.
type command interface{ isCommand() }

type addLine struct{ line Line }
type setQuantity struct {
	productID string
	quantity  int
}
type removeLine struct{ productID string }
type clearAll struct{}
type loadLines struct{ lines []Line }

func (addLine) isCommand()     {}
func (setQuantity) isCommand() {}
func (removeLine) isCommand()  {}
func (clearAll) isCommand()    {}
func (loadLines) isCommand()   {}

// reduce applies a command to a state and returns the next state with fresh
// totals. Inputs are never mutated.
func reduce(s State, cmd command) State {
	switch c := cmd.(type) {
	case addLine:
		lines := make([]Line, 0, len(s.Lines)+1)
		merged := false
		for _, l := range s.Lines {
			if l.ProductID == c.line.ProductID {
				l.Quantity += c.line.Quantity
				merged = true
			}
			lines = append(lines, l)
		}
		if !merged {
			lines = append(lines, c.line)
		}
		return recompute(lines)

	case setQuantity:
		if c.quantity <= 0 {
			return reduce(s, removeLine{productID: c.productID})
		}
		lines := make([]Line, 0, len(s.Lines))
		for _, l := range s.Lines {
			if l.ProductID == c.productID {
				l.Quantity = c.quantity
			}
			lines = append(lines, l)
		}
		return recompute(lines)

	case removeLine:
		lines := make([]Line, 0, len(s.Lines))
		for _, l := range s.Lines {
			if l.ProductID != c.productID {
				lines = append(lines, l)
			}
		}
		return recompute(lines)

	case clearAll:
		return emptyState()

	case loadLines:
		lines := make([]Line, len(c.lines))
		copy(lines, c.lines)
		return recompute(lines)
	}
	return s
}

func recompute(lines []Line) State {
	total := decimal.Zero
	items := 0
	for _, l := range lines {
		items += l.Quantity
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return State{Lines: lines, TotalItems: items, TotalAmount: total}
}

// Rejection reports a cart constraint violation. It is an error so callers
// can pass it upward, but it means the operation was refused and the cart is
// unchanged, not that anything failed.
type Rejection struct {
	reason string
}

func (r *Rejection) Error() string { return r.reason }

var (
	ErrInsufficientStock = &Rejection{reason: "insufficient stock"}
	ErrBelowMinimum      = &Rejection{reason: "below minimum order quantity"}
)

// IsRejection distinguishes constraint violations from store failures.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}

// decodeSnapshot parses a persisted snapshot. Loading is all or nothing: a
// snapshot that fails to parse, or contains any line violating the cart
// invariant, is discarded wholesale.
func decodeSnapshot(data []byte) ([]Line, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, false
	}
	for _, l := range lines {
		if !l.valid() {
			return nil, false
		}
	}
	return lines, true
}

func encodeSnapshot(lines []Line) ([]byte, error) {
	return json.Marshal(lines)
}
