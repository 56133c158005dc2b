package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DishSnapshot carries the dish fields frozen into a cart line. Lines keep
// their own copy so later menu edits never rewrite a cart in place.
type DishSnapshot struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image,omitempty"`
}

// Line is a single dish entry with its quantity.
type Line struct {
	Dish     DishSnapshot `json:"dish"`
	Quantity int          `json:"quantity"`
}

// Aggregate is the value-type cart state. It holds at most one line per dish
// id, in insertion order. All mutations go through Apply; derived reads fold
// over the line collection every time instead of keeping running totals.
type Aggregate struct {
	lines []Line
}

// Command is the closed set of cart mutations.
type Command interface {
	isCommand()
}

// AddDish inserts a new line with quantity 1, or bumps the existing line.
type AddDish struct {
	Dish DishSnapshot
}

// RemoveDish drops the line for the dish id. Absent lines are a no-op.
type RemoveDish struct {
	DishID uuid.UUID
}

// UpdateQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line.
type UpdateQuantity struct {
	DishID   uuid.UUID
	Quantity int
}

// Clear empties the cart unconditionally.
type Clear struct{}

func (AddDish) isCommand()        {}
func (RemoveDish) isCommand()     {}
func (UpdateQuantity) isCommand() {}
func (Clear) isCommand()          {}

// NewAggregate returns an empty cart.
func NewAggregate() Aggregate {
	return Aggregate{}
}

// NewAggregateFromLines rebuilds an aggregate from persisted lines. Lines
// with non-positive quantities are dropped and duplicate dish ids collapse
// into the first occurrence.
func NewAggregateFromLines(lines []Line) Aggregate {
	agg := Aggregate{}
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if idx := agg.indexOf(line.Dish.ID); idx >= 0 {
			agg.lines[idx].Quantity += line.Quantity
			continue
		}
		agg.lines = append(agg.lines, line)
	}
	return agg
}

// Apply reduces the command into a new aggregate value. It never fails;
// commands referencing unknown dishes are no-ops.
func (a Aggregate) Apply(cmd Command) Aggregate {
	switch c := cmd.(type) {
	case AddDish:
		next := a.clone()
		if idx := next.indexOf(c.Dish.ID); idx >= 0 {
			next.lines[idx].Quantity++
			return next
		}
		next.lines = append(next.lines, Line{Dish: c.Dish, Quantity: 1})
		return next

	case RemoveDish:
		next := a.clone()
		if idx := next.indexOf(c.DishID); idx >= 0 {
			next.lines = append(next.lines[:idx], next.lines[idx+1:]...)
		}
		return next

	case UpdateQuantity:
		if c.Quantity <= 0 {
			return a.Apply(RemoveDish{DishID: c.DishID})
		}
		next := a.clone()
		if idx := next.indexOf(c.DishID); idx >= 0 {
			next.lines[idx].Quantity = c.Quantity
		}
		return next

	case Clear:
		return Aggregate{}

	default:
		return a
	}
}

// Lines returns an ordered copy of the line collection.
func (a Aggregate) Lines() []Line {
	out := make([]Line, len(a.lines))
	copy(out, a.lines)
	return out
}

// TotalAmount folds price*quantity over every line.
func (a Aggregate) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range a.lines {
		total = total.Add(line.Dish.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// TotalItemCount folds quantity over every line.
func (a Aggregate) TotalItemCount() int {
	count := 0
	for _, line := range a.lines {
		count += line.Quantity
	}
	return count
}

// ContainsDish reports whether a line exists for the dish id.
func (a Aggregate) ContainsDish(dishID uuid.UUID) bool {
	return a.indexOf(dishID) >= 0
}

// QuantityOf returns the line quantity, or 0 when the dish is absent.
func (a Aggregate) QuantityOf(dishID uuid.UUID) int {
	if idx := a.indexOf(dishID); idx >= 0 {
		return a.lines[idx].Quantity
	}
	return 0
}

// IsEmpty reports whether the cart has no lines.
func (a Aggregate) IsEmpty() bool {
	return len(a.lines) == 0
}

func (a Aggregate) indexOf(dishID uuid.UUID) int {
	for i, line := range a.lines {
		if line.Dish.ID == dishID {
			return i
		}
	}
	return -1
}

func (a Aggregate) clone() Aggregate {
	return Aggregate{lines: a.Lines()}
}
