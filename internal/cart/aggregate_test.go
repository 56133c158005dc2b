package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func snapshot(name string, price string) DishSnapshot {
	return DishSnapshot{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}

func TestAddDishIncrementsExistingLine(t *testing.T) {
	curry := snapshot("Poulet curry", "10.99")

	agg := NewAggregate().
		Apply(AddDish{Dish: curry}).
		Apply(AddDish{Dish: curry})

	lines := agg.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
	if got := agg.QuantityOf(curry.ID); got != 2 {
		t.Fatalf("QuantityOf = %d, want 2", got)
	}
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	first := snapshot("Poulet curry", "10.99")
	second := snapshot("Lasagnes végétariennes", "8.99")
	third := snapshot("Salade César", "7.50")

	agg := NewAggregate().
		Apply(AddDish{Dish: first}).
		Apply(AddDish{Dish: second}).
		Apply(AddDish{Dish: third}).
		Apply(AddDish{Dish: first})

	lines := agg.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := []uuid.UUID{first.ID, second.ID, third.ID}
	for i, id := range want {
		if lines[i].Dish.ID != id {
			t.Fatalf("line %d out of order", i)
		}
	}
}

func TestTotalsFoldOverAllLines(t *testing.T) {
	curry := snapshot("Poulet curry", "10.99")
	lasagne := snapshot("Lasagnes végétariennes", "8.99")

	agg := NewAggregate().
		Apply(AddDish{Dish: curry}).
		Apply(AddDish{Dish: curry}).
		Apply(AddDish{Dish: lasagne})

	if got := agg.TotalAmount(); !got.Equal(decimal.RequireFromString("30.97")) {
		t.Fatalf("TotalAmount = %s, want 30.97", got)
	}
	if got := agg.TotalItemCount(); got != 3 {
		t.Fatalf("TotalItemCount = %d, want 3", got)
	}
}

func TestTotalsStableAcrossRepeatedCycles(t *testing.T) {
	dish := snapshot("Salade César", "7.50")

	agg := NewAggregate()
	for i := 0; i < 100; i++ {
		agg = agg.Apply(AddDish{Dish: dish})
		agg = agg.Apply(RemoveDish{DishID: dish.ID})
	}
	if !agg.TotalAmount().Equal(decimal.Zero) {
		t.Fatalf("expected zero total after balanced cycles, got %s", agg.TotalAmount())
	}

	agg = agg.Apply(AddDish{Dish: dish})
	if !agg.TotalAmount().Equal(decimal.RequireFromString("7.50")) {
		t.Fatalf("expected 7.50 after final add, got %s", agg.TotalAmount())
	}
}

func TestRemoveDishIsIdempotent(t *testing.T) {
	dish := snapshot("Poulet curry", "10.99")

	agg := NewAggregate().Apply(AddDish{Dish: dish})
	agg = agg.Apply(RemoveDish{DishID: dish.ID})
	again := agg.Apply(RemoveDish{DishID: dish.ID})

	if !again.IsEmpty() {
		t.Fatalf("expected empty aggregate after double remove")
	}
	if !again.TotalAmount().Equal(decimal.Zero) {
		t.Fatalf("expected zero total, got %s", again.TotalAmount())
	}
}

func TestUpdateQuantityReplacesValue(t *testing.T) {
	dish := snapshot("Lasagnes végétariennes", "8.99")

	agg := NewAggregate().
		Apply(AddDish{Dish: dish}).
		Apply(UpdateQuantity{DishID: dish.ID, Quantity: 5})

	if got := agg.QuantityOf(dish.ID); got != 5 {
		t.Fatalf("QuantityOf = %d, want 5", got)
	}
	if got := agg.TotalAmount(); !got.Equal(decimal.RequireFromString("44.95")) {
		t.Fatalf("TotalAmount = %s, want 44.95", got)
	}
}

func TestUpdateQuantityNonPositiveRemovesLine(t *testing.T) {
	dish := snapshot("Poulet curry", "10.99")

	for _, qty := range []int{0, -1, -10} {
		agg := NewAggregate().
			Apply(AddDish{Dish: dish}).
			Apply(UpdateQuantity{DishID: dish.ID, Quantity: qty})

		removed := NewAggregate().
			Apply(AddDish{Dish: dish}).
			Apply(RemoveDish{DishID: dish.ID})

		if agg.ContainsDish(dish.ID) {
			t.Fatalf("qty %d: expected line removed", qty)
		}
		if agg.TotalItemCount() != removed.TotalItemCount() {
			t.Fatalf("qty %d: update and remove diverged", qty)
		}
	}
}

func TestUpdateQuantityUnknownDishIsNoop(t *testing.T) {
	dish := snapshot("Salade César", "7.50")

	agg := NewAggregate().Apply(AddDish{Dish: dish})
	next := agg.Apply(UpdateQuantity{DishID: uuid.New(), Quantity: 3})

	if next.TotalItemCount() != 1 {
		t.Fatalf("unknown dish update must not change the cart")
	}
}

func TestClearEmptiesEverything(t *testing.T) {
	agg := NewAggregate().
		Apply(AddDish{Dish: snapshot("Poulet curry", "10.99")}).
		Apply(AddDish{Dish: snapshot("Salade César", "7.50")}).
		Apply(Clear{})

	if !agg.IsEmpty() {
		t.Fatalf("expected empty aggregate")
	}
	if !agg.TotalAmount().Equal(decimal.Zero) || agg.TotalItemCount() != 0 {
		t.Fatalf("expected zeroed totals")
	}
}

func TestApplyDoesNotMutateReceiver(t *testing.T) {
	dish := snapshot("Poulet curry", "10.99")
	base := NewAggregate().Apply(AddDish{Dish: dish})

	_ = base.Apply(UpdateQuantity{DishID: dish.ID, Quantity: 10})
	_ = base.Apply(RemoveDish{DishID: dish.ID})

	if got := base.QuantityOf(dish.ID); got != 1 {
		t.Fatalf("receiver was mutated, quantity now %d", got)
	}
}

func TestNewAggregateFromLinesNormalizes(t *testing.T) {
	dish := snapshot("Poulet curry", "10.99")
	other := snapshot("Salade César", "7.50")

	agg := NewAggregateFromLines([]Line{
		{Dish: dish, Quantity: 2},
		{Dish: other, Quantity: 0},
		{Dish: dish, Quantity: 1},
	})

	if got := agg.QuantityOf(dish.ID); got != 3 {
		t.Fatalf("expected duplicate lines to collapse into 3, got %d", got)
	}
	if agg.ContainsDish(other.ID) {
		t.Fatalf("non-positive persisted quantity must be dropped")
	}
}
