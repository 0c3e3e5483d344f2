package kitchen

import (
	"errors"
	"math"
	"testing"

	"github.com/Simplici0/recipecost/internal/units"
)

func TestPricePerUnit(t *testing.T) {
	got, err := PricedByTotal(20, 10).PerUnit()
	if err != nil || got != 2 {
		t.Fatalf("PricedByTotal(20,10).PerUnit()=%v,%v want 2", got, err)
	}

	got, err = PricedPerUnit(2.5).PerUnit()
	if err != nil || got != 2.5 {
		t.Fatalf("PricedPerUnit(2.5).PerUnit()=%v,%v want 2.5", got, err)
	}

	for _, qty := range []float64{0, -3} {
		_, err = PricedByTotal(20, qty).PerUnit()
		var qErr *InvalidQuantityError
		if !errors.As(err, &qErr) || qErr.Field != "apQuantity" {
			t.Fatalf("quantity %v: expected apQuantity error, got %v", qty, err)
		}
	}

	if _, err := PricedPerUnit(-1).PerUnit(); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected negative cost rejection, got %v", err)
	}
}

func TestNewIngredient(t *testing.T) {
	cat := units.Default()

	ing, err := NewIngredient(Ingredient{
		ID:           "beef",
		Name:         " Beef chuck ",
		APUnit:       "LBS",
		Price:        PricedByTotal(20, 10),
		YieldPercent: 80,
	}, cat)
	if err != nil {
		t.Fatalf("NewIngredient: %v", err)
	}
	if ing.Name != "Beef chuck" || ing.APUnit != "lbs" || ing.EPUnit != "lbs" {
		t.Fatalf("unexpected normalization: %+v", ing)
	}

	tests := []struct {
		name  string
		in    Ingredient
		field string
		is    error
	}{
		{"zero yield", Ingredient{Name: "a", APUnit: "lb", Price: PricedPerUnit(1), YieldPercent: 0}, "yieldPercent", ErrInvalidYield},
		{"yield over 100", Ingredient{Name: "a", APUnit: "lb", Price: PricedPerUnit(1), YieldPercent: 101}, "yieldPercent", ErrInvalidYield},
		{"nan yield", Ingredient{Name: "a", APUnit: "lb", Price: PricedPerUnit(1), YieldPercent: math.NaN()}, "yieldPercent", ErrInvalidYield},
		{"mixed dimensions", Ingredient{Name: "a", APUnit: "lb", EPUnit: "cup", Price: PricedPerUnit(1), YieldPercent: 90}, "epUnit", units.ErrIncompatibleDimension},
		{"unknown unit", Ingredient{Name: "a", APUnit: "crate", Price: PricedPerUnit(1), YieldPercent: 90}, "apUnit", units.ErrUnknownUnit},
		{"zero ap quantity", Ingredient{Name: "a", APUnit: "lb", Price: PricedByTotal(5, 0), YieldPercent: 90}, "apQuantity", ErrInvalidQuantity},
		{"no name", Ingredient{APUnit: "lb", Price: PricedPerUnit(1), YieldPercent: 90}, "name", ErrInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIngredient(tt.in, cat)
			var ingErr *IngredientError
			if !errors.As(err, &ingErr) {
				t.Fatalf("expected IngredientError, got %v", err)
			}
			if ingErr.Field != tt.field {
				t.Fatalf("field=%q want %q", ingErr.Field, tt.field)
			}
			if !errors.Is(err, tt.is) {
				t.Fatalf("expected errors.Is %v, got %v", tt.is, err)
			}
		})
	}
}

func TestNewRecipe(t *testing.T) {
	cat := units.Default()

	r, err := NewRecipe(Recipe{
		ID:            "stew",
		Name:          "Beef stew",
		OriginalYield: 8,
		Lines: []Line{
			{IngredientID: "beef", Quantity: 2, UsageUnit: "LB"},
			{Name: "house spice", Quantity: 1, UsageUnit: "tbsp"},
		},
		PrepMinutes: 15,
		CookMinutes: 90,
		MenuPrice:   12.95,
	}, cat)
	if err != nil {
		t.Fatalf("NewRecipe: %v", err)
	}
	if r.Lines[0].UsageUnit != "lb" {
		t.Fatalf("usage unit not normalized: %q", r.Lines[0].UsageUnit)
	}
	if !r.Lines[1].Provisional() || r.Lines[0].Provisional() {
		t.Fatalf("unexpected provisional flags: %+v", r.Lines)
	}

	tests := []struct {
		name  string
		in    Recipe
		field string
	}{
		{"zero yield", Recipe{Name: "x", OriginalYield: 0}, "originalYield"},
		{"negative yield", Recipe{Name: "x", OriginalYield: -2}, "originalYield"},
		{"negative prep", Recipe{Name: "x", OriginalYield: 1, PrepMinutes: -1}, "prepMinutes"},
		{"negative price", Recipe{Name: "x", OriginalYield: 1, MenuPrice: -1}, "menuPrice"},
		{"target too high", Recipe{Name: "x", OriginalYield: 1, TargetFoodCostPercent: 100}, "targetFoodCostPercent"},
		{"bad unit", Recipe{Name: "x", OriginalYield: 1, Lines: []Line{{IngredientID: "a", Quantity: 1, UsageUnit: "handful"}}}, "lines[0].usageUnit"},
		{"nameless provisional", Recipe{Name: "x", OriginalYield: 1, Lines: []Line{{Quantity: 1, UsageUnit: "g"}}}, "lines[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecipe(tt.in, cat)
			var rErr *RecipeError
			if !errors.As(err, &rErr) {
				t.Fatalf("expected RecipeError, got %v", err)
			}
			if rErr.Field != tt.field {
				t.Fatalf("field=%q want %q", rErr.Field, tt.field)
			}
		})
	}
}

func TestNewEquipment(t *testing.T) {
	cat := units.Default()

	eq, err := NewEquipment(Equipment{Name: "Mixer", Capacity: 20, CapacityUnit: "Lb"}, cat)
	if err != nil || eq.CapacityUnit != "lb" {
		t.Fatalf("NewEquipment=%+v,%v", eq, err)
	}

	if _, err := NewEquipment(Equipment{Name: "Mixer", Capacity: 0, CapacityUnit: "lb"}, cat); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid capacity, got %v", err)
	}
	if _, err := NewEquipment(Equipment{Name: "Mixer", Capacity: 5, CapacityUnit: "bucket"}, cat); !errors.Is(err, units.ErrUnknownUnit) {
		t.Fatalf("expected unknown unit, got %v", err)
	}
}

func TestPantry(t *testing.T) {
	p := NewPantry(Ingredient{ID: "a", Name: "Apple"}, Ingredient{ID: "b", Name: "Butter"})
	if p.Len() != 2 {
		t.Fatalf("Len=%d want 2", p.Len())
	}
	if ing, ok := p.Ingredient("b"); !ok || ing.Name != "Butter" {
		t.Fatalf("lookup b=%+v,%v", ing, ok)
	}
	if _, ok := p.Ingredient("z"); ok {
		t.Fatalf("unexpected hit for z")
	}
}
