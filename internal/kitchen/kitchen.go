// Package kitchen defines the records the costing engine works on:
// ingredients, recipes and their lines, and equipment. Records are built
// through validating constructors so the arithmetic downstream never has
// to guess at missing fields.
package kitchen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Simplici0/recipecost/internal/units"
)

// PriceMode says how an ingredient's purchase cost was entered.
type PriceMode int

const (
	// PriceTotal is a total cost paid for a purchased quantity of AP units.
	PriceTotal PriceMode = iota
	// PricePerUnit is a cost for one AP unit.
	PricePerUnit
)

func (m PriceMode) String() string {
	switch m {
	case PriceTotal:
		return "total"
	case PricePerUnit:
		return "per_unit"
	default:
		return "unknown"
	}
}

// Price is the as-purchased cost of an ingredient.
type Price struct {
	Mode   PriceMode
	Amount float64
	// Quantity is the purchased quantity in AP units. Only used by PriceTotal.
	Quantity float64
}

// PricedByTotal is the cost of buying quantity AP units for total.
func PricedByTotal(total, quantity float64) Price {
	return Price{Mode: PriceTotal, Amount: total, Quantity: quantity}
}

// PricedPerUnit is the cost of one AP unit.
func PricedPerUnit(cost float64) Price {
	return Price{Mode: PricePerUnit, Amount: cost}
}

// PerUnit returns the cost of one AP unit.
func (p Price) PerUnit() (float64, error) {
	if p.Amount < 0 {
		return 0, fmt.Errorf("%w: apCost must not be negative, got %v", ErrInvalidRecord, p.Amount)
	}
	switch p.Mode {
	case PricePerUnit:
		return p.Amount, nil
	case PriceTotal:
		if p.Quantity <= 0 {
			return 0, &InvalidQuantityError{Field: "apQuantity", Value: p.Quantity}
		}
		return p.Amount / p.Quantity, nil
	default:
		return 0, fmt.Errorf("%w: unknown price mode %d", ErrInvalidRecord, p.Mode)
	}
}

// Ingredient is a purchasable catalog item.
type Ingredient struct {
	ID         string
	Name       string
	SupplierID string
	APUnit     string
	Price      Price
	// YieldPercent is the share of the purchased quantity left after
	// trimming or cooking loss, in (0, 100].
	YieldPercent float64
	EPUnit       string
}

// CheckYield returns an *InvalidYieldError unless yield is in (0, 100].
func CheckYield(ingredientID string, yield float64) error {
	if !(yield > 0 && yield <= 100) {
		return &InvalidYieldError{IngredientID: ingredientID, Yield: yield}
	}
	return nil
}

// NewIngredient validates in against the unit catalog and returns a copy
// with normalized unit names. An empty EPUnit means the AP unit.
func NewIngredient(in Ingredient, cat *units.Catalog) (Ingredient, error) {
	fail := func(field string, err error) (Ingredient, error) {
		return Ingredient{}, &IngredientError{IngredientID: in.ID, Field: field, Err: err}
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fail("name", fmt.Errorf("%w: name is required", ErrInvalidRecord))
	}

	in.APUnit = units.Normalize(in.APUnit)
	if _, err := cat.DimensionOf(in.APUnit); err != nil {
		return fail("apUnit", err)
	}
	in.EPUnit = units.Normalize(in.EPUnit)
	if in.EPUnit == "" {
		in.EPUnit = in.APUnit
	}
	if err := cat.Compatible(in.APUnit, in.EPUnit); err != nil {
		return fail("epUnit", err)
	}

	if _, err := in.Price.PerUnit(); err != nil {
		var qErr *InvalidQuantityError
		if errors.As(err, &qErr) {
			return fail(qErr.Field, err)
		}
		return fail("apCost", err)
	}

	if err := CheckYield(in.ID, in.YieldPercent); err != nil {
		return fail("yieldPercent", err)
	}

	return in, nil
}

// Line is one ingredient usage in a recipe.
type Line struct {
	// IngredientID is empty for a provisional line: an ad-hoc name with no
	// catalog entry yet.
	IngredientID string
	Name         string
	Quantity     float64
	UsageUnit    string
}

// Provisional reports whether the line has no catalog ingredient.
func (l Line) Provisional() bool {
	return l.IngredientID == ""
}

// Recipe is a costed, scalable preparation.
type Recipe struct {
	ID            string
	Name          string
	OriginalYield float64
	// YieldUnit is a display label (portions, liters, ...).
	YieldUnit   string
	Lines       []Line
	PrepMinutes float64
	CookMinutes float64
	// MenuPrice of 0 means no price is set.
	MenuPrice float64
	// TargetFoodCostPercent of 0 means the business default applies.
	TargetFoodCostPercent float64
}

// CheckYield returns a *RecipeError unless OriginalYield is positive.
func (r Recipe) CheckYield() error {
	if r.OriginalYield <= 0 {
		return &RecipeError{
			RecipeID: r.ID,
			Field:    "originalYield",
			Err:      &InvalidQuantityError{Field: "originalYield", Value: r.OriginalYield},
		}
	}
	return nil
}

// NewRecipe validates in and returns a copy with normalized units and a
// fresh Lines slice.
func NewRecipe(in Recipe, cat *units.Catalog) (Recipe, error) {
	fail := func(field string, err error) (Recipe, error) {
		return Recipe{}, &RecipeError{RecipeID: in.ID, Field: field, Err: err}
	}

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fail("name", fmt.Errorf("%w: name is required", ErrInvalidRecord))
	}
	if err := in.CheckYield(); err != nil {
		return Recipe{}, err
	}
	if in.PrepMinutes < 0 {
		return fail("prepMinutes", fmt.Errorf("%w: must not be negative, got %v", ErrInvalidRecord, in.PrepMinutes))
	}
	if in.CookMinutes < 0 {
		return fail("cookMinutes", fmt.Errorf("%w: must not be negative, got %v", ErrInvalidRecord, in.CookMinutes))
	}
	if in.MenuPrice < 0 {
		return fail("menuPrice", fmt.Errorf("%w: must not be negative, got %v", ErrInvalidRecord, in.MenuPrice))
	}
	if in.TargetFoodCostPercent < 0 || in.TargetFoodCostPercent >= 100 {
		return fail("targetFoodCostPercent", fmt.Errorf("%w: must be in [0, 100), got %v", ErrInvalidRecord, in.TargetFoodCostPercent))
	}

	lines := make([]Line, len(in.Lines))
	for i, l := range in.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		l.Name = strings.TrimSpace(l.Name)
		l.IngredientID = strings.TrimSpace(l.IngredientID)
		if l.Provisional() && l.Name == "" {
			return fail(field, fmt.Errorf("%w: a provisional line needs a name", ErrInvalidRecord))
		}
		if l.Quantity < 0 {
			return fail(field+".quantity", fmt.Errorf("%w: must not be negative, got %v", ErrInvalidRecord, l.Quantity))
		}
		l.UsageUnit = units.Normalize(l.UsageUnit)
		if _, err := cat.DimensionOf(l.UsageUnit); err != nil {
			return fail(field+".usageUnit", err)
		}
		lines[i] = l
	}
	in.Lines = lines

	return in, nil
}

// Equipment is a production tool with a finite batch capacity.
type Equipment struct {
	ID           string
	Name         string
	Capacity     float64
	CapacityUnit string
}

// NewEquipment validates capacity and its unit.
func NewEquipment(in Equipment, cat *units.Catalog) (Equipment, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return Equipment{}, &FieldError{Field: "name", Err: fmt.Errorf("%w: name is required", ErrInvalidRecord)}
	}
	if in.Capacity <= 0 {
		return Equipment{}, &FieldError{Field: "capacity", Err: &InvalidQuantityError{Field: "capacity", Value: in.Capacity}}
	}
	in.CapacityUnit = units.Normalize(in.CapacityUnit)
	if _, err := cat.DimensionOf(in.CapacityUnit); err != nil {
		return Equipment{}, &FieldError{Field: "capacityUnit", Err: err}
	}
	return in, nil
}

// IngredientCatalog resolves ingredient ids for the engine. It is passed
// explicitly into every costing call.
type IngredientCatalog interface {
	Ingredient(id string) (Ingredient, bool)
}

// Pantry is a read-only, map-backed IngredientCatalog.
type Pantry struct {
	items map[string]Ingredient
}

// NewPantry indexes ingredients by ID. Later duplicates win.
func NewPantry(ingredients ...Ingredient) *Pantry {
	p := &Pantry{items: make(map[string]Ingredient, len(ingredients))}
	for _, ing := range ingredients {
		p.items[ing.ID] = ing
	}
	return p
}

// Ingredient looks up an ingredient by ID.
func (p *Pantry) Ingredient(id string) (Ingredient, bool) {
	ing, ok := p.items[id]
	return ing, ok
}

// Len returns the number of ingredients held.
func (p *Pantry) Len() int {
	return len(p.items)
}
