package costing

import (
	"fmt"

	"github.com/Simplici0/recipecost/internal/kitchen"
)

// LineCost is the priced result of one recipe line.
type LineCost struct {
	// Index is the line's position in its recipe. Summarize sets it.
	Index int
	Line  kitchen.Line
	// Name is the line's own name, or the ingredient's when the line has none.
	Name string
	// UnitCost is the edible-portion cost of one usage unit.
	UnitCost float64
	Cost     float64
	// NeedsValidation marks a provisional line: costed at 0 until it is
	// matched to a catalog ingredient.
	NeedsValidation bool
}

// LineError is a failure costing a single line. It wraps the cause, so
// errors.Is works against kitchen and units sentinels.
type LineError struct {
	Name         string
	IngredientID string
	Err          error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %q (ingredient %s): %v", e.Name, e.IngredientID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// LineCost prices one line. A provisional line costs 0 and comes back
// flagged NeedsValidation without an error. A non-provisional line with a
// nil ingredient fails with ErrUnknownIngredient.
//
// The unit cost chains two conversions: AP unit to the ingredient's EP
// unit (with yield loss), then EP unit to the line's usage unit.
func (c *Calculator) LineCost(line kitchen.Line, ing *kitchen.Ingredient) (LineCost, error) {
	out := LineCost{Line: line, Name: line.Name}

	if line.Provisional() {
		out.NeedsValidation = true
		return out, nil
	}

	fail := func(err error) (LineCost, error) {
		return out, &LineError{Name: out.Name, IngredientID: line.IngredientID, Err: err}
	}

	if ing == nil {
		return fail(&kitchen.UnknownIngredientError{IngredientID: line.IngredientID})
	}
	if out.Name == "" {
		out.Name = ing.Name
	}

	epUnit := ing.EPUnit
	if epUnit == "" {
		epUnit = ing.APUnit
	}
	perEP, err := c.EPCostPerUnit(*ing, epUnit)
	if err != nil {
		return fail(err)
	}
	epUnitsPerUsage, err := c.units.Convert(1, line.UsageUnit, epUnit)
	if err != nil {
		return fail(err)
	}

	out.UnitCost = perEP * epUnitsPerUsage
	out.Cost = out.UnitCost * line.Quantity
	return out, nil
}
