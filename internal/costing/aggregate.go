package costing

import (
	"errors"
	"reflect"

	"github.com/Simplici0/recipecost/internal/kitchen"
)

// UnresolvedLine is a line that contributed nothing to the total, either
// because it is provisional or because costing it failed.
type UnresolvedLine struct {
	Index           int
	Name            string
	IngredientID    string
	NeedsValidation bool
	Err             error
}

// Reason is a short human-readable cause.
func (u UnresolvedLine) Reason() string {
	if u.NeedsValidation {
		return kitchen.ErrNeedsValidation.Error()
	}
	var lineErr *LineError
	if errors.As(u.Err, &lineErr) {
		return lineErr.Err.Error()
	}
	if u.Err != nil {
		return u.Err.Error()
	}
	return ""
}

// Financials is the cost summary of one recipe as written.
type Financials struct {
	RecipeID string
	// Lines holds every successfully costed line, in recipe order.
	Lines      []LineCost
	Unresolved []UnresolvedLine

	TotalCost      float64
	CostPerPortion float64

	// The pointers below are nil when the value does not apply: the
	// menu-price figures need a menu price, the suggested price needs a
	// positive target.
	FoodCostPercent    *float64
	ProfitPerPortion   *float64
	MarginPercent      *float64
	SuggestedMenuPrice *float64

	// TargetFoodCostPercent is the target actually used: the recipe's own,
	// or the calculator default.
	TargetFoodCostPercent float64
}

// Complete reports whether every line was costed.
func (f Financials) Complete() bool {
	return len(f.Unresolved) == 0
}

// ErrNoCatalog is returned by Summarize when no ingredient catalog is given.
var ErrNoCatalog = errors.New("ingredient catalog is required")

// Summarize costs every line of r and derives the per-portion figures.
// Line failures never fail the call; they are reported in Unresolved and
// count as 0. An invalid OriginalYield or a nil pantry is fatal.
func (c *Calculator) Summarize(r kitchen.Recipe, pantry kitchen.IngredientCatalog) (Financials, error) {
	if isNil(pantry) {
		return Financials{}, ErrNoCatalog
	}
	if err := r.CheckYield(); err != nil {
		return Financials{}, err
	}

	fin := Financials{
		RecipeID: r.ID,
		Lines:    make([]LineCost, 0, len(r.Lines)),
	}

	for i, line := range r.Lines {
		var ing *kitchen.Ingredient
		if !line.Provisional() {
			if found, ok := pantry.Ingredient(line.IngredientID); ok {
				ing = &found
			}
		}

		lc, err := c.LineCost(line, ing)
		switch {
		case err != nil:
			fin.Unresolved = append(fin.Unresolved, UnresolvedLine{
				Index:        i,
				Name:         lc.Name,
				IngredientID: line.IngredientID,
				Err:          err,
			})
		case lc.NeedsValidation:
			fin.Unresolved = append(fin.Unresolved, UnresolvedLine{
				Index:           i,
				Name:            lc.Name,
				NeedsValidation: true,
			})
		default:
			lc.Index = i
			fin.Lines = append(fin.Lines, lc)
			fin.TotalCost += lc.Cost
		}
	}

	fin.CostPerPortion = fin.TotalCost / r.OriginalYield

	if r.MenuPrice > 0 {
		foodCost := fin.CostPerPortion / r.MenuPrice * 100
		profit := r.MenuPrice - fin.CostPerPortion
		margin := profit / r.MenuPrice * 100
		fin.FoodCostPercent = &foodCost
		fin.ProfitPerPortion = &profit
		fin.MarginPercent = &margin
	}

	fin.TargetFoodCostPercent = r.TargetFoodCostPercent
	if fin.TargetFoodCostPercent == 0 {
		fin.TargetFoodCostPercent = c.defaultTarget
	}
	if fin.TargetFoodCostPercent > 0 {
		suggested := fin.CostPerPortion / (fin.TargetFoodCostPercent / 100)
		fin.SuggestedMenuPrice = &suggested
	}

	return fin, nil
}

// isNil also catches a typed nil pointer stored in the interface.
func isNil(pantry kitchen.IngredientCatalog) bool {
	if pantry == nil {
		return true
	}
	v := reflect.ValueOf(pantry)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
