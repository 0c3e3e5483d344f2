// Package pricing turns engine results into the rounded figures shown to
// operators. The engine keeps full precision; rounding happens only here.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Simplici0/recipecost/internal/costing"
)

const (
	moneyPlaces    = 2
	percentPlaces  = 1
	unitCostPlaces = 4
)

// Amount is a rounded figure. It encodes as a JSON number regardless of
// decimal.MarshalJSONWithoutQuotes.
type Amount struct {
	decimal.Decimal
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func round(v float64, places int32) Amount {
	return Amount{decimal.NewFromFloat(v).Round(places)}
}

// Money rounds v to cents.
func Money(v float64) Amount {
	return round(v, moneyPlaces)
}

// Percent rounds v to one decimal place.
func Percent(v float64) Amount {
	return round(v, percentPlaces)
}

// UnitCost rounds a per-unit cost. Per-gram costs are fractions of a cent,
// so they keep four places.
func UnitCost(v float64) Amount {
	return round(v, unitCostPlaces)
}

func optional(v *float64, round func(float64) Amount) *Amount {
	if v == nil {
		return nil
	}
	d := round(*v)
	return &d
}

// LineBreakdown is one costed line.
type LineBreakdown struct {
	Index        int     `json:"index"`
	IngredientID string  `json:"ingredientId"`
	Name         string  `json:"name"`
	Quantity     float64 `json:"quantity"`
	UsageUnit    string  `json:"usageUnit"`
	UnitCost     Amount  `json:"unitCost"`
	Cost         Amount  `json:"cost"`
}

// Unresolved is a line left out of the total.
type Unresolved struct {
	Index           int    `json:"index"`
	Name            string `json:"name"`
	IngredientID    string `json:"ingredientId,omitempty"`
	NeedsValidation bool   `json:"needsValidation"`
	Reason          string `json:"reason"`
}

// Breakdown contains the rounded financial summary of a recipe.
type Breakdown struct {
	RecipeID   string          `json:"recipeId"`
	Complete   bool            `json:"complete"`
	Lines      []LineBreakdown `json:"lines"`
	Unresolved []Unresolved    `json:"unresolved"`

	TotalCost      Amount `json:"totalCost"`
	CostPerPortion Amount `json:"costPerPortion"`

	FoodCostPercent       *Amount `json:"foodCostPercent"`
	ProfitPerPortion      *Amount `json:"profitPerPortion"`
	MarginPercent         *Amount `json:"marginPercent"`
	SuggestedMenuPrice    *Amount `json:"suggestedMenuPrice"`
	TargetFoodCostPercent Amount  `json:"targetFoodCostPercent"`
}

// FromFinancials rounds f for display. Line indexes refer to the recipe's
// line order, so costed and unresolved lines can be interleaved again.
func FromFinancials(f costing.Financials) Breakdown {
	b := Breakdown{
		RecipeID:   f.RecipeID,
		Complete:   f.Complete(),
		Lines:      make([]LineBreakdown, 0, len(f.Lines)),
		Unresolved: make([]Unresolved, 0, len(f.Unresolved)),

		TotalCost:      Money(f.TotalCost),
		CostPerPortion: Money(f.CostPerPortion),

		FoodCostPercent:       optional(f.FoodCostPercent, Percent),
		ProfitPerPortion:      optional(f.ProfitPerPortion, Money),
		MarginPercent:         optional(f.MarginPercent, Percent),
		SuggestedMenuPrice:    optional(f.SuggestedMenuPrice, Money),
		TargetFoodCostPercent: Percent(f.TargetFoodCostPercent),
	}

	for _, lc := range f.Lines {
		b.Lines = append(b.Lines, LineBreakdown{
			Index:        lc.Index,
			IngredientID: lc.Line.IngredientID,
			Name:         lc.Name,
			Quantity:     lc.Line.Quantity,
			UsageUnit:    lc.Line.UsageUnit,
			UnitCost:     UnitCost(lc.UnitCost),
			Cost:         Money(lc.Cost),
		})
	}
	for _, u := range f.Unresolved {
		b.Unresolved = append(b.Unresolved, Unresolved{
			Index:           u.Index,
			Name:            u.Name,
			IngredientID:    u.IngredientID,
			NeedsValidation: u.NeedsValidation,
			Reason:          u.Reason(),
		})
	}
	return b
}
