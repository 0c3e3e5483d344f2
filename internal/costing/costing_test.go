package costing

import (
	"errors"
	"math"
	"testing"

	"github.com/Simplici0/recipecost/internal/kitchen"
	"github.com/Simplici0/recipecost/internal/units"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func beef() kitchen.Ingredient {
	return kitchen.Ingredient{
		ID:           "beef",
		Name:         "Beef chuck",
		APUnit:       "lb",
		Price:        kitchen.PricedByTotal(20, 10),
		YieldPercent: 80,
		EPUnit:       "lb",
	}
}

func stock() kitchen.Ingredient {
	return kitchen.Ingredient{
		ID:           "stock",
		Name:         "Beef stock",
		APUnit:       "qt",
		Price:        kitchen.PricedPerUnit(3.9),
		YieldPercent: 100,
		EPUnit:       "qt",
	}
}

func TestEPCostPerUnit_TwentyDollarsTenPoundsEightyPercent(t *testing.T) {
	c := New(units.Default())

	got, err := c.EPCostPerUnit(beef(), "lb")
	if err != nil {
		t.Fatalf("EPCostPerUnit: %v", err)
	}
	nearlyEqual(t, "ep cost per lb", got, 2.5)

	perOz, err := c.EPCostPerUnit(beef(), "oz")
	if err != nil {
		t.Fatalf("EPCostPerUnit oz: %v", err)
	}
	nearlyEqual(t, "ep cost per oz", perOz, 2.5/16)
}

func TestEPCostPerUnit_PerUnitPriceMatchesTotalPrice(t *testing.T) {
	c := New(units.Default())

	byTotal := beef()
	perUnit := beef()
	perUnit.Price = kitchen.PricedPerUnit(2)

	a, err := c.EPCostPerUnit(byTotal, "kg")
	if err != nil {
		t.Fatalf("by total: %v", err)
	}
	b, err := c.EPCostPerUnit(perUnit, "kg")
	if err != nil {
		t.Fatalf("per unit: %v", err)
	}
	nearlyEqual(t, "per kg", a, b)
}

func TestEPCostPerUnit_YieldMonotonicity(t *testing.T) {
	c := New(units.Default())

	for _, yield := range []float64{1, 12.5, 50, 80, 99.9, 100} {
		for _, unit := range []string{"g", "kg", "oz", "lb"} {
			ing := beef()
			ing.YieldPercent = yield

			ap, err := c.APCostInUnit(ing, unit)
			if err != nil {
				t.Fatalf("APCostInUnit: %v", err)
			}
			ep, err := c.EPCostPerUnit(ing, unit)
			if err != nil {
				t.Fatalf("EPCostPerUnit: %v", err)
			}

			if yield == 100 {
				if ep != ap {
					t.Fatalf("yield 100 %s: ep %v != ap %v", unit, ep, ap)
				}
				continue
			}
			if !(ep > ap) {
				t.Fatalf("yield %v %s: ep %v should exceed ap %v", yield, unit, ep, ap)
			}
		}
	}
}

func TestEPCostPerUnit_Errors(t *testing.T) {
	c := New(units.Default())

	bad := beef()
	bad.YieldPercent = 0
	if _, err := c.EPCostPerUnit(bad, "lb"); !errors.Is(err, kitchen.ErrInvalidYield) {
		t.Fatalf("expected invalid yield, got %v", err)
	}

	bad = beef()
	bad.YieldPercent = 120
	if _, err := c.EPCostPerUnit(bad, "lb"); !errors.Is(err, kitchen.ErrInvalidYield) {
		t.Fatalf("expected invalid yield, got %v", err)
	}

	bad = beef()
	bad.Price = kitchen.PricedByTotal(20, 0)
	if _, err := c.EPCostPerUnit(bad, "lb"); !errors.Is(err, kitchen.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}

	if _, err := c.EPCostPerUnit(beef(), "cup"); !errors.Is(err, units.ErrIncompatibleDimension) {
		t.Fatalf("expected incompatible dimension, got %v", err)
	}

	bad = beef()
	bad.EPUnit = "ml"
	if _, err := c.EPCostPerUnit(bad, "lb"); !errors.Is(err, units.ErrIncompatibleDimension) {
		t.Fatalf("expected mixed AP/EP rejection, got %v", err)
	}
}

func TestLineCost(t *testing.T) {
	c := New(units.Default())
	ing := beef()

	lc, err := c.LineCost(kitchen.Line{IngredientID: "beef", Quantity: 2, UsageUnit: "lb"}, &ing)
	if err != nil {
		t.Fatalf("LineCost: %v", err)
	}
	nearlyEqual(t, "two pounds", lc.Cost, 5)
	if lc.Name != "Beef chuck" {
		t.Fatalf("expected ingredient name fallback, got %q", lc.Name)
	}

	lc, err = c.LineCost(kitchen.Line{IngredientID: "beef", Quantity: 8, UsageUnit: "oz"}, &ing)
	if err != nil {
		t.Fatalf("LineCost oz: %v", err)
	}
	nearlyEqual(t, "eight ounces", lc.Cost, 1.25)
	nearlyEqual(t, "unit cost per oz", lc.UnitCost, 0.15625)
}

func TestLineCost_ProvisionalNeedsValidation(t *testing.T) {
	c := New(units.Default())

	lc, err := c.LineCost(kitchen.Line{Name: "smoked salt", Quantity: 1, UsageUnit: "tsp"}, nil)
	if err != nil {
		t.Fatalf("provisional line should not fail: %v", err)
	}
	if !lc.NeedsValidation || lc.Cost != 0 {
		t.Fatalf("unexpected provisional result: %+v", lc)
	}
}

func TestLineCost_ErrorsCarryLine(t *testing.T) {
	c := New(units.Default())
	ing := beef()

	_, err := c.LineCost(kitchen.Line{IngredientID: "beef", Name: "chuck", Quantity: 1, UsageUnit: "cup"}, &ing)
	var lineErr *LineError
	if !errors.As(err, &lineErr) {
		t.Fatalf("expected LineError, got %v", err)
	}
	if lineErr.Name != "chuck" || lineErr.IngredientID != "beef" {
		t.Fatalf("unexpected line error: %+v", lineErr)
	}
	if !errors.Is(err, units.ErrIncompatibleDimension) {
		t.Fatalf("expected wrapped dimension error")
	}

	_, err = c.LineCost(kitchen.Line{IngredientID: "ghost", Quantity: 1, UsageUnit: "g"}, nil)
	if !errors.Is(err, kitchen.ErrUnknownIngredient) {
		t.Fatalf("expected unknown ingredient, got %v", err)
	}
}

func stewRecipe() kitchen.Recipe {
	return kitchen.Recipe{
		ID:            "stew",
		Name:          "Beef stew",
		OriginalYield: 8,
		YieldUnit:     "portions",
		Lines: []kitchen.Line{
			{IngredientID: "beef", Quantity: 2, UsageUnit: "lb"},
			{IngredientID: "stock", Quantity: 5, UsageUnit: "qt"},
		},
		PrepMinutes: 15,
		CookMinutes: 90,
		MenuPrice:   12.95,
	}
}

func TestSummarize_CostPerPortionAndFoodCost(t *testing.T) {
	c := New(units.Default())
	pantry := kitchen.NewPantry(beef(), stock())

	fin, err := c.Summarize(stewRecipe(), pantry)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	nearlyEqual(t, "totalCost", fin.TotalCost, 24.5)
	nearlyEqual(t, "costPerPortion", fin.CostPerPortion, 3.0625)
	if fin.FoodCostPercent == nil {
		t.Fatalf("food cost percent should be set when a menu price exists")
	}
	nearlyEqual(t, "foodCostPercent", *fin.FoodCostPercent, 3.0625/12.95*100)
	if math.Abs(*fin.FoodCostPercent-23.6) > 0.05 {
		t.Fatalf("foodCostPercent %v not ~23.6", *fin.FoodCostPercent)
	}
	nearlyEqual(t, "profitPerPortion", *fin.ProfitPerPortion, 12.95-3.0625)
	nearlyEqual(t, "suggested at default 30%", *fin.SuggestedMenuPrice, 3.0625/0.30)
	if !fin.Complete() || len(fin.Lines) != 2 {
		t.Fatalf("expected two costed lines and none unresolved: %+v", fin)
	}
}

func TestSummarize_TargetFoodCost(t *testing.T) {
	pantry := kitchen.NewPantry(beef(), stock())

	r := stewRecipe()
	r.TargetFoodCostPercent = 35
	fin, err := New(units.Default()).Summarize(r, pantry)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	nearlyEqual(t, "suggested at 35%", *fin.SuggestedMenuPrice, 3.0625/0.35)
	if fin.TargetFoodCostPercent != 35 {
		t.Fatalf("effective target %v want 35", fin.TargetFoodCostPercent)
	}

	r.TargetFoodCostPercent = 0
	fin, err = New(units.Default(), WithDefaultTarget(28)).Summarize(r, pantry)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	nearlyEqual(t, "suggested at default 28%", *fin.SuggestedMenuPrice, 3.0625/0.28)

	fin, err = New(units.Default(), WithDefaultTarget(0)).Summarize(r, pantry)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if fin.SuggestedMenuPrice != nil {
		t.Fatalf("no target should mean no suggested price, got %v", *fin.SuggestedMenuPrice)
	}
}

func TestSummarize_NoMenuPriceLeavesPercentUnset(t *testing.T) {
	r := stewRecipe()
	r.MenuPrice = 0

	fin, err := New(units.Default()).Summarize(r, kitchen.NewPantry(beef(), stock()))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if fin.FoodCostPercent != nil || fin.ProfitPerPortion != nil || fin.MarginPercent != nil {
		t.Fatalf("menu-price figures should be nil without a price: %+v", fin)
	}
}

func TestSummarize_PartialFailureIsolation(t *testing.T) {
	r := stewRecipe()
	r.Lines = append(r.Lines, kitchen.Line{Name: "truffle oil", Quantity: 1, UsageUnit: "tsp"})

	fin, err := New(units.Default()).Summarize(r, kitchen.NewPantry(beef(), stock()))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	nearlyEqual(t, "totalCost", fin.TotalCost, 24.5)
	if len(fin.Unresolved) != 1 {
		t.Fatalf("expected exactly one unresolved line, got %+v", fin.Unresolved)
	}
	u := fin.Unresolved[0]
	if u.Index != 2 || !u.NeedsValidation || u.Name != "truffle oil" {
		t.Fatalf("unexpected unresolved entry: %+v", u)
	}
	if u.Reason() != kitchen.ErrNeedsValidation.Error() {
		t.Fatalf("unexpected reason %q", u.Reason())
	}
}

func TestSummarize_BadIngredientDoesNotBlockOthers(t *testing.T) {
	badStock := stock()
	badStock.YieldPercent = -5

	r := stewRecipe()
	r.Lines = append(r.Lines, kitchen.Line{IngredientID: "missing", Quantity: 1, UsageUnit: "g"})

	fin, err := New(units.Default()).Summarize(r, kitchen.NewPantry(beef(), badStock))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	nearlyEqual(t, "only beef counted", fin.TotalCost, 5)
	if len(fin.Unresolved) != 2 {
		t.Fatalf("expected two unresolved lines, got %+v", fin.Unresolved)
	}
	if !errors.Is(fin.Unresolved[0].Err, kitchen.ErrInvalidYield) {
		t.Fatalf("expected invalid yield on stock line, got %v", fin.Unresolved[0].Err)
	}
	if !errors.Is(fin.Unresolved[1].Err, kitchen.ErrUnknownIngredient) {
		t.Fatalf("expected unknown ingredient, got %v", fin.Unresolved[1].Err)
	}
}

func TestSummarize_InvalidOriginalYieldIsFatal(t *testing.T) {
	r := stewRecipe()
	r.OriginalYield = 0

	_, err := New(units.Default()).Summarize(r, kitchen.NewPantry())
	var rErr *kitchen.RecipeError
	if !errors.As(err, &rErr) || rErr.Field != "originalYield" || rErr.RecipeID != "stew" {
		t.Fatalf("expected RecipeError on originalYield, got %v", err)
	}
	if !errors.Is(err, kitchen.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity in chain")
	}
}

func TestSummarize_NilCatalogIsAnError(t *testing.T) {
	calc := New(units.Default())

	if _, err := calc.Summarize(stewRecipe(), nil); !errors.Is(err, ErrNoCatalog) {
		t.Fatalf("expected ErrNoCatalog for nil interface, got %v", err)
	}

	var pantry *kitchen.Pantry
	if _, err := calc.Summarize(stewRecipe(), pantry); !errors.Is(err, ErrNoCatalog) {
		t.Fatalf("expected ErrNoCatalog for nil pantry, got %v", err)
	}
}
