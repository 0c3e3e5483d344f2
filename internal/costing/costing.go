// Package costing turns as-purchased ingredient prices into edible-portion
// unit costs, costs recipe lines, and rolls them up into recipe financials.
//
// A Calculator holds only the read-only unit catalog and a default target
// food-cost ratio, so one value may be shared across goroutines.
package costing

import (
	"github.com/Simplici0/recipecost/internal/kitchen"
	"github.com/Simplici0/recipecost/internal/units"
)

// DefaultTargetFoodCostPercent applies when a recipe sets no target.
const DefaultTargetFoodCostPercent = 30.0

// Option configures a Calculator.
type Option func(*Calculator)

// WithDefaultTarget sets the food-cost percent used for suggested prices
// when a recipe has no target of its own.
func WithDefaultTarget(percent float64) Option {
	return func(c *Calculator) {
		c.defaultTarget = percent
	}
}

// Calculator prices ingredients and recipes against one unit catalog.
type Calculator struct {
	units         *units.Catalog
	defaultTarget float64
}

// New creates a calculator bound to cat.
func New(cat *units.Catalog, opts ...Option) *Calculator {
	c := &Calculator{
		units:         cat,
		defaultTarget: DefaultTargetFoodCostPercent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APCostInUnit is the purchase cost of one unit of ing, before yield loss.
// Cost scales inversely to unit size: a lb priced at $2 is $0.125 per oz.
func (c *Calculator) APCostInUnit(ing kitchen.Ingredient, unit string) (float64, error) {
	perAP, err := ing.Price.PerUnit()
	if err != nil {
		return 0, err
	}
	apUnitsPerUnit, err := c.units.Convert(1, unit, ing.APUnit)
	if err != nil {
		return 0, err
	}
	return perAP * apUnitsPerUnit, nil
}

// EPCostPerUnit is the cost of one edible unit of ing, expressed in epUnit.
// The purchase cost is spread over the yielded quantity only:
//
//	ep = apCostIn(epUnit) / (yieldPercent / 100)
//
// so the result is never below the AP cost for the same unit, and equals it
// only at 100% yield.
func (c *Calculator) EPCostPerUnit(ing kitchen.Ingredient, epUnit string) (float64, error) {
	if err := kitchen.CheckYield(ing.ID, ing.YieldPercent); err != nil {
		return 0, err
	}
	if ing.EPUnit != "" {
		if err := c.units.Compatible(ing.APUnit, ing.EPUnit); err != nil {
			return 0, err
		}
	}
	ap, err := c.APCostInUnit(ing, epUnit)
	if err != nil {
		return 0, err
	}
	return ap / (ing.YieldPercent / 100), nil
}
