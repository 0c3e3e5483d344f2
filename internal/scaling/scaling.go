// Package scaling projects a recipe to a different yield and plans its
// production in batches against equipment capacity.
package scaling

import (
	"fmt"
	"math"

	"github.com/Simplici0/recipecost/internal/kitchen"
)

// Default time exponents. Doubling a batch does not double its time:
// prep scales by factor^0.7, cook by factor^0.5. Kitchens may recalibrate
// them with WithExponents.
const (
	DefaultPrepExponent = 0.7
	DefaultCookExponent = 0.5
)

var errTargetChoice = fmt.Errorf("%w: set exactly one of target yield or scale factor", kitchen.ErrInvalidQuantity)

// Target is the yield to scale to. Build it with ByYield or ByFactor;
// exactly one of the two may be set.
type Target struct {
	Yield  float64
	Factor float64
}

// ByYield targets an explicit number of portions.
func ByYield(yield float64) Target { return Target{Yield: yield} }

// ByFactor targets a multiple of the original yield.
func ByFactor(factor float64) Target { return Target{Factor: factor} }

// Option configures a Scaler.
type Option func(*Scaler)

// WithExponents overrides the prep and cook time exponents.
func WithExponents(prep, cook float64) Option {
	return func(s *Scaler) {
		s.prepExp = prep
		s.cookExp = cook
	}
}

// Scaler projects recipes to new yields. It holds no per-call state.
type Scaler struct {
	prepExp float64
	cookExp float64
}

// NewScaler creates a scaler with the default exponents unless overridden.
func NewScaler(opts ...Option) *Scaler {
	s := &Scaler{prepExp: DefaultPrepExponent, cookExp: DefaultCookExponent}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scaled is a recipe projected to a target yield.
type Scaled struct {
	// Recipe is the projected recipe: quantities multiplied by Factor and
	// OriginalYield set to the target, so costing it yields the scaled
	// totals and an unchanged cost per portion.
	Recipe      kitchen.Recipe
	Source      kitchen.Recipe
	Factor      float64
	TargetYield float64

	PrepMinutesExact float64
	CookMinutesExact float64
	PrepMinutes      int
	CookMinutes      int
}

// Scale projects r onto target.
func (s *Scaler) Scale(r kitchen.Recipe, target Target) (Scaled, error) {
	if err := r.CheckYield(); err != nil {
		return Scaled{}, err
	}

	factor, yield, err := resolve(r, target)
	if err != nil {
		return Scaled{}, err
	}

	out := Scaled{
		Source:      r,
		Factor:      factor,
		TargetYield: yield,
	}

	scaled := r
	scaled.OriginalYield = yield
	scaled.Lines = make([]kitchen.Line, len(r.Lines))
	for i, line := range r.Lines {
		line.Quantity = line.Quantity * factor
		scaled.Lines[i] = line
	}
	scaled.PrepMinutes = r.PrepMinutes * math.Pow(factor, s.prepExp)
	scaled.CookMinutes = r.CookMinutes * math.Pow(factor, s.cookExp)
	out.Recipe = scaled

	out.PrepMinutesExact = scaled.PrepMinutes
	out.CookMinutesExact = scaled.CookMinutes
	out.PrepMinutes = int(math.Round(scaled.PrepMinutes))
	out.CookMinutes = int(math.Round(scaled.CookMinutes))
	return out, nil
}

func resolve(r kitchen.Recipe, t Target) (factor, yield float64, err error) {
	invalid := func(field string, v float64) (float64, float64, error) {
		return 0, 0, &kitchen.RecipeError{
			RecipeID: r.ID,
			Field:    field,
			Err:      &kitchen.InvalidQuantityError{Field: field, Value: v},
		}
	}

	switch {
	case (t.Yield != 0) == (t.Factor != 0):
		return 0, 0, &kitchen.RecipeError{RecipeID: r.ID, Field: "target", Err: errTargetChoice}
	case t.Yield != 0:
		if !(t.Yield > 0) || math.IsInf(t.Yield, 1) {
			return invalid("targetYield", t.Yield)
		}
		return t.Yield / r.OriginalYield, t.Yield, nil
	default:
		if !(t.Factor > 0) || math.IsInf(t.Factor, 1) {
			return invalid("scaleFactor", t.Factor)
		}
		if t.Factor == 1 {
			return 1, r.OriginalYield, nil
		}
		return t.Factor, r.OriginalYield * t.Factor, nil
	}
}
