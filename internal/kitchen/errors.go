package kitchen

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below match them with errors.Is.
var (
	ErrInvalidYield      = errors.New("invalid yield percent")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrNeedsValidation   = errors.New("ingredient needs validation")
	ErrNoEquipment       = errors.New("no compatible equipment")
	ErrUnknownIngredient = errors.New("unknown ingredient")
	ErrInvalidRecord     = errors.New("invalid record")
)

// InvalidYieldError reports a yield percent outside (0, 100].
type InvalidYieldError struct {
	IngredientID string
	Yield        float64
}

func (e *InvalidYieldError) Error() string {
	if e.IngredientID == "" {
		return fmt.Sprintf("yield percent %v is outside (0, 100]", e.Yield)
	}
	return fmt.Sprintf("ingredient %s: yield percent %v is outside (0, 100]", e.IngredientID, e.Yield)
}

func (e *InvalidYieldError) Is(target error) bool { return target == ErrInvalidYield }

// InvalidQuantityError reports a zero or negative quantity where a positive
// one is required: purchased quantity, target yield, scale factor.
type InvalidQuantityError struct {
	Field string
	Value float64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("%s must be greater than 0, got %v", e.Field, e.Value)
}

func (e *InvalidQuantityError) Is(target error) bool { return target == ErrInvalidQuantity }

// UnknownIngredientError reports a recipe line pointing at an ingredient
// the catalog does not hold.
type UnknownIngredientError struct {
	IngredientID string
}

func (e *UnknownIngredientError) Error() string {
	return fmt.Sprintf("ingredient %s not found", e.IngredientID)
}

func (e *UnknownIngredientError) Is(target error) bool { return target == ErrUnknownIngredient }

// NoEquipmentError reports that none of the offered equipment can hold
// any dimension of the scaled ingredient totals.
type NoEquipmentError struct {
	Offered int
	Reason  string
}

func (e *NoEquipmentError) Error() string {
	if e.Reason != "" {
		return "no compatible equipment: " + e.Reason
	}
	return fmt.Sprintf("no compatible equipment among %d profiles", e.Offered)
}

func (e *NoEquipmentError) Is(target error) bool { return target == ErrNoEquipment }

// FieldError is a validation failure on a single record field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// RecipeError ties a failure to the recipe and field that caused it, so a
// caller can say exactly what to fix.
type RecipeError struct {
	RecipeID string
	Field    string
	Err      error
}

func (e *RecipeError) Error() string {
	id := e.RecipeID
	if id == "" {
		id = "(new)"
	}
	return fmt.Sprintf("recipe %s: %s: %v", id, e.Field, e.Err)
}

func (e *RecipeError) Unwrap() error { return e.Err }

// IngredientError ties a validation failure to an ingredient record.
type IngredientError struct {
	IngredientID string
	Field        string
	Err          error
}

func (e *IngredientError) Error() string {
	id := e.IngredientID
	if id == "" {
		id = "(new)"
	}
	return fmt.Sprintf("ingredient %s: %s: %v", id, e.Field, e.Err)
}

func (e *IngredientError) Unwrap() error { return e.Err }
