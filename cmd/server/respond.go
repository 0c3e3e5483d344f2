package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/recipecost/internal/kitchen"
	"github.com/Simplici0/recipecost/internal/store"
	"github.com/Simplici0/recipecost/internal/units"
)

const maxBodyBytes = 1 << 20

// badRequest is malformed input: a body that is not JSON or a query value
// that is not a number.
type badRequest struct {
	field string
	msg   string
}

func (e *badRequest) Error() string { return e.msg }

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code. Validation failures carry the
// offending field when the error knows it.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{Error: err.Error(), Field: errorField(err)}

	var bad *badRequest
	switch {
	case errors.As(err, &bad):
		body.Field = bad.field
		writeJSON(w, http.StatusBadRequest, body)
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, body)
	case isValidation(err):
		writeJSON(w, http.StatusUnprocessableEntity, body)
	default:
		s.log.Error("%s %s: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func isValidation(err error) bool {
	for _, target := range []error{
		kitchen.ErrInvalidYield,
		kitchen.ErrInvalidQuantity,
		kitchen.ErrInvalidRecord,
		kitchen.ErrUnknownIngredient,
		kitchen.ErrNoEquipment,
		units.ErrUnknownUnit,
		units.ErrIncompatibleDimension,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func errorField(err error) string {
	var recipeErr *kitchen.RecipeError
	if errors.As(err, &recipeErr) {
		return recipeErr.Field
	}
	var ingredientErr *kitchen.IngredientError
	if errors.As(err, &ingredientErr) {
		return ingredientErr.Field
	}
	var fieldErr *kitchen.FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr.Field
	}
	return ""
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &badRequest{msg: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	return nil
}

// queryFloat reads an optional numeric query parameter; absent is 0.
func queryFloat(r *http.Request, key string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &badRequest{field: key, msg: fmt.Sprintf("%s must be a number", key)}
	}
	return v, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
