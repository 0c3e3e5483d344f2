package main

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/recipecost/internal/kitchen"
	"github.com/Simplici0/recipecost/internal/pricing"
	"github.com/Simplici0/recipecost/internal/units"
)

type ingredientRequest struct {
	Name       string  `json:"name"`
	SupplierID string  `json:"supplierId"`
	APUnit     string  `json:"apUnit"`
	PriceMode  string  `json:"priceMode"`
	APCost     float64 `json:"apCost"`
	// APQuantity is the purchased quantity when PriceMode is "total".
	APQuantity   float64 `json:"apQuantity"`
	YieldPercent float64 `json:"yieldPercent"`
	EPUnit       string  `json:"epUnit"`
}

type ingredientResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	SupplierID   string  `json:"supplierId"`
	APUnit       string  `json:"apUnit"`
	PriceMode    string  `json:"priceMode"`
	APCost       float64 `json:"apCost"`
	APQuantity   float64 `json:"apQuantity,omitempty"`
	YieldPercent float64 `json:"yieldPercent"`
	EPUnit       string  `json:"epUnit"`
}

type ingredientCostResponse struct {
	IngredientID string         `json:"ingredientId"`
	Unit         string         `json:"unit"`
	YieldPercent float64        `json:"yieldPercent"`
	APCost       pricing.Amount `json:"apCost"`
	EPCost       pricing.Amount `json:"epCost"`
}

func (req ingredientRequest) toIngredient(id string) (kitchen.Ingredient, error) {
	ing := kitchen.Ingredient{
		ID:           id,
		Name:         req.Name,
		SupplierID:   req.SupplierID,
		APUnit:       req.APUnit,
		YieldPercent: req.YieldPercent,
		EPUnit:       req.EPUnit,
	}
	switch req.PriceMode {
	case "", kitchen.PriceTotal.String():
		ing.Price = kitchen.PricedByTotal(req.APCost, req.APQuantity)
	case kitchen.PricePerUnit.String():
		ing.Price = kitchen.PricedPerUnit(req.APCost)
	default:
		return kitchen.Ingredient{}, &badRequest{
			field: "priceMode",
			msg:   fmt.Sprintf("priceMode must be %q or %q", kitchen.PriceTotal, kitchen.PricePerUnit),
		}
	}
	return ing, nil
}

func toIngredientResponse(ing kitchen.Ingredient) ingredientResponse {
	resp := ingredientResponse{
		ID:           ing.ID,
		Name:         ing.Name,
		SupplierID:   ing.SupplierID,
		APUnit:       ing.APUnit,
		PriceMode:    ing.Price.Mode.String(),
		APCost:       ing.Price.Amount,
		YieldPercent: ing.YieldPercent,
		EPUnit:       ing.EPUnit,
	}
	if ing.Price.Mode == kitchen.PriceTotal {
		resp.APQuantity = ing.Price.Quantity
	}
	return resp
}

func (s *server) handleIngredientsList(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListIngredients(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]ingredientResponse, 0, len(items))
	for _, ing := range items {
		out = append(out, toIngredientResponse(ing))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleIngredientGet(w http.ResponseWriter, r *http.Request) {
	ing, err := s.store.GetIngredient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIngredientResponse(ing))
}

func (s *server) handleIngredientCreate(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ing, err := req.toIngredient("")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ing, err = kitchen.NewIngredient(ing, s.units.Current())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.store.CreateIngredient(r.Context(), ing)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("ingredient %s created (%s)", created.ID, created.Name)
	writeJSON(w, http.StatusCreated, toIngredientResponse(created))
}

func (s *server) handleIngredientUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ingredientRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ing, err := req.toIngredient(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ing, err = kitchen.NewIngredient(ing, s.units.Current())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.UpdateIngredient(r.Context(), ing); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIngredientResponse(ing))
}

// handleIngredientCost prices one unit of an ingredient, as purchased and
// as edible portion. The unit defaults to the ingredient's EP unit.
func (s *server) handleIngredientCost(w http.ResponseWriter, r *http.Request) {
	ing, err := s.store.GetIngredient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	unit := units.Normalize(r.URL.Query().Get("unit"))
	if unit == "" {
		unit = ing.EPUnit
	}

	calc := s.calculator(s.units.Current())
	ap, err := calc.APCostInUnit(ing, unit)
	if err != nil {
		s.writeError(w, r, &kitchen.FieldError{Field: "unit", Err: err})
		return
	}
	ep, err := calc.EPCostPerUnit(ing, unit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ingredientCostResponse{
		IngredientID: ing.ID,
		Unit:         unit,
		YieldPercent: ing.YieldPercent,
		APCost:       pricing.UnitCost(ap),
		EPCost:       pricing.UnitCost(ep),
	})
}
