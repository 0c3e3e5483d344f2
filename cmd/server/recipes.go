package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/recipecost/internal/kitchen"
	"github.com/Simplici0/recipecost/internal/pricing"
	"github.com/Simplici0/recipecost/internal/scaling"
	"github.com/Simplici0/recipecost/internal/units"
)

type lineJSON struct {
	IngredientID string  `json:"ingredientId,omitempty"`
	Name         string  `json:"name,omitempty"`
	Quantity     float64 `json:"quantity"`
	UsageUnit    string  `json:"usageUnit"`
}

type recipeRequest struct {
	Name                  string     `json:"name"`
	OriginalYield         float64    `json:"originalYield"`
	YieldUnit             string     `json:"yieldUnit"`
	PrepMinutes           float64    `json:"prepMinutes"`
	CookMinutes           float64    `json:"cookMinutes"`
	MenuPrice             float64    `json:"menuPrice"`
	TargetFoodCostPercent float64    `json:"targetFoodCostPercent"`
	Lines                 []lineJSON `json:"lines"`
}

type recipeResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	OriginalYield         float64    `json:"originalYield"`
	YieldUnit             string     `json:"yieldUnit"`
	PrepMinutes           float64    `json:"prepMinutes"`
	CookMinutes           float64    `json:"cookMinutes"`
	MenuPrice             float64    `json:"menuPrice"`
	TargetFoodCostPercent float64    `json:"targetFoodCostPercent"`
	Lines                 []lineJSON `json:"lines"`
}

type scaleResponse struct {
	Factor      float64           `json:"factor"`
	TargetYield float64           `json:"targetYield"`
	PrepMinutes int               `json:"prepMinutes"`
	CookMinutes int               `json:"cookMinutes"`
	Recipe      recipeResponse    `json:"recipe"`
	Financials  pricing.Breakdown `json:"financials"`
}

type planRequest struct {
	Yield  float64 `json:"yield"`
	Factor float64 `json:"factor"`
	// EquipmentIDs limits the candidates; empty means every known piece.
	EquipmentIDs []string `json:"equipmentIds"`
	// EquipmentID forces the binding constraint.
	EquipmentID string `json:"equipmentId"`
}

type dimensionTotalJSON struct {
	Dimension units.Dimension `json:"dimension"`
	Unit      string          `json:"unit"`
	Quantity  float64         `json:"quantity"`
}

type planResponse struct {
	Factor           float64              `json:"factor"`
	TargetYield      float64              `json:"targetYield"`
	Equipment        equipmentResponse    `json:"equipment"`
	Dimension        units.Dimension      `json:"dimension"`
	Unit             string               `json:"unit"`
	TotalQuantity    float64              `json:"totalQuantity"`
	Capacity         float64              `json:"capacity"`
	Batches          int                  `json:"batches"`
	BatchSize        float64              `json:"batchSize"`
	BatchQuantity    float64              `json:"batchQuantity"`
	PrepMinutes      int                  `json:"prepMinutes"`
	CookMinutes      int                  `json:"cookMinutes"`
	EstimatedMinutes int                  `json:"estimatedMinutes"`
	Totals           []dimensionTotalJSON `json:"totals"`
}

func (req recipeRequest) toRecipe(id string) kitchen.Recipe {
	r := kitchen.Recipe{
		ID:                    id,
		Name:                  req.Name,
		OriginalYield:         req.OriginalYield,
		YieldUnit:             req.YieldUnit,
		PrepMinutes:           req.PrepMinutes,
		CookMinutes:           req.CookMinutes,
		MenuPrice:             req.MenuPrice,
		TargetFoodCostPercent: req.TargetFoodCostPercent,
		Lines:                 make([]kitchen.Line, 0, len(req.Lines)),
	}
	for _, l := range req.Lines {
		r.Lines = append(r.Lines, kitchen.Line{
			IngredientID: l.IngredientID,
			Name:         l.Name,
			Quantity:     l.Quantity,
			UsageUnit:    l.UsageUnit,
		})
	}
	return r
}

func toRecipeResponse(r kitchen.Recipe) recipeResponse {
	resp := recipeResponse{
		ID:                    r.ID,
		Name:                  r.Name,
		OriginalYield:         r.OriginalYield,
		YieldUnit:             r.YieldUnit,
		PrepMinutes:           r.PrepMinutes,
		CookMinutes:           r.CookMinutes,
		MenuPrice:             r.MenuPrice,
		TargetFoodCostPercent: r.TargetFoodCostPercent,
		Lines:                 make([]lineJSON, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		resp.Lines = append(resp.Lines, lineJSON{
			IngredientID: l.IngredientID,
			Name:         l.Name,
			Quantity:     l.Quantity,
			UsageUnit:    l.UsageUnit,
		})
	}
	return resp
}

func (s *server) handleRecipesList(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListRecipes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]recipeResponse, 0, len(items))
	for _, rec := range items {
		out = append(out, toRecipeResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleRecipeGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetRecipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecipeResponse(rec))
}

func (s *server) handleRecipeCreate(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := kitchen.NewRecipe(req.toRecipe(""), s.units.Current())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.store.CreateRecipe(r.Context(), rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("recipe %s created (%s, %d lines)", created.ID, created.Name, len(created.Lines))
	writeJSON(w, http.StatusCreated, toRecipeResponse(created))
}

func (s *server) handleRecipeUpdate(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := kitchen.NewRecipe(req.toRecipe(chi.URLParam(r, "id")), s.units.Current())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.UpdateRecipe(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecipeResponse(rec))
}

func (s *server) handleRecipeFinancials(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetRecipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pantry, err := s.store.Pantry(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	fin, err := s.calculator(s.units.Current()).Summarize(rec, pantry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !fin.Complete() {
		s.log.Debug("recipe %s: %d unresolved lines", rec.ID, len(fin.Unresolved))
	}
	writeJSON(w, http.StatusOK, pricing.FromFinancials(fin))
}

func (s *server) handleRecipeScale(w http.ResponseWriter, r *http.Request) {
	yield, err := queryFloat(r, "yield")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	factor, err := queryFloat(r, "factor")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.GetRecipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	scaled, err := s.scaler().Scale(rec, scaling.Target{Yield: yield, Factor: factor})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pantry, err := s.store.Pantry(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	fin, err := s.calculator(s.units.Current()).Summarize(scaled.Recipe, pantry)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, scaleResponse{
		Factor:      scaled.Factor,
		TargetYield: scaled.TargetYield,
		PrepMinutes: scaled.PrepMinutes,
		CookMinutes: scaled.CookMinutes,
		Recipe:      toRecipeResponse(scaled.Recipe),
		Financials:  pricing.FromFinancials(fin),
	})
}

func (s *server) handleRecipePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	rec, err := s.store.GetRecipe(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	scaled, err := s.scaler().Scale(rec, scaling.Target{Yield: req.Yield, Factor: req.Factor})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	equipment, err := s.loadEquipment(r.Context(), req.EquipmentIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var opts []scaling.PlanOption
	if req.EquipmentID != "" {
		opts = append(opts, scaling.WithEquipment(req.EquipmentID))
	}
	plan, err := scaling.NewPlanner(s.units.Current()).Plan(scaled, equipment, opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := planResponse{
		Factor:           scaled.Factor,
		TargetYield:      scaled.TargetYield,
		Equipment:        toEquipmentResponse(plan.Equipment),
		Dimension:        plan.Dimension,
		Unit:             plan.Unit,
		TotalQuantity:    plan.TotalQuantity,
		Capacity:         plan.Capacity,
		Batches:          plan.Batches,
		BatchSize:        plan.BatchSize,
		BatchQuantity:    plan.BatchQuantity,
		PrepMinutes:      plan.PrepMinutes,
		CookMinutes:      plan.CookMinutes,
		EstimatedMinutes: plan.EstimatedMinutes,
		Totals:           make([]dimensionTotalJSON, 0, len(plan.Totals)),
	}
	for _, t := range plan.Totals {
		resp.Totals = append(resp.Totals, dimensionTotalJSON{Dimension: t.Dimension, Unit: t.Unit, Quantity: t.Quantity})
	}
	writeJSON(w, http.StatusOK, resp)
}

// loadEquipment resolves the requested ids, or every known piece when none
// are given. An unknown id is a validation failure, not a 404: the recipe
// in the path exists.
func (s *server) loadEquipment(ctx context.Context, ids []string) ([]kitchen.Equipment, error) {
	if len(ids) == 0 {
		return s.store.ListEquipment(ctx)
	}

	out := make([]kitchen.Equipment, 0, len(ids))
	for _, id := range ids {
		eq, err := s.store.GetEquipment(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return nil, &kitchen.FieldError{
					Field: "equipmentIds",
					Err:   fmt.Errorf("%w: equipment %s does not exist", kitchen.ErrInvalidRecord, id),
				}
			}
			return nil, err
		}
		out = append(out, eq)
	}
	return out, nil
}
