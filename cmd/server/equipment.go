package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/recipecost/internal/kitchen"
)

type equipmentRequest struct {
	Name         string  `json:"name"`
	Capacity     float64 `json:"capacity"`
	CapacityUnit string  `json:"capacityUnit"`
}

type equipmentResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Capacity     float64 `json:"capacity"`
	CapacityUnit string  `json:"capacityUnit"`
}

func toEquipmentResponse(eq kitchen.Equipment) equipmentResponse {
	return equipmentResponse{
		ID:           eq.ID,
		Name:         eq.Name,
		Capacity:     eq.Capacity,
		CapacityUnit: eq.CapacityUnit,
	}
}

func (s *server) handleEquipmentList(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListEquipment(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]equipmentResponse, 0, len(items))
	for _, eq := range items {
		out = append(out, toEquipmentResponse(eq))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleEquipmentGet(w http.ResponseWriter, r *http.Request) {
	eq, err := s.store.GetEquipment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEquipmentResponse(eq))
}

func (s *server) handleEquipmentCreate(w http.ResponseWriter, r *http.Request) {
	var req equipmentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	eq, err := kitchen.NewEquipment(kitchen.Equipment{
		Name:         req.Name,
		Capacity:     req.Capacity,
		CapacityUnit: req.CapacityUnit,
	}, s.units.Current())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.store.CreateEquipment(r.Context(), eq)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEquipmentResponse(created))
}
