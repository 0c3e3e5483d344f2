package main

import (
	"net/http"

	"github.com/Simplici0/recipecost/internal/units"
)

type unitResponse struct {
	Name      string          `json:"name"`
	Dimension units.Dimension `json:"dimension"`
	Factor    float64         `json:"factor"`
	Canonical bool            `json:"canonical"`
	Aliases   []string        `json:"aliases"`
}

func (s *server) handleUnitsList(w http.ResponseWriter, r *http.Request) {
	cat := s.units.Current()

	defs := cat.Definitions()
	out := make([]unitResponse, 0, len(defs))
	for _, d := range defs {
		canonical, _ := cat.Canonical(d.Dimension)
		aliases := d.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		out = append(out, unitResponse{
			Name:      d.Name,
			Dimension: d.Dimension,
			Factor:    d.Factor,
			Canonical: d.Name == canonical,
			Aliases:   aliases,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
