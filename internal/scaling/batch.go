package scaling

import (
	"fmt"
	"math"
	"sort"

	"github.com/Simplici0/recipecost/internal/kitchen"
	"github.com/Simplici0/recipecost/internal/units"
)

// batchTolerance absorbs float noise in total/capacity so an exact fit
// never rounds up to an extra batch.
const batchTolerance = 1e-9

// Planner splits a scaled recipe into production batches.
type Planner struct {
	units *units.Catalog
}

// NewPlanner creates a planner bound to cat.
func NewPlanner(cat *units.Catalog) *Planner {
	return &Planner{units: cat}
}

type planConfig struct {
	equipmentID string
}

// PlanOption configures a single Plan call.
type PlanOption func(*planConfig)

// WithEquipment makes the named equipment the binding constraint instead
// of the one needing the most batches.
func WithEquipment(id string) PlanOption {
	return func(c *planConfig) {
		c.equipmentID = id
	}
}

// DimensionTotal is the summed quantity of all lines in one dimension,
// in that dimension's canonical unit.
type DimensionTotal struct {
	Dimension units.Dimension
	Unit      string
	Quantity  float64
}

// BatchPlan is how a scaled recipe is produced on one piece of equipment.
type BatchPlan struct {
	Equipment kitchen.Equipment
	Dimension units.Dimension
	// Unit is the canonical unit of Dimension; TotalQuantity, Capacity and
	// BatchQuantity are expressed in it.
	Unit          string
	TotalQuantity float64
	Capacity      float64
	Batches       int
	// BatchSize is portions per batch. It is left unrounded.
	BatchSize     float64
	BatchQuantity float64

	PrepMinutes      int
	CookMinutes      int
	EstimatedMinutes int

	Totals []DimensionTotal
}

// Plan computes the batches needed to produce s.
//
// Lines are summed per dimension. Equipment is relevant when its capacity
// unit shares a dimension with a positive total. The binding piece is the
// relevant one that needs the most batches for its own dimension, ties going
// to the fuller load, unless WithEquipment names another. Capacities of
// different dimensions are never compared directly.
//
// EstimatedMinutes assumes prep happens once up front for the whole
// quantity while cooking repeats for every batch. This is a scheduling
// policy, not a physical law.
func (p *Planner) Plan(s Scaled, equipment []kitchen.Equipment, opts ...PlanOption) (BatchPlan, error) {
	var cfg planConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	totals := make(map[units.Dimension]float64)
	for i, line := range s.Recipe.Lines {
		q, dim, err := p.units.ToCanonical(line.Quantity, line.UsageUnit)
		if err != nil {
			return BatchPlan{}, fmt.Errorf("line %d (%s): %w", i, line.Name, err)
		}
		totals[dim] += q
	}

	type candidate struct {
		eq       kitchen.Equipment
		dim      units.Dimension
		capacity float64
		load     float64
		batches  int
	}
	var candidates []candidate
	for _, eq := range equipment {
		if eq.Capacity <= 0 {
			return BatchPlan{}, &kitchen.FieldError{
				Field: "equipment " + eq.ID,
				Err:   &kitchen.InvalidQuantityError{Field: "capacity", Value: eq.Capacity},
			}
		}
		capacity, dim, err := p.units.ToCanonical(eq.Capacity, eq.CapacityUnit)
		if err != nil {
			return BatchPlan{}, fmt.Errorf("equipment %s: %w", eq.ID, err)
		}
		if totals[dim] <= 0 {
			continue
		}
		load := totals[dim] / capacity
		candidates = append(candidates, candidate{
			eq:       eq,
			dim:      dim,
			capacity: capacity,
			load:     load,
			batches:  batchesFor(load),
		})
	}

	var binding *candidate
	if cfg.equipmentID != "" {
		for i := range candidates {
			if candidates[i].eq.ID == cfg.equipmentID {
				binding = &candidates[i]
				break
			}
		}
		if binding == nil {
			return BatchPlan{}, &kitchen.NoEquipmentError{
				Offered: len(equipment),
				Reason:  fmt.Sprintf("equipment %s is not offered or holds no dimension of this recipe", cfg.equipmentID),
			}
		}
	} else {
		for i := range candidates {
			c := &candidates[i]
			if binding == nil || c.batches > binding.batches ||
				(c.batches == binding.batches && c.load > binding.load) {
				binding = c
			}
		}
	}
	if binding == nil {
		return BatchPlan{}, &kitchen.NoEquipmentError{Offered: len(equipment)}
	}

	total := totals[binding.dim]
	batches := binding.batches

	unit, _ := p.units.Canonical(binding.dim)
	plan := BatchPlan{
		Equipment:        binding.eq,
		Dimension:        binding.dim,
		Unit:             unit,
		TotalQuantity:    total,
		Capacity:         binding.capacity,
		Batches:          batches,
		BatchSize:        s.TargetYield / float64(batches),
		BatchQuantity:    total / float64(batches),
		PrepMinutes:      s.PrepMinutes,
		CookMinutes:      s.CookMinutes,
		EstimatedMinutes: s.PrepMinutes + s.CookMinutes*batches,
	}

	for dim, q := range totals {
		u, _ := p.units.Canonical(dim)
		plan.Totals = append(plan.Totals, DimensionTotal{Dimension: dim, Unit: u, Quantity: q})
	}
	sort.Slice(plan.Totals, func(i, j int) bool { return plan.Totals[i].Dimension < plan.Totals[j].Dimension })

	return plan, nil
}

func batchesFor(load float64) int {
	n := int(math.Ceil(load - batchTolerance))
	if n < 1 {
		return 1
	}
	return n
}
