// Package units holds the unit catalog used by the costing engine: the known
// units of each physical dimension and their factors relative to that
// dimension's canonical unit.
package units

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Dimension is a physical quantity kind. Conversions never cross dimensions.
type Dimension string

const (
	Mass   Dimension = "mass"
	Volume Dimension = "volume"
	Count  Dimension = "count"
)

var (
	ErrUnknownUnit           = errors.New("unknown unit")
	ErrIncompatibleDimension = errors.New("incompatible unit dimensions")
)

// UnknownUnitError reports a unit name missing from the catalog.
type UnknownUnitError struct {
	Unit string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Unit)
}

func (e *UnknownUnitError) Is(target error) bool { return target == ErrUnknownUnit }

// IncompatibleDimensionError reports a conversion between units of
// different dimensions, e.g. lb to cup.
type IncompatibleDimensionError struct {
	From, To       string
	FromDim, ToDim Dimension
}

func (e *IncompatibleDimensionError) Error() string {
	return fmt.Sprintf("cannot convert %s (%s) to %s (%s)", e.From, e.FromDim, e.To, e.ToDim)
}

func (e *IncompatibleDimensionError) Is(target error) bool {
	return target == ErrIncompatibleDimension
}

// Definition describes one unit of the catalog.
type Definition struct {
	Name      string
	Dimension Dimension
	// Factor is the size of one unit expressed in the canonical unit of
	// its dimension.
	Factor  float64
	Aliases []string
}

type entry struct {
	name   string
	dim    Dimension
	factor float64
}

// Catalog is an immutable unit table. It is safe for concurrent use.
type Catalog struct {
	entries   map[string]entry
	canonical map[Dimension]string
	defs      []Definition
}

// Normalize lower-cases and trims a unit name the way the catalog keys it.
func Normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// NewCatalog builds a catalog from unit definitions. Every dimension must
// define exactly one unit with factor 1, which becomes its canonical unit.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{
		entries:   make(map[string]entry),
		canonical: make(map[Dimension]string),
	}

	for _, def := range defs {
		name := Normalize(def.Name)
		if name == "" {
			return nil, fmt.Errorf("unit in dimension %q has no name", def.Dimension)
		}
		if def.Dimension == "" {
			return nil, fmt.Errorf("unit %q has no dimension", name)
		}
		if def.Factor <= 0 {
			return nil, fmt.Errorf("unit %q: factor must be greater than 0, got %v", name, def.Factor)
		}

		e := entry{name: name, dim: def.Dimension, factor: def.Factor}
		keys := append([]string{name}, def.Aliases...)
		for _, key := range keys {
			key = Normalize(key)
			if key == "" {
				continue
			}
			if _, dup := c.entries[key]; dup {
				return nil, fmt.Errorf("unit %q declared twice", key)
			}
			c.entries[key] = e
		}

		if def.Factor == 1 {
			if prev, ok := c.canonical[def.Dimension]; ok {
				return nil, fmt.Errorf("dimension %q has two canonical units: %q and %q", def.Dimension, prev, name)
			}
			c.canonical[def.Dimension] = name
		}

		c.defs = append(c.defs, Definition{
			Name:      name,
			Dimension: def.Dimension,
			Factor:    def.Factor,
			Aliases:   append([]string(nil), def.Aliases...),
		})
	}

	for _, def := range c.defs {
		if _, ok := c.canonical[def.Dimension]; !ok {
			return nil, fmt.Errorf("dimension %q has no canonical unit (factor 1)", def.Dimension)
		}
	}

	sort.SliceStable(c.defs, func(i, j int) bool {
		if c.defs[i].Dimension != c.defs[j].Dimension {
			return c.defs[i].Dimension < c.defs[j].Dimension
		}
		return c.defs[i].Factor < c.defs[j].Factor
	})

	return c, nil
}

func (c *Catalog) lookup(unit string) (entry, error) {
	e, ok := c.entries[Normalize(unit)]
	if !ok {
		return entry{}, &UnknownUnitError{Unit: unit}
	}
	return e, nil
}

// Convert expresses quantity, given in from, in the unit to.
func (c *Catalog) Convert(quantity float64, from, to string) (float64, error) {
	f, err := c.lookup(from)
	if err != nil {
		return 0, err
	}
	t, err := c.lookup(to)
	if err != nil {
		return 0, err
	}
	if f.dim != t.dim {
		return 0, &IncompatibleDimensionError{From: from, To: to, FromDim: f.dim, ToDim: t.dim}
	}
	if f.name == t.name {
		return quantity, nil
	}
	return quantity * f.factor / t.factor, nil
}

// DimensionOf returns the dimension a unit belongs to.
func (c *Catalog) DimensionOf(unit string) (Dimension, error) {
	e, err := c.lookup(unit)
	if err != nil {
		return "", err
	}
	return e.dim, nil
}

// Compatible reports whether both units are known and share a dimension.
func (c *Catalog) Compatible(a, b string) error {
	_, err := c.Convert(1, a, b)
	return err
}

// Canonical returns the canonical unit name of a dimension.
func (c *Catalog) Canonical(dim Dimension) (string, bool) {
	name, ok := c.canonical[dim]
	return name, ok
}

// ToCanonical converts quantity into the canonical unit of its dimension.
func (c *Catalog) ToCanonical(quantity float64, unit string) (float64, Dimension, error) {
	e, err := c.lookup(unit)
	if err != nil {
		return 0, "", err
	}
	return quantity * e.factor, e.dim, nil
}

// Definitions lists the catalog ordered by dimension then unit size.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}
