package units

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Simplici0/recipecost/internal/logger"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	tol := 1e-9 * math.Max(1, math.Abs(want))
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestConvert_KnownPairs(t *testing.T) {
	c := Default()

	tests := []struct {
		q        float64
		from, to string
		want     float64
	}{
		{1, "lb", "oz", 16},
		{2, "kg", "g", 2000},
		{1, "gal", "qt", 4},
		{1, "cup", "tbsp", 16},
		{3, "tsp", "tbsp", 1},
		{2, "dozen", "each", 24},
		{500, "g", "kg", 0.5},
		{1, "Pounds", "LB", 1},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			got, err := c.Convert(tt.q, tt.from, tt.to)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			nearlyEqual(t, "converted", got, tt.want)
		})
	}
}

func TestConvert_RoundTripAllCompatiblePairs(t *testing.T) {
	c := Default()
	defs := c.Definitions()

	for _, a := range defs {
		for _, b := range defs {
			if a.Dimension != b.Dimension {
				continue
			}
			for _, q := range []float64{0.001, 1, 3.7, 12500} {
				there, err := c.Convert(q, a.Name, b.Name)
				if err != nil {
					t.Fatalf("convert %s->%s: %v", a.Name, b.Name, err)
				}
				back, err := c.Convert(there, b.Name, a.Name)
				if err != nil {
					t.Fatalf("convert %s->%s: %v", b.Name, a.Name, err)
				}
				nearlyEqual(t, a.Name+"->"+b.Name+"->"+a.Name, back, q)
			}
		}
	}
}

func TestConvert_SameUnitIsExact(t *testing.T) {
	c := Default()
	q := 0.1 + 0.2
	got, err := c.Convert(q, "lbs", "pound")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if got != q {
		t.Fatalf("same-unit conversion changed value: %v != %v", got, q)
	}
}

func TestConvert_Errors(t *testing.T) {
	c := Default()

	_, err := c.Convert(1, "lb", "cup")
	var dimErr *IncompatibleDimensionError
	if !errors.As(err, &dimErr) || !errors.Is(err, ErrIncompatibleDimension) {
		t.Fatalf("expected IncompatibleDimensionError, got %v", err)
	}
	if dimErr.FromDim != Mass || dimErr.ToDim != Volume {
		t.Fatalf("unexpected dimensions: %+v", dimErr)
	}

	_, err = c.Convert(1, "smidgen", "g")
	var unkErr *UnknownUnitError
	if !errors.As(err, &unkErr) || unkErr.Unit != "smidgen" {
		t.Fatalf("expected UnknownUnitError for smidgen, got %v", err)
	}
	if !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("expected errors.Is ErrUnknownUnit")
	}

	if _, err := c.Convert(1, "g", "bushel"); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("expected unknown target unit error, got %v", err)
	}
}

func TestCanonicalAndDimension(t *testing.T) {
	c := Default()

	for dim, want := range map[Dimension]string{Mass: "g", Volume: "ml", Count: "each"} {
		got, ok := c.Canonical(dim)
		if !ok || got != want {
			t.Fatalf("Canonical(%s)=%q,%v want %q", dim, got, ok, want)
		}
	}

	dim, err := c.DimensionOf("fl oz")
	if err != nil || dim != Volume {
		t.Fatalf("DimensionOf(fl oz)=%v,%v", dim, err)
	}

	q, dim, err := c.ToCanonical(2, "lb")
	if err != nil || dim != Mass {
		t.Fatalf("ToCanonical: %v %v", dim, err)
	}
	nearlyEqual(t, "2 lb in g", q, 907.18474)
}

func TestNewCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name string
		defs []Definition
		msg  string
	}{
		{
			name: "non-positive factor",
			defs: []Definition{{Name: "g", Dimension: Mass, Factor: 1}, {Name: "kg", Dimension: Mass, Factor: 0}},
			msg:  "factor must be greater than 0",
		},
		{
			name: "duplicate alias",
			defs: []Definition{{Name: "g", Dimension: Mass, Factor: 1}, {Name: "kg", Dimension: Mass, Factor: 1000, Aliases: []string{"G"}}},
			msg:  "declared twice",
		},
		{
			name: "missing canonical",
			defs: []Definition{{Name: "kg", Dimension: Mass, Factor: 1000}},
			msg:  "no canonical unit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.defs)
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("expected error containing %q, got %v", tt.msg, err)
			}
		})
	}
}

func TestParse_CustomCatalog(t *testing.T) {
	doc := `
[[dimension]]
name = "mass"
canonical = "g"

  [[dimension.unit]]
  name = "g"
  factor = 1

  [[dimension.unit]]
  name = "stone"
  factor = 6350.29318
`
	c, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := c.Convert(1, "stone", "g")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	nearlyEqual(t, "stone", got, 6350.29318)

	if _, err := c.Convert(1, "stone", "lb"); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("lb should not exist in custom catalog, got %v", err)
	}
}

func TestParse_CanonicalMustHaveFactorOne(t *testing.T) {
	doc := `
[[dimension]]
name = "mass"
canonical = "kg"

  [[dimension.unit]]
  name = "kg"
  factor = 1000
`
	if _, err := Parse([]byte(doc)); err == nil {
		t.Fatalf("expected canonical factor error")
	}
}

func TestWatcherReloadsCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "units.toml")
	first := `
[[dimension]]
name = "mass"
canonical = "g"
  [[dimension.unit]]
  name = "g"
  factor = 1
`
	if err := os.WriteFile(path, []byte(first), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	w, err := NewWatcher(path, logger.Discard())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if _, err := w.Current().DimensionOf("kg"); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("kg should be unknown before reload")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	second := first + `
  [[dimension.unit]]
  name = "kg"
  factor = 1000
`
	if err := os.WriteFile(path, []byte(second), 0o600); err != nil {
		t.Fatalf("rewrite catalog: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := w.Current().DimensionOf("kg"); err == nil {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("catalog was not reloaded")
}

func TestWatcherKeepsPreviousOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "units.toml")
	if err := os.WriteFile(path, defaultCatalog, 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	w, err := NewWatcher(path, logger.Discard())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	before := w.Current()
	if err := os.WriteFile(path, []byte("not = [valid"), 0o600); err != nil {
		t.Fatalf("write bad catalog: %v", err)
	}
	w.reload()

	if w.Current() != before {
		t.Fatalf("bad catalog replaced the previous one")
	}
}
