package units

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed default.toml
var defaultCatalog []byte

type catalogFile struct {
	Dimensions []dimensionTable `toml:"dimension"`
}

type dimensionTable struct {
	Name      string      `toml:"name"`
	Canonical string      `toml:"canonical"`
	Units     []unitTable `toml:"unit"`
}

type unitTable struct {
	Name    string   `toml:"name"`
	Factor  float64  `toml:"factor"`
	Aliases []string `toml:"aliases"`
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded unit catalog: %v", err))
	}
	return c
}

// Load reads a TOML unit catalog.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read unit catalog: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a TOML unit catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a TOML unit catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode unit catalog: %w", err)
	}
	if len(file.Dimensions) == 0 {
		return nil, fmt.Errorf("unit catalog defines no dimensions")
	}

	var defs []Definition
	for _, dim := range file.Dimensions {
		if dim.Name == "" {
			return nil, fmt.Errorf("unit catalog has a dimension without a name")
		}
		canonicalSeen := false
		for _, u := range dim.Units {
			if Normalize(u.Name) == Normalize(dim.Canonical) {
				if u.Factor != 1 {
					return nil, fmt.Errorf("dimension %q: canonical unit %q must have factor 1", dim.Name, dim.Canonical)
				}
				canonicalSeen = true
			}
			defs = append(defs, Definition{
				Name:      u.Name,
				Dimension: Dimension(dim.Name),
				Factor:    u.Factor,
				Aliases:   u.Aliases,
			})
		}
		if !canonicalSeen {
			return nil, fmt.Errorf("dimension %q: canonical unit %q is not defined", dim.Name, dim.Canonical)
		}
	}

	return NewCatalog(defs)
}
