// Package catalog holds the static exercise catalog, the preference-ordered
// substitution graph, and the same-pattern variation suggestions. The data is
// loaded once at startup into immutable maps; nothing mutates it afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/claude/liftcoach/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedData []byte

// Catalog is the immutable exercise lookup. Keys are normalized
// (lowercased, trimmed) exercise names.
type Catalog struct {
	exercises    map[string]models.Exercise
	alternatives map[string][]string
	variations   map[string][]string
	names        []string
}

type catalogFile struct {
	Exercises     []models.Exercise   `yaml:"exercises"`
	Substitutions map[string][]string `yaml:"substitutions"`
	Variations    map[string][]string `yaml:"variations"`
}

// Load parses the embedded catalog data.
func Load() (*Catalog, error) {
	return Parse(embeddedData)
}

// Parse builds a Catalog from YAML data.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		exercises:    make(map[string]models.Exercise, len(f.Exercises)),
		alternatives: make(map[string][]string, len(f.Substitutions)),
		variations:   make(map[string][]string, len(f.Variations)),
	}
	for _, ex := range f.Exercises {
		key := normalize(ex.Name)
		if _, dup := c.exercises[key]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", ex.Name)
		}
		c.exercises[key] = ex
		c.names = append(c.names, ex.Name)
	}
	for name, alts := range f.Substitutions {
		if _, ok := c.exercises[normalize(name)]; !ok {
			return nil, fmt.Errorf("substitution list for unknown exercise %q", name)
		}
		c.alternatives[normalize(name)] = alts
	}
	for name, vars := range f.Variations {
		if _, ok := c.exercises[normalize(name)]; !ok {
			return nil, fmt.Errorf("variation list for unknown exercise %q", name)
		}
		c.variations[normalize(name)] = vars
	}
	return c, nil
}

// Get looks up an exercise by name, case-insensitively.
func (c *Catalog) Get(name string) (models.Exercise, bool) {
	ex, ok := c.exercises[normalize(name)]
	return ex, ok
}

// Alternatives returns the preference-ordered substitution candidates for an
// exercise. Nil when none are defined.
func (c *Catalog) Alternatives(name string) []string {
	return c.alternatives[normalize(name)]
}

// Variations returns same-pattern variation suggestions for an exercise,
// used when a stall calls for a variation swap. Nil when none are defined.
func (c *Catalog) Variations(name string) []string {
	return c.variations[normalize(name)]
}

// Names returns every catalog exercise name in file order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// EquipmentIncrement returns the smallest meaningful progression step for an
// exercise: 2.5 for compound barbell lifts, 2.0 for dumbbell work, 1.25
// otherwise. Chosen by equipment tags, never hardcoded per exercise.
func EquipmentIncrement(ex models.Exercise) float64 {
	required := models.NewEquipmentSet(ex.EquipmentRequired...)
	switch {
	case ex.IsCompound && required.Has(models.EquipBarbell):
		return 2.5
	case required.Has(models.EquipDumbbell):
		return 2.0
	default:
		return 1.25
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
