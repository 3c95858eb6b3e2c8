package physics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Catalog is an immutable, case-insensitive set of named material profiles.
type Catalog struct {
	profiles map[string]MaterialProfile
	names    []string
	def      MaterialProfile
}

// DefaultCatalog returns the built-in Silicon, Germanium and MXene profiles.
func DefaultCatalog() *Catalog {
	c := &Catalog{profiles: map[string]MaterialProfile{}, def: DefaultMaterial}
	for _, p := range []MaterialProfile{Silicon, Germanium, MXene} {
		c.add(p)
	}
	return c
}

func catalogKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// shortName strips a trailing parenthetical, "MXene (Ti3C2Tx)" -> "MXene".
func shortName(name string) string {
	if i := strings.Index(name, " ("); i > 0 {
		return name[:i]
	}
	return name
}

func (c *Catalog) add(p MaterialProfile) {
	key := catalogKey(p.Name)
	if _, exists := c.profiles[key]; !exists {
		c.names = append(c.names, p.Name)
	} else {
		for i, n := range c.names {
			if catalogKey(n) == key {
				c.names[i] = p.Name
			}
		}
	}
	c.profiles[key] = p
	if short := catalogKey(shortName(p.Name)); short != key {
		if _, taken := c.profiles[short]; !taken {
			c.profiles[short] = p
		}
	}
}

// Lookup finds a profile by name, ignoring case and a trailing parenthetical.
func (c *Catalog) Lookup(name string) (MaterialProfile, bool) {
	if c == nil {
		return MaterialProfile{}, false
	}
	p, ok := c.profiles[catalogKey(name)]
	return p, ok
}

// Default returns the profile used when nothing else is specified.
func (c *Catalog) Default() MaterialProfile {
	if c == nil {
		return DefaultMaterial
	}
	return c.def
}

// Names lists profile names in insertion order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Profiles lists profiles in insertion order.
func (c *Catalog) Profiles() []MaterialProfile {
	names := c.Names()
	out := make([]MaterialProfile, 0, len(names))
	for _, n := range names {
		out = append(out, c.profiles[catalogKey(n)])
	}
	return out
}

// With returns a copy of c that also contains the given profiles.
// Profiles with an existing name replace the earlier entry.
func (c *Catalog) With(profiles ...MaterialProfile) *Catalog {
	next := &Catalog{profiles: map[string]MaterialProfile{}, def: c.Default()}
	for _, p := range c.Profiles() {
		next.add(p)
	}
	for _, p := range profiles {
		next.add(p)
		if catalogKey(p.Name) == catalogKey(next.def.Name) {
			next.def = p
		}
	}
	return next
}

type catalogFile struct {
	Default   string            `yaml:"default"`
	Materials []MaterialProfile `yaml:"materials"`
}

// LoadCatalogFile reads extra material profiles from a YAML file of the form
//
//	default: Silicon
//	materials:
//	  - name: Diamond
//	    v_s: 12000
//	    theta_d: 2230
//	    a: 1.0e-46
//	    b: 5.0e-25
//
// and merges them over base.
func LoadCatalogFile(path string, base *Catalog) (*Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load material catalog %q: %w", path, err)
	}

	var cf catalogFile
	if err := k.UnmarshalWithConf("", &cf, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("parse material catalog %q: %w", path, err)
	}

	seen := map[string]bool{}
	for i, p := range cf.Materials {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("material catalog %q: entry %d has no name", path, i)
		}
		if seen[catalogKey(p.Name)] {
			return nil, fmt.Errorf("material catalog %q: duplicate material %q", path, p.Name)
		}
		seen[catalogKey(p.Name)] = true
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("material catalog %q: %s: %w", path, p.Name, err)
		}
	}

	if base == nil {
		base = DefaultCatalog()
	}
	merged := base.With(cf.Materials...)
	if cf.Default != "" {
		def, ok := merged.Lookup(cf.Default)
		if !ok {
			known := merged.Names()
			sort.Strings(known)
			return nil, fmt.Errorf("material catalog %q: default %q not in %v", path, cf.Default, known)
		}
		merged.def = def
	}
	return merged, nil
}
