package physics

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidInput marks every rejection of estimator input.
var ErrInvalidInput = errors.New("invalid estimator input")

// Request is a single estimator invocation. It is comparable and can be used as a map key.
type Request struct {
	TemperatureK float64         `json:"T"`
	DiameterNM   float64         `json:"D"`
	Material     MaterialProfile `json:"material"`
}

// Validate rejects non-positive or non-finite geometry and temperature and
// unusable material coefficients.
func (r Request) Validate() error {
	if !finite(r.TemperatureK) || r.TemperatureK <= 0 {
		return fmt.Errorf("%w: temperature must be a positive number of kelvin, got %g", ErrInvalidInput, r.TemperatureK)
	}
	if !finite(r.DiameterNM) || r.DiameterNM <= 0 {
		return fmt.Errorf("%w: diameter must be a positive number of nanometres, got %g", ErrInvalidInput, r.DiameterNM)
	}
	return r.Material.Validate()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NewRequest builds a Request from loosely typed decision fields.
//
// temperature and diameter may be nil (defaults apply), JSON numbers or
// numeric strings. materialProps may be nil (catalog default), a material
// name, or an object with an optional "name" plus any of "v_s", "Theta_D",
// "A" and "B". A name found in the catalog seeds the profile and the given
// coefficients override it.
func NewRequest(temperature, diameter, materialProps any, catalog *Catalog) (Request, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	t, err := coerceFloat("T", temperature, DefaultTemperatureK)
	if err != nil {
		return Request{}, err
	}
	d, err := coerceFloat("D", diameter, DefaultDiameterNM)
	if err != nil {
		return Request{}, err
	}
	m, err := coerceMaterial(materialProps, catalog)
	if err != nil {
		return Request{}, err
	}

	req := Request{TemperatureK: t, DiameterNM: d, Material: m}
	return req, nil
}

func coerceFloat(field string, v any, fallback float64) (float64, error) {
	switch n := v.(type) {
	case nil:
		return fallback, nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not numeric: %q", ErrInvalidInput, field, n.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not numeric: %q", ErrInvalidInput, field, n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s is not numeric: %v", ErrInvalidInput, field, v)
	}
}

// coefficient keys, lower-cased
var coefficientKeys = map[string]func(*MaterialProfile) *float64{
	"v_s":     func(p *MaterialProfile) *float64 { return &p.SoundVelocity },
	"theta_d": func(p *MaterialProfile) *float64 { return &p.DebyeTemperature },
	"a":       func(p *MaterialProfile) *float64 { return &p.ImpurityCoeff },
	"b":       func(p *MaterialProfile) *float64 { return &p.UmklappCoeff },
}

func coerceMaterial(v any, catalog *Catalog) (MaterialProfile, error) {
	switch props := v.(type) {
	case nil:
		return catalog.Default(), nil
	case MaterialProfile:
		return props, nil
	case string:
		if strings.TrimSpace(props) == "" {
			return catalog.Default(), nil
		}
		p, ok := catalog.Lookup(props)
		if !ok {
			return MaterialProfile{}, fmt.Errorf("%w: unknown material %q", ErrInvalidInput, props)
		}
		return p, nil
	case map[string]any:
		return materialFromMap(props, catalog)
	default:
		return MaterialProfile{}, fmt.Errorf("%w: material_props must be an object, got %T", ErrInvalidInput, v)
	}
}

func materialFromMap(props map[string]any, catalog *Catalog) (MaterialProfile, error) {
	fields, err := foldKeys(props)
	if err != nil {
		return MaterialProfile{}, err
	}
	profile := catalog.Default()

	if raw := fields["name"]; raw != nil {
		s, ok := raw.(string)
		if !ok {
			return MaterialProfile{}, fmt.Errorf("%w: material name must be a string, got %T", ErrInvalidInput, raw)
		}
		if name := strings.TrimSpace(s); name != "" {
			if known, ok := catalog.Lookup(name); ok {
				profile = known
			} else {
				profile.Name = name
			}
		}
	}

	for key, raw := range fields {
		field, ok := coefficientKeys[key]
		if !ok || raw == nil {
			continue
		}
		f, err := coerceFloat(key, raw, 0)
		if err != nil {
			return MaterialProfile{}, err
		}
		*field(&profile) = f
	}
	return profile, nil
}

// foldKeys lower-cases the keys of props. Keys that differ only by case are
// rejected so the result never depends on map order.
func foldKeys(props map[string]any) (map[string]any, error) {
	folded := make(map[string]any, len(props))
	original := make(map[string]string, len(props))
	for key, raw := range props {
		lower := strings.ToLower(key)
		if prev, dup := original[lower]; dup {
			first, second := min(prev, key), max(prev, key)
			return nil, fmt.Errorf("%w: duplicate material key %q and %q", ErrInvalidInput, first, second)
		}
		original[lower] = key
		folded[lower] = raw
	}
	return folded, nil
}
