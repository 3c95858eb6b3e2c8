package physics

import (
	"fmt"
	"math"
)

// MaterialProfile bundles the scattering coefficients of one material.
// It is a comparable value type and is never mutated after construction.
type MaterialProfile struct {
	Name             string  `json:"name" yaml:"name"`
	SoundVelocity    float64 `json:"v_s" yaml:"v_s"`         // m/s
	DebyeTemperature float64 `json:"Theta_D" yaml:"theta_d"` // K
	ImpurityCoeff    float64 `json:"A" yaml:"a"`             // Rayleigh point-defect coefficient, s^3
	UmklappCoeff     float64 `json:"B" yaml:"b"`             // phonon-phonon coefficient, s/K
}

var (
	Silicon = MaterialProfile{
		Name:             "Silicon",
		SoundVelocity:    8433.0,
		DebyeTemperature: 645.0,
		ImpurityCoeff:    1.32e-45,
		UmklappCoeff:     1.73e-24,
	}
	Germanium = MaterialProfile{
		Name:             "Germanium",
		SoundVelocity:    5400.0,
		DebyeTemperature: 374.0,
		ImpurityCoeff:    1.0e-44,
		UmklappCoeff:     2.0e-23,
	}
	MXene = MaterialProfile{
		Name:             "MXene (Ti3C2Tx)",
		SoundVelocity:    6200.0,
		DebyeTemperature: 500.0,
		ImpurityCoeff:    1.0e-43,
		UmklappCoeff:     1.0e-23,
	}
)

// DefaultMaterial is used whenever a request names no material.
var DefaultMaterial = Silicon

// Validate checks that every coefficient is finite and physically usable.
func (p MaterialProfile) Validate() error {
	checks := []struct {
		name  string
		value float64
		min   float64
		open  bool
	}{
		{"v_s", p.SoundVelocity, 0, true},
		{"Theta_D", p.DebyeTemperature, 0, true},
		{"A", p.ImpurityCoeff, 0, false},
		{"B", p.UmklappCoeff, 0, false},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("%w: material coefficient %s is not finite", ErrInvalidInput, c.name)
		}
		if c.open && c.value <= c.min {
			return fmt.Errorf("%w: material coefficient %s must be positive, got %g", ErrInvalidInput, c.name, c.value)
		}
		if !c.open && c.value < c.min {
			return fmt.Errorf("%w: material coefficient %s must not be negative, got %g", ErrInvalidInput, c.name, c.value)
		}
	}
	return nil
}
