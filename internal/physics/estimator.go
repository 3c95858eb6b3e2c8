package physics

import (
	"fmt"
	"math"
)

// Estimator computes thermal conductivity for a request. Implementations must
// be safe for concurrent use.
type Estimator interface {
	Estimate(req Request) Result
}

type EstimatorFunc func(req Request) Result

func (f EstimatorFunc) Estimate(req Request) Result {
	return f(req)
}

// Callaway is the plain relaxation-time estimator.
var Callaway Estimator = EstimatorFunc(Estimate)

// Estimate evaluates the Callaway single-mode relaxation-time model for a
// nanowire of diameter D at temperature T. Invalid input yields an error
// result rather than a panic.
func Estimate(req Request) Result {
	if err := req.Validate(); err != nil {
		return ErrorResult(err)
	}

	m := req.Material
	T := req.TemperatureK
	D := req.DiameterNM * 1e-9

	boundary := m.SoundVelocity / D
	umklappT := m.UmklappCoeff * T * math.Exp(-m.DebyeTemperature/(3*T))
	omegaPerX := BoltzmannK * T / ReducedPlanck

	integrand := func(x float64) float64 {
		w := x * omegaPerX
		w2 := w * w
		rate := boundary + m.ImpurityCoeff*w2*w2 + umklappT*w2
		// x^4 e^x/(e^x-1)^2 rewritten with e^-x so large x cannot overflow
		ex := math.Exp(-x)
		den := -math.Expm1(-x)
		x2 := x * x
		return x2 * x2 * ex / (den * den) / rate
	}

	xMax := m.DebyeTemperature / T
	integral := 0.0
	if xMax > LowerCutoff {
		// a missed tolerance still leaves a usable estimate
		integral, _, _ = Integrate(integrand, LowerCutoff, xMax, QuadOptions{})
	}

	scale := omegaPerX * omegaPerX * omegaPerX
	prefactor := BoltzmannK / (2 * math.Pi * math.Pi * m.SoundVelocity) * scale
	k := prefactor * integral
	if !finite(k) {
		return ErrorResult(fmt.Errorf("%w: conductivity is not finite for T=%g D=%g", ErrInvalidInput, T, req.DiameterNM))
	}

	return Result{
		Status:       StatusSuccess,
		K:            math.Round(k*100) / 100,
		TemperatureK: T,
		DiameterNM:   req.DiameterNM,
		Material:     m.Name,
		Note:         CallawayNote,
	}
}
