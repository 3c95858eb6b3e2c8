package physics

const (
	// Boltzmann constant, J/K.
	BoltzmannK = 1.380649e-23
	// Reduced Planck constant, J*s.
	ReducedPlanck = 1.0545718e-34

	// LowerCutoff keeps the integral away from the removable singularity at x = 0.
	LowerCutoff = 0.1

	DefaultTemperatureK = 300.0
	DefaultDiameterNM   = 100.0

	CallawayNote = "Calculated using Callaway BTE Model"
)
