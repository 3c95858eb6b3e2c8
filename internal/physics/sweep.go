package physics

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Sweep evaluates reqs with at most limit estimator calls in flight.
// Results keep the order of reqs. Only context cancellation returns an error;
// invalid requests produce error results in place.
func Sweep(ctx context.Context, est Estimator, reqs []Request, limit int) ([]Result, error) {
	if est == nil {
		est = Callaway
	}
	out := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = est.Estimate(req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DiameterSweep builds one request per diameter at a fixed temperature and material.
func DiameterSweep(temperatureK float64, material MaterialProfile, diameters []float64) []Request {
	reqs := make([]Request, 0, len(diameters))
	for _, d := range diameters {
		reqs = append(reqs, Request{TemperatureK: temperatureK, DiameterNM: d, Material: material})
	}
	return reqs
}

// DefaultDiameters is the grid used when a sweep names no diameters.
var DefaultDiameters = []float64{10, 15, 22, 30, 50, 75, 100, 150, 200}
