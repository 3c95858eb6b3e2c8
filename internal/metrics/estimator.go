package metrics

import (
	"time"

	"github.com/nash-core-poc/server/internal/physics"
)

type instrumentedEstimator struct {
	next physics.Estimator
	m    *Metrics
}

// InstrumentEstimator records status and latency of every estimate.
func InstrumentEstimator(next physics.Estimator, m *Metrics) physics.Estimator {
	if m == nil {
		return next
	}
	return &instrumentedEstimator{next: next, m: m}
}

func (e *instrumentedEstimator) Estimate(req physics.Request) physics.Result {
	start := time.Now()
	res := e.next.Estimate(req)
	e.m.ObserveEstimate(string(res.Status), time.Since(start))
	return res
}
