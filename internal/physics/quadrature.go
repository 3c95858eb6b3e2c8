package physics

import (
	"container/heap"
	"errors"
	"math"
)

// ErrQuadratureLimit is reported when subdivision stops before the tolerance is met.
var ErrQuadratureLimit = errors.New("quadrature: subdivision limit reached")

// QuadOptions bounds the adaptive integration. Zero values pick the defaults.
type QuadOptions struct {
	AbsTol float64
	RelTol float64
	Limit  int
}

const (
	defaultAbsTol = 1.49e-8
	defaultRelTol = 1.49e-8
	defaultLimit  = 200
)

func (o QuadOptions) withDefaults() QuadOptions {
	if o.AbsTol <= 0 {
		o.AbsTol = defaultAbsTol
	}
	if o.RelTol <= 0 {
		o.RelTol = defaultRelTol
	}
	if o.Limit <= 0 {
		o.Limit = defaultLimit
	}
	return o
}

// 15-point Kronrod abscissae and weights with the embedded 7-point Gauss rule.
var (
	xgk = [8]float64{
		0.991455371120812639206854697526329,
		0.949107912342758524526189684047851,
		0.864864423359769072789712788640926,
		0.741531185599394439863864773280788,
		0.586087235467691130294144845693013,
		0.405845151377397166906606412076961,
		0.207784955007898467600689403773245,
		0,
	}
	wgk = [8]float64{
		0.022935322010529224963732008058970,
		0.063092092629978553290700663189204,
		0.104790010322250183839876322541518,
		0.140653259715525918745189590510238,
		0.169004726639267902826583426598550,
		0.190350578064785409913256402421014,
		0.204432940075298892414161999234649,
		0.209482141084727828012999174891714,
	}
	wg = [4]float64{
		0.129484966168869693270611432679082,
		0.279705391489276667901467771423780,
		0.381830050505118944950369775488975,
		0.417959183673469387755102040816327,
	}
)

type segment struct {
	a, b     float64
	integral float64
	err      float64
}

// gk15 applies the Gauss-Kronrod 7/15 pair on [a, b].
func gk15(f func(float64) float64, a, b float64) segment {
	center := 0.5 * (a + b)
	half := 0.5 * (b - a)

	fc := f(center)
	resG := fc * wg[3]
	resK := fc * wgk[7]

	for j := 0; j < 3; j++ {
		k := 2*j + 1
		dx := half * xgk[k]
		sum := f(center-dx) + f(center+dx)
		resG += wg[j] * sum
		resK += wgk[k] * sum
	}
	for j := 0; j < 4; j++ {
		k := 2 * j
		dx := half * xgk[k]
		resK += wgk[k] * (f(center-dx) + f(center+dx))
	}

	return segment{
		a:        a,
		b:        b,
		integral: resK * half,
		err:      math.Abs((resK - resG) * half),
	}
}

// segmentHeap orders segments by descending error estimate.
type segmentHeap []segment

func (h segmentHeap) Len() int           { return len(h) }
func (h segmentHeap) Less(i, j int) bool { return h[i].err > h[j].err }
func (h segmentHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *segmentHeap) Push(x any)        { *h = append(*h, x.(segment)) }
func (h *segmentHeap) Pop() any {
	old := *h
	n := len(old)
	s := old[n-1]
	*h = old[:n-1]
	return s
}

// Integrate computes the integral of f over [a, b] by globally adaptive
// Gauss-Kronrod quadrature, bisecting the segment with the largest error
// estimate until the total error meets the tolerance or Limit segments exist.
// It returns the estimate, its error bound and ErrQuadratureLimit when the
// tolerance was not reached. The estimate is still usable in that case.
func Integrate(f func(float64) float64, a, b float64, opts QuadOptions) (float64, float64, error) {
	if a == b {
		return 0, 0, nil
	}
	if a > b {
		v, e, err := Integrate(f, b, a, opts)
		return -v, e, err
	}
	opts = opts.withDefaults()

	first := gk15(f, a, b)
	h := &segmentHeap{first}
	total, totalErr := first.integral, first.err

	for h.Len() < opts.Limit {
		if totalErr <= math.Max(opts.AbsTol, opts.RelTol*math.Abs(total)) {
			return total, totalErr, nil
		}
		worst := heap.Pop(h).(segment)
		mid := 0.5 * (worst.a + worst.b)
		if mid <= worst.a || mid >= worst.b {
			// interval no longer splits in float64
			heap.Push(h, worst)
			break
		}
		left := gk15(f, worst.a, mid)
		right := gk15(f, mid, worst.b)
		heap.Push(h, left)
		heap.Push(h, right)

		total += left.integral + right.integral - worst.integral
		totalErr += left.err + right.err - worst.err
	}

	// recompute from the segments to shed accumulated rounding
	total, totalErr = 0, 0
	for _, s := range *h {
		total += s.integral
		totalErr += s.err
	}
	if totalErr <= math.Max(opts.AbsTol, opts.RelTol*math.Abs(total)) {
		return total, totalErr, nil
	}
	return total, totalErr, ErrQuadratureLimit
}
