package iter

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
)

// ProxGrad minimizes 1/2 <x, A x> - <b, x> + g(x) by proximal gradient
// descent with a fixed step,
//	x <- prox(step, x - step (A x - b)),
// where prox(lambda, dst, src) is the proximal map of g and may be
// called with dst and src the same slice. For the least-squares problem
// 1/2 ||E x - y||^2, A is E*E and b is E*y.
//
// Iteration stops when the relative change of x is at most cfg.Tol,
// or after cfg.MaxIter iterations.
func ProxGrad(cfg Config, step float64, a func(dst, src []float64), prox func(lambda float64, dst, src []float64), x, b []float64, debug io.Writer) Result {
	n := len(x)
	if len(b) != n {
		panic(fmt.Sprintf("bad dimensions: x %d, b %d", n, len(b)))
	}
	var (
		grad = make([]float64, n)
		prev = make([]float64, n)
	)
	var res Result
	for res.Iter < cfg.MaxIter {
		copy(prev, x)
		a(grad, x)
		floats.Sub(grad, b)
		floats.AddScaled(x, -step, grad)
		prox(step, x, x)

		res.Iter++
		floats.Sub(prev, x)
		res.Resid = relative(floats.Norm(prev, 2), floats.Norm(x, 2))
		res.History = append(res.History, res.Resid)
		if debug != nil {
			fmt.Fprintf(debug, "proxgrad: iter %d: change %.6g\n", res.Iter, res.Resid)
		}
		if res.Resid <= cfg.Tol {
			res.Converged = true
			break
		}
	}
	return res
}

func relative(d, x float64) float64 {
	if x == 0 {
		return d
	}
	return d / x
}
