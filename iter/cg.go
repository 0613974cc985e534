/*
Package iter provides iterative solvers over real vectors.

Complex arrays are passed as their interleaved real and imaginary
parts (see md.Floats). For a complex-linear operator A the real inner
product of the interleaved vectors is the real part of the complex inner
product, so conjugate gradients on the interleaved vectors solves the
complex system.

Solvers do not fail: after at most Config.MaxIter iterations they leave
the last iterate in x and report in Result whether the tolerance was met.
*/
package iter

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Config bounds the number of iterations and sets the tolerance.
type Config struct {
	MaxIter int     `json:"max_iter"`
	Tol     float64 `json:"tol"`
}

// DefaultConfig is used for SENSE reconstruction.
var DefaultConfig = Config{MaxIter: 100, Tol: 1e-3}

// Result describes how a solver stopped.
type Result struct {
	// Number of iterations taken.
	Iter int
	// Final value of the stopping criterion.
	Resid float64
	// Whether Resid reached the tolerance before the iteration limit.
	Converged bool
	// Stopping criterion after every iteration.
	History []float64
}

// ConjGrad solves (A + lambda I) x = b with conjugate gradients,
// starting from the contents of x. A must be symmetric positive
// semi-definite; a(dst, src) computes dst = A src.
//
// Iteration stops when the residual norm is at most cfg.Tol times
// the initial residual norm, or after cfg.MaxIter iterations.
// If debug is not nil, the residual of every iteration is written to it.
func ConjGrad(cfg Config, lambda float64, a func(dst, src []float64), x, b []float64, debug io.Writer) Result {
	n := len(x)
	if len(b) != n {
		panic(fmt.Sprintf("bad dimensions: x %d, b %d", n, len(b)))
	}
	var (
		r  = make([]float64, n)
		p  = make([]float64, n)
		ap = make([]float64, n)
	)
	op := func(dst, src []float64) {
		a(dst, src)
		if lambda != 0 {
			floats.AddScaled(dst, lambda, src)
		}
	}

	// r = b - (A + lambda I) x
	op(ap, x)
	floats.SubTo(r, b, ap)
	copy(p, r)
	rsnot := floats.Dot(r, r)
	rsold := rsnot

	res := Result{Resid: 1}
	if rsnot == 0 {
		res.Resid, res.Converged = 0, true
		return res
	}
	for res.Iter < cfg.MaxIter {
		op(ap, p)
		pap := floats.Dot(p, ap)
		if pap <= 0 {
			// Direction of zero curvature.
			break
		}
		alpha := rsold / pap
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)
		rsnew := floats.Dot(r, r)

		res.Iter++
		res.Resid = math.Sqrt(rsnew / rsnot)
		res.History = append(res.History, res.Resid)
		if debug != nil {
			fmt.Fprintf(debug, "cg: iter %d: residual %.6g\n", res.Iter, res.Resid)
		}
		if res.Resid <= cfg.Tol {
			res.Converged = true
			break
		}
		// p = r + beta p
		floats.AddScaledTo(p, r, rsnew/rsold, p)
		rsold = rsnew
	}
	return res
}
