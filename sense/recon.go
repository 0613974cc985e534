package sense

import (
	"fmt"
	"io"

	"github.com/jvlmdr/pnp-sense/iter"
	"github.com/jvlmdr/pnp-sense/linop"
	"github.com/jvlmdr/pnp-sense/md"
)

// Wraps an interleaved vector as an array of the given shape.
func wrap(dims md.Dims, x []float64) *md.Array {
	return md.FromSlice(dims, md.Complexes(x))
}

func (m *Model) normalFunc() func(dst, src []float64) {
	dims := m.Domain()
	return func(dst, src []float64) {
		m.Normal(wrap(dims, dst), wrap(dims, src))
	}
}

// Reconstruct solves (E* E + alpha I) x = E* y by conjugate gradients,
// starting from zero. The last iterate is returned whether or not the
// tolerance was met.
func Reconstruct(m *Model, alpha float64, kspace *md.Array, cfg iter.Config, debug io.Writer) (*md.Array, iter.Result) {
	x := md.New(m.Domain())
	b := md.New(m.Domain())
	m.Adjoint(b, kspace)
	res := iter.ConjGrad(cfg, alpha, m.normalFunc(), md.Floats(x.Data), md.Floats(b.Data), debug)
	return x, res
}

// ReconstructPnP minimizes 1/2 ||E x - y||^2 + g(x) by proximal gradient
// descent from zero, where prox is the proximal map of g.
// A step of at most 1/MaxEigen(m) is stable.
func ReconstructPnP(m *Model, prox linop.ProxOperator, kspace *md.Array, cfg iter.Config, step float64, debug io.Writer) (*md.Array, iter.Result) {
	dims := m.Domain()
	if !prox.Domain().Equal(dims) {
		panic(fmt.Sprintf("bad dimensions: model %v, prox %v", dims, prox.Domain()))
	}
	x := md.New(dims)
	b := md.New(dims)
	m.Adjoint(b, kspace)
	p := func(lambda float64, dst, src []float64) {
		prox.Apply(lambda, wrap(dims, dst), wrap(dims, src))
	}
	res := iter.ProxGrad(cfg, step, m.normalFunc(), p, md.Floats(x.Data), md.Floats(b.Data), debug)
	return x, res
}
