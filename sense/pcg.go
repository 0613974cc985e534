package sense

import (
	"io"
	"log"

	"github.com/jvlmdr/go-cg/pcg"
	"gonum.org/v1/gonum/floats"

	"github.com/jvlmdr/pnp-sense/md"
)

// Diag returns the diagonal of E* E as an image.
// Since F* |P|^2 F is circulant, its diagonal is the mean of |P|^2, and
//	diag(E* E)(r, k) = mean |P|^2 sum_c |s_ck(r)|^2.
func Diag(m *Model) *md.Array {
	var pp float64
	md.Loop(m.pattern.Dims, func(pos []int) {
		p := m.pattern.At(pos...)
		pp += real(p)*real(p) + imag(p)*imag(p)
	})
	if n := m.pattern.Dims.Size(); n > 0 {
		pp /= float64(n)
	}
	d := md.New(m.Domain())
	md.ZFMACC2(m.sens.Dims, d, m.sens, m.sens)
	md.ZScale(d, complex(pp, 0))
	return d
}

// ReconstructPCG solves (E* E + alpha I) x = E* y by conjugate gradients
// preconditioned with the inverse diagonal, starting from zero.
func ReconstructPCG(m *Model, alpha float64, kspace *md.Array, tol float64, iter int, debug io.Writer) (*md.Array, error) {
	dims := m.Domain()
	b := md.New(dims)
	m.Adjoint(b, kspace)

	log.Println("ReconstructPCG: init preconditioner")
	// The diagonal is real; both interleaved parts share its inverse.
	inv := make([]float64, 2*dims.Size())
	for i, z := range Diag(m).Data {
		d := real(z) + alpha
		if d <= 0 {
			d = 1
		}
		inv[2*i], inv[2*i+1] = 1/d, 1/d
	}

	normal := m.normalFunc()
	a := func(x []float64) []float64 {
		y := make([]float64, len(x))
		normal(y, x)
		if alpha != 0 {
			floats.AddScaled(y, alpha, x)
		}
		return y
	}
	cinv := func(x []float64) []float64 {
		return floats.MulTo(make([]float64, len(x)), inv, x)
	}

	log.Println("ReconstructPCG: solve PCG")
	x0 := make([]float64, len(inv))
	elems, err := pcg.Solve(a, md.Floats(b.Data), cinv, x0, tol, iter, debug)
	if err != nil {
		return nil, err
	}
	return md.FromSlice(dims, md.Complexes(elems)), nil
}
