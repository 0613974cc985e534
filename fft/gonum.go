package fft

import (
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/jvlmdr/pnp-sense/md"
	"github.com/jvlmdr/pnp-sense/mri"
)

// Gonum transforms one axis at a time, line by line.
// Lines are distributed over at most Workers goroutines.
type Gonum struct {
	Workers int
}

func (g Gonum) Forward(a *md.Array, flags uint) {
	g.transform(a, flags, false)
}

func (g Gonum) Inverse(a *md.Array, flags uint) {
	g.transform(a, flags, true)
}

func (g Gonum) transform(a *md.Array, flags uint, inverse bool) {
	for axis, n := range a.Dims {
		if !mri.Has(flags, axis) || n == 1 {
			continue
		}
		g.lines(a, axis, inverse)
	}
	scale(a, flags)
}

func (g Gonum) lines(a *md.Array, axis int, inverse bool) {
	var (
		n = a.Dims[axis]
		s = a.Strs[axis]
	)
	// Storage index of the first element of every line.
	var starts []int
	md.Loop(a.Dims.With(axis, 1), func(pos []int) {
		off := a.Off
		for i, p := range pos {
			off += p * a.Strs[i]
		}
		starts = append(starts, off)
	})

	workers := max(g.Workers, 1)
	chunk := (len(starts) + workers - 1) / workers
	var eg errgroup.Group
	eg.SetLimit(workers)
	for lo := 0; lo < len(starts); lo += chunk {
		part := starts[lo:min(lo+chunk, len(starts))]
		eg.Go(func() error {
			// CmplxFFT keeps work space and cannot be shared.
			t := fourier.NewCmplxFFT(n)
			x := make([]complex128, n)
			y := make([]complex128, n)
			for _, off := range part {
				for p := 0; p < n; p++ {
					x[shift(p, n)] = a.Data[off+p*s]
				}
				if inverse {
					t.Sequence(y, x)
				} else {
					t.Coefficients(y, x)
				}
				for p := 0; p < n; p++ {
					a.Data[off+p*s] = y[shift(p, n)]
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		panic(err)
	}
}
