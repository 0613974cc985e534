package fft

import (
	"fmt"

	"github.com/jvlmdr/go-fftw/fftw"

	"github.com/jvlmdr/pnp-sense/md"
	"github.com/jvlmdr/pnp-sense/mri"
)

// FFTW copies each spatial block into an FFTW array,
// transforms it and copies it back.
// Only the spatial axes (mri.FFTFlags) can be selected.
type FFTW struct{}

func (FFTW) Forward(a *md.Array, flags uint) {
	transformFFTW(a, flags, false)
}

func (FFTW) Inverse(a *md.Array, flags uint) {
	transformFFTW(a, flags, true)
}

func transformFFTW(a *md.Array, flags uint, inverse bool) {
	if flags&^mri.FFTFlags != 0 {
		panic(fmt.Sprintf("fftw: unsupported axes: flags %b", flags))
	}
	// Selected axes, padded to two with a unit axis.
	var axes []int
	for i := 0; i < len(a.Dims) && i < 3; i++ {
		if mri.Has(flags, i) {
			axes = append(axes, i)
		}
	}
	if len(axes) == 0 {
		return
	}
	// Iterate over every block.
	md.Loop(mri.SelectDims(^flags, a.Dims), func(pos []int) {
		block := a.View(a.Dims, a.Strs)
		for i, p := range pos {
			block.Off += p * a.Strs[i]
		}
		switch len(axes) {
		case 3:
			block3(block, inverse)
		case 2:
			block2(block, axes[0], axes[1], inverse)
		default:
			block2(block, axes[0], -1, inverse)
		}
	})
	scale(a, flags)
}

// Transforms axes u and v of the block at the origin of a.
// If v is negative, the second axis has extent one.
func block2(a *md.Array, u, v int, inverse bool) {
	m, n := a.Dims[u], 1
	su, sv := a.Strs[u], 0
	if v >= 0 {
		n, sv = a.Dims[v], a.Strs[v]
	}
	x := fftw.NewArray2(m, n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			x.Set(shift(i, m), shift(j, n), a.Data[a.Off+i*su+j*sv])
		}
	}
	if inverse {
		fftw.IFFT2To(x, x)
	} else {
		fftw.FFT2To(x, x)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			a.Data[a.Off+i*su+j*sv] = x.At(shift(i, m), shift(j, n))
		}
	}
}

func block3(a *md.Array, inverse bool) {
	m, n, p := a.Dims[0], a.Dims[1], a.Dims[2]
	s, t, u := a.Strs[0], a.Strs[1], a.Strs[2]
	x := fftw.NewArray3(m, n, p)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < p; k++ {
				x.Set(shift(i, m), shift(j, n), shift(k, p), a.Data[a.Off+i*s+j*t+k*u])
			}
		}
	}
	if inverse {
		fftw.IFFT3To(x, x)
	} else {
		fftw.FFT3To(x, x)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < p; k++ {
				a.Data[a.Off+i*s+j*t+k*u] = x.At(shift(i, m), shift(j, n), shift(k, p))
			}
		}
	}
}
