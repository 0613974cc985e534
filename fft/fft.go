/*
Package fft computes centered, unitary discrete Fourier transforms of
strided arrays over a subset of their axes.

The axes are selected with a bit mask (see package mri).
Transforms are in place. Along every selected axis of extent n the
sample at index n/2 is treated as the origin, in both domains, and the
result is scaled by 1/sqrt(N) where N is the product of the transformed
extents. Inverse is therefore both the inverse and the adjoint of
Forward.

Two backends are provided:
	fft.Gonum{Workers: 4}   // pure Go, any axes, lines spread over workers
	fft.FFTW{}              // FFTW, spatial axes 0 to 2 only
*/
package fft

import (
	"fmt"
	"math"
	"runtime"

	"github.com/jvlmdr/pnp-sense/md"
	"github.com/jvlmdr/pnp-sense/mri"
)

// Backend transforms arrays in place.
type Backend interface {
	Forward(a *md.Array, flags uint)
	Inverse(a *md.Array, flags uint)
}

// Default is the backend used when none is configured.
var Default Backend = Gonum{Workers: runtime.GOMAXPROCS(0)}

// ByName returns the backend "gonum" or "fftw".
// The empty name gives Default.
func ByName(name string, workers int) (Backend, error) {
	switch name {
	case "":
		return Default, nil
	case "gonum":
		return Gonum{Workers: workers}, nil
	case "fftw":
		return FFTW{}, nil
	}
	return nil, fmt.Errorf("unknown fft backend: %q", name)
}

// Size returns the number of samples in one transform.
func Size(dims md.Dims, flags uint) int {
	n := 1
	for i, x := range dims {
		if mri.Has(flags, i) {
			n *= x
		}
	}
	return n
}

// Index in the transform array of centered position p on an axis of extent n.
// The same map takes the transform back to centered positions.
func shift(p, n int) int {
	return (p + n - n/2) % n
}

func scale(a *md.Array, flags uint) {
	md.ZScale(a, complex(1/math.Sqrt(float64(Size(a.Dims, flags))), 0))
}
