// Package mri names the axes of the arrays used in reconstruction.
package mri

import "github.com/jvlmdr/pnp-sense/md"

// Axis indices.
const (
	ReadDim = iota
	Phs1Dim
	Phs2Dim
	CoilDim
	MapsDim
	LayerDim
)

// DIMS is the axis count of arrays read and written by the tools.
const DIMS = 16

// FFTFlags selects the three spatial axes.
const FFTFlags uint = 1<<ReadDim | 1<<Phs1Dim | 1<<Phs2Dim

// Flag returns the bit of an axis.
func Flag(axis int) uint {
	return 1 << uint(axis)
}

// Has reports whether flags selects axis.
func Has(flags uint, axis int) bool {
	return flags&Flag(axis) != 0
}

// SelectDims keeps the selected axes and sets the others to one.
func SelectDims(flags uint, dims md.Dims) md.Dims {
	d := dims.Clone()
	for i := range d {
		if !Has(flags, i) {
			d[i] = 1
		}
	}
	return d
}

// ImageDims returns the dims of the image reconstructed with
// the given sensitivities: those of the sensitivities without coils.
func ImageDims(sens md.Dims) md.Dims {
	return sens.With(CoilDim, 1)
}
