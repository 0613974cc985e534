package nn

import (
	"github.com/jvlmdr/pnp-sense/linop"
	"github.com/jvlmdr/pnp-sense/md"
)

// ReLU computes y = max(x, 0), on the real and imaginary parts.
type ReLU struct {
	linop.Strided
}

// NewReLU2 creates a ReLU which reads and writes with the given strides.
func NewReLU2(dims md.Dims, ostrs, istrs []int) *ReLU {
	return &ReLU{linop.NewStrided(dims, ostrs, istrs)}
}

// NewReLU creates a ReLU which uses the strides of the arrays it is given.
func NewReLU(dims md.Dims) *ReLU {
	return NewReLU2(dims, nil, nil)
}

func (op *ReLU) Apply(dst, src *md.Array) {
	dst, src = op.Views(dst, src)
	if md.Aliases(dst, src) && !md.Same(dst, src) {
		src = src.Clone()
	}
	md.ZSMax2(dst.Dims, dst, src, 0)
}
