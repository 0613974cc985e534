package linop

import (
	"github.com/jvlmdr/pnp-sense/md"
)

// Strided is an operator applied with fixed strides:
// its arrays are read through the declared strides from their offset,
// whatever strides the views carry. Nil strides use those of the views.
type Strided struct {
	Meta
	OStrs, IStrs []int
}

func NewStrided(dims md.Dims, ostrs, istrs []int) Strided {
	return Strided{NewMeta(dims, dims), clone(ostrs), clone(istrs)}
}

// Views checks dst and src and returns them with the declared strides.
func (op *Strided) Views(dst, src *md.Array) (*md.Array, *md.Array) {
	op.CheckIO(dst, src)
	if op.OStrs != nil {
		dst = dst.View(dst.Dims, op.OStrs)
	}
	if op.IStrs != nil {
		src = src.View(src.Dims, op.IStrs)
	}
	return dst, src
}

func (op *Strided) Free() {
	op.Meta.Free()
	op.OStrs, op.IStrs = nil, nil
}

// Identity copies its input.
type Identity struct {
	Strided
}

// NewIdentity2 creates an identity with explicit strides.
func NewIdentity2(dims md.Dims, ostrs, istrs []int) *Identity {
	return &Identity{NewStrided(dims, ostrs, istrs)}
}

func NewIdentity(dims md.Dims) *Identity {
	return NewIdentity2(dims, nil, nil)
}

func (op *Identity) Apply(dst, src *md.Array) {
	dst, src = op.Views(dst, src)
	if md.Aliases(dst, src) {
		src = src.Clone()
	}
	md.Copy(dst, src)
}

func (op *Identity) Adjoint(dst, src *md.Array) {
	op.Apply(dst, src)
}

func clone(x []int) []int {
	if x == nil {
		return nil
	}
	return append([]int(nil), x...)
}
