/*
Package linop defines operators between arrays and proximal operators.

An Operator maps arrays of shape Domain to arrays of shape Codomain.
Adjoint and normal mappings are optional capabilities, checked with
interface assertions:
	if adj, ok := op.(linop.Adjointer); ok {
		adj.Adjoint(x, y)
	}

Every operator may be called with dst and src sharing storage.
An operator is released with Free, exactly once. Operators do not own
the arrays they are applied to; the ones which hold arrays by reference
(e.g. the kernel of a convolution) require them to outlive the operator.
*/
package linop

import (
	"fmt"

	"github.com/jvlmdr/pnp-sense/md"
)

// Operator is a mapping from Domain-shaped to Codomain-shaped arrays.
type Operator interface {
	Domain() md.Dims
	Codomain() md.Dims
	// Apply computes dst = op(src).
	// It panics if the shapes of dst and src are not Codomain and Domain.
	Apply(dst, src *md.Array)
	Free()
}

// Adjointer is an Operator with an adjoint, mapping Codomain to Domain.
type Adjointer interface {
	Adjoint(dst, src *md.Array)
}

// Normaler is an Operator with a dedicated normal mapping
// (adjoint after forward), from Domain to Domain.
type Normaler interface {
	Normal(dst, src *md.Array)
}

// ProxOperator is a mapping prox(lambda, x) from Domain to Domain.
type ProxOperator interface {
	Domain() md.Dims
	Apply(lambda float64, dst, src *md.Array)
	Free()
}

// Meta holds the shapes of an operator and guards its release.
// Operators embed it.
type Meta struct {
	dom, cod md.Dims
	freed    bool
}

func NewMeta(cod, dom md.Dims) Meta {
	return Meta{dom: dom.Clone(), cod: cod.Clone()}
}

func (m *Meta) Domain() md.Dims   { return m.dom }
func (m *Meta) Codomain() md.Dims { return m.cod }

// Free releases the shapes. It panics if called twice.
func (m *Meta) Free() {
	if m.freed {
		panic("operator released twice")
	}
	m.freed = true
	m.dom, m.cod = nil, nil
}

// CheckIO panics unless dst has shape Codomain and src has shape Domain.
func (m *Meta) CheckIO(dst, src *md.Array) {
	m.check(dst, src, m.cod, m.dom)
}

// CheckAdjointIO is CheckIO with the roles of the shapes exchanged.
func (m *Meta) CheckAdjointIO(dst, src *md.Array) {
	m.check(dst, src, m.dom, m.cod)
}

func (m *Meta) check(dst, src *md.Array, cod, dom md.Dims) {
	if m.freed {
		panic("operator used after release")
	}
	if !dst.Dims.Equal(cod) {
		panic(fmt.Sprintf("bad dimensions: output: operator %v, array %v", cod, dst.Dims))
	}
	if !src.Dims.Equal(dom) {
		panic(fmt.Sprintf("bad dimensions: input: operator %v, array %v", dom, src.Dims))
	}
}

// Func is an operator defined by a function.
// The function must tolerate dst and src sharing storage.
type Func struct {
	Meta
	f func(dst, src *md.Array)
}

func NewFunc(cod, dom md.Dims, f func(dst, src *md.Array)) *Func {
	return &Func{NewMeta(cod, dom), f}
}

func (op *Func) Apply(dst, src *md.Array) {
	op.CheckIO(dst, src)
	op.f(dst, src)
}

func (op *Func) Free() {
	op.Meta.Free()
	op.f = nil
}

// ProxFunc is a proximal operator defined by a function.
type ProxFunc struct {
	Meta
	f func(lambda float64, dst, src *md.Array)
}

func NewProxFunc(dims md.Dims, f func(lambda float64, dst, src *md.Array)) *ProxFunc {
	return &ProxFunc{NewMeta(dims, dims), f}
}

func (op *ProxFunc) Apply(lambda float64, dst, src *md.Array) {
	op.CheckIO(dst, src)
	op.f(lambda, dst, src)
}

func (op *ProxFunc) Free() {
	op.Meta.Free()
	op.f = nil
}

// Apply allocates the output of op and applies it to src.
func Apply(op Operator, src *md.Array) *md.Array {
	dst := md.New(op.Codomain())
	op.Apply(dst, src)
	return dst
}

// Normal computes dst = op*(op(src)).
// It uses the operator's own normal mapping if it has one,
// otherwise op must be an Adjointer.
func Normal(op Operator, dst, src *md.Array) {
	if n, ok := op.(Normaler); ok {
		n.Normal(dst, src)
		return
	}
	adj, ok := op.(Adjointer)
	if !ok {
		panic(fmt.Sprintf("operator has no adjoint: %T", op))
	}
	tmp := md.New(op.Codomain())
	op.Apply(tmp, src)
	adj.Adjoint(dst, tmp)
}
