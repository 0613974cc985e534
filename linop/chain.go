package linop

import (
	"fmt"

	"github.com/jvlmdr/pnp-sense/md"
)

// Chain applies A then B: c(x) = B(A(x)).
// It owns A and B and releases them when it is released.
type Chain struct {
	Meta
	A, B Operator
}

func NewChain(a, b Operator) *Chain {
	if !a.Codomain().Equal(b.Domain()) {
		panic(fmt.Sprintf("bad dimensions: chain: output %v, input %v", a.Codomain(), b.Domain()))
	}
	return &Chain{NewMeta(b.Codomain(), a.Domain()), a, b}
}

// NewChainN chains ops in order of application.
func NewChainN(ops ...Operator) Operator {
	if len(ops) == 0 {
		panic("empty chain")
	}
	c := ops[0]
	for _, op := range ops[1:] {
		c = NewChain(c, op)
	}
	return c
}

func (c *Chain) Apply(dst, src *md.Array) {
	c.CheckIO(dst, src)
	tmp := md.New(c.A.Codomain())
	c.A.Apply(tmp, src)
	c.B.Apply(dst, tmp)
}

// Adjoint requires both operators to be Adjointers.
func (c *Chain) Adjoint(dst, src *md.Array) {
	c.CheckAdjointIO(dst, src)
	tmp := md.New(c.A.Codomain())
	adjoint(c.B).Adjoint(tmp, src)
	adjoint(c.A).Adjoint(dst, tmp)
}

func (c *Chain) Free() {
	c.Meta.Free()
	c.A.Free()
	c.B.Free()
	c.A, c.B = nil, nil
}

func adjoint(op Operator) Adjointer {
	adj, ok := op.(Adjointer)
	if !ok {
		panic(fmt.Sprintf("operator has no adjoint: %T", op))
	}
	return adj
}
