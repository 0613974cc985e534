package linop

import (
	"fmt"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/jvlmdr/pnp-sense/md"
)

const eps = 1e-9

func randArray(dims md.Dims) *md.Array {
	a := md.New(dims)
	for i := range a.Data {
		a.Data[i] = complex(rand.NormFloat64(), rand.NormFloat64())
	}
	return a
}

func arraysEq(want, got *md.Array, eps float64) (bool, string) {
	if !want.Dims.Equal(got.Dims) {
		return false, fmt.Sprintf("dims differ: want %v, got %v", want.Dims, got.Dims)
	}
	ok, msg := true, ""
	md.Loop(want.Dims, func(pos []int) {
		if !ok {
			return
		}
		x, y := want.At(pos...), got.At(pos...)
		if cmplx.Abs(x-y) > eps {
			ok, msg = false, fmt.Sprintf("at %v: want %.4g, got %.4g", pos, x, y)
		}
	})
	return ok, msg
}

// Calls f and reports whether it panicked.
func panics(f func()) (p bool) {
	defer func() {
		if recover() != nil {
			p = true
		}
	}()
	f()
	return false
}

// Checks <A x, y> = <x, A* y> for random x, y.
func testAdjoint(t *testing.T, op Operator) {
	adj, ok := op.(Adjointer)
	if !ok {
		t.Fatalf("not an Adjointer: %T", op)
	}
	x := randArray(op.Domain())
	y := randArray(op.Codomain())
	ax := Apply(op, x)
	aty := md.New(op.Domain())
	adj.Adjoint(aty, y)
	lhs := md.ZDot(ax, y)
	rhs := md.ZDot(x, aty)
	if cmplx.Abs(lhs-rhs) > eps*cmplx.Abs(lhs) {
		t.Errorf("not adjoint: <Ax, y> = %.6g, <x, A*y> = %.6g", lhs, rhs)
	}
}
