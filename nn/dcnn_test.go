package nn

import (
	"fmt"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jvlmdr/pnp-sense/linop"
	"github.com/jvlmdr/pnp-sense/md"
	"github.com/jvlmdr/pnp-sense/mri"
)

const eps = 1e-9

func randReal(dims md.Dims) *md.Array {
	a := md.New(dims)
	for i := range a.Data {
		a.Data[i] = complex(rand.NormFloat64(), 0)
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

func panics(f func()) (p bool) {
	defer func() {
		if recover() != nil {
			p = true
		}
	}()
	f()
	return false
}

// Random network of l layers of width c with k x k kernels.
func randNetwork(t *testing.T, l, c, k int) *Network {
	krn := randReal(md.Dims{k, k, 1, c, c, l})
	bias := randReal(md.Dims{1, 1, 1, 1, c, l})
	net, err := NewNetwork(krn, bias)
	if err != nil {
		t.Fatal(err)
	}
	return net
}

func imageDims(m, n int) md.Dims {
	return md.Dims{m, n, 1, 1, 1, 1}
}

func TestNetwork_shape(t *testing.T) {
	net := randNetwork(t, 3, 4, 3)
	in := randReal(imageDims(6, 5))
	out := net.Forward(in)
	if diff := cmp.Diff(in.Dims, out.Dims); diff != "" {
		t.Errorf("dims (-want +got):\n%s", diff)
	}
}

// With one layer, the output is the correlation of the input
// with the kernel from channel 0 to channel 0 plus the bias.
func TestNetwork_oneLayer(t *testing.T) {
	const c = 2
	net := randNetwork(t, 1, c, 3)
	in := randReal(imageDims(5, 4))
	got := net.Forward(in)

	krn := net.Kernel.Slice(mri.CoilDim, 0).Slice(mri.MapsDim, 0).Clone()
	conv := linop.NewConv(in.Dims, in.Dims, krn, mri.FFTFlags, linop.Cyclic, linop.Symmetric)
	defer conv.Free()
	want := linop.Apply(conv, in)
	md.ZAdd(want, want, net.Bias.Slice(mri.MapsDim, 0))
	if eq, msg := arraysEq(want, got, eps); !eq {
		t.Error(msg)
	}
}

// Two layers of 1x1 kernels on a 4x1 image, computed by hand.
func TestNetwork_twoLayers(t *testing.T) {
	krn := md.New(md.Dims{1, 1, 1, 2, 2, 2})
	set := func(a *md.Array, i, o, l int, x float64) {
		a.Set([]int{0, 0, 0, i, o, l}, complex(x, 0))
	}
	// Layer 0: only input channel 0 is non-zero.
	set(krn, 0, 0, 0, 2)
	set(krn, 0, 1, 0, -1)
	set(krn, 1, 0, 0, 5)
	set(krn, 1, 1, 0, 7)
	// Layer 1.
	set(krn, 0, 0, 1, 1)
	set(krn, 1, 0, 1, -2)
	set(krn, 0, 1, 1, 3)
	set(krn, 1, 1, 1, 4)
	bias := md.New(md.Dims{1, 1, 1, 1, 2, 2})
	bias.Set([]int{0, 0, 0, 0, 0, 0}, 0.5)
	bias.Set([]int{0, 0, 0, 0, 1, 0}, 1)
	bias.Set([]int{0, 0, 0, 0, 0, 1}, -1)
	bias.Set([]int{0, 0, 0, 0, 1, 1}, 7)

	net, err := NewNetwork(krn, bias)
	if err != nil {
		t.Fatal(err)
	}
	in := md.FromSlice(md.Dims{4, 1, 1, 1, 1, 1}, []complex128{1, -2, 3, -4})
	// Layer 0: (2x + 0.5, -x + 1) after ReLU
	//   x =  1: (2.5, 0)
	//   x = -2: (0,   3)
	//   x =  3: (6.5, 0)
	//   x = -4: (0,   5)
	// Layer 1: a - 2b - 1, no ReLU.
	want := md.FromSlice(in.Dims, []complex128{1.5, -7, 5.5, -11})
	got := net.Forward(in)
	if eq, msg := arraysEq(want, got, 0); !eq {
		t.Error(msg)
	}
}

func TestNetwork_activation(t *testing.T) {
	const l = 3
	net := randNetwork(t, l, 3, 3)
	// Make the output of the last layer negative.
	for o := 0; o < 3; o++ {
		net.Bias.Set([]int{0, 0, 0, 0, o, l - 1}, -1000)
	}
	var seen []int
	net.Trace = func(layer int, out *md.Array) {
		seen = append(seen, layer)
		var neg bool
		for _, x := range out.Elems() {
			if real(x) < 0 || imag(x) < 0 {
				neg = true
			}
		}
		if layer < l-1 && neg {
			t.Errorf("layer %d: negative value after activation", layer)
		}
		if layer == l-1 && !neg {
			t.Errorf("layer %d: no negative value in last layer", layer)
		}
	}
	net.Forward(randReal(imageDims(6, 6)))
	if diff := cmp.Diff([]int{0, 1, 2}, seen); diff != "" {
		t.Errorf("layers (-want +got):\n%s", diff)
	}
}

func TestNewNetwork_errors(t *testing.T) {
	cases := []struct {
		Name      string
		Krn, Bias md.Dims
	}{
		{"layers", md.Dims{3, 3, 1, 2, 2, 3}, md.Dims{1, 1, 1, 1, 2, 2}},
		{"width", md.Dims{3, 3, 1, 2, 4, 3}, md.Dims{1, 1, 1, 1, 4, 3}},
		{"bias channels", md.Dims{3, 3, 1, 2, 2, 3}, md.Dims{1, 1, 1, 1, 3, 3}},
		{"bias spatial", md.Dims{3, 3, 1, 2, 2, 3}, md.Dims{3, 1, 1, 1, 2, 3}},
		{"axes", md.Dims{3, 3, 1, 2, 2}, md.Dims{1, 1, 1, 1, 2}},
	}
	for _, c := range cases {
		if _, err := NewNetwork(md.New(c.Krn), md.New(c.Bias)); err == nil {
			t.Errorf("%s: no error", c.Name)
		}
	}
}

func TestNetwork_badInput(t *testing.T) {
	net := randNetwork(t, 2, 2, 3)
	in := md.New(md.Dims{4, 4, 1, 2, 1, 1})
	if !panics(func() { net.Forward(in) }) {
		t.Error("no panic for input with channels")
	}
}

func TestResidual(t *testing.T) {
	net := randNetwork(t, 2, 2, 3)
	in := randReal(imageDims(4, 4))
	want := md.New(in.Dims)
	md.ZSub(want, in, net.Forward(in))
	Residual(net, in, in)
	if eq, msg := arraysEq(want, in, eps); !eq {
		t.Error(msg)
	}
}

// ReLU on a strided view leaves the rest of the storage untouched.
func TestReLU_strided(t *testing.T) {
	x := md.FromSlice(md.Dims{2, 3}, []complex128{-1, 2, 3, -4, -5, 6})
	// Second row, read and written through a stride of 2.
	op := NewReLU2(md.Dims{3}, []int{2}, []int{2})
	row := &md.Array{Dims: md.Dims{3}, Strs: []int{1}, Data: x.Data, Off: 1}
	op.Apply(row, row)
	want := []complex128{-1, 2, 3, 0, -5, 6}
	if diff := cmp.Diff(want, x.Data); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	op.Free()
	if !panics(op.Free) {
		t.Error("no panic on second release")
	}
}
