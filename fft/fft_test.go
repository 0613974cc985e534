package fft

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/jvlmdr/pnp-sense/md"
	"github.com/jvlmdr/pnp-sense/mri"
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

// Centered unitary DFT along one axis by direct summation.
func naiveDFT1(x []complex128, inverse bool) []complex128 {
	n := len(x)
	sign := -1.0
	if inverse {
		sign = 1
	}
	y := make([]complex128, n)
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			theta := sign * 2 * math.Pi * float64((k-n/2)*(j-n/2)) / float64(n)
			y[k] += x[j] * cmplx.Exp(complex(0, theta))
		}
		y[k] /= complex(math.Sqrt(float64(n)), 0)
	}
	return y
}

var backends = []struct {
	Name    string
	Backend Backend
}{
	{"gonum", Gonum{Workers: 3}},
	{"fftw", FFTW{}},
}

func TestForward_vsNaive(t *testing.T) {
	for _, n := range []int{1, 4, 5, 8} {
		x := randArray(md.Dims{n})
		want := md.FromSlice(md.Dims{n}, naiveDFT1(x.Data, false))
		for _, b := range backends {
			got := x.Clone()
			b.Backend.Forward(got, mri.Flag(mri.ReadDim))
			if eq, msg := arraysEq(want, got, eps); !eq {
				t.Errorf("%s, n %d: %s", b.Name, n, msg)
			}
		}
	}
}

func TestInverse_forward(t *testing.T) {
	dims := md.Dims{6, 5, 3, 2}
	for _, b := range backends {
		x := randArray(dims)
		y := x.Clone()
		b.Backend.Forward(y, mri.FFTFlags)
		b.Backend.Inverse(y, mri.FFTFlags)
		if eq, msg := arraysEq(x, y, eps); !eq {
			t.Errorf("%s: %s", b.Name, msg)
		}
	}
}

// The centered transform of a unit impulse at the origin is constant.
func TestForward_impulse(t *testing.T) {
	dims := md.Dims{4, 6, 1}
	for _, b := range backends {
		x := md.New(dims)
		x.Set([]int{2, 3, 0}, 1)
		b.Backend.Forward(x, mri.FFTFlags)
		want := complex(1/math.Sqrt(24), 0)
		md.Loop(dims, func(pos []int) {
			if got := x.At(pos...); cmplx.Abs(got-want) > eps {
				t.Errorf("%s: at %v: want %.4g, got %.4g", b.Name, pos, want, got)
			}
		})
	}
}

func TestUnitary(t *testing.T) {
	x := randArray(md.Dims{8, 4, 2, 3})
	want := md.Norm(x)
	for _, b := range backends {
		y := x.Clone()
		b.Backend.Forward(y, mri.FFTFlags)
		if got := md.Norm(y); math.Abs(want-got) > eps*want {
			t.Errorf("%s: norm changed: want %g, got %g", b.Name, want, got)
		}
	}
}

func TestGonum_vsFFTW(t *testing.T) {
	cases := []struct {
		Dims  md.Dims
		Flags uint
	}{
		{md.Dims{8, 6, 1, 2}, mri.FFTFlags},
		{md.Dims{5, 4, 3, 2}, mri.FFTFlags},
		{md.Dims{5, 4, 3}, mri.Flag(mri.ReadDim) | mri.Flag(mri.Phs2Dim)},
		{md.Dims{7, 3}, mri.Flag(mri.Phs1Dim)},
	}
	for _, c := range cases {
		x := randArray(c.Dims)
		want := x.Clone()
		Gonum{Workers: 2}.Forward(want, c.Flags)
		got := x.Clone()
		FFTW{}.Forward(got, c.Flags)
		if eq, msg := arraysEq(want, got, eps); !eq {
			t.Errorf("dims %v, flags %b: %s", c.Dims, c.Flags, msg)
		}
	}
}

// Transforming a strided view changes only the elements of the view.
func TestForward_slice(t *testing.T) {
	for _, b := range backends {
		x := randArray(md.Dims{4, 4, 1, 2})
		orig := x.Clone()
		b.Backend.Forward(x.Slice(mri.CoilDim, 1), mri.FFTFlags)

		want := orig.Slice(mri.CoilDim, 1).Clone()
		b.Backend.Forward(want, mri.FFTFlags)
		if eq, msg := arraysEq(want, x.Slice(mri.CoilDim, 1).Clone(), eps); !eq {
			t.Errorf("%s: transformed slice: %s", b.Name, msg)
		}
		if eq, msg := arraysEq(orig.Slice(mri.CoilDim, 0).Clone(), x.Slice(mri.CoilDim, 0).Clone(), 0); !eq {
			t.Errorf("%s: other slice modified: %s", b.Name, msg)
		}
	}
}

func TestFFTW_badFlags(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic")
		}
	}()
	FFTW{}.Forward(md.New(md.Dims{2, 2, 1, 2}), mri.Flag(mri.CoilDim))
}

func TestByName(t *testing.T) {
	if _, err := ByName("fftw", 1); err != nil {
		t.Error(err)
	}
	if _, err := ByName("cufft", 1); err == nil {
		t.Error("no error for unknown backend")
	}
}
