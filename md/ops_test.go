package md

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const eps = 1e-12

func epsEq(want, got complex128, eps float64) bool {
	return cmplx.Abs(want-got) <= eps
}

func randArray(dims Dims) *Array {
	a := New(dims)
	for i := range a.Data {
		a.Data[i] = complex(rand.NormFloat64(), rand.NormFloat64())
	}
	return a
}

func TestCalcStrides(t *testing.T) {
	got := CalcStrides(Dims{4, 1, 3, 1, 2})
	want := []int{1, 0, 4, 0, 12}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("strides (-want +got):\n%s", diff)
	}
}

func TestSlice(t *testing.T) {
	a := randArray(Dims{3, 4, 2})
	b := a.Slice(1, 2)
	if diff := cmp.Diff(Dims{3, 1, 2}, b.Dims); diff != "" {
		t.Fatalf("dims (-want +got):\n%s", diff)
	}
	for i := 0; i < 3; i++ {
		for k := 0; k < 2; k++ {
			if want, got := a.At(i, 2, k), b.At(i, 0, k); want != got {
				t.Errorf("at (%d, %d): want %v, got %v", i, k, want, got)
			}
		}
	}
	if !Aliases(a, b) {
		t.Error("slice does not alias parent")
	}
	if Aliases(a, a.Clone()) {
		t.Error("clone aliases parent")
	}
}

// Sums a 2-channel image over channels with a broadcast weight.
func TestZFMAC2_broadcast(t *testing.T) {
	const m, c = 5, 2
	img := randArray(Dims{m, c})
	w := randArray(Dims{1, c})
	dst := New(Dims{m, 1})
	ZFMAC2(Dims{m, c}, dst, img, w)
	for i := 0; i < m; i++ {
		var want complex128
		for k := 0; k < c; k++ {
			want += img.At(i, k) * w.At(0, k)
		}
		if got := dst.At(i, 0); !epsEq(want, got, eps) {
			t.Errorf("at %d: want %v, got %v", i, want, got)
		}
	}
}

func TestZFMACC2(t *testing.T) {
	a := randArray(Dims{4})
	b := randArray(Dims{4})
	dst := New(Dims{1})
	ZFMACC2(Dims{4}, dst, a, b)
	// sum_i a_i conj(b_i) = conj(<a, b>)
	if want, got := cmplx.Conj(ZDot(a, b)), dst.At(0); !epsEq(want, got, eps) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestCopy_strided(t *testing.T) {
	a := randArray(Dims{3, 4})
	// Transposed view of a.
	at := a.View(Dims{4, 3}, []int{3, 1})
	b := New(Dims{4, 3})
	Copy(b, at)
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			if want, got := a.At(i, j), b.At(j, i); want != got {
				t.Errorf("at (%d, %d): want %v, got %v", i, j, want, got)
			}
		}
	}
}

func TestZSMax2(t *testing.T) {
	a := FromSlice(Dims{3}, []complex128{complex(-1, 2), complex(3, -4), 0})
	ZSMax2(a.Dims, a, a, 0)
	want := []complex128{complex(0, 2), complex(3, 0), 0}
	if diff := cmp.Diff(want, a.Data); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNorm(t *testing.T) {
	a := randArray(Dims{6, 5})
	want := math.Sqrt(real(ZDot(a, a)))
	if got := Norm(a); math.Abs(want-got) > 1e-9 {
		t.Errorf("contiguous: want %g, got %g", want, got)
	}
	b := a.Slice(1, 3)
	want = 0
	for i := 0; i < 6; i++ {
		x := a.At(i, 3)
		want += real(x)*real(x) + imag(x)*imag(x)
	}
	want = math.Sqrt(want)
	if got := Norm(b); math.Abs(want-got) > 1e-9 {
		t.Errorf("slice: want %g, got %g", want, got)
	}
}

func TestFloats(t *testing.T) {
	z := []complex128{complex(1, 2), complex(3, 4)}
	x := Floats(z)
	if diff := cmp.Diff([]float64{1, 2, 3, 4}, x); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	x[3] = -1
	if z[1] != complex(3, -1) {
		t.Errorf("storage not shared: %v", z[1])
	}
	if w := Complexes(x); &w[0] != &z[0] {
		t.Error("Complexes does not share storage")
	}
}

func TestBadDimensionsPanic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic")
		}
	}()
	ZAdd(New(Dims{3, 2}), New(Dims{3, 2}), New(Dims{2, 2}))
}
