package md

import (
	"fmt"
	"unsafe"
)

// Array is a strided view of complex samples.
// Element pos is stored at Data[Off + sum_i pos[i]*Strs[i]].
type Array struct {
	Dims Dims
	Strs []int
	Data []complex128
	Off  int
}

// New allocates a zeroed dense array.
func New(dims Dims) *Array {
	return &Array{
		Dims: dims.Clone(),
		Strs: CalcStrides(dims),
		Data: make([]complex128, dims.Size()),
	}
}

// FromSlice wraps dense storage without copying.
func FromSlice(dims Dims, data []complex128) *Array {
	if len(data) != dims.Size() {
		panic(fmt.Sprintf("bad length: dims %v need %d elements, have %d", dims, dims.Size(), len(data)))
	}
	return &Array{Dims: dims.Clone(), Strs: CalcStrides(dims), Data: data}
}

// View returns a view of the same storage with the given strides.
func (a *Array) View(dims Dims, strs []int) *Array {
	if len(dims) != len(strs) {
		panic(fmt.Sprintf("bad strides: %d axes, %d strides", len(dims), len(strs)))
	}
	return &Array{Dims: dims.Clone(), Strs: append([]int(nil), strs...), Data: a.Data, Off: a.Off}
}

func (a *Array) offset(pos []int) int {
	if len(pos) != len(a.Dims) {
		panic(fmt.Sprintf("bad index: %d axes, %d indices", len(a.Dims), len(pos)))
	}
	off := a.Off
	for i, p := range pos {
		if p < 0 || p >= a.Dims[i] {
			panic(fmt.Sprintf("index out of range: axis %d, index %d, extent %d", i, p, a.Dims[i]))
		}
		off += p * a.Strs[i]
	}
	return off
}

func (a *Array) At(pos ...int) complex128 {
	return a.Data[a.offset(pos)]
}

func (a *Array) Set(pos []int, x complex128) {
	a.Data[a.offset(pos)] = x
}

// Slice fixes axis to index i. The result has extent one on axis and
// shares storage with a.
func (a *Array) Slice(axis, i int) *Array {
	if i < 0 || i >= a.Dims[axis] {
		panic(fmt.Sprintf("slice out of range: axis %d, index %d, extent %d", axis, i, a.Dims[axis]))
	}
	b := a.View(a.Dims, a.Strs)
	b.Off += i * a.Strs[axis]
	b.Dims[axis] = 1
	b.Strs[axis] = 0
	return b
}

// Contiguous reports whether the view is dense in first-fastest order.
func (a *Array) Contiguous() bool {
	n := 1
	for i, x := range a.Dims {
		if x != 1 && a.Strs[i] != n {
			return false
		}
		n *= x
	}
	return true
}

// Elems returns the storage of a dense view.
func (a *Array) Elems() []complex128 {
	if !a.Contiguous() {
		panic("not contiguous")
	}
	n := a.Dims.Size()
	return a.Data[a.Off : a.Off+n]
}

// Reshape reinterprets a dense view with new dims of the same size.
func (a *Array) Reshape(dims Dims) *Array {
	if dims.Size() != a.Dims.Size() {
		panic(fmt.Sprintf("bad reshape: %v to %v", a.Dims, dims))
	}
	return FromSlice(dims, a.Elems())
}

// Clone returns a dense copy.
func (a *Array) Clone() *Array {
	b := New(a.Dims)
	Copy(b, a)
	return b
}

// Aliases reports whether two views share backing storage.
func Aliases(a, b *Array) bool {
	m, n := cap(a.Data), cap(b.Data)
	if m == 0 || n == 0 {
		return false
	}
	return &a.Data[:m][m-1] == &b.Data[:n][n-1]
}

// Floats reinterprets complex storage as interleaved real and imaginary
// parts. The result has length 2*len(z) and shares storage with z.
func Floats(z []complex128) []float64 {
	if len(z) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&z[0])), 2*len(z))
}

// Complexes is the inverse of Floats.
func Complexes(x []float64) []complex128 {
	if len(x)%2 != 0 {
		panic(fmt.Sprintf("odd length: %d", len(x)))
	}
	if len(x) == 0 {
		return nil
	}
	return unsafe.Slice((*complex128)(unsafe.Pointer(&x[0])), len(x)/2)
}

// Same reports whether two views address the same elements in the same order.
func Same(a, b *Array) bool {
	if !Aliases(a, b) || len(a.Data) != len(b.Data) || a.Off != b.Off || !a.Dims.Equal(b.Dims) {
		return false
	}
	for i, x := range a.Dims {
		if x != 1 && a.Strs[i] != b.Strs[i] {
			return false
		}
	}
	return true
}
