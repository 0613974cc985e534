package md

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// Returns the strides with which a is traversed when iterating over dims.
// Axes of extent one in a are broadcast.
func iterStrides(dims Dims, a *Array) []int {
	if len(a.Dims) != len(dims) {
		panic(fmt.Sprintf("bad number of axes: iteration %d, operand %d", len(dims), len(a.Dims)))
	}
	s := make([]int, len(dims))
	for i := range dims {
		switch {
		case a.Dims[i] == 1:
		case a.Dims[i] == dims[i]:
			s[i] = a.Strs[i]
		default:
			panic(fmt.Sprintf("bad dimensions: iteration %v, operand %v", dims, a.Dims))
		}
	}
	return s
}

// Calls f with the storage index of every operand
// at every position of dims, first axis fastest.
func each(dims Dims, ops []*Array, f func(off []int)) {
	if dims.Size() == 0 {
		return
	}
	strs := make([][]int, len(ops))
	off := make([]int, len(ops))
	for k, a := range ops {
		strs[k] = iterStrides(dims, a)
		off[k] = a.Off
	}
	n := len(dims)
	pos := make([]int, n)
	for {
		f(off)
		i := 0
		for ; i < n; i++ {
			pos[i]++
			for k := range ops {
				off[k] += strs[k][i]
			}
			if pos[i] < dims[i] {
				break
			}
			for k := range ops {
				off[k] -= strs[k][i] * dims[i]
			}
			pos[i] = 0
		}
		if i == n {
			return
		}
	}
}

// Loop calls f with every position of dims, first axis fastest.
// The slice passed to f is reused between calls.
func Loop(dims Dims, f func(pos []int)) {
	if dims.Size() == 0 {
		return
	}
	pos := make([]int, len(dims))
	for {
		f(pos)
		i := 0
		for ; i < len(dims); i++ {
			pos[i]++
			if pos[i] < dims[i] {
				break
			}
			pos[i] = 0
		}
		if i == len(dims) {
			return
		}
	}
}

func unary(dims Dims, dst, src *Array, f func(x complex128) complex128) {
	each(dims, []*Array{dst, src}, func(off []int) {
		dst.Data[off[0]] = f(src.Data[off[1]])
	})
}

func binary(dims Dims, dst, a, b *Array, f func(x, y complex128) complex128) {
	each(dims, []*Array{dst, a, b}, func(off []int) {
		dst.Data[off[0]] = f(a.Data[off[1]], b.Data[off[2]])
	})
}

func accum(dims Dims, dst, a, b *Array, f func(x, y complex128) complex128) {
	each(dims, []*Array{dst, a, b}, func(off []int) {
		dst.Data[off[0]] += f(a.Data[off[1]], b.Data[off[2]])
	})
}

// Clear sets every element to zero.
func Clear(a *Array) {
	each(a.Dims, []*Array{a}, func(off []int) {
		a.Data[off[0]] = 0
	})
}

// Copy2 copies src to dst over dims.
func Copy2(dims Dims, dst, src *Array) {
	unary(dims, dst, src, func(x complex128) complex128 { return x })
}

// Copy copies src to dst over the shape of dst.
func Copy(dst, src *Array) {
	Copy2(dst.Dims, dst, src)
}

// ZAdd2 computes dst = a + b over dims.
func ZAdd2(dims Dims, dst, a, b *Array) {
	binary(dims, dst, a, b, func(x, y complex128) complex128 { return x + y })
}

func ZAdd(dst, a, b *Array) {
	ZAdd2(dst.Dims, dst, a, b)
}

// ZSub2 computes dst = a - b over dims.
func ZSub2(dims Dims, dst, a, b *Array) {
	binary(dims, dst, a, b, func(x, y complex128) complex128 { return x - y })
}

func ZSub(dst, a, b *Array) {
	ZSub2(dst.Dims, dst, a, b)
}

// ZMul2 computes dst = a * b over dims.
func ZMul2(dims Dims, dst, a, b *Array) {
	binary(dims, dst, a, b, func(x, y complex128) complex128 { return x * y })
}

func ZMul(dst, a, b *Array) {
	ZMul2(dst.Dims, dst, a, b)
}

// ZMulC2 computes dst = a * conj(b) over dims.
func ZMulC2(dims Dims, dst, a, b *Array) {
	binary(dims, dst, a, b, func(x, y complex128) complex128 { return x * cmplx.Conj(y) })
}

// ZFMAC2 computes dst += a * b over dims.
// Axes on which dst has extent one are summed.
func ZFMAC2(dims Dims, dst, a, b *Array) {
	accum(dims, dst, a, b, func(x, y complex128) complex128 { return x * y })
}

// ZFMACC2 computes dst += a * conj(b) over dims.
func ZFMACC2(dims Dims, dst, a, b *Array) {
	accum(dims, dst, a, b, func(x, y complex128) complex128 { return x * cmplx.Conj(y) })
}

// ZAxpy computes dst += k * src over the shape of dst.
func ZAxpy(dst *Array, k complex128, src *Array) {
	each(dst.Dims, []*Array{dst, src}, func(off []int) {
		dst.Data[off[0]] += k * src.Data[off[1]]
	})
}

// ZScale computes dst = k * dst.
func ZScale(dst *Array, k complex128) {
	each(dst.Dims, []*Array{dst}, func(off []int) {
		dst.Data[off[0]] *= k
	})
}

// ZSMax2 computes dst = max(src, s) over dims,
// taking the real and imaginary parts separately.
func ZSMax2(dims Dims, dst, src *Array, s float64) {
	unary(dims, dst, src, func(x complex128) complex128 {
		return complex(math.Max(real(x), s), math.Max(imag(x), s))
	})
}

// ZDot returns the inner product sum_i conj(a_i) b_i.
func ZDot(a, b *Array) complex128 {
	if !a.Dims.Equal(b.Dims) {
		panic(fmt.Sprintf("bad dimensions: %v, %v", a.Dims, b.Dims))
	}
	var total complex128
	each(a.Dims, []*Array{a, b}, func(off []int) {
		total += cmplx.Conj(a.Data[off[0]]) * b.Data[off[1]]
	})
	return total
}

// Norm returns the Euclidean norm.
func Norm(a *Array) float64 {
	if a.Contiguous() {
		return floats.Norm(Floats(a.Elems()), 2)
	}
	return math.Sqrt(real(ZDot(a, a)))
}
