/*
Package md provides strided multidimensional arrays of complex samples.

An Array is a view: a shape, a stride per axis and a window into a
complex128 slice. Axes are ordered first-fastest. The axis count is a
property of each value and is never global; all operands of one kernel
must have the same count.

Axes of extent one broadcast. CalcStrides gives them stride zero and the
kernels ignore the stride of any operand axis whose extent is one, so a
sensitivity map of shape [x y z c m] can be multiplied against an image of
shape [x y z 1 m] with iteration shape [x y z c m]. When the destination
has extent one on an axis which is iterated, values accumulate (or are
overwritten, for Copy and friends).

The kernels panic when shapes disagree. A shape mismatch is a programming
error, not a condition to recover from.
*/
package md

import (
	"fmt"
	"strings"
)

// Dims lists the extent of every axis, first axis fastest.
type Dims []int

// Size returns the number of elements.
func (d Dims) Size() int {
	n := 1
	for _, x := range d {
		n *= x
	}
	return n
}

func (d Dims) Clone() Dims {
	return append(Dims(nil), d...)
}

func (d Dims) Equal(e Dims) bool {
	if len(d) != len(e) {
		return false
	}
	for i := range d {
		if d[i] != e[i] {
			return false
		}
	}
	return true
}

// With returns a copy with axis set to n.
func (d Dims) With(axis, n int) Dims {
	e := d.Clone()
	e[axis] = n
	return e
}

func (d Dims) String() string {
	s := make([]string, len(d))
	for i, x := range d {
		s[i] = fmt.Sprint(x)
	}
	return strings.Join(s, "x")
}

// Singleton returns dims of n axes all of extent one.
func Singleton(n int) Dims {
	d := make(Dims, n)
	for i := range d {
		d[i] = 1
	}
	return d
}

// Pad extends dims with trailing ones to n axes.
// It panics if dims has more than n axes.
func Pad(dims Dims, n int) Dims {
	if len(dims) > n {
		panic(fmt.Sprintf("too many axes: %d > %d", len(dims), n))
	}
	d := Singleton(n)
	copy(d, dims)
	return d
}

// CalcStrides returns the element strides of a dense array.
// Axes of extent one get stride zero.
func CalcStrides(dims Dims) []int {
	strs := make([]int, len(dims))
	n := 1
	for i, x := range dims {
		if x == 1 {
			strs[i] = 0
		} else {
			strs[i] = n
		}
		n *= x
	}
	return strs
}
