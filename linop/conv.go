package linop

import (
	"fmt"
	"math/cmplx"

	"github.com/jvlmdr/pnp-sense/md"
)

// Boundary determines how a convolution treats the edges of its input.
type Boundary int

const (
	// Cyclic extends the input periodically.
	// The output has the extent of the input.
	Cyclic Boundary = iota
	// Valid uses only positions where the kernel lies inside the input.
	// The output is shorter than the input by the kernel extent minus one.
	Valid
)

// Centering determines the origin of a cyclic kernel.
type Centering int

const (
	// Symmetric places the origin of a kernel of extent K at K/2.
	Symmetric Centering = iota
	// Causal places the origin at K-1, so that output x sees inputs up to x.
	Causal
)

// Conv computes the cross-correlation of its input with a kernel
// along the axes selected by flags:
//	out[x] = sum_k krn[k] in[x + k - origin]
//
// The other axes follow broadcasting rules. An axis on which the output
// has extent one while the input or kernel does not is summed (input
// channels). An axis on which the input has extent one while the output
// and kernel do not is produced (output channels). Axes on which all
// three agree are independent.
//
// The kernel is held by reference.
type Conv struct {
	Meta
	krn      *md.Array
	flags    uint
	boundary Boundary
	center   Centering
}

// NewConv creates a convolution from inDims to outDims.
// It panics if the shapes are not compatible.
func NewConv(outDims, inDims md.Dims, krn *md.Array, flags uint, boundary Boundary, center Centering) *Conv {
	n := len(krn.Dims)
	if len(outDims) != n || len(inDims) != n {
		panic(fmt.Sprintf("bad number of axes: out %d, in %d, kernel %d", len(outDims), len(inDims), n))
	}
	for d := 0; d < n; d++ {
		o, i, k := outDims[d], inDims[d], krn.Dims[d]
		if flags&(1<<uint(d)) != 0 {
			want := i
			if boundary == Valid {
				want = i - k + 1
			}
			if o != want || o < 1 {
				panic(fmt.Sprintf("bad dimensions: conv axis %d: out %d, in %d, kernel %d", d, o, i, k))
			}
			continue
		}
		f := max(o, i, k)
		if (o != 1 && o != f) || (i != 1 && i != f) || (k != 1 && k != f) {
			panic(fmt.Sprintf("bad dimensions: conv axis %d: out %d, in %d, kernel %d", d, o, i, k))
		}
	}
	return &Conv{
		Meta:     NewMeta(outDims, inDims),
		krn:      krn,
		flags:    flags,
		boundary: boundary,
		center:   center,
	}
}

// Input index seen by output x and kernel tap k on spatial axis d.
func (c *Conv) index(d, x, k int) int {
	if c.boundary == Valid {
		return x + k
	}
	origin := c.krn.Dims[d] / 2
	if c.center == Causal {
		origin = c.krn.Dims[d] - 1
	}
	return mod(x+k-origin, c.dom[d])
}

// Calls f with the storage index into out, in and the kernel
// of every product in the correlation.
func (c *Conv) each(out, in *md.Array, f func(o, i, k int)) {
	n := len(c.dom)
	outer := make(md.Dims, n)
	taps := md.Singleton(n)
	var spatial []int
	for d := 0; d < n; d++ {
		if c.flags&(1<<uint(d)) != 0 {
			spatial = append(spatial, d)
			outer[d] = c.cod[d]
			taps[d] = c.krn.Dims[d]
		} else {
			outer[d] = max(c.cod[d], c.dom[d], c.krn.Dims[d])
		}
	}
	var (
		ostr = broadcastStrides(out)
		istr = broadcastStrides(in)
		kstr = broadcastStrides(c.krn)
	)
	md.Loop(outer, func(pos []int) {
		o, i0, k0 := out.Off, in.Off, c.krn.Off
		for d, p := range pos {
			o += p * ostr[d]
			if c.flags&(1<<uint(d)) == 0 {
				i0 += p * istr[d]
				k0 += p * kstr[d]
			}
		}
		md.Loop(taps, func(tap []int) {
			i, k := i0, k0
			for _, d := range spatial {
				i += c.index(d, pos[d], tap[d]) * istr[d]
				k += tap[d] * kstr[d]
			}
			f(o, i, k)
		})
	})
}

func (c *Conv) Apply(dst, src *md.Array) {
	c.CheckIO(dst, src)
	tmp := md.New(c.cod)
	c.each(tmp, src, func(o, i, k int) {
		tmp.Data[o] += c.krn.Data[k] * src.Data[i]
	})
	md.Copy(dst, tmp)
}

// Adjoint correlates with the conjugate kernel in the opposite direction.
func (c *Conv) Adjoint(dst, src *md.Array) {
	c.CheckAdjointIO(dst, src)
	tmp := md.New(c.dom)
	c.each(src, tmp, func(o, i, k int) {
		tmp.Data[i] += cmplx.Conj(c.krn.Data[k]) * src.Data[o]
	})
	md.Copy(dst, tmp)
}

func (c *Conv) Free() {
	c.Meta.Free()
	c.krn = nil
}

// Strides of a with zeros on axes of extent one.
func broadcastStrides(a *md.Array) []int {
	s := make([]int, len(a.Dims))
	for d, x := range a.Dims {
		if x != 1 {
			s[d] = a.Strs[d]
		}
	}
	return s
}
