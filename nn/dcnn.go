/*
Package nn applies a fixed, pre-trained convolutional network.

The network is a stack of layers, each a cyclic convolution over the
spatial axes, a bias and a ReLU. The last layer has no ReLU: the output
is linear in the last layer's input, which suits a network trained to
predict a residual.

Kernel and bias are single arrays with a layer axis (mri.LayerDim).
Layer l of a kernel of shape [kx ky kz C C L] maps C input channels on
mri.CoilDim to C output channels on mri.MapsDim. The bias has shape
[1 1 1 1 C L]. All layers have the same width C, so that the output of
one layer is the input of the next without reordering.
*/
package nn

import (
	"fmt"

	"github.com/jvlmdr/pnp-sense/linop"
	"github.com/jvlmdr/pnp-sense/md"
	"github.com/jvlmdr/pnp-sense/mri"
)

// Network is a feed-forward convolutional network.
type Network struct {
	Kernel, Bias *md.Array
	// Trace, if not nil, is called with the output of each layer
	// after its activation. The array must not be retained.
	Trace func(layer int, out *md.Array)
}

// NewNetwork checks the shapes of a kernel and bias.
func NewNetwork(krn, bias *md.Array) (*Network, error) {
	n := len(krn.Dims)
	if n <= mri.LayerDim {
		return nil, fmt.Errorf("kernel has %d axes, need more than %d", n, mri.LayerDim)
	}
	if len(bias.Dims) != n {
		return nil, fmt.Errorf("axes differ: kernel %d, bias %d", n, len(bias.Dims))
	}
	if krn.Dims[mri.LayerDim] != bias.Dims[mri.LayerDim] {
		return nil, fmt.Errorf("layers differ: kernel %d, bias %d", krn.Dims[mri.LayerDim], bias.Dims[mri.LayerDim])
	}
	if krn.Dims[mri.LayerDim] < 1 {
		return nil, fmt.Errorf("no layers")
	}
	if krn.Dims[mri.CoilDim] != krn.Dims[mri.MapsDim] {
		return nil, fmt.Errorf("channels differ: input %d, output %d", krn.Dims[mri.CoilDim], krn.Dims[mri.MapsDim])
	}
	want := md.Singleton(n)
	want[mri.MapsDim] = krn.Dims[mri.MapsDim]
	want[mri.LayerDim] = krn.Dims[mri.LayerDim]
	if !bias.Dims.Equal(want) {
		return nil, fmt.Errorf("bad bias dimensions: want %v, got %v", want, bias.Dims)
	}
	return &Network{Kernel: krn, Bias: bias}, nil
}

func (net *Network) Layers() int {
	return net.Kernel.Dims[mri.LayerDim]
}

// Channels returns the width of every layer.
func (net *Network) Channels() int {
	return net.Kernel.Dims[mri.MapsDim]
}

// Forward returns the output of the network.
func (net *Network) Forward(in *md.Array) *md.Array {
	out := md.New(in.Dims)
	net.Apply(out, in)
	return out
}

// Apply computes the output of the network into out.
// The input must have one channel (extent one on mri.CoilDim and mri.MapsDim)
// and out must have the same shape.
func (net *Network) Apply(out, in *md.Array) {
	dims := in.Dims
	if !out.Dims.Equal(dims) {
		panic(fmt.Sprintf("bad dimensions: input %v, output %v", dims, out.Dims))
	}
	if len(dims) != len(net.Kernel.Dims) {
		panic(fmt.Sprintf("bad number of axes: input %d, kernel %d", len(dims), len(net.Kernel.Dims)))
	}
	if dims[mri.CoilDim] != 1 || dims[mri.MapsDim] != 1 {
		panic(fmt.Sprintf("bad dimensions: input has channels: %v", dims))
	}
	var (
		dimsIn  = dims.With(mri.CoilDim, net.Kernel.Dims[mri.CoilDim])
		dimsOut = dims.With(mri.MapsDim, net.Kernel.Dims[mri.MapsDim])
	)

	// Channels other than the first start at zero.
	cur := md.New(dimsIn)
	md.Copy(cur.Slice(mri.CoilDim, 0), in)

	relu := NewReLU(dimsOut)
	defer relu.Free()

	var next *md.Array
	for l, n := 0, net.Layers(); l < n; l++ {
		conv := linop.NewConv(dimsOut, dimsIn, net.Kernel.Slice(mri.LayerDim, l), mri.FFTFlags, linop.Cyclic, linop.Symmetric)
		next = md.New(dimsOut)
		conv.Apply(next, cur)
		md.ZAdd(next, next, net.Bias.Slice(mri.LayerDim, l))
		if l != n-1 {
			relu.Apply(next, next)
		}
		conv.Free()
		if net.Trace != nil {
			net.Trace(l, next)
		}
		// Output channels become input channels.
		cur = next.Reshape(dimsIn)
	}
	md.Copy(out, next.Slice(mri.MapsDim, 0))
}

// Residual computes out = in - net(in).
func Residual(net *Network, out, in *md.Array) {
	x := in.Clone()
	y := net.Forward(x)
	md.ZSub(out, x, y)
}
