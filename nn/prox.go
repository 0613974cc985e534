package nn

import (
	"fmt"

	"github.com/jvlmdr/pnp-sense/linop"
	"github.com/jvlmdr/pnp-sense/md"
)

// ProxDCNN uses a network which predicts the noise in its input
// as a proximal operator:
//	prox(lambda, x) = x - (alpha/lambda) net(x)
type ProxDCNN struct {
	linop.Meta
	net   *Network
	alpha float64
}

func NewProxDCNN(net *Network, dims md.Dims, alpha float64) *ProxDCNN {
	return &ProxDCNN{linop.NewMeta(dims, dims), net, alpha}
}

// Apply panics unless lambda is positive.
// dst and src may share storage.
func (p *ProxDCNN) Apply(lambda float64, dst, src *md.Array) {
	p.CheckIO(dst, src)
	if lambda <= 0 {
		panic(fmt.Sprintf("non-positive step: %g", lambda))
	}
	x := src.Clone()
	y := p.net.Forward(x)
	md.Copy(dst, x)
	md.ZAxpy(dst, complex(-p.alpha/lambda, 0), y)
}

func (p *ProxDCNN) Free() {
	p.Meta.Free()
	p.net = nil
}
