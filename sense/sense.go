/*
Package sense implements the SENSE model of parallel MRI and
reconstruction with it.

The model maps an image x to the k-space it would produce in every coil:
	E x = P F (S x)
where S multiplies by the coil sensitivities and sums over the maps axis,
F is the centered unitary Fourier transform over the spatial axes and P
multiplies by the sampling pattern. Axes follow package mri.
*/
package sense

import (
	"fmt"
	"math"

	"github.com/jvlmdr/pnp-sense/fft"
	"github.com/jvlmdr/pnp-sense/linop"
	"github.com/jvlmdr/pnp-sense/md"
	"github.com/jvlmdr/pnp-sense/mri"
)

// Model is the SENSE forward operator from images to k-space.
// It holds the sensitivities and pattern by reference.
type Model struct {
	linop.Meta
	sens    *md.Array
	pattern *md.Array
	fft     fft.Backend
	// k-space shaped scratch buffer.
	tmp *md.Array
}

// NewModel checks the shapes and returns the model with image dims
// ImageDims(sens.Dims) and k-space dims data.
// If backend is nil, fft.Default is used.
func NewModel(sens, pattern *md.Array, data md.Dims, backend fft.Backend) (*Model, error) {
	imgs := mri.ImageDims(sens.Dims)
	if err := CheckDims(sens.Dims, pattern.Dims, data, imgs); err != nil {
		return nil, err
	}
	if backend == nil {
		backend = fft.Default
	}
	m := &Model{
		Meta:    linop.NewMeta(data, imgs),
		sens:    sens,
		pattern: pattern,
		fft:     backend,
		tmp:     md.New(data),
	}
	return m, nil
}

// CheckDims reports whether sensitivities, pattern, k-space and image
// shapes are compatible.
func CheckDims(sens, mask, data, imgs md.Dims) error {
	n := len(sens)
	if n <= mri.MapsDim {
		return fmt.Errorf("too few axes: %d", n)
	}
	if len(mask) != n || len(data) != n || len(imgs) != n {
		return fmt.Errorf("different number of axes: sensitivities %d, pattern %d, kspace %d, image %d", n, len(mask), len(data), len(imgs))
	}
	for i := 0; i < 3; i++ {
		if mask[i] != sens[i] || data[i] != sens[i] || imgs[i] != sens[i] {
			return fmt.Errorf("spatial dims differ: sensitivities %v, pattern %v, kspace %v, image %v", sens, mask, data, imgs)
		}
	}
	switch {
	case data[mri.CoilDim] != sens[mri.CoilDim]:
		return fmt.Errorf("number of coils differs: sensitivities %d, kspace %d", sens[mri.CoilDim], data[mri.CoilDim])
	case data[mri.MapsDim] != 1:
		return fmt.Errorf("kspace has %d maps", data[mri.MapsDim])
	case mask[mri.CoilDim] != 1 || mask[mri.MapsDim] != 1:
		return fmt.Errorf("pattern has coils or maps: %v", mask)
	case imgs[mri.CoilDim] != 1:
		return fmt.Errorf("image has %d coils", imgs[mri.CoilDim])
	case imgs[mri.MapsDim] != sens[mri.MapsDim]:
		return fmt.Errorf("number of maps differs: sensitivities %d, image %d", sens[mri.MapsDim], imgs[mri.MapsDim])
	}
	for i := mri.MapsDim + 1; i < n; i++ {
		if sens[i] != 1 || mask[i] != 1 || data[i] != 1 || imgs[i] != 1 {
			return fmt.Errorf("extra axis %d not supported: sensitivities %v, pattern %v, kspace %v, image %v", i, sens, mask, data, imgs)
		}
	}
	return nil
}

// Leaves F S src in tmp.
func (m *Model) spread(src *md.Array) {
	md.Clear(m.tmp)
	md.ZFMAC2(m.sens.Dims, m.tmp, m.sens, src)
	m.fft.Forward(m.tmp, mri.FFTFlags)
}

// Computes dst = S* F* tmp, overwriting tmp.
func (m *Model) gather(dst *md.Array) {
	m.fft.Inverse(m.tmp, mri.FFTFlags)
	md.Clear(dst)
	md.ZFMACC2(m.sens.Dims, dst, m.tmp, m.sens)
}

// Apply computes the k-space dst of the image src.
func (m *Model) Apply(dst, src *md.Array) {
	m.CheckIO(dst, src)
	m.spread(src)
	md.ZMul2(dst.Dims, dst, m.tmp, m.pattern)
}

// Adjoint computes the image dst of the k-space src.
func (m *Model) Adjoint(dst, src *md.Array) {
	m.CheckAdjointIO(dst, src)
	md.ZMulC2(src.Dims, m.tmp, src, m.pattern)
	m.gather(dst)
}

// Normal computes dst = E* E src through the scratch buffer.
func (m *Model) Normal(dst, src *md.Array) {
	m.CheckIO(m.tmp, src)
	if !dst.Dims.Equal(m.Domain()) {
		panic(fmt.Sprintf("bad dimensions: output: operator %v, array %v", m.Domain(), dst.Dims))
	}
	m.spread(src)
	md.ZMul2(m.tmp.Dims, m.tmp, m.tmp, m.pattern)
	md.ZMulC2(m.tmp.Dims, m.tmp, m.tmp, m.pattern)
	m.gather(dst)
}

// Free releases the scratch buffer and the references to the inputs.
func (m *Model) Free() {
	m.Meta.Free()
	m.sens, m.pattern, m.tmp = nil, nil, nil
}

// MaxEigen estimates the largest eigenvalue of E* E
// by n iterations of the power method from a constant image.
func MaxEigen(m *Model, n int) float64 {
	x := md.New(m.Domain())
	for i := range x.Data {
		x.Data[i] = 1
	}
	y := md.New(m.Domain())
	var lambda float64
	for i := 0; i < n; i++ {
		norm := md.Norm(x)
		if norm == 0 {
			return 0
		}
		md.ZScale(x, complex(1/norm, 0))
		m.Normal(y, x)
		lambda = real(md.ZDot(x, y))
		x, y = y, x
	}
	return math.Max(lambda, 0)
}
