package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jvlmdr/go-file/fileutil"
	"github.com/olekukonko/tablewriter"

	"github.com/jvlmdr/pnp-sense/cfl"
	"github.com/jvlmdr/pnp-sense/fft"
	"github.com/jvlmdr/pnp-sense/iter"
	"github.com/jvlmdr/pnp-sense/md"
	"github.com/jvlmdr/pnp-sense/mri"
	"github.com/jvlmdr/pnp-sense/nn"
	"github.com/jvlmdr/pnp-sense/sense"
)

// Config holds the solver settings read with --config.
type Config struct {
	iter.Config
	// Fourier transform backend: "gonum" or "fftw".
	FFT     string `json:"fft"`
	Workers int    `json:"workers"`
}

func loadConfig(fname string) (*Config, error) {
	cfg := &Config{Config: iter.DefaultConfig}
	if fname == "" {
		return cfg, nil
	}
	if err := fileutil.LoadJSON(fname, cfg); err != nil {
		return nil, fmt.Errorf("load config: %v", err)
	}
	return cfg, nil
}

func (cfg *Config) backend() (fft.Backend, error) {
	return fft.ByName(cfg.FFT, cfg.Workers)
}

func parseAlpha(s string) (float64, error) {
	alpha, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse alpha: %v", err)
	}
	if alpha < 0 {
		return 0, fmt.Errorf("negative alpha: %g", alpha)
	}
	return alpha, nil
}

func loadArray(what, name string) (*md.Array, error) {
	a, err := cfl.Load(name, mri.DIMS)
	if err != nil {
		return nil, fmt.Errorf("load %s: %v", what, err)
	}
	return a, nil
}

func loadNetwork(krnFile, biasFile string) (*nn.Network, error) {
	krn, err := loadArray("kernel", krnFile)
	if err != nil {
		return nil, err
	}
	bias, err := loadArray("bias", biasFile)
	if err != nil {
		return nil, err
	}
	return nn.NewNetwork(krn, bias)
}

// Loads sensitivities, k-space and pattern and builds the model.
func loadModel(cfg *Config, sensFile, kspaceFile, patternFile string) (*sense.Model, *md.Array, error) {
	sens, err := loadArray("sensitivities", sensFile)
	if err != nil {
		return nil, nil, err
	}
	kspace, err := loadArray("kspace", kspaceFile)
	if err != nil {
		return nil, nil, err
	}
	pattern, err := loadArray("pattern", patternFile)
	if err != nil {
		return nil, nil, err
	}
	backend, err := cfg.backend()
	if err != nil {
		return nil, nil, err
	}
	m, err := sense.NewModel(sens, pattern, kspace.Dims, backend)
	if err != nil {
		return nil, nil, err
	}
	return m, kspace, nil
}

func printHistory(w io.Writer, label string, res iter.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ITER", label})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for i, r := range res.History {
		table.Append([]string{strconv.Itoa(i + 1), strconv.FormatFloat(r, 'g', 6, 64)})
	}
	table.Render()
}
