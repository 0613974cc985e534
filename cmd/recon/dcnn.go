package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/jvlmdr/pnp-sense/cfl"
	"github.com/jvlmdr/pnp-sense/md"
	"github.com/jvlmdr/pnp-sense/nn"
)

func newDCNNCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dcnn input kernel bias output",
		Short: "Subtract the noise predicted by a network from an image",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDCNN(args[0], args[1], args[2], args[3])
		},
	}
}

func runDCNN(inFile, krnFile, biasFile, outFile string) error {
	in, err := loadArray("input", inFile)
	if err != nil {
		return err
	}
	net, err := loadNetwork(krnFile, biasFile)
	if err != nil {
		return err
	}
	log.Printf("network: %d layers, %d channels", net.Layers(), net.Channels())
	net.Trace = func(l int, _ *md.Array) {
		log.Printf("layer %d", l)
	}

	out, err := cfl.Create(outFile, in.Dims)
	if err != nil {
		return err
	}
	nn.Residual(net, out.Array, in)
	return out.Close()
}
