// Command recon filters images with a denoising network and
// reconstructs images from undersampled multi-coil k-space.
//
// Arrays are read and written in the cfl format; a path names
// the pair of files path.hdr and path.cfl.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "recon",
		Short:         "SENSE reconstruction with a learned prior",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.AddCommand(newDCNNCmd(), newITSENSECmd(), newPnPCmd())
	if err := root.Execute(); err != nil {
		log.Fatalln(err)
	}
}
