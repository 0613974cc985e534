package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jvlmdr/pnp-sense/cfl"
	"github.com/jvlmdr/pnp-sense/sense"
)

func newITSENSECmd() *cobra.Command {
	var (
		configFile string
		history    bool
		precond    bool
	)
	cmd := &cobra.Command{
		Use:   "itsense alpha sensitivities kspace pattern image",
		Short: "Iterative SENSE reconstruction with Tikhonov regularization",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			alpha, err := parseAlpha(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			m, kspace, err := loadModel(cfg, args[1], args[2], args[3])
			if err != nil {
				return err
			}
			defer m.Free()

			log.Printf("reconstruct %v from %v: alpha %g", m.Domain(), m.Codomain(), alpha)
			if precond {
				img, err := sense.ReconstructPCG(m, alpha, kspace, cfg.Tol, cfg.MaxIter, log.Writer())
				if err != nil {
					return err
				}
				return cfl.Save(args[4], img)
			}
			img, res := sense.Reconstruct(m, alpha, kspace, cfg.Config, log.Writer())
			log.Printf("done: %d iterations, residual %.6g, converged %v", res.Iter, res.Resid, res.Converged)
			if history {
				printHistory(os.Stdout, "RESIDUAL", res)
			}
			return cfl.Save(args[4], img)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "JSON file with max_iter, tol, fft and workers")
	cmd.Flags().BoolVar(&history, "history", false, "Print the residual of every iteration")
	cmd.Flags().BoolVar(&precond, "precond", false, "Precondition with the inverse diagonal (no history)")
	return cmd
}
