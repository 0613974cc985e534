package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jvlmdr/pnp-sense/cfl"
	"github.com/jvlmdr/pnp-sense/mri"
	"github.com/jvlmdr/pnp-sense/nn"
	"github.com/jvlmdr/pnp-sense/sense"
)

func newPnPCmd() *cobra.Command {
	var (
		configFile string
		history    bool
		step       float64
	)
	cmd := &cobra.Command{
		Use:   "pnp alpha kernel bias sensitivities kspace pattern image",
		Short: "Proximal gradient reconstruction with a network prior",
		Args:  cobra.ExactArgs(7),
		RunE: func(cmd *cobra.Command, args []string) error {
			alpha, err := parseAlpha(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}
			net, err := loadNetwork(args[1], args[2])
			if err != nil {
				return err
			}
			m, kspace, err := loadModel(cfg, args[3], args[4], args[5])
			if err != nil {
				return err
			}
			defer m.Free()
			if n := m.Domain()[mri.MapsDim]; n != 1 {
				return fmt.Errorf("network prior needs one map, got %d", n)
			}

			if step <= 0 {
				lambda := sense.MaxEigen(m, 30)
				if lambda == 0 {
					return fmt.Errorf("model is zero")
				}
				step = 1 / lambda
				log.Printf("max eigenvalue %.6g: step %.6g", lambda, step)
			}
			prox := nn.NewProxDCNN(net, m.Domain(), alpha)
			defer prox.Free()

			log.Printf("reconstruct %v from %v: alpha %g, step %g", m.Domain(), m.Codomain(), alpha, step)
			img, res := sense.ReconstructPnP(m, prox, kspace, cfg.Config, step, log.Writer())
			log.Printf("done: %d iterations, change %.6g, converged %v", res.Iter, res.Resid, res.Converged)
			if history {
				printHistory(os.Stdout, "CHANGE", res)
			}
			return cfl.Save(args[6], img)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "JSON file with max_iter, tol, fft and workers")
	cmd.Flags().BoolVar(&history, "history", false, "Print the change of every iteration")
	cmd.Flags().Float64Var(&step, "step", 0, "Gradient step (default from the largest eigenvalue of the normal operator)")
	return cmd
}
