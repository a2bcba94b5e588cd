package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"eye-diagnosis-api/internal/diagnosis"
)

func NewPredictCmd() *cobra.Command {
	var (
		noDelay bool
		count   int
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Print simulated predictions as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}

			a, err := newApp(cmd.Context(), cmd.ErrOrStderr(), func(o *diagnosis.Options) {
				if noDelay {
					o.DelayEnabled = false
				}
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for i := 0; i < count; i++ {
				res, err := a.svc.Predict(cmd.Context())
				if err != nil {
					return err
				}
				if err := enc.Encode(res); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noDelay, "no-delay", false, "skip the simulated inference latency")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of predictions")
	return cmd
}
