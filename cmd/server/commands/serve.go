package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"eye-diagnosis-api/internal/diagnosis"
	"eye-diagnosis-api/internal/report"
	"eye-diagnosis-api/internal/server"
)

func NewServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, os.Stdout, nil)
			if err != nil {
				return err
			}
			if port != "" {
				a.cfg.Port = port
			}

			reportSvc := report.NewService(a.cfg.ReportFontPaths)
			handler := diagnosis.NewHandler(a.svc, reportSvc, a.log)
			router := server.NewRouter(handler, a.cfg.CORSAllowedOrigins, a.log)

			a.log.WithField("delay_enabled", a.cfg.DelayEnabled).
				WithField("delay", a.cfg.Delay.String()).
				Info("prediction stub configured")

			return server.New(":"+a.cfg.Port, router, a.cfg.ShutdownTimeout, a.log).Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}
