package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hireflow/internal/server"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the HTTP server that accepts resumes and drives hiring runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := getConfig()
		if err != nil {
			return err
		}

		log, err := buildLogger()
		if err != nil {
			return err
		}
		defer log.Sync() //nolint:errcheck

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := buildApplication(ctx, config, log)
		if err != nil {
			return err
		}
		defer app.Close() //nolint:errcheck

		addr := defaultAddr
		tempDir := ""
		if config.Server != nil {
			if config.Server.Addr != "" {
				addr = config.Server.Addr
			}
			tempDir = config.Server.TempDir
		}

		srv := server.New(app.orchestrator, app.events, tempDir, log)

		log.Info("starting server", zap.String("addr", addr))

		return srv.Serve(ctx, addr)
	},
}
