package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/hireflow/internal/pipeline"
)

var (
	resumePath string
	phone      string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&resumePath, "resume", "", "path to the candidate resume (pdf or docx)")
	runCmd.Flags().StringVar(&phone, "phone", "", "candidate phone number in E.164 format")

	runCmd.MarkFlagRequired("resume") //nolint:errcheck
	runCmd.MarkFlagRequired("phone")  //nolint:errcheck
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "process a single candidate end to end and exit",
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

		runID := uuid.NewString()
		result := app.orchestrator.Run(ctx, runID, resumePath, phone)

		log.Info("run finished",
			zap.String("run_id", result.RunID),
			zap.String("outcome", string(result.Outcome)),
			zap.String("reason", result.Reason),
		)

		if result.Outcome == pipeline.OutcomeFailed {
			return fmt.Errorf("run %s failed: %s", result.RunID, result.Reason)
		}

		return nil
	},
}
