package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/phrazzld/antiflow-api/internal/domain"
	"github.com/phrazzld/antiflow-api/internal/platform/logger"
	"github.com/phrazzld/antiflow-api/internal/task"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	topic    string
	duration string
	mood     string
	voice    string
}

// newGenerateCmd runs one pipeline in-process and prints the final task record.
func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one content kit without starting the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := domain.NewGenerationRequest(flags.topic, flags.duration, flags.mood, flags.voice)
			if err != nil {
				return err
			}

			cfg, log, logCloser, err := loadAppConfig(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logCloser.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx = logger.WithLogger(ctx, log)

			collab, err := opts.collaborators(ctx, cfg, log)
			if err != nil {
				return err
			}
			app, err := newApplication(cfg, log, collab)
			if err != nil {
				return err
			}
			defer func() { _ = app.cleanup() }()

			rec, err := app.taskStore.Create(ctx)
			if err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}
			gen, err := app.taskFactory.CreateTask(rec.ID, req)
			if err != nil {
				return fmt.Errorf("failed to create task: %w", err)
			}

			final, runErr := task.ExecuteAndRecord(ctx, app.taskStore, gen)
			if final != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(final); err != nil {
					return fmt.Errorf("failed to print result: %w", err)
				}
			}
			if runErr != nil {
				return fmt.Errorf("generation failed: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.topic, "topic", "t", "", "topic of the content kit")
	cmd.Flags().StringVarP(&flags.duration, "duration", "d", "short", "duration target (short, medium, long)")
	cmd.Flags().StringVarP(&flags.mood, "mood", "m", "educational", "tone of the narration")
	cmd.Flags().StringVar(&flags.voice, "voice", "", "narration voice (default from config)")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}
