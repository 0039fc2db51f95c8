package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/antiflow-api/internal/config"
	"github.com/phrazzld/antiflow-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

// rootOptions are shared by every subcommand.
type rootOptions struct {
	configFile    string
	collaborators collaboratorsFunc
}

// newRootCmd builds the command tree. build constructs the external
// collaborators so tests can substitute doubles.
func newRootCmd(build collaboratorsFunc) *cobra.Command {
	opts := &rootOptions{collaborators: build}

	root := &cobra.Command{
		Use:          "antiflow",
		Short:        "Generate narrated content kits from a topic",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"config file (default: ./config.yaml if present)")

	root.AddCommand(newServeCmd(opts), newGenerateCmd(opts))
	return root
}

// loadAppConfig loads configuration and sets up the logger it describes.
// The returned closer flushes the log destination.
func loadAppConfig(opts *rootOptions) (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l, closer, err := logger.Setup(cfg.Server, cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_root", cfg.Storage.RootDir,
		"images_enabled", cfg.Image.Enabled,
		"archive_enabled", cfg.Storage.ArchiveEnabled)
	l.Debug("LLM configuration", "model", cfg.LLM.ModelName, "api_key_present", cfg.LLM.GeminiAPIKey != "")

	return cfg, l, closer, nil
}
