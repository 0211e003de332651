package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/bithunter/internal/app"
	"github.com/youruser/bithunter/internal/config"
	"github.com/youruser/bithunter/internal/util"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "bithunter",
	Short: "bithunter downloads PSN trophy icons and frames them for stream overlays.",
	Long: `Without a subcommand bithunter starts an interactive prompt: type a
psnprofiles game id to process its trophies, 0 to frame the images in the
consume folder, or exit to quit.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := setup(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer func() { _ = c.Logger.Sync() }()

		return runPrompt(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), c.Runner)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the JSON5 config file")
}

// setup loads the config, creates the working folders and assembles the
// services. Folder creation is reported on out the first time it happens.
func setup(out io.Writer) (*app.Container, error) {
	cfg, created, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if created {
		fmt.Fprintf(out, "Could not find %s. Generating one with default values...\n", configPath)
	}

	dirs, err := util.EnsureDirs(cfg.ConsumeDir, cfg.OriginalsDir, cfg.ProcessedDir)
	for _, d := range dirs {
		fmt.Fprintf(out, "Generating %s folder...\n", d)
	}
	if len(dirs) > 0 {
		fmt.Fprintln(out, "-------------------------------")
	}
	if err != nil {
		return nil, fmt.Errorf("creating folders: %w", err)
	}

	logger, err := util.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	for _, w := range cfg.Warnings() {
		logger.Warn("Config", zap.String("warning", w))
	}

	return app.Build(cfg, logger, out)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
