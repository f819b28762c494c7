package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpfielding/medview.go/pkg/config"
	"github.com/jpfielding/medview.go/pkg/logging"
)

// cfg is loaded once by the root PersistentPreRun and shared by subcommands
var cfg = config.Default()

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medctl",
		Short: "a CLI to import, slice, and render medical image volumes",
		Long:  "medctl imports DICOM series into 3D volumes and renders them via ray marching",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfgPath, _ := cmd.Flags().GetString("config")
			loaded, err := config.Load(cfgPath)
			if err != nil {
				slog.WarnContext(ctx, "config load failed, using defaults", "path", cfgPath, "error", err)
			} else {
				cfg = loaded
			}

			logLevel, _ := cmd.Flags().GetString("log-level")
			if logLevel == "" {
				logLevel = cfg.Log.Level
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
				level = slog.LevelInfo
				slog.WarnContext(ctx, "invalid log level, defaulting to INFO", "level", logLevel, "error", err)
			}

			var sink io.Writer = os.Stdout
			if cfg.Log.File != "" {
				sink = io.MultiWriter(os.Stdout, logging.Rotating(cfg.Log.File))
			}
			slog.SetDefault(logging.Logger(sink, cfg.Log.JSON, level))
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewImportCmd(ctx),
		NewSliceCmd(ctx),
		NewRenderCmd(ctx),
		NewForgeCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("config", "", "Path to YAML config file")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(gitsha)
		},
	}
	return cmd
}
