package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/rulerview/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries the global flags and what PersistentPreRunE builds from them.
type cli struct {
	configPath string
	verbose    bool
	backend    string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "rulerview",
		Short: "A terminal ruler picker",
		Long: `rulerview shows a scrollable ruler under a fixed centre line. Drag it
with the mouse, fling it, or step it with the keyboard; the value always
settles on a tick and is saved when you quit.

Run without arguments to open the picker.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: c.runPicker,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $RULERVIEW_CONFIG or ~/.config/rulerview/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&c.backend, "backend", "", "terminal backend: tea or tcell (overrides ui.backend)")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Open the picker",
			Args:  cobra.NoArgs,
			RunE:  c.runPicker,
		},
		&cobra.Command{
			Use:   "get",
			Short: "Print the stored value",
			Args:  cobra.NoArgs,
			RunE:  c.runGet,
		},
		&cobra.Command{
			Use:   "set <value>",
			Short: "Store a value, clamped and rounded onto the ruler",
			Args:  cobra.ExactArgs(1),
			RunE:  c.runSet,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List every stored ruler",
			Args:  cobra.NoArgs,
			RunE:  c.runList,
		},
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.backend != "" {
		cfg.UI.Backend = c.backend
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.cfg = cfg

	c.logger, err = newLogger(cfg.Log, c.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// newLogger writes JSON logs to the configured file; the terminal belongs to
// the picker.
func newLogger(lc config.LogConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Level != "" {
		lvl, err := zap.ParseAtomicLevel(lc.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = lvl
	}
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if lc.Path != "" {
		if err := os.MkdirAll(filepath.Dir(lc.Path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir log dir: %w", err)
		}
		zc.OutputPaths = []string{lc.Path}
		zc.ErrorOutputPaths = []string{lc.Path}
	}
	return zc.Build()
}
