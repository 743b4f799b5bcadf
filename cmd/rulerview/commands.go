package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/rulerview/internal/axis"
	"github.com/jask/rulerview/internal/canvas"
	"github.com/jask/rulerview/internal/config"
	"github.com/jask/rulerview/internal/database"
	"github.com/jask/rulerview/internal/database/repository"
	"github.com/jask/rulerview/internal/feedback"
	"github.com/jask/rulerview/internal/prefs"
	"github.com/jask/rulerview/internal/ruler"
	"github.com/jask/rulerview/internal/tcellview"
	"github.com/jask/rulerview/internal/tui"
)

// valueStore is a ruler.Store that can also enumerate what it holds.
type valueStore interface {
	ruler.Store
	Values(ctx context.Context) (map[string]float64, error)
}

// openStore opens the configured backend. The returned close func is never nil.
func openStore(sc config.StorageConfig) (valueStore, func() error, error) {
	switch sc.Backend {
	case config.BackendFile:
		return prefs.NewFileStore(sc.Path), func() error { return nil }, nil
	default:
		db, err := database.OpenMigrated(sc.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}
		return repository.NewRulerRepo(db), db.Close, nil
	}
}

func (c *cli) newPicker() (*ruler.Picker, error) {
	ax, err := axis.New(c.cfg.Ruler.AxisConfig())
	if err != nil {
		return nil, err
	}
	return ruler.New(ax, c.cfg.Ruler.Initial(),
		ruler.WithName(c.cfg.Ruler.Name),
		ruler.WithPhysics(c.cfg.Physics.Simulator(), c.cfg.Physics.Corrector(), c.cfg.Physics.Correction),
		ruler.WithLabelClearance(c.cfg.Ruler.LabelClearance),
		ruler.WithLogger(c.logger.Named("ruler")),
	), nil
}

// loaded builds the picker and restores its stored value.
func (c *cli) loaded(ctx context.Context) (*ruler.Picker, valueStore, func() error, error) {
	p, err := c.newPicker()
	if err != nil {
		return nil, nil, nil, err
	}
	store, closeStore, err := openStore(c.cfg.Storage)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := p.Load(ctx, store); err != nil {
		_ = closeStore()
		return nil, nil, nil, err
	}
	return p, store, closeStore, nil
}

func (c *cli) runGet(cmd *cobra.Command, args []string) error {
	p, _, closeStore, err := c.loaded(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()
	fmt.Fprintln(cmd.OutOrStdout(), p.Text())
	return nil
}

func (c *cli) runSet(cmd *cobra.Command, args []string) error {
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("parse value %q: %w", args[0], err)
	}
	if math.IsNaN(v) {
		return fmt.Errorf("parse value %q: not a number", args[0])
	}
	p, store, closeStore, err := c.loaded(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := p.Axis().ToIndexStrict(v); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v, clamped\n", err)
	}
	if err := p.SetValue(v); err != nil {
		return err
	}
	if err := p.Save(cmd.Context(), store); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), p.Text())
	return nil
}

func (c *cli) runList(cmd *cobra.Command, args []string) error {
	store, closeStore, err := openStore(c.cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	values, err := store.Values(cmd.Context())
	if err != nil {
		return fmt.Errorf("list values: %w", err)
	}
	for _, name := range slices.Sorted(maps.Keys(values)) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, strconv.FormatFloat(values[name], 'f', -1, 64))
	}
	return nil
}

// runPicker opens the interactive picker on the configured backend and saves
// the value on the way out.
func (c *cli) runPicker(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, store, closeStore, err := c.loaded(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	orient, err := canvas.ParseOrientation(c.cfg.Ruler.Orientation)
	if err != nil {
		return err
	}
	gravity, err := canvas.ParseGravity(c.cfg.Ruler.Gravity)
	if err != nil {
		return err
	}

	var clicker tui.Detenter
	if c.cfg.UI.Click {
		fb := feedback.NewClicker(c.logger.Named("feedback"))
		defer fb.Close()
		clicker = fb
	}

	c.logger.Info("starting picker",
		zap.String("name", p.Name()),
		zap.String("backend", c.cfg.UI.Backend),
		zap.Float64("value", p.Value()))

	switch c.cfg.UI.Backend {
	case config.BackendTcell:
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open screen: %w", err)
		}
		v := tcellview.New(screen, p, tcellview.Options{
			Orientation:   orient,
			Gravity:       gravity,
			PxPerCell:     c.cfg.UI.PxPerCell,
			FrameInterval: c.cfg.UI.FrameInterval(),
			Clicker:       clicker,
			Logger:        c.logger.Named("tcell"),
		})
		if err := v.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	default:
		m := tui.New(p, tui.Options{
			Orientation:   orient,
			Gravity:       gravity,
			PxPerCell:     c.cfg.UI.PxPerCell,
			FrameInterval: c.cfg.UI.FrameInterval(),
			Clicker:       clicker,
			Logger:        c.logger.Named("tui"),
		})
		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
			return err
		}
	}

	// Save even when the context was cancelled.
	if err := p.Save(context.WithoutCancel(ctx), store); err != nil {
		return err
	}
	c.logger.Info("saved", zap.String("name", p.Name()), zap.Float64("value", p.Value()))
	return nil
}
