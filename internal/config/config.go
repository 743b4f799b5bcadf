package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/rulerview/internal/axis"
	"github.com/jask/rulerview/internal/canvas"
	"github.com/jask/rulerview/internal/momentum"
	"github.com/jask/rulerview/internal/prefs"
	"github.com/jask/rulerview/internal/snap"
)

// Config holds application configuration.
type Config struct {
	Ruler   RulerConfig   `mapstructure:"ruler"`
	Physics PhysicsConfig `mapstructure:"physics"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
}

// RulerConfig describes the value axis and how it is drawn.
type RulerConfig struct {
	Name           string   `mapstructure:"name"`
	Min            float64  `mapstructure:"min"`
	Max            float64  `mapstructure:"max"`
	Step           float64  `mapstructure:"step"`
	Value          *float64 `mapstructure:"value"` // nil selects the midpoint
	Unit           string   `mapstructure:"unit"`
	TickSpacing    float64  `mapstructure:"tick_spacing"`
	MajorEvery     int      `mapstructure:"major_every"`
	LabelEvery     int      `mapstructure:"label_every"`
	LabelClearance float64  `mapstructure:"label_clearance"`
	Orientation    string   `mapstructure:"orientation"`
	Gravity        string   `mapstructure:"gravity"`
}

// PhysicsConfig holds fling and snap tuning.
type PhysicsConfig struct {
	MinFlingVelocity  float64       `mapstructure:"min_fling_velocity"`
	MaxFlingVelocity  float64       `mapstructure:"max_fling_velocity"`
	FlingTimeConstant time.Duration `mapstructure:"fling_time_constant"`
	StopVelocity      float64       `mapstructure:"stop_velocity"`
	SnapDuration      time.Duration `mapstructure:"snap_duration"`
	Correction        bool          `mapstructure:"correction"`
}

// StorageConfig selects where the value is persisted.
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // sqlite or file
	Path    string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Backend   string  `mapstructure:"backend"` // tea or tcell
	FPS       int     `mapstructure:"fps"`
	PxPerCell float64 `mapstructure:"px_per_cell"`
	Click     bool    `mapstructure:"click"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendTea    = "tea"
	BackendTcell  = "tcell"
)

// Path returns the config file location: explicit, then RULERVIEW_CONFIG, then
// ~/.config/rulerview/config.toml.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv("RULERVIEW_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "rulerview", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix
// RULERVIEW_. A missing config file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	share := filepath.Join(os.Getenv("HOME"), ".local", "share", "rulerview")
	v.SetDefault("ruler.name", "default")
	v.SetDefault("ruler.min", 0.0)
	v.SetDefault("ruler.max", 100.0)
	v.SetDefault("ruler.step", 0.1)
	v.SetDefault("ruler.unit", "kg")
	v.SetDefault("ruler.tick_spacing", 8.0)
	v.SetDefault("ruler.major_every", 5)
	v.SetDefault("ruler.label_every", 2)
	v.SetDefault("ruler.label_clearance", -1.0)
	v.SetDefault("ruler.orientation", "horizontal")
	v.SetDefault("ruler.gravity", "top")
	v.SetDefault("physics.min_fling_velocity", momentum.DefaultMinVelocity)
	v.SetDefault("physics.max_fling_velocity", momentum.DefaultMaxVelocity)
	v.SetDefault("physics.fling_time_constant", momentum.DefaultTimeConstant)
	v.SetDefault("physics.stop_velocity", momentum.DefaultStopVelocity)
	v.SetDefault("physics.snap_duration", snap.DefaultDuration)
	v.SetDefault("physics.correction", true)
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("ui.backend", BackendTea)
	v.SetDefault("ui.fps", 60)
	v.SetDefault("ui.px_per_cell", 4.0)
	v.SetDefault("ui.click", false)
	v.SetDefault("log.path", filepath.Join(share, "rulerview.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	v.SetConfigFile(Path(path))

	v.SetEnvPrefix("RULERVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// no default, so AutomaticEnv alone would never surface it
	_ = v.BindEnv("ruler.value")

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Storage.Path == "" {
		c.Storage.Path = defaultStoragePath(share, c.Storage.Backend)
	}
	return c, nil
}

func defaultStoragePath(dir, backend string) string {
	if backend == BackendFile {
		if p, err := prefs.DefaultPath(); err == nil {
			return p
		}
		return filepath.Join(dir, "values.json")
	}
	return filepath.Join(dir, "rulerview.db")
}

// Save writes cfg to path as TOML, creating the config directory if needed.
func Save(cfg Config, path string) error {
	path = Path(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("ruler.name", cfg.Ruler.Name)
	v.Set("ruler.min", cfg.Ruler.Min)
	v.Set("ruler.max", cfg.Ruler.Max)
	v.Set("ruler.step", cfg.Ruler.Step)
	if cfg.Ruler.Value != nil {
		v.Set("ruler.value", *cfg.Ruler.Value)
	}
	v.Set("ruler.unit", cfg.Ruler.Unit)
	v.Set("ruler.tick_spacing", cfg.Ruler.TickSpacing)
	v.Set("ruler.major_every", cfg.Ruler.MajorEvery)
	v.Set("ruler.label_every", cfg.Ruler.LabelEvery)
	v.Set("ruler.label_clearance", cfg.Ruler.LabelClearance)
	v.Set("ruler.orientation", cfg.Ruler.Orientation)
	v.Set("ruler.gravity", cfg.Ruler.Gravity)
	v.Set("physics.min_fling_velocity", cfg.Physics.MinFlingVelocity)
	v.Set("physics.max_fling_velocity", cfg.Physics.MaxFlingVelocity)
	v.Set("physics.fling_time_constant", cfg.Physics.FlingTimeConstant.String())
	v.Set("physics.stop_velocity", cfg.Physics.StopVelocity)
	v.Set("physics.snap_duration", cfg.Physics.SnapDuration.String())
	v.Set("physics.correction", cfg.Physics.Correction)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("ui.backend", cfg.UI.Backend)
	v.Set("ui.fps", cfg.UI.FPS)
	v.Set("ui.px_per_cell", cfg.UI.PxPerCell)
	v.Set("ui.click", cfg.UI.Click)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (r RulerConfig) AxisConfig() axis.Config {
	return axis.Config{
		Min:         r.Min,
		Max:         r.Max,
		Step:        r.Step,
		TickSpacing: r.TickSpacing,
		MajorEvery:  r.MajorEvery,
		LabelEvery:  r.LabelEvery,
		Unit:        r.Unit,
	}
}

// Initial is the configured starting value, or NaN for the midpoint.
func (r RulerConfig) Initial() float64 {
	if r.Value == nil {
		return math.NaN()
	}
	return *r.Value
}

func (p PhysicsConfig) Simulator() momentum.Simulator {
	return momentum.Simulator{
		MinVelocity:  p.MinFlingVelocity,
		MaxVelocity:  p.MaxFlingVelocity,
		TimeConstant: p.FlingTimeConstant,
		StopVelocity: p.StopVelocity,
	}
}

func (p PhysicsConfig) Corrector() snap.Corrector { return snap.Corrector{Duration: p.SnapDuration} }

// FrameInterval is the frame clock period for the configured rate.
func (u UIConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(max(u.FPS, 1))
}

// Validate reports every problem in c, joined.
func (c Config) Validate() error {
	var errs []error
	if _, err := axis.New(c.Ruler.AxisConfig()); err != nil {
		errs = append(errs, err)
	}
	if _, err := canvas.ParseOrientation(c.Ruler.Orientation); err != nil {
		errs = append(errs, fmt.Errorf("ruler.orientation: %w", err))
	}
	if _, err := canvas.ParseGravity(c.Ruler.Gravity); err != nil {
		errs = append(errs, fmt.Errorf("ruler.gravity: %w", err))
	}
	if b := c.Storage.Backend; b != BackendSQLite && b != BackendFile {
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q", b))
	}
	if b := c.UI.Backend; b != BackendTea && b != BackendTcell {
		errs = append(errs, fmt.Errorf("ui.backend: unknown backend %q", b))
	}
	if c.UI.FPS <= 0 {
		errs = append(errs, fmt.Errorf("ui.fps: must be positive, got %d", c.UI.FPS))
	}
	if c.UI.PxPerCell <= 0 {
		errs = append(errs, fmt.Errorf("ui.px_per_cell: must be positive, got %g", c.UI.PxPerCell))
	}
	return errors.Join(errs...)
}
