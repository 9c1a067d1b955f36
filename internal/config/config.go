package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/astarnav/cost"
	"github.com/pdrpinto/astarnav/grid"
)

// Config holds all planner and navigation settings
type Config struct {
	Planner  PlannerConfig  `yaml:"planner"`
	Loop     LoopConfig     `yaml:"loop"`
	Scenario ScenarioConfig `yaml:"scenario"`
	Journal  JournalConfig  `yaml:"journal"`
	Log      LogConfig      `yaml:"log"`
}

// PlannerConfig is the cost model surface. Omitted weights default to 1; an
// explicit 0 switches the term off.
type PlannerConfig struct {
	Variant        string   `yaml:"variant"`      // baseline | augmented
	Connectivity   int      `yaml:"connectivity"` // 4 | 8
	DistanceWeight *float64 `yaml:"distance_weight"`
	ObstacleWeight *float64 `yaml:"obstacle_weight"`
	SteeringWeight *float64 `yaml:"steering_weight"`
	GoalThreshold  float64  `yaml:"goal_proximity_threshold"`
	MaxExpansions  int      `yaml:"max_expansions"`
}

// LoopConfig bounds the replanning loop
type LoopConfig struct {
	MaxIterations int           `yaml:"max_iterations"`
	MaxNoPath     int           `yaml:"max_no_path"`
	RetryDelay    time.Duration `yaml:"retry_delay"`
}

// ScenarioConfig describes a simulated run
type ScenarioConfig struct {
	World        []string      `yaml:"world"` // one string per row, '.' free, '#' blocked
	Start        grid.Position `yaml:"start"`
	Goal         grid.Position `yaml:"goal"`
	Heading      float64       `yaml:"heading"` // radians
	SensorRadius int           `yaml:"sensor_radius"`
	StepsPerMove int           `yaml:"steps_per_move"`
}

// JournalConfig holds Redis journal settings; an empty URL disables it
type JournalConfig struct {
	URL    string        `yaml:"url"`
	Prefix string        `yaml:"prefix"`
	TTL    time.Duration `yaml:"ttl"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and applies defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if not provided
	if cfg.Planner.Variant == "" {
		cfg.Planner.Variant = string(cost.VariantBaseline)
	}
	if cfg.Planner.Connectivity == 0 {
		cfg.Planner.Connectivity = 4
		if cfg.Planner.Variant == string(cost.VariantAugmented) {
			cfg.Planner.Connectivity = 8
		}
	}
	if cfg.Planner.GoalThreshold == 0 {
		cfg.Planner.GoalThreshold = cost.DefaultGoalThreshold
	}
	if cfg.Loop.MaxIterations == 0 {
		cfg.Loop.MaxIterations = 10000
	}
	if cfg.Loop.MaxNoPath == 0 {
		cfg.Loop.MaxNoPath = 50
	}
	if cfg.Journal.Prefix == "" {
		cfg.Journal.Prefix = "astarnav"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	return &cfg, nil
}

// Model builds and validates the cost model
func (c *Config) Model() (cost.Model, error) {
	m := cost.Model{
		Variant:        cost.Variant(c.Planner.Variant),
		Connectivity:   grid.Connectivity(c.Planner.Connectivity),
		DistanceWeight: weight(c.Planner.DistanceWeight),
		ObstacleWeight: weight(c.Planner.ObstacleWeight),
		SteeringWeight: weight(c.Planner.SteeringWeight),
		GoalThreshold:  c.Planner.GoalThreshold,
	}
	if err := m.Validate(); err != nil {
		return cost.Model{}, err
	}
	return m, nil
}

// World parses the scenario world
func (c *Config) World() (*grid.Grid, error) {
	if len(c.Scenario.World) == 0 {
		return nil, fmt.Errorf("scenario has no world")
	}
	return grid.ParseRows(c.Scenario.World)
}

// Logger builds a slog logger writing to w per the log section
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(c.Log.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", c.Log.Format)
}

func weight(w *float64) float64 {
	if w == nil {
		return 1
	}
	return *w
}
