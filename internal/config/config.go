// Package config loads the TOML configuration shared by the CLI commands.
package config

import (
	"bufio"
	"fmt"
	"os"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/base/logx"
	"github.com/pelletier/go-toml/v2"

	"github.com/lukaszgryglicki/aabbtree/internal/aabbtree"
	"github.com/lukaszgryglicki/aabbtree/internal/cull"
)

// Defaults.
const (
	TreeMargin     = 0.1
	TreeCapacity   = 16
	StaticMargin   = 0
	DynamicMargin  = 2
	PruneFrequency = 60
	SimObjects     = 2000
	SimStaticShare = 0.5
	SimSteps       = 200
	SimWorld       = 1000
	SimMaxSize     = 20
	SimMaxSpeed    = 3
	SimViewSize    = 250
	RenderWidth    = 800
	RenderHeight   = 800
	RenderOut      = "tree.png"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

type TreeCfg struct {
	Margin   float32 `toml:"margin"`
	Capacity int     `toml:"capacity"`
}

type CullCfg struct {
	StaticMargin   float32 `toml:"staticMargin"`
	DynamicMargin  float32 `toml:"dynamicMargin"`
	PruneFrequency int     `toml:"pruneFrequency"`
}

type SimCfg struct {
	Objects     int     `toml:"objects"`
	StaticShare float32 `toml:"staticShare"`
	Steps       int     `toml:"steps"`
	World       float32 `toml:"world"`
	MaxSize     float32 `toml:"maxSize"`
	MaxSpeed    float32 `toml:"maxSpeed"`
	ViewSize    float32 `toml:"viewSize"`
	Seed        int64   `toml:"seed,omitempty"`

	// ViewRotDeg spins the view by this many degrees per step.
	ViewRotDeg float32 `toml:"viewRotDeg,omitempty"`

	// Churn is the share of dynamic objects destroyed and respawned per step.
	Churn float32 `toml:"churn,omitempty"`

	// Check cross-checks every step against a brute-force scan.
	Check bool `toml:"check"`
}

type RenderCfg struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Out    string `toml:"out"`

	// Leaves draws only the tight leaf boxes.
	Leaves bool `toml:"leaves,omitempty"`
}

type Config struct {
	Tree   TreeCfg   `toml:"tree"`
	Cull   CullCfg   `toml:"cull"`
	Sim    SimCfg    `toml:"sim"`
	Render RenderCfg `toml:"render"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tree: TreeCfg{Margin: TreeMargin, Capacity: TreeCapacity},
		Cull: CullCfg{
			StaticMargin:   StaticMargin,
			DynamicMargin:  DynamicMargin,
			PruneFrequency: PruneFrequency,
		},
		Sim: SimCfg{
			Objects:     SimObjects,
			StaticShare: SimStaticShare,
			Steps:       SimSteps,
			World:       SimWorld,
			MaxSize:     SimMaxSize,
			MaxSpeed:    SimMaxSpeed,
			ViewSize:    SimViewSize,
			Seed:        1,
			Check:       true,
		},
		Render: RenderCfg{Width: RenderWidth, Height: RenderHeight, Out: RenderOut},
	}
}

// Load reads path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewDecoder(bufio.NewReader(f)).DisallowUnknownFields().Decode(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logx.PrintfDebug("config: loaded %s: margin=%g objects=%d steps=%d\n", path, cfg.Tree.Margin, cfg.Sim.Objects, cfg.Sim.Steps)
	return cfg, nil
}

// Save writes cfg as TOML.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate rejects values the components cannot work with.
func (c *Config) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("%w: %s = %v", ErrInvalid, field, v)
	}
	switch {
	case c.Tree.Margin < 0:
		return bad("tree.margin", c.Tree.Margin)
	case c.Tree.Capacity <= 0:
		return bad("tree.capacity", c.Tree.Capacity)
	case c.Cull.StaticMargin < 0:
		return bad("cull.staticMargin", c.Cull.StaticMargin)
	case c.Cull.DynamicMargin < 0:
		return bad("cull.dynamicMargin", c.Cull.DynamicMargin)
	case c.Cull.PruneFrequency <= 0:
		return bad("cull.pruneFrequency", c.Cull.PruneFrequency)
	case c.Sim.Objects <= 0:
		return bad("sim.objects", c.Sim.Objects)
	case c.Sim.Steps <= 0:
		return bad("sim.steps", c.Sim.Steps)
	case c.Sim.StaticShare < 0 || c.Sim.StaticShare > 1:
		return bad("sim.staticShare", c.Sim.StaticShare)
	case c.Sim.World <= 0:
		return bad("sim.world", c.Sim.World)
	case c.Sim.MaxSize <= 0 || c.Sim.MaxSize > c.Sim.World:
		return bad("sim.maxSize", c.Sim.MaxSize)
	case c.Sim.MaxSpeed < 0:
		return bad("sim.maxSpeed", c.Sim.MaxSpeed)
	case c.Sim.Churn < 0 || c.Sim.Churn > 1:
		return bad("sim.churn", c.Sim.Churn)
	case c.Sim.ViewSize <= 0:
		return bad("sim.viewSize", c.Sim.ViewSize)
	case c.Render.Width <= 0:
		return bad("render.width", c.Render.Width)
	case c.Render.Height <= 0:
		return bad("render.height", c.Render.Height)
	}
	return nil
}

// TreeOptions converts the tree section to constructor options.
func (c *Config) TreeOptions() []aabbtree.Option {
	return []aabbtree.Option{aabbtree.WithCapacity(c.Tree.Capacity)}
}

// CullConfig converts the cull section.
func (c *Config) CullConfig() cull.Config {
	return cull.Config{
		StaticMargin:   c.Cull.StaticMargin,
		DynamicMargin:  c.Cull.DynamicMargin,
		PruneFrequency: c.Cull.PruneFrequency,
	}
}
