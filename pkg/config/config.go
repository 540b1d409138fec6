package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/sgviz/pkg/cache"
	"github.com/matzehuels/sgviz/pkg/errors"
	"github.com/matzehuels/sgviz/pkg/layout/bundle"
	"github.com/matzehuels/sgviz/pkg/layout/force"
	"github.com/matzehuels/sgviz/pkg/pipeline"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "SGVIZ_CONFIG"

// Config holds sgviz configuration.
type Config struct {
	Force  ForceConfig  `toml:"force"`
	Bundle BundleConfig `toml:"bundle"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// ForceConfig tunes the force-directed simulation.
type ForceConfig struct {
	Repulsion      float64 `toml:"repulsion" validate:"lte=0"`
	LinkDistance   float64 `toml:"link_distance" validate:"gt=0"`
	CenterStrength float64 `toml:"center_strength" validate:"gte=0,lte=1"`
	ReheatAlpha    float64 `toml:"reheat_alpha" validate:"gt=0,lte=1"`
	AlphaDecay     float64 `toml:"alpha_decay" validate:"gt=0,lt=1"`
	AlphaMin       float64 `toml:"alpha_min" validate:"gt=0,lt=1"`
	VelocityDecay  float64 `toml:"velocity_decay" validate:"gte=0,lte=1"`
	Ticks          int     `toml:"ticks" validate:"gt=0,lte=10000"`
	Seed           uint64  `toml:"seed"`
}

// BundleConfig tunes the radial edge bundle.
type BundleConfig struct {
	Beta         float64 `toml:"beta" validate:"gte=0,lte=1"`
	RadiusMargin float64 `toml:"radius_margin" validate:"gte=0"`
	LoopSize     float64 `toml:"loop_size" validate:"gte=0"`
}

// RenderConfig controls output dimensions and formats.
type RenderConfig struct {
	Width   float64  `toml:"width" validate:"gt=0"`
	Height  float64  `toml:"height" validate:"gt=0"`
	Formats []string `toml:"formats" validate:"dive,oneof=svg json dot pdf png"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string        `toml:"backend" validate:"oneof=file redis mongo none"`
	Dir           string        `toml:"dir,omitempty"`
	RedisAddr     string        `toml:"redis_addr,omitempty" validate:"required_if=Backend redis"`
	MongoURI      string        `toml:"mongo_uri,omitempty" validate:"required_if=Backend mongo"`
	MongoDatabase string        `toml:"mongo_database,omitempty"`
	TTL           time.Duration `toml:"ttl,omitempty" validate:"gte=0"`
}

// ServerConfig controls `sgviz serve`.
type ServerConfig struct {
	Addr string `toml:"addr" validate:"required"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Force: ForceConfig{
			Repulsion:      force.DefaultRepulsion,
			LinkDistance:   force.DefaultLinkDistance,
			CenterStrength: force.DefaultCenterStrength,
			ReheatAlpha:    force.DefaultReheatTarget,
			AlphaDecay:     force.DefaultAlphaDecay,
			AlphaMin:       force.DefaultAlphaMin,
			VelocityDecay:  force.DefaultVelocityDecay,
			Ticks:          pipeline.DefaultTicks,
			Seed:           pipeline.DefaultSeed,
		},
		Bundle: BundleConfig{
			Beta:         bundle.DefaultBeta,
			RadiusMargin: bundle.DefaultRadiusMargin,
			LoopSize:     bundle.DefaultLoopSize,
		},
		Render: RenderConfig{
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			Formats: []string{pipeline.FormatSVG},
		},
		Cache:  CacheConfig{Backend: cache.BackendFile},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Dir returns the sgviz config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sgviz")
}

// Path returns the config file location: $SGVIZ_CONFIG when set, otherwise
// config.toml in [Dir].
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file at path layered over [Default]. An empty path
// selects [Path]. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories. An empty path
// selects [Path].
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks value ranges and backend requirements.
func (c *Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, strings.ToLower(fe.Namespace())+" failed "+fe.Tag())
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid config: %s", strings.Join(msgs, "; "))
}

// Options returns pipeline options seeded from the config. Callers layer
// command-line flags on top.
func (c *Config) Options() pipeline.Options {
	beta := c.Bundle.Beta
	return pipeline.Options{
		Width:          c.Render.Width,
		Height:         c.Render.Height,
		Repulsion:      c.Force.Repulsion,
		LinkDistance:   c.Force.LinkDistance,
		CenterStrength: c.Force.CenterStrength,
		AlphaDecay:     c.Force.AlphaDecay,
		AlphaMin:       c.Force.AlphaMin,
		VelocityDecay:  c.Force.VelocityDecay,
		Ticks:          c.Force.Ticks,
		Seed:           c.Force.Seed,
		Beta:           &beta,
		RadiusMargin:   c.Bundle.RadiusMargin,
		LoopSize:       c.Bundle.LoopSize,
		Formats:        append([]string(nil), c.Render.Formats...),
	}
}

// ForceOptions returns simulation options for interactive use, including
// the reheat target that pipeline runs never need.
func (c *Config) ForceOptions() []force.Option {
	return []force.Option{
		force.WithRepulsion(c.Force.Repulsion),
		force.WithLinkDistance(c.Force.LinkDistance),
		force.WithCenterStrength(c.Force.CenterStrength),
		force.WithReheatTarget(c.Force.ReheatAlpha),
		force.WithAlphaDecay(c.Force.AlphaDecay),
		force.WithAlphaMin(c.Force.AlphaMin),
		force.WithVelocityDecay(c.Force.VelocityDecay),
		force.WithSeed(c.Force.Seed),
	}
}

// CacheOptions converts the cache section into backend configuration.
// defaultDir is used by the file backend when no dir is configured.
func (c *Config) CacheOptions(defaultDir string) cache.Config {
	dir := c.Cache.Dir
	if dir == "" {
		dir = defaultDir
	}
	return cache.Config{
		Backend:       c.Cache.Backend,
		Dir:           dir,
		RedisAddr:     c.Cache.RedisAddr,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: c.Cache.MongoDatabase,
	}
}
