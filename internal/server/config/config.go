package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

const (
	GeneratorDefault = "default"
	GeneratorFlat    = "flat"
	GeneratorCity    = "city"

	ClockTick = "tick"
	ClockWall = "wall"
)

// Config holds the server configuration.
type Config struct {
	Port            int    `json:"port"`
	Seed            int64  `json:"seed"`
	RandomSeed      bool   `json:"random_seed"`      // shuffle noise from an unseeded source
	GeneratorType   string `json:"generator"`        // "default", "flat" or "city"
	RenderDistance  int    `json:"render_distance"`  // chunks, Chebyshev
	EvictHysteresis int    `json:"evict_hysteresis"` // extra chunks kept before eviction
	StreamEvery     int    `json:"stream_every"`     // ticks between streaming passes
	GenBudget       int    `json:"gen_budget"`       // chunks generated per pass, <= 0 for all
	TickRate        int    `json:"tick_rate"`        // ticks per second
	DayLengthTicks  int    `json:"day_length_ticks"`
	Clock           string `json:"clock"` // "tick" or "wall"
	TrackPlayerSky  bool   `json:"track_player_sky"`
	ViewerDir       string `json:"viewer_dir"` // static viewer assets, empty to disable
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            8080,
		GeneratorType:   GeneratorDefault,
		RenderDistance:  2,
		EvictHysteresis: 1,
		StreamEvery:     1,
		GenBudget:       1,
		TickRate:        60,
		DayLengthTicks:  36000,
		Clock:           ClockTick,
	}
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["port"] {
		cfg.Port = fromFile.Port
	}
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["random-seed"] {
		cfg.RandomSeed = fromFile.RandomSeed
	}
	if !explicitFlags["generator"] {
		cfg.GeneratorType = fromFile.GeneratorType
	}
	if !explicitFlags["render-distance"] {
		cfg.RenderDistance = fromFile.RenderDistance
	}
	if !explicitFlags["evict-hysteresis"] {
		cfg.EvictHysteresis = fromFile.EvictHysteresis
	}
	if !explicitFlags["stream-every"] {
		cfg.StreamEvery = fromFile.StreamEvery
	}
	if !explicitFlags["gen-budget"] {
		cfg.GenBudget = fromFile.GenBudget
	}
	if !explicitFlags["tick-rate"] {
		cfg.TickRate = fromFile.TickRate
	}
	if !explicitFlags["day-length"] {
		cfg.DayLengthTicks = fromFile.DayLengthTicks
	}
	if !explicitFlags["clock"] {
		cfg.Clock = fromFile.Clock
	}
	if !explicitFlags["track-player-sky"] {
		cfg.TrackPlayerSky = fromFile.TrackPlayerSky
	}
	if !explicitFlags["viewer-dir"] {
		cfg.ViewerDir = fromFile.ViewerDir
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d out of range", ErrInvalid, c.Port)
	case c.RenderDistance < 0:
		return fmt.Errorf("%w: render distance %d is negative", ErrInvalid, c.RenderDistance)
	case c.EvictHysteresis < 0:
		return fmt.Errorf("%w: evict hysteresis %d is negative", ErrInvalid, c.EvictHysteresis)
	case c.StreamEvery < 1:
		return fmt.Errorf("%w: stream every %d must be at least 1", ErrInvalid, c.StreamEvery)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %d must be positive", ErrInvalid, c.TickRate)
	case c.DayLengthTicks <= 0:
		return fmt.Errorf("%w: day length %d must be positive", ErrInvalid, c.DayLengthTicks)
	}
	switch c.GeneratorType {
	case GeneratorDefault, GeneratorFlat, GeneratorCity:
	default:
		return fmt.Errorf("%w: unknown generator %q", ErrInvalid, c.GeneratorType)
	}
	switch c.Clock {
	case ClockTick, ClockWall:
	default:
		return fmt.Errorf("%w: unknown clock %q", ErrInvalid, c.Clock)
	}
	return nil
}
