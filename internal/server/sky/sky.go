// Package sky simulates the day/night cycle: time of day, sun and moon
// placement, and the sky color and light levels derived from them.
package sky

import (
	"math"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// CelestialRadius is the distance of the sun and moon from their center.
	CelestialRadius = 300
	// DefaultDayLengthTicks is a 600 second day at 60 ticks per second.
	DefaultDayLengthTicks = 36000
	// DefaultDayLength is the wall-clock length of a day.
	DefaultDayLength = 600 * time.Second

	SunriseFraction  = 0.25
	NoonFraction     = 0.5
	SunsetFraction   = 0.75
	MidnightFraction = 0.0

	// transitionRate is how fast the transition factor ramps per unit of day progress.
	transitionRate = 4
	// starThreshold is the transition factor below which stars are shown.
	starThreshold = 0.3

	ambientNight     = 0.2
	ambientDay       = 0.8
	directionalNight = 0.0
	directionalDay   = 1.2
	moonLightMax     = 0.5
	starOpacityMax   = 0.8
)

var (
	NightColor = mgl32.Vec3{0, 0, float32(0x22) / 255}
	DayColor   = mgl32.Vec3{float32(0x87) / 255, float32(0xCE) / 255, float32(0xEB) / 255}
	// TwilightColor tints the sky around sunrise and sunset.
	TwilightColor = mgl32.Vec3{float32(0xFF) / 255, float32(0xA0) / 255, float32(0x7A) / 255}
)

// Preset is a time of day that can be forced.
type Preset uint8

const (
	Auto Preset = iota
	Sunrise
	Noon
	Sunset
	Midnight
)

func (p Preset) String() string {
	switch p {
	case Sunrise:
		return "Sunrise"
	case Noon:
		return "Noon"
	case Sunset:
		return "Sunset"
	case Midnight:
		return "Midnight"
	default:
		return "Auto"
	}
}

// Fraction returns the day progress the preset stands for.
func (p Preset) Fraction() float64 {
	switch p {
	case Sunrise:
		return SunriseFraction
	case Noon:
		return NoonFraction
	case Sunset:
		return SunsetFraction
	default:
		return MidnightFraction
	}
}

// ParsePreset parses a preset name case-insensitively.
func ParsePreset(s string) (Preset, bool) {
	for _, p := range []Preset{Auto, Sunrise, Noon, Sunset, Midnight} {
		if strings.EqualFold(s, p.String()) {
			return p, true
		}
	}
	return Auto, false
}

// Mode selects how a Cycle measures time.
type Mode uint8

const (
	// ModeTick advances one step per Advance call.
	ModeTick Mode = iota
	// ModeWall derives the time of day from the wall clock.
	ModeWall
)

// Cycle tracks the time of day. In tick mode it advances by one tick per
// Advance; in wall mode it reads the clock. A forced preset pins the time and
// auto-advancing resumes from that offset.
type Cycle struct {
	mode      Mode
	dayTicks  float64
	dayLength time.Duration
	now       func() time.Time
	ticks     uint64
	track     bool

	forced      Preset
	forcedStart float64 // elapsed days when the preset was forced
}

// Option configures a Cycle.
type Option func(*Cycle)

// WithTracking centers the sun and moon on the observer's horizontal position.
func WithTracking(track bool) Option {
	return func(c *Cycle) { c.track = track }
}

// WithClock replaces the wall clock used in wall mode.
func WithClock(now func() time.Time) Option {
	return func(c *Cycle) { c.now = now }
}

// NewTickCycle creates a cycle lasting dayTicks calls to Advance.
func NewTickCycle(dayTicks int, opts ...Option) *Cycle {
	if dayTicks <= 0 {
		dayTicks = DefaultDayLengthTicks
	}
	c := &Cycle{mode: ModeTick, dayTicks: float64(dayTicks), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWallCycle creates a cycle driven by the wall clock.
func NewWallCycle(dayLength time.Duration, opts ...Option) *Cycle {
	if dayLength <= 0 {
		dayLength = DefaultDayLength
	}
	c := &Cycle{mode: ModeWall, dayLength: dayLength, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mode returns the cycle's time source.
func (c *Cycle) Mode() Mode { return c.mode }

// Advance moves a tick-mode cycle forward by one tick.
func (c *Cycle) Advance() {
	if c.mode == ModeTick {
		c.ticks++
	}
}

// elapsed returns the time since the cycle's epoch measured in days.
func (c *Cycle) elapsed() float64 {
	if c.mode == ModeWall {
		return float64(c.now().UnixMilli()) / float64(c.dayLength.Milliseconds())
	}
	return float64(c.ticks) / c.dayTicks
}

// Force pins the time of day to a preset. Forcing Auto is the same as Resume.
func (c *Cycle) Force(p Preset) {
	c.forced = p
	c.forcedStart = c.elapsed()
}

// Resume returns to the automatic time of day.
func (c *Cycle) Resume() {
	c.forced = Auto
	c.forcedStart = 0
}

// Label names the forced preset, or "Auto".
func (c *Cycle) Label() string {
	return c.forced.String()
}

// Progress returns the day progress in [0, 1).
func (c *Cycle) Progress() float64 {
	e := c.elapsed()
	if c.forced != Auto {
		e = c.forced.Fraction() + (e - c.forcedStart)
	}
	p := math.Mod(e, 1)
	if p < 0 {
		p++
	}
	return p
}

// Hour returns the hour of the day, 0 through 23.
func (c *Cycle) Hour() int {
	return int(math.Floor(c.Progress() * 24))
}

// State holds the presentation values derived from the time of day.
type State struct {
	Progress    float64
	Hour        int
	Label       string
	Angle       float64
	IsDay       bool
	Transition  float64 // 0 at night, 1 in full day
	Sun         mgl32.Vec3
	Moon        mgl32.Vec3
	SunDir      mgl32.Vec3 // unit vector toward the sun
	SkyColor    mgl32.Vec3
	Ambient     float32
	Directional float32
	MoonLight   float32
	SunOpacity  float32
	MoonOpacity float32
	Stars       bool
	StarOpacity float32
}

// State computes the sky for an observer at center. The center only matters
// when tracking is enabled.
func (c *Cycle) State(center mgl32.Vec3) State {
	p := c.Progress()
	s := Compute(p)
	s.Label = c.Label()
	if c.track {
		offset := mgl32.Vec3{center.X(), 0, center.Z()}
		s.Sun = s.Sun.Add(offset)
		s.Moon = s.Moon.Add(offset)
	}
	return s
}

// Compute derives the sky for a day progress in [0, 1).
func Compute(p float64) State {
	angle := Angle(p)
	t := TransitionFactor(p)
	ft := float32(t)

	sunDir := mgl32.Vec3{float32(math.Cos(angle)), float32(math.Sin(angle)), 0}
	s := State{
		Progress:    p,
		Hour:        int(math.Floor(p * 24)),
		Angle:       angle,
		IsDay:       IsDay(p),
		Transition:  t,
		Sun:         sunDir.Mul(CelestialRadius),
		Moon:        sunDir.Mul(-CelestialRadius),
		SunDir:      sunDir,
		SkyColor:    SkyColor(t),
		Ambient:     mgl32.Clamp(ambientNight+(ambientDay-ambientNight)*ft, 0, 1),
		Directional: directionalNight + (directionalDay-directionalNight)*ft,
		MoonLight:   float32(math.Max(0, -math.Sin(angle))) * moonLightMax,
		SunOpacity:  ft,
		MoonOpacity: 1 - ft,
		Stars:       t < starThreshold,
	}
	if s.Stars {
		s.StarOpacity = starOpacityMax * (1 - ft/starThreshold)
	}
	return s
}

// Angle places sunrise on the eastern horizon and noon overhead.
func Angle(p float64) float64 {
	return p*2*math.Pi - math.Pi/2
}

// IsDay reports whether p lies in [sunrise, sunset).
func IsDay(p float64) bool {
	return p >= SunriseFraction && p < SunsetFraction
}

// TransitionFactor ramps linearly around sunrise and sunset. It is 0.5 exactly
// at sunrise and sunset, 1 in full day and 0 in full night.
func TransitionFactor(p float64) float64 {
	d := math.Min(p-SunriseFraction, SunsetFraction-p)
	return clamp01(0.5 + transitionRate*d)
}

// SkyColor blends night into the twilight tint and the tint into day.
func SkyColor(t float64) mgl32.Vec3 {
	if t < 0.5 {
		return lerpColor(NightColor, TwilightColor, float32(t*2))
	}
	return lerpColor(TwilightColor, DayColor, float32((t-0.5)*2))
}

func lerpColor(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
