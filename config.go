package motion

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("motion: invalid config")

// BackendPreference selects how the engine picks its backend.
type BackendPreference string

const (
	// PreferAuto uses the declarative backend when the animation allows it.
	PreferAuto BackendPreference = "auto"
	// PreferImmediate always evaluates the graph per frame.
	PreferImmediate BackendPreference = "immediate"
	// PreferDeclarative asks for the compositor; incompatible animations
	// still fall back.
	PreferDeclarative BackendPreference = "declarative"
)

// LoopMode is what playback does when it reaches the end frame.
type LoopMode string

const (
	LoopOnce        LoopMode = "once"
	LoopRepeat      LoopMode = "loop"
	LoopAutoReverse LoopMode = "autoreverse"
)

// ContentMode maps the composition into the host rectangle.
type ContentMode string

const (
	ContentScaleToFill ContentMode = "fill"
	ContentAspectFit   ContentMode = "fit"
	ContentAspectFill  ContentMode = "aspectfill"
	ContentCenter      ContentMode = "center"
)

// Config holds engine settings. The zero value of every field takes the
// default from DefaultConfig.
type Config struct {
	Backend BackendPreference `yaml:"backend" toml:"backend"`
	Loop    LoopMode          `yaml:"loop" toml:"loop"`
	// Speed scales playback. Negative speeds play backwards.
	Speed float64 `yaml:"speed" toml:"speed"`
	// FrameRate overrides the animation's frame rate when positive.
	FrameRate float64 `yaml:"frameRate" toml:"frameRate"`
	// TickRate is how often the compositor samples its curves, in Hz.
	TickRate float64 `yaml:"tickRate" toml:"tickRate"`
	// BakeStep is the spacing in frames of baked curve samples.
	BakeStep    float64     `yaml:"bakeStep" toml:"bakeStep"`
	ContentMode ContentMode `yaml:"contentMode" toml:"contentMode"`
	// Background is "#rrggbb" or "#rrggbbaa". Empty is transparent.
	Background string `yaml:"background" toml:"background"`
	// Debug logs per-frame stats and panics on misuse instead of repairing.
	Debug    bool   `yaml:"debug" toml:"debug"`
	LogLevel string `yaml:"logLevel" toml:"logLevel"`
}

// DefaultConfig returns the settings used for unset fields.
func DefaultConfig() Config {
	return Config{
		Backend:     PreferAuto,
		Loop:        LoopRepeat,
		Speed:       1,
		TickRate:    60,
		BakeStep:    1,
		ContentMode: ContentAspectFit,
		LogLevel:    "info",
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.Loop == "" {
		c.Loop = d.Loop
	}
	if c.Speed == 0 {
		c.Speed = d.Speed
	}
	if c.TickRate == 0 {
		c.TickRate = d.TickRate
	}
	if c.BakeStep == 0 {
		c.BakeStep = d.BakeStep
	}
	if c.ContentMode == "" {
		c.ContentMode = d.ContentMode
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	return c
}

// Validate reports the first invalid setting. Zero fields are valid.
func (c Config) Validate() error {
	c = c.withDefaults()
	switch c.Backend {
	case PreferAuto, PreferImmediate, PreferDeclarative:
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalidConfig, c.Backend)
	}
	switch c.Loop {
	case LoopOnce, LoopRepeat, LoopAutoReverse:
	default:
		return fmt.Errorf("%w: loop %q", ErrInvalidConfig, c.Loop)
	}
	switch c.ContentMode {
	case ContentScaleToFill, ContentAspectFit, ContentAspectFill, ContentCenter:
	default:
		return fmt.Errorf("%w: content mode %q", ErrInvalidConfig, c.ContentMode)
	}
	if c.FrameRate < 0 {
		return fmt.Errorf("%w: frame rate %v", ErrInvalidConfig, c.FrameRate)
	}
	if c.TickRate < 0 {
		return fmt.Errorf("%w: tick rate %v", ErrInvalidConfig, c.TickRate)
	}
	if c.BakeStep < 0 {
		return fmt.Errorf("%w: bake step %v", ErrInvalidConfig, c.BakeStep)
	}
	if _, err := c.background(); err != nil {
		return fmt.Errorf("%w: background: %w", ErrInvalidConfig, err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// background parses the background colour. Empty is transparent.
func (c Config) background() (Color, error) {
	if c.Background == "" {
		return Color{}, nil
	}
	return ParseHexColor(c.Background)
}

// Level returns the configured log level, Info when unset or invalid.
func (c Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// decoder is satisfied by the yaml and toml decoders.
type decoder interface {
	Decode(v any) error
}

type decoderFunc func(r io.Reader) decoder

func decoderFor(path string) (decoderFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return func(r io.Reader) decoder { return yaml.NewDecoder(r) }, nil
	case ".toml":
		return func(r io.Reader) decoder { return toml.NewDecoder(r) }, nil
	}
	return nil, fmt.Errorf("%w: unknown config format %q", ErrInvalidConfig, filepath.Ext(path))
}

// LoadConfig reads a YAML or TOML config, chosen by file extension, and
// validates it. Unset fields take their defaults.
func LoadConfig(path string) (Config, error) {
	dec, err := decoderFor(path)
	if err != nil {
		return Config{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("motion: open config: %w", err)
	}
	defer f.Close()
	return decodeConfig(bufio.NewReader(f), dec)
}

func decodeConfig(r io.Reader, dec decoderFunc) (Config, error) {
	var c Config
	if err := dec(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("motion: decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c.withDefaults(), nil
}
