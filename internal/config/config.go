package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/op5no29/subtitle-generator/internal/domain/subtitles"
)

// Subtitles shapes caption segmentation and the no-timestamp fallback.
type Subtitles struct {
	MaxCharsPerLine   int     `toml:"max_chars_per_line"`
	MaxLines          int     `toml:"max_lines"`
	FallbackWindowSec float64 `toml:"fallback_window_sec"`
}

// Style is the burn-in appearance configuration.
type Style struct {
	FontSize int    `toml:"font_size"`
	Position string `toml:"position"`
	Color    string `toml:"color"`
}

// Limits bounds the chunked transcription of long inputs.
type Limits struct {
	ChunkSeconds    int `toml:"chunk_seconds"`
	MaxConcurrent   int `toml:"max_concurrent"`
	MaxRetries      int `toml:"max_retries"`
	RateLimitPerMin int `toml:"rate_limit_per_min"`
}

// STT points at the hosted speech-to-text service. The API key comes from
// the environment, never the config file.
type STT struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// Translator points at the hosted translation service.
type Translator struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// Database locates the local user/usage store.
type Database struct {
	Path string `toml:"path"`
}

// Config is the full application configuration.
type Config struct {
	Subtitles  Subtitles  `toml:"subtitles"`
	Style      Style      `toml:"style"`
	Limits     Limits     `toml:"limits"`
	STT        STT        `toml:"stt"`
	Translator Translator `toml:"translator"`
	Database   Database   `toml:"database"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Subtitles: Subtitles{
			MaxCharsPerLine:   20,
			MaxLines:          2,
			FallbackWindowSec: 30,
		},
		Style: Style{
			FontSize: 24,
			Position: string(subtitles.PositionBottom),
			Color:    string(subtitles.ColorWhite),
		},
		Limits: Limits{
			ChunkSeconds:    600,
			MaxConcurrent:   3,
			MaxRetries:      3,
			RateLimitPerMin: 30,
		},
		Database: Database{Path: "users.db"},
	}
}

// Load reads a TOML config file over the defaults. A missing path is not an
// error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SubtitleStyle converts the string-keyed file representation into the
// validated enum form.
func (c *Config) SubtitleStyle() (subtitles.Style, error) {
	pos, err := subtitles.ParsePosition(c.Style.Position)
	if err != nil {
		return subtitles.Style{}, err
	}
	color, err := subtitles.ParseColor(c.Style.Color)
	if err != nil {
		return subtitles.Style{}, err
	}
	style := subtitles.Style{FontSize: c.Style.FontSize, Position: pos, Color: color}
	if err := style.Validate(); err != nil {
		return subtitles.Style{}, err
	}
	return style, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Subtitles.MaxCharsPerLine <= 0 {
		return fmt.Errorf("subtitles.max_chars_per_line must be > 0, got %d", c.Subtitles.MaxCharsPerLine)
	}
	if c.Subtitles.MaxLines <= 0 {
		return fmt.Errorf("subtitles.max_lines must be > 0, got %d", c.Subtitles.MaxLines)
	}
	if c.Subtitles.FallbackWindowSec <= 0 {
		return fmt.Errorf("subtitles.fallback_window_sec must be > 0, got %v", c.Subtitles.FallbackWindowSec)
	}
	if c.Limits.ChunkSeconds <= 0 {
		return fmt.Errorf("limits.chunk_seconds must be > 0, got %d", c.Limits.ChunkSeconds)
	}
	if c.Limits.MaxConcurrent <= 0 {
		return fmt.Errorf("limits.max_concurrent must be > 0, got %d", c.Limits.MaxConcurrent)
	}
	if c.Limits.MaxRetries <= 0 {
		return fmt.Errorf("limits.max_retries must be > 0, got %d", c.Limits.MaxRetries)
	}
	if c.Limits.RateLimitPerMin <= 0 {
		return fmt.Errorf("limits.rate_limit_per_min must be > 0, got %d", c.Limits.RateLimitPerMin)
	}
	if c.Database.Path == "" {
		return errors.New("database.path must not be empty")
	}
	if _, err := c.SubtitleStyle(); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	return nil
}
