package server

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/zucenko/territory/model"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfig   = "TERRITORY_CONFIG"
	EnvPort     = "PORT"
	EnvLogLevel = "TERRITORY_LOG_LEVEL"
)

type Settings struct {
	Port     string `yaml:"port"`
	TickRate int    `yaml:"tick_rate"`
	// MoveRate limits inbound move frames per second per connection.
	MoveRate  float64 `yaml:"move_rate"`
	MoveBurst int     `yaml:"move_burst"`
	// MaxSessions caps live sessions; further /play calls get 503.
	MaxSessions int               `yaml:"max_sessions"`
	LogLevel    string            `yaml:"log_level"`
	Defaults    model.MatchConfig `yaml:"defaults"`
}

func DefaultSettings() Settings {
	return Settings{
		Port:        "8080",
		TickRate:    60,
		MoveRate:    30,
		MoveBurst:   5,
		MaxSessions: 64,
		LogLevel:    "info",
		Defaults:    model.DefaultMatchConfig(),
	}
}

// LoadSettings reads the YAML file named by TERRITORY_CONFIG, if any, and
// applies environment overrides.
func LoadSettings() (Settings, error) {
	s := DefaultSettings()
	if path := os.Getenv(EnvConfig); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return s, fmt.Errorf("open settings: %w", err)
		}
		defer file.Close()
		s, err = ParseSettings(file, s)
		if err != nil {
			return s, fmt.Errorf("settings %s: %w", path, err)
		}
	}
	if port := os.Getenv(EnvPort); port != "" {
		s.Port = port
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		s.LogLevel = level
	}
	return s, s.Validate()
}

// ParseSettings decodes YAML over base so omitted keys keep base values.
func ParseSettings(r io.Reader, base Settings) (Settings, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&base); err != nil && err != io.EOF {
		return base, err
	}
	return base, nil
}

func (s Settings) Validate() error {
	if s.TickRate <= 0 {
		return fmt.Errorf("tick_rate must be positive, got %d", s.TickRate)
	}
	if s.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive, got %d", s.MaxSessions)
	}
	if s.MoveRate <= 0 || s.MoveBurst <= 0 {
		return fmt.Errorf("move_rate and move_burst must be positive")
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	return s.Defaults.Validate()
}

// Fill completes a client setup with the configured board size and match
// length. Zero is never valid for those two, so it marks them as absent;
// every other field is taken as sent and left to Validate.
func (s Settings) Fill(c model.MatchConfig) model.MatchConfig {
	if c.BoardSize == 0 {
		c.BoardSize = s.Defaults.BoardSize
	}
	if c.MatchSeconds == 0 {
		c.MatchSeconds = s.Defaults.MatchSeconds
	}
	return c
}
