package model

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrInvalidConfig = errors.New("invalid match config")

var (
	BoardSizes    = []int{8, 10, 12, 14}
	MatchSeconds  = []int{10, 60, 90, 120}
	MaxNameLength = 16
)

// Palette holds the selectable player colors.
var Palette = []color.RGBA{
	{80, 180, 255, 255},
	{255, 100, 100, 255},
	{120, 200, 120, 255},
	{255, 180, 60, 255},
	{180, 120, 255, 255},
	{255, 120, 200, 255},
	{80, 80, 180, 255},
}

type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	// Expert drives moves with a shallow minimax search.
	Expert
)

func (d Difficulty) Name() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	case Expert:
		return "Expert"
	default:
		return fmt.Sprintf("n/a:%d", int(d))
	}
}

type Mode int

const (
	HumanVsAI Mode = iota
	AIVsAI
)

func (m Mode) Name() string {
	switch m {
	case HumanVsAI:
		return "Human vs AI"
	case AIVsAI:
		return "AI vs AI"
	default:
		return fmt.Sprintf("n/a:%d", int(m))
	}
}

// Human reports whether p takes moves from input in this mode.
func (m Mode) Human(p PlayerId) bool {
	return m == HumanVsAI && p == Player0
}

type MatchConfig struct {
	BoardSize    int        `yaml:"board_size" json:"board_size"`
	MatchSeconds int        `yaml:"match_seconds" json:"match_seconds"`
	Difficulty   Difficulty `yaml:"difficulty" json:"difficulty"`
	Colors       [2]int     `yaml:"colors" json:"colors"`
	Names        [2]string  `yaml:"names" json:"names"`
	Mode         Mode       `yaml:"mode" json:"mode"`
	// Seed 0 means seed from the wall clock.
	Seed int64 `yaml:"seed" json:"seed"`
}

func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		BoardSize:    14,
		MatchSeconds: 60,
		Difficulty:   Medium,
		Colors:       [2]int{0, 1},
		Names:        [2]string{"Player 1", "Player 2"},
		Mode:         HumanVsAI,
	}
}

func (c MatchConfig) Duration() time.Duration {
	return time.Duration(c.MatchSeconds) * time.Second
}

func (c MatchConfig) Color(p PlayerId) color.RGBA {
	return Palette[c.Colors[p]]
}

// Validate rejects configurations that must not reach a running match.
func (c MatchConfig) Validate() error {
	if !contains(BoardSizes, c.BoardSize) {
		return fmt.Errorf("%w: board size %d not in %v", ErrInvalidConfig, c.BoardSize, BoardSizes)
	}
	if !contains(MatchSeconds, c.MatchSeconds) {
		return fmt.Errorf("%w: match time %ds not in %v", ErrInvalidConfig, c.MatchSeconds, MatchSeconds)
	}
	if c.Difficulty < Easy || c.Difficulty > Expert {
		return fmt.Errorf("%w: difficulty %d", ErrInvalidConfig, c.Difficulty)
	}
	if c.Mode != HumanVsAI && c.Mode != AIVsAI {
		return fmt.Errorf("%w: mode %d", ErrInvalidConfig, c.Mode)
	}
	for i, ci := range c.Colors {
		if ci < 0 || ci >= len(Palette) {
			return fmt.Errorf("%w: player %d color %d out of palette", ErrInvalidConfig, i+1, ci)
		}
	}
	if c.Colors[0] == c.Colors[1] {
		return fmt.Errorf("%w: both players use color %d", ErrInvalidConfig, c.Colors[0])
	}
	for i, n := range c.Names {
		if n == "" {
			return fmt.Errorf("%w: player %d has no name", ErrInvalidConfig, i+1)
		}
		if utf8.RuneCountInString(n) > MaxNameLength {
			return fmt.Errorf("%w: player %d name longer than %d", ErrInvalidConfig, i+1, MaxNameLength)
		}
	}
	return nil
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ParseDifficulty accepts a difficulty name in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Expert; d++ {
		if strings.EqualFold(d.Name(), s) {
			return d, nil
		}
	}
	return Easy, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, s)
}

// ParseMode accepts "human" or "ai".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "human", "human-vs-ai":
		return HumanVsAI, nil
	case "ai", "ai-vs-ai":
		return AIVsAI, nil
	}
	return HumanVsAI, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}
