package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/ebitenutil"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/territory/model"
	"gopkg.in/yaml.v3"
)

// Load builds the match setup from an optional YAML file and the flags.
// Flags win over the file.
func Load(args []string) (model.MatchConfig, error) {
	cfg := model.DefaultMatchConfig()
	fs := flag.NewFlagSet("territory", flag.ContinueOnError)
	path := fs.String("config", "", "YAML match config")
	size := fs.Int("size", 0, "board size (8, 10, 12, 14)")
	seconds := fs.Int("seconds", 0, "match length in seconds (10, 60, 90, 120)")
	difficulty := fs.String("difficulty", "", "easy, medium, hard or expert")
	mode := fs.String("mode", "", "human or ai")
	colors := fs.String("colors", "", "palette indices, e.g. 0,1")
	name1 := fs.String("name1", "", "first player name")
	name2 := fs.String("name2", "", "second player name")
	seed := fs.Int64("seed", 0, "random seed, 0 for clock")
	level := fs.String("log", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if l, err := log.ParseLevel(*level); err == nil {
		log.SetLevel(l)
	}

	if *path != "" {
		file, err := ebitenutil.OpenFile(*path)
		if err != nil {
			return cfg, err
		}
		defer file.Close()
		if cfg, err = read(file, cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", *path, err)
		}
	}

	if *size != 0 {
		cfg.BoardSize = *size
	}
	if *seconds != 0 {
		cfg.MatchSeconds = *seconds
	}
	if *difficulty != "" {
		d, err := model.ParseDifficulty(*difficulty)
		if err != nil {
			return cfg, err
		}
		cfg.Difficulty = d
	}
	if *mode != "" {
		m, err := model.ParseMode(*mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = m
	}
	if *colors != "" {
		c, err := parseColors(*colors)
		if err != nil {
			return cfg, err
		}
		cfg.Colors = c
	}
	if *name1 != "" {
		cfg.Names[0] = *name1
	}
	if *name2 != "" {
		cfg.Names[1] = *name2
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	return cfg, cfg.Validate()
}

func read(reader io.Reader, base model.MatchConfig) (model.MatchConfig, error) {
	dec := yaml.NewDecoder(reader)
	dec.KnownFields(true)
	if err := dec.Decode(&base); err != nil && err != io.EOF {
		return base, err
	}
	return base, nil
}

func parseColors(s string) ([2]int, error) {
	var c [2]int
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return c, fmt.Errorf("%w: colors want two indices, got %q", model.ErrInvalidConfig, s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return c, fmt.Errorf("%w: color %q", model.ErrInvalidConfig, p)
		}
		c[i] = n
	}
	return c, nil
}
