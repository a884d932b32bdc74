package lframe

import (
	"log"
	"os"
)

// Config holds the settings that affect rendering and warnings.
// A Config is copied into every Vector and DataFrame at construction time;
// there is no package-level state.
type Config struct {
	// LevelSeparator joins the levels of a tuple label when it is rendered as a single string.
	LevelSeparator string
	// MaxRows is the number of rows rendered by String() before the middle rows are elided.
	MaxRows int
	// AutoMerge merges repeated adjacent cells when rendering.
	AutoMerge bool
	// Warnings enables the shared-data warning printed when a view is mutated in place.
	Warnings bool
	// Logger receives warnings. If nil, warnings are discarded.
	Logger *log.Logger
}

// DefaultConfig returns the default settings:
// "|" as level separator, 50 max rows, repeated cells merged, warnings on stderr.
func DefaultConfig() Config {
	return Config{
		LevelSeparator: "|",
		MaxRows:        50,
		AutoMerge:      true,
		Warnings:       true,
		Logger:         log.New(os.Stderr, "lframe: ", 0),
	}
}

func (cfg Config) warn(msg string) {
	if !cfg.Warnings || cfg.Logger == nil {
		return
	}
	cfg.Logger.Print(msg)
}

func (cfg Config) withDefaults() Config {
	if cfg.LevelSeparator == "" {
		cfg.LevelSeparator = "|"
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 50
	}
	return cfg
}
