package lframe

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LevelSeparator != "|" || cfg.MaxRows != 50 || !cfg.AutoMerge || !cfg.Warnings || cfg.Logger == nil {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if cfg.Logger.Prefix() != "lframe: " {
		t.Errorf("DefaultConfig().Logger prefix = %q, want %q", cfg.Logger.Prefix(), "lframe: ")
	}
}

func TestConfig_withDefaults(t *testing.T) {
	got := Config{MaxRows: -1}.withDefaults()
	if got.LevelSeparator != "|" || got.MaxRows != 50 {
		t.Errorf("Config.withDefaults() = %+v", got)
	}
	if got.AutoMerge || got.Warnings {
		t.Errorf("Config.withDefaults() turned on boolean settings: %+v", got)
	}
	kept := Config{LevelSeparator: "/", MaxRows: 3}.withDefaults()
	if kept.LevelSeparator != "/" || kept.MaxRows != 3 {
		t.Errorf("Config.withDefaults() = %+v, want settings kept", kept)
	}
	df, _ := NewDataFrame(nil, FrameOptionConfig(Config{}))
	if df.cfg.MaxRows != 50 {
		t.Errorf("FrameOptionConfig() MaxRows = %v, want 50", df.cfg.MaxRows)
	}
	v, _ := NewVector([]int{1}, VectorOptionConfig(Config{}))
	if v.cfg.LevelSeparator != "|" {
		t.Errorf("VectorOptionConfig() LevelSeparator = %q, want |", v.cfg.LevelSeparator)
	}
}

func TestConfig_warn(t *testing.T) {
	tests := []struct {
		name     string
		warnings bool
		want     string
	}{
		{"enabled", true, "careful\n"},
		{"disabled", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := Config{Warnings: tt.warnings, Logger: log.New(&buf, "", 0)}
			cfg.warn("careful")
			if got := buf.String(); got != tt.want {
				t.Errorf("Config.warn() wrote %q, want %q", got, tt.want)
			}
		})
	}
	// a nil logger discards warnings
	Config{Warnings: true}.warn("careful")
}

func TestConfig_sharedDataWarning(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logger = log.New(&buf, "", 0)
	df, _ := NewDataFrame(ColumnMap{"a": []int{1, 2}}, FrameOptionConfig(cfg))
	df.InPlace()
	if buf.Len() != 0 {
		t.Errorf("InPlace() on an unshared DataFrame warned: %q", buf.String())
	}
	view, _ := df.Cols("a")
	view.InPlace()
	if !strings.Contains(buf.String(), "Shared Data Warning") {
		t.Errorf("InPlace() on a view did not warn: %q", buf.String())
	}
}
