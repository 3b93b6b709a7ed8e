// seehuhn.de/go/pdfedit - annotate and export PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config reads the settings of the annotation tool from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/pdfedit/export"
	"seehuhn.de/go/pdfedit/mutator"
	"seehuhn.de/go/pdfedit/overlay"
	"seehuhn.de/go/pdfedit/session"
)

// Config holds all settings.
type Config struct {
	Zoom   ZoomConfig   `yaml:"zoom"`
	Text   TextConfig   `yaml:"text"`
	Erase  EraseConfig  `yaml:"erase"`
	Export ExportConfig `yaml:"export"`
	Shell  ShellConfig  `yaml:"shell"`
}

// ZoomConfig sets the zoom levels of the page view.
type ZoomConfig struct {
	Initial float64 `yaml:"initial"`
	Min     float64 `yaml:"min"`
	Step    float64 `yaml:"step"`
}

// TextConfig sets the defaults for new text edits.
type TextConfig struct {
	FontSize    float64 `yaml:"font_size"`
	Color       string  `yaml:"color"`
	Placeholder string  `yaml:"placeholder"`
}

// EraseConfig sets the size of erase marks, and their position relative to
// the click which creates them.
type EraseConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

// ExportConfig controls the exported file.
type ExportConfig struct {
	FileName string `yaml:"file_name"`
	Font     string `yaml:"font"`
	Compress bool   `yaml:"compress"`
	Metadata bool   `yaml:"metadata"`
}

// ShellConfig controls the interactive shell.
type ShellConfig struct {
	// HistoryFile is where command history is kept.  If this is empty,
	// history is not saved.
	HistoryFile string `yaml:"history_file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Zoom: ZoomConfig{
			Initial: session.DefaultZoom,
			Min:     session.DefaultMinZoom,
			Step:    session.DefaultZoomStep,
		},
		Text: TextConfig{
			FontSize:    overlay.DefaultFontSize,
			Color:       overlay.DefaultColor,
			Placeholder: overlay.DefaultPlaceholder,
		},
		Erase: EraseConfig{
			Width:   overlay.DefaultEraseWidth,
			Height:  overlay.DefaultEraseHeight,
			OffsetX: overlay.DefaultEraseOffsetX,
			OffsetY: overlay.DefaultEraseOffsetY,
		},
		Export: ExportConfig{
			FileName: export.DefaultFileName,
			Font:     export.DefaultFont,
			Compress: true,
			Metadata: true,
		},
	}
}

// Load reads a configuration file.  Settings missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration from path.  If path is empty, the
// default configuration is returned.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, x float64) {
		if !(x > 0) || math.IsInf(x, 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", name, x))
		}
	}

	positive("zoom.initial", c.Zoom.Initial)
	positive("zoom.min", c.Zoom.Min)
	positive("zoom.step", c.Zoom.Step)
	if c.Zoom.Initial < c.Zoom.Min {
		errs = append(errs, fmt.Errorf("zoom.initial %g is below zoom.min %g", c.Zoom.Initial, c.Zoom.Min))
	}

	positive("text.font_size", c.Text.FontSize)
	if _, err := export.ParseColor(c.Text.Color); err != nil {
		errs = append(errs, fmt.Errorf("text.color: %w", err))
	}

	positive("erase.width", c.Erase.Width)
	positive("erase.height", c.Erase.Height)

	if c.Export.FileName == "" {
		errs = append(errs, errors.New("export.file_name must not be empty"))
	}
	if !mutator.IsSupportedFont(c.Export.Font) {
		errs = append(errs, fmt.Errorf("export.font: unsupported font %q", c.Export.Font))
	}

	return errors.Join(errs...)
}

// SessionOptions returns the session settings.
func (c *Config) SessionOptions(logger *slog.Logger) *session.Options {
	return &session.Options{
		InitialZoom: c.Zoom.Initial,
		MinZoom:     c.Zoom.Min,
		ZoomStep:    c.Zoom.Step,
		Logger:      logger,
	}
}

// OverlayOptions returns the overlay settings.
func (c *Config) OverlayOptions() *overlay.Options {
	return &overlay.Options{
		FontSize:     c.Text.FontSize,
		Color:        c.Text.Color,
		Placeholder:  c.Text.Placeholder,
		EraseWidth:   c.Erase.Width,
		EraseHeight:  c.Erase.Height,
		EraseOffsetX: c.Erase.OffsetX,
		EraseOffsetY: c.Erase.OffsetY,
	}
}

// ExportOptions returns the settings of the export engine.
func (c *Config) ExportOptions(logger *slog.Logger) *export.Options {
	return &export.Options{
		Font:     c.Export.Font,
		FileName: c.Export.FileName,
		Logger:   logger,
	}
}

// MutatorOptions returns the settings used to write PDF files.
func (c *Config) MutatorOptions(producer string, logger *slog.Logger) *mutator.Options {
	return &mutator.Options{
		Compress: c.Export.Compress,
		Metadata: c.Export.Metadata,
		Producer: producer,
		Logger:   logger,
	}
}
