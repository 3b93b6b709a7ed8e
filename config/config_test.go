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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(body), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Zoom.Initial != 1.4 || cfg.Zoom.Min != 0.6 || cfg.Zoom.Step != 0.2 {
		t.Errorf("unexpected zoom defaults %+v", cfg.Zoom)
	}
	want := EraseConfig{Width: 70, Height: 24, OffsetX: 20, OffsetY: 12}
	if d := cmp.Diff(want, cfg.Erase); d != "" {
		t.Errorf("erase defaults (-want +got):\n%s", d)
	}
	if cfg.Export.FileName != "edited.pdf" || cfg.Export.Font != "Helvetica" {
		t.Errorf("unexpected export defaults %+v", cfg.Export)
	}
}

func TestLoadPartial(t *testing.T) {
	path := writeConfig(t, `
zoom:
  initial: 2
text:
  color: "#336699"
export:
  compress: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := Default()
	want.Zoom.Initial = 2
	want.Text.Color = "#336699"
	want.Export.Compress = false
	if d := cmp.Diff(want, cfg); d != "" {
		t.Errorf("config (-want +got):\n%s", d)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"zoom.step":        "zoom: {step: 0}",
		"zoom.initial":     "zoom: {initial: 0.5, min: 0.6}",
		"text.color":       "text: {color: red}",
		"text.font_size":   "text: {font_size: -3}",
		"export.font":      "export: {font: Comic-Sans}",
		"export.file_name": "export: {file_name: \"\"}",
		"erase.width":      "erase: {width: 0}",
	}
	for field, body := range cases {
		_, err := Load(writeConfig(t, body))
		if err == nil {
			t.Errorf("%s: invalid config accepted", field)
			continue
		}
		if !strings.Contains(err.Error(), field) {
			t.Errorf("%s: error %q does not name the field", field, err)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := Load(writeConfig(t, "zoom: [1, 2")); err == nil {
		t.Error("malformed YAML accepted")
	}

	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(Default(), cfg); d != "" {
		t.Errorf("LoadOrDefault(\"\") (-want +got):\n%s", d)
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Text.FontSize = 16
	cfg.Export.Metadata = false

	if got := cfg.OverlayOptions().FontSize; got != 16 {
		t.Errorf("overlay font size %g", got)
	}
	if got := cfg.SessionOptions(nil).MinZoom; got != 0.6 {
		t.Errorf("session min zoom %g", got)
	}
	mopt := cfg.MutatorOptions("test", nil)
	if mopt.Metadata || !mopt.Compress || mopt.Producer != "test" {
		t.Errorf("unexpected mutator options %+v", mopt)
	}
	if got := cfg.ExportOptions(nil).Font; got != "Helvetica" {
		t.Errorf("export font %q", got)
	}
}
