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

package export

import (
	"errors"
	"testing"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want RGB
	}{
		{"#000000", RGB{0, 0, 0}},
		{"#ffffff", RGB{1, 1, 1}},
		{"#FFFFFF", RGB{1, 1, 1}},
		{"#ff0000", RGB{1, 0, 0}},
		{"#00ff00", RGB{0, 1, 0}},
		{"#0000ff", RGB{0, 0, 1}},
		{"#336699", RGB{0x33 / 255.0, 0x66 / 255.0, 0x99 / 255.0}},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		if err != nil {
			t.Errorf("%s: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "000000", "#00000", "#0000000", "#gg0000", "#+f0000", "red"} {
		_, err := ParseColor(in)
		var colErr *ColorError
		if !errors.As(err, &colErr) {
			t.Errorf("%q: expected ColorError, got %v", in, err)
			continue
		}
		if colErr.Color != in {
			t.Errorf("%q: error refers to %q", in, colErr.Color)
		}
	}
}
