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
	"strconv"
)

// RGB is a color in the DeviceRGB color space.
// The components are in the range [0, 1].
type RGB struct {
	R, G, B float64
}

// White is used to paint erase marks.
var White = RGB{R: 1, G: 1, B: 1}

// ColorError is returned by [ParseColor] for malformed color strings.
type ColorError struct {
	Color string
}

func (err *ColorError) Error() string {
	return "invalid color " + strconv.Quote(err.Color) + ", expected #RRGGBB"
}

// ParseColor decodes a color of the form "#RRGGBB".
// Each component is mapped to the range [0, 1] by dividing by 255.
func ParseColor(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, &ColorError{Color: s}
	}

	var c [3]float64
	for i := range c {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return RGB{}, &ColorError{Color: s}
		}
		c[i] = float64(v) / 255
	}
	return RGB{R: c[0], G: c[1], B: c[2]}, nil
}
