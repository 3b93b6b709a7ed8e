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

// Package viewport converts between viewport pixels and PDF points.
//
// Viewport pixel space has its origin in the top-left corner of the rendered
// page, with y increasing downwards.  PDF point space has its origin in the
// bottom-left corner of the page, with y increasing upwards.
//
// A [Transform] is only valid for the pixel size it was constructed with.
// Coordinates captured at one zoom level and converted using the pixel size
// of a different zoom level give wrong positions.
package viewport

import (
	"fmt"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Transform maps viewport pixels of one rendered page to PDF points.
type Transform struct {
	ScaleX, ScaleY float64

	// PageHeight is the height of the page in PDF points.
	PageHeight float64
}

// New returns the transform for a page rendered at pixel size pw×ph whose
// native size is wp×hp points.
func New(pw, ph int, wp, hp float64) (Transform, error) {
	if pw <= 0 || ph <= 0 {
		return Transform{}, fmt.Errorf("invalid viewport size %dx%d", pw, ph)
	}
	t := Transform{
		ScaleX:     wp / float64(pw),
		ScaleY:     hp / float64(ph),
		PageHeight: hp,
	}
	return t, nil
}

// Rect is an axis-aligned rectangle in PDF space, given by its lower-left
// corner and its size.
type Rect struct {
	X, Y, W, H float64
}

// Box converts r to a [rect.Rect].
func (r Rect) Box() rect.Rect {
	return rect.Rect{
		LLx: r.X,
		LLy: r.Y,
		URx: r.X + r.W,
		URy: r.Y + r.H,
	}
}

// ToPDFRect converts a rectangle with top-left corner (x, y) and size w×h
// from viewport pixels to PDF points.
//
// The bottom edge y+h of the pixel rectangle becomes the bottom edge of the
// PDF rectangle.
func (t Transform) ToPDFRect(x, y, w, h float64) Rect {
	return Rect{
		X: x * t.ScaleX,
		Y: t.PageHeight - (y+h)*t.ScaleY,
		W: w * t.ScaleX,
		H: h * t.ScaleY,
	}
}

// FromPDFRect is the inverse of [Transform.ToPDFRect].
func (t Transform) FromPDFRect(r Rect) (x, y, w, h float64) {
	w = r.W / t.ScaleX
	h = r.H / t.ScaleY
	x = r.X / t.ScaleX
	y = (t.PageHeight-r.Y)/t.ScaleY - h
	return x, y, w, h
}

// ToPDFTextOrigin converts the top-left corner (x, y) of a text box with the
// given pixel font size into a PDF text origin and the corresponding font
// size in points.
//
// The font size is taken as the height of the text box, so that the origin
// sits on the bottom edge of the box.
func (t Transform) ToPDFTextOrigin(x, y, fontSize float64) (vec.Vec2, float64) {
	origin := vec.Vec2{
		X: x * t.ScaleX,
		Y: t.PageHeight - (y+fontSize)*t.ScaleY,
	}
	return origin, fontSize * t.ScaleY
}
