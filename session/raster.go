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

package session

import (
	"context"
	"image"
	"image/draw"
)

// A Rasterizer decodes PDF files for display.
type Rasterizer interface {
	Open(ctx context.Context, data []byte) (RasterDocument, error)
}

// A RasterDocument is a PDF file opened by a [Rasterizer].
// Pages are numbered starting at 1.
type RasterDocument interface {
	NumPages() int

	// Viewport returns the pixel size of the given page at the given scale.
	Viewport(pageNo int, scale float64) (Viewport, error)

	// Render draws the page into dst, which must have the size returned by
	// Viewport.
	Render(ctx context.Context, pageNo int, scale float64, dst draw.Image) error

	Close() error
}

// Viewport is the pixel size of a rendered page.
type Viewport struct {
	Width, Height int
}

// Bounds returns the image rectangle of the viewport.
func (vp Viewport) Bounds() image.Rectangle {
	return image.Rect(0, 0, vp.Width, vp.Height)
}
