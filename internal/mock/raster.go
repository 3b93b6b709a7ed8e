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

// Package mock provides a [session.Rasterizer] for tests.
package mock

import (
	"context"
	"errors"
	"image/draw"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/pdfedit/raster"
	"seehuhn.de/go/pdfedit/session"
)

// Rasterizer opens every input as a document with the given page sizes.
// The document data is ignored.
type Rasterizer struct {
	Pages []rect.Rect

	// OpenErr, if set, is returned by Open.
	OpenErr error

	// OnRender, if set, is called before every page is rendered.
	// An error returned by OnRender is returned by Render.
	OnRender func(pageNo int, scale float64) error

	// Rendered records the page numbers passed to Render.
	Rendered []int
}

// A4 is the size of an A4 page in PDF points.
var A4 = rect.Rect{URx: 595, URy: 842}

// NewRasterizer returns a rasterizer for documents with numPages A4 pages.
func NewRasterizer(numPages int) *Rasterizer {
	r := &Rasterizer{}
	for range numPages {
		r.Pages = append(r.Pages, A4)
	}
	return r
}

// Open implements the [session.Rasterizer] interface.
func (r *Rasterizer) Open(ctx context.Context, data []byte) (session.RasterDocument, error) {
	if r.OpenErr != nil {
		return nil, r.OpenErr
	}
	return &document{r: r}, nil
}

type document struct {
	r      *Rasterizer
	closed bool
}

func (d *document) NumPages() int {
	return len(d.r.Pages)
}

func (d *document) Viewport(pageNo int, scale float64) (session.Viewport, error) {
	if pageNo < 1 || pageNo > len(d.r.Pages) {
		return session.Viewport{}, errors.New("page not found")
	}
	box := d.r.Pages[pageNo-1]
	return raster.PixelSize(box, scale), nil
}

func (d *document) Render(ctx context.Context, pageNo int, scale float64, dst draw.Image) error {
	if d.closed {
		return errors.New("document closed")
	}
	if d.r.OnRender != nil {
		err := d.r.OnRender(pageNo, scale)
		if err != nil {
			return err
		}
	}
	d.r.Rendered = append(d.r.Rendered, pageNo)
	return nil
}

func (d *document) Close() error {
	d.closed = true
	return nil
}
