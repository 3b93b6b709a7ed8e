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

// Package raster implements [session.Rasterizer] for PDF files.
//
// Only the geometry of the pages is read.  Page content is not
// rasterized; every page is drawn as a blank sheet with a thin border, of
// the size the page would have on screen.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfedit/internal/pagelist"
	"seehuhn.de/go/pdfedit/session"
)

// Options control the rasterizer.
type Options struct {
	// ReadPassword is called to obtain the password for encrypted files.
	ReadPassword func(ID []byte, try int) string

	Logger *slog.Logger
}

// Rasterizer opens PDF files for display.
type Rasterizer struct {
	opt Options
	log *slog.Logger
}

// New returns a new rasterizer.
func New(opt *Options) *Rasterizer {
	o := Options{}
	if opt != nil {
		o = *opt
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Rasterizer{opt: o, log: logger}
}

// Open reads the page tree of a PDF file.
// This implements the [session.Rasterizer] interface.
func (r *Rasterizer) Open(ctx context.Context, data []byte) (session.RasterDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ropt := &pdf.ReaderOptions{
		ReadPassword:  r.opt.ReadPassword,
		ErrorHandling: pdf.ErrorHandlingReport,
	}
	rd, err := pdf.NewReader(bytes.NewReader(data), ropt)
	if err != nil {
		return nil, err
	}
	defer rd.Close()

	pages, err := pagelist.List(rd)
	if err != nil {
		return nil, err
	}
	boxes := make([]rect.Rect, len(pages))
	for i, p := range pages {
		boxes[i] = pagelist.MediaBox(rd, p.Dict)
	}

	r.log.Debug("page tree read", "pages", len(boxes), "version", pdf.GetVersion(rd))
	return &document{boxes: boxes}, nil
}

type document struct {
	boxes  []rect.Rect
	closed bool
}

var errClosed = errors.New("document closed")

func (d *document) NumPages() int {
	return len(d.boxes)
}

func (d *document) box(pageNo int) (rect.Rect, error) {
	if d.closed {
		return rect.Rect{}, errClosed
	}
	if pageNo < 1 || pageNo > len(d.boxes) {
		return rect.Rect{}, &session.PageError{PageNo: pageNo, NumPages: len(d.boxes)}
	}
	return d.boxes[pageNo-1], nil
}

// Viewport returns the size of a page in pixels, when rendered at the given
// scale.  One PDF point at scale 1 is one pixel.
func (d *document) Viewport(pageNo int, scale float64) (session.Viewport, error) {
	box, err := d.box(pageNo)
	if err != nil {
		return session.Viewport{}, err
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return session.Viewport{}, fmt.Errorf("invalid scale %g", scale)
	}
	vp := PixelSize(box, scale)
	if vp.Width < 1 || vp.Height < 1 {
		return session.Viewport{}, fmt.Errorf("page %d is too small to display", pageNo)
	}
	return vp, nil
}

// PixelSize returns the viewport size of a page box at the given scale.
func PixelSize(box rect.Rect, scale float64) session.Viewport {
	return session.Viewport{
		Width:  int(math.Floor(box.Dx()*scale + 1e-9)),
		Height: int(math.Floor(box.Dy()*scale + 1e-9)),
	}
}

var (
	paper  = image.NewUniform(color.White)
	border = image.NewUniform(color.Gray{Y: 0xA0})
)

func (d *document) Render(ctx context.Context, pageNo int, scale float64, dst draw.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	vp, err := d.Viewport(pageNo, scale)
	if err != nil {
		return err
	}
	b := dst.Bounds()
	if b.Dx() != vp.Width || b.Dy() != vp.Height {
		return fmt.Errorf("page %d: wrong image size %dx%d, expected %dx%d",
			pageNo, b.Dx(), b.Dy(), vp.Width, vp.Height)
	}

	draw.Draw(dst, b, paper, image.Point{}, draw.Src)

	top := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+1)
	bottom := image.Rect(b.Min.X, b.Max.Y-1, b.Max.X, b.Max.Y)
	left := image.Rect(b.Min.X, b.Min.Y, b.Min.X+1, b.Max.Y)
	right := image.Rect(b.Max.X-1, b.Min.Y, b.Max.X, b.Max.Y)
	for _, line := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(dst, line, border, image.Point{}, draw.Src)
	}
	return nil
}

func (d *document) Close() error {
	d.closed = true
	return nil
}
