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

// Package mutator implements [export.Document] on top of seehuhn.de/go/pdf.
//
// Drawing operations are collected per page.  When the document is saved,
// all objects of the original file are copied to the output.  Pages which
// received drawing operations get an extra content stream, appended after
// the original contents; all other objects are copied unchanged.
package mutator

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfedit/export"
	"seehuhn.de/go/pdfedit/internal/pagelist"
)

// Options control how modified documents are written.
type Options struct {
	// Compress enables flate compression for new content streams.
	Compress bool

	// Metadata enables updating the XMP metadata of the document.
	Metadata bool

	// Producer is recorded in the XMP metadata.
	Producer string

	// ReadPassword is called to obtain the password for encrypted files.
	ReadPassword func(ID []byte, try int) string

	// Now returns the modification time recorded in the metadata.
	// If this is nil, time.Now is used.
	Now func() time.Time

	Logger *slog.Logger
}

// Document is a PDF file opened for modification.
type Document struct {
	r     *pdf.Reader
	pages []pagelist.Page
	opt   Options
	log   *slog.Logger

	ops   map[int]*bytes.Buffer
	order []int

	fonts     map[string]*stdFont
	fontNames map[int]map[*stdFont]pdf.Name
}

// Open parses a PDF file.
func Open(data []byte, opt *Options) (*Document, error) {
	o := Options{}
	if opt != nil {
		o = *opt
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ropt := &pdf.ReaderOptions{
		ReadPassword:  o.ReadPassword,
		ErrorHandling: pdf.ErrorHandlingReport,
	}
	r, err := pdf.NewReader(bytes.NewReader(data), ropt)
	if err != nil {
		return nil, err
	}
	pages, err := pagelist.List(r)
	if err != nil {
		r.Close()
		return nil, err
	}

	d := &Document{
		r:     r,
		pages: pages,
		opt:   o,
		log:   logger,
		ops:   make(map[int]*bytes.Buffer),
		fonts: make(map[string]*stdFont),

		fontNames: make(map[int]map[*stdFont]pdf.Name),
	}
	return d, nil
}

// Loader returns an [export.Loader] which opens documents with the given
// options.
func Loader(opt *Options) export.Loader {
	return func(data []byte) (export.Document, error) {
		return Open(data, opt)
	}
}

// Close releases the resources held by the document.
func (d *Document) Close() error {
	return d.r.Close()
}

// NumPages implements the [export.Document] interface.
func (d *Document) NumPages() int {
	return len(d.pages)
}

func (d *Document) page(pageNo int) (*pagelist.Page, error) {
	if pageNo < 1 || pageNo > len(d.pages) {
		return nil, fmt.Errorf("page %d out of range 1-%d", pageNo, len(d.pages))
	}
	return &d.pages[pageNo-1], nil
}

// PageSize returns the media box of a page.
// This implements the [export.Document] interface.
func (d *Document) PageSize(pageNo int) (rect.Rect, error) {
	p, err := d.page(pageNo)
	if err != nil {
		return rect.Rect{}, err
	}
	return pagelist.MediaBox(d.r, p.Dict), nil
}

// content returns the buffer for new content of a page.
func (d *Document) content(pageNo int) (*bytes.Buffer, error) {
	if _, err := d.page(pageNo); err != nil {
		return nil, err
	}
	buf, ok := d.ops[pageNo]
	if !ok {
		buf = &bytes.Buffer{}
		d.ops[pageNo] = buf
		d.order = append(d.order, pageNo)
	}
	return buf, nil
}

// FillRect paints a rectangle using a DeviceRGB fill color.
// This implements the [export.Document] interface.
func (d *Document) FillRect(pageNo int, r rect.Rect, fill export.RGB) error {
	buf, err := d.content(pageNo)
	if err != nil {
		return err
	}
	fmt.Fprintf(buf, "q\n%s %s %s rg\n%s %s %s %s re\nf\nQ\n",
		format(fill.R), format(fill.G), format(fill.B),
		format(r.LLx), format(r.LLy), format(r.Dx()), format(r.Dy()))
	return nil
}

// DrawText shows a string, starting at the given baseline origin.
// This implements the [export.Document] interface.
func (d *Document) DrawText(pageNo int, text string, origin vec.Vec2, size float64, font export.Font, col export.RGB) error {
	F, ok := font.(*stdFont)
	if !ok || d.fonts[F.base] != F {
		return errors.New("font was not embedded in this document")
	}
	encoded, err := encodeWinAnsi(text)
	if err != nil {
		return err
	}
	buf, err := d.content(pageNo)
	if err != nil {
		return err
	}
	name, err := d.resourceName(pageNo, F)
	if err != nil {
		return err
	}

	fmt.Fprintf(buf, "q\nBT\n/%s %s Tf\n%s %s %s rg\n%s %s Td\n<%x> Tj\nET\nQ\n",
		string(name), format(size),
		format(col.R), format(col.G), format(col.B),
		format(origin.X), format(origin.Y),
		encoded)
	return nil
}
