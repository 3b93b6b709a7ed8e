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

// Package export writes the edits of a session into a copy of the original
// PDF file.
//
// Erase marks are painted over with opaque white rectangles; the content
// below them stays in the file.  Text edits are drawn on top, using a single
// standard font for the whole document.  Pages without edits are not
// touched.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/pdfedit/session"
	"seehuhn.de/go/pdfedit/viewport"
)

// A Document is an editable PDF file.  If a Document implements [io.Closer],
// it is closed when the export finishes.
// Pages are numbered starting at 1.
type Document interface {
	NumPages() int

	// PageSize returns the media box of a page, in PDF points.
	PageSize(pageNo int) (rect.Rect, error)

	// EmbedStandardFont makes one of the 14 standard PDF fonts available
	// for drawing text.
	EmbedStandardFont(name string) (Font, error)

	// FillRect paints a rectangle on a page.
	FillRect(pageNo int, r rect.Rect, fill RGB) error

	// DrawText draws a string with its baseline starting at origin.
	DrawText(pageNo int, text string, origin vec.Vec2, size float64, font Font, col RGB) error

	// Save serializes the modified document.
	Save(ctx context.Context) ([]byte, error)
}

// Font is a font returned by [Document.EmbedStandardFont].
type Font interface {
	PostScriptName() string
}

// A Loader opens PDF data for modification.
type Loader func(data []byte) (Document, error)

// Defaults for the output.
const (
	DefaultFont     = "Helvetica"
	DefaultFileName = "edited.pdf"
	MediaType       = "application/pdf"
)

// Options control the export.
// The zero value selects the defaults.
type Options struct {
	// Font is the name of the standard font used for all text edits.
	Font string

	// FileName is the suggested name of the output file.
	FileName string

	Logger *slog.Logger
}

// Engine exports the edits of a session.
type Engine struct {
	load Loader
	opt  Options
	log  *slog.Logger
}

// New returns an export engine which uses load to open documents.
func New(load Loader, opt *Options) *Engine {
	o := Options{}
	if opt != nil {
		o = *opt
	}
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.FileName == "" {
		o.FileName = DefaultFileName
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{load: load, opt: o, log: logger}
}

// Result is an exported PDF file.
type Result struct {
	FileName  string
	MediaType string
	Data      []byte
}

// WriteFile writes the result to the named file.  If name is empty,
// r.FileName is used.
func (r *Result) WriteFile(name string) error {
	if name == "" {
		name = r.FileName
	}
	return os.WriteFile(name, r.Data, 0o644)
}

// Export applies all edits of the session to a copy of the loaded document
// and returns the resulting PDF file.
//
// Pages are processed in the order in which they were first accessed.  On
// each page, erase marks are drawn before text edits.  The session is not
// modified.
func (e *Engine) Export(ctx context.Context, s *session.Session) (*Result, error) {
	if !s.Loaded() || s.Data() == nil {
		return nil, session.ErrNoDocument
	}
	done, err := s.Begin()
	if err != nil {
		return nil, err
	}
	defer done()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := e.load(s.Data())
	if err != nil {
		return nil, fmt.Errorf("cannot load document: %w", err)
	}
	if c, ok := doc.(io.Closer); ok {
		defer c.Close()
	}

	var font Font
	for pageNo, pe := range s.Edits().All() {
		if pe.IsEmpty() {
			continue
		}
		if pageNo < 1 || pageNo > doc.NumPages() {
			return nil, &session.PageError{PageNo: pageNo, NumPages: doc.NumPages()}
		}

		box, err := doc.PageSize(pageNo)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNo, err)
		}
		vp, ok := s.Viewport(pageNo)
		if !ok {
			return nil, fmt.Errorf("page %d: edited page was never rendered", pageNo)
		}
		tr, err := viewport.New(vp.Width, vp.Height, box.Dx(), box.Dy())
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNo, err)
		}

		for _, item := range pe.Erases {
			r := tr.ToPDFRect(item.X, item.Y, item.W, item.H)
			r.X += box.LLx
			r.Y += box.LLy
			err := doc.FillRect(pageNo, r.Box(), White)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", pageNo, err)
			}
		}

		if len(pe.Texts) > 0 && font == nil {
			font, err = doc.EmbedStandardFont(e.opt.Font)
			if err != nil {
				return nil, err
			}
		}
		for _, item := range pe.Texts {
			col, err := ParseColor(item.Color)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", pageNo, err)
			}
			origin, size := tr.ToPDFTextOrigin(item.X, item.Y, item.FontSize)
			origin.X += box.LLx
			origin.Y += box.LLy
			err = doc.DrawText(pageNo, item.Text, origin, size, font, col)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w", pageNo, err)
			}
		}

		e.log.Debug("page exported", "page", pageNo,
			"erases", len(pe.Erases), "texts", len(pe.Texts))
	}

	data, err := doc.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot write document: %w", err)
	}

	res := &Result{
		FileName:  e.opt.FileName,
		MediaType: MediaType,
		Data:      data,
	}
	return res, nil
}
