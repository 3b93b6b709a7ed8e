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

// Package session holds the state of one editing session: the loaded
// document, the current page and zoom level, and the pending edits.
//
// A session runs on a single logical control thread.  Operations which
// block (loading, rendering, exporting) mark the session as busy while they
// run; a second such operation started in the meantime fails with
// [ErrBusy], and [Session.Controls] reports all controls as disabled.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"seehuhn.de/go/pdfedit/edits"
)

var (
	// ErrNoDocument is returned by operations which need a loaded document.
	ErrNoDocument = errors.New("no document loaded")

	// ErrBusy is returned if an operation is started while another
	// blocking operation is still in progress.
	ErrBusy = errors.New("operation in progress")
)

// PageError indicates a page number outside the document.
type PageError struct {
	PageNo   int
	NumPages int
}

func (err *PageError) Error() string {
	return fmt.Sprintf("page %d out of range 1-%d", err.PageNo, err.NumPages)
}

// Default zoom settings.
const (
	DefaultZoom     = 1.4
	DefaultMinZoom  = 0.6
	DefaultZoomStep = 0.2
)

// Options control the behaviour of a session.
// The zero value selects the defaults.
type Options struct {
	InitialZoom float64
	MinZoom     float64
	ZoomStep    float64

	// Logger receives debug messages.  If this is nil, nothing is logged.
	Logger *slog.Logger
}

// Session is the state of one editing session.
//
// A Session is not safe for concurrent use.
type Session struct {
	raster Rasterizer
	opt    Options
	log    *slog.Logger

	data     []byte
	doc      RasterDocument
	pageNo   int
	numPages int
	zoom     float64

	edits     *edits.Store
	viewports map[int]Viewport
	canvas    *image.RGBA

	inflight bool
}

// New creates a session without a document.
func New(r Rasterizer, opt *Options) *Session {
	o := Options{}
	if opt != nil {
		o = *opt
	}
	if o.InitialZoom <= 0 {
		o.InitialZoom = DefaultZoom
	}
	if o.MinZoom <= 0 {
		o.MinZoom = DefaultMinZoom
	}
	if o.ZoomStep <= 0 {
		o.ZoomStep = DefaultZoomStep
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Session{
		raster:    r,
		opt:       o,
		log:       logger,
		zoom:      o.InitialZoom,
		edits:     edits.NewStore(),
		viewports: make(map[int]Viewport),
	}
}

// Load replaces the current document by the PDF file given by data, and
// renders the first page.
//
// All pending edits are discarded and the zoom level is reset.
// If the document cannot be opened, the session is left unchanged.
func (s *Session) Load(ctx context.Context, data []byte) error {
	done, err := s.Begin()
	if err != nil {
		return err
	}
	defer done()

	if err := ctx.Err(); err != nil {
		return err
	}

	data = bytes.Clone(data)
	doc, err := s.raster.Open(ctx, data)
	if err != nil {
		return fmt.Errorf("cannot open document: %w", err)
	}
	numPages := doc.NumPages()
	if numPages < 1 {
		doc.Close()
		return errors.New("document has no pages")
	}

	if s.doc != nil {
		err := s.doc.Close()
		if err != nil {
			s.log.Warn("closing previous document", "error", err)
		}
	}

	s.data = data
	s.doc = doc
	s.numPages = numPages
	s.pageNo = 1
	s.zoom = s.opt.InitialZoom
	s.edits.Clear()
	clear(s.viewports)
	s.canvas = nil

	s.log.Debug("document loaded", "bytes", len(data), "pages", numPages)

	return s.render(ctx)
}

// Teardown releases the document and all edits.
func (s *Session) Teardown() error {
	if s.inflight {
		return ErrBusy
	}

	var err error
	if s.doc != nil {
		err = s.doc.Close()
	}
	s.doc = nil
	s.data = nil
	s.numPages = 0
	s.pageNo = 0
	s.zoom = s.opt.InitialZoom
	s.edits.Clear()
	clear(s.viewports)
	s.canvas = nil
	return err
}

// Loaded reports whether a document is loaded.
func (s *Session) Loaded() bool {
	return s.doc != nil
}

// Data returns the raw bytes of the loaded document.
// The caller must not modify the returned slice.
func (s *Session) Data() []byte {
	return s.data
}

// PageNo returns the current page number.
// Pages are numbered starting at 1; the value is 0 if no document is loaded.
func (s *Session) PageNo() int {
	return s.pageNo
}

// NumPages returns the number of pages of the loaded document.
func (s *Session) NumPages() int {
	return s.numPages
}

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 {
	return s.zoom
}

// MinZoom returns the smallest allowed zoom factor.
func (s *Session) MinZoom() float64 {
	return s.opt.MinZoom
}

// Edits returns the edit store of the session.
func (s *Session) Edits() *edits.Store {
	return s.edits
}

// CurrentEdits returns the edits of the current page, creating an empty
// entry if needed.
func (s *Session) CurrentEdits() (*edits.PageEdits, error) {
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	return s.edits.GetOrCreate(s.pageNo), nil
}

// Viewport returns the pixel size of the last rendering of the given page.
// The second return value is false if the page has not been rendered since
// the document was loaded.
func (s *Session) Viewport(pageNo int) (Viewport, bool) {
	vp, ok := s.viewports[pageNo]
	return vp, ok
}

// CurrentViewport returns the pixel size of the current page.
func (s *Session) CurrentViewport() (Viewport, bool) {
	return s.Viewport(s.pageNo)
}

// Canvas returns the last rendered page image, or nil.
func (s *Session) Canvas() *image.RGBA {
	return s.canvas
}

// NextPage moves to the next page.  On the last page, this does nothing.
func (s *Session) NextPage(ctx context.Context) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	if s.pageNo >= s.numPages {
		return nil
	}
	return s.goTo(ctx, s.pageNo+1)
}

// PrevPage moves to the previous page.  On the first page, this does nothing.
func (s *Session) PrevPage(ctx context.Context) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	if s.pageNo <= 1 {
		return nil
	}
	return s.goTo(ctx, s.pageNo-1)
}

// GoTo moves to the given page.
func (s *Session) GoTo(ctx context.Context, pageNo int) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	if pageNo < 1 || pageNo > s.numPages {
		return &PageError{PageNo: pageNo, NumPages: s.numPages}
	}
	return s.goTo(ctx, pageNo)
}

func (s *Session) goTo(ctx context.Context, pageNo int) error {
	done, err := s.Begin()
	if err != nil {
		return err
	}
	defer done()

	prev := s.pageNo
	s.pageNo = pageNo
	err = s.render(ctx)
	if err != nil {
		s.pageNo = prev
	}
	return err
}

// ZoomIn increases the zoom factor by one step and re-renders the page.
func (s *Session) ZoomIn(ctx context.Context) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	return s.setZoom(ctx, roundZoom(s.zoom+s.opt.ZoomStep))
}

// ZoomOut decreases the zoom factor by one step and re-renders the page.
// The zoom factor never drops below the minimum; at the minimum this does
// nothing.
func (s *Session) ZoomOut(ctx context.Context) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	if s.zoom <= s.opt.MinZoom {
		return nil
	}
	return s.setZoom(ctx, math.Max(s.opt.MinZoom, roundZoom(s.zoom-s.opt.ZoomStep)))
}

func (s *Session) setZoom(ctx context.Context, zoom float64) error {
	done, err := s.Begin()
	if err != nil {
		return err
	}
	defer done()

	prev := s.zoom
	s.zoom = zoom
	err = s.render(ctx)
	if err != nil {
		s.zoom = prev
	}
	return err
}

// Render renders the current page at the current zoom level.
func (s *Session) Render(ctx context.Context) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	done, err := s.Begin()
	if err != nil {
		return err
	}
	defer done()
	return s.render(ctx)
}

func (s *Session) render(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	vp, err := s.doc.Viewport(s.pageNo, s.zoom)
	if err != nil {
		return err
	}
	canvas := image.NewRGBA(vp.Bounds())
	err = s.doc.Render(ctx, s.pageNo, s.zoom, canvas)
	if err != nil {
		return err
	}

	s.canvas = canvas
	s.viewports[s.pageNo] = vp

	s.log.Debug("page rendered",
		"page", s.pageNo, "zoom", s.zoom,
		"width", vp.Width, "height", vp.Height)
	return nil
}

// Begin marks the start of a blocking operation.  The returned function
// must be called when the operation is complete.
// If another operation is in progress, [ErrBusy] is returned.
func (s *Session) Begin() (done func(), err error) {
	if s.inflight {
		return nil, ErrBusy
	}
	s.inflight = true
	return func() { s.inflight = false }, nil
}

// Busy reports whether a blocking operation is in progress.
func (s *Session) Busy() bool {
	return s.inflight
}

// Controls lists which user actions are currently available.
type Controls struct {
	Prev, Next      bool
	AddText, Erase  bool
	Export          bool
	ZoomIn, ZoomOut bool
}

// Controls returns the currently available actions.
// Without a document, or while a blocking operation runs, nothing is
// available.
func (s *Session) Controls() Controls {
	if s.doc == nil || s.inflight {
		return Controls{}
	}
	return Controls{
		Prev:    s.pageNo > 1,
		Next:    s.pageNo < s.numPages,
		AddText: true,
		Erase:   true,
		Export:  true,
		ZoomIn:  true,
		ZoomOut: s.zoom > s.opt.MinZoom,
	}
}

// roundZoom removes the rounding noise which accumulates when the zoom step
// is added repeatedly.
func roundZoom(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
