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

// Package overlay presents the edits of the current page as interactive
// elements and applies user interaction to the edit store.
//
// All changes to the edit store go through [Controller.Dispatch].  The
// controller keeps no copies of the edits: the elements returned by
// [Controller.Render] are a view of the store, identified by [ID].
package overlay

import (
	"errors"
	"fmt"
	"strconv"

	"seehuhn.de/go/pdfedit/edits"
	"seehuhn.de/go/pdfedit/session"
)

// ErrNoElement is returned for commands which refer to an element which
// is not shown on the current page.
var ErrNoElement = errors.New("no such element")

// Kind distinguishes the types of overlay elements.
type Kind int

// These are the supported element kinds.
const (
	TextElement Kind = iota
	EraseElement
)

// ID identifies an element on the current page.
type ID struct {
	Kind  Kind
	Index int
}

func (id ID) String() string {
	switch id.Kind {
	case TextElement:
		return "t" + strconv.Itoa(id.Index)
	case EraseElement:
		return "e" + strconv.Itoa(id.Index)
	default:
		return fmt.Sprintf("?%d", id.Index)
	}
}

// ParseID parses the string representation of an ID, for example "t0" or
// "e3".
func ParseID(s string) (ID, error) {
	if len(s) < 2 {
		return ID{}, fmt.Errorf("invalid element id %q", s)
	}
	var kind Kind
	switch s[0] {
	case 't':
		kind = TextElement
	case 'e':
		kind = EraseElement
	default:
		return ID{}, fmt.Errorf("invalid element id %q", s)
	}
	idx, err := strconv.Atoi(s[1:])
	if err != nil || idx < 0 {
		return ID{}, fmt.Errorf("invalid element id %q", s)
	}
	return ID{Kind: kind, Index: idx}, nil
}

// Element is an interactive item shown on top of the page image.
// Coordinates are viewport pixels.
type Element struct {
	ID ID

	X, Y float64

	// W and H give the size of erase marks.  For text elements, H equals
	// the font size and W is zero.
	W, H float64

	// The remaining fields are only used for text elements.
	Text     string
	FontSize float64
	Color    string
}

// Options set the defaults used by the controller.
// The zero value selects the defaults.
type Options struct {
	// FontSize and Color are used for new text edits.
	FontSize float64
	Color    string

	// Placeholder is the initial text of new text edits.
	Placeholder string

	// EraseWidth and EraseHeight give the size of new erase marks.  A
	// click at (x, y) creates a mark with top-left corner
	// (x-EraseOffsetX, y-EraseOffsetY).
	EraseWidth, EraseHeight    float64
	EraseOffsetX, EraseOffsetY float64

	// DragMargin is the part of an element which must stay inside the page
	// while dragging.
	DragMargin float64
}

// Default settings for the controller.
const (
	DefaultFontSize     = 20
	DefaultColor        = "#000000"
	DefaultPlaceholder  = "Edit me"
	DefaultEraseWidth   = 70
	DefaultEraseHeight  = 24
	DefaultEraseOffsetX = 20
	DefaultEraseOffsetY = 12
	DefaultDragMargin   = 20
)

// Position of new text edits.
const (
	newTextX = 40
	newTextY = 40
)

// Controller connects the overlay elements of the current page to the edit
// store of a session.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	sess *session.Session
	opt  Options

	fontSize  float64
	color     string
	eraseMode bool

	elements []Element
	drag     *dragState

	// pageNo and pe identify the store entry the elements were rendered
	// from.
	pageNo int
	pe     *edits.PageEdits
}

// New returns a controller for the given session.
func New(sess *session.Session, opt *Options) *Controller {
	o := Options{}
	if opt != nil {
		o = *opt
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.Color == "" {
		o.Color = DefaultColor
	}
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholder
	}
	if o.EraseWidth <= 0 {
		o.EraseWidth = DefaultEraseWidth
	}
	if o.EraseHeight <= 0 {
		o.EraseHeight = DefaultEraseHeight
	}
	if o.EraseOffsetX == 0 && o.EraseOffsetY == 0 {
		o.EraseOffsetX = DefaultEraseOffsetX
		o.EraseOffsetY = DefaultEraseOffsetY
	}
	if o.DragMargin <= 0 {
		o.DragMargin = DefaultDragMargin
	}

	return &Controller{
		sess:     sess,
		opt:      o,
		fontSize: o.FontSize,
		color:    o.Color,
	}
}

// Render rebuilds the overlay elements for the current page and returns
// them.  The result replaces the output of previous calls.
//
// An edit store entry for the current page is created if needed.  Without a
// document, the overlay is empty.
func (c *Controller) Render() []Element {
	c.drag = nil
	c.elements = c.elements[:0]
	c.pageNo = 0
	c.pe = nil

	pe, err := c.sess.CurrentEdits()
	if err != nil {
		return nil
	}
	c.pageNo = c.sess.PageNo()
	c.pe = pe

	for i, item := range pe.Texts {
		c.elements = append(c.elements, Element{
			ID:       ID{Kind: TextElement, Index: i},
			X:        item.X,
			Y:        item.Y,
			H:        item.FontSize,
			Text:     item.Text,
			FontSize: item.FontSize,
			Color:    item.Color,
		})
	}
	for i, item := range pe.Erases {
		c.elements = append(c.elements, Element{
			ID: ID{Kind: EraseElement, Index: i},
			X:  item.X,
			Y:  item.Y,
			W:  item.W,
			H:  item.H,
		})
	}
	return c.Elements()
}

// Elements returns a copy of the elements of the last rendering, including
// the positions of elements which are currently being dragged.
func (c *Controller) Elements() []Element {
	return append([]Element(nil), c.elements...)
}

// Element returns the element with the given ID.
func (c *Controller) Element(id ID) (Element, bool) {
	i := c.find(id)
	if i < 0 {
		return Element{}, false
	}
	return c.elements[i], true
}

func (c *Controller) find(id ID) int {
	for i := range c.elements {
		if c.elements[i].ID == id {
			return i
		}
	}
	return -1
}

// EraseMode reports whether clicks on the page create erase marks.
func (c *Controller) EraseMode() bool {
	return c.eraseMode
}

// FontSize returns the font size used for new text edits.
func (c *Controller) FontSize() float64 {
	return c.fontSize
}

// Color returns the color used for new text edits.
func (c *Controller) Color() string {
	return c.color
}

// Dragging reports whether a drag operation is in progress.
func (c *Controller) Dragging() bool {
	return c.drag != nil
}

// rendered returns the store entry the current elements belong to.  If the
// session has moved to another page or document since the last call to
// [Controller.Render], the elements are dropped and ErrNoElement is
// returned.
func (c *Controller) rendered() (*edits.PageEdits, error) {
	if !c.sess.Loaded() {
		return nil, session.ErrNoDocument
	}
	if c.pe != nil && c.sess.PageNo() == c.pageNo {
		pe, ok := c.sess.Edits().Lookup(c.pageNo)
		if ok && pe == c.pe {
			return pe, nil
		}
	}

	c.drag = nil
	c.elements = c.elements[:0]
	c.pe = nil
	return nil, fmt.Errorf("overlay is out of date: %w", ErrNoElement)
}

// guard checks that an action is available.
func (c *Controller) guard(enabled func(session.Controls) bool) error {
	if !c.sess.Loaded() {
		return session.ErrNoDocument
	}
	if c.sess.Busy() {
		return session.ErrBusy
	}
	if !enabled(c.sess.Controls()) {
		return errors.New("action not available")
	}
	return nil
}
