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

// Package edits holds the pending annotations of a document.
//
// All coordinates in this package are viewport pixels: the origin is the
// top-left corner of the rendered page and y increases downwards.  The
// coordinates of an edit refer to the zoom level which was active when the
// edit was placed or last moved.  Changing the zoom level later does not
// rescale stored coordinates.
package edits

import "iter"

// TextEdit is a text string placed on a page.
type TextEdit struct {
	// X and Y give the top-left corner of the text box.
	X, Y float64

	Text string

	// FontSize is the font size in pixels.  This is always positive.
	FontSize float64

	// Color is an RGB color in the form "#RRGGBB".
	Color string
}

// EraseMark is a rectangular region which is painted over in the exported
// file.
type EraseMark struct {
	X, Y, W, H float64
}

// PageEdits is the complete set of pending annotations for one page.
type PageEdits struct {
	Texts  []TextEdit
	Erases []EraseMark
}

// IsEmpty reports whether the page has no annotations.
func (p *PageEdits) IsEmpty() bool {
	return len(p.Texts) == 0 && len(p.Erases) == 0
}

// Clone returns a deep copy of p.
func (p *PageEdits) Clone() *PageEdits {
	res := &PageEdits{}
	if p.Texts != nil {
		res.Texts = append([]TextEdit{}, p.Texts...)
	}
	if p.Erases != nil {
		res.Erases = append([]EraseMark{}, p.Erases...)
	}
	return res
}

// Store maps page numbers to the annotations of the corresponding page.
//
// Entries are created on first access and are kept until Clear is called.
// Iteration visits the pages in the order of their first access.
//
// A Store is not safe for concurrent use.
type Store struct {
	pages map[int]*PageEdits
	order []int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		pages: make(map[int]*PageEdits),
	}
}

// GetOrCreate returns the annotations for the given page, creating an empty
// entry if needed.
//
// The page number is not checked against the number of pages in the
// document; this is the responsibility of the caller.
func (s *Store) GetOrCreate(pageNo int) *PageEdits {
	if p, ok := s.pages[pageNo]; ok {
		return p
	}
	p := &PageEdits{
		Texts:  []TextEdit{},
		Erases: []EraseMark{},
	}
	s.pages[pageNo] = p
	s.order = append(s.order, pageNo)
	return p
}

// Lookup returns the annotations for the given page, if an entry exists.
// Unlike GetOrCreate, this never inserts a new entry.
func (s *Store) Lookup(pageNo int) (*PageEdits, bool) {
	p, ok := s.pages[pageNo]
	return p, ok
}

// Clear removes all entries.
func (s *Store) Clear() {
	clear(s.pages)
	s.order = s.order[:0]
}

// Len returns the number of pages which have an entry.
func (s *Store) Len() int {
	return len(s.order)
}

// All iterates over the entries in insertion order.
func (s *Store) All() iter.Seq2[int, *PageEdits] {
	return func(yield func(int, *PageEdits) bool) {
		for _, pageNo := range s.order {
			if !yield(pageNo, s.pages[pageNo]) {
				return
			}
		}
	}
}
