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

// Package pagelist flattens the page tree of a PDF file.
package pagelist

import (
	"errors"
	"fmt"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// Page is a leaf of the page tree.
type Page struct {
	// Ref is the reference of the page dictionary.
	Ref pdf.Reference

	// Dict is the page dictionary, with inherited attributes filled in.
	// The /Parent entry is removed.
	Dict pdf.Dict
}

// ErrInvalidPageTree is returned for page trees which contain no pages.
var ErrInvalidPageTree = errors.New("invalid page tree")

// List returns all pages of the document, in document order.
//
// Malformed parts of the page tree, including loops, are skipped.  Page
// dictionaries must be indirect objects with a /Type entry.
func List(r pdf.Getter) ([]Page, error) {
	var pages []Page
	it := pagetree.NewIterator(r)
	for ref, dict := range it.All() {
		pages = append(pages, Page{Ref: ref, Dict: dict})
	}
	if it.Err != nil {
		return nil, it.Err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages found: %w", ErrInvalidPageTree)
	}
	return pages, nil
}

// A4 is used for pages without a valid media box.
var A4 = rect.Rect{URx: 595, URy: 842}

// MediaBox returns the media box of a page in PDF points.
// If the page has no usable media box, an A4 page is assumed.
func MediaBox(r pdf.Getter, page pdf.Dict) rect.Rect {
	box, err := pdf.GetRectangle(r, page["MediaBox"])
	if err != nil || box == nil {
		return A4
	}
	res := rect.Rect{LLx: box.LLx, LLy: box.LLy, URx: box.URx, URy: box.URy}
	if res.Dx() <= 0 || res.Dy() <= 0 {
		return A4
	}
	return res
}
