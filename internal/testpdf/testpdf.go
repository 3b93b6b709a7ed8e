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

// Package testpdf generates small PDF files for use in tests.
package testpdf

import (
	"bytes"
	"io"
	"testing"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf"
)

// Page describes one page of a test document.
type Page struct {
	// MediaBox is the page size.  If this is zero, the media box is
	// inherited from the root of the page tree, which is A4.
	MediaBox rect.Rect

	// Contents lists the content streams of the page.  If there is
	// exactly one stream, Contents is written as a single reference.
	Contents []string

	// Resources, if set, is used as the resource dictionary of the page.
	Resources pdf.Dict
}

// Options set document-level properties.
type Options struct {
	Version pdf.Version

	// Compress selects whether content streams are flate-compressed.
	Compress bool
}

// Build writes a PDF file with the given pages.
func Build(opt *Options, pages ...Page) ([]byte, error) {
	o := Options{Version: pdf.V1_7}
	if opt != nil {
		o = *opt
		if o.Version == 0 {
			o.Version = pdf.V1_7
		}
	}

	buf := &bytes.Buffer{}
	w, err := pdf.NewWriter(buf, o.Version, nil)
	if err != nil {
		return nil, err
	}

	var filters []pdf.Filter
	if o.Compress {
		filters = append(filters, pdf.FilterFlate{})
	}

	pagesRef := w.Alloc()
	var kids pdf.Array
	for _, p := range pages {
		var contents pdf.Array
		for _, body := range p.Contents {
			ref, err := addStream(w, body, filters...)
			if err != nil {
				return nil, err
			}
			contents = append(contents, ref)
		}

		dict := pdf.Dict{
			"Type":   pdf.Name("Page"),
			"Parent": pagesRef,
		}
		if p.MediaBox != (rect.Rect{}) {
			dict["MediaBox"] = boxArray(p.MediaBox)
		}
		switch len(contents) {
		case 0:
		case 1:
			dict["Contents"] = contents[0]
		default:
			dict["Contents"] = contents
		}
		if p.Resources != nil {
			dict["Resources"] = p.Resources
		}

		pageRef := w.Alloc()
		err := w.Put(pageRef, dict)
		if err != nil {
			return nil, err
		}
		kids = append(kids, pageRef)
	}

	pagesDict := pdf.Dict{
		"Type":      pdf.Name("Pages"),
		"Kids":      kids,
		"Count":     pdf.Integer(len(kids)),
		"MediaBox":  boxArray(rect.Rect{URx: 595, URy: 842}),
		"Resources": pdf.Dict{},
	}
	err = w.Put(pagesRef, pagesDict)
	if err != nil {
		return nil, err
	}

	w.GetMeta().Catalog.Pages = pagesRef

	err = w.Close()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustBuild is like [Build], but fails the test on error.
func MustBuild(t testing.TB, opt *Options, pages ...Page) []byte {
	t.Helper()
	data, err := Build(opt, pages...)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func addStream(w *pdf.Writer, body string, ff ...pdf.Filter) (pdf.Reference, error) {
	ref := w.Alloc()
	stm, err := w.OpenStream(ref, nil, ff...)
	if err != nil {
		return ref, err
	}
	_, err = stm.Write([]byte(body))
	if err != nil {
		return ref, err
	}
	return ref, stm.Close()
}

func boxArray(r rect.Rect) pdf.Array {
	return pdf.Array{pdf.Number(r.LLx), pdf.Number(r.LLy), pdf.Number(r.URx), pdf.Number(r.URy)}
}

// ReadContents returns the concatenated, decoded content streams of a page
// dictionary.
func ReadContents(r pdf.Getter, page pdf.Dict) ([]byte, error) {
	obj, err := pdf.Resolve(r, page["Contents"])
	if err != nil {
		return nil, err
	}
	var refs pdf.Array
	switch obj := obj.(type) {
	case pdf.Array:
		refs = obj
	case nil:
	default:
		refs = pdf.Array{page["Contents"]}
	}

	var res []byte
	for _, ref := range refs {
		body, err := pdf.GetStreamReader(r, ref)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(body)
		body.Close()
		if err != nil {
			return nil, err
		}
		res = append(res, data...)
	}
	return res, nil
}
