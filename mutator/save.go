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

package mutator

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/exp/maps"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pdfcopy"
)

// Save writes the modified document.
// This implements the [export.Document] interface.
func (d *Document) Save(ctx context.Context) ([]byte, error) {
	buf := &bytes.Buffer{}
	wopt := &pdf.WriterOptions{
		HumanReadable: !d.opt.Compress,
	}
	w, err := pdf.NewWriter(buf, pdf.GetVersion(d.r), wopt)
	if err != nil {
		return nil, err
	}
	copier := pdfcopy.NewCopier(w, d.r)

	// Modified pages are written by hand.  All references to the original
	// page dictionaries are redirected to the new objects, so that the
	// page tree below refers to the modified pages.
	newRefs := make(map[int]pdf.Reference, len(d.order))
	for _, pageNo := range d.order {
		p := &d.pages[pageNo-1]
		newRef := w.Alloc()
		copier.Redirect(p.Ref, newRef)
		newRefs[pageNo] = newRef
	}

	fontRefs := make(map[*stdFont]pdf.Reference)
	for _, pageNo := range d.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := d.writePage(w, copier, pageNo, newRefs[pageNo], fontRefs)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNo, err)
		}
	}

	meta := d.r.GetMeta()
	newCatalog, err := pdfcopy.CopyStruct(copier, meta.Catalog)
	if err != nil {
		return nil, err
	}
	w.GetMeta().Catalog = newCatalog
	if meta.Info != nil {
		newInfo, err := pdfcopy.CopyStruct(copier, meta.Info)
		if err != nil {
			return nil, err
		}
		w.GetMeta().Info = newInfo
	}
	w.GetMeta().ID = meta.ID

	if d.opt.Metadata {
		err := d.updateMetadata(w)
		if err != nil {
			return nil, err
		}
	}

	err = w.Close()
	if err != nil {
		return nil, err
	}

	d.log.Debug("document written",
		"bytes", buf.Len(), "pages", len(d.pages), "modified", len(d.order))
	return buf.Bytes(), nil
}

// writePage writes the modified version of a page dictionary.
func (d *Document) writePage(w *pdf.Writer, copier *pdfcopy.Copier, pageNo int, newRef pdf.Reference, fontRefs map[*stdFont]pdf.Reference) error {
	p := &d.pages[pageNo-1]

	orig := maps.Clone(p.Dict)

	// The page list drops /Parent, which the copy needs to stay
	// part of the page tree.
	raw, err := pdf.GetDict(d.r, p.Ref)
	if err != nil {
		return err
	}
	if parent, ok := raw["Parent"]; ok {
		orig["Parent"] = parent
	}

	contents := orig["Contents"]
	resources := orig["Resources"]
	delete(orig, "Contents")
	delete(orig, "Resources")

	newDict, err := copier.CopyDict(orig)
	if err != nil {
		return err
	}

	newRes, err := d.copyResources(w, copier, pageNo, resources, fontRefs)
	if err != nil {
		return err
	}
	newDict["Resources"] = newRes

	parts, err := d.contentParts(contents)
	if err != nil {
		return err
	}
	var newContents pdf.Array
	if len(parts) > 0 {
		ref, err := d.writeStream(w, []byte("q\n"))
		if err != nil {
			return err
		}
		newContents = append(newContents, ref)
		for _, part := range parts {
			ref, err := copier.CopyReference(part)
			if err != nil {
				return err
			}
			newContents = append(newContents, ref)
		}
		ops := append([]byte("Q\n"), d.ops[pageNo].Bytes()...)
		ref, err = d.writeStream(w, ops)
		if err != nil {
			return err
		}
		newContents = append(newContents, ref)
	} else {
		ref, err := d.writeStream(w, d.ops[pageNo].Bytes())
		if err != nil {
			return err
		}
		newContents = append(newContents, ref)
	}
	newDict["Contents"] = newContents

	return w.Put(newRef, newDict)
}

// copyResources copies the resource dictionary of a page and adds the fonts
// used by new text.
func (d *Document) copyResources(w *pdf.Writer, copier *pdfcopy.Copier, pageNo int, obj pdf.Object, fontRefs map[*stdFont]pdf.Reference) (pdf.Dict, error) {
	res, err := pdf.GetDict(d.r, obj)
	if err != nil {
		return nil, err
	}
	res = maps.Clone(res)
	if res == nil {
		res = pdf.Dict{}
	}
	fonts, err := pdf.GetDict(d.r, res["Font"])
	if err != nil {
		return nil, err
	}
	delete(res, "Font")

	newRes, err := copier.CopyDict(res)
	if err != nil {
		return nil, err
	}

	names := d.fontNames[pageNo]
	if len(fonts) == 0 && len(names) == 0 {
		return newRes, nil
	}

	newFonts, err := copier.CopyDict(fonts)
	if err != nil {
		return nil, err
	}
	if newFonts == nil {
		newFonts = pdf.Dict{}
	}
	for F, name := range names {
		ref, ok := fontRefs[F]
		if !ok {
			ref = w.Alloc()
			err := w.Put(ref, F.dict())
			if err != nil {
				return nil, err
			}
			fontRefs[F] = ref
		}
		newFonts[name] = ref
	}
	newRes["Font"] = newFonts
	return newRes, nil
}

// contentParts returns the references to the content streams of a page.
func (d *Document) contentParts(obj pdf.Object) ([]pdf.Reference, error) {
	if obj == nil {
		return nil, nil
	}
	if ref, ok := obj.(pdf.Reference); ok {
		resolved, err := pdf.Resolve(d.r, ref)
		if err != nil {
			return nil, err
		}
		if _, isArray := resolved.(pdf.Array); !isArray {
			return []pdf.Reference{ref}, nil
		}
	}

	a, err := pdf.GetArray(d.r, obj)
	if err != nil {
		return nil, err
	}
	res := make([]pdf.Reference, 0, len(a))
	for _, elem := range a {
		ref, ok := elem.(pdf.Reference)
		if !ok {
			return nil, fmt.Errorf("malformed content stream array")
		}
		res = append(res, ref)
	}
	return res, nil
}

func (d *Document) writeStream(w *pdf.Writer, body []byte) (pdf.Reference, error) {
	var filters []pdf.Filter
	if d.opt.Compress {
		filters = append(filters, pdf.FilterFlate{})
	}

	ref := w.Alloc()
	stm, err := w.OpenStream(ref, nil, filters...)
	if err != nil {
		return ref, err
	}
	_, err = stm.Write(body)
	if err != nil {
		return ref, err
	}
	return ref, stm.Close()
}

// format formats a number for use in a content stream.
func format(x float64) string {
	x = math.Round(x*1e4) / 1e4
	if x == 0 {
		// avoid "-0"
		x = 0
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
