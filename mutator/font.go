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
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
	"seehuhn.de/go/pdf"

	"seehuhn.de/go/pdfedit/export"
)

// latinFonts are the standard fonts which can be used with WinAnsiEncoding.
// Symbol and ZapfDingbats use their own built-in encodings and are not
// supported.
var latinFonts = map[string]bool{
	"Courier":               true,
	"Courier-Bold":          true,
	"Courier-BoldOblique":   true,
	"Courier-Oblique":       true,
	"Helvetica":             true,
	"Helvetica-Bold":        true,
	"Helvetica-BoldOblique": true,
	"Helvetica-Oblique":     true,
	"Times-Bold":            true,
	"Times-BoldItalic":      true,
	"Times-Italic":          true,
	"Times-Roman":           true,
}

// IsSupportedFont reports whether name can be used for text edits.
func IsSupportedFont(name string) bool {
	return latinFonts[name]
}

// stdFont is one of the standard 14 fonts.  The font dictionary is only
// written when the document is saved.
type stdFont struct {
	base string
}

func (f *stdFont) PostScriptName() string {
	return f.base
}

func (f *stdFont) dict() pdf.Dict {
	return pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name(f.base),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
}

// EmbedStandardFont makes a standard font available for [Document.DrawText].
// This implements the [export.Document] interface.
func (d *Document) EmbedStandardFont(name string) (export.Font, error) {
	if !latinFonts[name] {
		return nil, fmt.Errorf("unsupported font %q", name)
	}
	F, ok := d.fonts[name]
	if !ok {
		F = &stdFont{base: name}
		d.fonts[name] = F
	}
	return F, nil
}

// resourceName returns the name under which F is listed in the font
// resources of the given page.  New names are chosen so that they do not
// collide with fonts already used by the page.
func (d *Document) resourceName(pageNo int, F *stdFont) (pdf.Name, error) {
	names := d.fontNames[pageNo]
	if name, ok := names[F]; ok {
		return name, nil
	}

	existing, err := d.pageFonts(pageNo)
	if err != nil {
		return "", err
	}
	taken := make(map[pdf.Name]bool, len(existing)+len(names))
	for name := range existing {
		taken[name] = true
	}
	for _, name := range names {
		taken[name] = true
	}

	var name pdf.Name
	for i := 1; ; i++ {
		name = pdf.Name("E" + strconv.Itoa(i))
		if !taken[name] {
			break
		}
	}

	if names == nil {
		names = make(map[*stdFont]pdf.Name)
		d.fontNames[pageNo] = names
	}
	names[F] = name
	return name, nil
}

// pageFonts returns the font resource dictionary of a page, or nil.
func (d *Document) pageFonts(pageNo int) (pdf.Dict, error) {
	p, err := d.page(pageNo)
	if err != nil {
		return nil, err
	}
	res, err := pdf.GetDict(d.r, p.Dict["Resources"])
	if err != nil {
		return nil, err
	}
	return pdf.GetDict(d.r, res["Font"])
}

// EncodingError is returned for text which cannot be represented in
// WinAnsiEncoding.
type EncodingError struct {
	Text string
	Rune rune
}

func (err *EncodingError) Error() string {
	return fmt.Sprintf("character %q in %q cannot be shown with a standard font", err.Rune, err.Text)
}

// encodeWinAnsi converts a string to WinAnsiEncoding.
func encodeWinAnsi(s string) ([]byte, error) {
	s = norm.NFC.String(s)
	res := make([]byte, 0, len(s))
	for _, r := range s {
		if r == utf8.RuneError {
			return nil, &EncodingError{Text: s, Rune: r}
		}
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			return nil, &EncodingError{Text: s, Rune: r}
		}
		res = append(res, c)
	}
	return res, nil
}
