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

package shell

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/pdfedit/edits"
	"seehuhn.de/go/pdfedit/overlay"
	"seehuhn.de/go/pdfedit/preview"
	"seehuhn.de/go/pdfedit/session"
)

func usage(name string) error {
	for _, cmd := range commandList {
		if cmd.name == name {
			return fmt.Errorf("usage: %s %s", name, cmd.args)
		}
	}
	return fmt.Errorf("usage: %s", name)
}

// Open loads a PDF file and shows its first page.
func (s *Shell) Open(ctx context.Context, fname string) error {
	data, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	if err := s.sess.Load(ctx, data); err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	s.ctl.Render()
	s.log.Info("document loaded", "file", fname, "pages", s.sess.NumPages())
	fmt.Fprintf(s.out, "%s: %d pages\n", fname, s.sess.NumPages())
	return nil
}

// navigate runs a page or zoom change and renders the overlay of the
// resulting page.
func (s *Shell) navigate(ctx context.Context, step func(context.Context) error) error {
	if err := step(ctx); err != nil {
		return err
	}
	s.ctl.Render()
	vp, _ := s.sess.CurrentViewport()
	fmt.Fprintf(s.out, "page %d/%d, zoom %g, %dx%d pixels\n",
		s.sess.PageNo(), s.sess.NumPages(), s.sess.Zoom(), vp.Width, vp.Height)
	return nil
}

func (s *Shell) click(x, y float64) error {
	before := len(s.ctl.Elements())
	target, err := s.hit(x, y)
	if err != nil {
		return err
	}
	err = s.ctl.Dispatch(overlay.Click{X: x, Y: y, Target: target})
	if err != nil {
		return err
	}

	els := s.ctl.Elements()
	switch {
	case len(els) > before:
		fmt.Fprintf(s.out, "added %s\n", els[len(els)-1].ID)
	case target != nil:
		fmt.Fprintf(s.out, "hit %s\n", *target)
	}
	return nil
}

// hit returns the topmost element at pixel position (x, y), or nil.
func (s *Shell) hit(x, y float64) (*overlay.ID, error) {
	els := s.ctl.Elements()
	for i := len(els) - 1; i >= 0; i-- {
		el := els[i]
		w := el.W
		if el.ID.Kind == overlay.TextElement {
			var err error
			w, err = preview.TextWidth(el.Text, el.FontSize)
			if err != nil {
				return nil, err
			}
		}
		if x >= el.X && x < el.X+w && y >= el.Y && y < el.Y+el.H {
			return &el.ID, nil
		}
	}
	return nil, nil
}

// drag moves an element by a complete drag gesture, grabbing it at its
// top-left corner.
func (s *Shell) drag(id overlay.ID, x, y float64) error {
	err := s.ctl.Dispatch(overlay.PointerDown{Target: id})
	if err != nil {
		return err
	}
	err = s.ctl.Dispatch(overlay.PointerMove{X: x, Y: y})
	if err != nil {
		return err
	}
	err = s.ctl.Dispatch(overlay.PointerUp{})
	if err != nil {
		return err
	}
	if el, ok := s.ctl.Element(id); ok {
		fmt.Fprintf(s.out, "%s at (%g, %g)\n", id, el.X, el.Y)
	}
	return nil
}

func (s *Shell) listElements() {
	for _, el := range s.ctl.Elements() {
		switch el.ID.Kind {
		case overlay.TextElement:
			fmt.Fprintf(s.out, "%-4s text  (%g, %g) %gpx %s %q\n",
				el.ID, el.X, el.Y, el.FontSize, el.Color, el.Text)
		case overlay.EraseElement:
			fmt.Fprintf(s.out, "%-4s erase (%g, %g) %gx%g\n",
				el.ID, el.X, el.Y, el.W, el.H)
		}
	}
}

func (s *Shell) listPages() {
	pages := make(map[int]*edits.PageEdits)
	for pageNo, pe := range s.sess.Edits().All() {
		if !pe.IsEmpty() {
			pages[pageNo] = pe
		}
	}
	if len(pages) == 0 {
		fmt.Fprintln(s.out, "no edits")
		return
	}
	pageNos := maps.Keys(pages)
	slices.Sort(pageNos)
	for _, pageNo := range pageNos {
		pe := pages[pageNo]
		fmt.Fprintf(s.out, "page %d: %d text, %d erase\n",
			pageNo, len(pe.Texts), len(pe.Erases))
	}
}

func (s *Shell) listControls() {
	c := s.sess.Controls()
	var names []string
	add := func(ok bool, name string) {
		if ok {
			names = append(names, name)
		}
	}
	add(c.Prev, "prev")
	add(c.Next, "next")
	add(c.AddText, "text")
	add(c.Erase, "erase")
	add(c.Export, "export")
	add(c.ZoomIn, "zoom in")
	add(c.ZoomOut, "zoom out")
	if len(names) == 0 {
		fmt.Fprintln(s.out, "no actions available")
		return
	}
	fmt.Fprintln(s.out, strings.Join(names, ", "))
}

func (s *Shell) preview(fname string) error {
	canvas := s.sess.Canvas()
	if canvas == nil {
		return session.ErrNoDocument
	}
	img, err := preview.Compose(canvas, s.ctl.Elements())
	if err != nil {
		return err
	}

	fd, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = preview.WritePNG(fd, img)
	if err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

func (s *Shell) export(ctx context.Context, fname string) error {
	res, err := s.engine.Export(ctx, s.sess)
	if err != nil {
		return err
	}
	if fname == "" {
		fname = res.FileName
	}
	if err := res.WriteFile(fname); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "wrote %s (%d bytes)\n", fname, len(res.Data))
	return nil
}

func (s *Shell) help() {
	for _, cmd := range commandList {
		usage := strings.TrimSpace(cmd.name + " " + cmd.args)
		fmt.Fprintf(s.out, "  %-24s %s\n", usage, cmd.summary)
	}
}
