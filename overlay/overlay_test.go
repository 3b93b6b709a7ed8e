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

package overlay

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfedit/edits"
	"seehuhn.de/go/pdfedit/export"
	"seehuhn.de/go/pdfedit/internal/mock"
	"seehuhn.de/go/pdfedit/session"
)

func newController(t *testing.T, numPages int) (*Controller, *session.Session) {
	t.Helper()
	s := session.New(mock.NewRasterizer(numPages), nil)
	err := s.Load(context.Background(), []byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	c := New(s, nil)
	c.Render()
	return c, s
}

func mustDispatch(t *testing.T, c *Controller, cmd Command) {
	t.Helper()
	err := c.Dispatch(cmd)
	if err != nil {
		t.Fatalf("%T: %v", cmd, err)
	}
}

func TestRenderCreatesEntry(t *testing.T) {
	s := session.New(mock.NewRasterizer(2), nil)
	c := New(s, nil)
	if els := c.Render(); len(els) != 0 {
		t.Errorf("elements without document: %v", els)
	}

	err := s.Load(context.Background(), []byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Edits().Lookup(1); ok {
		t.Fatal("entry exists before rendering")
	}
	c.Render()
	if _, ok := s.Edits().Lookup(1); !ok {
		t.Error("rendering did not create an entry")
	}
}

func TestAddText(t *testing.T) {
	c, s := newController(t, 1)

	mustDispatch(t, c, AddText{})

	pe, _ := s.Edits().Lookup(1)
	want := []edits.TextEdit{{X: 40, Y: 40, Text: "Edit me", FontSize: 20, Color: "#000000"}}
	if d := cmp.Diff(want, pe.Texts); d != "" {
		t.Errorf("texts (-want +got):\n%s", d)
	}

	els := c.Elements()
	if len(els) != 1 || els[0].ID != (ID{Kind: TextElement, Index: 0}) {
		t.Fatalf("unexpected elements %v", els)
	}
	if els[0].Text != "Edit me" || els[0].H != 20 {
		t.Errorf("unexpected element %v", els[0])
	}
}

func TestAddTextStyle(t *testing.T) {
	c, s := newController(t, 1)

	mustDispatch(t, c, SetFontSize{Size: 32})
	mustDispatch(t, c, SetColor{Color: "#ff0000"})
	mustDispatch(t, c, AddText{})
	mustDispatch(t, c, SetFontSize{Size: 0})
	mustDispatch(t, c, AddText{})

	pe, _ := s.Edits().Lookup(1)
	if len(pe.Texts) != 2 {
		t.Fatalf("got %d texts", len(pe.Texts))
	}
	if pe.Texts[0].FontSize != 32 || pe.Texts[0].Color != "#ff0000" {
		t.Errorf("first text: %v", pe.Texts[0])
	}
	if pe.Texts[1].FontSize != 20 {
		t.Errorf("empty size did not select the default: %v", pe.Texts[1])
	}

	err := c.Dispatch(SetColor{Color: "red"})
	var colErr *export.ColorError
	if !errors.As(err, &colErr) {
		t.Errorf("got %v, want ColorError", err)
	}
	if c.Color() != "#ff0000" {
		t.Errorf("invalid color was accepted: %s", c.Color())
	}
}

func TestErase(t *testing.T) {
	c, s := newController(t, 1)

	// clicks outside erase mode are ignored
	mustDispatch(t, c, Click{X: 100, Y: 60})
	mustDispatch(t, c, ToggleErase{})
	if !c.EraseMode() {
		t.Fatal("erase mode not enabled")
	}
	mustDispatch(t, c, Click{X: 100, Y: 60})

	pe, _ := s.Edits().Lookup(1)
	want := []edits.EraseMark{{X: 80, Y: 48, W: 70, H: 24}}
	if d := cmp.Diff(want, pe.Erases); d != "" {
		t.Errorf("erases (-want +got):\n%s", d)
	}

	// clicks on an existing element do not add marks
	id := ID{Kind: EraseElement, Index: 0}
	mustDispatch(t, c, Click{X: 90, Y: 50, Target: &id})
	if len(pe.Erases) != 1 {
		t.Errorf("got %d erase marks, want 1", len(pe.Erases))
	}

	mustDispatch(t, c, ToggleErase{})
	mustDispatch(t, c, Click{X: 300, Y: 300})
	if len(pe.Erases) != 1 {
		t.Errorf("click after leaving erase mode added a mark")
	}
}

func TestDrag(t *testing.T) {
	c, s := newController(t, 1)
	mustDispatch(t, c, AddText{})
	id := ID{Kind: TextElement, Index: 0}

	mustDispatch(t, c, PointerDown{Target: id, OffsetX: 5, OffsetY: 5})
	if !c.Dragging() {
		t.Fatal("drag not started")
	}
	mustDispatch(t, c, PointerMove{X: 105, Y: 205})

	el, _ := c.Element(id)
	if el.X != 100 || el.Y != 200 {
		t.Errorf("element at (%g, %g), want (100, 200)", el.X, el.Y)
	}
	pe, _ := s.Edits().Lookup(1)
	if pe.Texts[0].X != 40 || pe.Texts[0].Y != 40 {
		t.Error("store changed before pointer was released")
	}

	// A4 at 1.4 gives a 833x1178 viewport
	mustDispatch(t, c, PointerMove{X: 2000, Y: -50})
	mustDispatch(t, c, PointerUp{})
	if c.Dragging() {
		t.Error("drag not finished")
	}
	if pe.Texts[0].X != 813 || pe.Texts[0].Y != 0 {
		t.Errorf("stored position (%g, %g), want (813, 0)", pe.Texts[0].X, pe.Texts[0].Y)
	}

	// moving without a drag does nothing
	mustDispatch(t, c, PointerMove{X: 10, Y: 10})
	el, _ = c.Element(id)
	if el.X != 813 {
		t.Errorf("element moved without drag")
	}
}

func TestDragErase(t *testing.T) {
	c, s := newController(t, 1)
	mustDispatch(t, c, ToggleErase{})
	mustDispatch(t, c, Click{X: 100, Y: 60})

	mustDispatch(t, c, PointerDown{Target: ID{Kind: EraseElement, Index: 0}})
	mustDispatch(t, c, PointerMove{X: 300, Y: 300})
	mustDispatch(t, c, PointerUp{})

	pe, _ := s.Edits().Lookup(1)
	if pe.Erases[0].X != 80 || pe.Erases[0].Y != 48 {
		t.Errorf("erase mark moved to (%g, %g)", pe.Erases[0].X, pe.Erases[0].Y)
	}

	err := c.Dispatch(PointerDown{Target: ID{Kind: TextElement, Index: 3}})
	if !errors.Is(err, ErrNoElement) {
		t.Errorf("got %v, want ErrNoElement", err)
	}
}

func TestZoomKeepsPositions(t *testing.T) {
	ctx := context.Background()
	c, s := newController(t, 1)
	mustDispatch(t, c, AddText{})
	mustDispatch(t, c, ToggleErase{})
	mustDispatch(t, c, Click{X: 100, Y: 60})
	before := c.Elements()

	err := s.ZoomIn(ctx)
	if err != nil {
		t.Fatal(err)
	}
	after := c.Render()
	if d := cmp.Diff(before, after); d != "" {
		t.Errorf("elements changed by zoom (-before +after):\n%s", d)
	}
}

func TestEditText(t *testing.T) {
	c, s := newController(t, 1)
	mustDispatch(t, c, AddText{})
	id := ID{Kind: TextElement, Index: 0}

	mustDispatch(t, c, EditText{Target: id, Text: "Hello"})

	pe, _ := s.Edits().Lookup(1)
	if pe.Texts[0].Text != "Hello" || pe.Texts[0].Color != "#000000" {
		t.Errorf("stored text %v", pe.Texts[0])
	}
	el, _ := c.Element(id)
	if el.Text != "Hello" {
		t.Errorf("element text %q", el.Text)
	}

	err := c.Dispatch(EditText{Target: ID{Kind: EraseElement, Index: 0}, Text: "x"})
	if err == nil {
		t.Error("editing an erase mark succeeded")
	}
}

func TestRestyle(t *testing.T) {
	c, s := newController(t, 1)
	mustDispatch(t, c, AddText{})
	id := ID{Kind: TextElement, Index: 0}

	mustDispatch(t, c, Restyle{Target: id, FontSize: 14})
	mustDispatch(t, c, Restyle{Target: id, Color: "#00ff00"})

	pe, _ := s.Edits().Lookup(1)
	want := edits.TextEdit{X: 40, Y: 40, Text: "Edit me", FontSize: 14, Color: "#00ff00"}
	if d := cmp.Diff(want, pe.Texts[0]); d != "" {
		t.Errorf("restyled text (-want +got):\n%s", d)
	}

	if err := c.Dispatch(Restyle{Target: id, FontSize: -1}); err == nil {
		t.Error("negative font size accepted")
	}
	if err := c.Dispatch(Restyle{Target: id, Color: "#zzzzzz"}); err == nil {
		t.Error("invalid color accepted")
	}
}

func TestPageSwitch(t *testing.T) {
	ctx := context.Background()
	c, s := newController(t, 2)
	mustDispatch(t, c, AddText{})

	err := s.NextPage(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if els := c.Render(); len(els) != 0 {
		t.Errorf("page 2 shows elements of page 1: %v", els)
	}
	mustDispatch(t, c, AddText{})
	mustDispatch(t, c, AddText{})

	err = s.PrevPage(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if els := c.Render(); len(els) != 1 {
		t.Errorf("page 1 has %d elements, want 1", len(els))
	}
}

// TestStaleElements checks that elements rendered for one page cannot
// modify the edits of another page.
func TestStaleElements(t *testing.T) {
	ctx := context.Background()
	c, s := newController(t, 2)

	if err := s.NextPage(ctx); err != nil {
		t.Fatal(err)
	}
	c.Render()
	mustDispatch(t, c, AddText{})
	if err := s.PrevPage(ctx); err != nil {
		t.Fatal(err)
	}
	c.Render()
	mustDispatch(t, c, AddText{})

	t0 := ID{Kind: TextElement, Index: 0}
	mustDispatch(t, c, PointerDown{Target: t0})
	mustDispatch(t, c, PointerMove{X: 300, Y: 300})
	if err := s.NextPage(ctx); err != nil {
		t.Fatal(err)
	}
	err := c.Dispatch(PointerUp{})
	if !errors.Is(err, ErrNoElement) {
		t.Errorf("PointerUp after page change: got %v, want ErrNoElement", err)
	}
	if c.Dragging() {
		t.Error("drag still in progress")
	}

	err = c.Dispatch(EditText{Target: t0, Text: "x"})
	if !errors.Is(err, ErrNoElement) {
		t.Errorf("EditText after page change: got %v, want ErrNoElement", err)
	}
	err = c.Dispatch(Restyle{Target: t0, FontSize: 30})
	if !errors.Is(err, ErrNoElement) {
		t.Errorf("Restyle after page change: got %v, want ErrNoElement", err)
	}

	want := edits.TextEdit{X: 40, Y: 40, Text: "Edit me", FontSize: 20, Color: "#000000"}
	for pageNo := 1; pageNo <= 2; pageNo++ {
		pe, ok := s.Edits().Lookup(pageNo)
		if !ok || len(pe.Texts) != 1 {
			t.Fatalf("page %d: unexpected edits %v", pageNo, pe)
		}
		if d := cmp.Diff(want, pe.Texts[0]); d != "" {
			t.Errorf("page %d modified (-want +got):\n%s", pageNo, d)
		}
	}

	// after rendering, the elements of the new page can be used
	c.Render()
	mustDispatch(t, c, EditText{Target: t0, Text: "page two"})
	pe, _ := s.Edits().Lookup(2)
	if pe.Texts[0].Text != "page two" {
		t.Errorf("page 2 text is %q", pe.Texts[0].Text)
	}

	// a new document invalidates the elements, even on the same page
	if err := s.PrevPage(ctx); err != nil {
		t.Fatal(err)
	}
	c.Render()
	if err := s.Load(ctx, []byte("data")); err != nil {
		t.Fatal(err)
	}
	s.Edits().GetOrCreate(1).Texts = []edits.TextEdit{want}
	err = c.Dispatch(EditText{Target: t0, Text: "x"})
	if !errors.Is(err, ErrNoElement) {
		t.Errorf("EditText after reload: got %v, want ErrNoElement", err)
	}
}

func TestGuards(t *testing.T) {
	s := session.New(mock.NewRasterizer(1), nil)
	c := New(s, nil)

	for _, cmd := range []Command{AddText{}, ToggleErase{}} {
		err := c.Dispatch(cmd)
		if !errors.Is(err, session.ErrNoDocument) {
			t.Errorf("%T: got %v, want ErrNoDocument", cmd, err)
		}
	}

	err := s.Load(context.Background(), []byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	done, err := s.Begin()
	if err != nil {
		t.Fatal(err)
	}
	err = c.Dispatch(AddText{})
	if !errors.Is(err, session.ErrBusy) {
		t.Errorf("got %v, want ErrBusy", err)
	}
	done()
}

func TestParseID(t *testing.T) {
	for _, id := range []ID{{TextElement, 0}, {TextElement, 12}, {EraseElement, 3}} {
		got, err := ParseID(id.String())
		if err != nil {
			t.Errorf("%s: %v", id, err)
			continue
		}
		if got != id {
			t.Errorf("%s: got %v", id, got)
		}
	}
	for _, s := range []string{"", "t", "x1", "t-1", "e1a"} {
		if _, err := ParseID(s); err == nil {
			t.Errorf("%q: no error", s)
		}
	}
}
