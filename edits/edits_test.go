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

package edits

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetOrCreate(t *testing.T) {
	s := NewStore()

	if _, ok := s.Lookup(3); ok {
		t.Fatal("new store has an entry for page 3")
	}

	p := s.GetOrCreate(3)
	if p == nil || !p.IsEmpty() {
		t.Fatalf("expected empty entry, got %v", p)
	}
	if p.Texts == nil || p.Erases == nil {
		t.Error("new entry has nil slices")
	}

	p.Texts = append(p.Texts, TextEdit{X: 1, Y: 2, Text: "x", FontSize: 10, Color: "#000000"})
	q := s.GetOrCreate(3)
	if q != p {
		t.Error("second access returned a different entry")
	}
	if len(q.Texts) != 1 {
		t.Errorf("expected 1 text edit, got %d", len(q.Texts))
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
}

func TestLookupDoesNotInsert(t *testing.T) {
	s := NewStore()
	for pageNo := 1; pageNo <= 5; pageNo++ {
		s.Lookup(pageNo)
	}
	if s.Len() != 0 {
		t.Errorf("Lookup inserted %d entries", s.Len())
	}
}

func TestOrder(t *testing.T) {
	s := NewStore()
	for _, pageNo := range []int{4, 1, 7, 1, 4, 2} {
		s.GetOrCreate(pageNo)
	}

	var got []int
	for pageNo := range s.All() {
		got = append(got, pageNo)
	}
	want := []int{4, 1, 7, 2}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("iteration order (-want +got):\n%s", d)
	}

	// early exit
	count := 0
	for range s.All() {
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected 1 iteration, got %d", count)
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.GetOrCreate(1).Erases = append(s.GetOrCreate(1).Erases, EraseMark{X: 1, Y: 2, W: 3, H: 4})
	s.GetOrCreate(2)
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
	if _, ok := s.Lookup(1); ok {
		t.Error("entry for page 1 survived Clear")
	}

	p := s.GetOrCreate(1)
	if !p.IsEmpty() {
		t.Error("entry for page 1 is not empty after Clear")
	}
	var got []int
	for pageNo := range s.All() {
		got = append(got, pageNo)
	}
	if d := cmp.Diff([]int{1}, got); d != "" {
		t.Errorf("iteration after Clear (-want +got):\n%s", d)
	}
}

func TestClone(t *testing.T) {
	p := &PageEdits{
		Texts:  []TextEdit{{X: 40, Y: 40, Text: "Edit me", FontSize: 20, Color: "#000000"}},
		Erases: []EraseMark{{X: 80, Y: 48, W: 70, H: 24}},
	}
	q := p.Clone()
	if d := cmp.Diff(p, q); d != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", d)
	}

	q.Texts[0].Text = "changed"
	q.Erases[0].X = 0
	if p.Texts[0].Text != "Edit me" || p.Erases[0].X != 80 {
		t.Error("modifying the clone changed the original")
	}
}
