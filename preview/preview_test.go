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

package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"testing"

	"seehuhn.de/go/pdfedit/overlay"
)

func blackCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.Black, image.Point{}, draw.Src)
	return img
}

func TestEraseMark(t *testing.T) {
	canvas := blackCanvas(200, 100)
	els := []overlay.Element{{
		ID: overlay.ID{Kind: overlay.EraseElement},
		X:  10, Y: 10, W: 70, H: 24,
	}}

	img, err := Compose(canvas, els)
	if err != nil {
		t.Fatal(err)
	}

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got := img.RGBAAt(40, 20); got != white {
		t.Errorf("inside of erase mark is %v", got)
	}
	if got := img.RGBAAt(10, 10); got == white || got.R == 0 {
		t.Errorf("no outline: %v", got)
	}
	if got := img.RGBAAt(100, 50); got.R != 0 {
		t.Errorf("pixel outside the mark changed to %v", got)
	}

	// the canvas itself is not modified
	if got := canvas.RGBAAt(40, 20); got.R != 0 {
		t.Error("canvas was modified")
	}
}

func TestText(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 200, 100))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	els := []overlay.Element{{
		ID:       overlay.ID{Kind: overlay.TextElement},
		X:        40,
		Y:        40,
		H:        20,
		Text:     "Edit me",
		FontSize: 20,
		Color:    "#ff0000",
	}}

	img, err := Compose(canvas, els)
	if err != nil {
		t.Fatal(err)
	}

	red, other := 0, 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			c := img.RGBAAt(x, y)
			if c.R == 255 && c.G == 255 && c.B == 255 {
				continue
			}
			if x >= 40 && x < 160 && y >= 40 && y < 66 && c.R > c.G {
				red++
			} else {
				other++
			}
		}
	}
	if red == 0 {
		t.Error("no text drawn")
	}
	if other > 0 {
		t.Errorf("%d pixels changed outside the text area", other)
	}

	els[0].Color = "red"
	if _, err := Compose(canvas, els); err == nil {
		t.Error("invalid color accepted")
	}
}

func TestTextWidth(t *testing.T) {
	short, err := TextWidth("Edit", 20)
	if err != nil {
		t.Fatal(err)
	}
	long, err := TextWidth("Edit me", 20)
	if err != nil {
		t.Fatal(err)
	}
	big, err := TextWidth("Edit me", 40)
	if err != nil {
		t.Fatal(err)
	}
	if !(short > 0 && short < long) {
		t.Errorf("widths %g, %g", short, long)
	}
	if math.Abs(big-2*long) > 1 {
		t.Errorf("width does not scale with the font size: %g vs %g", big, long)
	}
	if w, _ := TextWidth("", 20); w != 0 {
		t.Errorf("empty string has width %g", w)
	}
}

func TestWritePNG(t *testing.T) {
	img := blackCanvas(3, 2)
	buf := &bytes.Buffer{}
	err := WritePNG(buf, img)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("got bounds %v", decoded.Bounds())
	}
}
