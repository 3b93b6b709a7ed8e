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

// Package preview draws the overlay elements on top of a rendered page.
package preview

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"seehuhn.de/go/pdfedit/export"
	"seehuhn.de/go/pdfedit/overlay"
)

var outline = image.NewUniform(color.Gray{Y: 0x80})

var (
	goRegular     *opentype.Font
	goRegularErr  error
	goRegularOnce sync.Once
)

func regular() (*opentype.Font, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	return goRegular, goRegularErr
}

// Compose returns a copy of canvas with the elements drawn on top.
//
// Erase marks are shown as white boxes with a grey outline.  Text is drawn
// in the Go Regular font, with the baseline at the bottom edge of the
// element, which is where the exported file places it.
func Compose(canvas *image.RGBA, elements []overlay.Element) (*image.RGBA, error) {
	b := canvas.Bounds()
	img := image.NewRGBA(b)
	draw.Draw(img, b, canvas, b.Min, draw.Src)

	f, err := regular()
	if err != nil {
		return nil, err
	}
	faces := make(map[float64]font.Face)
	defer func() {
		for _, face := range faces {
			face.Close()
		}
	}()

	for _, el := range elements {
		switch el.ID.Kind {
		case overlay.EraseElement:
			r := pixelRect(el.X, el.Y, el.W, el.H).Add(b.Min)
			draw.Draw(img, r, image.White, image.Point{}, draw.Src)
			strokeRect(img, r)

		case overlay.TextElement:
			if el.FontSize <= 0 || el.Text == "" {
				continue
			}
			col, err := export.ParseColor(el.Color)
			if err != nil {
				return nil, err
			}
			face, ok := faces[el.FontSize]
			if !ok {
				face, err = opentype.NewFace(f, &opentype.FaceOptions{
					Size:    el.FontSize,
					DPI:     72,
					Hinting: font.HintingNone,
				})
				if err != nil {
					return nil, err
				}
				faces[el.FontSize] = face
			}

			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(toNRGBA(col)),
				Face: face,
				Dot: fixed.Point26_6{
					X: fixed.Int26_6(math.Round((el.X + float64(b.Min.X)) * 64)),
					Y: fixed.Int26_6(math.Round((el.Y + el.FontSize + float64(b.Min.Y)) * 64)),
				},
			}
			d.DrawString(el.Text)
		}
	}
	return img, nil
}

// TextWidth returns the width in pixels of text, as drawn by [Compose] at
// the given font size.
func TextWidth(text string, size float64) (float64, error) {
	if size <= 0 || text == "" {
		return 0, nil
	}
	f, err := regular()
	if err != nil {
		return 0, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return 0, err
	}
	defer face.Close()
	return float64(font.MeasureString(face, text)) / 64, nil
}

func pixelRect(x, y, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)))
}

func strokeRect(img draw.Image, r image.Rectangle) {
	if r.Empty() {
		return
	}
	lines := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, line := range lines {
		draw.Draw(img, line, outline, image.Point{}, draw.Src)
	}
}

func toNRGBA(c export.RGB) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: 0xFF,
	}
}

// WritePNG encodes an image in PNG format.
func WritePNG(w io.Writer, img image.Image) error {
	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}
