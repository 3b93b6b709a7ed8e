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
	"fmt"
	"math"

	"seehuhn.de/go/pdfedit/edits"
	"seehuhn.de/go/pdfedit/export"
	"seehuhn.de/go/pdfedit/session"
)

// Command is a user action which can be passed to [Controller.Dispatch].
type Command interface {
	isCommand()
}

// AddText adds a new text edit with the current font size and color at a
// fixed position.
type AddText struct{}

// ToggleErase switches erase mode on or off.
type ToggleErase struct{}

// Click is a click on the overlay at pixel position (X, Y).
// Target is the element under the pointer, or nil for empty space.
type Click struct {
	X, Y   float64
	Target *ID
}

// PointerDown starts dragging an element.  OffsetX and OffsetY give the
// pointer position relative to the top-left corner of the element.
type PointerDown struct {
	Target           ID
	OffsetX, OffsetY float64
}

// PointerMove moves the pointer to (X, Y), relative to the overlay.
type PointerMove struct {
	X, Y float64
}

// PointerUp ends a drag operation and stores the new position.
type PointerUp struct{}

// EditText replaces the content of a text element.
type EditText struct {
	Target ID
	Text   string
}

// SetFontSize sets the font size for new text edits.
// Non-positive values select the default size.
type SetFontSize struct {
	Size float64
}

// SetColor sets the color for new text edits.
type SetColor struct {
	Color string
}

// Restyle changes font size and color of an existing text edit.
// Zero values leave the corresponding property unchanged.
type Restyle struct {
	Target   ID
	FontSize float64
	Color    string
}

func (AddText) isCommand()     {}
func (ToggleErase) isCommand() {}
func (Click) isCommand()       {}
func (PointerDown) isCommand() {}
func (PointerMove) isCommand() {}
func (PointerUp) isCommand()   {}
func (EditText) isCommand()    {}
func (SetFontSize) isCommand() {}
func (SetColor) isCommand()    {}
func (Restyle) isCommand()     {}

// Dispatch applies a command.
func (c *Controller) Dispatch(cmd Command) error {
	switch cmd := cmd.(type) {
	case AddText:
		return c.addText()
	case ToggleErase:
		return c.toggleErase()
	case Click:
		return c.click(cmd)
	case PointerDown:
		return c.pointerDown(cmd)
	case PointerMove:
		c.pointerMove(cmd)
		return nil
	case PointerUp:
		return c.pointerUp()
	case EditText:
		return c.editText(cmd)
	case SetFontSize:
		c.setFontSize(cmd.Size)
		return nil
	case SetColor:
		if _, err := export.ParseColor(cmd.Color); err != nil {
			return err
		}
		c.color = cmd.Color
		return nil
	case Restyle:
		return c.restyle(cmd)
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

func (c *Controller) addText() error {
	err := c.guard(func(ctl session.Controls) bool { return ctl.AddText })
	if err != nil {
		return err
	}
	pe, err := c.sess.CurrentEdits()
	if err != nil {
		return err
	}
	pe.Texts = append(pe.Texts, edits.TextEdit{
		X:        newTextX,
		Y:        newTextY,
		Text:     c.opt.Placeholder,
		FontSize: c.fontSize,
		Color:    c.color,
	})
	c.Render()
	return nil
}

func (c *Controller) toggleErase() error {
	err := c.guard(func(ctl session.Controls) bool { return ctl.Erase })
	if err != nil {
		return err
	}
	c.eraseMode = !c.eraseMode
	return nil
}

func (c *Controller) click(cmd Click) error {
	if !c.eraseMode || cmd.Target != nil {
		return nil
	}
	pe, err := c.sess.CurrentEdits()
	if err != nil {
		return err
	}
	pe.Erases = append(pe.Erases, edits.EraseMark{
		X: cmd.X - c.opt.EraseOffsetX,
		Y: cmd.Y - c.opt.EraseOffsetY,
		W: c.opt.EraseWidth,
		H: c.opt.EraseHeight,
	})
	c.Render()
	return nil
}

func (c *Controller) setFontSize(size float64) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		size = c.opt.FontSize
	}
	c.fontSize = size
}

func (c *Controller) editText(cmd EditText) error {
	item, el, err := c.textEdit(cmd.Target)
	if err != nil {
		return err
	}
	item.Text = cmd.Text
	item.Color = el.Color
	el.Text = cmd.Text
	return nil
}

func (c *Controller) restyle(cmd Restyle) error {
	if cmd.Color != "" {
		if _, err := export.ParseColor(cmd.Color); err != nil {
			return err
		}
	}
	if cmd.FontSize < 0 || math.IsNaN(cmd.FontSize) || math.IsInf(cmd.FontSize, 0) {
		return fmt.Errorf("invalid font size %g", cmd.FontSize)
	}

	item, el, err := c.textEdit(cmd.Target)
	if err != nil {
		return err
	}
	if cmd.FontSize > 0 {
		item.FontSize = cmd.FontSize
		el.FontSize = cmd.FontSize
		el.H = cmd.FontSize
	}
	if cmd.Color != "" {
		item.Color = cmd.Color
		el.Color = cmd.Color
	}
	return nil
}

// textEdit returns the store entry and the overlay element for a text
// element of the current page.
func (c *Controller) textEdit(id ID) (*edits.TextEdit, *Element, error) {
	if id.Kind != TextElement {
		return nil, nil, fmt.Errorf("%s: not a text element", id)
	}
	pe, err := c.rendered()
	if err != nil {
		return nil, nil, err
	}
	i := c.find(id)
	if i < 0 {
		return nil, nil, fmt.Errorf("%s: %w", id, ErrNoElement)
	}
	if id.Index >= len(pe.Texts) {
		return nil, nil, fmt.Errorf("%s: %w", id, ErrNoElement)
	}
	return &pe.Texts[id.Index], &c.elements[i], nil
}
