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
)

type dragState struct {
	index            int // into c.elements
	offsetX, offsetY float64
}

// pointerDown starts a drag.  Only text elements can be moved; erase marks
// keep the position where they were created.
func (c *Controller) pointerDown(cmd PointerDown) error {
	if _, err := c.rendered(); err != nil {
		return err
	}
	i := c.find(cmd.Target)
	if i < 0 {
		return fmt.Errorf("%s: %w", cmd.Target, ErrNoElement)
	}
	if cmd.Target.Kind != TextElement {
		return nil
	}
	c.drag = &dragState{
		index:   i,
		offsetX: cmd.OffsetX,
		offsetY: cmd.OffsetY,
	}
	return nil
}

// pointerMove moves the dragged element.  The edit store is not changed
// until the pointer is released.
func (c *Controller) pointerMove(cmd PointerMove) {
	if c.drag == nil || c.sess.PageNo() != c.pageNo {
		return
	}
	vp, ok := c.sess.CurrentViewport()
	if !ok {
		return
	}

	el := &c.elements[c.drag.index]
	el.X = clamp(cmd.X-c.drag.offsetX, float64(vp.Width)-c.opt.DragMargin)
	el.Y = clamp(cmd.Y-c.drag.offsetY, float64(vp.Height)-c.opt.DragMargin)
}

// pointerUp commits the position of the dragged element to the edit store.
func (c *Controller) pointerUp() error {
	if c.drag == nil {
		return nil
	}
	el := c.elements[c.drag.index]
	c.drag = nil

	item, _, err := c.textEdit(el.ID)
	if err != nil {
		return err
	}
	item.X = el.X
	item.Y = el.Y
	return nil
}

// clamp restricts x to the range [0, upper].  If upper is negative, the
// result is 0.
func clamp(x, upper float64) float64 {
	return math.Max(0, math.Min(x, upper))
}
