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
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"seehuhn.de/go/pdfedit/overlay"
)

type commandInfo struct {
	name, args, summary string
}

var commandList = []commandInfo{
	{"open", "FILE", "load a PDF file"},
	{"next", "", "go to the next page"},
	{"prev", "", "go to the previous page"},
	{"page", "N", "go to page N"},
	{"zoom", "in|out", "change the zoom level"},
	{"text", "", "add a text edit"},
	{"erase", "", "switch erase mode on or off"},
	{"click", "X Y", "click on the page at pixel position (X, Y)"},
	{"drag", "ID X Y", "move an element so that its top-left corner is at (X, Y)"},
	{"type", "ID TEXT", "replace the text of a text edit"},
	{"style", "ID [SIZE] [COLOR]", "change font size and color of a text edit"},
	{"size", "N", "set the font size for new text edits"},
	{"color", "#RRGGBB", "set the color for new text edits"},
	{"ls", "", "list the elements of the current page"},
	{"pages", "", "list all pages with edits"},
	{"controls", "", "show the available actions"},
	{"preview", "FILE.png", "write the current page with all edits as an image"},
	{"export", "[FILE]", "write the edited PDF file"},
	{"help", "", "show this list"},
	{"quit", "", "leave the program"},
}

// elementCommands take an element ID as their first argument.
var elementCommands = map[string]bool{
	"drag":  true,
	"type":  true,
	"style": true,
}

// completer provides tab completion for command names, element IDs and
// file names.
type completer struct {
	sh *Shell
}

var _ readline.AutoCompleter = (*completer)(nil)

func (s *Shell) completer() *completer {
	return &completer{sh: s}
}

// Do implements readline.AutoCompleter.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	if pos <= 0 || len(line) == 0 {
		return nil, 0
	}
	if pos > len(line) {
		pos = len(line)
	}

	lineStr := string(line[:pos])
	wordStart := findWordStart(lineStr)
	word := lineStr[wordStart:]
	before := strings.Fields(lineStr[:wordStart])

	var candidates []string
	switch {
	case len(before) == 0:
		for _, cmd := range commandList {
			candidates = append(candidates, cmd.name)
		}
	case len(before) == 1 && elementCommands[before[0]]:
		for _, el := range c.sh.ctl.Elements() {
			if el.ID.Kind != overlay.TextElement {
				continue
			}
			candidates = append(candidates, el.ID.String())
		}
	case len(before) == 1 && before[0] == "zoom":
		candidates = []string{"in", "out"}
	case len(before) == 1 && before[0] == "open":
		candidates = pdfFiles(word)
	}

	var matches [][]rune
	for _, cand := range candidates {
		if strings.HasPrefix(cand, word) {
			matches = append(matches, []rune(cand[len(word):]+" "))
		}
	}
	return matches, len([]rune(word))
}

// findWordStart returns the index where the word ending at the end of s
// begins.
func findWordStart(s string) int {
	return strings.LastIndexAny(s, " \t") + 1
}

// pdfFiles lists the PDF files and directories matching prefix.
func pdfFiles(prefix string) []string {
	matches, err := filepath.Glob(prefix + "*")
	if err != nil {
		return nil
	}
	var res []string
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil {
			continue
		}
		if fi.IsDir() || strings.EqualFold(filepath.Ext(m), ".pdf") {
			res = append(res, m)
		}
	}
	return res
}
