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

package main

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"
)

// passwords asks for the password of an encrypted file on the terminal.
// The file is opened more than once, so known passwords are tried before
// prompting again.
type passwords struct {
	known []string
}

func (p *passwords) read(_ []byte, try int) string {
	if try < len(p.known) {
		return p.known[try]
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return ""
	}

	fmt.Fprint(os.Stderr, "password: ")
	passwd, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	p.known = append(p.known, string(passwd))
	return string(passwd)
}
