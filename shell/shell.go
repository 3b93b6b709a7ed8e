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

// Package shell implements a command line interface for annotating PDF
// files.
//
// Every command acts on one editing session: a document is opened, pages
// are annotated through the overlay controller, and the result is written
// by the export engine.  Commands can be read interactively, with line
// editing and history, or from a script.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"seehuhn.de/go/pdfedit/export"
	"seehuhn.de/go/pdfedit/overlay"
	"seehuhn.de/go/pdfedit/session"
)

// ErrQuit is returned by [Shell.Exec] for the quit command.
var ErrQuit = errors.New("quit")

// Options configure a shell.
type Options struct {
	// Out receives the output of all commands.  The default is os.Stdout.
	Out io.Writer

	// HistoryFile is used to store the command history of interactive
	// sessions.  If this is empty, history is not saved.
	HistoryFile string

	// OutputFile is the default name for exported files.  If this is
	// empty, the name proposed by the export engine is used.
	OutputFile string

	Logger *slog.Logger
}

// Shell reads and executes commands.
type Shell struct {
	sess   *session.Session
	ctl    *overlay.Controller
	engine *export.Engine

	out     io.Writer
	history string
	outFile string
	log     *slog.Logger
}

// New creates a shell for the given session.
func New(sess *session.Session, ctl *overlay.Controller, engine *export.Engine, opt *Options) *Shell {
	o := Options{}
	if opt != nil {
		o = *opt
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Shell{
		sess:    sess,
		ctl:     ctl,
		engine:  engine,
		out:     o.Out,
		history: o.HistoryFile,
		outFile: o.OutputFile,
		log:     logger,
	}
}

// Run reads commands interactively until the user quits.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		HistoryFile:     s.history,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		AutoComplete:    s.completer(),
		Stdout:          s.out,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Fprintln(s.out, `Type "help" for a list of commands.`)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		err = s.Exec(ctx, line)
		if err == ErrQuit {
			return nil
		} else if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// RunScript executes the commands read from r, one per line.  Empty lines
// and lines starting with "#" are ignored.  Execution stops at the first
// failing command.
func (s *Shell) RunScript(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		s.log.Debug("script command", "line", lineNo, "command", line)
		err := s.Exec(ctx, line)
		if err == ErrQuit {
			return nil
		} else if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func (s *Shell) prompt() string {
	if !s.sess.Loaded() {
		return "pdf> "
	}
	mode := ""
	if s.ctl.EraseMode() {
		mode = " erase"
	}
	return fmt.Sprintf("pdf %d/%d%s> ", s.sess.PageNo(), s.sess.NumPages(), mode)
}

// Exec executes a single command.
func (s *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "open":
		if len(args) != 1 {
			return usage(name)
		}
		return s.Open(ctx, args[0])
	case "next":
		return s.navigate(ctx, s.sess.NextPage)
	case "prev":
		return s.navigate(ctx, s.sess.PrevPage)
	case "page":
		if len(args) != 1 {
			return usage(name)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid page number %q", args[0])
		}
		return s.navigate(ctx, func(ctx context.Context) error {
			return s.sess.GoTo(ctx, n)
		})
	case "zoom":
		if len(args) != 1 {
			return usage(name)
		}
		switch args[0] {
		case "in":
			return s.navigate(ctx, s.sess.ZoomIn)
		case "out":
			return s.navigate(ctx, s.sess.ZoomOut)
		}
		return usage(name)
	case "text":
		if err := s.ctl.Dispatch(overlay.AddText{}); err != nil {
			return err
		}
		els := s.ctl.Elements()
		for i := len(els) - 1; i >= 0; i-- {
			if els[i].ID.Kind == overlay.TextElement {
				fmt.Fprintf(s.out, "added %s\n", els[i].ID)
				break
			}
		}
		return nil
	case "erase":
		if err := s.ctl.Dispatch(overlay.ToggleErase{}); err != nil {
			return err
		}
		if s.ctl.EraseMode() {
			fmt.Fprintln(s.out, "erase mode on")
		} else {
			fmt.Fprintln(s.out, "erase mode off")
		}
		return nil
	case "click":
		if len(args) != 2 {
			return usage(name)
		}
		x, y, err := parsePoint(args[0], args[1])
		if err != nil {
			return err
		}
		return s.click(x, y)
	case "drag":
		if len(args) != 3 {
			return usage(name)
		}
		id, err := overlay.ParseID(args[0])
		if err != nil {
			return err
		}
		x, y, err := parsePoint(args[1], args[2])
		if err != nil {
			return err
		}
		return s.drag(id, x, y)
	case "type":
		if len(args) < 1 {
			return usage(name)
		}
		id, err := overlay.ParseID(args[0])
		if err != nil {
			return err
		}
		return s.ctl.Dispatch(overlay.EditText{Target: id, Text: rest(line, 2)})
	case "style":
		if len(args) < 2 || len(args) > 3 {
			return usage(name)
		}
		id, err := overlay.ParseID(args[0])
		if err != nil {
			return err
		}
		cmd := overlay.Restyle{Target: id}
		for _, arg := range args[1:] {
			if strings.HasPrefix(arg, "#") {
				cmd.Color = arg
				continue
			}
			cmd.FontSize, err = strconv.ParseFloat(arg, 64)
			if err != nil {
				return fmt.Errorf("invalid font size %q", arg)
			}
		}
		return s.ctl.Dispatch(cmd)
	case "size":
		if len(args) != 1 {
			return usage(name)
		}
		size, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid font size %q", args[0])
		}
		return s.ctl.Dispatch(overlay.SetFontSize{Size: size})
	case "color":
		if len(args) != 1 {
			return usage(name)
		}
		return s.ctl.Dispatch(overlay.SetColor{Color: args[0]})
	case "ls":
		s.listElements()
		return nil
	case "pages":
		s.listPages()
		return nil
	case "controls":
		s.listControls()
		return nil
	case "preview":
		if len(args) != 1 {
			return usage(name)
		}
		return s.preview(args[0])
	case "export":
		if len(args) > 1 {
			return usage(name)
		}
		out := s.outFile
		if len(args) == 1 {
			out = args[0]
		}
		return s.export(ctx, out)
	case "help":
		s.help()
		return nil
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command %q, type \"help\" for a list", name)
	}
}

func parsePoint(xs, ys string) (float64, float64, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid coordinate %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid coordinate %q", ys)
	}
	return x, y, nil
}

// rest returns the remainder of line after skipping n fields.
func rest(line string, n int) string {
	line = strings.TrimSpace(line)
	for range n {
		i := strings.IndexAny(line, " \t")
		if i < 0 {
			return ""
		}
		line = strings.TrimLeft(line[i:], " \t")
	}
	return line
}
