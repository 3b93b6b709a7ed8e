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

// Pdf-annotate adds text to PDF files and paints over unwanted content.
//
// Pages are shown as a viewport of pixels.  Text edits and erase marks are
// placed in viewport coordinates, either interactively or from a script
// file, and are converted to PDF coordinates when the edited file is
// written.
//
// Usage:
//
//	pdf-annotate [-config file] [-o out.pdf] [-script file] [-v] [file.pdf]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"seehuhn.de/go/pdfedit/config"
	"seehuhn.de/go/pdfedit/export"
	"seehuhn.de/go/pdfedit/mutator"
	"seehuhn.de/go/pdfedit/overlay"
	"seehuhn.de/go/pdfedit/raster"
	"seehuhn.de/go/pdfedit/session"
	"seehuhn.de/go/pdfedit/shell"
	"seehuhn.de/go/pdfedit/tools/internal/buildinfo"
)

const toolName = "pdf-annotate"

func main() {
	configFile := flag.String("config", "", "configuration file (YAML)")
	out := flag.String("o", "", "output file name for the export command")
	script := flag.String("script", "", "read commands from `file` (\"-\" for stdin)")
	verbose := flag.Bool("v", false, "show debug messages")
	version := flag.Bool("version", false, "show version information and exit")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Short(toolName))
		return
	}
	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "error: too many arguments")
		flag.Usage()
		os.Exit(1)
	}

	err := run(*configFile, *out, *script, *verbose, flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, out, script string, verbose bool, fname string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return err
	}

	pw := &passwords{}
	rast := raster.New(&raster.Options{
		ReadPassword: pw.read,
		Logger:       logger,
	})
	sess := session.New(rast, cfg.SessionOptions(logger))
	defer sess.Teardown()

	mopt := cfg.MutatorOptions(buildinfo.Short(toolName), logger)
	mopt.ReadPassword = pw.read
	engine := export.New(mutator.Loader(mopt), cfg.ExportOptions(logger))

	sh := shell.New(sess, overlay.New(sess, cfg.OverlayOptions()), engine, &shell.Options{
		Out:         os.Stdout,
		HistoryFile: cfg.Shell.HistoryFile,
		OutputFile:  out,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if fname != "" {
		if err := sh.Open(ctx, fname); err != nil {
			return err
		}
	}

	if script == "" {
		// The terminal handles ^C while reading a line.
		stop()
		return sh.Run(context.Background())
	}

	var r io.Reader = os.Stdin
	if script != "-" {
		fd, err := os.Open(script)
		if err != nil {
			return err
		}
		defer fd.Close()
		r = fd
	}
	return sh.RunScript(ctx, r)
}
