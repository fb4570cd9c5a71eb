/*
Copyright (C) 2026  SQ Contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Command sq is an interactive, single-process REPL over one phext
// file: the local counterpart to sqd's HTTP surface, for scripting and
// manual inspection. Its readline loop is the direct descendant of
// scm/prompt.go's Repl, with s-expressions replaced by dispatcher
// command lines and panic recovery kept per-line exactly as there.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sqdb/sq/coord"
	"github.com/sqdb/sq/dispatch"
	"github.com/sqdb/sq/phext"
	"github.com/sqdb/sq/store"
)

const (
	prompt       = "\033[32msq>\033[0m "
	resultprompt = "\033[31m=\033[0m "
)

func main() {
	flag.Parse()
	path := flag.Arg(0)
	if path == "" {
		path = "default.phext"
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "sq:", err)
			os.Exit(1)
		}
		buf = nil
	}
	s := phext.Explode(buf)

	fmt.Printf("sq interactive shell on %s (%d scrolls). Type 'help' for commands, Ctrl-D to exit.\n", path, s.Len())

	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       ".sq-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			panic(err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		runLine(s, path, line)
	}
}

// runLine parses and executes one REPL line, recovering from a panic
// the way scm/prompt.go's Repl does rather than crashing the shell.
func runLine(s *store.Store, path, line string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("panic:", r)
		}
	}()

	req, err := parseLine(line, path)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	result, err := dispatch.Process(req, s)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(resultprompt)
	fmt.Println(result.Text)
	if result.Done {
		os.Exit(0)
	}
}

// parseLine turns "command [coord] [rest...]" into a dispatch.Request.
func parseLine(line, defaultPath string) (dispatch.Request, error) {
	fields := strings.SplitN(line, " ", 3)
	req := dispatch.Request{Command: dispatch.Command(fields[0]), Source: "repl"}

	switch req.Command {
	case dispatch.Select, dispatch.Pull, dispatch.Delete:
		if len(fields) < 2 {
			return req, fmt.Errorf("%s requires a coordinate", req.Command)
		}
		c, err := coord.New(fields[1])
		if err != nil {
			return req, err
		}
		req.Coordinate = c

	case dispatch.Insert, dispatch.Update, dispatch.Push, dispatch.Slurp:
		if len(fields) < 3 {
			return req, fmt.Errorf("%s requires a coordinate and text", req.Command)
		}
		c, err := coord.New(fields[1])
		if err != nil {
			return req, err
		}
		req.Coordinate = c
		req.Payload = strings.Trim(fields[2], `"`)

	case dispatch.Load, dispatch.Save, dispatch.Get:
		req.TargetPath = defaultPath
		if len(fields) >= 2 {
			req.TargetPath = fields[1]
		}

	case dispatch.Diff, dispatch.Delta:
		if len(fields) >= 2 {
			req.Payload = fields[1]
		}

	case dispatch.Where:
		if len(fields) < 2 {
			return req, fmt.Errorf("where requires free text")
		}
		req.Payload = strings.Join(fields[1:], " ")
		req.Algorithm = "xor"
		req.Limit = 0

	case dispatch.Help, dispatch.Version, dispatch.Status, dispatch.TOC, dispatch.Checksum, dispatch.JSONExport, dispatch.Shutdown:
		// no further arguments

	default:
		return req, fmt.Errorf("unknown command %q", fields[0])
	}

	return req, nil
}
