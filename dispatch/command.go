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

// Package dispatch implements the command dispatcher (spec §4.D), the
// checksum/delta synchronization protocol (spec §4.E), and coordinate
// inference (spec §4.F). It is the direct descendant of
// original_source/src/sq.rs's process() function, generalized from a
// single-phext daemon loop to a request/response call usable by the
// HTTP server.
package dispatch

import (
	"fmt"

	"github.com/sqdb/sq/coord"
)

// Command names the dispatcher operation to run.
type Command string

const (
	Help        Command = "help"
	Version     Command = "version"
	Status      Command = "status"
	Load        Command = "load"
	Select      Command = "select"
	Pull        Command = "pull"
	Insert      Command = "insert"
	Update      Command = "update"
	Push        Command = "push"
	Slurp       Command = "slurp"
	Delete      Command = "delete"
	Save        Command = "save"
	TOC         Command = "toc"
	Get         Command = "get"
	Checksum    Command = "checksum"
	Diff        Command = "diff"
	Delta       Command = "delta"
	JSONExport  Command = "json-export"
	Where       Command = "where"
	Shutdown    Command = "shutdown"
)

// BuildVersion is the engine's reported version string.
const BuildVersion = "sq/2.0.0"

// HelpText is the fixed listing returned by the help command, carried
// over from original_source/src/sq.rs's "help" case and extended with
// the commands this rewrite adds (checksum, diff, delta, json-export,
// where).
const HelpText = `* help: display this online help screen
* version: display the build version
* status: display server statistics
* load: replace the hosted store with the contents of a file
* select <coord> / pull <coord>: fetch a scroll of text
* insert <coord> "text": append text to the specified scroll
* update <coord> "text" / push / slurp: overwrite text at the specified scroll
* delete <coord>: remove the specified scroll
* save <file>: dump the contents of the loaded phext to disk
* toc: dump the current navigation table for the loaded phext
* get <file>: return the raw bytes of a phext file
* checksum: return a digest of the loaded phext
* diff <phext>: list scrolls present in the given phext but different here
* delta <manifest>: reconcile against a coord:hash manifest
* json-export: dump the loaded phext as a JSON array of {coord, scroll}
* where <text>: infer a coordinate for free text
* shutdown: terminate the server`

// needsCoordinate lists commands whose Request.Coordinate must be valid.
var needsCoordinate = map[Command]bool{
	Select: true, Pull: true,
	Insert: true, Update: true, Push: true, Slurp: true,
	Delete: true,
}

// needsTargetPath lists commands whose Request.TargetPath must be set.
var needsTargetPath = map[Command]bool{
	Load: true, Save: true, Get: true,
}

// validate mirrors original_source/src/sq.rs's args_required: commands
// that operate on a coordinate or path must be given one before
// dispatch runs, rather than silently operating on the zero value.
// The payload is not checked.
func validate(req Request) error {
	if needsCoordinate[req.Command] && !req.Coordinate.Valid() {
		return fmt.Errorf("dispatch: %s requires a valid coordinate, got %s", req.Command, req.Coordinate)
	}
	if needsTargetPath[req.Command] && req.TargetPath == "" {
		return fmt.Errorf("dispatch: %s requires a target path", req.Command)
	}
	return nil
}

// Request is one dispatcher call.
type Request struct {
	Command     Command
	Coordinate  coord.Coordinate
	Payload     string
	TargetPath  string
	Algorithm   string // for "where": "xor" or "checksum"
	Limit       int    // for "where": minimum phoken length to fold in

	// ConnectionID and Source are reported by "status".
	ConnectionID string
	Source       string
	Tenant       string
}

// Result is the outcome of one dispatcher call.
type Result struct {
	Text    string
	Mutated bool
	Done    bool // caller should stop serving (shutdown)
}
