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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sqdb/sq/dispatch"
	"github.com/sqdb/sq/phext"
	"github.com/sqdb/sq/store"
)

// mutatingCommands are the commands that, per spec §4.G step 7, trigger
// a serialize-and-persist after dispatch.
var mutatingCommands = map[dispatch.Command]bool{
	dispatch.Insert: true,
	dispatch.Update: true,
	dispatch.Push:   true,
	dispatch.Slurp:  true,
	dispatch.Delete: true,
}

// Engine holds the single hot in-memory store, identified by its
// backing path, guarded by a write-preferring read/write lock per spec
// §9: readers take a shared guard, the reload-or-mutate path takes
// exclusive. This is the documented single-slot cache baseline; spec
// §9 notes a per-path LRU as a future refinement.
type Engine struct {
	guard    rwGuard
	hotPath  string
	hotStore *store.Store
}

// NewEngine returns an engine with no hot store; the first request
// triggers a cold load.
func NewEngine() *Engine {
	return &Engine{}
}

// Run executes req against the store backing resolvedPath, reloading
// first if the engine is cold or targeting a different path, and
// persisting afterward if the command mutated the store (spec §4.G
// steps 7-8). Persistence failure is logged, not surfaced as an error:
// spec §7 requires the request still respond 200 with the in-memory
// result.
func (e *Engine) Run(req dispatch.Request, resolvedPath string) (dispatch.Result, error) {
	mutating := mutatingCommands[req.Command]

	if !mutating {
		if res, ok := e.tryRead(req, resolvedPath); ok {
			return res, nil
		}
	}

	unlock := e.guard.Lock()
	defer unlock()

	if e.hotPath != resolvedPath || e.hotStore == nil {
		if err := e.reloadLocked(resolvedPath); err != nil {
			return dispatch.Result{}, err
		}
	}

	result, err := dispatch.Process(req, e.hotStore)
	if err != nil {
		return result, err
	}
	if result.Mutated {
		e.persistLocked(resolvedPath)
	}
	return result, nil
}

// tryRead serves a non-mutating request under a shared guard if the
// hot store already matches resolvedPath. ok is false if a reload is
// needed, in which case the caller must fall through to the exclusive
// path.
func (e *Engine) tryRead(req dispatch.Request, resolvedPath string) (dispatch.Result, bool) {
	unlock := e.guard.RLock()
	defer unlock()
	if e.hotStore == nil || e.hotPath != resolvedPath {
		return dispatch.Result{}, false
	}
	result, err := dispatch.Process(req, e.hotStore)
	if err != nil {
		return dispatch.Result{}, false
	}
	return result, true
}

func (e *Engine) reloadLocked(path string) error {
	buf, err := phext.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			buf = nil
		} else {
			return fmt.Errorf("server: reload %s: %w", path, err)
		}
	}
	if len(buf) > MaxBufferSize {
		slog.Warn("server: phext truncated on load", "path", path, "size", len(buf), "limit", MaxBufferSize)
		buf = buf[:MaxBufferSize]
	}
	e.hotStore = phext.Explode(buf)
	e.hotPath = path
	return nil
}

func (e *Engine) persistLocked(path string) {
	buf := phext.ImplodeBorrow(e.hotStore)
	if err := atomicWrite(path, buf); err != nil {
		slog.Error("server: persistence failed, response still serves in-memory result", "path", path, "err", err)
	}
}

// atomicWrite writes buf to path via a temp-file-then-rename so a
// crash mid-write never leaves a truncated phext on disk (spec §6:
// "mutations rewrite the whole file"), lz4-compressing first when path
// ends in phext.CompressedSuffix. Encoding happens before the temp file
// is named, since the temp name itself doesn't carry path's suffix.
func atomicWrite(path string, buf []byte) error {
	encoded, err := phext.Encode(path, buf)
	if err != nil {
		return fmt.Errorf("server: encode %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
