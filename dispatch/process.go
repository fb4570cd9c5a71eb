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

package dispatch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	units "github.com/docker/go-units"

	"github.com/sqdb/sq/coord"
	"github.com/sqdb/sq/phext"
	"github.com/sqdb/sq/store"
)

// Process runs one dispatcher command against s, mirroring
// original_source/src/sq.rs's process() but typed and generalized to a
// multi-tenant server instead of a single daemon loop. It returns
// whether the caller should stop serving (Result.Done) and whether s
// was mutated (the HTTP layer persists only on Result.Mutated).
func Process(req Request, s *store.Store) (Result, error) {
	if err := validate(req); err != nil {
		return Result{}, err
	}

	switch req.Command {
	case Help:
		return Result{Text: HelpText}, nil

	case Version:
		return Result{Text: BuildVersion}, nil

	case Status:
		total := s.TotalBytes()
		text := fmt.Sprintf("Hosting: %s\nConnection ID: %s\nPhext Size: %s (%d bytes)\nScrolls: %d",
			req.Source, req.ConnectionID, units.HumanSize(float64(total)), total, s.Len())
		if req.Tenant != "" {
			text = fmt.Sprintf("Tenant: %s\n%s", req.Tenant, text)
		}
		return Result{Text: text}, nil

	case Load:
		buf, err := phext.ReadFile(req.TargetPath)
		if err != nil {
			return Result{}, fmt.Errorf("dispatch: load %s: %w", req.TargetPath, err)
		}
		s.Reset(phext.Explode(buf).TakeData())
		return Result{Text: fmt.Sprintf("Loaded %s", req.TargetPath)}, nil

	case Select, Pull:
		return Result{Text: s.Get(req.Coordinate)}, nil

	case Insert:
		if req.Payload == "" {
			// documented no-op: still reports success
			return Result{Text: "Inserted 0 bytes"}, nil
		}
		s.Set(req.Coordinate, s.Get(req.Coordinate)+req.Payload)
		return Result{Text: fmt.Sprintf("Inserted %d bytes", len(req.Payload)), Mutated: true}, nil

	case Update, Push, Slurp:
		s.Set(req.Coordinate, req.Payload)
		return Result{Text: fmt.Sprintf("Updated %d bytes", len(req.Payload)), Mutated: true}, nil

	case Delete:
		old := s.Remove(req.Coordinate)
		return Result{Text: fmt.Sprintf("Removed %d bytes", len(old)), Mutated: old != ""}, nil

	case Save:
		buf := phext.ImplodeBorrow(s)
		if err := phext.WriteFile(req.TargetPath, buf, 0644); err != nil {
			return Result{}, fmt.Errorf("dispatch: save %s: %w", req.TargetPath, err)
		}
		return Result{Text: fmt.Sprintf("Wrote %s to %s", units.HumanSize(float64(len(buf))), req.TargetPath)}, nil

	case TOC:
		return Result{Text: phext.Textmap(phext.ImplodeBorrow(s))}, nil

	case Get:
		buf, err := phext.ReadFile(req.TargetPath)
		if err != nil {
			return Result{}, fmt.Errorf("dispatch: get %s: %w", req.TargetPath, err)
		}
		return Result{Text: string(buf)}, nil

	case Checksum:
		return Result{Text: phext.Checksum(phext.ImplodeBorrow(s))}, nil

	case Diff:
		return Result{Text: phext.Textmap(phext.Subtract([]byte(req.Payload), phext.ImplodeBorrow(s)))}, nil

	case Delta:
		return Result{Text: string(BuildDelta(s, req.Payload))}, nil

	case JSONExport:
		return Result{Text: jsonExport(s)}, nil

	case Where:
		c, valid := Infer(req.Payload, req.Algorithm, req.Limit)
		out, _ := json.Marshal(struct {
			Coord string `json:"coord"`
			Valid bool   `json:"valid"`
		}{c.String(), valid})
		return Result{Text: string(out)}, nil

	case Shutdown:
		return Result{Text: "shutdown initiated", Done: true}, nil
	}

	return Result{Text: "Unexpected command ignored."}, nil
}

func jsonExport(s *store.Store) string {
	type entry struct {
		Coord  string `json:"coord"`
		Scroll string `json:"scroll"`
	}
	entries := make([]entry, 0, s.Len())
	s.Walk(func(c coord.Coordinate, scroll string) {
		entries = append(entries, entry{Coord: c.String(), Scroll: scroll})
	})
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(entries)
	return strings.TrimRight(b.String(), "\n")
}
