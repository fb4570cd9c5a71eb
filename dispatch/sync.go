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
	"strings"

	"github.com/sqdb/sq/coord"
	"github.com/sqdb/sq/phext"
	"github.com/sqdb/sq/store"
)

// MissingTombstone marks a coordinate that was present in a peer's
// manifest but absent from the local store (spec §4.E step 2).
const MissingTombstone = "---sq:Scroll-Missing---"

// BuildManifest lists "<coord>: <checksum(scroll)>\n" for every coord s
// holds (spec §4.E step 1). Produced on request by the side initiating
// a sync.
func BuildManifest(s *store.Store) string {
	var b strings.Builder
	s.Walk(func(c coord.Coordinate, scroll string) {
		b.WriteString(c.String())
		b.WriteString(": ")
		b.WriteString(phext.Checksum([]byte(scroll)))
		b.WriteByte('\n')
	})
	return b.String()
}

// BuildDelta parses manifest as "coord: hash" lines (one per the
// initiator's scrolls) and, for every coord s holds whose hash differs
// from the manifest's (or which isn't in the manifest at all), emits
// (coord, scroll) into an output phext. For every coord named in the
// manifest but absent from s, it emits a missing-tombstone scroll.
// Malformed lines (fewer than two colon-delimited fields, or an
// invalid coordinate) are ignored silently (spec §4.E).
func BuildDelta(s *store.Store, manifest string) []byte {
	peerHashes := parseManifest(manifest)

	out := store.New()
	s.Walk(func(c coord.Coordinate, scroll string) {
		hash, known := peerHashes[c]
		if !known || hash != phext.Checksum([]byte(scroll)) {
			out.Set(c, scroll)
		}
	})
	for c := range peerHashes {
		if !s.Contains(c) {
			out.Set(c, MissingTombstone)
		}
	}
	return phext.ImplodeBorrow(out)
}

// parseManifest parses "coord: hash\n" lines into a coord->hash map,
// dropping any line that doesn't split into at least two
// colon-delimited fields or whose coordinate fails validation.
func parseManifest(manifest string) map[coord.Coordinate]string {
	result := make(map[coord.Coordinate]string)
	for _, line := range strings.Split(manifest, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		coordStr := strings.TrimSpace(line[:idx])
		hash := strings.TrimSpace(line[idx+1:])
		if hash == "" {
			continue
		}
		c, err := coord.New(coordStr)
		if err != nil || !c.Valid() {
			continue
		}
		result[c] = hash
	}
	return result
}

// ApplyDelta explodes response (the peer's BuildDelta output) and
// applies it to s: coordinates whose scroll equals MissingTombstone
// are deleted locally, everything else overwrites (spec §4.E step 3,
// "Apply", run by the initiator after receiving a delta response).
func ApplyDelta(s *store.Store, response []byte) {
	phext.Explode(response).Walk(func(c coord.Coordinate, scroll string) {
		if scroll == MissingTombstone {
			s.Remove(c)
			return
		}
		s.Set(c, scroll)
	})
}
