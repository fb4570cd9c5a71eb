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

// Package phext implements the byte-stream codec (spec §4.B): the
// explode/implode/fetch/replace/insert/textmap/checksum/subtract
// primitives that translate between a flat, delimiter-encoded byte
// stream and the in-memory coordinate-to-scroll store.
package phext

import (
	"bytes"
	"strings"

	"github.com/sqdb/sq/coord"
	"github.com/sqdb/sq/store"
)

// Explode parses buf left to right, maintaining a cursor coordinate
// (starting at the origin) and a scroll accumulator. Every delimiter
// byte flushes the accumulator to (cursor, content) and advances the
// cursor; every other byte is scroll content. Empty scrolls are
// dropped, never materialized in the returned store.
func Explode(buf []byte) *store.Store {
	s := store.New()
	cursor := coord.Origin
	var acc bytes.Buffer

	flush := func() {
		if acc.Len() > 0 {
			s.Set(cursor, acc.String())
			acc.Reset()
		}
	}

	for _, b := range buf {
		if level, ok := isDelimiter(b); ok {
			flush()
			cursor.Break(level)
			continue
		}
		acc.WriteByte(b)
	}
	flush()
	return s
}

// delimitersBetween emits delimiters_between(prev, curr) per spec
// §4.B.2: let L be the highest level at which prev and curr differ. If
// none, emit nothing. Otherwise emit (curr[L]-prev[L]) copies of
// delimiter[L], then for each lower level i emit (curr[i]-1) copies of
// delimiter[i].
func delimitersBetween(w *bytes.Buffer, prev, curr coord.Coordinate) {
	level, differ := coord.HighestDiff(prev, curr)
	if !differ {
		return
	}
	prevComponents := componentsOf(prev)
	currComponents := componentsOf(curr)

	run := currComponents[level] - prevComponents[level]
	for i := 0; i < run; i++ {
		w.WriteByte(delimiterByLevel[level])
	}
	for l := int(level) + 1; l < len(coord.Levels); l++ {
		lvl := coord.Levels[l]
		for i := 0; i < currComponents[lvl]-1; i++ {
			w.WriteByte(delimiterByLevel[lvl])
		}
	}
}

func componentsOf(c coord.Coordinate) [9]int {
	return [9]int{
		c.Library, c.Shelf, c.Series,
		c.Collection, c.Volume, c.Book,
		c.Chapter, c.Section, c.Scroll,
	}
}

// Implode serializes s: entries are sorted by coordinate, and the byte
// stream emits delimitersBetween(prev, curr) followed by the scroll
// content, where prev begins at the origin. explode(implode(s)) == s.
//
// This is the reference, copying implementation: it calls s.Clone()
// and walks the copy. Prefer ImplodeBorrow on the hot serialization
// path (spec §9: "the hot path must never duplicate the mapping").
func Implode(s *store.Store) []byte {
	var w bytes.Buffer
	prev := coord.Origin
	s.Clone().Walk(func(c coord.Coordinate, scroll string) {
		delimitersBetween(&w, prev, c)
		w.WriteString(scroll)
		prev = c
	})
	return w.Bytes()
}

// ImplodeBorrow is the borrow-only variant of Implode: it walks s by
// reference under a single read lock and writes through to a sink
// pre-sized from the sum of value lengths plus per-entry delimiter
// slack, never duplicating the map. It is byte-equivalent to Implode
// (spec §8 property 6 / scenario 6).
func ImplodeBorrow(s *store.Store) []byte {
	// size hint: scroll bytes + up to 9 delimiter bytes of slack per entry
	hint := 9 * s.Len()
	w := bytes.NewBuffer(make([]byte, 0, hint+s.TotalBytes()))
	prev := coord.Origin
	s.Walk(func(c coord.Coordinate, scroll string) {
		delimitersBetween(w, prev, c)
		w.WriteString(scroll)
		prev = c
	})
	return w.Bytes()
}

// Fetch walks buf maintaining a cursor and returns the accumulator
// whose flush matches target, or "" if target never appears. O(len(buf)).
func Fetch(buf []byte, target coord.Coordinate) string {
	cursor := coord.Origin
	var acc bytes.Buffer
	flushMatches := func() (string, bool) {
		if cursor.Equal(target) {
			return acc.String(), true
		}
		return "", false
	}

	for _, b := range buf {
		if level, ok := isDelimiter(b); ok {
			if acc.Len() > 0 {
				if v, matched := flushMatches(); matched {
					return v
				}
			}
			acc.Reset()
			cursor.Break(level)
			continue
		}
		acc.WriteByte(b)
	}
	if acc.Len() > 0 {
		if v, matched := flushMatches(); matched {
			return v
		}
	}
	return ""
}

// Replace composes explode -> set(coord, content) -> implode, producing
// a new byte stream with the scroll at c overwritten (or created).
func Replace(buf []byte, c coord.Coordinate, content string) []byte {
	s := Explode(buf)
	s.Set(c, content)
	return ImplodeBorrow(s)
}

// Insert composes explode -> append-to(coord, content) -> implode,
// producing a new byte stream with content appended to the existing
// scroll at c (or created if absent).
func Insert(buf []byte, c coord.Coordinate, content string) []byte {
	s := Explode(buf)
	s.Set(c, s.Get(c)+content)
	return ImplodeBorrow(s)
}

// Textmap renders one line per non-empty scroll in ascending order:
// "* <coord>: <first-line-of-scroll>\n" (spec §4.B.5).
func Textmap(buf []byte) string {
	s := Explode(buf)
	var b strings.Builder
	s.Walk(func(c coord.Coordinate, scroll string) {
		firstLine := scroll
		if idx := strings.IndexByte(scroll, '\n'); idx >= 0 {
			firstLine = scroll[:idx]
		}
		b.WriteString("* ")
		b.WriteString(c.String())
		b.WriteString(": ")
		b.WriteString(firstLine)
		b.WriteByte('\n')
	})
	return b.String()
}

// Subtract returns a phext containing every (coord, scroll) present in
// a whose scroll differs from the scroll at the same coord in b, or
// whose coord is absent from b (spec §4.B.6).
func Subtract(a, b []byte) []byte {
	sa := Explode(a)
	sb := Explode(b)
	out := store.New()
	sa.Walk(func(c coord.Coordinate, scroll string) {
		if sb.Get(c) != scroll {
			out.Set(c, scroll)
		}
	})
	return ImplodeBorrow(out)
}
