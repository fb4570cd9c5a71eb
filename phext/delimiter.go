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

package phext

import "github.com/sqdb/sq/coord"

// Delimiter byte values, highest level first. These are the nine
// distinguished bytes a phext parser counts to recover coordinates
// from a flat byte stream.
const (
	LibraryBreak    byte = 0x01
	ShelfBreak      byte = 0x1F
	SeriesBreak     byte = 0x1E
	CollectionBreak byte = 0x1D
	VolumeBreak     byte = 0x1C
	BookBreak       byte = 0x1A
	ChapterBreak    byte = 0x19
	SectionBreak    byte = 0x18
	ScrollBreak     byte = 0x17
)

// delimiterByLevel maps a coord.Level to its delimiter byte, highest
// level (Library) to lowest (Scroll), matching the table in spec §3.
var delimiterByLevel = [9]byte{
	coord.Library:    LibraryBreak,
	coord.Shelf:      ShelfBreak,
	coord.Series:     SeriesBreak,
	coord.Collection: CollectionBreak,
	coord.Volume:     VolumeBreak,
	coord.Book:       BookBreak,
	coord.Chapter:    ChapterBreak,
	coord.Section:    SectionBreak,
	coord.Scroll:     ScrollBreak,
}

// levelByDelimiter is the inverse of delimiterByLevel, used by the parser.
var levelByDelimiter = map[byte]coord.Level{
	LibraryBreak:    coord.Library,
	ShelfBreak:      coord.Shelf,
	SeriesBreak:     coord.Series,
	CollectionBreak: coord.Collection,
	VolumeBreak:     coord.Volume,
	BookBreak:       coord.Book,
	ChapterBreak:    coord.Chapter,
	SectionBreak:    coord.Section,
	ScrollBreak:     coord.Scroll,
}

// isDelimiter reports whether b is one of the nine delimiter bytes, and
// if so at which level.
func isDelimiter(b byte) (coord.Level, bool) {
	l, ok := levelByDelimiter[b]
	return l, ok
}
