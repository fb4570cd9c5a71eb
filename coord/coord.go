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

// Package coord implements the nine-component hierarchical coordinate
// algebra that addresses every scroll in a phext.
package coord

import (
	"fmt"
	"strconv"
	"strings"
)

// Maximum is the per-component ceiling. Components are valid in [1, Maximum).
const Maximum = 100000

// Coordinate is the ordered 9-tuple (library, shelf, series / collection,
// volume, book / chapter, section, scroll) that addresses a scroll.
type Coordinate struct {
	Library, Shelf, Series         int
	Collection, Volume, Book       int
	Chapter, Section, Scroll       int
}

// Origin is the coordinate (1.1.1/1.1.1/1.1.1).
var Origin = Coordinate{1, 1, 1, 1, 1, 1, 1, 1, 1}

// New parses the canonical "z1.z2.z3/y1.y2.y3/x1.x2.x3" form.
func New(s string) (Coordinate, error) {
	var c Coordinate
	triples := strings.Split(s, "/")
	if len(triples) != 3 {
		return c, fmt.Errorf("coord: expected 3 slash-separated triples, got %d in %q", len(triples), s)
	}
	dst := [][]*int{
		{&c.Library, &c.Shelf, &c.Series},
		{&c.Collection, &c.Volume, &c.Book},
		{&c.Chapter, &c.Section, &c.Scroll},
	}
	for i, triple := range triples {
		parts := strings.Split(triple, ".")
		if len(parts) != 3 {
			return c, fmt.Errorf("coord: expected 3 dot-separated components, got %d in %q", len(parts), triple)
		}
		for j, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return c, fmt.Errorf("coord: component %q is not an integer: %w", p, err)
			}
			*dst[i][j] = n
		}
	}
	return c, nil
}

// MustNew is New, panicking on malformed input. Intended for literals and tests.
func MustNew(s string) Coordinate {
	c, err := New(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders the canonical form.
func (c Coordinate) String() string {
	return fmt.Sprintf("%d.%d.%d/%d.%d.%d/%d.%d.%d",
		c.Library, c.Shelf, c.Series,
		c.Collection, c.Volume, c.Book,
		c.Chapter, c.Section, c.Scroll)
}

// Valid reports whether every component lies in [1, Maximum).
func (c Coordinate) Valid() bool {
	for _, v := range c.components() {
		if v < 1 || v >= Maximum {
			return false
		}
	}
	return true
}

func (c Coordinate) components() [9]int {
	return [9]int{
		c.Library, c.Shelf, c.Series,
		c.Collection, c.Volume, c.Book,
		c.Chapter, c.Section, c.Scroll,
	}
}

// Less implements the lexicographic ordering from library down to scroll.
func (c Coordinate) Less(other Coordinate) bool {
	a, b := c.components(), other.components()
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Equal reports component-wise equality.
func (c Coordinate) Equal(other Coordinate) bool {
	return c == other
}

// ScrollBreak advances the scroll level.
func (c *Coordinate) ScrollBreak() {
	c.Scroll++
}

// SectionBreak advances the section level and resets scroll.
func (c *Coordinate) SectionBreak() {
	c.Section++
	c.Scroll = 1
}

// ChapterBreak advances the chapter level and resets section/scroll.
func (c *Coordinate) ChapterBreak() {
	c.Chapter++
	c.Section = 1
	c.Scroll = 1
}

// BookBreak advances the book level and resets chapter/section/scroll.
func (c *Coordinate) BookBreak() {
	c.Book++
	c.Chapter = 1
	c.Section = 1
	c.Scroll = 1
}

// VolumeBreak advances the volume level and resets book/chapter/section/scroll.
func (c *Coordinate) VolumeBreak() {
	c.Volume++
	c.Book = 1
	c.Chapter = 1
	c.Section = 1
	c.Scroll = 1
}

// CollectionBreak advances the collection level and resets everything below.
func (c *Coordinate) CollectionBreak() {
	c.Collection++
	c.Volume = 1
	c.Book = 1
	c.Chapter = 1
	c.Section = 1
	c.Scroll = 1
}

// SeriesBreak advances the series level and resets everything below.
func (c *Coordinate) SeriesBreak() {
	c.Series++
	c.Collection = 1
	c.Volume = 1
	c.Book = 1
	c.Chapter = 1
	c.Section = 1
	c.Scroll = 1
}

// ShelfBreak advances the shelf level and resets everything below.
func (c *Coordinate) ShelfBreak() {
	c.Shelf++
	c.Series = 1
	c.Collection = 1
	c.Volume = 1
	c.Book = 1
	c.Chapter = 1
	c.Section = 1
	c.Scroll = 1
}

// LibraryBreak advances the library level and resets everything below.
func (c *Coordinate) LibraryBreak() {
	c.Library++
	c.Shelf = 1
	c.Series = 1
	c.Collection = 1
	c.Volume = 1
	c.Book = 1
	c.Chapter = 1
	c.Section = 1
	c.Scroll = 1
}

// Level identifies one of the nine coordinate components, ordered
// highest (Library) to lowest (Scroll).
type Level int

const (
	Library Level = iota
	Shelf
	Series
	Collection
	Volume
	Book
	Chapter
	Section
	Scroll
)

// Levels lists every level from highest to lowest.
var Levels = [9]Level{Library, Shelf, Series, Collection, Volume, Book, Chapter, Section, Scroll}

// Break advances the coordinate at the given level and resets everything below it.
func (c *Coordinate) Break(l Level) {
	switch l {
	case Library:
		c.LibraryBreak()
	case Shelf:
		c.ShelfBreak()
	case Series:
		c.SeriesBreak()
	case Collection:
		c.CollectionBreak()
	case Volume:
		c.VolumeBreak()
	case Book:
		c.BookBreak()
	case Chapter:
		c.ChapterBreak()
	case Section:
		c.SectionBreak()
	case Scroll:
		c.ScrollBreak()
	}
}

// at returns the component value at the given level.
func (c Coordinate) at(l Level) int {
	return c.components()[l]
}

// At returns the component value at the given level.
func (c Coordinate) At(l Level) int {
	return c.at(l)
}

// SetLevel assigns the component value at the given level.
func (c *Coordinate) SetLevel(l Level, v int) {
	c.set(l, v)
}

// set assigns the component value at the given level.
func (c *Coordinate) set(l Level, v int) {
	switch l {
	case Library:
		c.Library = v
	case Shelf:
		c.Shelf = v
	case Series:
		c.Series = v
	case Collection:
		c.Collection = v
	case Volume:
		c.Volume = v
	case Book:
		c.Book = v
	case Chapter:
		c.Chapter = v
	case Section:
		c.Section = v
	case Scroll:
		c.Scroll = v
	}
}

// HighestDiff returns the highest level at which prev and curr differ,
// and whether they differ at all.
func HighestDiff(prev, curr Coordinate) (Level, bool) {
	for _, l := range Levels {
		if prev.at(l) != curr.at(l) {
			return l, true
		}
	}
	return 0, false
}
