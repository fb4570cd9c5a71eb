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

package coord

import "testing"

func TestNewAndString(t *testing.T) {
	c, err := New("1.2.3/4.5.6/7.8.9")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := Coordinate{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if c != want {
		t.Fatalf("got %+v, want %+v", c, want)
	}
	if got := c.String(); got != "1.2.3/4.5.6/7.8.9" {
		t.Fatalf("String() = %q", got)
	}
}

func TestNewRejectsMalformed(t *testing.T) {
	cases := []string{"", "1.2.3", "1.2.3/4.5.6", "1.2/4.5.6/7.8.9", "a.2.3/4.5.6/7.8.9"}
	for _, s := range cases {
		if _, err := New(s); err == nil {
			t.Errorf("New(%q): expected error, got none", s)
		}
	}
}

func TestValid(t *testing.T) {
	if !Origin.Valid() {
		t.Fatal("origin should be valid")
	}
	zero := Coordinate{}
	if zero.Valid() {
		t.Fatal("zero coordinate should be invalid")
	}
	overflow := Origin
	overflow.Scroll = Maximum
	if overflow.Valid() {
		t.Fatal("component == Maximum should be invalid")
	}
}

func TestLess(t *testing.T) {
	a := MustNew("1.1.1/1.1.1/1.1.1")
	b := MustNew("1.1.1/1.1.1/1.1.2")
	c := MustNew("1.1.1/1.1.2/1.1.1")
	if !a.Less(b) {
		t.Fatal("a should be less than b")
	}
	if !b.Less(c) {
		t.Fatal("b should be less than c (higher level dominates)")
	}
	if c.Less(a) {
		t.Fatal("c should not be less than a")
	}
}

func TestBreaksResetLowerLevels(t *testing.T) {
	c := MustNew("1.1.1/1.1.1/1.2.3")
	c.SectionBreak()
	if c.Section != 3 || c.Scroll != 1 {
		t.Fatalf("section break: got section=%d scroll=%d", c.Section, c.Scroll)
	}

	c = MustNew("1.1.1/1.2.3/4.5.6")
	c.VolumeBreak()
	if c.Volume != 3 || c.Book != 1 || c.Chapter != 1 || c.Section != 1 || c.Scroll != 1 {
		t.Fatalf("volume break did not reset everything below: %+v", c)
	}

	c = MustNew("1.2.3/4.5.6/7.8.9")
	c.LibraryBreak()
	want := Coordinate{2, 1, 1, 1, 1, 1, 1, 1, 1}
	if c != want {
		t.Fatalf("library break: got %+v, want %+v", c, want)
	}
}

func TestHighestDiff(t *testing.T) {
	a := MustNew("1.1.1/1.1.1/1.1.1")
	b := MustNew("1.1.1/1.1.1/1.1.2")
	level, differ := HighestDiff(a, b)
	if !differ || level != Scroll {
		t.Fatalf("got level=%v differ=%v, want Scroll true", level, differ)
	}

	c := MustNew("2.1.1/1.1.1/1.1.1")
	level, differ = HighestDiff(a, c)
	if !differ || level != Library {
		t.Fatalf("got level=%v differ=%v, want Library true", level, differ)
	}

	_, differ = HighestDiff(a, a)
	if differ {
		t.Fatal("identical coordinates should not differ")
	}
}

func TestAtAndSetLevel(t *testing.T) {
	var c Coordinate
	c.SetLevel(Book, 42)
	if c.At(Book) != 42 {
		t.Fatalf("At(Book) = %d, want 42", c.At(Book))
	}
	if c.Book != 42 {
		t.Fatalf("c.Book = %d, want 42", c.Book)
	}
}
