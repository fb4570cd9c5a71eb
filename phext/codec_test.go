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

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sqdb/sq/coord"
)

func TestInsertIntoEmpty(t *testing.T) {
	out := Insert(nil, coord.MustNew("1.1.1/1.1.1/1.1.2"), "Hello World!")
	want := []byte("\x17Hello World!")
	if !bytes.Equal(out, want) {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestSelectScenario(t *testing.T) {
	buf := []byte("\x17\x17Third Scroll Content")
	got := Fetch(buf, coord.MustNew("1.1.1/1.1.1/1.1.3"))
	if got != "Third Scroll Content" {
		t.Fatalf("got %q", got)
	}
}

func TestUpdateScenario(t *testing.T) {
	buf := []byte("\x17\x18\x17Third Scroll Original")
	out := Replace(buf, coord.MustNew("1.1.1/1.1.1/1.2.2"), "Full Rewrite at 1.2.2")
	want := []byte("\x18\x17Full Rewrite at 1.2.2")
	if !bytes.Equal(out, want) {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestDeleteScenario(t *testing.T) {
	buf := []byte("\x17\x18\x17Third Scroll Original")
	s := Explode(buf)
	removed := s.Remove(coord.MustNew("1.1.1/1.1.1/1.2.2"))
	if removed != "Third Scroll Original" {
		t.Fatalf("removed = %q", removed)
	}
	if out := ImplodeBorrow(s); len(out) != 0 {
		t.Fatalf("expected empty stream after delete, got %q", out)
	}
}

func TestTextmapScenario(t *testing.T) {
	buf := "hello\x17from\x18beyond\x19the\x1astars\x1cnot\x1dan\x1eevil\x1ffuzzle\x01just a warm fuzzy."
	got := Textmap([]byte(buf))
	firstWant := "* 1.1.1/1.1.1/1.1.1: hello\n"
	if len(got) < len(firstWant) || got[:len(firstWant)] != firstWant {
		t.Fatalf("first line = %q, want prefix %q", got, firstWant)
	}
	lastWant := "* 2.1.1/1.1.1/1.1.1: just a warm fuzzy.\n"
	if len(got) < len(lastWant) || got[len(got)-len(lastWant):] != lastWant {
		t.Fatalf("last line = %q, want suffix %q", got, lastWant)
	}
}

func TestRoundTrip(t *testing.T) {
	s := Explode(nil)
	s.Set(coord.MustNew("1.1.1/1.1.1/1.1.1"), "alpha")
	s.Set(coord.MustNew("1.1.1/1.1.1/1.1.5"), "beta")
	s.Set(coord.MustNew("1.1.1/1.2.1/1.1.1"), "gamma")
	s.Set(coord.MustNew("3.1.1/1.1.1/1.1.1"), "delta")

	buf := ImplodeBorrow(s)
	back := Explode(buf)

	for _, c := range []string{"1.1.1/1.1.1/1.1.1", "1.1.1/1.1.1/1.1.5", "1.1.1/1.2.1/1.1.1", "3.1.1/1.1.1/1.1.1"} {
		cc := coord.MustNew(c)
		if back.Get(cc) != s.Get(cc) {
			t.Fatalf("round-trip mismatch at %s: got %q want %q", c, back.Get(cc), s.Get(cc))
		}
	}
	if back.Len() != s.Len() {
		t.Fatalf("round-trip length mismatch: got %d want %d", back.Len(), s.Len())
	}
}

func TestImplodeAndImplodeBorrowAgree(t *testing.T) {
	s := Explode(nil)
	for i := 0; i < 1000; i++ {
		c := coord.Coordinate{1, 1, 1, 1, 1, 1, 1, 1, i + 1}
		s.Set(c, fmt.Sprintf("scroll-%04d-%s", i, bytes.Repeat([]byte("x"), 1000)))
	}
	a := Implode(s)
	b := ImplodeBorrow(s)
	if !bytes.Equal(a, b) {
		t.Fatal("Implode and ImplodeBorrow disagree")
	}
}

func TestSubtract(t *testing.T) {
	a := Insert(nil, coord.MustNew("1.1.1/1.1.1/1.1.1"), "same")
	a = Insert(a, coord.MustNew("1.1.1/1.1.1/1.1.2"), "different-a")
	b := Insert(nil, coord.MustNew("1.1.1/1.1.1/1.1.1"), "same")

	diff := Explode(Subtract(a, b))
	if diff.Get(coord.MustNew("1.1.1/1.1.1/1.1.1")) != "" {
		t.Fatal("identical scroll should not appear in subtract result")
	}
	if diff.Get(coord.MustNew("1.1.1/1.1.1/1.1.2")) != "different-a" {
		t.Fatal("scroll absent from b should appear in subtract result")
	}
}

func TestNoEmptyScrollsMaterialized(t *testing.T) {
	s := Explode([]byte("\x17\x17content"))
	for _, c := range s.Keys() {
		if s.Get(c) == "" {
			t.Fatalf("empty scroll materialized at %s", c)
		}
	}
}
