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
	"testing"

	"github.com/sqdb/sq/coord"
	"github.com/sqdb/sq/phext"
	"github.com/sqdb/sq/store"
)

func TestDeltaReconcilesDifferingAndMissingScrolls(t *testing.T) {
	requester := store.New()
	requester.Set(coord.MustNew("1.1.1/1.1.1/1.1.1"), "unchanged")
	requester.Set(coord.MustNew("1.1.1/1.1.1/1.1.2"), "stale-on-requester")
	requester.Set(coord.MustNew("1.1.1/1.1.1/1.1.3"), "only-on-requester")

	manifest := BuildManifest(requester)

	peer := store.New()
	peer.Set(coord.MustNew("1.1.1/1.1.1/1.1.1"), "unchanged")
	peer.Set(coord.MustNew("1.1.1/1.1.1/1.1.2"), "fresh-on-peer")
	peer.Set(coord.MustNew("1.1.1/1.1.1/1.1.4"), "only-on-peer")

	delta := BuildDelta(peer, manifest)
	ApplyDelta(requester, delta)

	if got := requester.Get(coord.MustNew("1.1.1/1.1.1/1.1.2")); got != "fresh-on-peer" {
		t.Fatalf("differing scroll should be overwritten, got %q", got)
	}
	if got := requester.Get(coord.MustNew("1.1.1/1.1.1/1.1.4")); got != "only-on-peer" {
		t.Fatalf("peer-only scroll should be added, got %q", got)
	}
	if requester.Contains(coord.MustNew("1.1.1/1.1.1/1.1.3")) {
		t.Fatal("requester-only scroll absent from peer should be tombstoned away")
	}
	if got := requester.Get(coord.MustNew("1.1.1/1.1.1/1.1.1")); got != "unchanged" {
		t.Fatalf("identical scroll should be left alone, got %q", got)
	}
}

func TestChecksumDeterministic(t *testing.T) {
	s := store.New()
	s.Set(coord.MustNew("1.1.1/1.1.1/1.1.1"), "same content")
	a := phext.Checksum(phext.ImplodeBorrow(s))
	b := phext.Checksum(phext.ImplodeBorrow(s))
	if a != b {
		t.Fatalf("checksum not deterministic: %q vs %q", a, b)
	}
}

func TestBuildDeltaIgnoresMalformedManifestLines(t *testing.T) {
	s := store.New()
	s.Set(coord.MustNew("1.1.1/1.1.1/1.1.1"), "content")
	malformed := "not a valid line\n\n1.1.1/1.1.1/1.1.1\n"
	// Should not panic despite missing colons / bad coordinates.
	_ = BuildDelta(s, malformed)
}
