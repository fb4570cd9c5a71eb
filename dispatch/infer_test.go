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

import "testing"

func TestInferIsDeterministic(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	a, aValid := Infer(text, "xor", 0)
	b, bValid := Infer(text, "xor", 0)
	if a != b || aValid != bValid {
		t.Fatalf("xor inference not deterministic: %v/%v vs %v/%v", a, aValid, b, bValid)
	}

	c, cValid := Infer(text, "checksum", 0)
	d, dValid := Infer(text, "checksum", 0)
	if c != d || cValid != dValid {
		t.Fatalf("checksum inference not deterministic: %v/%v vs %v/%v", c, cValid, d, dValid)
	}
}

func TestInferEmptyTextIsInvalid(t *testing.T) {
	c, valid := Infer("", "xor", 0)
	if valid {
		t.Fatalf("empty text should not yield a valid coordinate, got %v", c)
	}
}

func TestInferChecksumAlwaysValid(t *testing.T) {
	// inferChecksum maps 0 to 1 at every component, so it can never
	// produce the zero coordinate the way XOR-with-no-input can.
	_, valid := Infer("x", "checksum", 0)
	if !valid {
		t.Fatal("checksum inference should always be valid for non-empty input")
	}
}

func TestInferLimitFiltersShortWords(t *testing.T) {
	short, shortValid := Infer("a b c", "xor", 5)
	if shortValid {
		t.Fatalf("all-short-word text with limit=5 should fold nothing in, got %v", short)
	}
}
