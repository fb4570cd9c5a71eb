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
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/sqdb/sq/coord"
	"github.com/sqdb/sq/phext"
)

func mustHexDecode(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		// phext.Checksum always returns a valid hex string
		panic(err)
	}
	return b
}

// phoken is a lexical unit carrying a component coordinate, the unit
// the XOR algorithm folds together (spec §4.F).
type phoken struct {
	body  string
	level coord.Level // which of the nine components this phoken contributes to
}

// tokenize splits text into phokens: every whitespace-delimited word is
// one phoken, and phokens cycle through the nine coordinate levels in
// document order (word 1 contributes to Scroll, word 2 to Section, ...
// wrapping back to Scroll after Library), so a long text exercises
// every component of the composite coordinate. This is a
// library-defined tokenization (spec §4.F leaves the scheme open); it
// is deterministic for a given input, which is the only property the
// protocol relies on.
func tokenize(text string) []phoken {
	words := strings.Fields(text)
	result := make([]phoken, len(words))
	for i, word := range words {
		result[i] = phoken{body: word, level: coord.Levels[len(coord.Levels)-1-i%len(coord.Levels)]}
	}
	return result
}

// Infer maps free text to a coordinate using the named algorithm
// ("xor" or "checksum"), per spec §4.F. The bool reports whether the
// result is a usable (non-zero-component) coordinate — spec §9's open
// question asks that this rewrite surface rather than silently return
// an invalid key.
func Infer(text string, algorithm string, limit int) (coord.Coordinate, bool) {
	switch algorithm {
	case "checksum":
		return inferChecksum(text)
	default: // "xor" is the default per spec §6
		return inferXOR(text, limit)
	}
}

// inferXOR XORs the per-component coordinates of every phoken whose
// body length is >= limit into a composite. Components default to 0
// prior to XOR, so a text with no qualifying phoken yields the zero
// coordinate — definitionally invalid.
func inferXOR(text string, limit int) (coord.Coordinate, bool) {
	var composite coord.Coordinate
	for _, tok := range tokenize(text) {
		if len(tok.body) < limit {
			continue
		}
		c := phokenCoordinate(tok)
		composite.Library ^= c.Library
		composite.Shelf ^= c.Shelf
		composite.Series ^= c.Series
		composite.Collection ^= c.Collection
		composite.Volume ^= c.Volume
		composite.Book ^= c.Book
		composite.Chapter ^= c.Chapter
		composite.Section ^= c.Section
		composite.Scroll ^= c.Scroll
	}
	return composite, composite.Valid()
}

// phokenCoordinate gives a phoken a coordinate that is zero everywhere
// except at its own level, where it carries a value derived from its
// body's checksum. XORing many phokens together therefore lets each
// word nudge only the component its position in the document assigns
// it to, rather than every component at once.
func phokenCoordinate(tok phoken) coord.Coordinate {
	digest := phext.Checksum([]byte(tok.body))
	raw := mustHexDecode(digest)
	v := binary.BigEndian.Uint16(raw[0:2])

	var c coord.Coordinate
	c.SetLevel(tok.level, int(v))
	return c
}

// inferChecksum computes checksum(text), takes the leading 18 bytes as
// nine big-endian 16-bit values, reduces each modulo 999 (mapping 0 to
// 1), and assigns them in coordinate order (spec §4.F). The checksum
// hex string is decoded back to bytes first; phext.Checksum returns
// 16 bytes (32 hex chars), fewer than the 18 needed, so the digest is
// repeated until 18 bytes are available.
func inferChecksum(text string) (coord.Coordinate, bool) {
	digest := phext.Checksum([]byte(text))
	raw := hexDecodeDoubled(digest, 18)

	var vals [9]uint16
	for i := 0; i < 9; i++ {
		vals[i] = binary.BigEndian.Uint16(raw[i*2 : i*2+2])
	}

	var c coord.Coordinate
	dst := []*int{
		&c.Library, &c.Shelf, &c.Series,
		&c.Collection, &c.Volume, &c.Book,
		&c.Chapter, &c.Section, &c.Scroll,
	}
	for i, v := range vals {
		n := int(v % 999)
		if n == 0 {
			n = 1
		}
		*dst[i] = n
	}
	return c, c.Valid()
}

// hexDecodeDoubled decodes hexStr to bytes, repeating the digest as
// many times as needed to produce at least n bytes.
func hexDecodeDoubled(hexStr string, n int) []byte {
	decoded := mustHexDecode(hexStr)
	for len(decoded) < n {
		decoded = append(decoded, mustHexDecode(hexStr)...)
	}
	return decoded[:n]
}
