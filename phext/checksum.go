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
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// Checksum returns a deterministic hex digest of data, stable across
// processes. This rewrite resolves spec §9's open question: rather
// than a hash of an ad hoc string (not collision-resistant, and not
// reproducible byte-for-byte across implementations), it combines two
// seeded xxhash passes into a fixed 128-bit digest. xxhash is already
// present in the wider example pack (an indirect dependency of both
// sqldef-sqldef and AKJUS-bsc-erigon) and is, like the source
// algorithm, explicitly non-cryptographic but fast and stable.
func Checksum(data []byte) string {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], xxhash.Sum64(data))
	binary.BigEndian.PutUint64(buf[8:16], xxhash.Sum64(append([]byte{0xa5}, data...)))
	return hex.EncodeToString(buf[:])
}
