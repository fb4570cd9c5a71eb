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
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// CompressedSuffix marks a phext file as lz4-framed on disk. load/save/
// get transparently compress or decompress based on this suffix, the
// same way the teacher's storage layer picks a codec per file
// extension rather than per explicit flag.
const CompressedSuffix = ".lz4"

// ReadFile loads path, transparently lz4-decompressing it if its name
// ends in CompressedSuffix.
func ReadFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, CompressedSuffix) {
		return raw, nil
	}
	var out bytes.Buffer
	if _, err := io.Copy(&out, lz4.NewReader(bytes.NewReader(raw))); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// WriteFile writes buf to path, transparently lz4-compressing it if
// its name ends in CompressedSuffix.
func WriteFile(path string, buf []byte, perm os.FileMode) error {
	encoded, err := Encode(path, buf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, encoded, perm)
}

// Encode returns buf lz4-compressed if path ends in CompressedSuffix,
// or buf unchanged otherwise. Exposed separately from WriteFile so
// callers that stage a write through a temp file (whose name does not
// carry path's suffix) can encode once and write the result under
// whatever name they choose.
func Encode(path string, buf []byte) ([]byte, error) {
	if !strings.HasSuffix(path, CompressedSuffix) {
		return buf, nil
	}
	var compressed bytes.Buffer
	zw := lz4.NewWriter(&compressed)
	if _, err := zw.Write(buf); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return compressed.Bytes(), nil
}
