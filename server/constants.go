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

// Package server implements the HTTP/REST surface (spec §4.G): request
// parsing, CORS, multi-tenant auth, path sandboxing, connection
// admission, and mutation-only persistence.
package server

import "time"

const (
	// MaxHeaderBytes caps the request header buffer (spec §4.G: "16-64
	// KB, rejected as 400 if exceeded").
	MaxHeaderBytes = 32 * 1024

	// MaxBodySize caps a request body (spec §4.G: "rejected as 413").
	MaxBodySize = 64 * 1024 * 1024

	// MaxBufferSize caps an in-memory phext on load (spec §5: "truncated
	// to MAX_BUFFER_SIZE (512 MB)").
	MaxBufferSize = 512 * 1024 * 1024

	// MaxConcurrentConnections bounds admission (spec §5).
	MaxConcurrentConnections = 512

	// ConnectionTimeout is the default read/write timeout per call
	// (spec §5: "30 s each").
	ConnectionTimeout = 30 * time.Second
)
