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

// Package metrics tracks connection admission counters the way
// scm/metrics.go tracks HTTP connections in the teacher: a single
// atomic per counter, no hot-path mutex, read by the server's
// admission gate.
package metrics

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// ActiveConnections is the current number of admitted, not-yet-closed
// connections.
var ActiveConnections int64

// TotalConnections counts every connection ever admitted.
var TotalConnections int64

// RejectedConnections counts connections turned away at admission
// (spec §4.G step 1, 503).
var RejectedConnections int64

// connIDCounter seeds NewConnectionID; see storage/fast_uuid.go in the
// teacher for the rationale (avoid a crypto/rand syscall per
// connection — a counter-seeded, non-cryptographic id is sufficient
// here since connection ids are a logging/debugging aid, not a
// security boundary).
var connIDCounter uint64

// NewConnectionID returns a fast, unique-enough id for one connection,
// formatted as a UUID for log readability.
func NewConnectionID() string {
	ctr := atomic.AddUint64(&connIDCounter, 1)
	var b [16]byte
	b[0], b[1], b[2], b[3] = byte(ctr>>24), byte(ctr>>16), byte(ctr>>8), byte(ctr)
	b[4], b[5], b[6], b[7] = byte(ctr>>56), byte(ctr>>48), byte(ctr>>40), byte(ctr>>32)
	id := uuid.UUID(b)
	return id.String()
}

// Admit increments the live counters. Release must be called exactly
// once per successful Admit, on every exit path (spec §4.G step 9).
func Admit() {
	atomic.AddInt64(&ActiveConnections, 1)
	atomic.AddInt64(&TotalConnections, 1)
}

// Release decrements the live counter.
func Release() {
	atomic.AddInt64(&ActiveConnections, -1)
}

// Reject records a connection turned away by the admission gate.
func Reject() {
	atomic.AddInt64(&RejectedConnections, 1)
}

// Snapshot is a point-in-time read of the counters.
type Snapshot struct {
	Active   int64
	Total    int64
	Rejected int64
}

// Current reads all counters atomically (per-field, not as one
// transaction — acceptable since these are independent monotonic/
// up-down counters used for observability, not for correctness
// decisions).
func Current() Snapshot {
	return Snapshot{
		Active:   atomic.LoadInt64(&ActiveConnections),
		Total:    atomic.LoadInt64(&TotalConnections),
		Rejected: atomic.LoadInt64(&RejectedConnections),
	}
}
