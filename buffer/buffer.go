// Copyright (C) 2024 The Vortex Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package buffer implements Buffer, a reference-counted, 128-byte
// aligned contiguous byte region. Buffers are immutable once
// published; Slice mints a new handle over the same backing
// allocation rather than copying, the way ion.Datum shares its
// interned symbol-table slice across Clone.
package buffer

import "github.com/vortex-data/vortex-go/ints"

// Alignment is the minimum guaranteed alignment, in bytes, of the
// start of every Buffer's data (§3.2).
const Alignment = 128

// alloc is the shared backing allocation. Multiple Buffer handles may
// point into the same alloc at different offsets; it is freed by the
// garbage collector once the last handle referencing it is dropped
// (Go's GC stands in for the explicit refcounting the source
// implementation performs — there are no cycles through Buffer).
type alloc struct {
	data []byte
}

// Buffer is a cheap-to-clone handle over a byte range of a shared
// allocation.
type Buffer struct {
	a      *alloc
	off    int
	length int
}

// New allocates a fresh Buffer of n bytes, zero-filled, aligned to
// Alignment.
func New(n int) Buffer {
	padded := int(ints.AlignUp(uint(n), Alignment)) + Alignment
	raw := make([]byte, padded)
	base := alignOffset(raw)
	return Buffer{a: &alloc{data: raw}, off: base, length: n}
}

// alignOffset returns the offset into raw at which an Alignment-byte
// aligned region of at least len(raw)-Alignment bytes begins.
func alignOffset(raw []byte) int {
	if len(raw) == 0 {
		return 0
	}
	addr := uintptrOf(raw)
	aligned := int(ints.AlignUp(uint(addr), Alignment)) - int(addr)
	if aligned < 0 {
		aligned += Alignment
	}
	return aligned
}

// FromBytes wraps an existing byte slice as a Buffer without copying
// when it already satisfies the alignment invariant, and copies into a
// freshly aligned allocation otherwise — the same policy §6 requires
// of imported Arrow buffers.
func FromBytes(b []byte) Buffer {
	if isAligned(b) {
		return Buffer{a: &alloc{data: b}, off: 0, length: len(b)}
	}
	nb := New(len(b))
	copy(nb.Bytes(), b)
	return nb
}

func isAligned(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	return uintptrOf(b)%Alignment == 0
}

// Len returns the length of the buffer's visible byte range.
func (b Buffer) Len() int { return b.length }

// Bytes returns the buffer's visible byte range. Callers must not
// mutate it: buffers are immutable once published.
func (b Buffer) Bytes() []byte {
	if b.a == nil {
		return nil
	}
	return b.a.data[b.off : b.off+b.length]
}

// Slice returns a new Buffer handle sharing the same allocation,
// covering [start, stop) of the current visible range. O(1).
func (b Buffer) Slice(start, stop int) Buffer {
	if start < 0 || stop > b.length || start > stop {
		panic("buffer: slice out of range")
	}
	return Buffer{a: b.a, off: b.off + start, length: stop - start}
}

// SameAllocation reports whether a and b share the same backing
// allocation — used by tests to assert O(1) slice byte-identity
// (§8 end-to-end scenario 5).
func SameAllocation(a, b Buffer) bool {
	return a.a == b.a
}

// IsAligned reports whether the buffer's start address satisfies
// Alignment. Always true for buffers returned by New and FromBytes.
func (b Buffer) IsAligned() bool {
	return isAligned(b.Bytes())
}
