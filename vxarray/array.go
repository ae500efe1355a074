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

// Package vxarray implements Vortex's polymorphic Array handle: an
// (encoding id, dtype, metadata, children, buffers) tuple plus a lazy
// statistics cache, the global encoding registry that interprets that
// tuple, and the compute-dispatch free functions that route through
// it. This is the one package every encoding implementation and the
// sampling compressor depend on.
package vxarray

import (
	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/vxerror"
)

// Array is a tagged handle over a polymorphic physical encoding (§3.4).
// It is cheap to copy (a handful of words plus shared slice headers);
// copying an Array never deep-copies its buffers or children.
type Array struct {
	encodingID EncodingID
	dt         dtype.DType
	length     int
	metadata   []byte
	children   []Array
	buffers    []buffer.Buffer
	stats      *statCache
}

// TryNewParts is the constructor the IPC/file-format collaborators use
// to rebuild an Array from its wire representation (§6,
// Array::try_from_parts). It validates the result against the
// encoding's own schema before returning it.
func TryNewParts(id EncodingID, dt dtype.DType, length int, metadata []byte, children []Array, buffers []buffer.Buffer) (Array, error) {
	a := Array{
		encodingID: id,
		dt:         dt,
		length:     length,
		metadata:   metadata,
		children:   children,
		buffers:    buffers,
		stats:      newStatCache(),
	}
	if id == OpaqueID {
		return a, nil
	}
	if err := Lookup(id).Validate(a); err != nil {
		return Array{}, err
	}
	return a, nil
}

// MustNewParts is TryNewParts but panics on error; used internally by
// encoding constructors that have already validated their own inputs.
func MustNewParts(id EncodingID, dt dtype.DType, length int, metadata []byte, children []Array, buffers []buffer.Buffer) Array {
	a, err := TryNewParts(id, dt, length, metadata, children, buffers)
	if err != nil {
		panic(err)
	}
	return a
}

// IntoParts is the inverse of TryNewParts (§6, Array::into_parts),
// consumed by the IPC/file-format collaborators.
func (a Array) IntoParts() (id EncodingID, dt dtype.DType, length int, metadata []byte, children []Array, buffers []buffer.Buffer) {
	return a.encodingID, a.dt, a.length, a.metadata, a.children, a.buffers
}

// Encoding returns the array's encoding id.
func (a Array) Encoding() EncodingID { return a.encodingID }

// EncodingName returns the printable name of the array's encoding.
func (a Array) EncodingName() string { return Lookup(a.encodingID).Name() }

// DType returns the array's logical type.
func (a Array) DType() dtype.DType { return a.dt }

// Len returns the array's element count.
func (a Array) Len() int { return a.length }

// Metadata returns the encoding-private metadata bytes.
func (a Array) Metadata() []byte { return a.metadata }

// NumChildren returns the number of child arrays.
func (a Array) NumChildren() int { return len(a.children) }

// Child returns the i'th child array.
func (a Array) Child(i int) Array { return a.children[i] }

// Children returns the array's children. Callers must not mutate the
// returned slice.
func (a Array) Children() []Array { return a.children }

// NumBuffers returns the number of raw buffers.
func (a Array) NumBuffers() int { return len(a.buffers) }

// Buffer returns the i'th raw buffer.
func (a Array) Buffer(i int) buffer.Buffer { return a.buffers[i] }

// Buffers returns the array's buffers. Callers must not mutate the
// returned slice.
func (a Array) Buffers() []buffer.Buffer { return a.buffers }

// NBytes returns the recursive byte size of every buffer owned by a
// and its children (§4.2). Shared buffers are counted once per
// reference, matching the teacher's own nbytes-style accounting
// (sneller reports block sizes per reference, not per unique
// allocation) — this is a reporting convenience, not a dedup pass.
func (a Array) NBytes() int64 {
	var n int64
	for _, b := range a.buffers {
		n += int64(b.Len())
	}
	for _, c := range a.children {
		n += c.NBytes()
	}
	return n
}

// Statistics returns the array's lazy statistics accessor (§3.6).
func (a Array) Statistics() *Statistics {
	return &Statistics{arr: a}
}

// IntoCanonical produces the canonical encoding for a's DType (§3.5).
// A canonical array canonicalizes to itself.
func (a Array) IntoCanonical() (Array, error) {
	enc := Lookup(a.encodingID)
	canon, err := enc.Canonicalize(a)
	if err != nil {
		return Array{}, err
	}
	if canon.Len() != a.Len() {
		return Array{}, vxerror.NewLengthMismatch(
			"canonicalize(%s) changed length %d -> %d", enc.Name(), a.Len(), canon.Len())
	}
	if !canon.DType().Equal(a.DType()) {
		return Array{}, vxerror.NewMismatchedTypes(a.DType().String(), canon.DType().String())
	}
	return canon, nil
}

// Validity computes a's logical null mask by delegating to its
// encoding (§3.3, §4.1).
func (a Array) Validity() (Validity, error) {
	return Lookup(a.encodingID).Validity(a)
}

// WithDyn reifies a's encoding and invokes f with it, the single
// reification point every polymorphic call routes through (§4.1,
// §9). Most callers should prefer the typed free functions
// (ScalarAt, Slice, ...) instead of calling WithDyn directly.
func (a Array) WithDyn(f func(Encoding) error) error {
	return f(Lookup(a.encodingID))
}
