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

package vxarray

// Stable 16-bit encoding ids, fixed once and for all per §4.1 so that
// a wire-format writer can use them as a registry index. Canonical
// encodings occupy the low ids; compressed encodings follow.
const (
	PrimitiveID     EncodingID = 1
	BoolID          EncodingID = 2
	VarBinID        EncodingID = 3
	VarBinViewID    EncodingID = 4
	StructID        EncodingID = 5
	ChunkedID       EncodingID = 6
	ConstantID      EncodingID = 7
	NullID          EncodingID = 8
	ExtensionID     EncodingID = 9
	SparseID        EncodingID = 10

	RunEndID        EncodingID = 20
	DictID          EncodingID = 21
	BitPackedID     EncodingID = 22
	ForID           EncodingID = 23
	ALPID           EncodingID = 24
	ALPRDID         EncodingID = 25
	FSSTID          EncodingID = 26
	RoaringBoolID   EncodingID = 27
	RoaringIntID    EncodingID = 28
	ZigZagID        EncodingID = 29
	DateTimePartsID EncodingID = 30

	// BlobID is the sampling compressor's byte-oriented fallback: a
	// whole-buffer zstd/s2 compression of a canonical Primitive or
	// Bool array, used when no structural compressor improves on it.
	BlobID EncodingID = 31
)
