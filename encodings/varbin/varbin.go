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

// Package varbin implements the canonical VarBin encoding: an offsets
// primitive child (I32, one more entry than the logical length) plus a
// single bytes buffer, the same layout Arrow's StringArray uses and
// the one the teacher's ion string values decode into temporarily
// during JSON export (ion/json.go's string path).
package varbin

import (
	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/internal/stringutil"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
	vxarray.RegisterCanonical(dtype.KindUtf8, vxarray.VarBinID)
	vxarray.RegisterCanonical(dtype.KindBinary, vxarray.VarBinID)
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.VarBinID }
func (encoding) Name() string           { return "varbin" }

// offsetsOf returns the I32 offsets child (children[0]); children[1] is
// the optional validity bitmap.
func offsetsOf(a vxarray.Array) vxarray.Array { return a.Child(0) }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindUtf8 && dt.Kind() != dtype.KindBinary {
		return vxerror.NewInvalidDType("varbin: dtype must be Utf8 or Binary, got %s", dt)
	}
	if a.NumChildren() < 1 {
		return vxerror.NewInvalidEncoding("varbin: missing offsets child")
	}
	off := offsetsOf(a)
	if off.DType().Kind() != dtype.KindPrimitive || off.DType().PType() != dtype.I32 {
		return vxerror.NewInvalidEncoding("varbin: offsets child must be non-nullable I32")
	}
	if off.Len() != a.Len()+1 {
		return vxerror.NewInvalidEncoding("varbin: offsets length must be len+1, got %d for len %d", off.Len(), a.Len())
	}
	if a.NumBuffers() != 1 {
		return vxerror.NewInvalidEncoding("varbin: expected exactly one bytes buffer")
	}
	wantChildren := 1
	if dt.Nullable() {
		wantChildren = 2
	}
	if a.NumChildren() != wantChildren {
		return vxerror.NewInvalidEncoding("varbin: nullability %s requires %d children, got %d", dt.Nullability(), wantChildren, a.NumChildren())
	}
	if dt.Nullable() && validityOf(a).Len() != a.Len() {
		return vxerror.NewInvalidEncoding("varbin: validity child length mismatch")
	}
	return nil
}

func validityOf(a vxarray.Array) vxarray.Array { return a.Child(1) }

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.NewBitMask(validityOf(a)), nil
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) { return a, nil }

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	return vxarray.DefaultComputeStatistics(a)
}

func offsetAt(off vxarray.Array, i int) int32 {
	return int32(primitive.ValueAt(off, i))
}

// New builds a non-nullable VarBin array. offsets must have
// len(values)+1 entries, offsets[0] == 0, monotonically non-decreasing.
func New(dt dtype.DType, offsets []int32, bytes []byte) vxarray.Array {
	off := primitive.FromInt64(dtype.I32, widen(offsets))
	buf := buffer.FromBytes(bytes)
	return vxarray.MustNewParts(vxarray.VarBinID, dt, off.Len()-1, nil, []vxarray.Array{off}, []buffer.Buffer{buf})
}

// NewNullable builds a nullable VarBin array with an explicit validity child.
func NewNullable(dt dtype.DType, offsets []int32, bytes []byte, validity vxarray.Array) vxarray.Array {
	off := primitive.FromInt64(dtype.I32, widen(offsets))
	buf := buffer.FromBytes(bytes)
	return vxarray.MustNewParts(vxarray.VarBinID, dt, off.Len()-1, nil, []vxarray.Array{off, validity}, []buffer.Buffer{buf})
}

// FromStrings packs a []string into a non-nullable Utf8 VarBin array,
// validating each value is well-formed UTF-8 via internal/stringutil.
func FromStrings(values []string) (vxarray.Array, error) {
	offsets := make([]int32, len(values)+1)
	var total int32
	for i, v := range values {
		if !stringutil.ValidUTF8(v) {
			return vxarray.Array{}, vxerror.NewInvalidArgument("varbin: value %d is not valid UTF-8", i)
		}
		total += int32(len(v))
		offsets[i+1] = total
	}
	bytes := make([]byte, 0, total)
	for _, v := range values {
		bytes = append(bytes, v...)
	}
	return New(dtype.Utf8(dtype.NonNullable), offsets, bytes), nil
}

// FromBinary packs a [][]byte into a non-nullable Binary VarBin array.
func FromBinary(values [][]byte) vxarray.Array {
	offsets := make([]int32, len(values)+1)
	var total int32
	for i, v := range values {
		total += int32(len(v))
		offsets[i+1] = total
	}
	bytes := make([]byte, 0, total)
	for _, v := range values {
		bytes = append(bytes, v...)
	}
	return New(dtype.Binary(dtype.NonNullable), offsets, bytes)
}

func widen(in []int32) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	off := offsetsOf(a)
	start, stop := offsetAt(off, i), offsetAt(off, i+1)
	b := a.Buffer(0).Bytes()[start:stop]
	if a.DType().Kind() == dtype.KindUtf8 {
		return scalar.Utf8(string(b), a.DType().Nullability()), nil
	}
	return scalar.Binary(b, a.DType().Nullability()), nil
}

// SliceArray implements vxarray.SliceFn. The bytes buffer is shared
// (O(1)); only the offsets child and validity child are re-sliced.
func (e encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	off, err := vxarray.Slice(offsetsOf(a), start, stop+1)
	if err != nil {
		return vxarray.Array{}, err
	}
	children := []vxarray.Array{off}
	if a.DType().Nullable() {
		v, err := vxarray.Slice(validityOf(a), start, stop)
		if err != nil {
			return vxarray.Array{}, err
		}
		children = append(children, v)
	}
	return vxarray.MustNewParts(vxarray.VarBinID, a.DType(), stop-start, nil, children, a.Buffers()), nil
}

// Take implements vxarray.TakeFn by copying each selected value's
// bytes into a freshly built VarBin array.
func (e encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	offsets := make([]int32, n+1)
	var pieces [][]byte
	var total int32
	for i := 0; i < n; i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
		off := offsetsOf(a)
		start, stop := offsetAt(off, j), offsetAt(off, j+1)
		piece := a.Buffer(0).Bytes()[start:stop]
		pieces = append(pieces, piece)
		total += int32(len(piece))
		offsets[i+1] = total
	}
	bytes := make([]byte, 0, total)
	for _, p := range pieces {
		bytes = append(bytes, p...)
	}
	if !a.DType().Nullable() {
		return New(a.DType(), offsets, bytes), nil
	}
	v, err := vxarray.Take(validityOf(a), indices)
	if err != nil {
		return vxarray.Array{}, err
	}
	return NewNullable(a.DType(), offsets, bytes, v), nil
}
