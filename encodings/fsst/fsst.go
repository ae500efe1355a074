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

// Package fsst implements the FSST compressed encoding: values are
// compressed against a per-column symbol table (internal/fsstkernel,
// wrapping github.com/axiomhq/fsst) and packed into the same
// offsets-plus-bytes-buffer shape encodings/varbin uses, with the
// trained table's serialized form carried in the array's metadata so
// the column decodes without any side channel.
package fsst

import (
	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/internal/canonbuild"
	"github.com/vortex-data/vortex-go/internal/fsstkernel"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.FSSTID }
func (encoding) Name() string           { return "fsst" }

func offsetsOf(a vxarray.Array) vxarray.Array  { return a.Child(0) }
func validityOf(a vxarray.Array) vxarray.Array { return a.Child(1) }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindUtf8 && dt.Kind() != dtype.KindBinary {
		return vxerror.NewInvalidDType("fsst: dtype must be Utf8 or Binary, got %s", dt)
	}
	if len(a.Metadata()) == 0 {
		return vxerror.NewInvalidEncoding("fsst: metadata must hold a serialized symbol table")
	}
	off := offsetsOf(a)
	if off.DType().Kind() != dtype.KindPrimitive || off.DType().PType() != dtype.I32 {
		return vxerror.NewInvalidEncoding("fsst: offsets child must be non-nullable I32")
	}
	if off.Len() != a.Len()+1 {
		return vxerror.NewInvalidEncoding("fsst: offsets length must be len+1, got %d for len %d", off.Len(), a.Len())
	}
	if a.NumBuffers() != 1 {
		return vxerror.NewInvalidEncoding("fsst: expected exactly one compressed-bytes buffer")
	}
	wantChildren := 1
	if dt.Nullable() {
		wantChildren = 2
	}
	if a.NumChildren() != wantChildren {
		return vxerror.NewInvalidEncoding("fsst: nullability %s requires %d children, got %d", dt.Nullability(), wantChildren, a.NumChildren())
	}
	if dt.Nullable() && validityOf(a).Len() != a.Len() {
		return vxerror.NewInvalidEncoding("fsst: validity child length mismatch")
	}
	return nil
}

func compressedAt(a vxarray.Array, i int) []byte {
	off := offsetsOf(a)
	start := int32(primitive.ValueAt(off, i))
	stop := int32(primitive.ValueAt(off, i+1))
	return a.Buffer(0).Bytes()[start:stop]
}

// New trains an FSST symbol table over values and packs each value's
// compressed form into a shared bytes buffer.
func New(dt dtype.DType, values [][]byte) vxarray.Array {
	tbl := fsstkernel.Train(values)
	md, err := tbl.MarshalBinary()
	if err != nil {
		panic(err)
	}

	offsets := make([]int64, len(values)+1)
	var compressed []byte
	for i, v := range values {
		c := tbl.Encode(v)
		compressed = append(compressed, c...)
		offsets[i+1] = int64(len(compressed))
	}
	offArr := primitive.FromInt64(dtype.I32, offsets)
	buf := buffer.FromBytes(compressed)
	return vxarray.MustNewParts(vxarray.FSSTID, dt, len(values), md, []vxarray.Array{offArr}, []buffer.Buffer{buf})
}

// FromStrings packs a []string into a non-nullable Utf8 FSST array.
func FromStrings(values []string) vxarray.Array {
	raw := make([][]byte, len(values))
	for i, v := range values {
		raw[i] = []byte(v)
	}
	return New(dtype.Utf8(dtype.NonNullable), raw)
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.NewBitMask(validityOf(a)), nil
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	values := make([]scalar.Scalar, a.Len())
	for i := range values {
		v, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		values[i] = v
	}
	return canonbuild.FromScalars(a.DType(), values), nil
}

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	return vxarray.DefaultComputeStatistics(a)
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, vxerror.NewOutOfBounds(i, 0, a.Len())
	}
	dt := a.DType()
	if dt.Nullable() {
		v, err := vxarray.ScalarAt(validityOf(a), i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if !v.AsBool() {
			return scalar.Null(dt), nil
		}
	}
	tbl, err := fsstkernel.LoadTable(a.Metadata())
	if err != nil {
		return scalar.Scalar{}, vxerror.NewIOError("fsst: %v", err)
	}
	raw := tbl.Decode(compressedAt(a, i))
	if dt.Kind() == dtype.KindUtf8 {
		return scalar.Utf8(string(raw), dt.Nullability()), nil
	}
	return scalar.Binary(raw, dt.Nullability()), nil
}

// SliceArray implements vxarray.SliceFn via scalar gather: re-slicing
// the offsets table in place would still share the one shared symbol
// table, but the simplest correct form here is a gather-and-rebuild,
// the same tradeoff ALP-RD's SliceArray makes for its dictionary.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	idx := make([]int64, stop-start)
	for i := range idx {
		idx[i] = int64(start + i)
	}
	return (encoding{}).Take(a, primitive.FromInt64(dtype.I64, idx))
}

// Take implements vxarray.TakeFn by gathering raw values and training
// a fresh symbol table over the selection.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	values := make([][]byte, n)
	for i := 0; i < n; i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
		s, err := (encoding{}).ScalarAt(a, j)
		if err != nil {
			return vxarray.Array{}, err
		}
		values[i] = []byte(s.AsString())
	}
	return New(a.DType(), values), nil
}
