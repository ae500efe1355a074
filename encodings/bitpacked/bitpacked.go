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

// Package bitpacked implements the BitPacked compressed encoding: an
// unsigned Primitive array packed down to a fixed bit width via
// internal/fastlanes, with an optional Sparse patches child (nullable,
// fill value null) overlaying the rare values that don't fit the
// chosen width — the same patch-list composition §4.6's cost model
// describes for ALP/ALP-RD's out-of-range exceptions.
package bitpacked

import (
	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/encodings/sparse"
	"github.com/vortex-data/vortex-go/internal/canonbuild"
	"github.com/vortex-data/vortex-go/internal/fastlanes"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.BitPackedID }
func (encoding) Name() string           { return "bitpacked" }

func bitWidth(a vxarray.Array) int { return int(a.Metadata()[0]) }

func hasPatches(a vxarray.Array) bool { return a.NumChildren() == 1 }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindPrimitive || !dt.PType().IsUnsigned() {
		return vxerror.NewInvalidDType("bitpacked: dtype must be an unsigned Primitive, got %s", dt)
	}
	if len(a.Metadata()) != 1 {
		return vxerror.NewInvalidEncoding("bitpacked: metadata must hold a 1-byte bit width")
	}
	w := bitWidth(a)
	if w < 1 || w > 64 {
		return vxerror.NewInvalidEncoding("bitpacked: bit width %d out of range", w)
	}
	if a.NumBuffers() != 1 {
		return vxerror.NewInvalidEncoding("bitpacked: expected exactly one packed buffer")
	}
	want := fastlanes.PackedLen(w, a.Len())
	if a.Buffer(0).Len() < want {
		return vxerror.NewInvalidEncoding("bitpacked: packed buffer too short for width %d and length %d", w, a.Len())
	}
	if a.NumChildren() > 1 {
		return vxerror.NewInvalidEncoding("bitpacked: at most one patches child allowed")
	}
	return nil
}

// New bit-packs values at the given width. Any value that doesn't fit
// in width bits is recorded in a Sparse patches child instead of being
// silently truncated.
func New(p dtype.PType, values []uint64, width int, n dtype.Nullability) vxarray.Array {
	packed := fastlanes.Pack(width, values)
	buf := buffer.FromBytes(packed)
	md := []byte{byte(width)}
	dt := dtype.Primitive(p, n)

	limit := uint64(1)<<uint(width) - 1
	if width == 64 {
		limit = ^uint64(0)
	}
	var exceptIdx []int64
	var exceptVals []scalar.Scalar
	for i, v := range values {
		if v > limit {
			exceptIdx = append(exceptIdx, int64(i))
			exceptVals = append(exceptVals, scalar.Uint(p, v, dtype.NonNullable))
		}
	}
	if len(exceptIdx) == 0 {
		return vxarray.MustNewParts(vxarray.BitPackedID, dt, len(values), md, nil, []buffer.Buffer{buf})
	}

	idxArr := primitive.FromInt64(dtype.I64, exceptIdx)
	var patchVals []uint64
	for _, v := range exceptVals {
		patchVals = append(patchVals, v.AsUint())
	}
	patchArr := primitive.FromUint64(p, patchVals)
	fillChild := primitive.NewNullable(p, buffer.New(p.ByteWidth()), 1, boolarr.FromBools([]bool{false}))
	patches := sparse.New(dt.WithNullability(dtype.Nullable), len(values), idxArr, patchArr, fillChild)
	return vxarray.MustNewParts(vxarray.BitPackedID, dt, len(values), md, []vxarray.Array{patches}, []buffer.Buffer{buf})
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.AllValid(a.Len()), nil
}

func rawAt(a vxarray.Array, i int) uint64 {
	return fastlanes.ValueAt(bitWidth(a), a.Buffer(0).Bytes(), i)
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	n := a.Len()
	out := make([]uint64, n)
	for i := range out {
		out[i] = rawAt(a, i)
	}
	base := primitive.FromUint64(a.DType().PType(), out)
	if !hasPatches(a) && !a.DType().Nullable() {
		return base, nil
	}
	values := make([]scalar.Scalar, n)
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
	if hasPatches(a) {
		v, err := vxarray.ScalarAt(a.Child(0), i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if !v.IsNull() {
			return scalar.Uint(a.DType().PType(), v.AsUint(), a.DType().Nullability()), nil
		}
	}
	return scalar.Uint(a.DType().PType(), rawAt(a, i), a.DType().Nullability()), nil
}

// SliceArray implements vxarray.SliceFn by gathering scalars over the
// slice range; the packed buffer has no O(1) byte-aligned slice point
// for arbitrary bit widths in general.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	idx := make([]int64, stop-start)
	for i := range idx {
		idx[i] = int64(start + i)
	}
	return (encoding{}).Take(a, primitive.FromInt64(dtype.I64, idx))
}

// Take implements vxarray.TakeFn by gathering and rebuilding a fresh
// BitPacked array at the same width.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	values := make([]uint64, n)
	for i := 0; i < n; i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
		v, err := (encoding{}).ScalarAt(a, j)
		if err != nil {
			return vxarray.Array{}, err
		}
		values[i] = v.AsUint()
	}
	return New(a.DType().PType(), values, bitWidth(a), a.DType().Nullability()), nil
}
