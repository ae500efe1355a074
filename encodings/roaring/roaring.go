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

// Package roaring implements two compressed encodings that trade the
// full Roaring bitmap container hierarchy (array/bitmap/run
// containers, chunked by 16-bit key) for the single container shape
// that matters for an in-memory column: a sorted array of the set
// bits. RoaringBool keeps a U32 child of ascending true-bit positions
// for sparse boolean columns; RoaringInt keeps a non-decreasing
// unsigned values buffer (no children) as its own canonical form, the layout
// Sparse's indices child and RunEnd's ends child already rely on
// elsewhere in this tree (§4.6, §4.7). No suitable roaring-bitmap
// library appears anywhere in the example pack (see DESIGN.md), so
// this builds the array-container case directly rather than
// introducing an unfetched dependency.
package roaring

import (
	"sort"

	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/internal/sortutil"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(boolEncoding{})
	vxarray.Register(intEncoding{})
}

// --- RoaringBool -----------------------------------------------------

type boolEncoding struct{}

func (boolEncoding) ID() vxarray.EncodingID { return vxarray.RoaringBoolID }
func (boolEncoding) Name() string           { return "roaring_bool" }

func bitsOf(a vxarray.Array) vxarray.Array { return a.Child(0) }

func (boolEncoding) Validate(a vxarray.Array) error {
	if a.DType().Kind() != dtype.KindBool {
		return vxerror.NewInvalidDType("roaring_bool: dtype must be Bool, got %s", a.DType())
	}
	if a.NumChildren() != 1 {
		return vxerror.NewInvalidEncoding("roaring_bool: expected one set-bits child")
	}
	bits := bitsOf(a)
	if bits.DType().Kind() != dtype.KindPrimitive || bits.DType().PType() != dtype.U32 {
		return vxerror.NewInvalidEncoding("roaring_bool: set-bits child must be non-nullable U32")
	}
	vals := make([]uint64, bits.Len())
	for i := range vals {
		vals[i] = primitive.ValueAt(bits, i)
		if int(vals[i]) >= a.Len() {
			return vxerror.NewOutOfBounds(int(vals[i]), 0, a.Len())
		}
	}
	if !sortutil.IsSortedAscUint64(vals) {
		return vxerror.NewInvalidEncoding("roaring_bool: set-bits must be strictly increasing")
	}
	for i := 1; i < len(vals); i++ {
		if vals[i] == vals[i-1] {
			return vxerror.NewInvalidEncoding("roaring_bool: set-bits must be strictly increasing")
		}
	}
	return nil
}

// NewBool builds a RoaringBool array of the given length from the
// positions that are true.
func NewBool(length int, truePositions []int64) vxarray.Array {
	pos := make([]uint64, len(truePositions))
	for i, p := range truePositions {
		pos[i] = uint64(p)
	}
	bits := primitive.FromUint64(dtype.U32, pos)
	return vxarray.MustNewParts(vxarray.RoaringBoolID, dtype.Bool(dtype.NonNullable), length, nil, []vxarray.Array{bits}, nil)
}

// FromBools builds a RoaringBool array from a dense []bool.
func FromBools(values []bool) vxarray.Array {
	var pos []int64
	for i, v := range values {
		if v {
			pos = append(pos, int64(i))
		}
	}
	return NewBool(len(values), pos)
}

func (boolEncoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	return vxarray.NonNullable(a.Len()), nil
}

func (boolEncoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	bits := make([]bool, a.Len())
	set := bitsOf(a)
	for i := 0; i < set.Len(); i++ {
		bits[primitive.ValueAt(set, i)] = true
	}
	values := make([]scalar.Scalar, len(bits))
	for i, b := range bits {
		values[i] = scalar.Bool(b, dtype.NonNullable)
	}
	return buildBoolArray(values), nil
}

func (boolEncoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	switch kind {
	case vxarray.StatTrueCount:
		return map[vxarray.StatKind]scalar.Scalar{
			vxarray.StatTrueCount: scalar.Int(dtype.I64, int64(bitsOf(a).Len()), dtype.NonNullable),
		}, nil
	default:
		return vxarray.DefaultComputeStatistics(a)
	}
}

func findBit(a vxarray.Array, i int) bool {
	set := bitsOf(a)
	n := set.Len()
	target := uint64(i)
	idx := sort.Search(n, func(k int) bool { return primitive.ValueAt(set, k) >= target })
	return idx < n && primitive.ValueAt(set, idx) == target
}

// ScalarAt implements vxarray.ScalarAtFn.
func (boolEncoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	return scalar.Bool(findBit(a, i), dtype.NonNullable), nil
}

// SliceArray implements vxarray.SliceFn by filtering the set-bit list
// down to the requested range and rebasing it.
func (boolEncoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	set := bitsOf(a)
	n := set.Len()
	i0 := sort.Search(n, func(k int) bool { return primitive.ValueAt(set, k) >= uint64(start) })
	i1 := sort.Search(n, func(k int) bool { return primitive.ValueAt(set, k) >= uint64(stop) })
	var pos []int64
	for k := i0; k < i1; k++ {
		pos = append(pos, int64(primitive.ValueAt(set, k))-int64(start))
	}
	return NewBool(stop-start, pos), nil
}

// Take implements vxarray.TakeFn via scalar gather.
func (boolEncoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	var pos []int64
	for i := 0; i < n; i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
		if findBit(a, j) {
			pos = append(pos, int64(i))
		}
	}
	return NewBool(n, pos), nil
}

func buildBoolArray(values []scalar.Scalar) vxarray.Array {
	bits := make([]bool, len(values))
	for i, v := range values {
		bits[i] = v.AsBool()
	}
	return FromBools(bits)
}

// --- RoaringInt --------------------------------------------------------

type intEncoding struct{}

func (intEncoding) ID() vxarray.EncodingID { return vxarray.RoaringIntID }
func (intEncoding) Name() string           { return "roaring_int" }

func (intEncoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindPrimitive || !dt.PType().IsUnsigned() {
		return vxerror.NewInvalidDType("roaring_int: dtype must be an unsigned Primitive, got %s", dt)
	}
	if a.NumBuffers() != 1 || a.NumChildren() != 0 {
		return vxerror.NewInvalidEncoding("roaring_int: expected exactly one values buffer and no children")
	}
	vals := make([]uint64, a.Len())
	for i := range vals {
		vals[i] = primitive.ValueAt(a, i)
	}
	if !sortutil.IsSortedAscUint64(vals) {
		return vxerror.NewInvalidEncoding("roaring_int: values must be non-decreasing")
	}
	return nil
}

// NewInt builds a RoaringInt array, the canonical representation for
// an already strictly increasing unsigned Primitive set.
func NewInt(p dtype.PType, values []uint64) vxarray.Array {
	base := primitive.FromUint64(p, values)
	return vxarray.MustNewParts(vxarray.RoaringIntID, dtype.Primitive(p, dtype.NonNullable), len(values), nil, nil, base.Buffers())
}

func (intEncoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	return vxarray.NonNullable(a.Len()), nil
}

func (intEncoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	vals := make([]uint64, a.Len())
	for i := range vals {
		vals[i] = primitive.ValueAt(a, i)
	}
	return primitive.FromUint64(a.DType().PType(), vals), nil
}

func (intEncoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	return vxarray.DefaultComputeStatistics(a)
}

// ScalarAt implements vxarray.ScalarAtFn.
func (intEncoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	return scalar.Uint(a.DType().PType(), primitive.ValueAt(a, i), dtype.NonNullable), nil
}

// SliceArray implements vxarray.SliceFn: monotonicity is preserved by
// any contiguous sub-range, so this is an ordinary O(1) buffer slice.
func (intEncoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	p := a.DType().PType()
	buf := a.Buffer(0).Slice(start*p.ByteWidth(), stop*p.ByteWidth())
	return vxarray.MustNewParts(vxarray.RoaringIntID, a.DType(), stop-start, nil, nil, []buffer.Buffer{buf}), nil
}

// Take implements vxarray.TakeFn via scalar gather, then sorts the
// gathered values ascending so the result is again a valid RoaringInt:
// the output order follows the values, not the order of indices.
func (intEncoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	vals := make([]uint64, n)
	for i := 0; i < n; i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
		vals[i] = primitive.ValueAt(a, j)
	}
	sort.Slice(vals, func(x, y int) bool { return vals[x] < vals[y] })
	return NewInt(a.DType().PType(), vals), nil
}
