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

import (
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxerror"
)

// ScalarAt implements §4.7.1: validate bounds, short-circuit nulls,
// dispatch to the encoding's own ScalarAtFn if present, otherwise
// canonicalize and retry. Canonical encodings all implement
// ScalarAtFn, so this recursion terminates.
func ScalarAt(a Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, vxerror.NewOutOfBounds(i, 0, a.Len())
	}
	v, err := a.Validity()
	if err != nil {
		return scalar.Scalar{}, err
	}
	if !v.IsValid(i) {
		return scalar.Null(a.DType()), nil
	}
	enc := Lookup(a.encodingID)
	if fn, ok := enc.(ScalarAtFn); ok {
		return fn.ScalarAt(a, i)
	}
	canon, err := a.IntoCanonical()
	if err != nil {
		return scalar.Scalar{}, err
	}
	if fn, ok := Lookup(canon.encodingID).(ScalarAtFn); ok {
		return fn.ScalarAt(canon, i)
	}
	return scalar.Scalar{}, vxerror.NewNotImplemented("scalar_at", enc.Name())
}

// Slice implements §4.7.2: 0 <= start <= stop <= len, result length
// stop-start, sharing buffers wherever the encoding implements its
// own SliceFn more cheaply than canonicalize-and-slice.
func Slice(a Array, start, stop int) (Array, error) {
	if start < 0 || stop > a.Len() || start > stop {
		return Array{}, vxerror.NewOutOfBounds(start, 0, a.Len())
	}
	enc := Lookup(a.encodingID)
	if fn, ok := enc.(SliceFn); ok {
		return fn.SliceArray(a, start, stop)
	}
	canon, err := a.IntoCanonical()
	if err != nil {
		return Array{}, err
	}
	if fn, ok := Lookup(canon.encodingID).(SliceFn); ok {
		return fn.SliceArray(canon, start, stop)
	}
	return Array{}, vxerror.NewNotImplemented("slice", enc.Name())
}

// Take implements §4.7.3: indices is an integer Array, every index
// must be < a.Len(), result length equals indices.Len().
func Take(a Array, indices Array) (Array, error) {
	if indices.DType().Kind() != dtype.KindPrimitive || indices.DType().PType().IsFloat() {
		return Array{}, vxerror.NewInvalidArgument("take: indices must be an integer array")
	}
	enc := Lookup(a.encodingID)
	if fn, ok := enc.(TakeFn); ok {
		return fn.Take(a, indices)
	}
	canon, err := a.IntoCanonical()
	if err != nil {
		return Array{}, err
	}
	if fn, ok := Lookup(canon.encodingID).(TakeFn); ok {
		return fn.Take(canon, indices)
	}
	return Array{}, vxerror.NewNotImplemented("take", enc.Name())
}

// Filter selects the positions of a where mask (a non-nullable Bool
// array of the same length) is true.
func Filter(a Array, mask Array) (Array, error) {
	if mask.Len() != a.Len() {
		return Array{}, vxerror.NewLengthMismatch("filter: mask length %d != array length %d", mask.Len(), a.Len())
	}
	enc := Lookup(a.encodingID)
	if fn, ok := enc.(FilterFn); ok {
		return fn.Filter(a, mask)
	}
	canon, err := a.IntoCanonical()
	if err != nil {
		return Array{}, err
	}
	if fn, ok := Lookup(canon.encodingID).(FilterFn); ok {
		return fn.Filter(canon, mask)
	}
	return Array{}, vxerror.NewNotImplemented("filter", enc.Name())
}

// Compare implements §4.7.5: result is a Bool array of the same
// length, with validity the logical AND of both operands'.
func Compare(a, b Array, op CompareOp) (Array, error) {
	if a.Len() != b.Len() {
		return Array{}, vxerror.NewLengthMismatch("compare: %d != %d", a.Len(), b.Len())
	}
	enc := Lookup(a.encodingID)
	if fn, ok := enc.(CompareFn); ok {
		return fn.Compare(a, b, op)
	}
	canonA, err := a.IntoCanonical()
	if err != nil {
		return Array{}, err
	}
	canonB, err := b.IntoCanonical()
	if err != nil {
		return Array{}, err
	}
	if fn, ok := Lookup(canonA.encodingID).(CompareFn); ok {
		return fn.Compare(canonA, canonB, op)
	}
	return Array{}, vxerror.NewNotImplemented("compare", enc.Name())
}

// SearchSorted implements §4.7.6.
func SearchSorted(a Array, v scalar.Scalar, side SearchSide) (idx int, found bool, err error) {
	enc := Lookup(a.encodingID)
	if fn, ok := enc.(SearchSortedFn); ok {
		return fn.SearchSorted(a, v, side)
	}
	canon, err := a.IntoCanonical()
	if err != nil {
		return 0, false, err
	}
	if fn, ok := Lookup(canon.encodingID).(SearchSortedFn); ok {
		return fn.SearchSorted(canon, v, side)
	}
	return defaultSearchSorted(a, v, side)
}

// defaultSearchSorted is the scalar_at binary-search fallback
// referenced in §4.7.6 for encodings without a specialized path.
func defaultSearchSorted(a Array, v scalar.Scalar, side SearchSide) (int, bool, error) {
	lo, hi := 0, a.Len()
	for lo < hi {
		mid := (lo + hi) / 2
		mv, err := ScalarAt(a, mid)
		if err != nil {
			return 0, false, err
		}
		if mv.IsNull() {
			lo = mid + 1
			continue
		}
		c := mv.Compare(v)
		switch side {
		case Exact:
			if c == 0 {
				return mid, true, nil
			}
			if c < 0 {
				lo = mid + 1
			} else {
				hi = mid
			}
		case Left:
			if c < 0 {
				lo = mid + 1
			} else {
				hi = mid
			}
		default: // Right
			if c <= 0 {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
	}
	if side == Exact {
		return lo, false, nil
	}
	return lo, false, nil
}

// Cast implements §4.7.7.
func Cast(a Array, to dtype.DType) (Array, error) {
	enc := Lookup(a.encodingID)
	if fn, ok := enc.(CastFn); ok {
		return fn.Cast(a, to)
	}
	canon, err := a.IntoCanonical()
	if err != nil {
		return Array{}, err
	}
	if fn, ok := Lookup(canon.encodingID).(CastFn); ok {
		return fn.Cast(canon, to)
	}
	return Array{}, vxerror.NewNotImplemented("cast", enc.Name())
}

// FillForward implements §4.7.8.
func FillForward(a Array) (Array, error) {
	if !a.DType().Nullable() {
		return a, nil
	}
	enc := Lookup(a.encodingID)
	if fn, ok := enc.(FillForwardFn); ok {
		return fn.FillForward(a)
	}
	canon, err := a.IntoCanonical()
	if err != nil {
		return Array{}, err
	}
	if fn, ok := Lookup(canon.encodingID).(FillForwardFn); ok {
		return fn.FillForward(canon)
	}
	return Array{}, vxerror.NewNotImplemented("fill_forward", enc.Name())
}

// SubtractScalar implements the scalar-subtract compute op.
func SubtractScalar(a Array, v scalar.Scalar) (Array, error) {
	enc := Lookup(a.encodingID)
	if fn, ok := enc.(SubtractScalarFn); ok {
		return fn.SubtractScalar(a, v)
	}
	canon, err := a.IntoCanonical()
	if err != nil {
		return Array{}, err
	}
	if fn, ok := Lookup(canon.encodingID).(SubtractScalarFn); ok {
		return fn.SubtractScalar(canon, v)
	}
	return Array{}, vxerror.NewNotImplemented("scalar_subtract", enc.Name())
}
