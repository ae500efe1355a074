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

// Package runend implements the RunEnd compressed encoding: a
// monotonically increasing "ends" child (the exclusive end position
// of each run, relative to an O(1) metadata offset) paired with a
// "values" child holding one value per run. Slicing only adjusts the
// metadata offset and re-binary-searches the run boundary, the same
// O(1)-slice-via-offset trick Sparse's indices_offset uses.
package runend

import (
	"encoding/binary"
	"sort"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/internal/canonbuild"
	"github.com/vortex-data/vortex-go/internal/sortutil"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.RunEndID }
func (encoding) Name() string           { return "runend" }

// metadata: 8-byte little-endian logical offset (the position this
// array's index 0 corresponds to within the ends child, so Slice
// never has to rewrite ends).
func offsetOf(a vxarray.Array) int64 {
	return int64(binary.LittleEndian.Uint64(a.Metadata()))
}

func endsOf(a vxarray.Array) vxarray.Array   { return a.Child(0) }
func valuesOf(a vxarray.Array) vxarray.Array { return a.Child(1) }

func (encoding) Validate(a vxarray.Array) error {
	if a.NumChildren() != 2 {
		return vxerror.NewInvalidEncoding("runend: expected ends and values children")
	}
	if len(a.Metadata()) != 8 {
		return vxerror.NewInvalidEncoding("runend: metadata must hold an 8-byte offset")
	}
	ends, values := endsOf(a), valuesOf(a)
	if ends.Len() != values.Len() {
		return vxerror.NewLengthMismatch("runend: ends length %d != values length %d", ends.Len(), values.Len())
	}
	if !values.DType().Equal(a.DType()) {
		return vxerror.NewMismatchedTypes(a.DType().String(), values.DType().String())
	}
	endVals := make([]uint64, ends.Len())
	for i := range endVals {
		endVals[i] = primitive.ValueAt(ends, i)
	}
	if !sortutil.IsSortedAscUint64(endVals) {
		return vxerror.NewInvalidEncoding("runend: ends must be non-decreasing")
	}
	return nil
}

// New builds a RunEnd array from run-end positions (each strictly
// greater than the previous, the last equal to the logical length)
// and one value per run.
func New(dt dtype.DType, ends vxarray.Array, values vxarray.Array) vxarray.Array {
	length := 0
	if ends.Len() > 0 {
		length = int(primitive.ValueAt(ends, ends.Len()-1))
	}
	md := make([]byte, 8)
	return vxarray.MustNewParts(vxarray.RunEndID, dt, length, md, []vxarray.Array{ends, values}, nil)
}

// FromRuns is the builder callers typically reach for: given the
// logical values in expanded order, it compresses equal adjacent runs.
func FromRuns(dt dtype.DType, values []scalar.Scalar) vxarray.Array {
	var ends []int64
	var runValues []scalar.Scalar
	for i, v := range values {
		if i == 0 || !v.Equal(runValues[len(runValues)-1]) {
			runValues = append(runValues, v)
			ends = append(ends, int64(i+1))
		} else {
			ends[len(ends)-1] = int64(i + 1)
		}
	}
	endsArr := primitive.FromInt64(dtype.I64, ends)
	valuesArr := canonbuild.FromScalars(dt, runValues)
	return New(dt, endsArr, valuesArr)
}

func runIndex(ends vxarray.Array, off int64, i int) int {
	target := off + int64(i) + 1
	n := ends.Len()
	return sort.Search(n, func(r int) bool { return primitive.ValueAt(ends, r) >= uint64(target) })
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	vv, err := valuesOf(a).Validity()
	if err != nil {
		return vxarray.Validity{}, err
	}
	allValid, allInvalid := true, true
	for i := 0; i < valuesOf(a).Len(); i++ {
		if vv.IsValid(i) {
			allInvalid = false
		} else {
			allValid = false
		}
	}
	switch {
	case a.Len() == 0 || allValid:
		return vxarray.AllValid(a.Len()), nil
	case allInvalid:
		return vxarray.AllInvalid(a.Len()), nil
	default:
		bits := make([]bool, a.Len())
		off := offsetOf(a)
		for i := range bits {
			r := runIndex(endsOf(a), off, i)
			bits[i] = vv.IsValid(r)
		}
		return vxarray.NewBitMask(boolsToArray(bits)), nil
	}
}

func boolsToArray(bits []bool) vxarray.Array {
	return canonbuild.FromScalars(dtype.Bool(dtype.NonNullable), boolScalars(bits))
}

func boolScalars(bits []bool) []scalar.Scalar {
	out := make([]scalar.Scalar, len(bits))
	for i, b := range bits {
		out[i] = scalar.Bool(b, dtype.NonNullable)
	}
	return out
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	n := a.Len()
	values := make([]scalar.Scalar, n)
	off := offsetOf(a)
	ends := endsOf(a)
	for i := 0; i < n; i++ {
		r := runIndex(ends, off, i)
		v, err := vxarray.ScalarAt(valuesOf(a), r)
		if err != nil {
			return vxarray.Array{}, err
		}
		values[i] = v
	}
	return canonbuild.FromScalars(a.DType(), values), nil
}

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	values := valuesOf(a)
	switch kind {
	case vxarray.StatRunCount:
		return map[vxarray.StatKind]scalar.Scalar{
			vxarray.StatRunCount: scalar.Int(dtype.I64, int64(values.Len()), dtype.NonNullable),
		}, nil
	case vxarray.StatMin, vxarray.StatMax:
		st, err := values.Statistics().ComputeMany(vxarray.StatMin, vxarray.StatMax)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		canon, err := (encoding{}).Canonicalize(a)
		if err != nil {
			return nil, err
		}
		return canon.Statistics().ComputeMany(kind)
	}
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	r := runIndex(endsOf(a), offsetOf(a), i)
	return vxarray.ScalarAt(valuesOf(a), r)
}

// SliceArray implements vxarray.SliceFn: O(1), only the metadata
// offset changes; ends/values are shared.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	off := offsetOf(a)
	md := make([]byte, 8)
	binary.LittleEndian.PutUint64(md, uint64(off+int64(start)))
	return vxarray.MustNewParts(vxarray.RunEndID, a.DType(), stop-start, md, a.Children(), nil), nil
}

// Take implements vxarray.TakeFn via scalar gather; random-access
// indices don't preserve run structure in general.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	values := make([]scalar.Scalar, n)
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
		values[i] = v
	}
	return FromRuns(a.DType(), values), nil
}

// SearchSorted implements vxarray.SearchSortedFn by binary-searching
// the values child directly (it is itself sorted whenever a is), then
// mapping the run index back to a logical position via ends.
func (encoding) SearchSorted(a vxarray.Array, v scalar.Scalar, side vxarray.SearchSide) (int, bool, error) {
	r, found, err := vxarray.SearchSorted(valuesOf(a), v, side)
	if err != nil {
		return 0, false, err
	}
	ends := endsOf(a)
	off := offsetOf(a)
	if r >= ends.Len() {
		return a.Len(), found, nil
	}
	pos := int64(primitive.ValueAt(ends, r)) - off
	if r > 0 {
		prevEnd := int64(primitive.ValueAt(ends, r-1)) - off
		if side == vxarray.Left && prevEnd > 0 {
			pos = prevEnd
		}
	}
	if pos < 0 {
		pos = 0
	}
	return int(pos), found, nil
}
