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

package vxarray_test

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/dict"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
)

func TestScalarAtOutOfBounds(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 2, 3})
	if _, err := vxarray.ScalarAt(a, 3); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
	if _, err := vxarray.ScalarAt(a, -1); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestSliceBounds(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 2, 3, 4, 5})
	sliced, err := vxarray.Slice(a, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if sliced.Len() != 3 {
		t.Fatalf("got len %d want 3", sliced.Len())
	}
	if _, err := vxarray.Slice(a, 2, 1); err == nil {
		t.Fatal("expected error for start > stop")
	}
}

func TestTakeRejectsNonIntegerIndices(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 2, 3})
	floatIndices := primitive.FromFloat64(dtype.F64, []float64{0, 1})
	if _, err := vxarray.Take(a, floatIndices); err == nil {
		t.Fatal("expected error for float indices")
	}
}

func TestTakeSelectsByIndex(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{10, 20, 30, 40})
	indices := primitive.FromInt64(dtype.I64, []int64{3, 0, 0})
	taken, err := vxarray.Take(a, indices)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{40, 10, 10}
	for i, w := range want {
		s, err := vxarray.ScalarAt(taken, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != w {
			t.Errorf("index %d: got %d want %d", i, s.AsInt(), w)
		}
	}
}

func TestFilterRejectsMismatchedLength(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 2, 3})
	mask := boolArrayOf(t, []bool{true, false})
	if _, err := vxarray.Filter(a, mask); err == nil {
		t.Fatal("expected length-mismatch error")
	}
}

func TestFilterKeepsTruePositions(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 2, 3, 4})
	mask := boolArrayOf(t, []bool{true, false, true, false})
	filtered, err := vxarray.Filter(a, mask)
	if err != nil {
		t.Fatal(err)
	}
	if filtered.Len() != 2 {
		t.Fatalf("got len %d want 2", filtered.Len())
	}
	s0, _ := vxarray.ScalarAt(filtered, 0)
	s1, _ := vxarray.ScalarAt(filtered, 1)
	if s0.AsInt() != 1 || s1.AsInt() != 3 {
		t.Errorf("got [%d %d] want [1 3]", s0.AsInt(), s1.AsInt())
	}
}

// TestCompareFallsBackThroughCanonicalize exercises the
// canonicalize-and-retry path in Compare: dict implements ScalarAt/
// SliceArray/Take but not CompareFn, so Compare must canonicalize
// both operands before it can dispatch.
func TestCompareFallsBackThroughCanonicalize(t *testing.T) {
	dt := dtype.Primitive(dtype.I64, dtype.NonNullable)
	a := dict.FromValues(dt, []scalar.Scalar{
		scalar.Int(dtype.I64, 1, dtype.NonNullable),
		scalar.Int(dtype.I64, 2, dtype.NonNullable),
		scalar.Int(dtype.I64, 1, dtype.NonNullable),
	})
	b := dict.FromValues(dt, []scalar.Scalar{
		scalar.Int(dtype.I64, 1, dtype.NonNullable),
		scalar.Int(dtype.I64, 1, dtype.NonNullable),
		scalar.Int(dtype.I64, 1, dtype.NonNullable),
	})
	result, err := vxarray.Compare(a, b, vxarray.Eq)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{true, false, true}
	for i, w := range want {
		s, err := vxarray.ScalarAt(result, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsBool() != w {
			t.Errorf("index %d: got %v want %v", i, s.AsBool(), w)
		}
	}
}

func TestSearchSortedOnSortedPrimitive(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 3, 3, 5, 7})
	idx, found, err := vxarray.SearchSorted(a, scalar.Int(dtype.I64, 3, dtype.NonNullable), vxarray.Left)
	if err != nil {
		t.Fatal(err)
	}
	if !found || idx != 1 {
		t.Fatalf("got idx=%d found=%v want idx=1 found=true", idx, found)
	}
	idx, found, err = vxarray.SearchSorted(a, scalar.Int(dtype.I64, 3, dtype.NonNullable), vxarray.Right)
	if err != nil {
		t.Fatal(err)
	}
	if !found || idx != 3 {
		t.Fatalf("got idx=%d found=%v want idx=3 found=true", idx, found)
	}
	idx, found, err = vxarray.SearchSorted(a, scalar.Int(dtype.I64, 4, dtype.NonNullable), vxarray.Exact)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatalf("did not expect to find 4")
	}
	if idx != 3 {
		t.Fatalf("got idx=%d want insertion point 3", idx)
	}
}

func TestFillForwardNoOpOnNonNullable(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 2, 3})
	out, err := vxarray.FillForward(a)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != a.Len() || out.Encoding() != a.Encoding() {
		t.Fatalf("expected FillForward to be a no-op on non-nullable input")
	}
}

func TestSubtractScalarOnPrimitive(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{10, 20, 30})
	out, err := vxarray.SubtractScalar(a, scalar.Int(dtype.I64, 5, dtype.NonNullable))
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{5, 15, 25}
	for i, w := range want {
		s, err := vxarray.ScalarAt(out, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != w {
			t.Errorf("index %d: got %d want %d", i, s.AsInt(), w)
		}
	}
}

func TestCastPrimitiveWidens(t *testing.T) {
	a := primitive.FromInt64(dtype.I32, []int64{1, 2, 3})
	out, err := vxarray.Cast(a, dtype.Primitive(dtype.I64, dtype.NonNullable))
	if err != nil {
		t.Fatal(err)
	}
	if out.DType().PType() != dtype.I64 {
		t.Fatalf("got %v want I64", out.DType().PType())
	}
}

func boolArrayOf(t *testing.T, bits []bool) vxarray.Array {
	t.Helper()
	return boolarr.FromBools(bits)
}
