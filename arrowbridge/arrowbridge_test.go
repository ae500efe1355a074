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

package arrowbridge

import (
	"testing"

	"github.com/apache/arrow/go/v15/arrow/memory"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/dict"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/encodings/structarr"
	"github.com/vortex-data/vortex-go/encodings/varbin"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
)

func requireRoundTrip(t *testing.T, original vxarray.Array) {
	t.Helper()
	mem := memory.NewGoAllocator()
	arr, err := ToArrow(mem, original)
	if err != nil {
		t.Fatalf("ToArrow: %v", err)
	}
	defer arr.Release()
	back, err := FromArrow(arr)
	if err != nil {
		t.Fatalf("FromArrow: %v", err)
	}
	if back.Len() != original.Len() {
		t.Fatalf("length changed: got %d want %d", back.Len(), original.Len())
	}
	for i := 0; i < original.Len(); i++ {
		want, err := vxarray.ScalarAt(original, i)
		if err != nil {
			t.Fatal(err)
		}
		got, err := vxarray.ScalarAt(back, i)
		if err != nil {
			t.Fatal(err)
		}
		if !want.Equal(got) {
			t.Errorf("index %d: got %v want %v", i, got, want)
		}
	}
}

func TestRoundTripInt64(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, -2, 3, 0, 42})
	requireRoundTrip(t, a)
}

func TestRoundTripFloat64(t *testing.T) {
	a := primitive.FromFloat64(dtype.F64, []float64{1.5, -2.25, 0, 3.125})
	requireRoundTrip(t, a)
}

func TestRoundTripNullablePrimitive(t *testing.T) {
	values := primitive.FromInt64(dtype.I32, []int64{10, 0, 30, 0})
	validity := boolarr.FromBools([]bool{true, false, true, false})
	a := primitive.NewNullable(dtype.I32, values.Buffer(0), values.Len(), validity)
	requireRoundTrip(t, a)
}

func TestRoundTripBool(t *testing.T) {
	a := boolarr.FromBools([]bool{true, false, false, true, true})
	requireRoundTrip(t, a)
}

func TestRoundTripStrings(t *testing.T) {
	a, err := varbin.FromStrings([]string{"hello", "", "world", "vortex"})
	if err != nil {
		t.Fatal(err)
	}
	requireRoundTrip(t, a)
}

func TestRoundTripDict(t *testing.T) {
	dt := dtype.Utf8(dtype.NonNullable)
	strs := []string{"a", "b", "a", "c", "b", "a"}
	values := make([]scalar.Scalar, len(strs))
	for i, s := range strs {
		values[i] = scalar.Utf8(s, dtype.NonNullable)
	}
	a := dict.FromValues(dt, values)
	requireRoundTrip(t, a)
}

func TestRoundTripStruct(t *testing.T) {
	dt := dtype.Struct(
		[]string{"id", "name"},
		[]dtype.DType{dtype.Primitive(dtype.I64, dtype.NonNullable), dtype.Utf8(dtype.NonNullable)},
		dtype.NonNullable,
	)
	ids := primitive.FromInt64(dtype.I64, []int64{1, 2, 3})
	names, err := varbin.FromStrings([]string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	a := structarr.New(dt, []vxarray.Array{ids, names})
	requireRoundTrip(t, a)
}

func TestToArrowTypeRoundTrip(t *testing.T) {
	dt := dtype.Primitive(dtype.F32, dtype.NonNullable)
	at, err := ToArrowType(dt)
	if err != nil {
		t.Fatal(err)
	}
	back, err := FromArrowType(at)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(dt) {
		t.Errorf("got %s want %s", back, dt)
	}
}
