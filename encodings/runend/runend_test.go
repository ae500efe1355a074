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

package runend

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
)

func buildRuns() vxarray.Array {
	dt := dtype.Primitive(dtype.I64, dtype.NonNullable)
	values := []scalar.Scalar{
		scalar.Int(dtype.I64, 1, dtype.NonNullable),
		scalar.Int(dtype.I64, 1, dtype.NonNullable),
		scalar.Int(dtype.I64, 1, dtype.NonNullable),
		scalar.Int(dtype.I64, 2, dtype.NonNullable),
		scalar.Int(dtype.I64, 2, dtype.NonNullable),
		scalar.Int(dtype.I64, 3, dtype.NonNullable),
	}
	return FromRuns(dt, values)
}

func TestScalarAtExpandsRuns(t *testing.T) {
	a := buildRuns()
	want := []int64{1, 1, 1, 2, 2, 3}
	for i, w := range want {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != w {
			t.Errorf("index %d: got %d want %d", i, s.AsInt(), w)
		}
	}
}

func TestSliceWithinAndAcrossRuns(t *testing.T) {
	a := buildRuns()
	sliced, err := vxarray.Slice(a, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{1, 2, 2}
	for i, w := range want {
		s, err := vxarray.ScalarAt(sliced, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != w {
			t.Errorf("index %d: got %d want %d", i, s.AsInt(), w)
		}
	}
}

func TestCanonicalizeRoundTrips(t *testing.T) {
	a := buildRuns()
	canon, err := vxarray.Lookup(a.Encoding()).Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < a.Len(); i++ {
		want, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		got, err := vxarray.ScalarAt(canon, i)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(want) {
			t.Errorf("index %d: got %v want %v", i, got, want)
		}
	}
}

func TestValidateRejectsDecreasingEnds(t *testing.T) {
	dt := dtype.Primitive(dtype.I64, dtype.NonNullable)
	ends := primitive.FromInt64(dtype.I64, []int64{3, 2})
	values := primitive.FromInt64(dtype.I64, []int64{1, 2})
	md := make([]byte, 8)
	_, err := vxarray.TryNewParts(vxarray.RunEndID, dt, 2, md, []vxarray.Array{ends, values}, nil)
	if err == nil {
		t.Fatal("expected validation error for decreasing ends")
	}
}
