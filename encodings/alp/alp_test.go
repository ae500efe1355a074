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

package alp

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func sampleFloats() []float64 {
	values := make([]float64, 64)
	for i := range values {
		values[i] = float64(i) * 0.25
	}
	values[10] = 1e-20 // no (e, f) pair with e <= 18 represents it: forces a patch
	return values
}

func TestScalarAtRoundTripsIncludingPatches(t *testing.T) {
	values := sampleFloats()
	a := New(dtype.F64, values, dtype.NonNullable)
	for i, want := range values {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsFloat() != want {
			t.Errorf("index %d: got %v want %v", i, s.AsFloat(), want)
		}
	}
}

func TestCanonicalizeMatchesScalarAt(t *testing.T) {
	values := sampleFloats()
	a := New(dtype.F64, values, dtype.NonNullable)
	canon, err := vxarray.Lookup(a.Encoding()).Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range values {
		s, err := vxarray.ScalarAt(canon, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsFloat() != want {
			t.Errorf("index %d: got %v want %v", i, s.AsFloat(), want)
		}
	}
}

func TestSliceAndTake(t *testing.T) {
	values := sampleFloats()
	a := New(dtype.F64, values, dtype.NonNullable)

	sliced, err := vxarray.Slice(a, 8, 14)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range values[8:14] {
		s, err := vxarray.ScalarAt(sliced, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsFloat() != want {
			t.Errorf("sliced index %d: got %v want %v", i, s.AsFloat(), want)
		}
	}

	idx := primitive.FromInt64(dtype.I64, []int64{10, 0, 20})
	taken, err := vxarray.Take(a, idx)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{values[10], values[0], values[20]}
	for i, w := range want {
		s, err := vxarray.ScalarAt(taken, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsFloat() != w {
			t.Errorf("taken index %d: got %v want %v", i, s.AsFloat(), w)
		}
	}
}
