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

package alprd

import (
	"math"
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func sampleReals() []float64 {
	values := make([]float64, 300)
	for i := range values {
		values[i] = math.Sqrt(float64(i+1)) * math.Pi
	}
	values[7] = math.MaxFloat64 / 3 // an outlier forcing a distinct left part
	return values
}

func TestScalarAtRoundTrips(t *testing.T) {
	values := sampleReals()
	a := New(values, dtype.NonNullable)
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
	values := sampleReals()
	a := New(values, dtype.NonNullable)
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
	values := sampleReals()
	a := New(values, dtype.NonNullable)

	sliced, err := vxarray.Slice(a, 5, 12)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range values[5:12] {
		s, err := vxarray.ScalarAt(sliced, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsFloat() != want {
			t.Errorf("sliced index %d: got %v want %v", i, s.AsFloat(), want)
		}
	}

	idx := primitive.FromInt64(dtype.I64, []int64{7, 0, 100})
	taken, err := vxarray.Take(a, idx)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{values[7], values[0], values[100]}
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
