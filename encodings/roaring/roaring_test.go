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

package roaring

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func TestBoolScalarAt(t *testing.T) {
	values := []bool{false, true, false, false, true, true, false}
	a := FromBools(values)
	for i, want := range values {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsBool() != want {
			t.Errorf("index %d: got %v want %v", i, s.AsBool(), want)
		}
	}
}

func TestBoolSliceRebasesPositions(t *testing.T) {
	a := FromBools([]bool{true, false, true, true, false})
	sliced, err := vxarray.Slice(a, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []bool{false, true, true}
	for i, w := range want {
		s, err := vxarray.ScalarAt(sliced, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsBool() != w {
			t.Errorf("index %d: got %v want %v", i, s.AsBool(), w)
		}
	}
}

func TestIntScalarAtAndSlice(t *testing.T) {
	a := NewInt(dtype.U32, []uint64{2, 5, 9, 12})
	for i, want := range []uint64{2, 5, 9, 12} {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsUint() != want {
			t.Errorf("index %d: got %d want %d", i, s.AsUint(), want)
		}
	}
	sliced, err := vxarray.Slice(a, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []uint64{5, 9} {
		s, err := vxarray.ScalarAt(sliced, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsUint() != want {
			t.Errorf("index %d: got %d want %d", i, s.AsUint(), want)
		}
	}
}

func TestIntTakeResortsValues(t *testing.T) {
	a := NewInt(dtype.U32, []uint64{1, 3, 5, 7})
	idx := primitive.FromInt64(dtype.I64, []int64{3, 0, 1})
	out, err := vxarray.Take(a, idx)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{1, 3, 7}
	for i, w := range want {
		s, err := vxarray.ScalarAt(out, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsUint() != w {
			t.Errorf("index %d: got %d want %d", i, s.AsUint(), w)
		}
	}
}
