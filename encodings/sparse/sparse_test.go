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

package sparse

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func buildSparse() vxarray.Array {
	dt := dtype.Primitive(dtype.I64, dtype.NonNullable)
	indices := primitive.FromInt64(dtype.I64, []int64{1, 4})
	patches := primitive.FromInt64(dtype.I64, []int64{100, 200})
	fill := primitive.FromInt64(dtype.I64, []int64{0})
	return New(dt, 6, indices, patches, fill)
}

func TestScalarAtFillAndPatch(t *testing.T) {
	a := buildSparse()
	want := []int64{0, 100, 0, 0, 200, 0}
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

func TestSliceShiftsOffset(t *testing.T) {
	a := buildSparse()
	sliced, err := vxarray.Slice(a, 2, 6)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{0, 0, 200, 0}
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

func TestCanonicalizeMatchesScalarAt(t *testing.T) {
	a := buildSparse()
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

func TestTakeGathersFillAndPatches(t *testing.T) {
	a := buildSparse()
	idx := primitive.FromInt64(dtype.I64, []int64{0, 1, 4})
	out, err := vxarray.Take(a, idx)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{0, 100, 200}
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
