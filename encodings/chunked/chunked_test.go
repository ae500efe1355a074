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

package chunked

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func buildChunked() vxarray.Array {
	c0 := primitive.FromInt64(dtype.I64, []int64{1, 2, 3})
	c1 := primitive.FromInt64(dtype.I64, []int64{4, 5})
	c2 := primitive.FromInt64(dtype.I64, []int64{6, 7, 8, 9})
	return New(dtype.Primitive(dtype.I64, dtype.NonNullable), []vxarray.Array{c0, c1, c2})
}

func TestScalarAtCrossesChunks(t *testing.T) {
	a := buildChunked()
	for i, want := range []int64{1, 2, 3, 4, 5, 6, 7, 8, 9} {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != want {
			t.Errorf("index %d: got %d want %d", i, s.AsInt(), want)
		}
	}
}

func TestSliceAcrossChunkBoundary(t *testing.T) {
	a := buildChunked()
	sliced, err := vxarray.Slice(a, 2, 6)
	if err != nil {
		t.Fatal(err)
	}
	if sliced.Len() != 4 {
		t.Fatalf("len: got %d want 4", sliced.Len())
	}
	for i, want := range []int64{3, 4, 5, 6} {
		s, err := vxarray.ScalarAt(sliced, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != want {
			t.Errorf("index %d: got %d want %d", i, s.AsInt(), want)
		}
	}
}

func TestTakeGathersAcrossChunks(t *testing.T) {
	a := buildChunked()
	idx := primitive.FromInt64(dtype.I64, []int64{8, 0, 4})
	out, err := vxarray.Take(a, idx)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []int64{9, 1, 5} {
		s, err := vxarray.ScalarAt(out, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != want {
			t.Errorf("index %d: got %d want %d", i, s.AsInt(), want)
		}
	}
}

func TestMergedStatistics(t *testing.T) {
	a := buildChunked()
	st, err := a.Statistics().ComputeMany(vxarray.StatMin, vxarray.StatMax, vxarray.StatIsSorted)
	if err != nil {
		t.Fatal(err)
	}
	if st[vxarray.StatMin].AsInt() != 1 {
		t.Errorf("min: got %d want 1", st[vxarray.StatMin].AsInt())
	}
	if st[vxarray.StatMax].AsInt() != 9 {
		t.Errorf("max: got %d want 9", st[vxarray.StatMax].AsInt())
	}
	if !st[vxarray.StatIsSorted].AsBool() {
		t.Error("expected IsSorted true")
	}
}
