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
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func chunksOf(t *testing.T, groups ...[]int64) []vxarray.Array {
	t.Helper()
	chunks := make([]vxarray.Array, len(groups))
	for i, g := range groups {
		chunks[i] = primitive.FromInt64(dtype.I64, g)
	}
	return chunks
}

func TestMergeChunkStatsMinMax(t *testing.T) {
	chunks := chunksOf(t, []int64{5, 2}, []int64{9, 1}, []int64{4})
	min, err := vxarray.MergeChunkStats(chunks, vxarray.StatMin)
	if err != nil {
		t.Fatal(err)
	}
	max, err := vxarray.MergeChunkStats(chunks, vxarray.StatMax)
	if err != nil {
		t.Fatal(err)
	}
	if min.AsInt() != 1 || max.AsInt() != 9 {
		t.Fatalf("got min=%d max=%d want min=1 max=9", min.AsInt(), max.AsInt())
	}
}

func TestMergeChunkStatsAdditive(t *testing.T) {
	chunks := chunksOf(t, []int64{1, 1, 1}, []int64{1, 1})
	rc, err := vxarray.MergeChunkStats(chunks, vxarray.StatNullCount)
	if err != nil {
		t.Fatal(err)
	}
	if rc.AsInt() != 0 {
		t.Fatalf("got %d want 0 (non-nullable chunks)", rc.AsInt())
	}
}

func TestMergeChunkStatsRunCountAcrossBoundary(t *testing.T) {
	// chunk 1 ends in 2, chunk 2 starts with 2: the boundary run merges.
	chunks := chunksOf(t, []int64{1, 2}, []int64{2, 3})
	rc, err := vxarray.MergeChunkStats(chunks, vxarray.StatRunCount)
	if err != nil {
		t.Fatal(err)
	}
	if rc.AsInt() != 3 {
		t.Fatalf("got %d want 3 (1,2,3 after merging the boundary run)", rc.AsInt())
	}
}

func TestMergeChunkStatsIsConstantRequiresSharedValue(t *testing.T) {
	same := chunksOf(t, []int64{7, 7}, []int64{7, 7, 7})
	isConstant, err := vxarray.MergeChunkStats(same, vxarray.StatIsConstant)
	if err != nil {
		t.Fatal(err)
	}
	if !isConstant.AsBool() {
		t.Error("expected constant chunks sharing one value to report constant")
	}

	different := chunksOf(t, []int64{7, 7}, []int64{8, 8})
	notConstant, err := vxarray.MergeChunkStats(different, vxarray.StatIsConstant)
	if err != nil {
		t.Fatal(err)
	}
	if notConstant.AsBool() {
		t.Error("expected chunks with different constant values to not report constant")
	}
}

func TestMergeChunkStatsIsSortedAcrossBoundary(t *testing.T) {
	ascending := chunksOf(t, []int64{1, 2}, []int64{2, 4})
	isSorted, err := vxarray.MergeChunkStats(ascending, vxarray.StatIsSorted)
	if err != nil {
		t.Fatal(err)
	}
	if !isSorted.AsBool() {
		t.Error("expected non-decreasing chunks to report sorted")
	}

	descendingBoundary := chunksOf(t, []int64{1, 5}, []int64{2, 4})
	notSorted, err := vxarray.MergeChunkStats(descendingBoundary, vxarray.StatIsSorted)
	if err != nil {
		t.Fatal(err)
	}
	if notSorted.AsBool() {
		t.Error("expected a boundary decrease to break sortedness")
	}
}
