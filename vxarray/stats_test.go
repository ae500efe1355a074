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

func TestStatisticsComputesMinMax(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{5, 1, 9, 3})
	min, err := a.Statistics().Get(vxarray.StatMin)
	if err != nil {
		t.Fatal(err)
	}
	max, err := a.Statistics().Get(vxarray.StatMax)
	if err != nil {
		t.Fatal(err)
	}
	if min.AsInt() != 1 || max.AsInt() != 9 {
		t.Fatalf("got min=%d max=%d want min=1 max=9", min.AsInt(), max.AsInt())
	}
}

func TestStatisticsIsConstantAndSorted(t *testing.T) {
	constant := primitive.FromInt64(dtype.I64, []int64{7, 7, 7})
	isConstant, err := constant.Statistics().Get(vxarray.StatIsConstant)
	if err != nil {
		t.Fatal(err)
	}
	if !isConstant.AsBool() {
		t.Error("expected constant array to report IsConstant")
	}

	sorted := primitive.FromInt64(dtype.I64, []int64{1, 2, 2, 5})
	isSorted, err := sorted.Statistics().Get(vxarray.StatIsSorted)
	if err != nil {
		t.Fatal(err)
	}
	if !isSorted.AsBool() {
		t.Error("expected non-decreasing array to report IsSorted")
	}
	isStrict, err := sorted.Statistics().Get(vxarray.StatIsStrictSorted)
	if err != nil {
		t.Fatal(err)
	}
	if isStrict.AsBool() {
		t.Error("expected array with a repeated value to fail IsStrictSorted")
	}
}

func TestStatisticsRunCount(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 1, 2, 2, 2, 3})
	rc, err := a.Statistics().Get(vxarray.StatRunCount)
	if err != nil {
		t.Fatal(err)
	}
	if rc.AsInt() != 3 {
		t.Fatalf("got %d want 3", rc.AsInt())
	}
}

func TestStatisticsCachedAfterGet(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 2, 3})
	if _, ok := a.Statistics().Cached(vxarray.StatMin); ok {
		t.Fatal("expected StatMin to be uncached before Get")
	}
	if _, err := a.Statistics().Get(vxarray.StatMin); err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Statistics().Cached(vxarray.StatMin); !ok {
		t.Fatal("expected StatMin to be cached after Get")
	}
}

func TestStatisticsComputeManyReturnsAllRequestedKinds(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{3, 1, 2})
	out, err := a.Statistics().ComputeMany(vxarray.StatMin, vxarray.StatMax, vxarray.StatNullCount)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d entries, want 3", len(out))
	}
	if out[vxarray.StatNullCount].AsInt() != 0 {
		t.Errorf("got null count %d want 0", out[vxarray.StatNullCount].AsInt())
	}
}

func TestStatisticsEmptyArray(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, nil)
	isConstant, err := a.Statistics().Get(vxarray.StatIsConstant)
	if err != nil {
		t.Fatal(err)
	}
	if !isConstant.AsBool() {
		t.Error("expected an empty array to vacuously report IsConstant")
	}
}
