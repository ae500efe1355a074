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

package primitive

import (
	"math"
	"testing"

	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func TestValidateRejectsShortBuffer(t *testing.T) {
	buf := buffer.New(3) // too short for 4 I32 values
	_, err := vxarray.TryNewParts(vxarray.PrimitiveID, dtype.Primitive(dtype.I32, dtype.NonNullable), 4, nil, nil, []buffer.Buffer{buf})
	if err == nil {
		t.Fatal("expected error for undersized buffer")
	}
	var ve *vxerror.Error
	if !isVxError(err, &ve) {
		t.Fatalf("expected *vxerror.Error, got %T", err)
	}
}

func isVxError(err error, target **vxerror.Error) bool {
	e, ok := err.(*vxerror.Error)
	if ok {
		*target = e
	}
	return ok
}

func TestValidateRejectsMissingValidityChild(t *testing.T) {
	buf := buffer.New(4 * 4)
	_, err := vxarray.TryNewParts(vxarray.PrimitiveID, dtype.Primitive(dtype.I32, dtype.Nullable), 4, nil, nil, []buffer.Buffer{buf})
	if err == nil {
		t.Fatal("expected error: nullable primitive without validity child")
	}
}

func TestScalarAtSignExtension(t *testing.T) {
	a := FromInt64(dtype.I8, []int64{-1, 127, -128, 0})
	for i, want := range []int64{-1, 127, -128, 0} {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatalf("ScalarAt(%d): %v", i, err)
		}
		if got := s.AsInt(); got != want {
			t.Errorf("index %d: got %d want %d", i, got, want)
		}
	}
}

func TestScalarAtUnsignedNeverNegative(t *testing.T) {
	a := FromUint64(dtype.U64, []uint64{math.MaxUint64, 0})
	s, err := vxarray.ScalarAt(a, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.AsUint() != math.MaxUint64 {
		t.Fatalf("got %d want MaxUint64", s.AsUint())
	}
}

func TestScalarAtFloatRoundTrip(t *testing.T) {
	a := FromFloat64(dtype.F64, []float64{1.5, -2.25, 0})
	for i, want := range []float64{1.5, -2.25, 0} {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if got := s.AsFloat(); got != want {
			t.Errorf("index %d: got %v want %v", i, got, want)
		}
	}

	a32 := FromFloat64(dtype.F32, []float64{3.5})
	s, err := vxarray.ScalarAt(a32, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.AsFloat() != 3.5 {
		t.Fatalf("f32 round trip: got %v want 3.5", s.AsFloat())
	}
}

func TestSliceSharesBuffer(t *testing.T) {
	a := FromInt64(dtype.I32, []int64{1, 2, 3, 4, 5})
	sliced, err := vxarray.Slice(a, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if sliced.Len() != 3 {
		t.Fatalf("len: got %d want 3", sliced.Len())
	}
	if !buffer.SameAllocation(a.Buffer(0), sliced.Buffer(0)) {
		t.Fatal("slice should share backing allocation")
	}
	for i, want := range []int64{2, 3, 4} {
		s, err := vxarray.ScalarAt(sliced, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != want {
			t.Errorf("index %d: got %d want %d", i, s.AsInt(), want)
		}
	}
}

func TestTakeGathersAndBoundsChecks(t *testing.T) {
	a := FromInt64(dtype.I32, []int64{10, 20, 30, 40})
	idx := FromInt64(dtype.I64, []int64{3, 0, 0})
	out, err := vxarray.Take(a, idx)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []int64{40, 10, 10} {
		s, err := vxarray.ScalarAt(out, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != want {
			t.Errorf("index %d: got %d want %d", i, s.AsInt(), want)
		}
	}

	badIdx := FromInt64(dtype.I64, []int64{10})
	if _, err := vxarray.Take(a, badIdx); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestStatisticsRoundTrip(t *testing.T) {
	a := FromInt64(dtype.I32, []int64{1, 2, 2, 3, 5})
	st := a.Statistics()

	min, err := st.Get(vxarray.StatMin)
	if err != nil {
		t.Fatal(err)
	}
	if min.AsInt() != 1 {
		t.Errorf("min: got %d want 1", min.AsInt())
	}

	max, err := st.Get(vxarray.StatMax)
	if err != nil {
		t.Fatal(err)
	}
	if max.AsInt() != 5 {
		t.Errorf("max: got %d want 5", max.AsInt())
	}

	sorted, err := st.Get(vxarray.StatIsSorted)
	if err != nil {
		t.Fatal(err)
	}
	if !sorted.AsBool() {
		t.Error("expected IsSorted true")
	}

	strict, err := st.Get(vxarray.StatIsStrictSorted)
	if err != nil {
		t.Fatal(err)
	}
	if strict.AsBool() {
		t.Error("expected IsStrictSorted false (duplicate 2s)")
	}

	runCount, err := st.Get(vxarray.StatRunCount)
	if err != nil {
		t.Fatal(err)
	}
	if runCount.AsInt() != 4 {
		t.Errorf("runCount: got %d want 4", runCount.AsInt())
	}
}

func TestSearchSorted(t *testing.T) {
	a := FromInt64(dtype.I32, []int64{1, 3, 3, 5, 7})
	target := scalar.Int(dtype.I32, 3, dtype.NonNullable)
	idx, found, err := vxarray.SearchSorted(a, target, vxarray.Left)
	if err != nil {
		t.Fatal(err)
	}
	if !found || idx != 1 {
		t.Fatalf("left search: got idx=%d found=%v want idx=1 found=true", idx, found)
	}
	idx, found, err = vxarray.SearchSorted(a, target, vxarray.Right)
	if err != nil {
		t.Fatal(err)
	}
	if !found || idx != 3 {
		t.Fatalf("right search: got idx=%d found=%v want idx=3 found=true", idx, found)
	}
}
