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

	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/vxarray"
)

func TestNonNullableValidityAlwaysValid(t *testing.T) {
	v := vxarray.NonNullable(5)
	for i := 0; i < 5; i++ {
		if !v.IsValid(i) {
			t.Errorf("index %d: expected valid", i)
		}
	}
}

func TestAllInvalidValidityNeverValid(t *testing.T) {
	v := vxarray.AllInvalid(3)
	for i := 0; i < 3; i++ {
		if v.IsValid(i) {
			t.Errorf("index %d: expected invalid", i)
		}
	}
}

func TestBitMaskValidityFollowsBitmap(t *testing.T) {
	bitmap := boolarr.FromBools([]bool{true, false, true, false})
	v := vxarray.NewBitMask(bitmap)
	want := []bool{true, false, true, false}
	for i, w := range want {
		if v.IsValid(i) != w {
			t.Errorf("index %d: got %v want %v", i, v.IsValid(i), w)
		}
	}
}

func TestValiditySlice(t *testing.T) {
	bitmap := boolarr.FromBools([]bool{true, false, true, false, true})
	v := vxarray.NewBitMask(bitmap)
	sliced, err := v.Slice(1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if sliced.Len() != 3 {
		t.Fatalf("got len %d want 3", sliced.Len())
	}
	want := []bool{false, true, false}
	for i, w := range want {
		if sliced.IsValid(i) != w {
			t.Errorf("index %d: got %v want %v", i, sliced.IsValid(i), w)
		}
	}
}

func TestLogicalValidityCollapsesConstantBitmap(t *testing.T) {
	bitmap := boolarr.FromBools([]bool{true, true, true})
	v := vxarray.NewBitMask(bitmap)
	collapsed := v.LogicalValidity()
	if collapsed.Kind() != vxarray.AllValidValidity {
		t.Fatalf("expected AllValidValidity, got %v", collapsed.Kind())
	}
}

func TestLogicalValidityLeavesMixedBitmapAlone(t *testing.T) {
	bitmap := boolarr.FromBools([]bool{true, false, true})
	v := vxarray.NewBitMask(bitmap)
	collapsed := v.LogicalValidity()
	if collapsed.Kind() != vxarray.BitMaskValidity {
		t.Fatalf("expected BitMaskValidity to survive, got %v", collapsed.Kind())
	}
}

func TestToNullBufferOnlyForBitMask(t *testing.T) {
	if _, ok := vxarray.NonNullable(3).ToNullBuffer(); ok {
		t.Fatal("expected no null buffer for NonNullable")
	}
	bitmap := boolarr.FromBools([]bool{true, false})
	v := vxarray.NewBitMask(bitmap)
	buf, ok := v.ToNullBuffer()
	if !ok {
		t.Fatal("expected a null buffer for BitMask")
	}
	if buf.Len() != 2 {
		t.Fatalf("got len %d want 2", buf.Len())
	}
}
