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

package zigzag

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/vxarray"
)

func TestRoundTripsNegativeAndPositive(t *testing.T) {
	values := []int64{0, -1, 1, -128, 127, -2147483648, 2147483647}
	a := New(dtype.I64, values, dtype.NonNullable)
	for i, want := range values {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != want {
			t.Errorf("index %d: got %d want %d", i, s.AsInt(), want)
		}
	}
}

func TestCanonicalizeMatchesScalarAt(t *testing.T) {
	a := New(dtype.I32, []int64{5, -5, 0, -1000000}, dtype.NonNullable)
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
		if got.AsInt() != want.AsInt() {
			t.Errorf("index %d: got %d want %d", i, got.AsInt(), want.AsInt())
		}
	}
}

func TestSlice(t *testing.T) {
	a := New(dtype.I16, []int64{10, -10, 20, -20, 30}, dtype.NonNullable)
	sliced, err := vxarray.Slice(a, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{-10, 20, -20}
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
