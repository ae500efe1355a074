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

package bitpacked

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/vxarray"
)

func TestScalarAtNoExceptions(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 4, 5, 6, 7}
	a := New(dtype.U8, values, 3, dtype.NonNullable)
	for i, want := range values {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsUint() != want {
			t.Errorf("index %d: got %d want %d", i, s.AsUint(), want)
		}
	}
}

func TestScalarAtWithExceptions(t *testing.T) {
	values := []uint64{1, 2, 300, 3, 4}
	a := New(dtype.U16, values, 4, dtype.NonNullable)
	for i, want := range values {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsUint() != want {
			t.Errorf("index %d: got %d want %d", i, s.AsUint(), want)
		}
	}
}

func TestCanonicalizeMatchesScalarAt(t *testing.T) {
	values := []uint64{7, 500, 1, 2, 999, 3}
	a := New(dtype.U32, values, 3, dtype.NonNullable)
	canon, err := vxarray.Lookup(a.Encoding()).Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}
	for i := range values {
		want, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		got, err := vxarray.ScalarAt(canon, i)
		if err != nil {
			t.Fatal(err)
		}
		if got.AsUint() != want.AsUint() {
			t.Errorf("index %d: got %d want %d", i, got.AsUint(), want.AsUint())
		}
	}
}

func TestSliceAndTake(t *testing.T) {
	values := []uint64{1, 2, 3, 4, 5, 6}
	a := New(dtype.U8, values, 3, dtype.NonNullable)
	sliced, err := vxarray.Slice(a, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{3, 4, 5}
	for i, w := range want {
		s, err := vxarray.ScalarAt(sliced, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsUint() != w {
			t.Errorf("index %d: got %d want %d", i, s.AsUint(), w)
		}
	}
}
