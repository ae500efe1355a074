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

package forenc

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/vxarray"
)

func TestScalarAtAddsReference(t *testing.T) {
	values := []int64{1000, 1002, 1001, 1010, 999}
	a := New(dtype.I64, 1000, values, dtype.NonNullable)
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
	values := []int64{50, 52, 48, 55}
	a := New(dtype.I32, 50, values, dtype.NonNullable)
	canon, err := vxarray.Lookup(a.Encoding()).Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}
	for i := range values {
		got, err := vxarray.ScalarAt(canon, i)
		if err != nil {
			t.Fatal(err)
		}
		if got.AsInt() != values[i] {
			t.Errorf("index %d: got %d want %d", i, got.AsInt(), values[i])
		}
	}
}

func TestSliceAndTake(t *testing.T) {
	values := []int64{5, 6, 7, 8, 9}
	a := New(dtype.I16, 5, values, dtype.NonNullable)
	sliced, err := vxarray.Slice(a, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{6, 7, 8}
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
