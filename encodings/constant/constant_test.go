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

package constant

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
)

func TestScalarAtBroadcasts(t *testing.T) {
	a := New(scalar.Int(dtype.I64, 7, dtype.NonNullable), 5)
	for i := 0; i < a.Len(); i++ {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != 7 {
			t.Errorf("index %d: got %d want 7", i, s.AsInt())
		}
	}
}

func TestCanonicalizeBroadcasts(t *testing.T) {
	a := New(scalar.Int(dtype.I64, 3, dtype.NonNullable), 4)
	canon, err := vxarray.Lookup(a.Encoding()).Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}
	if canon.Len() != 4 {
		t.Fatalf("len: got %d want 4", canon.Len())
	}
	for i := 0; i < canon.Len(); i++ {
		s, err := vxarray.ScalarAt(canon, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsInt() != 3 {
			t.Errorf("index %d: got %d want 3", i, s.AsInt())
		}
	}
}

func TestSliceShrinksLength(t *testing.T) {
	a := New(scalar.Utf8("x", dtype.NonNullable), 10)
	sliced, err := vxarray.Slice(a, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	if sliced.Len() != 3 {
		t.Fatalf("len: got %d want 3", sliced.Len())
	}
	s, err := vxarray.ScalarAt(sliced, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.AsString() != "x" {
		t.Errorf("got %q want \"x\"", s.AsString())
	}
}
