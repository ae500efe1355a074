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

package dict

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
)

func buildStringDict() vxarray.Array {
	dt := dtype.Utf8(dtype.NonNullable)
	strs := []string{"a", "b", "a", "c", "b", "a"}
	values := make([]scalar.Scalar, len(strs))
	for i, s := range strs {
		values[i] = scalar.Utf8(s, dtype.NonNullable)
	}
	return FromValues(dt, values)
}

func TestDeduplicatesValues(t *testing.T) {
	a := buildStringDict()
	if valuesOf(a).Len() != 3 {
		t.Fatalf("unique values: got %d want 3", valuesOf(a).Len())
	}
}

func TestScalarAtRoundTrip(t *testing.T) {
	a := buildStringDict()
	want := []string{"a", "b", "a", "c", "b", "a"}
	for i, w := range want {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsString() != w {
			t.Errorf("index %d: got %q want %q", i, s.AsString(), w)
		}
	}
}

func TestCanonicalizeRoundTrips(t *testing.T) {
	a := buildStringDict()
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
		if got.AsString() != want.AsString() {
			t.Errorf("index %d: got %q want %q", i, got.AsString(), want.AsString())
		}
	}
}

func TestSliceReadsThroughDictionary(t *testing.T) {
	a := buildStringDict()
	sliced, err := vxarray.Slice(a, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"b", "a", "c"}
	for i, w := range want {
		s, err := vxarray.ScalarAt(sliced, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsString() != w {
			t.Errorf("index %d: got %q want %q", i, s.AsString(), w)
		}
	}
}
