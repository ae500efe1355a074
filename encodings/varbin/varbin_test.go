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

package varbin

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func TestScalarAtAndSlice(t *testing.T) {
	a, err := FromStrings([]string{"hello", "", "world!"})
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"hello", "", "world!"} {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsString() != want {
			t.Errorf("index %d: got %q want %q", i, s.AsString(), want)
		}
	}

	sliced, err := vxarray.Slice(a, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	s, err := vxarray.ScalarAt(sliced, 1)
	if err != nil {
		t.Fatal(err)
	}
	if s.AsString() != "world!" {
		t.Errorf("sliced index 1: got %q want %q", s.AsString(), "world!")
	}
}

func TestTakeGathers(t *testing.T) {
	a, err := FromStrings([]string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatal(err)
	}
	idx := primitive.FromInt64(dtype.I64, []int64{2, 0})
	out, err := vxarray.Take(a, idx)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"ccc", "a"} {
		s, err := vxarray.ScalarAt(out, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsString() != want {
			t.Errorf("index %d: got %q want %q", i, s.AsString(), want)
		}
	}
}

func TestRejectsInvalidUTF8(t *testing.T) {
	if _, err := FromStrings([]string{string([]byte{0xff, 0xfe})}); err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}
