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

package fsst

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func sampleStrings() []string {
	words := []string{
		"the quick brown fox jumps over the lazy dog",
		"the quick brown fox",
		"lazy dog",
		"",
		"a repeated pattern a repeated pattern a repeated pattern",
		"unicode: éèê café",
	}
	values := make([]string, 0, 200)
	for i := 0; i < 200; i++ {
		values = append(values, words[i%len(words)])
	}
	return values
}

func TestScalarAtRoundTrips(t *testing.T) {
	values := sampleStrings()
	a := FromStrings(values)
	for i, want := range values {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsString() != want {
			t.Errorf("index %d: got %q want %q", i, s.AsString(), want)
		}
	}
}

func TestCanonicalizeMatchesScalarAt(t *testing.T) {
	values := sampleStrings()
	a := FromStrings(values)
	canon, err := vxarray.Lookup(a.Encoding()).Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range values {
		s, err := vxarray.ScalarAt(canon, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsString() != want {
			t.Errorf("index %d: got %q want %q", i, s.AsString(), want)
		}
	}
}

func TestSliceAndTake(t *testing.T) {
	values := sampleStrings()
	a := FromStrings(values)

	sliced, err := vxarray.Slice(a, 2, 9)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range values[2:9] {
		s, err := vxarray.ScalarAt(sliced, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsString() != want {
			t.Errorf("sliced index %d: got %q want %q", i, s.AsString(), want)
		}
	}

	idx := primitive.FromInt64(dtype.I64, []int64{0, 3, 5, 40})
	taken, err := vxarray.Take(a, idx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{values[0], values[3], values[5], values[40]}
	for i, w := range want {
		s, err := vxarray.ScalarAt(taken, i)
		if err != nil {
			t.Fatal(err)
		}
		if s.AsString() != w {
			t.Errorf("taken index %d: got %q want %q", i, s.AsString(), w)
		}
	}
}
