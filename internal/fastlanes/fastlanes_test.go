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

package fastlanes

import "testing"

func TestPackUnpackRoundTrip(t *testing.T) {
	for _, width := range []int{1, 3, 5, 7, 8, 9, 13, 17, 31, 32, 64} {
		values := make([]uint64, 37)
		mask := uint64(1)<<uint(width) - 1
		if width == 64 {
			mask = ^uint64(0)
		}
		for i := range values {
			values[i] = (uint64(i)*2654435761 + 7) & mask
		}
		packed := Pack(width, values)
		got := Unpack(width, len(values), packed)
		for i := range values {
			if got[i] != values[i] {
				t.Fatalf("width %d index %d: got %d want %d", width, i, got[i], values[i])
			}
		}
	}
}

func TestBitWidth(t *testing.T) {
	cases := []struct {
		values []uint64
		want   int
	}{
		{[]uint64{0, 0, 0}, 1},
		{[]uint64{1, 2, 3}, 2},
		{[]uint64{255}, 8},
		{[]uint64{256}, 9},
	}
	for _, c := range cases {
		if got := BitWidth(c.values); got != c.want {
			t.Errorf("BitWidth(%v): got %d want %d", c.values, got, c.want)
		}
	}
}
