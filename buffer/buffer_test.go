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

package buffer

import "testing"

func TestNewIsAligned(t *testing.T) {
	for _, n := range []int{0, 1, 7, 128, 1000, 4096} {
		b := New(n)
		if b.Len() != n {
			t.Fatalf("New(%d).Len() = %d", n, b.Len())
		}
		if !b.IsAligned() {
			t.Fatalf("New(%d) not aligned", n)
		}
	}
}

func TestSliceSharesAllocation(t *testing.T) {
	b := New(256)
	s := b.Slice(10, 20)
	if s.Len() != 10 {
		t.Fatalf("slice length = %d, want 10", s.Len())
	}
	if !SameAllocation(b, s) {
		t.Fatal("expected slice to share the backing allocation")
	}
}

func TestSliceFullRangeSharesBuffer(t *testing.T) {
	b := New(64)
	s := b.Slice(0, 64)
	if !SameAllocation(b, s) {
		t.Fatal("slice(arr, 0, len) must share buffers with arr")
	}
}

func TestFromBytesCopiesWhenMisaligned(t *testing.T) {
	raw := make([]byte, 256)
	// carve out a deliberately misaligned sub-slice
	misaligned := raw[1:129]
	b := FromBytes(misaligned)
	if !b.IsAligned() {
		t.Fatal("FromBytes must realign misaligned input")
	}
	if b.Len() != len(misaligned) {
		t.Fatalf("FromBytes length = %d, want %d", b.Len(), len(misaligned))
	}
}
