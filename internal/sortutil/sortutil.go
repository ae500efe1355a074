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

// Package sortutil holds ascending/descending monotonicity checks over
// raw bit patterns, which RunEnd and RoaringInt use in Validate, and an
// index quicksort over uint64 keys (SortUint64Indices, which sorts a
// parallel index slice rather than the keys themselves) that no
// package in this module calls. The teacher's
// own internal/sort package generates the equivalent scalarQuicksort*
// family from a template; this is a single hand-written instantiation
// rather than a generated one, since only the uint64-keyed case is
// needed here.
package sortutil

// SortUint64Indices returns a permutation of [0, len(keys)) that would
// sort keys ascending, leaving keys untouched.
func SortUint64Indices(keys []uint64) []int {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	quicksortIndices(keys, idx, 0, len(idx)-1)
	return idx
}

func quicksortIndices(keys []uint64, idx []int, lo, hi int) {
	for lo < hi {
		if hi-lo < 12 {
			insertionSortIndices(keys, idx, lo, hi)
			return
		}
		p := partitionIndices(keys, idx, lo, hi)
		if p-lo < hi-p {
			quicksortIndices(keys, idx, lo, p-1)
			lo = p + 1
		} else {
			quicksortIndices(keys, idx, p+1, hi)
			hi = p - 1
		}
	}
}

func insertionSortIndices(keys []uint64, idx []int, lo, hi int) {
	for i := lo + 1; i <= hi; i++ {
		for j := i; j > lo && keys[idx[j-1]] > keys[idx[j]]; j-- {
			idx[j-1], idx[j] = idx[j], idx[j-1]
		}
	}
}

func partitionIndices(keys []uint64, idx []int, lo, hi int) int {
	pivot := keys[idx[(lo+hi)/2]]
	i, j := lo-1, hi+1
	for {
		for {
			i++
			if keys[idx[i]] >= pivot {
				break
			}
		}
		for {
			j--
			if keys[idx[j]] <= pivot {
				break
			}
		}
		if i >= j {
			return j
		}
		idx[i], idx[j] = idx[j], idx[i]
	}
}

// IsSortedAscUint64 reports whether seq is non-decreasing, treating
// each element as the bit pattern of whatever comparison the caller
// has already reduced to a uint64 ordering (raw unsigned ints, or
// order-preserving transformed floats).
func IsSortedAscUint64(seq []uint64) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i] < seq[i-1] {
			return false
		}
	}
	return true
}

// IsSortedDescUint64 reports whether seq is non-increasing.
func IsSortedDescUint64(seq []uint64) bool {
	for i := 1; i < len(seq); i++ {
		if seq[i] > seq[i-1] {
			return false
		}
	}
	return true
}
