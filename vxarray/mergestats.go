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

package vxarray

import (
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
)

// MergeChunkStats folds the requested stat kind across a Chunked
// array's chunks without scanning their underlying bytes (§4.5, §8
// scenario 6): Min/Max fold via Compare, RunCount/TrueCount/NullCount
// are additive (with a boundary adjustment for RunCount), IsConstant
// requires every chunk constant and sharing one value, IsSorted
// requires every chunk sorted and non-decreasing at chunk boundaries
// (SPEC_FULL §3 resolves the open question on strict-vs-non-strict
// boundaries in favor of non-strict, matching RunEnd's own run
// semantics where equal adjacent values merge into one run).
func MergeChunkStats(chunks []Array, kind StatKind) (scalar.Scalar, error) {
	switch kind {
	case StatMin, StatMax:
		return mergeMinMax(chunks, kind)
	case StatNullCount, StatTrueCount:
		return mergeAdditive(chunks, kind)
	case StatRunCount:
		return mergeRunCount(chunks)
	case StatIsConstant:
		return mergeIsConstant(chunks)
	case StatIsSorted, StatIsStrictSorted:
		return mergeIsSorted(chunks, kind == StatIsStrictSorted)
	default:
		return scalar.Scalar{}, nil
	}
}

func totalLen(chunks []Array) int {
	n := 0
	for _, c := range chunks {
		n += c.Len()
	}
	return n
}

func mergeMinMax(chunks []Array, kind StatKind) (scalar.Scalar, error) {
	var best scalar.Scalar
	have := false
	for _, c := range chunks {
		v, err := c.Statistics().Get(kind)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if v.IsNull() {
			continue
		}
		if !have {
			best = v
			have = true
			continue
		}
		c := v.Compare(best)
		if (kind == StatMin && c < 0) || (kind == StatMax && c > 0) {
			best = v
		}
	}
	if !have && len(chunks) > 0 {
		return scalar.Null(chunks[0].DType()), nil
	}
	return best, nil
}

func mergeAdditive(chunks []Array, kind StatKind) (scalar.Scalar, error) {
	var total int64
	for _, c := range chunks {
		v, err := c.Statistics().Get(kind)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if !v.IsNull() {
			total += v.AsInt()
		}
	}
	return scalar.Int(dtype.I64, total, dtype.NonNullable), nil
}

func mergeRunCount(chunks []Array) (scalar.Scalar, error) {
	var total int64
	var prevLast scalar.Scalar
	havePrev := false
	for _, c := range chunks {
		if c.Len() == 0 {
			continue
		}
		rc, err := c.Statistics().Get(StatRunCount)
		if err != nil {
			return scalar.Scalar{}, err
		}
		total += rc.AsInt()

		first, err := ScalarAt(c, 0)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if havePrev {
			if !prevLast.IsNull() && !first.IsNull() && prevLast.Equal(first) {
				total--
			}
		}
		last, err := ScalarAt(c, c.Len()-1)
		if err != nil {
			return scalar.Scalar{}, err
		}
		prevLast = last
		havePrev = true
	}
	return scalar.Int(dtype.I64, total, dtype.NonNullable), nil
}

func mergeIsConstant(chunks []Array) (scalar.Scalar, error) {
	var value scalar.Scalar
	have := false
	for _, c := range chunks {
		if c.Len() == 0 {
			continue
		}
		ic, err := c.Statistics().Get(StatIsConstant)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if ic.IsNull() || !ic.AsBool() {
			return scalar.Bool(false, dtype.NonNullable), nil
		}
		v, err := ScalarAt(c, 0)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if !have {
			value = v
			have = true
			continue
		}
		if !value.Equal(v) {
			return scalar.Bool(false, dtype.NonNullable), nil
		}
	}
	return scalar.Bool(true, dtype.NonNullable), nil
}

func mergeIsSorted(chunks []Array, strict bool) (scalar.Scalar, error) {
	kind := StatIsSorted
	if strict {
		kind = StatIsStrictSorted
	}
	var prevLast scalar.Scalar
	havePrev := false
	for _, c := range chunks {
		if c.Len() == 0 {
			continue
		}
		s, err := c.Statistics().Get(kind)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if s.IsNull() || !s.AsBool() {
			return scalar.Bool(false, dtype.NonNullable), nil
		}
		first, err := ScalarAt(c, 0)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if havePrev && !prevLast.IsNull() && !first.IsNull() {
			cmp := first.Compare(prevLast)
			if strict {
				if cmp <= 0 {
					return scalar.Bool(false, dtype.NonNullable), nil
				}
			} else if cmp < 0 {
				return scalar.Bool(false, dtype.NonNullable), nil
			}
		}
		last, err := ScalarAt(c, c.Len()-1)
		if err != nil {
			return scalar.Scalar{}, err
		}
		prevLast = last
		havePrev = true
	}
	return scalar.Bool(true, dtype.NonNullable), nil
}
