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

// DefaultComputeStatistics is a single O(n) scan over ScalarAt that
// answers every stat kind at once (§4.5). Encodings without a
// cheaper structural shortcut (e.g. Sparse, Opaque-adjacent leaves)
// use this directly; encodings that can derive a stat without
// scanning (RunEnd's RunCount, Dict's Min/Max from its values child)
// override ComputeStatistics and fall back to this only for the
// kinds they cannot shortcut.
func DefaultComputeStatistics(a Array) (map[StatKind]scalar.Scalar, error) {
	n := a.Len()
	out := map[StatKind]scalar.Scalar{}
	if n == 0 {
		out[StatNullCount] = scalar.Int(dtype.I64, 0, dtype.NonNullable)
		out[StatTrueCount] = scalar.Int(dtype.I64, 0, dtype.NonNullable)
		out[StatRunCount] = scalar.Int(dtype.I64, 0, dtype.NonNullable)
		out[StatIsConstant] = scalar.Bool(true, dtype.NonNullable)
		out[StatIsSorted] = scalar.Bool(true, dtype.NonNullable)
		out[StatIsStrictSorted] = scalar.Bool(true, dtype.NonNullable)
		return out, nil
	}

	var (
		nullCount                       int64
		trueCount                       int64
		runCount                        int64
		isConstant, isSorted, isStrict  = true, true, true
		haveFirst                       bool
		first, prev                     scalar.Scalar
		isBool                          = a.DType().Kind() == dtype.KindBool
		comparable                      = isBool || a.DType().Kind() == dtype.KindPrimitive ||
			a.DType().Kind() == dtype.KindUtf8 || a.DType().Kind() == dtype.KindBinary
	)

	for i := 0; i < n; i++ {
		v, err := ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		if v.IsNull() {
			nullCount++
			isConstant = false
			continue
		}
		if isBool && v.AsBool() {
			trueCount++
		}
		if !haveFirst {
			first = v
			prev = v
			haveFirst = true
			runCount = 1
			continue
		}
		if comparable {
			c := v.Compare(prev)
			if c != 0 {
				runCount++
			}
			if c < 0 {
				isSorted = false
				isStrict = false
			} else if c == 0 {
				isStrict = false
			}
			if !v.Equal(first) {
				isConstant = false
			}
		} else if !v.Equal(prev) {
			isConstant = false
		}
		prev = v
	}

	out[StatNullCount] = scalar.Int(dtype.I64, nullCount, dtype.NonNullable)
	out[StatTrueCount] = scalar.Int(dtype.I64, trueCount, dtype.NonNullable)
	out[StatRunCount] = scalar.Int(dtype.I64, runCount, dtype.NonNullable)
	out[StatIsConstant] = scalar.Bool(isConstant, dtype.NonNullable)
	out[StatIsSorted] = scalar.Bool(isSorted, dtype.NonNullable)
	out[StatIsStrictSorted] = scalar.Bool(isStrict, dtype.NonNullable)
	if haveFirst {
		out[StatMin] = first // refined below when comparable
	}
	if comparable {
		min, max := findMinMax(a, n)
		out[StatMin] = min
		out[StatMax] = max
	}
	return out, nil
}

func findMinMax(a Array, n int) (scalar.Scalar, scalar.Scalar) {
	var min, max scalar.Scalar
	have := false
	for i := 0; i < n; i++ {
		v, err := ScalarAt(a, i)
		if err != nil || v.IsNull() {
			continue
		}
		if !have {
			min, max = v, v
			have = true
			continue
		}
		if v.Compare(min) < 0 {
			min = v
		}
		if v.Compare(max) > 0 {
			max = v
		}
	}
	if !have {
		return scalar.Null(a.DType()), scalar.Null(a.DType())
	}
	return min, max
}
