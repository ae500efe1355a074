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

package primitive

import (
	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

// Filter implements vxarray.FilterFn by copying selected values.
func (e encoding) Filter(a vxarray.Array, mask vxarray.Array) (vxarray.Array, error) {
	n := a.Len()
	idx := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		v, err := vxarray.ScalarAt(mask, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		if !v.IsNull() && v.AsBool() {
			idx = append(idx, int64(i))
		}
	}
	return e.Take(a, FromInt64(dtype.I64, idx))
}

// Compare implements vxarray.CompareFn for the ordering/equality
// operators. And/Or are not meaningful for a non-Bool Primitive and
// return NotImplemented so callers fall back to Bool's own Compare.
func (e encoding) Compare(a, b vxarray.Array, op vxarray.CompareOp) (vxarray.Array, error) {
	if op == vxarray.And || op == vxarray.Or {
		return vxarray.Array{}, vxerror.NewNotImplemented("compare", "primitive")
	}
	n := a.Len()
	bits := buffer.New((n + 7) / 8)
	bb := bits.Bytes()
	validity := buffer.New((n + 7) / 8)
	vb := validity.Bytes()
	for i := 0; i < n; i++ {
		av, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		bv, err := vxarray.ScalarAt(b, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		if av.IsNull() || bv.IsNull() {
			continue
		}
		vb[i/8] |= 1 << uint(i%8)
		if compareOK(av.Compare(bv), op) {
			bb[i/8] |= 1 << uint(i%8)
		}
	}
	return boolResult(n, bits, validity), nil
}

func compareOK(c int, op vxarray.CompareOp) bool {
	switch op {
	case vxarray.Eq:
		return c == 0
	case vxarray.NotEq:
		return c != 0
	case vxarray.Lt:
		return c < 0
	case vxarray.Gt:
		return c > 0
	case vxarray.LtEq:
		return c <= 0
	default: // GtEq
		return c >= 0
	}
}

// boolResultBuilder is satisfied by the boolarr package via a package
// variable set from its init(), avoiding an import cycle (primitive
// cannot import boolarr, which itself imports primitive, e.g. for
// FromInt64 in its Filter).
var boolResultBuilder func(n int, bits, validity buffer.Buffer) vxarray.Array

// RegisterBoolResultBuilder lets the boolarr package install the
// constructor primitive.Compare needs to produce its Bool output.
func RegisterBoolResultBuilder(f func(n int, bits, validity buffer.Buffer) vxarray.Array) {
	boolResultBuilder = f
}

func boolResult(n int, bits, validity buffer.Buffer) vxarray.Array {
	return boolResultBuilder(n, bits, validity)
}

// SearchSorted implements vxarray.SearchSortedFn with a slice-level
// binary search over the raw buffer (§4.7.6). The returned bool
// reports whether v is present in a, regardless of which side was
// requested; side only controls where among a run of equal values the
// returned index falls.
func (e encoding) SearchSorted(a vxarray.Array, v scalar.Scalar, side vxarray.SearchSide) (int, bool, error) {
	n := a.Len()
	lowerBound, err := e.boundSearch(a, v, false)
	if err != nil {
		return 0, false, err
	}
	found := lowerBound < n
	if found {
		mv, err := e.ScalarAt(a, lowerBound)
		if err != nil {
			return 0, false, err
		}
		found = mv.Compare(v) == 0
	}
	switch side {
	case vxarray.Left, vxarray.Exact:
		return lowerBound, found, nil
	default: // Right
		upperBound, err := e.boundSearch(a, v, true)
		if err != nil {
			return 0, false, err
		}
		return upperBound, found, nil
	}
}

// boundSearch returns the lower bound (leftmost index whose value is
// >= v) when strictGreater is false, or the upper bound (leftmost
// index whose value is > v) when true.
func (e encoding) boundSearch(a vxarray.Array, v scalar.Scalar, strictGreater bool) (int, error) {
	lo, hi := 0, a.Len()
	for lo < hi {
		mid := (lo + hi) / 2
		mv, err := e.ScalarAt(a, mid)
		if err != nil {
			return 0, err
		}
		c := mv.Compare(v)
		less := c < 0
		if strictGreater {
			less = c <= 0
		}
		if less {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// Cast implements vxarray.CastFn: widening/narrowing between
// primitive widths, and nullability-only casts (zero-copy).
func (e encoding) Cast(a vxarray.Array, to dtype.DType) (vxarray.Array, error) {
	if to.Kind() != dtype.KindPrimitive {
		return vxarray.Array{}, vxerror.NewMismatchedTypes(to.String(), a.DType().String())
	}
	if to.PType() == a.DType().PType() {
		if to.Nullable() == a.DType().Nullable() {
			return a, nil
		}
		if to.Nullable() {
			// widening nullability requires a validity child; treat
			// every position as valid.
			ones := buffer.New((a.Len() + 7) / 8)
			for i := range ones.Bytes() {
				ones.Bytes()[i] = 0xFF
			}
			return NewNullable(to.PType(), a.Buffer(0), a.Len(), boolResult(a.Len(), ones, buffer.Buffer{})), nil
		}
		if !a.DType().Nullable() {
			return a, nil
		}
		nc, err := a.Statistics().Get(vxarray.StatNullCount)
		if err != nil {
			return vxarray.Array{}, err
		}
		if !nc.IsNull() && nc.AsInt() > 0 {
			return vxarray.Array{}, vxerror.NewInvalidArgument("cast: cannot drop nullability with %d nulls present", nc.AsInt())
		}
		return New(to.PType(), a.Buffer(0), a.Len()), nil
	}
	n := a.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := e.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		if to.PType().IsFloat() {
			out[i] = scalarAsFloat(v)
		} else {
			f := scalarAsFloat(v)
			if err := checkOverflow(f, to.PType()); err != nil {
				return vxarray.Array{}, err
			}
			out[i] = f
		}
	}
	if to.PType().IsFloat() {
		return FromFloat64(to.PType(), out), nil
	}
	ints := make([]int64, n)
	for i, f := range out {
		ints[i] = int64(f)
	}
	if to.PType().IsSigned() {
		return FromInt64(to.PType(), ints), nil
	}
	u := make([]uint64, n)
	for i, v := range ints {
		u[i] = uint64(v)
	}
	return FromUint64(to.PType(), u), nil
}

func scalarAsFloat(v scalar.Scalar) float64 {
	if v.DType().PType().IsFloat() {
		return v.AsFloat()
	}
	if v.DType().PType().IsSigned() {
		return float64(v.AsInt())
	}
	return float64(v.AsUint())
}

func checkOverflow(f float64, to dtype.PType) error {
	w := to.ByteWidth() * 8
	if to.IsSigned() {
		max := float64(int64(1)<<uint(w-1) - 1)
		min := -max - 1
		if f > max || f < min {
			return vxerror.NewOverflow("cast: value %v overflows %s", f, to)
		}
	} else if to.IsUnsigned() && w < 64 {
		max := float64(uint64(1)<<uint(w) - 1)
		if f > max || f < 0 {
			return vxerror.NewOverflow("cast: value %v overflows %s", f, to)
		}
	}
	return nil
}

// FillForward implements vxarray.FillForwardFn (§4.7.8).
func (e encoding) FillForward(a vxarray.Array) (vxarray.Array, error) {
	n := a.Len()
	p := a.DType().PType()
	out := make([]uint64, n)
	var last uint64
	haveLast := false
	for i := 0; i < n; i++ {
		v, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		if v.IsNull() {
			out[i] = last
			continue
		}
		last = rawBits(v, p)
		haveLast = true
		out[i] = last
	}
	_ = haveLast
	return FromUint64(p, out), nil
}

func rawBits(v scalar.Scalar, p dtype.PType) uint64 {
	if p.IsFloat() {
		if p == dtype.F32 {
			return uint64(uint32(v.AsUint()))
		}
	}
	switch {
	case p.IsFloat():
		return v.AsUint()
	case p.IsSigned():
		return uint64(v.AsInt())
	default:
		return v.AsUint()
	}
}

// SubtractScalar implements vxarray.SubtractScalarFn.
func (e encoding) SubtractScalar(a vxarray.Array, v scalar.Scalar) (vxarray.Array, error) {
	n := a.Len()
	p := a.DType().PType()
	if p.IsFloat() {
		out := make([]float64, n)
		for i := 0; i < n; i++ {
			sv, err := e.ScalarAt(a, i)
			if err != nil {
				return vxarray.Array{}, err
			}
			out[i] = sv.AsFloat() - v.AsFloat()
		}
		return FromFloat64(p, out), nil
	}
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		sv, err := e.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		out[i] = sv.AsInt() - v.AsInt()
	}
	return FromInt64(p, out), nil
}
