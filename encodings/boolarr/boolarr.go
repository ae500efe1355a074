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

// Package boolarr implements the canonical Bool encoding: a bit-packed
// buffer (one bit per logical position, LSB-first within each byte)
// plus an optional validity child (§4.3).
package boolarr

import (
	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
	vxarray.RegisterCanonical(dtype.KindBool, vxarray.BoolID)
	primitive.RegisterBoolResultBuilder(func(n int, bits, validity buffer.Buffer) vxarray.Array {
		if validity.Len() == 0 {
			return New(n, bits)
		}
		return NewNullable(n, bits, New(n, validity))
	})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.BoolID }
func (encoding) Name() string           { return "bool" }

func bitBytes(n int) int { return (n + 7) / 8 }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindBool {
		return vxerror.NewInvalidDType("bool: dtype must be Bool, got %s", dt)
	}
	want := bitBytes(a.Len())
	if a.NumBuffers() != 1 || a.Buffer(0).Len() != want {
		got := 0
		if a.NumBuffers() > 0 {
			got = a.Buffer(0).Len()
		}
		return vxerror.NewInvalidEncoding("bool: bitmap buffer must be %d bytes, got %d", want, got)
	}
	if dt.Nullable() && a.NumChildren() != 1 {
		return vxerror.NewInvalidEncoding("bool: nullable dtype requires a validity child")
	}
	if !dt.Nullable() && a.NumChildren() != 0 {
		return vxerror.NewInvalidEncoding("bool: non-nullable dtype must not carry a validity child")
	}
	return nil
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.NewBitMask(a.Child(0)), nil
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) { return a, nil }

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	return vxarray.DefaultComputeStatistics(a)
}

// New builds a non-nullable Bool array from a bit-packed buffer.
func New(length int, bits buffer.Buffer) vxarray.Array {
	return vxarray.MustNewParts(vxarray.BoolID, dtype.Bool(dtype.NonNullable), length, nil, nil, []buffer.Buffer{bits})
}

// NewNullable builds a nullable Bool array with an explicit validity
// child (itself a non-nullable Bool array).
func NewNullable(length int, bits buffer.Buffer, validity vxarray.Array) vxarray.Array {
	return vxarray.MustNewParts(vxarray.BoolID, dtype.Bool(dtype.Nullable), length, nil, []vxarray.Array{validity}, []buffer.Buffer{bits})
}

// FromBools packs a []bool into a non-nullable Bool array.
func FromBools(values []bool) vxarray.Array {
	bits := buffer.New(bitBytes(len(values)))
	b := bits.Bytes()
	for i, v := range values {
		if v {
			b[i/8] |= 1 << uint(i%8)
		}
	}
	return New(len(values), bits)
}

func bitAt(b []byte, i int) bool {
	return b[i/8]&(1<<uint(i%8)) != 0
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	return scalar.Bool(bitAt(a.Buffer(0).Bytes(), i), a.DType().Nullability()), nil
}

// SliceArray implements vxarray.SliceFn. Bool's bit-packed buffer
// cannot be sliced at a non-byte-aligned offset without repacking, so
// non-byte-aligned slices copy; byte-aligned ones share the buffer.
func (e encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	n := stop - start
	var bits buffer.Buffer
	if start%8 == 0 {
		bits = a.Buffer(0).Slice(start/8, start/8+bitBytes(n))
	} else {
		bits = buffer.New(bitBytes(n))
		src := a.Buffer(0).Bytes()
		dst := bits.Bytes()
		for i := 0; i < n; i++ {
			if bitAt(src, start+i) {
				dst[i/8] |= 1 << uint(i%8)
			}
		}
	}
	if !a.DType().Nullable() {
		return New(n, bits), nil
	}
	v, err := vxarray.Slice(a.Child(0), start, stop)
	if err != nil {
		return vxarray.Array{}, err
	}
	return NewNullable(n, bits, v), nil
}

// Take implements vxarray.TakeFn.
func (e encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	src := a.Buffer(0).Bytes()
	out := buffer.New(bitBytes(n))
	dst := out.Bytes()
	for i := 0; i < n; i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
		if bitAt(src, j) {
			dst[i/8] |= 1 << uint(i%8)
		}
	}
	if !a.DType().Nullable() {
		return New(n, out), nil
	}
	v, err := vxarray.Take(a.Child(0), indices)
	if err != nil {
		return vxarray.Array{}, err
	}
	return NewNullable(n, out, v), nil
}

// Filter implements vxarray.FilterFn.
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
	return e.Take(a, primitive.FromInt64(dtype.I64, idx))
}

// Compare implements vxarray.CompareFn, including And/Or which are
// only meaningful for Bool.
func (e encoding) Compare(a, b vxarray.Array, op vxarray.CompareOp) (vxarray.Array, error) {
	n := a.Len()
	bits := buffer.New(bitBytes(n))
	bb := bits.Bytes()
	validity := buffer.New(bitBytes(n))
	vb := validity.Bytes()
	for i := 0; i < n; i++ {
		av, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		bvv, err := vxarray.ScalarAt(b, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		if av.IsNull() || bvv.IsNull() {
			continue
		}
		vb[i/8] |= 1 << uint(i%8)
		var result bool
		switch op {
		case vxarray.And:
			result = av.AsBool() && bvv.AsBool()
		case vxarray.Or:
			result = av.AsBool() || bvv.AsBool()
		case vxarray.Eq:
			result = av.AsBool() == bvv.AsBool()
		case vxarray.NotEq:
			result = av.AsBool() != bvv.AsBool()
		default:
			return vxarray.Array{}, vxerror.NewNotImplemented("compare", "bool")
		}
		if result {
			bb[i/8] |= 1 << uint(i%8)
		}
	}
	return NewNullable(n, bits, New(n, validity)), nil
}

// FillForward implements vxarray.FillForwardFn (§4.7.8).
func (e encoding) FillForward(a vxarray.Array) (vxarray.Array, error) {
	n := a.Len()
	out := make([]bool, n)
	var last bool
	for i := 0; i < n; i++ {
		v, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		if v.IsNull() {
			out[i] = last
			continue
		}
		last = v.AsBool()
		out[i] = last
	}
	return FromBools(out), nil
}
