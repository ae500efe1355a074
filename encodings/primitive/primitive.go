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

// Package primitive implements the canonical Primitive encoding: a
// flat buffer of fixed-width values plus an optional validity child
// (§4.3).
package primitive

import (
	"encoding/binary"
	"math"

	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
	vxarray.RegisterCanonical(dtype.KindPrimitive, vxarray.PrimitiveID)
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.PrimitiveID }
func (encoding) Name() string           { return "primitive" }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindPrimitive {
		return vxerror.NewInvalidDType("primitive: dtype must be Primitive, got %s", dt)
	}
	want := a.Len() * dt.PType().ByteWidth()
	if a.NumBuffers() != 1 || a.Buffer(0).Len() != want {
		return vxerror.NewInvalidEncoding("primitive: values buffer must be %d bytes, got %d", want, bufLenOrZero(a))
	}
	if dt.Nullable() && a.NumChildren() != 1 {
		return vxerror.NewInvalidEncoding("primitive: nullable dtype requires a validity child")
	}
	if !dt.Nullable() && a.NumChildren() != 0 {
		return vxerror.NewInvalidEncoding("primitive: non-nullable dtype must not carry a validity child")
	}
	return nil
}

func bufLenOrZero(a vxarray.Array) int {
	if a.NumBuffers() == 0 {
		return 0
	}
	return a.Buffer(0).Len()
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

// New builds a non-nullable Primitive array from raw bytes whose
// length must equal len*ptype.ByteWidth().
func New(p dtype.PType, values buffer.Buffer, length int) vxarray.Array {
	return vxarray.MustNewParts(vxarray.PrimitiveID, dtype.Primitive(p, dtype.NonNullable), length, nil, nil, []buffer.Buffer{values})
}

// NewNullable builds a nullable Primitive array with an explicit
// validity bitmap array (itself a non-nullable Bool array).
func NewNullable(p dtype.PType, values buffer.Buffer, length int, validity vxarray.Array) vxarray.Array {
	return vxarray.MustNewParts(vxarray.PrimitiveID, dtype.Primitive(p, dtype.Nullable), length, nil, []vxarray.Array{validity}, []buffer.Buffer{values})
}

// FromInt64 packs a []int64 into a non-nullable Primitive array of the
// given signed PType.
func FromInt64(p dtype.PType, values []int64) vxarray.Array {
	w := p.ByteWidth()
	buf := buffer.New(len(values) * w)
	bs := buf.Bytes()
	for i, v := range values {
		putInt(bs[i*w:(i+1)*w], p, v)
	}
	return New(p, buf, len(values))
}

// FromUint64 packs a []uint64 into a non-nullable Primitive array of
// the given unsigned PType.
func FromUint64(p dtype.PType, values []uint64) vxarray.Array {
	w := p.ByteWidth()
	buf := buffer.New(len(values) * w)
	bs := buf.Bytes()
	for i, v := range values {
		putUint(bs[i*w:(i+1)*w], p, v)
	}
	return New(p, buf, len(values))
}

// FromFloat64 packs a []float64 into a non-nullable Primitive array of
// the given float PType (F32 or F64).
func FromFloat64(p dtype.PType, values []float64) vxarray.Array {
	w := p.ByteWidth()
	buf := buffer.New(len(values) * w)
	bs := buf.Bytes()
	for i, v := range values {
		if p == dtype.F32 {
			binary.LittleEndian.PutUint32(bs[i*w:], math.Float32bits(float32(v)))
		} else {
			binary.LittleEndian.PutUint64(bs[i*w:], math.Float64bits(v))
		}
	}
	return New(p, buf, len(values))
}

func putInt(dst []byte, p dtype.PType, v int64) {
	switch p {
	case dtype.I8:
		dst[0] = byte(v)
	case dtype.I16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case dtype.I32:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case dtype.I64:
		binary.LittleEndian.PutUint64(dst, uint64(v))
	}
}

func putUint(dst []byte, p dtype.PType, v uint64) {
	switch p {
	case dtype.U8:
		dst[0] = byte(v)
	case dtype.U16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case dtype.U32:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case dtype.U64:
		binary.LittleEndian.PutUint64(dst, v)
	}
}

// ValueAt reads the raw numeric value at index i, reinterpreted as
// uint64, ignoring validity. Callers needing validity semantics should
// use vxarray.ScalarAt instead.
func ValueAt(a vxarray.Array, i int) uint64 {
	p := a.DType().PType()
	w := p.ByteWidth()
	b := a.Buffer(0).Bytes()[i*w : i*w+w]
	switch w {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	p := a.DType().PType()
	u := ValueAt(a, i)
	switch {
	case p.IsFloat():
		return scalar.Float(p, floatFromBits(p, u), a.DType().Nullability()), nil
	case p.IsSigned():
		return scalar.Int(p, signExtend(p, u), a.DType().Nullability()), nil
	default:
		return scalar.Uint(p, u, a.DType().Nullability()), nil
	}
}

func floatFromBits(p dtype.PType, u uint64) float64 {
	if p == dtype.F32 {
		return float64(math.Float32frombits(uint32(u)))
	}
	return math.Float64frombits(u)
}

func signExtend(p dtype.PType, u uint64) int64 {
	switch p {
	case dtype.I8:
		return int64(int8(u))
	case dtype.I16:
		return int64(int16(u))
	case dtype.I32:
		return int64(int32(u))
	default:
		return int64(u)
	}
}

// SliceArray implements vxarray.SliceFn: a buffer sub-range, O(1).
func (e encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	w := a.DType().PType().ByteWidth()
	values := a.Buffer(0).Slice(start*w, stop*w)
	if !a.DType().Nullable() {
		return New(a.DType().PType(), values, stop-start), nil
	}
	v, err := vxarray.Slice(a.Child(0), start, stop)
	if err != nil {
		return vxarray.Array{}, err
	}
	return NewNullable(a.DType().PType(), values, stop-start, v), nil
}

// Take implements vxarray.TakeFn by gathering values and validity.
func (e encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	p := a.DType().PType()
	w := p.ByteWidth()
	out := buffer.New(n * w)
	dst := out.Bytes()
	src := a.Buffer(0).Bytes()
	for i := 0; i < n; i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
		copy(dst[i*w:(i+1)*w], src[j*w:(j+1)*w])
	}
	if !a.DType().Nullable() {
		return New(p, out, n), nil
	}
	v, err := vxarray.Take(a.Child(0), indices)
	if err != nil {
		return vxarray.Array{}, err
	}
	return NewNullable(p, out, n, v), nil
}
