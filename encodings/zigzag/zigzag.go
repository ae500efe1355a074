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

// Package zigzag implements the ZigZag compressed encoding: a signed
// Primitive array re-expressed as its zigzag-mapped unsigned Primitive
// child, so a downstream FoR/BitPacked stage sees only non-negative
// deltas (the encoding FoR composes with whenever a column's deltas
// are signed).
package zigzag

import (
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.ZigZagID }
func (encoding) Name() string           { return "zigzag" }

func encodedOf(a vxarray.Array) vxarray.Array { return a.Child(0) }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindPrimitive || !dt.PType().IsSigned() {
		return vxerror.NewInvalidDType("zigzag: dtype must be a signed Primitive, got %s", dt)
	}
	if a.NumChildren() != 1 {
		return vxerror.NewInvalidEncoding("zigzag: expected exactly one encoded child")
	}
	enc := encodedOf(a)
	if enc.DType().Kind() != dtype.KindPrimitive || !enc.DType().PType().IsUnsigned() {
		return vxerror.NewInvalidEncoding("zigzag: encoded child must be unsigned Primitive")
	}
	if enc.Len() != a.Len() {
		return vxerror.NewLengthMismatch("zigzag: encoded child length %d != %d", enc.Len(), a.Len())
	}
	return nil
}

var unsignedOf = map[dtype.PType]dtype.PType{
	dtype.I8: dtype.U8, dtype.I16: dtype.U16, dtype.I32: dtype.U32, dtype.I64: dtype.U64,
}

func encode8(v int8) uint8   { return uint8(uint8(v<<1) ^ uint8(v>>7)) }
func decode8(u uint8) int8   { return int8(u>>1) ^ -int8(u&1) }
func encode16(v int16) uint16 { return uint16(v<<1) ^ uint16(v>>15) }
func decode16(u uint16) int16 { return int16(u>>1) ^ -int16(u&1) }
func encode32(v int32) uint32 { return uint32(v<<1) ^ uint32(v>>31) }
func decode32(u uint32) int32 { return int32(u>>1) ^ -int32(u&1) }
func encode64(v int64) uint64 { return uint64(v<<1) ^ uint64(v>>63) }
func decode64(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

func zigzagEncode(p dtype.PType, v int64) uint64 {
	switch p {
	case dtype.I8:
		return uint64(encode8(int8(v)))
	case dtype.I16:
		return uint64(encode16(int16(v)))
	case dtype.I32:
		return uint64(encode32(int32(v)))
	default:
		return encode64(v)
	}
}

func zigzagDecode(p dtype.PType, u uint64) int64 {
	switch p {
	case dtype.I8:
		return int64(decode8(uint8(u)))
	case dtype.I16:
		return int64(decode16(uint16(u)))
	case dtype.I32:
		return int64(decode32(uint32(u)))
	default:
		return decode64(u)
	}
}

// New zigzag-encodes a signed Primitive array, its own canonical form.
func New(p dtype.PType, values []int64, n dtype.Nullability) vxarray.Array {
	encoded := make([]uint64, len(values))
	for i, v := range values {
		encoded[i] = zigzagEncode(p, v)
	}
	up := unsignedOf[p]
	child := primitive.FromUint64(up, encoded)
	return vxarray.MustNewParts(vxarray.ZigZagID, dtype.Primitive(p, n), len(values), nil, []vxarray.Array{child}, nil)
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return encodedOf(a).Validity()
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	n := a.Len()
	p := a.DType().PType()
	out := make([]int64, n)
	enc := encodedOf(a)
	for i := 0; i < n; i++ {
		out[i] = zigzagDecode(p, primitive.ValueAt(enc, i))
	}
	base := primitive.FromInt64(p, out)
	if !a.DType().Nullable() {
		return base, nil
	}
	v, err := a.Validity()
	if err != nil {
		return vxarray.Array{}, err
	}
	bm, ok := v.ToNullBuffer()
	if !ok {
		return base, nil
	}
	return primitive.NewNullable(p, base.Buffer(0), n, bm), nil
}

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	canon, err := (encoding{}).Canonicalize(a)
	if err != nil {
		return nil, err
	}
	return canon.Statistics().ComputeMany(
		vxarray.StatMin, vxarray.StatMax, vxarray.StatIsConstant,
		vxarray.StatIsSorted, vxarray.StatIsStrictSorted, vxarray.StatRunCount,
		vxarray.StatNullCount,
	)
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	p := a.DType().PType()
	u := primitive.ValueAt(encodedOf(a), i)
	return scalar.Int(p, zigzagDecode(p, u), a.DType().Nullability()), nil
}

// SliceArray implements vxarray.SliceFn: O(1), shares the encoded buffer.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	enc, err := vxarray.Slice(encodedOf(a), start, stop)
	if err != nil {
		return vxarray.Array{}, err
	}
	return vxarray.MustNewParts(vxarray.ZigZagID, a.DType(), stop-start, nil, []vxarray.Array{enc}, nil), nil
}

// Take implements vxarray.TakeFn by gathering from the encoded child.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	enc, err := vxarray.Take(encodedOf(a), indices)
	if err != nil {
		return vxarray.Array{}, err
	}
	return vxarray.MustNewParts(vxarray.ZigZagID, a.DType(), indices.Len(), nil, []vxarray.Array{enc}, nil), nil
}
