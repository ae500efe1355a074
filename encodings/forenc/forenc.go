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

// Package forenc implements the Frame-of-Reference (FoR) compressed
// encoding: a scalar reference value plus an unsigned Primitive child
// of deltas (value - reference), the layout ZigZag composes beneath
// whenever those deltas can be negative and BitPacked composes above
// whenever the deltas are small. Mirrors §4.6's described composition
// chain for Primitive columns with low value-range cardinality.
package forenc

import (
	"encoding/binary"

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

func (encoding) ID() vxarray.EncodingID { return vxarray.ForID }
func (encoding) Name() string           { return "for" }

// metadata: 8-byte little-endian reference value, reinterpreted per
// the dtype's signedness the same way primitive.ValueAt does.
func referenceOf(a vxarray.Array) uint64 {
	return binary.LittleEndian.Uint64(a.Metadata())
}

func deltasOf(a vxarray.Array) vxarray.Array { return a.Child(0) }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindPrimitive {
		return vxerror.NewInvalidDType("for: dtype must be Primitive, got %s", dt)
	}
	if len(a.Metadata()) != 8 {
		return vxerror.NewInvalidEncoding("for: metadata must hold an 8-byte reference value")
	}
	if a.NumChildren() != 1 {
		return vxerror.NewInvalidEncoding("for: expected exactly one deltas child")
	}
	d := deltasOf(a)
	if d.DType().Kind() != dtype.KindPrimitive || !d.DType().PType().IsUnsigned() {
		return vxerror.NewInvalidEncoding("for: deltas child must be unsigned Primitive")
	}
	if d.Len() != a.Len() {
		return vxerror.NewLengthMismatch("for: deltas length %d != %d", d.Len(), a.Len())
	}
	return nil
}

var deltaWidthOf = map[dtype.PType]dtype.PType{
	dtype.I8: dtype.U8, dtype.U8: dtype.U8,
	dtype.I16: dtype.U16, dtype.U16: dtype.U16,
	dtype.I32: dtype.U32, dtype.U32: dtype.U32,
	dtype.I64: dtype.U64, dtype.U64: dtype.U64,
}

// New builds a FoR array given a reference point and the full set of
// logical values; deltas are computed and packed as unsigned.
func New(p dtype.PType, reference int64, values []int64, n dtype.Nullability) vxarray.Array {
	up := deltaWidthOf[p]
	deltas := make([]uint64, len(values))
	for i, v := range values {
		deltas[i] = uint64(v - reference)
	}
	child := primitive.FromUint64(up, deltas)
	md := make([]byte, 8)
	binary.LittleEndian.PutUint64(md, uint64(reference))
	return vxarray.MustNewParts(vxarray.ForID, dtype.Primitive(p, n), len(values), md, []vxarray.Array{child}, nil)
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return deltasOf(a).Validity()
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	n := a.Len()
	p := a.DType().PType()
	ref := int64(referenceOf(a))
	d := deltasOf(a)
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = ref + int64(primitive.ValueAt(d, i))
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
	ref := int64(referenceOf(a))
	d := primitive.ValueAt(deltasOf(a), i)
	return scalar.Int(a.DType().PType(), ref+int64(d), a.DType().Nullability()), nil
}

// SliceArray implements vxarray.SliceFn: O(1), shares the deltas buffer.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	d, err := vxarray.Slice(deltasOf(a), start, stop)
	if err != nil {
		return vxarray.Array{}, err
	}
	md := append([]byte{}, a.Metadata()...)
	return vxarray.MustNewParts(vxarray.ForID, a.DType(), stop-start, md, []vxarray.Array{d}, nil), nil
}

// Take implements vxarray.TakeFn by gathering from the deltas child.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	d, err := vxarray.Take(deltasOf(a), indices)
	if err != nil {
		return vxarray.Array{}, err
	}
	md := append([]byte{}, a.Metadata()...)
	return vxarray.MustNewParts(vxarray.ForID, a.DType(), indices.Len(), md, []vxarray.Array{d}, nil), nil
}
