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

// Package structarr implements the canonical Struct encoding: one
// child array per field, in the DType's field order, plus an optional
// trailing validity child when the struct itself is nullable. Each
// field child carries its own length-a.Len() array and its own
// (possibly nullable) validity independent of the struct's own mask,
// the same two-level nullability Arrow's StructArray uses.
package structarr

import (
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
	vxarray.RegisterCanonical(dtype.KindStruct, vxarray.StructID)
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.StructID }
func (encoding) Name() string           { return "struct" }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindStruct {
		return vxerror.NewInvalidDType("struct: dtype must be Struct, got %s", dt)
	}
	nf := len(dt.FieldTypes())
	want := nf
	if dt.Nullable() {
		want++
	}
	if a.NumChildren() != want {
		return vxerror.NewInvalidEncoding("struct: expected %d children, got %d", want, a.NumChildren())
	}
	if a.NumBuffers() != 0 {
		return vxerror.NewInvalidEncoding("struct: must not carry buffers")
	}
	for i := 0; i < nf; i++ {
		if a.Child(i).Len() != a.Len() {
			return vxerror.NewLengthMismatch("struct: field %d length %d != struct length %d", i, a.Child(i).Len(), a.Len())
		}
	}
	if dt.Nullable() && a.Child(nf).Len() != a.Len() {
		return vxerror.NewInvalidEncoding("struct: validity child length mismatch")
	}
	return nil
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.NewBitMask(a.Child(len(a.DType().FieldTypes()))), nil
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) { return a, nil }

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	n := a.Len()
	return map[vxarray.StatKind]scalar.Scalar{
		vxarray.StatNullCount: scalar.Int(dtype.I64, int64(countNulls(a)), dtype.NonNullable),
		vxarray.StatRunCount:  scalar.Int(dtype.I64, int64(n), dtype.NonNullable),
	}, nil
}

func countNulls(a vxarray.Array) int {
	if !a.DType().Nullable() {
		return 0
	}
	v, err := a.Validity()
	if err != nil {
		return 0
	}
	n := 0
	for i := 0; i < a.Len(); i++ {
		if !v.IsValid(i) {
			n++
		}
	}
	return n
}

// New builds a non-nullable Struct array from field arrays, which must
// all share the same length and appear in dt's field order.
func New(dt dtype.DType, fields []vxarray.Array) vxarray.Array {
	return vxarray.MustNewParts(vxarray.StructID, dt, fieldLen(fields), nil, fields, nil)
}

// NewNullable builds a nullable Struct array with an explicit struct-
// level validity child appended after the fields.
func NewNullable(dt dtype.DType, fields []vxarray.Array, validity vxarray.Array) vxarray.Array {
	children := append(append([]vxarray.Array{}, fields...), validity)
	return vxarray.MustNewParts(vxarray.StructID, dt, fieldLen(fields), nil, children, nil)
}

func fieldLen(fields []vxarray.Array) int {
	if len(fields) == 0 {
		return 0
	}
	return fields[0].Len()
}

// ScalarAt implements vxarray.ScalarAtFn by gathering each field value.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	nf := len(a.DType().FieldTypes())
	fields := make([]scalar.Scalar, nf)
	for f := 0; f < nf; f++ {
		v, err := vxarray.ScalarAt(a.Child(f), i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		fields[f] = v
	}
	return scalar.Struct(a.DType(), fields), nil
}

// SliceArray implements vxarray.SliceFn by slicing every field and the
// validity child (if present).
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	nf := len(a.DType().FieldTypes())
	children := make([]vxarray.Array, 0, a.NumChildren())
	for f := 0; f < nf; f++ {
		c, err := vxarray.Slice(a.Child(f), start, stop)
		if err != nil {
			return vxarray.Array{}, err
		}
		children = append(children, c)
	}
	if a.DType().Nullable() {
		v, err := vxarray.Slice(a.Child(nf), start, stop)
		if err != nil {
			return vxarray.Array{}, err
		}
		children = append(children, v)
	}
	return vxarray.MustNewParts(vxarray.StructID, a.DType(), stop-start, nil, children, nil), nil
}

// Take implements vxarray.TakeFn by taking from every field and the
// validity child (if present).
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	nf := len(a.DType().FieldTypes())
	children := make([]vxarray.Array, 0, a.NumChildren())
	for f := 0; f < nf; f++ {
		c, err := vxarray.Take(a.Child(f), indices)
		if err != nil {
			return vxarray.Array{}, err
		}
		children = append(children, c)
	}
	if a.DType().Nullable() {
		v, err := vxarray.Take(a.Child(nf), indices)
		if err != nil {
			return vxarray.Array{}, err
		}
		children = append(children, v)
	}
	return vxarray.MustNewParts(vxarray.StructID, a.DType(), indices.Len(), nil, children, nil), nil
}
