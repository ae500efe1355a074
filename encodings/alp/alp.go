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

// Package alp implements the ALP compressed encoding for floats: an
// I64 Primitive of internal/alpkernel-encoded integers plus the two
// exponents that produced them, with a Sparse patches child (same
// nullable-fill-null shape as BitPacked) for the values the chosen
// exponents don't round-trip exactly.
package alp

import (
	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/encodings/sparse"
	"github.com/vortex-data/vortex-go/internal/alpkernel"
	"github.com/vortex-data/vortex-go/internal/canonbuild"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.ALPID }
func (encoding) Name() string           { return "alp" }

func exponentsOf(a vxarray.Array) alpkernel.Exponents {
	md := a.Metadata()
	return alpkernel.Exponents{E: int(md[0]), F: int(md[1])}
}

func intsOf(a vxarray.Array) vxarray.Array { return a.Child(0) }

func hasPatches(a vxarray.Array) bool { return a.NumChildren() == 2 }

func patchesOf(a vxarray.Array) vxarray.Array { return a.Child(1) }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindPrimitive || !dt.PType().IsFloat() {
		return vxerror.NewInvalidDType("alp: dtype must be a float Primitive, got %s", dt)
	}
	if len(a.Metadata()) != 2 {
		return vxerror.NewInvalidEncoding("alp: metadata must hold a 2-byte (e, f) pair")
	}
	exp := exponentsOf(a)
	if exp.F > exp.E || exp.E > 18 {
		return vxerror.NewInvalidEncoding("alp: invalid exponents (e=%d, f=%d)", exp.E, exp.F)
	}
	if a.NumChildren() < 1 || a.NumChildren() > 2 {
		return vxerror.NewInvalidEncoding("alp: expected an ints child and at most one patches child")
	}
	ints := intsOf(a)
	if ints.DType().Kind() != dtype.KindPrimitive || ints.DType().PType() != dtype.I64 || ints.Len() != a.Len() {
		return vxerror.NewInvalidEncoding("alp: ints child must be a non-nullable I64 of matching length")
	}
	return nil
}

// New ALP-encodes values, picking exponents via internal/alpkernel's
// grid search and recording any value that doesn't round-trip exactly
// in a Sparse patches child.
func New(p dtype.PType, values []float64, n dtype.Nullability) vxarray.Array {
	exp, ints, patchIdx := alpkernel.Encode(values)
	md := []byte{byte(exp.E), byte(exp.F)}
	dt := dtype.Primitive(p, n)
	intsArr := primitive.FromInt64(dtype.I64, ints)

	if len(patchIdx) == 0 {
		return vxarray.MustNewParts(vxarray.ALPID, dt, len(values), md, []vxarray.Array{intsArr}, nil)
	}

	idx := make([]int64, len(patchIdx))
	patchVals := make([]float64, len(patchIdx))
	for i, pi := range patchIdx {
		idx[i] = int64(pi)
		patchVals[i] = values[pi]
	}
	idxArr := primitive.FromInt64(dtype.I64, idx)
	patchArr := primitive.FromFloat64(p, patchVals)
	fillChild := primitive.NewNullable(p, buffer.New(p.ByteWidth()), 1, boolarr.FromBools([]bool{false}))
	patches := sparse.New(dt.WithNullability(dtype.Nullable), len(values), idxArr, patchArr, fillChild)
	return vxarray.MustNewParts(vxarray.ALPID, dt, len(values), md, []vxarray.Array{intsArr, patches}, nil)
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.AllValid(a.Len()), nil
}

func rawAt(a vxarray.Array, i int) float64 {
	v := primitive.ValueAt(intsOf(a), i)
	return alpkernel.DecodeOne(int64(v), exponentsOf(a))
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	values := make([]scalar.Scalar, a.Len())
	for i := range values {
		v, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		values[i] = v
	}
	return canonbuild.FromScalars(a.DType(), values), nil
}

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	return vxarray.DefaultComputeStatistics(a)
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	if hasPatches(a) {
		v, err := vxarray.ScalarAt(patchesOf(a), i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if !v.IsNull() {
			return scalar.Float(a.DType().PType(), v.AsFloat(), a.DType().Nullability()), nil
		}
	}
	return scalar.Float(a.DType().PType(), rawAt(a, i), a.DType().Nullability()), nil
}

// SliceArray implements vxarray.SliceFn via scalar gather: patches are
// Sparse-encoded and don't generally admit an O(1) contiguous slice
// across the ints+patches pair.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	idx := make([]int64, stop-start)
	for i := range idx {
		idx[i] = int64(start + i)
	}
	return (encoding{}).Take(a, primitive.FromInt64(dtype.I64, idx))
}

// Take implements vxarray.TakeFn by gathering and rebuilding a fresh
// ALP array, re-running the exponent search over the gathered values.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
		v, err := (encoding{}).ScalarAt(a, j)
		if err != nil {
			return vxarray.Array{}, err
		}
		values[i] = v.AsFloat()
	}
	return New(a.DType().PType(), values, a.DType().Nullability()), nil
}
