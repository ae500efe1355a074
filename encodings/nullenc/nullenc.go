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

// Package nullenc implements the canonical Null encoding: every
// position of a Null-typed array is null by definition, so the
// physical representation carries no buffers and no children at all —
// the degenerate end of the canonical-encoding spectrum opposite
// Constant.
package nullenc

import (
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
	vxarray.RegisterCanonical(dtype.KindNull, vxarray.NullID)
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.NullID }
func (encoding) Name() string           { return "null" }

func (encoding) Validate(a vxarray.Array) error {
	if a.DType().Kind() != dtype.KindNull {
		return vxerror.NewInvalidDType("null: dtype must be Null, got %s", a.DType())
	}
	if a.NumBuffers() != 0 || a.NumChildren() != 0 {
		return vxerror.NewInvalidEncoding("null: must not carry buffers or children")
	}
	return nil
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	return vxarray.AllInvalid(a.Len()), nil
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) { return a, nil }

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	return map[vxarray.StatKind]scalar.Scalar{
		vxarray.StatNullCount:      scalar.Int(dtype.I64, int64(a.Len()), dtype.NonNullable),
		vxarray.StatIsConstant:     scalar.Bool(true, dtype.NonNullable),
		vxarray.StatIsSorted:       scalar.Bool(true, dtype.NonNullable),
		vxarray.StatIsStrictSorted: scalar.Bool(a.Len() <= 1, dtype.NonNullable),
		vxarray.StatRunCount:       scalar.Int(dtype.I64, boolToI64(a.Len() > 0), dtype.NonNullable),
	}, nil
}

func boolToI64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// New builds a Null array of the given length.
func New(length int) vxarray.Array {
	return vxarray.MustNewParts(vxarray.NullID, dtype.Null, length, nil, nil, nil)
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, _ int) (scalar.Scalar, error) {
	return scalar.Null(dtype.Null), nil
}

// SliceArray implements vxarray.SliceFn.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	return New(stop - start), nil
}

// Take implements vxarray.TakeFn.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	for i := 0; i < indices.Len(); i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
	}
	return New(indices.Len()), nil
}
