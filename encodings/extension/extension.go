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

// Package extension implements the canonical Extension encoding: a
// single storage child carrying the DType's physical representation,
// plus an optional trailing validity child when the extension itself
// is nullable — the same one-child wrapper shape structarr uses for
// each of its fields, generalized to a DType that layers logical
// meaning (a timestamp, a UUID, a fixed-point decimal) over a plain
// physical array without changing how that array is stored.
package extension

import (
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
	vxarray.RegisterCanonical(dtype.KindExtension, vxarray.ExtensionID)
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.ExtensionID }
func (encoding) Name() string           { return "extension" }

func storageOf(a vxarray.Array) vxarray.Array { return a.Child(0) }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindExtension {
		return vxerror.NewInvalidDType("extension: dtype must be Extension, got %s", dt)
	}
	want := 1
	if dt.Nullable() {
		want = 2
	}
	if a.NumChildren() != want {
		return vxerror.NewInvalidEncoding("extension: expected %d children, got %d", want, a.NumChildren())
	}
	if a.NumBuffers() != 0 {
		return vxerror.NewInvalidEncoding("extension: must not carry buffers")
	}
	storage := storageOf(a)
	if !storage.DType().Equal(dt.StorageDType()) {
		return vxerror.NewMismatchedTypes(dt.StorageDType().String(), storage.DType().String())
	}
	if storage.Len() != a.Len() {
		return vxerror.NewLengthMismatch("extension: storage child length %d != %d", storage.Len(), a.Len())
	}
	if dt.Nullable() && a.Child(1).Len() != a.Len() {
		return vxerror.NewInvalidEncoding("extension: validity child length mismatch")
	}
	return nil
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.NewBitMask(a.Child(1)), nil
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) { return a, nil }

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	return vxarray.DefaultComputeStatistics(a)
}

// New builds a non-nullable Extension array wrapping storage.
func New(dt dtype.DType, storage vxarray.Array) vxarray.Array {
	return vxarray.MustNewParts(vxarray.ExtensionID, dt, storage.Len(), nil, []vxarray.Array{storage}, nil)
}

// NewNullable builds a nullable Extension array with an explicit
// extension-level validity child appended after the storage child.
func NewNullable(dt dtype.DType, storage vxarray.Array, validity vxarray.Array) vxarray.Array {
	return vxarray.MustNewParts(vxarray.ExtensionID, dt, storage.Len(), nil, []vxarray.Array{storage, validity}, nil)
}

// ScalarAt implements vxarray.ScalarAtFn by delegating to the storage
// child. A valid position returns the storage child's scalar as is,
// with the storage DType; only a null position returns a null scalar
// of the extension's own DType.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	dt := a.DType()
	if dt.Nullable() {
		v, err := vxarray.ScalarAt(a.Child(1), i)
		if err != nil {
			return scalar.Scalar{}, err
		}
		if !v.AsBool() {
			return scalar.Null(dt), nil
		}
	}
	s, err := vxarray.ScalarAt(storageOf(a), i)
	if err != nil {
		return scalar.Scalar{}, err
	}
	return s, nil
}

// SliceArray implements vxarray.SliceFn by slicing the storage and
// validity children.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	storage, err := vxarray.Slice(storageOf(a), start, stop)
	if err != nil {
		return vxarray.Array{}, err
	}
	children := []vxarray.Array{storage}
	if a.DType().Nullable() {
		v, err := vxarray.Slice(a.Child(1), start, stop)
		if err != nil {
			return vxarray.Array{}, err
		}
		children = append(children, v)
	}
	return vxarray.MustNewParts(vxarray.ExtensionID, a.DType(), stop-start, nil, children, nil), nil
}

// Take implements vxarray.TakeFn by gathering the storage and
// validity children.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	storage, err := vxarray.Take(storageOf(a), indices)
	if err != nil {
		return vxarray.Array{}, err
	}
	children := []vxarray.Array{storage}
	if a.DType().Nullable() {
		v, err := vxarray.Take(a.Child(1), indices)
		if err != nil {
			return vxarray.Array{}, err
		}
		children = append(children, v)
	}
	return vxarray.MustNewParts(vxarray.ExtensionID, a.DType(), indices.Len(), nil, children, nil), nil
}
