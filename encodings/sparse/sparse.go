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

// Package sparse implements the Sparse encoding: a fill_value
// broadcast across the array's length with exceptions recorded at
// explicit positions, the same patch-list mechanism BitPacked/ALP/
// ALP-RD reuse to represent the out-of-range or non-conforming values
// their kernel can't pack directly (§4.6 step 5 CompressionCoster,
// §4.7 PatchFn). Indices are strictly increasing, stored in a
// primitive child; patched values live in a second child, parallel to
// indices.
package sparse

import (
	"encoding/binary"
	"sort"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/internal/canonbuild"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.SparseID }
func (encoding) Name() string           { return "sparse" }

// metadata layout: 8-byte little-endian indices_offset, the logical
// position the Sparse array's 0'th index represents (§4.7 PatchFn
// callers compose Sparse children on top of an already-sliced base).
func indicesOffset(a vxarray.Array) int64 {
	return int64(binary.LittleEndian.Uint64(a.Metadata()))
}

func indicesOf(a vxarray.Array) vxarray.Array { return a.Child(0) }
func patchesOf(a vxarray.Array) vxarray.Array { return a.Child(1) }
func fillValueOf(a vxarray.Array) scalar.Scalar {
	v, _ := vxarray.ScalarAt(a.Child(2), 0)
	return v
}

func (encoding) Validate(a vxarray.Array) error {
	if a.NumChildren() != 3 {
		return vxerror.NewInvalidEncoding("sparse: expected indices, patches and fill_value children")
	}
	if len(a.Metadata()) != 8 {
		return vxerror.NewInvalidEncoding("sparse: metadata must hold an 8-byte indices_offset")
	}
	idx, patches := indicesOf(a), patchesOf(a)
	if idx.Len() != patches.Len() {
		return vxerror.NewLengthMismatch("sparse: indices length %d != patches length %d", idx.Len(), patches.Len())
	}
	if !patches.DType().Equal(a.DType()) && !patches.DType().Equal(a.DType().WithNullability(dtype.NonNullable)) {
		return vxerror.NewMismatchedTypes(a.DType().String(), patches.DType().String())
	}
	if a.Child(2).Len() != 1 {
		return vxerror.NewInvalidEncoding("sparse: fill_value child must have length 1")
	}
	return nil
}

// New builds a Sparse array: fillValue everywhere except at the given
// strictly increasing indices (relative to this array's own start),
// where the parallel patches values apply.
func New(dt dtype.DType, length int, indices vxarray.Array, patches vxarray.Array, fillValue vxarray.Array) vxarray.Array {
	md := make([]byte, 8)
	binary.LittleEndian.PutUint64(md, 0)
	return vxarray.MustNewParts(vxarray.SparseID, dt, length, md, []vxarray.Array{indices, patches, fillValue}, nil)
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	fv := fillValueOf(a)
	if fv.IsNull() && patchesOf(a).Len() == 0 {
		return vxarray.AllInvalid(a.Len()), nil
	}
	if !fv.IsNull() {
		pv, err := patchesOf(a).Validity()
		if err != nil {
			return vxarray.Validity{}, err
		}
		allValid := true
		for i := 0; i < patchesOf(a).Len(); i++ {
			if !pv.IsValid(i) {
				allValid = false
				break
			}
		}
		if allValid {
			return vxarray.AllValid(a.Len()), nil
		}
	}
	bits := make([]bool, a.Len())
	for i := range bits {
		bits[i] = true
	}
	off := indicesOffset(a)
	idx := indicesOf(a)
	pv, err := patchesOf(a).Validity()
	if err != nil {
		return vxarray.Validity{}, err
	}
	fillValid := !fv.IsNull()
	for i := range bits {
		bits[i] = fillValid
	}
	for i := 0; i < idx.Len(); i++ {
		pos := int(primitive.ValueAt(idx, i)) - int(off)
		if pos >= 0 && pos < a.Len() {
			bits[pos] = pv.IsValid(i)
		}
	}
	return vxarray.NewBitMask(boolFromBits(bits)), nil
}

func boolFromBits(bits []bool) vxarray.Array {
	return boolarr.FromBools(bits)
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	idx := make([]int64, a.Len())
	for i := range idx {
		idx[i] = int64(i)
	}
	return (encoding{}).Take(a, primitive.FromInt64(dtype.I64, idx))
}

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	return vxarray.DefaultComputeStatistics(a)
}

func findPatch(a vxarray.Array, pos int) (int, bool) {
	off := int(indicesOffset(a))
	idx := indicesOf(a)
	target := int64(pos + off)
	n := idx.Len()
	i := sort.Search(n, func(i int) bool { return int64(primitive.ValueAt(idx, i)) >= target })
	if i < n && int64(primitive.ValueAt(idx, i)) == target {
		return i, true
	}
	return 0, false
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	if p, ok := findPatch(a, i); ok {
		return vxarray.ScalarAt(patchesOf(a), p)
	}
	return fillValueOf(a), nil
}

// SliceArray implements vxarray.SliceFn, shifting indices_offset
// rather than rewriting the indices child.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	off := int(indicesOffset(a))
	lo, hi := start+off, stop+off
	idx := indicesOf(a)
	n := idx.Len()
	i0 := sort.Search(n, func(i int) bool { return int64(primitive.ValueAt(idx, i)) >= int64(lo) })
	i1 := sort.Search(n, func(i int) bool { return int64(primitive.ValueAt(idx, i)) >= int64(hi) })
	newIdx, err := vxarray.Slice(idx, i0, i1)
	if err != nil {
		return vxarray.Array{}, err
	}
	newPatches, err := vxarray.Slice(patchesOf(a), i0, i1)
	if err != nil {
		return vxarray.Array{}, err
	}
	md := make([]byte, 8)
	binary.LittleEndian.PutUint64(md, uint64(lo))
	return vxarray.MustNewParts(vxarray.SparseID, a.DType(), stop-start, md, []vxarray.Array{newIdx, newPatches, a.Child(2)}, nil), nil
}

// Take implements vxarray.TakeFn by falling back to scalar gather and
// rebuilding a fresh Sparse array over the indices' own positions.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	var newIdx []int64
	var newVals []scalar.Scalar
	fv := fillValueOf(a)
	for i := 0; i < n; i++ {
		iv, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(iv.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
		if p, ok := findPatch(a, j); ok {
			v, err := vxarray.ScalarAt(patchesOf(a), p)
			if err != nil {
				return vxarray.Array{}, err
			}
			if !v.Equal(fv) {
				newIdx = append(newIdx, int64(i))
				newVals = append(newVals, v)
			}
		}
	}
	idxArr := primitive.FromInt64(dtype.I64, newIdx)
	patchArr := canonbuild.FromScalars(a.DType().WithNullability(dtype.NonNullable), newVals)
	return New(a.DType(), n, idxArr, patchArr, a.Child(2)), nil
}
