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

// Package compress's builtins.go registers one Compressor per
// structural encoding named in §4.6's recursion-fuel list. Dict and
// RunEnd build their codes/ends child plus their values child, then
// hand each off to compress.CompressChild for genuine recursive
// re-compression (§4.6's "call back into the compressor with
// depth+1"); BitPacked, FoR, ALP, ALP-RD, FSST, and ZigZag compute
// their packed representation directly from gathered values in one
// shot, since their own constructors take raw slices rather than
// Array-typed children.
package compress

import (
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/alp"
	"github.com/vortex-data/vortex-go/encodings/alprd"
	"github.com/vortex-data/vortex-go/encodings/bitpacked"
	"github.com/vortex-data/vortex-go/encodings/constant"
	"github.com/vortex-data/vortex-go/encodings/dict"
	"github.com/vortex-data/vortex-go/encodings/forenc"
	"github.com/vortex-data/vortex-go/encodings/fsst"
	"github.com/vortex-data/vortex-go/encodings/roaring"
	"github.com/vortex-data/vortex-go/encodings/runend"
	"github.com/vortex-data/vortex-go/encodings/zigzag"
	"github.com/vortex-data/vortex-go/vxarray"
)

func init() {
	RegisterCompressor(constantCompressor{})
	RegisterCompressor(runendCompressor{})
	RegisterCompressor(dictCompressor{})
	RegisterCompressor(roaringBoolCompressor{})
	RegisterCompressor(zigzagCompressor{})
	RegisterCompressor(bitpackedCompressor{})
	RegisterCompressor(forCompressor{})
	RegisterCompressor(alpCompressor{})
	RegisterCompressor(alprdCompressor{})
	RegisterCompressor(fsstCompressor{})
}

// isNonNullable is a small predicate shared by the CanCompress checks.
func isNonNullable(a vxarray.Array) bool { return !a.DType().Nullable() }

// --- Constant -------------------------------------------------------

type constantCompressor struct{}

func (constantCompressor) Name() string                 { return "constant" }
func (constantCompressor) EncodingID() vxarray.EncodingID { return vxarray.ConstantID }

func (constantCompressor) CanCompress(a vxarray.Array) bool {
	if a.Len() == 0 {
		return false
	}
	first, err := vxarray.ScalarAt(a, 0)
	if err != nil {
		return false
	}
	for i := 1; i < a.Len(); i++ {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil || !s.Equal(first) {
			return false
		}
	}
	return true
}

func (constantCompressor) Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	first, err := vxarray.ScalarAt(a, 0)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	return constant.New(first, a.Len()), &Tree{Encoding: vxarray.ConstantID, Name: "constant"}, nil
}

// --- RunEnd -----------------------------------------------------------

type runendCompressor struct{}

func (runendCompressor) Name() string                  { return "runend" }
func (runendCompressor) EncodingID() vxarray.EncodingID { return vxarray.RunEndID }

func (runendCompressor) CanCompress(a vxarray.Array) bool {
	if a.Len() < 2 {
		return false
	}
	values, err := gatherScalars(a)
	if err != nil {
		return false
	}
	runs := 1
	for i := 1; i < len(values); i++ {
		if !values[i].Equal(values[i-1]) {
			runs++
		}
	}
	return runs*2 < len(values)
}

func (runendCompressor) Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	values, err := gatherScalars(a)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	built := runend.FromRuns(a.DType(), values)
	ends, vals := built.Child(0), built.Child(1)
	compressedEnds, endsTree, err := CompressChild(ends, opts, depth+1)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	compressedVals, valsTree, err := CompressChild(vals, opts, depth+1)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	out := runend.New(a.DType(), compressedEnds, compressedVals)
	return out, &Tree{Encoding: vxarray.RunEndID, Name: "runend", Children: []*Tree{endsTree, valsTree}}, nil
}

// --- Dict -------------------------------------------------------------

type dictCompressor struct{}

func (dictCompressor) Name() string                  { return "dict" }
func (dictCompressor) EncodingID() vxarray.EncodingID { return vxarray.DictID }

func (dictCompressor) CanCompress(a vxarray.Array) bool {
	if a.Len() < 4 {
		return false
	}
	values, err := gatherScalars(a)
	if err != nil {
		return false
	}
	seen := map[string]struct{}{}
	for _, v := range values {
		seen[v.String()] = struct{}{}
		if len(seen)*2 >= len(values) {
			return false
		}
	}
	return true
}

func (dictCompressor) Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	values, err := gatherScalars(a)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	built := dict.FromValues(a.DType(), values)
	codes, vals := built.Child(0), built.Child(1)
	compressedCodes, codesTree, err := CompressChild(codes, opts, depth+1)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	compressedVals, valsTree, err := CompressChild(vals, opts, depth+1)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	out := dict.New(a.DType(), compressedCodes, compressedVals)
	return out, &Tree{Encoding: vxarray.DictID, Name: "dict", Children: []*Tree{codesTree, valsTree}}, nil
}

// --- RoaringBool --------------------------------------------------------

type roaringBoolCompressor struct{}

func (roaringBoolCompressor) Name() string                  { return "roaring-bool" }
func (roaringBoolCompressor) EncodingID() vxarray.EncodingID { return vxarray.RoaringBoolID }

func (roaringBoolCompressor) CanCompress(a vxarray.Array) bool {
	return a.DType().Kind() == dtype.KindBool && isNonNullable(a)
}

func (roaringBoolCompressor) Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	values := make([]bool, a.Len())
	for i := range values {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, nil, err
		}
		values[i] = s.AsBool()
	}
	return roaring.FromBools(values), &Tree{Encoding: vxarray.RoaringBoolID, Name: "roaring-bool"}, nil
}

// --- ZigZag -------------------------------------------------------------

type zigzagCompressor struct{}

func (zigzagCompressor) Name() string                  { return "zigzag" }
func (zigzagCompressor) EncodingID() vxarray.EncodingID { return vxarray.ZigZagID }

func (zigzagCompressor) CanCompress(a vxarray.Array) bool {
	dt := a.DType()
	return dt.Kind() == dtype.KindPrimitive && dt.PType().IsSigned() && isNonNullable(a)
}

func gatherInt64(a vxarray.Array) ([]int64, error) {
	values := make([]int64, a.Len())
	for i := range values {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		values[i] = s.AsInt()
	}
	return values, nil
}

func (zigzagCompressor) Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	values, err := gatherInt64(a)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	out := zigzag.New(a.DType().PType(), values, a.DType().Nullability())
	return out, &Tree{Encoding: vxarray.ZigZagID, Name: "zigzag"}, nil
}

// --- BitPacked ------------------------------------------------------------

type bitpackedCompressor struct{}

func (bitpackedCompressor) Name() string                  { return "bitpacked" }
func (bitpackedCompressor) EncodingID() vxarray.EncodingID { return vxarray.BitPackedID }

func (bitpackedCompressor) CanCompress(a vxarray.Array) bool {
	dt := a.DType()
	return dt.Kind() == dtype.KindPrimitive && dt.PType().IsUnsigned() && isNonNullable(a) && a.Len() > 0
}

func bitsNeeded(max uint64) int {
	w := 0
	for max > 0 {
		w++
		max >>= 1
	}
	if w == 0 {
		w = 1
	}
	return w
}

func (bitpackedCompressor) Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	values := make([]uint64, a.Len())
	var max uint64
	for i := range values {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, nil, err
		}
		values[i] = s.AsUint()
		if values[i] > max {
			max = values[i]
		}
	}
	width := bitsNeeded(max)
	out := bitpacked.New(a.DType().PType(), values, width, a.DType().Nullability())
	return out, &Tree{Encoding: vxarray.BitPackedID, Name: "bitpacked"}, nil
}

// --- FoR --------------------------------------------------------------

type forCompressor struct{}

func (forCompressor) Name() string                  { return "for" }
func (forCompressor) EncodingID() vxarray.EncodingID { return vxarray.ForID }

func (forCompressor) CanCompress(a vxarray.Array) bool {
	dt := a.DType()
	return dt.Kind() == dtype.KindPrimitive && !dt.PType().IsFloat() && isNonNullable(a) && a.Len() > 0
}

func (forCompressor) Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	values, err := gatherInt64(a)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	out := forenc.New(a.DType().PType(), min, values, a.DType().Nullability())
	return out, &Tree{Encoding: vxarray.ForID, Name: "for"}, nil
}

// --- ALP / ALP-RD -------------------------------------------------------

type alpCompressor struct{}

func (alpCompressor) Name() string                  { return "alp" }
func (alpCompressor) EncodingID() vxarray.EncodingID { return vxarray.ALPID }

func (alpCompressor) CanCompress(a vxarray.Array) bool {
	dt := a.DType()
	return dt.Kind() == dtype.KindPrimitive && dt.PType().IsFloat() && isNonNullable(a) && a.Len() > 0
}

func gatherFloat64(a vxarray.Array) ([]float64, error) {
	values := make([]float64, a.Len())
	for i := range values {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		values[i] = s.AsFloat()
	}
	return values, nil
}

func (alpCompressor) Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	values, err := gatherFloat64(a)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	out := alp.New(a.DType().PType(), values, a.DType().Nullability())
	return out, &Tree{Encoding: vxarray.ALPID, Name: "alp"}, nil
}

type alprdCompressor struct{}

func (alprdCompressor) Name() string                  { return "alprd" }
func (alprdCompressor) EncodingID() vxarray.EncodingID { return vxarray.ALPRDID }

func (alprdCompressor) CanCompress(a vxarray.Array) bool {
	dt := a.DType()
	return dt.Kind() == dtype.KindPrimitive && dt.PType() == dtype.F64 && isNonNullable(a) && a.Len() > 0
}

func (alprdCompressor) Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	values, err := gatherFloat64(a)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	out := alprd.New(values, a.DType().Nullability())
	return out, &Tree{Encoding: vxarray.ALPRDID, Name: "alprd"}, nil
}

// --- FSST ---------------------------------------------------------------

type fsstCompressor struct{}

func (fsstCompressor) Name() string                  { return "fsst" }
func (fsstCompressor) EncodingID() vxarray.EncodingID { return vxarray.FSSTID }

func (fsstCompressor) CanCompress(a vxarray.Array) bool {
	k := a.DType().Kind()
	return (k == dtype.KindUtf8 || k == dtype.KindBinary) && isNonNullable(a) && a.Len() > 0
}

func (fsstCompressor) Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	raw := make([][]byte, a.Len())
	for i := range raw {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return vxarray.Array{}, nil, err
		}
		raw[i] = []byte(s.AsString())
	}
	out := fsst.New(a.DType(), raw)
	return out, &Tree{Encoding: vxarray.FSSTID, Name: "fsst"}, nil
}
