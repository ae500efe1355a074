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

// Package alprd implements ALP-RD (ALP for "real doubles"): the
// fallback for float64 columns whose decimal representation doesn't
// have a short exact factorization, so plain ALP would patch nearly
// every value. Each IEEE 754 bit pattern is split at a chosen
// right_bit_width into a wide "right" part, bit-packed in place, and a
// narrow "left" part, dictionary-coded against the column's most
// common left values; left values that don't fit the dictionary are
// recorded as exceptions. Grounded on the kept
// original_source/encodings/alp/src/alp_rd package shape — in
// particular ALPRDMetadata{exception_count, right_bit_width}, the only
// surviving detail of the Rust implementation (its array.rs's
// try_new/compute modules were left as stubs in the distillation).
package alprd

import (
	"math"
	"sort"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/bitpacked"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/internal/canonbuild"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

// maxDictSize bounds how many distinct left values get their own
// dictionary code before the rest spill into exceptions.
const maxDictSize = 1024

// exceptionCode marks a row whose left value isn't in the dictionary;
// its real value lives in the exceptions child instead.
const exceptionCode = 0xFFFF

var candidateRightWidths = []int{56, 48, 40, 32, 24, 16, 8}

func init() {
	vxarray.Register(encoding{})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.ALPRDID }
func (encoding) Name() string           { return "alprd" }

func rightBitWidth(a vxarray.Array) int { return int(a.Metadata()[0]) }

func leftCodesOf(a vxarray.Array) vxarray.Array { return a.Child(0) }
func dictOf(a vxarray.Array) vxarray.Array      { return a.Child(1) }
func rightBitsOf(a vxarray.Array) vxarray.Array { return a.Child(2) }
func hasExceptions(a vxarray.Array) bool        { return a.NumChildren() == 5 }
func excPosOf(a vxarray.Array) vxarray.Array    { return a.Child(3) }
func excValOf(a vxarray.Array) vxarray.Array    { return a.Child(4) }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindPrimitive || dt.PType() != dtype.F64 {
		return vxerror.NewInvalidDType("alprd: dtype must be F64, got %s", dt)
	}
	if len(a.Metadata()) != 1 {
		return vxerror.NewInvalidEncoding("alprd: metadata must hold a 1-byte right_bit_width")
	}
	w := rightBitWidth(a)
	if w < 0 || w > 64 {
		return vxerror.NewInvalidEncoding("alprd: right_bit_width %d out of range", w)
	}
	if a.NumChildren() != 3 && a.NumChildren() != 5 {
		return vxerror.NewInvalidEncoding("alprd: expected 3 children, or 5 with exceptions")
	}
	codes := leftCodesOf(a)
	if codes.DType().Kind() != dtype.KindPrimitive || codes.DType().PType() != dtype.U16 || codes.Len() != a.Len() {
		return vxerror.NewInvalidEncoding("alprd: left codes child must be a non-nullable U16 of matching length")
	}
	if dictOf(a).Len() > maxDictSize {
		return vxerror.NewInvalidEncoding("alprd: dictionary exceeds max size %d", maxDictSize)
	}
	if rightBitsOf(a).Len() != a.Len() {
		return vxerror.NewLengthMismatch("alprd: right bits child length %d != %d", rightBitsOf(a).Len(), a.Len())
	}
	return nil
}

func splitBits(v float64, width int) (left, right uint64) {
	bits := math.Float64bits(v)
	if width >= 64 {
		return 0, bits
	}
	mask := uint64(1)<<uint(width) - 1
	return bits >> uint(width), bits & mask
}

func joinBits(left, right uint64, width int) float64 {
	if width >= 64 {
		return math.Float64frombits(right)
	}
	return math.Float64frombits(left<<uint(width) | right)
}

// chooseRightWidth picks the widest right_bit_width (smallest left
// part) whose distinct-left-value count still fits the dictionary, so
// the bit-packed right side carries as much of each value as possible.
// Candidates are tried from widest to narrowest and the first fit wins.
func chooseRightWidth(values []float64) int {
	for _, w := range candidateRightWidths {
		seen := map[uint64]struct{}{}
		overflowed := false
		for _, v := range values {
			left, _ := splitBits(v, w)
			seen[left] = struct{}{}
			if len(seen) > maxDictSize {
				overflowed = true
				break
			}
		}
		if !overflowed {
			return w
		}
	}
	return candidateRightWidths[len(candidateRightWidths)-1]
}

// New ALP-RD-encodes a []float64, choosing the right_bit_width by
// grid search and building a frequency-ranked dictionary of the
// resulting left values, with overflow values spilled to exceptions.
func New(values []float64, n dtype.Nullability) vxarray.Array {
	width := chooseRightWidth(values)

	lefts := make([]uint64, len(values))
	rights := make([]uint64, len(values))
	freq := map[uint64]int{}
	for i, v := range values {
		l, r := splitBits(v, width)
		lefts[i] = l
		rights[i] = r
		freq[l]++
	}

	distinct := make([]uint64, 0, len(freq))
	for l := range freq {
		distinct = append(distinct, l)
	}
	sort.Slice(distinct, func(i, j int) bool {
		if freq[distinct[i]] != freq[distinct[j]] {
			return freq[distinct[i]] > freq[distinct[j]]
		}
		return distinct[i] < distinct[j]
	})
	if len(distinct) > maxDictSize {
		distinct = distinct[:maxDictSize]
	}
	code := make(map[uint64]uint16, len(distinct))
	for i, l := range distinct {
		code[l] = uint16(i)
	}

	codes := make([]uint64, len(values))
	var excPos []int64
	var excVal []uint64
	for i, l := range lefts {
		if c, ok := code[l]; ok {
			codes[i] = uint64(c)
		} else {
			codes[i] = exceptionCode
			excPos = append(excPos, int64(i))
			excVal = append(excVal, l)
		}
	}

	md := []byte{byte(width)}
	dt := dtype.Primitive(dtype.F64, n)
	codesArr := primitive.FromUint64(dtype.U16, codes)
	dictArr := primitive.FromUint64(dtype.U64, distinct)
	rightArr := bitpacked.New(dtype.U64, rights, width, dtype.NonNullable)

	children := []vxarray.Array{codesArr, dictArr, rightArr}
	if len(excPos) > 0 {
		pos := make([]uint64, len(excPos))
		for i, p := range excPos {
			pos[i] = uint64(p)
		}
		children = append(children,
			primitive.FromUint64(dtype.U32, pos),
			primitive.FromUint64(dtype.U64, excVal))
	}
	return vxarray.MustNewParts(vxarray.ALPRDID, dt, len(values), md, children, nil)
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.AllValid(a.Len()), nil
}

func leftAt(a vxarray.Array, i int) uint64 {
	c := primitive.ValueAt(leftCodesOf(a), i)
	if c != exceptionCode || !hasExceptions(a) {
		return primitive.ValueAt(dictOf(a), int(c))
	}
	pos := excPosOf(a)
	n := pos.Len()
	target := uint64(i)
	idx := sort.Search(n, func(k int) bool { return primitive.ValueAt(pos, k) >= target })
	if idx < n && primitive.ValueAt(pos, idx) == target {
		return primitive.ValueAt(excValOf(a), idx)
	}
	return primitive.ValueAt(dictOf(a), 0)
}

func rawAt(a vxarray.Array, i int) float64 {
	left := leftAt(a, i)
	right, err := vxarray.ScalarAt(rightBitsOf(a), i)
	if err != nil {
		return math.NaN()
	}
	return joinBits(left, right.AsUint(), rightBitWidth(a))
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	values := make([]scalar.Scalar, a.Len())
	for i := range values {
		values[i] = scalar.Float(dtype.F64, rawAt(a, i), a.DType().Nullability())
	}
	return canonbuild.FromScalars(a.DType(), values), nil
}

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	return vxarray.DefaultComputeStatistics(a)
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	if i < 0 || i >= a.Len() {
		return scalar.Scalar{}, vxerror.NewOutOfBounds(i, 0, a.Len())
	}
	return scalar.Float(dtype.F64, rawAt(a, i), a.DType().Nullability()), nil
}

// SliceArray implements vxarray.SliceFn via scalar gather and a fresh
// re-encode: the dictionary and exception list are both column-wide,
// so a sub-range generally needs its own smaller dictionary.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	values := make([]float64, stop-start)
	for i := range values {
		values[i] = rawAt(a, start+i)
	}
	return New(values, a.DType().Nullability()), nil
}

// Take implements vxarray.TakeFn the same way: gather then re-encode.
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
		values[i] = rawAt(a, j)
	}
	return New(values, a.DType().Nullability()), nil
}
