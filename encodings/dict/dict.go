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

// Package dict implements the Dict compressed encoding: an integer
// "codes" child indexing into a deduplicated "values" child. Building
// the dictionary hashes each candidate value with siphash (the same
// keyed hash the teacher's expr package reaches for when it needs a
// fast, collision-resistant digest of an arbitrary byte string) to
// bucket candidates before falling back to an exact scalar.Equal
// check, rather than paying for a full sort or relying on Go's
// built-in map over non-comparable scalar.Scalar values.
package dict

import (
	"encoding/binary"
	"math"

	"github.com/dchest/siphash"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/internal/canonbuild"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
}

// hash keys are fixed so equal inputs across calls always collide the
// same way; the dictionary is rebuilt per-array, never persisted, so
// no key rotation concern applies.
const (
	hashK0 = 0x5b6f1c2b7e9a3d41
	hashK1 = 0x1f0b4d8c2a6e9573
)

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.DictID }
func (encoding) Name() string           { return "dict" }

func codesOf(a vxarray.Array) vxarray.Array  { return a.Child(0) }
func valuesOf(a vxarray.Array) vxarray.Array { return a.Child(1) }

func (encoding) Validate(a vxarray.Array) error {
	if a.NumChildren() != 2 {
		return vxerror.NewInvalidEncoding("dict: expected codes and values children")
	}
	codes, values := codesOf(a), valuesOf(a)
	if codes.DType().Kind() != dtype.KindPrimitive || codes.DType().PType().IsFloat() {
		return vxerror.NewInvalidEncoding("dict: codes child must be an integer Primitive")
	}
	if codes.Len() != a.Len() {
		return vxerror.NewLengthMismatch("dict: codes length %d != %d", codes.Len(), a.Len())
	}
	if !values.DType().Equal(a.DType()) && !values.DType().Equal(a.DType().WithNullability(dtype.NonNullable)) {
		return vxerror.NewMismatchedTypes(a.DType().String(), values.DType().String())
	}
	nv := values.Len()
	for i := 0; i < codes.Len(); i++ {
		c := int(primitive.ValueAt(codes, i))
		if c < 0 || c >= nv {
			return vxerror.NewOutOfBounds(c, 0, nv)
		}
	}
	return nil
}

// New builds a Dict array directly from already-deduplicated codes
// and values children.
func New(dt dtype.DType, codes vxarray.Array, values vxarray.Array) vxarray.Array {
	return vxarray.MustNewParts(vxarray.DictID, dt, codes.Len(), nil, []vxarray.Array{codes, values}, nil)
}

func valueKey(v scalar.Scalar) []byte {
	if v.IsNull() {
		return []byte{0}
	}
	dt := v.DType()
	switch dt.Kind() {
	case dtype.KindBool:
		if v.AsBool() {
			return []byte{1, 1}
		}
		return []byte{1, 0}
	case dtype.KindPrimitive:
		buf := make([]byte, 9)
		buf[0] = 2
		p := dt.PType()
		switch {
		case p.IsFloat():
			binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(v.AsFloat()))
		case p.IsSigned():
			binary.LittleEndian.PutUint64(buf[1:], uint64(v.AsInt()))
		default:
			binary.LittleEndian.PutUint64(buf[1:], v.AsUint())
		}
		return buf
	case dtype.KindUtf8:
		return append([]byte{3}, []byte(v.AsString())...)
	case dtype.KindBinary:
		return append([]byte{4}, []byte(v.AsString())...)
	default:
		return append([]byte{5}, []byte(v.AsString())...)
	}
}

// FromValues builds a Dict array by deduplicating values in order of
// first appearance, assigning each distinct value the next code.
func FromValues(dt dtype.DType, values []scalar.Scalar) vxarray.Array {
	type bucket struct {
		code int
		val  scalar.Scalar
	}
	buckets := map[uint64][]bucket{}
	codes := make([]int64, len(values))
	var unique []scalar.Scalar

	for i, v := range values {
		key := valueKey(v)
		h := siphash.Hash(hashK0, hashK1, key)
		found := -1
		for _, b := range buckets[h] {
			if b.val.Equal(v) {
				found = b.code
				break
			}
		}
		if found < 0 {
			found = len(unique)
			unique = append(unique, v)
			buckets[h] = append(buckets[h], bucket{code: found, val: v})
		}
		codes[i] = int64(found)
	}

	codeWidth := codeWidthFor(len(unique))
	codesArr := primitive.FromInt64(codeWidth, codes)
	valuesArr := canonbuild.FromScalars(dt.WithNullability(dtype.NonNullable), unique)
	return New(dt, codesArr, valuesArr)
}

func codeWidthFor(nUnique int) dtype.PType {
	switch {
	case nUnique <= 1<<8:
		return dtype.U8
	case nUnique <= 1<<16:
		return dtype.U16
	case nUnique <= 1<<32:
		return dtype.U32
	default:
		return dtype.U64
	}
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	vv, err := valuesOf(a).Validity()
	if err != nil {
		return vxarray.Validity{}, err
	}
	allValid, allInvalid := true, true
	for i := 0; i < valuesOf(a).Len(); i++ {
		if vv.IsValid(i) {
			allInvalid = false
		} else {
			allValid = false
		}
	}
	codes := codesOf(a)
	switch {
	case a.Len() == 0 || allValid:
		return vxarray.AllValid(a.Len()), nil
	case allInvalid:
		return vxarray.AllInvalid(a.Len()), nil
	default:
		bits := make([]bool, a.Len())
		for i := range bits {
			c := int(primitive.ValueAt(codes, i))
			bits[i] = vv.IsValid(c)
		}
		return vxarray.NewBitMask(canonbuild.FromScalars(dtype.Bool(dtype.NonNullable), boolScalars(bits))), nil
	}
}

func boolScalars(bits []bool) []scalar.Scalar {
	out := make([]scalar.Scalar, len(bits))
	for i, b := range bits {
		out[i] = scalar.Bool(b, dtype.NonNullable)
	}
	return out
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	n := a.Len()
	values := make([]scalar.Scalar, n)
	codes := codesOf(a)
	for i := 0; i < n; i++ {
		c := int(primitive.ValueAt(codes, i))
		v, err := vxarray.ScalarAt(valuesOf(a), c)
		if err != nil {
			return vxarray.Array{}, err
		}
		values[i] = v
	}
	return canonbuild.FromScalars(a.DType(), values), nil
}

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	switch kind {
	case vxarray.StatMin, vxarray.StatMax:
		return valuesOf(a).Statistics().ComputeMany(vxarray.StatMin, vxarray.StatMax)
	default:
		canon, err := (encoding{}).Canonicalize(a)
		if err != nil {
			return nil, err
		}
		return canon.Statistics().ComputeMany(kind)
	}
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	c := int(primitive.ValueAt(codesOf(a), i))
	return vxarray.ScalarAt(valuesOf(a), c)
}

// SliceArray implements vxarray.SliceFn: the values dictionary is
// shared, only the codes child is re-sliced.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	codes, err := vxarray.Slice(codesOf(a), start, stop)
	if err != nil {
		return vxarray.Array{}, err
	}
	return New(a.DType(), codes, valuesOf(a)), nil
}

// Take implements vxarray.TakeFn by gathering from the codes child,
// keeping the dictionary shared.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	codes, err := vxarray.Take(codesOf(a), indices)
	if err != nil {
		return vxarray.Array{}, err
	}
	return New(a.DType(), codes, valuesOf(a)), nil
}
