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

// Package constant implements the Constant encoding: a single logical
// value broadcast across a length, stored as a length-1 canonical
// child rather than a hand-rolled scalar serialization. ScalarAt,
// Validity, SliceArray, Take and Filter work on that child directly;
// every other compute op falls out of the generic Take-based
// Canonicalize below (§3.5, §4.6 cost model: the
// sampling compressor picks Constant whenever a column's IsConstant
// stat is true, at effectively zero bytes).
package constant

import (
	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/encodings/varbin"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.ConstantID }
func (encoding) Name() string           { return "constant" }

func (encoding) Validate(a vxarray.Array) error {
	if a.NumChildren() != 1 {
		return vxerror.NewInvalidEncoding("constant: expected exactly one value child")
	}
	if a.NumBuffers() != 0 {
		return vxerror.NewInvalidEncoding("constant: must not carry buffers")
	}
	if a.Child(0).Len() != 1 {
		return vxerror.NewInvalidEncoding("constant: value child must have length 1, got %d", a.Child(0).Len())
	}
	if a.Child(0).DType().Kind() != a.DType().Kind() {
		return vxerror.NewMismatchedTypes(a.DType().String(), a.Child(0).DType().String())
	}
	return nil
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	cv, err := a.Child(0).Validity()
	if err != nil {
		return vxarray.Validity{}, err
	}
	if cv.IsValid(0) {
		return vxarray.AllValid(a.Len()), nil
	}
	return vxarray.AllInvalid(a.Len()), nil
}

// Canonicalize broadcasts the value child to a.Len() positions via the
// ordinary Take dispatch, so the canonical result's physical layout is
// whatever that DType's canonical encoding already is.
func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	zeros := make([]int64, a.Len())
	idx := primitive.FromInt64(dtype.I64, zeros)
	return vxarray.Take(a.Child(0), idx)
}

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	v, err := vxarray.ScalarAt(a.Child(0), 0)
	if err != nil {
		return nil, err
	}
	out := map[vxarray.StatKind]scalar.Scalar{
		vxarray.StatIsConstant:     scalar.Bool(true, dtype.NonNullable),
		vxarray.StatIsSorted:       scalar.Bool(true, dtype.NonNullable),
		vxarray.StatIsStrictSorted: scalar.Bool(a.Len() <= 1, dtype.NonNullable),
	}
	if v.IsNull() {
		out[vxarray.StatNullCount] = scalar.Int(dtype.I64, int64(a.Len()), dtype.NonNullable)
		out[vxarray.StatRunCount] = scalar.Int(dtype.I64, boolToI64(a.Len() > 0), dtype.NonNullable)
		return out, nil
	}
	out[vxarray.StatNullCount] = scalar.Int(dtype.I64, 0, dtype.NonNullable)
	out[vxarray.StatRunCount] = scalar.Int(dtype.I64, boolToI64(a.Len() > 0), dtype.NonNullable)
	out[vxarray.StatMin] = v
	out[vxarray.StatMax] = v
	if a.DType().Kind() == dtype.KindBool && v.AsBool() {
		out[vxarray.StatTrueCount] = scalar.Int(dtype.I64, int64(a.Len()), dtype.NonNullable)
	} else {
		out[vxarray.StatTrueCount] = scalar.Int(dtype.I64, 0, dtype.NonNullable)
	}
	return out, nil
}

func boolToI64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// New builds a Constant array of the given length repeating value.
func New(value scalar.Scalar, length int) vxarray.Array {
	child := wrapScalar(value)
	return vxarray.MustNewParts(vxarray.ConstantID, value.DType(), length, nil, []vxarray.Array{child}, nil)
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, _ int) (scalar.Scalar, error) {
	return vxarray.ScalarAt(a.Child(0), 0)
}

// SliceArray implements vxarray.SliceFn: changing length is free.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	return vxarray.MustNewParts(vxarray.ConstantID, a.DType(), stop-start, nil, a.Children(), nil), nil
}

// Take implements vxarray.TakeFn: every index reads the same value, so
// only bounds-check indices and reuse the same value child.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	for i := 0; i < n; i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
	}
	return vxarray.MustNewParts(vxarray.ConstantID, a.DType(), n, nil, a.Children(), nil), nil
}

// Filter implements vxarray.FilterFn by simply counting true positions.
func (encoding) Filter(a vxarray.Array, mask vxarray.Array) (vxarray.Array, error) {
	n := 0
	for i := 0; i < mask.Len(); i++ {
		v, err := vxarray.ScalarAt(mask, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		if !v.IsNull() && v.AsBool() {
			n++
		}
	}
	return vxarray.MustNewParts(vxarray.ConstantID, a.DType(), n, nil, a.Children(), nil), nil
}

func wrapScalar(v scalar.Scalar) vxarray.Array {
	dt := v.DType()
	if v.IsNull() {
		return wrapNull(dt)
	}
	switch dt.Kind() {
	case dtype.KindBool:
		return boolarr.FromBools([]bool{v.AsBool()})
	case dtype.KindPrimitive:
		p := dt.PType()
		switch {
		case p.IsFloat():
			return primitive.FromFloat64(p, []float64{v.AsFloat()})
		case p.IsSigned():
			return primitive.FromInt64(p, []int64{v.AsInt()})
		default:
			return primitive.FromUint64(p, []uint64{v.AsUint()})
		}
	case dtype.KindUtf8:
		a, err := varbin.FromStrings([]string{v.AsString()})
		if err != nil {
			panic(err)
		}
		return a
	case dtype.KindBinary:
		return varbin.FromBinary([][]byte{[]byte(v.AsString())})
	default:
		panic("constant: unsupported scalar dtype " + dt.String())
	}
}

func wrapNull(dt dtype.DType) vxarray.Array {
	ndt := dt.WithNullability(dtype.Nullable)
	invalid := boolarr.FromBools([]bool{false})
	switch dt.Kind() {
	case dtype.KindBool:
		return boolarr.NewNullable(1, buffer.New(1), invalid)
	case dtype.KindPrimitive:
		w := dt.PType().ByteWidth()
		return primitive.NewNullable(dt.PType(), buffer.New(w), 1, invalid)
	case dtype.KindUtf8, dtype.KindBinary:
		return varbin.NewNullable(ndt, []int32{0, 0}, nil, invalid)
	default:
		panic("constant: unsupported null scalar dtype " + dt.String())
	}
}
