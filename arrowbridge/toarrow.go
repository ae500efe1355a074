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

package arrowbridge

import (
	"github.com/apache/arrow/go/v15/arrow"
	"github.com/apache/arrow/go/v15/arrow/array"
	"github.com/apache/arrow/go/v15/arrow/float16"
	"github.com/apache/arrow/go/v15/arrow/memory"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

// ToArrow materializes a into an Arrow array allocated from mem. a is
// canonicalized first (§3.5): the Arrow side has no notion of
// Vortex's compressed encodings, so a RunEnd (or any other compressed)
// array is expanded. Dict is the exception: Arrow represents it
// natively, and this bridge preserves it as an Arrow dictionary array
// instead of expanding it.
func ToArrow(mem memory.Allocator, a vxarray.Array) (arrow.Array, error) {
	if a.Encoding() == vxarray.DictID {
		return dictToArrow(mem, a)
	}
	canon, err := a.IntoCanonical()
	if err != nil {
		return nil, err
	}
	v, err := canon.Validity()
	if err != nil {
		return nil, err
	}
	switch canon.DType().Kind() {
	case dtype.KindNull:
		return array.NewNull(canon.Len()), nil
	case dtype.KindBool:
		return boolToArrow(mem, canon, v)
	case dtype.KindPrimitive:
		return primitiveToArrow(mem, canon, v)
	case dtype.KindUtf8, dtype.KindBinary:
		return varbinToArrow(mem, canon, v)
	case dtype.KindStruct:
		return structToArrow(mem, canon, v)
	case dtype.KindExtension:
		return ToArrow(mem, storageChild(canon))
	default:
		return nil, vxerror.NewNotImplemented("arrowbridge: array to arrow", canon.DType().Kind().String())
	}
}

func storageChild(a vxarray.Array) vxarray.Array { return a.Child(0) }

func boolToArrow(mem memory.Allocator, a vxarray.Array, v vxarray.Validity) (arrow.Array, error) {
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	b.Resize(a.Len())
	for i := 0; i < a.Len(); i++ {
		if !v.IsValid(i) {
			b.AppendNull()
			continue
		}
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		b.Append(s.AsBool())
	}
	return b.NewArray(), nil
}

func primitiveToArrow(mem memory.Allocator, a vxarray.Array, v vxarray.Validity) (arrow.Array, error) {
	p := a.DType().PType()
	switch {
	case p.IsFloat():
		return floatToArrow(mem, a, v, p)
	case p.IsSigned():
		return intToArrow(mem, a, v, p)
	default:
		return uintToArrow(mem, a, v, p)
	}
}

func intToArrow(mem memory.Allocator, a vxarray.Array, v vxarray.Validity, p dtype.PType) (arrow.Array, error) {
	b := array.NewInt64Builder(mem)
	defer b.Release()
	b.Resize(a.Len())
	vals := make([]int64, a.Len())
	valid := make([]bool, a.Len())
	for i := range vals {
		valid[i] = v.IsValid(i)
		if !valid[i] {
			continue
		}
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		vals[i] = s.AsInt()
	}
	b.AppendValues(vals, valid)
	wide := b.NewInt64Array()
	defer wide.Release()
	return narrowInt(mem, wide, p)
}

// narrowInt casts the Int64 staging array down to the target width:
// Arrow's builders don't expose an AppendValues for anything narrower
// than the language's native int without per-element casting, so we
// stage through int64 and narrow once rather than branch the append
// loop eleven ways.
func narrowInt(mem memory.Allocator, wide *array.Int64, p dtype.PType) (arrow.Array, error) {
	switch p {
	case dtype.I64:
		wide.Retain()
		return wide, nil
	case dtype.I8:
		b := array.NewInt8Builder(mem)
		defer b.Release()
		for i := 0; i < wide.Len(); i++ {
			if wide.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(int8(wide.Value(i)))
			}
		}
		return b.NewArray(), nil
	case dtype.I16:
		b := array.NewInt16Builder(mem)
		defer b.Release()
		for i := 0; i < wide.Len(); i++ {
			if wide.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(int16(wide.Value(i)))
			}
		}
		return b.NewArray(), nil
	case dtype.I32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		for i := 0; i < wide.Len(); i++ {
			if wide.IsNull(i) {
				b.AppendNull()
			} else {
				b.Append(int32(wide.Value(i)))
			}
		}
		return b.NewArray(), nil
	default:
		return nil, vxerror.NewNotImplemented("arrowbridge: narrow int", p.String())
	}
}

func uintToArrow(mem memory.Allocator, a vxarray.Array, v vxarray.Validity, p dtype.PType) (arrow.Array, error) {
	switch p {
	case dtype.U8:
		b := array.NewUint8Builder(mem)
		defer b.Release()
		return appendUint(a, v, func(x uint64) { b.Append(uint8(x)) }, b.AppendNull, b.NewArray)
	case dtype.U16:
		b := array.NewUint16Builder(mem)
		defer b.Release()
		return appendUint(a, v, func(x uint64) { b.Append(uint16(x)) }, b.AppendNull, b.NewArray)
	case dtype.U32:
		b := array.NewUint32Builder(mem)
		defer b.Release()
		return appendUint(a, v, func(x uint64) { b.Append(uint32(x)) }, b.AppendNull, b.NewArray)
	case dtype.U64:
		b := array.NewUint64Builder(mem)
		defer b.Release()
		return appendUint(a, v, func(x uint64) { b.Append(x) }, b.AppendNull, b.NewArray)
	default:
		return nil, vxerror.NewNotImplemented("arrowbridge: uint ptype", p.String())
	}
}

func appendUint(a vxarray.Array, v vxarray.Validity, appendOne func(uint64), appendNull func(), build func() arrow.Array) (arrow.Array, error) {
	for i := 0; i < a.Len(); i++ {
		if !v.IsValid(i) {
			appendNull()
			continue
		}
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		appendOne(s.AsUint())
	}
	return build(), nil
}

func floatToArrow(mem memory.Allocator, a vxarray.Array, v vxarray.Validity, p dtype.PType) (arrow.Array, error) {
	switch p {
	case dtype.F16:
		b := array.NewFloat16Builder(mem)
		defer b.Release()
		for i := 0; i < a.Len(); i++ {
			if !v.IsValid(i) {
				b.AppendNull()
				continue
			}
			s, err := vxarray.ScalarAt(a, i)
			if err != nil {
				return nil, err
			}
			b.Append(float16.New(float32(s.AsFloat())))
		}
		return b.NewArray(), nil
	case dtype.F32:
		b := array.NewFloat32Builder(mem)
		defer b.Release()
		for i := 0; i < a.Len(); i++ {
			if !v.IsValid(i) {
				b.AppendNull()
				continue
			}
			s, err := vxarray.ScalarAt(a, i)
			if err != nil {
				return nil, err
			}
			b.Append(float32(s.AsFloat()))
		}
		return b.NewArray(), nil
	default:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for i := 0; i < a.Len(); i++ {
			if !v.IsValid(i) {
				b.AppendNull()
				continue
			}
			s, err := vxarray.ScalarAt(a, i)
			if err != nil {
				return nil, err
			}
			b.Append(s.AsFloat())
		}
		return b.NewArray(), nil
	}
}

func varbinToArrow(mem memory.Allocator, a vxarray.Array, v vxarray.Validity) (arrow.Array, error) {
	if a.DType().Kind() == dtype.KindUtf8 {
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for i := 0; i < a.Len(); i++ {
			if !v.IsValid(i) {
				b.AppendNull()
				continue
			}
			s, err := vxarray.ScalarAt(a, i)
			if err != nil {
				return nil, err
			}
			b.Append(s.AsString())
		}
		return b.NewArray(), nil
	}
	b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	defer b.Release()
	for i := 0; i < a.Len(); i++ {
		if !v.IsValid(i) {
			b.AppendNull()
			continue
		}
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		b.Append([]byte(s.AsString()))
	}
	return b.NewArray(), nil
}

func structToArrow(mem memory.Allocator, a vxarray.Array, v vxarray.Validity) (arrow.Array, error) {
	names := a.DType().FieldNames()
	cols := make([]arrow.Array, len(names))
	for i := range names {
		col, err := ToArrow(mem, a.Child(i))
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	if !a.DType().Nullable() {
		return array.NewStructArray(cols, names), nil
	}
	nullBitmap := make([]byte, (a.Len()+7)/8)
	nullCount := 0
	for i := 0; i < a.Len(); i++ {
		if v.IsValid(i) {
			nullBitmap[i/8] |= 1 << uint(i%8)
		} else {
			nullCount++
		}
	}
	return array.NewStructArrayWithNulls(cols, names, nullBitmap, nullCount, 0), nil
}

// dictToArrow converts a Vortex Dict array directly to an Arrow
// dictionary array, preserving the codes/values split instead of
// paying to expand it through IntoCanonical first.
func dictToArrow(mem memory.Allocator, a vxarray.Array) (arrow.Array, error) {
	codes := a.Child(0)
	values := a.Child(1)
	indices, err := ToArrow(mem, codes)
	if err != nil {
		return nil, err
	}
	dictValues, err := ToArrow(mem, values)
	if err != nil {
		return nil, err
	}
	dt := &arrow.DictionaryType{IndexType: indices.DataType(), ValueType: dictValues.DataType()}
	return array.NewDictionaryArray(dt, indices, dictValues), nil
}
