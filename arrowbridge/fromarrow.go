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

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/dict"
	"github.com/vortex-data/vortex-go/encodings/nullenc"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/encodings/structarr"
	"github.com/vortex-data/vortex-go/encodings/varbin"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

// FromArrow converts an Arrow array into the matching canonical
// Vortex array. Nullability is inferred from arr.NullN(): an Arrow
// array with zero nulls converts to a non-nullable Vortex DType even
// if the Arrow schema marked the field nullable, since Vortex tracks
// nullability on the DType itself and has no separate "nullable but
// currently all-valid" state.
func FromArrow(arr arrow.Array) (vxarray.Array, error) {
	switch a := arr.(type) {
	case *array.Null:
		return nullenc.New(a.Len()), nil
	case *array.Boolean:
		values := make([]bool, a.Len())
		for i := range values {
			values[i] = a.Value(i)
		}
		return withBoolOrPrimitiveNulls(boolarr.FromBools(values), a)
	case *array.Uint8:
		values := make([]uint64, a.Len())
		for i := range values {
			values[i] = uint64(a.Value(i))
		}
		return withBoolOrPrimitiveNulls(primitive.FromUint64(dtype.U8, values), a)
	case *array.Uint16:
		values := make([]uint64, a.Len())
		for i := range values {
			values[i] = uint64(a.Value(i))
		}
		return withBoolOrPrimitiveNulls(primitive.FromUint64(dtype.U16, values), a)
	case *array.Uint32:
		values := make([]uint64, a.Len())
		for i := range values {
			values[i] = uint64(a.Value(i))
		}
		return withBoolOrPrimitiveNulls(primitive.FromUint64(dtype.U32, values), a)
	case *array.Uint64:
		values := make([]uint64, a.Len())
		for i := range values {
			values[i] = a.Value(i)
		}
		return withBoolOrPrimitiveNulls(primitive.FromUint64(dtype.U64, values), a)
	case *array.Int8:
		values := make([]int64, a.Len())
		for i := range values {
			values[i] = int64(a.Value(i))
		}
		return withBoolOrPrimitiveNulls(primitive.FromInt64(dtype.I8, values), a)
	case *array.Int16:
		values := make([]int64, a.Len())
		for i := range values {
			values[i] = int64(a.Value(i))
		}
		return withBoolOrPrimitiveNulls(primitive.FromInt64(dtype.I16, values), a)
	case *array.Int32:
		values := make([]int64, a.Len())
		for i := range values {
			values[i] = int64(a.Value(i))
		}
		return withBoolOrPrimitiveNulls(primitive.FromInt64(dtype.I32, values), a)
	case *array.Int64:
		values := make([]int64, a.Len())
		for i := range values {
			values[i] = a.Value(i)
		}
		return withBoolOrPrimitiveNulls(primitive.FromInt64(dtype.I64, values), a)
	case *array.Float16:
		values := make([]float64, a.Len())
		for i := range values {
			values[i] = float64(a.Value(i).Float32())
		}
		return withBoolOrPrimitiveNulls(primitive.FromFloat64(dtype.F16, values), a)
	case *array.Float32:
		values := make([]float64, a.Len())
		for i := range values {
			values[i] = float64(a.Value(i))
		}
		return withBoolOrPrimitiveNulls(primitive.FromFloat64(dtype.F32, values), a)
	case *array.Float64:
		values := make([]float64, a.Len())
		for i := range values {
			values[i] = a.Value(i)
		}
		return withBoolOrPrimitiveNulls(primitive.FromFloat64(dtype.F64, values), a)
	case *array.String:
		values := make([]string, a.Len())
		for i := range values {
			values[i] = a.Value(i)
		}
		canon, err := varbin.FromStrings(values)
		if err != nil {
			return vxarray.Array{}, err
		}
		return withVarbinNulls(canon, a)
	case *array.LargeString:
		values := make([]string, a.Len())
		for i := range values {
			values[i] = a.Value(i)
		}
		canon, err := varbin.FromStrings(values)
		if err != nil {
			return vxarray.Array{}, err
		}
		return withVarbinNulls(canon, a)
	case *array.Binary:
		values := make([][]byte, a.Len())
		for i := range values {
			values[i] = a.Value(i)
		}
		return withVarbinNulls(varbin.FromBinary(values), a)
	case *array.Struct:
		return structFromArrow(a)
	case *array.Dictionary:
		return dictFromArrow(a)
	default:
		return vxarray.Array{}, vxerror.NewNotImplemented("arrowbridge: arrow to array", arr.DataType().Name())
	}
}

// withBoolOrPrimitiveNulls wraps a freshly built non-nullable Bool or
// Primitive canonical array with an explicit validity child when src
// carries nulls.
func withBoolOrPrimitiveNulls(canon vxarray.Array, src arrow.Array) (vxarray.Array, error) {
	if src.NullN() == 0 {
		return canon, nil
	}
	validity := validityFromArrow(src)
	switch canon.DType().Kind() {
	case dtype.KindBool:
		return boolarr.NewNullable(canon.Len(), canon.Buffer(0), validity), nil
	case dtype.KindPrimitive:
		return primitive.NewNullable(canon.DType().PType(), canon.Buffer(0), canon.Len(), validity), nil
	default:
		return vxarray.Array{}, vxerror.NewNotImplemented("arrowbridge: attach validity", canon.DType().Kind().String())
	}
}

func withVarbinNulls(canon vxarray.Array, src arrow.Array) (vxarray.Array, error) {
	if src.NullN() == 0 {
		return canon, nil
	}
	validity := validityFromArrow(src)
	id, dt, length, md, children, buffers := canon.IntoParts()
	dt = dt.WithNullability(dtype.Nullable)
	children = append(append([]vxarray.Array{}, children...), validity)
	return vxarray.TryNewParts(id, dt, length, md, children, buffers)
}

func validityFromArrow(src arrow.Array) vxarray.Array {
	validBits := make([]bool, src.Len())
	for i := range validBits {
		validBits[i] = !src.IsNull(i)
	}
	return boolarr.FromBools(validBits)
}

func structFromArrow(a *array.Struct) (vxarray.Array, error) {
	st := a.DataType().(*arrow.StructType)
	fields := make([]vxarray.Array, a.NumField())
	for i := 0; i < a.NumField(); i++ {
		f, err := FromArrow(a.Field(i))
		if err != nil {
			return vxarray.Array{}, err
		}
		fields[i] = f
	}
	names := make([]string, len(fields))
	types := make([]dtype.DType, len(fields))
	for i, f := range st.Fields() {
		names[i] = f.Name
		types[i] = fields[i].DType()
	}
	if a.NullN() == 0 {
		dt := dtype.Struct(names, types, dtype.NonNullable)
		return structarr.New(dt, fields), nil
	}
	dt := dtype.Struct(names, types, dtype.Nullable)
	return structarr.NewNullable(dt, fields, validityFromArrow(a)), nil
}

// dictFromArrow converts an Arrow dictionary array back into a Vortex
// Dict, preserving the codes/values split rather than expanding it.
func dictFromArrow(a *array.Dictionary) (vxarray.Array, error) {
	values, err := FromArrow(a.Dictionary())
	if err != nil {
		return vxarray.Array{}, err
	}
	codes := make([]int64, a.Len())
	for i := 0; i < a.Len(); i++ {
		codes[i] = int64(a.GetValueIndex(i))
	}
	codesArr := primitive.FromInt64(dtype.I32, codes)
	return dict.New(values.DType(), codesArr, values), nil
}
