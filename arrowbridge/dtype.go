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

// Package arrowbridge converts between Vortex's DType/Array and
// Arrow's DataType/Array (apache/arrow/go/v15), so a Vortex column
// can be handed to anything that already speaks Arrow (a Parquet
// writer, a Flight server, a DataFusion query) without going through
// an intermediate row format. Nullability lives on the arrow.Array's
// null bitmap rather than on arrow.DataType, so FromArrow infers a
// DType's Nullability from whether the source array actually holds
// any nulls (NullN() > 0), and ToArrow always attaches one when the Vortex DType
// is nullable, empty or not.
//
// List and RunEnd have no canonical Vortex encoding yet (see
// DESIGN.md), so they are not reachable through this bridge; Extension
// round-trips through its storage DType only, the extension id and
// metadata are not preserved, since doing so properly means
// registering a concrete arrow.ExtensionType per Vortex extension id
// rather than a single generic bridge.
package arrowbridge

import (
	"github.com/apache/arrow/go/v15/arrow"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/vxerror"
)

// ToArrowType maps a Vortex DType to its Arrow equivalent. The result
// never carries nullability information: Arrow tags that on
// arrow.Field, not arrow.DataType, and the bridge operates one level
// down at the bare array.
func ToArrowType(dt dtype.DType) (arrow.DataType, error) {
	switch dt.Kind() {
	case dtype.KindNull:
		return arrow.Null, nil
	case dtype.KindBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case dtype.KindPrimitive:
		return primitiveArrowType(dt.PType())
	case dtype.KindUtf8:
		return arrow.BinaryTypes.String, nil
	case dtype.KindBinary:
		return arrow.BinaryTypes.Binary, nil
	case dtype.KindStruct:
		names, types := dt.FieldNames(), dt.FieldTypes()
		fields := make([]arrow.Field, len(names))
		for i, name := range names {
			ft, err := ToArrowType(types[i])
			if err != nil {
				return nil, err
			}
			fields[i] = arrow.Field{Name: name, Type: ft, Nullable: types[i].Nullable()}
		}
		return arrow.StructOf(fields...), nil
	case dtype.KindExtension:
		return ToArrowType(dt.StorageDType())
	default:
		return nil, vxerror.NewNotImplemented("arrowbridge: dtype to arrow", dt.Kind().String())
	}
}

func primitiveArrowType(p dtype.PType) (arrow.DataType, error) {
	switch p {
	case dtype.U8:
		return arrow.PrimitiveTypes.Uint8, nil
	case dtype.U16:
		return arrow.PrimitiveTypes.Uint16, nil
	case dtype.U32:
		return arrow.PrimitiveTypes.Uint32, nil
	case dtype.U64:
		return arrow.PrimitiveTypes.Uint64, nil
	case dtype.I8:
		return arrow.PrimitiveTypes.Int8, nil
	case dtype.I16:
		return arrow.PrimitiveTypes.Int16, nil
	case dtype.I32:
		return arrow.PrimitiveTypes.Int32, nil
	case dtype.I64:
		return arrow.PrimitiveTypes.Int64, nil
	case dtype.F16:
		return arrow.FixedWidthTypes.Float16, nil
	case dtype.F32:
		return arrow.PrimitiveTypes.Float32, nil
	case dtype.F64:
		return arrow.PrimitiveTypes.Float64, nil
	default:
		return nil, vxerror.NewNotImplemented("arrowbridge: ptype to arrow", p.String())
	}
}

// FromArrowType maps an Arrow DataType back to a non-nullable Vortex
// DType; callers apply the nullability they observed on the source
// array with DType.WithNullability.
func FromArrowType(t arrow.DataType) (dtype.DType, error) {
	switch t.ID() {
	case arrow.NULL:
		return dtype.Null, nil
	case arrow.BOOL:
		return dtype.Bool(dtype.NonNullable), nil
	case arrow.UINT8:
		return dtype.Primitive(dtype.U8, dtype.NonNullable), nil
	case arrow.UINT16:
		return dtype.Primitive(dtype.U16, dtype.NonNullable), nil
	case arrow.UINT32:
		return dtype.Primitive(dtype.U32, dtype.NonNullable), nil
	case arrow.UINT64:
		return dtype.Primitive(dtype.U64, dtype.NonNullable), nil
	case arrow.INT8:
		return dtype.Primitive(dtype.I8, dtype.NonNullable), nil
	case arrow.INT16:
		return dtype.Primitive(dtype.I16, dtype.NonNullable), nil
	case arrow.INT32:
		return dtype.Primitive(dtype.I32, dtype.NonNullable), nil
	case arrow.INT64:
		return dtype.Primitive(dtype.I64, dtype.NonNullable), nil
	case arrow.FLOAT16:
		return dtype.Primitive(dtype.F16, dtype.NonNullable), nil
	case arrow.FLOAT32:
		return dtype.Primitive(dtype.F32, dtype.NonNullable), nil
	case arrow.FLOAT64:
		return dtype.Primitive(dtype.F64, dtype.NonNullable), nil
	case arrow.STRING, arrow.LARGE_STRING:
		return dtype.Utf8(dtype.NonNullable), nil
	case arrow.BINARY, arrow.LARGE_BINARY:
		return dtype.Binary(dtype.NonNullable), nil
	case arrow.STRUCT:
		st := t.(*arrow.StructType)
		names := make([]string, st.NumFields())
		types := make([]dtype.DType, st.NumFields())
		for i, f := range st.Fields() {
			ft, err := FromArrowType(f.Type)
			if err != nil {
				return dtype.DType{}, err
			}
			if f.Nullable {
				ft = ft.WithNullability(dtype.Nullable)
			}
			names[i] = f.Name
			types[i] = ft
		}
		return dtype.Struct(names, types, dtype.NonNullable), nil
	case arrow.DICTIONARY:
		dct := t.(*arrow.DictionaryType)
		return FromArrowType(dct.ValueType)
	default:
		return dtype.DType{}, vxerror.NewNotImplemented("arrowbridge: arrow to dtype", t.Name())
	}
}
