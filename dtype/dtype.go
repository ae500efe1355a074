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

// Package dtype implements Vortex's logical type algebra: the DType
// tree, nullability, and the primitive type enum. A DType is immutable
// once built; Struct and List share their inner slices cheaply across
// clones, the way ion.Symtab shares its interned-string slice.
package dtype

import (
	"fmt"
	"strings"
)

// Kind is the top-level discriminant of a DType.
type Kind byte

const (
	KindNull Kind = iota
	KindBool
	KindPrimitive
	KindUtf8
	KindBinary
	KindStruct
	KindList
	KindExtension
	KindInvalid = Kind(0xff)
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindPrimitive:
		return "primitive"
	case KindUtf8:
		return "utf8"
	case KindBinary:
		return "binary"
	case KindStruct:
		return "struct"
	case KindList:
		return "list"
	case KindExtension:
		return "extension"
	default:
		return "invalid"
	}
}

// Nullability is a two-valued enum: a DType either forbids nulls
// outright (NonNullable) or allows them (Nullable).
type Nullability byte

const (
	NonNullable Nullability = iota
	Nullable
)

func (n Nullability) String() string {
	if n == Nullable {
		return "nullable"
	}
	return "non-nullable"
}

// PType enumerates the primitive physical widths a Primitive DType may
// carry.
type PType byte

const (
	U8 PType = iota
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F16
	F32
	F64
)

var ptypeNames = [...]string{"u8", "u16", "u32", "u64", "i8", "i16", "i32", "i64", "f16", "f32", "f64"}

func (p PType) String() string {
	if int(p) < len(ptypeNames) {
		return ptypeNames[p]
	}
	return "invalid"
}

// ByteWidth returns the number of bytes one value of this PType
// occupies in a packed buffer.
func (p PType) ByteWidth() int {
	switch p {
	case U8, I8:
		return 1
	case U16, I16, F16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether p is one of the floating-point widths.
func (p PType) IsFloat() bool {
	return p == F16 || p == F32 || p == F64
}

// IsSigned reports whether p is a signed integer width.
func (p PType) IsSigned() bool {
	switch p {
	case I8, I16, I32, I64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether p is an unsigned integer width.
func (p PType) IsUnsigned() bool {
	switch p {
	case U8, U16, U32, U64:
		return true
	default:
		return false
	}
}

// DType is Vortex's immutable logical type. The zero DType is invalid;
// use one of the constructors below. Equality is structural: use Equal,
// never ==, since Struct/List/Extension DTypes embed slices.
type DType struct {
	kind        Kind
	nullability Nullability

	ptype PType // KindPrimitive

	// KindStruct
	fieldNames []string
	fieldTypes []DType

	// KindList
	elem *DType

	// KindExtension
	extID      string
	storage    *DType
	extMeta    []byte
}

// Null is the singleton Null DType.
var Null = DType{kind: KindNull}

// Bool constructs a Bool DType with the given nullability.
func Bool(n Nullability) DType { return DType{kind: KindBool, nullability: n} }

// Primitive constructs a Primitive DType of the given PType and nullability.
func Primitive(p PType, n Nullability) DType {
	return DType{kind: KindPrimitive, ptype: p, nullability: n}
}

// Utf8 constructs a Utf8 DType with the given nullability.
func Utf8(n Nullability) DType { return DType{kind: KindUtf8, nullability: n} }

// Binary constructs a Binary DType with the given nullability.
func Binary(n Nullability) DType { return DType{kind: KindBinary, nullability: n} }

// Struct constructs a Struct DType. fieldNames and fieldTypes must have
// equal length; the slices are retained (not copied) per the sharing
// contract of §3.1 — callers must not mutate them afterwards.
func Struct(fieldNames []string, fieldTypes []DType, n Nullability) DType {
	return DType{
		kind:        KindStruct,
		nullability: n,
		fieldNames:  fieldNames,
		fieldTypes:  fieldTypes,
	}
}

// List constructs a List DType over the given element DType.
func List(elem DType, n Nullability) DType {
	return DType{kind: KindList, nullability: n, elem: &elem}
}

// Extension constructs an Extension DType identified by id, backed by
// storage, carrying opaque metadata bytes.
func Extension(id string, storage DType, metadata []byte, n Nullability) DType {
	return DType{
		kind:        KindExtension,
		nullability: n,
		extID:       id,
		storage:     &storage,
		extMeta:     metadata,
	}
}

// Kind returns the DType's top-level discriminant.
func (d DType) Kind() Kind { return d.kind }

// Nullability returns whether this DType permits nulls.
func (d DType) Nullability() Nullability { return d.nullability }

// Nullable reports whether this DType permits nulls.
func (d DType) Nullable() bool { return d.nullability == Nullable }

// PType returns the primitive width; valid only when Kind() == KindPrimitive.
func (d DType) PType() PType { return d.ptype }

// FieldNames returns the struct's field names; valid only when Kind() == KindStruct.
func (d DType) FieldNames() []string { return d.fieldNames }

// FieldTypes returns the struct's field dtypes; valid only when Kind() == KindStruct.
func (d DType) FieldTypes() []DType { return d.fieldTypes }

// Field looks up a struct field's DType by name.
func (d DType) Field(name string) (DType, bool) {
	for i, n := range d.fieldNames {
		if n == name {
			return d.fieldTypes[i], true
		}
	}
	return DType{}, false
}

// Elem returns the list element DType; valid only when Kind() == KindList.
func (d DType) Elem() DType { return *d.elem }

// ExtensionID returns the extension identifier; valid only when Kind() == KindExtension.
func (d DType) ExtensionID() string { return d.extID }

// StorageDType returns the extension's physical storage DType; valid
// only when Kind() == KindExtension.
func (d DType) StorageDType() DType { return *d.storage }

// ExtensionMetadata returns the extension's opaque metadata bytes;
// valid only when Kind() == KindExtension.
func (d DType) ExtensionMetadata() []byte { return d.extMeta }

// WithNullability returns a copy of d with the given nullability. The
// Null kind is always non-nullable-in-spirit (every element is null)
// and ignores this.
func (d DType) WithNullability(n Nullability) DType {
	if d.kind == KindNull {
		return d
	}
	d.nullability = n
	return d
}

// Equal reports whether d and x are structurally identical.
func (d DType) Equal(x DType) bool {
	if d.kind != x.kind {
		return false
	}
	switch d.kind {
	case KindNull:
		return true
	case KindBool, KindUtf8, KindBinary:
		return d.nullability == x.nullability
	case KindPrimitive:
		return d.nullability == x.nullability && d.ptype == x.ptype
	case KindStruct:
		if d.nullability != x.nullability || len(d.fieldNames) != len(x.fieldNames) {
			return false
		}
		for i := range d.fieldNames {
			if d.fieldNames[i] != x.fieldNames[i] || !d.fieldTypes[i].Equal(x.fieldTypes[i]) {
				return false
			}
		}
		return true
	case KindList:
		return d.nullability == x.nullability && d.elem.Equal(*x.elem)
	case KindExtension:
		return d.nullability == x.nullability && d.extID == x.extID &&
			d.storage.Equal(*x.storage) && string(d.extMeta) == string(x.extMeta)
	default:
		return false
	}
}

// String renders a DType in a debug-friendly, non-stable format.
func (d DType) String() string {
	switch d.kind {
	case KindNull:
		return "null"
	case KindBool:
		return nullSuffix("bool", d.nullability)
	case KindPrimitive:
		return nullSuffix(d.ptype.String(), d.nullability)
	case KindUtf8:
		return nullSuffix("utf8", d.nullability)
	case KindBinary:
		return nullSuffix("binary", d.nullability)
	case KindStruct:
		var b strings.Builder
		b.WriteString("struct{")
		for i, n := range d.fieldNames {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", n, d.fieldTypes[i])
		}
		b.WriteString("}")
		return nullSuffix(b.String(), d.nullability)
	case KindList:
		return nullSuffix(fmt.Sprintf("list<%s>", d.elem), d.nullability)
	case KindExtension:
		return nullSuffix(fmt.Sprintf("ext<%s, %s>", d.extID, d.storage), d.nullability)
	default:
		return "invalid"
	}
}

func nullSuffix(base string, n Nullability) string {
	if n == Nullable {
		return base + "?"
	}
	return base
}
