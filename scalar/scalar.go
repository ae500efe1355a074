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

// Package scalar implements Scalar, a typed, possibly-null single
// value carrying a DType. It plays the role ion.Datum plays for the
// teacher's row-oriented value model, but is fixed to exactly one
// DType rather than being self-describing.
package scalar

import (
	"fmt"
	"math"

	"github.com/vortex-data/vortex-go/dtype"
)

// Scalar is an immutable, typed, possibly-null value.
type Scalar struct {
	dt    dtype.DType
	null  bool
	u     uint64 // bit pattern for Bool/Primitive
	s     string // Utf8/Binary payload
	items []Scalar // Struct fields / List elements, parallel to dt
}

// Null constructs a null Scalar of the given DType.
func Null(dt dtype.DType) Scalar { return Scalar{dt: dt, null: true} }

// DType returns the scalar's logical type.
func (s Scalar) DType() dtype.DType { return s.dt }

// IsNull reports whether the scalar carries no value.
func (s Scalar) IsNull() bool { return s.null }

// Bool constructs a non-null Bool scalar.
func Bool(v bool, n dtype.Nullability) Scalar {
	u := uint64(0)
	if v {
		u = 1
	}
	return Scalar{dt: dtype.Bool(n), u: u}
}

// AsBool returns the scalar's bool value; valid only for non-null Bool scalars.
func (s Scalar) AsBool() bool { return s.u != 0 }

// Int constructs a non-null signed-integer Primitive scalar.
func Int(p dtype.PType, v int64, n dtype.Nullability) Scalar {
	return Scalar{dt: dtype.Primitive(p, n), u: uint64(v)}
}

// AsInt returns the scalar's value reinterpreted as int64.
func (s Scalar) AsInt() int64 { return int64(s.u) }

// Uint constructs a non-null unsigned-integer Primitive scalar.
func Uint(p dtype.PType, v uint64, n dtype.Nullability) Scalar {
	return Scalar{dt: dtype.Primitive(p, n), u: v}
}

// AsUint returns the scalar's value as uint64.
func (s Scalar) AsUint() uint64 { return s.u }

// Float constructs a non-null floating-point Primitive scalar (F32 or F64).
func Float(p dtype.PType, v float64, n dtype.Nullability) Scalar {
	var u uint64
	switch p {
	case dtype.F32:
		u = uint64(math.Float32bits(float32(v)))
	default:
		u = math.Float64bits(v)
	}
	return Scalar{dt: dtype.Primitive(p, n), u: u}
}

// AsFloat returns the scalar's value as float64.
func (s Scalar) AsFloat() float64 {
	if s.dt.PType() == dtype.F32 {
		return float64(math.Float32frombits(uint32(s.u)))
	}
	return math.Float64frombits(s.u)
}

// Utf8 constructs a non-null Utf8 scalar.
func Utf8(v string, n dtype.Nullability) Scalar {
	return Scalar{dt: dtype.Utf8(n), s: v}
}

// Binary constructs a non-null Binary scalar.
func Binary(v []byte, n dtype.Nullability) Scalar {
	return Scalar{dt: dtype.Binary(n), s: string(v)}
}

// AsString returns the scalar's Utf8/Binary payload.
func (s Scalar) AsString() string { return s.s }

// Struct constructs a non-null Struct scalar from field values in the
// DType's field order.
func Struct(dt dtype.DType, fields []Scalar) Scalar {
	return Scalar{dt: dt, items: fields}
}

// Field returns the i'th field of a Struct scalar.
func (s Scalar) Field(i int) Scalar { return s.items[i] }

// List constructs a non-null List scalar.
func List(dt dtype.DType, elems []Scalar) Scalar {
	return Scalar{dt: dt, items: elems}
}

// Elem returns the i'th element of a List scalar.
func (s Scalar) Elem(i int) Scalar { return s.items[i] }

// Len returns the number of items in a Struct or List scalar.
func (s Scalar) Len() int { return len(s.items) }

// Equal reports value equality, honoring NaN semantics (NaN == NaN for
// Scalar comparison, matching ion.Datum.Equal's float handling).
func (s Scalar) Equal(o Scalar) bool {
	if !s.dt.Equal(o.dt) {
		return false
	}
	if s.null != o.null {
		return false
	}
	if s.null {
		return true
	}
	switch s.dt.Kind() {
	case dtype.KindPrimitive:
		if s.dt.PType().IsFloat() {
			a, b := s.AsFloat(), o.AsFloat()
			return a == b || (math.IsNaN(a) && math.IsNaN(b))
		}
		return s.u == o.u
	case dtype.KindBool:
		return s.u == o.u
	case dtype.KindUtf8, dtype.KindBinary:
		return s.s == o.s
	case dtype.KindStruct, dtype.KindList:
		if len(s.items) != len(o.items) {
			return false
		}
		for i := range s.items {
			if !s.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case dtype.KindNull:
		return true
	default:
		return false
	}
}

// Compare orders two non-null scalars of the same comparable DType.
// Returns -1, 0, or 1. Panics on incomparable kinds (Struct/List) —
// callers (Min/Max stats, search_sorted) only ever call Compare on
// Bool/Primitive/Utf8/Binary scalars.
func (s Scalar) Compare(o Scalar) int {
	switch s.dt.Kind() {
	case dtype.KindPrimitive:
		if s.dt.PType().IsFloat() {
			a, b := s.AsFloat(), o.AsFloat()
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
		if s.dt.PType().IsSigned() {
			a, b := s.AsInt(), o.AsInt()
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
		a, b := s.u, o.u
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	case dtype.KindBool:
		if s.u == o.u {
			return 0
		}
		if s.u < o.u {
			return -1
		}
		return 1
	case dtype.KindUtf8, dtype.KindBinary:
		switch {
		case s.s < o.s:
			return -1
		case s.s > o.s:
			return 1
		default:
			return 0
		}
	default:
		panic(fmt.Sprintf("scalar: Compare not defined for %s", s.dt))
	}
}

// String renders a debug-friendly representation of the scalar.
func (s Scalar) String() string {
	if s.null {
		return "null"
	}
	switch s.dt.Kind() {
	case dtype.KindBool:
		return fmt.Sprintf("%v", s.AsBool())
	case dtype.KindPrimitive:
		if s.dt.PType().IsFloat() {
			return fmt.Sprintf("%v", s.AsFloat())
		}
		if s.dt.PType().IsSigned() {
			return fmt.Sprintf("%d", s.AsInt())
		}
		return fmt.Sprintf("%d", s.u)
	case dtype.KindUtf8:
		return fmt.Sprintf("%q", s.s)
	case dtype.KindBinary:
		return fmt.Sprintf("%x", s.s)
	default:
		return fmt.Sprintf("<%s>", s.dt)
	}
}
