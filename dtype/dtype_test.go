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

package dtype

import "testing"

func TestEqualPrimitive(t *testing.T) {
	cases := []struct {
		a, b DType
		want bool
	}{
		{Primitive(I32, Nullable), Primitive(I32, Nullable), true},
		{Primitive(I32, Nullable), Primitive(I32, NonNullable), false},
		{Primitive(I32, Nullable), Primitive(I64, Nullable), false},
		{Bool(Nullable), Bool(Nullable), true},
		{Null, Null, true},
		{Null, Bool(Nullable), false},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.want {
			t.Errorf("%s.Equal(%s) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestEqualStruct(t *testing.T) {
	a := Struct([]string{"x", "y"}, []DType{Primitive(I32, NonNullable), Utf8(Nullable)}, NonNullable)
	b := Struct([]string{"x", "y"}, []DType{Primitive(I32, NonNullable), Utf8(Nullable)}, NonNullable)
	c := Struct([]string{"x", "z"}, []DType{Primitive(I32, NonNullable), Utf8(Nullable)}, NonNullable)
	if !a.Equal(b) {
		t.Errorf("expected %s to equal %s", a, b)
	}
	if a.Equal(c) {
		t.Errorf("expected %s to not equal %s", a, c)
	}
}

func TestEqualList(t *testing.T) {
	a := List(Primitive(F64, Nullable), NonNullable)
	b := List(Primitive(F64, Nullable), NonNullable)
	c := List(Primitive(F32, Nullable), NonNullable)
	if !a.Equal(b) {
		t.Errorf("expected %s to equal %s", a, b)
	}
	if a.Equal(c) {
		t.Errorf("expected %s to not equal %s", a, c)
	}
}

func TestWithNullabilityOnNull(t *testing.T) {
	n := Null.WithNullability(Nullable)
	if n.Kind() != KindNull {
		t.Fatalf("expected Null to stay Null, got %s", n)
	}
}

func TestFieldLookup(t *testing.T) {
	s := Struct([]string{"a", "b"}, []DType{Primitive(I8, NonNullable), Bool(Nullable)}, NonNullable)
	got, ok := s.Field("b")
	if !ok || got.Kind() != KindBool {
		t.Fatalf("Field(b) = %v, %v", got, ok)
	}
	if _, ok := s.Field("c"); ok {
		t.Fatalf("Field(c) unexpectedly found")
	}
}

func TestByteWidth(t *testing.T) {
	widths := map[PType]int{
		U8: 1, I8: 1, U16: 2, I16: 2, F16: 2,
		U32: 4, I32: 4, F32: 4, U64: 8, I64: 8, F64: 8,
	}
	for p, w := range widths {
		if got := p.ByteWidth(); got != w {
			t.Errorf("%s.ByteWidth() = %d, want %d", p, got, w)
		}
	}
}
