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

package scalar

import (
	"math"
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
)

func TestFloatEqualNaN(t *testing.T) {
	a := Float(dtype.F64, math.NaN(), dtype.Nullable)
	b := Float(dtype.F64, math.NaN(), dtype.Nullable)
	if !a.Equal(b) {
		t.Fatal("expected NaN == NaN for scalar equality")
	}
}

func TestNullEqual(t *testing.T) {
	a := Null(dtype.Primitive(dtype.I32, dtype.Nullable))
	b := Null(dtype.Primitive(dtype.I32, dtype.Nullable))
	if !a.Equal(b) || !a.IsNull() {
		t.Fatal("expected two nulls of the same dtype to be equal")
	}
}

func TestCompareInt(t *testing.T) {
	a := Int(dtype.I32, -5, dtype.NonNullable)
	b := Int(dtype.I32, 3, dtype.NonNullable)
	if a.Compare(b) >= 0 {
		t.Fatalf("expected -5 < 3")
	}
	if b.Compare(a) <= 0 {
		t.Fatalf("expected 3 > -5")
	}
	if a.Compare(a) != 0 {
		t.Fatalf("expected equal compare to be 0")
	}
}

func TestCompareUnsignedVsSigned(t *testing.T) {
	// unsigned comparisons must not be reinterpreted as signed
	a := Uint(dtype.U64, math.MaxUint64, dtype.NonNullable)
	b := Uint(dtype.U64, 1, dtype.NonNullable)
	if a.Compare(b) <= 0 {
		t.Fatalf("expected MaxUint64 > 1 under unsigned compare")
	}
}

func TestStructFieldRoundtrip(t *testing.T) {
	dt := dtype.Struct([]string{"a", "b"}, []dtype.DType{
		dtype.Primitive(dtype.I32, dtype.NonNullable),
		dtype.Utf8(dtype.Nullable),
	}, dtype.NonNullable)
	s := Struct(dt, []Scalar{
		Int(dtype.I32, 7, dtype.NonNullable),
		Utf8("hi", dtype.Nullable),
	})
	if s.Field(0).AsInt() != 7 || s.Field(1).AsString() != "hi" {
		t.Fatalf("unexpected struct fields: %v", s)
	}
}
