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

package vxarray_test

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func TestIntoPartsRoundTrip(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 2, 3})
	id, dt, length, metadata, children, buffers := a.IntoParts()
	rebuilt, err := vxarray.TryNewParts(id, dt, length, metadata, children, buffers)
	if err != nil {
		t.Fatal(err)
	}
	if rebuilt.Len() != a.Len() || rebuilt.Encoding() != a.Encoding() {
		t.Fatalf("round trip mismatch: got len=%d enc=%d want len=%d enc=%d",
			rebuilt.Len(), rebuilt.Encoding(), a.Len(), a.Encoding())
	}
	s, err := vxarray.ScalarAt(rebuilt, 1)
	if err != nil {
		t.Fatal(err)
	}
	if s.AsInt() != 2 {
		t.Errorf("got %d want 2", s.AsInt())
	}
}

func TestMustNewPartsPanicsOnMissingBuffer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a missing values buffer")
		}
	}()
	_ = vxarray.MustNewParts(vxarray.PrimitiveID, dtype.Primitive(dtype.I64, dtype.NonNullable), 3, nil, nil, nil)
}

func TestNBytesSumsBuffersRecursively(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 2, 3, 4})
	if a.NBytes() <= 0 {
		t.Fatalf("expected positive byte size, got %d", a.NBytes())
	}
}

func TestIntoCanonicalIsIdempotentForCanonicalArray(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{5, 6, 7})
	canon, err := a.IntoCanonical()
	if err != nil {
		t.Fatal(err)
	}
	if canon.Encoding() != a.Encoding() || canon.Len() != a.Len() {
		t.Fatalf("canonicalizing a canonical array changed it: got enc=%d len=%d", canon.Encoding(), canon.Len())
	}
}

func TestValidityNonNullablePrimitive(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1, 2, 3})
	v, err := a.Validity()
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != vxarray.NonNullableValidity {
		t.Fatalf("expected NonNullableValidity, got %v", v.Kind())
	}
	for i := 0; i < a.Len(); i++ {
		if !v.IsValid(i) {
			t.Errorf("index %d: expected valid", i)
		}
	}
}

func TestWithDynInvokesEncoding(t *testing.T) {
	a := primitive.FromInt64(dtype.I64, []int64{1})
	var name string
	err := a.WithDyn(func(enc vxarray.Encoding) error {
		name = enc.Name()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if name != a.EncodingName() {
		t.Errorf("got %q want %q", name, a.EncodingName())
	}
}
