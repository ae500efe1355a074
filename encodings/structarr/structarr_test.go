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

package structarr

import (
	"testing"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func buildStruct() vxarray.Array {
	dt := dtype.Struct(
		[]string{"id", "active"},
		[]dtype.DType{dtype.Primitive(dtype.I64, dtype.NonNullable), dtype.Bool(dtype.NonNullable)},
		dtype.NonNullable,
	)
	ids := primitive.FromInt64(dtype.I64, []int64{1, 2, 3})
	active := boolarr.FromBools([]bool{true, false, true})
	return New(dt, []vxarray.Array{ids, active})
}

func TestScalarAtGathersFields(t *testing.T) {
	a := buildStruct()
	s, err := vxarray.ScalarAt(a, 1)
	if err != nil {
		t.Fatal(err)
	}
	id := s.Field(0)
	if id.AsInt() != 2 {
		t.Errorf("id: got %d want 2", id.AsInt())
	}
	active := s.Field(1)
	if active.AsBool() != false {
		t.Errorf("active: got %v want false", active.AsBool())
	}
}

func TestSliceAndTake(t *testing.T) {
	a := buildStruct()
	sliced, err := vxarray.Slice(a, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if sliced.Len() != 2 {
		t.Fatalf("len: got %d want 2", sliced.Len())
	}
	idx := primitive.FromInt64(dtype.I64, []int64{2, 0})
	taken, err := vxarray.Take(a, idx)
	if err != nil {
		t.Fatal(err)
	}
	s, err := vxarray.ScalarAt(taken, 0)
	if err != nil {
		t.Fatal(err)
	}
	id := s.Field(0)
	if id.AsInt() != 3 {
		t.Errorf("id: got %d want 3", id.AsInt())
	}
}
