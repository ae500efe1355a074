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

// Package canonbuild holds the one scalar-gather-to-canonical-array
// builder every compressed encoding's Take/Canonicalize fallback
// needs (Chunked, Sparse, RunEnd, Dict): given a DType and a slice of
// scalar.Scalar in that DType, build the matching canonical physical
// array. It depends on the canonical leaf packages directly rather
// than using a forward-reference hook, since (unlike
// encodings/primitive <-> encodings/boolarr) nothing downstream of it
// needs to be imported back.
package canonbuild

import (
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/encodings/varbin"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
)

// FromScalars packs values (all sharing dtype dt's kind) into a fresh
// canonical array, building a validity child when any value is null.
func FromScalars(dt dtype.DType, values []scalar.Scalar) vxarray.Array {
	n := len(values)
	nulls := make([]bool, n)
	anyNull := false
	for i, v := range values {
		nulls[i] = v.IsNull()
		anyNull = anyNull || nulls[i]
	}
	validityOf := func() vxarray.Array {
		valid := make([]bool, n)
		for i, isNull := range nulls {
			valid[i] = !isNull
		}
		return boolarr.FromBools(valid)
	}

	switch dt.Kind() {
	case dtype.KindBool:
		bits := make([]bool, n)
		for i, v := range values {
			if !v.IsNull() {
				bits[i] = v.AsBool()
			}
		}
		base := boolarr.FromBools(bits)
		if !anyNull && !dt.Nullable() {
			return base
		}
		return boolarr.NewNullable(n, base.Buffer(0), validityOf())

	case dtype.KindPrimitive:
		p := dt.PType()
		var base vxarray.Array
		switch {
		case p.IsFloat():
			fs := make([]float64, n)
			for i, v := range values {
				if !v.IsNull() {
					fs[i] = v.AsFloat()
				}
			}
			base = primitive.FromFloat64(p, fs)
		case p.IsSigned():
			is := make([]int64, n)
			for i, v := range values {
				if !v.IsNull() {
					is[i] = v.AsInt()
				}
			}
			base = primitive.FromInt64(p, is)
		default:
			us := make([]uint64, n)
			for i, v := range values {
				if !v.IsNull() {
					us[i] = v.AsUint()
				}
			}
			base = primitive.FromUint64(p, us)
		}
		if !anyNull && !dt.Nullable() {
			return base
		}
		return primitive.NewNullable(p, base.Buffer(0), n, validityOf())

	case dtype.KindUtf8:
		strs := make([]string, n)
		for i, v := range values {
			if !v.IsNull() {
				strs[i] = v.AsString()
			}
		}
		base, err := varbin.FromStrings(strs)
		if err != nil {
			panic(err)
		}
		if !anyNull && !dt.Nullable() {
			return base
		}
		offs, bytes := varbinParts(base)
		return varbin.NewNullable(dt, offs, bytes, validityOf())

	case dtype.KindBinary:
		bs := make([][]byte, n)
		for i, v := range values {
			if !v.IsNull() {
				bs[i] = []byte(v.AsString())
			}
		}
		base := varbin.FromBinary(bs)
		if !anyNull && !dt.Nullable() {
			return base
		}
		offs, bytes := varbinParts(base)
		return varbin.NewNullable(dt, offs, bytes, validityOf())

	default:
		panic("canonbuild: unsupported gather dtype " + dt.String())
	}
}

func varbinParts(a vxarray.Array) ([]int32, []byte) {
	off := a.Child(0)
	offs := make([]int32, off.Len())
	for i := range offs {
		offs[i] = int32(primitive.ValueAt(off, i))
	}
	return offs, a.Buffer(0).Bytes()
}
