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

package compress

import (
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/boolarr"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/encodings/varbin"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

// gatherScalars materializes every logical value of a (not just a
// sample) as individual scalars, for compressors that build their
// output from scratch rather than reading the source buffer directly.
func gatherScalars(a vxarray.Array) ([]scalar.Scalar, error) {
	out := make([]scalar.Scalar, a.Len())
	for i := range out {
		s, err := vxarray.ScalarAt(a, i)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// canonicalArrayFromScalars rebuilds a fresh canonical, non-nullable
// array of DType dt from already-gathered scalars, the shape Dict and
// RunEnd need for their values child before recursively handing it
// back into the compressor.
func canonicalArrayFromScalars(dt dtype.DType, values []scalar.Scalar) (vxarray.Array, error) {
	switch dt.Kind() {
	case dtype.KindPrimitive:
		p := dt.PType()
		switch {
		case p.IsFloat():
			vals := make([]float64, len(values))
			for i, v := range values {
				vals[i] = v.AsFloat()
			}
			return primitive.FromFloat64(p, vals), nil
		case p.IsSigned():
			vals := make([]int64, len(values))
			for i, v := range values {
				vals[i] = v.AsInt()
			}
			return primitive.FromInt64(p, vals), nil
		default:
			vals := make([]uint64, len(values))
			for i, v := range values {
				vals[i] = v.AsUint()
			}
			return primitive.FromUint64(p, vals), nil
		}
	case dtype.KindBool:
		vals := make([]bool, len(values))
		for i, v := range values {
			vals[i] = v.AsBool()
		}
		return boolarr.FromBools(vals), nil
	case dtype.KindUtf8:
		vals := make([]string, len(values))
		for i, v := range values {
			vals[i] = v.AsString()
		}
		return varbin.FromStrings(vals)
	case dtype.KindBinary:
		vals := make([][]byte, len(values))
		for i, v := range values {
			vals[i] = []byte(v.AsString())
		}
		return varbin.FromBinary(vals), nil
	default:
		return vxarray.Array{}, vxerror.NewNotImplemented("compress: build values child", dt.Kind().String())
	}
}
