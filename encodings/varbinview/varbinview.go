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

// Package varbinview implements the VarBinView encoding: Arrow's
// German-string layout. Each logical value is a 16-byte view —
// a 4-byte length, then either the value inlined in the remaining 12
// bytes (len <= 12) or a 4-byte prefix plus a (buffer index, offset)
// pair pointing into one of the array's data buffers. Unlike VarBin,
// short values never touch a data buffer at all. This package
// composes alongside encodings/varbin rather than replacing it: VarBin
// remains the canonical Utf8/Binary layout (§3.3), VarBinView is an
// alternative physical encoding built through New/FromStrings; no
// compressor in package compress produces it.
package varbinview

import (
	"encoding/binary"

	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

const (
	viewSize    = 16
	inlineLimit = 12
)

func init() {
	vxarray.Register(encoding{})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.VarBinViewID }
func (encoding) Name() string           { return "varbinview" }

func viewsOf(a vxarray.Array) buffer.Buffer { return a.Buffer(0) }

func (encoding) Validate(a vxarray.Array) error {
	dt := a.DType()
	if dt.Kind() != dtype.KindUtf8 && dt.Kind() != dtype.KindBinary {
		return vxerror.NewInvalidDType("varbinview: dtype must be Utf8 or Binary, got %s", dt)
	}
	if a.NumBuffers() < 1 {
		return vxerror.NewInvalidEncoding("varbinview: missing views buffer")
	}
	if viewsOf(a).Len() != a.Len()*viewSize {
		return vxerror.NewInvalidEncoding("varbinview: views buffer must hold len*%d bytes", viewSize)
	}
	wantChildren := 0
	if dt.Nullable() {
		wantChildren = 1
	}
	if a.NumChildren() != wantChildren {
		return vxerror.NewInvalidEncoding("varbinview: nullability %s requires %d children", dt.Nullability(), wantChildren)
	}
	for i := 0; i < a.Len(); i++ {
		length, inline, bufIdx, off := decodeView(a, i)
		if !inline {
			if bufIdx < 0 || bufIdx+1 >= a.NumBuffers() {
				return vxerror.NewOutOfBounds(bufIdx, 0, a.NumBuffers()-1)
			}
			data := a.Buffer(bufIdx + 1)
			if off < 0 || off+length > data.Len() {
				return vxerror.NewInvalidEncoding("varbinview: view %d out of range of its data buffer", i)
			}
		}
	}
	return nil
}

func validityOf(a vxarray.Array) vxarray.Array { return a.Child(0) }

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.NewBitMask(validityOf(a)), nil
}

func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) { return a, nil }

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	return vxarray.DefaultComputeStatistics(a)
}

func encodeInlineView(v []byte) [viewSize]byte {
	var view [viewSize]byte
	binary.LittleEndian.PutUint32(view[0:4], uint32(len(v)))
	copy(view[4:4+len(v)], v)
	return view
}

func encodeRefView(v []byte, bufIdx, offset int) [viewSize]byte {
	var view [viewSize]byte
	binary.LittleEndian.PutUint32(view[0:4], uint32(len(v)))
	n := len(v)
	if n > 4 {
		n = 4
	}
	copy(view[4:4+n], v[:n])
	binary.LittleEndian.PutUint32(view[8:12], uint32(bufIdx))
	binary.LittleEndian.PutUint32(view[12:16], uint32(offset))
	return view
}

func decodeView(a vxarray.Array, i int) (length int, inline bool, bufIdx, offset int) {
	v := viewsOf(a).Bytes()[i*viewSize : (i+1)*viewSize]
	length = int(binary.LittleEndian.Uint32(v[0:4]))
	if length <= inlineLimit {
		return length, true, 0, 0
	}
	bufIdx = int(binary.LittleEndian.Uint32(v[8:12]))
	offset = int(binary.LittleEndian.Uint32(v[12:16]))
	return length, false, bufIdx, offset
}

func bytesAt(a vxarray.Array, i int) []byte {
	length, inline, bufIdx, offset := decodeView(a, i)
	if inline {
		v := viewsOf(a).Bytes()[i*viewSize : (i+1)*viewSize]
		return v[4 : 4+length]
	}
	return a.Buffer(bufIdx + 1).Bytes()[offset : offset+length]
}

// New builds a non-nullable VarBinView array from raw values, packing
// each one either inline or as a reference into a single shared data
// buffer holding the concatenation of every non-inlined value.
func New(dt dtype.DType, values [][]byte) vxarray.Array {
	views := make([]byte, 0, len(values)*viewSize)
	var data []byte
	for _, v := range values {
		if len(v) <= inlineLimit {
			view := encodeInlineView(v)
			views = append(views, view[:]...)
			continue
		}
		view := encodeRefView(v, 0, len(data))
		data = append(data, v...)
		views = append(views, view[:]...)
	}
	viewsBuf := buffer.FromBytes(views)
	dataBuf := buffer.FromBytes(data)
	return vxarray.MustNewParts(vxarray.VarBinViewID, dt, len(values), nil, nil, []buffer.Buffer{viewsBuf, dataBuf})
}

// FromStrings packs a []string into a non-nullable Utf8 VarBinView array.
func FromStrings(values []string) vxarray.Array {
	raw := make([][]byte, len(values))
	for i, v := range values {
		raw[i] = []byte(v)
	}
	return New(dtype.Utf8(dtype.NonNullable), raw)
}

// ScalarAt implements vxarray.ScalarAtFn.
func (encoding) ScalarAt(a vxarray.Array, i int) (scalar.Scalar, error) {
	b := bytesAt(a, i)
	if a.DType().Kind() == dtype.KindUtf8 {
		return scalar.Utf8(string(b), a.DType().Nullability()), nil
	}
	return scalar.Binary(b, a.DType().Nullability()), nil
}

// SliceArray implements vxarray.SliceFn: the views buffer slices in
// O(1) since every view is fixed-size; data buffers are shared as-is.
func (encoding) SliceArray(a vxarray.Array, start, stop int) (vxarray.Array, error) {
	views := viewsOf(a).Slice(start*viewSize, stop*viewSize)
	buffers := append([]buffer.Buffer{views}, a.Buffers()[1:]...)
	var children []vxarray.Array
	if a.DType().Nullable() {
		v, err := vxarray.Slice(validityOf(a), start, stop)
		if err != nil {
			return vxarray.Array{}, err
		}
		children = []vxarray.Array{v}
	}
	return vxarray.MustNewParts(vxarray.VarBinViewID, a.DType(), stop-start, nil, children, buffers), nil
}

// Take implements vxarray.TakeFn by copying each selected value's
// bytes into a freshly built VarBinView array.
func (encoding) Take(a vxarray.Array, indices vxarray.Array) (vxarray.Array, error) {
	n := indices.Len()
	values := make([][]byte, n)
	for i := 0; i < n; i++ {
		idx, err := vxarray.ScalarAt(indices, i)
		if err != nil {
			return vxarray.Array{}, err
		}
		j := int(idx.AsInt())
		if j < 0 || j >= a.Len() {
			return vxarray.Array{}, vxerror.NewOutOfBounds(j, 0, a.Len())
		}
		values[i] = append([]byte{}, bytesAt(a, j)...)
	}
	return New(a.DType(), values), nil
}
