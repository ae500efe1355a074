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

// Package bytecompress registers the sampling compressor's
// last-resort fallback candidates: zstd and s2, reached through
// encodings/blob, for canonical Primitive/Bool columns that no
// structural compressor improved on. Adapted from compr/compression.go,
// the teacher's own zstd/s2 wrapper.
package bytecompress

import (
	"github.com/vortex-data/vortex-go/compress"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/blob"
	"github.com/vortex-data/vortex-go/vxarray"
)

func init() {
	compress.RegisterCompressor(byteCompressor{name: "zstd"})
	compress.RegisterCompressor(byteCompressor{name: "s2"})
}

type byteCompressor struct {
	name string
}

func (b byteCompressor) Name() string                  { return b.name }
func (byteCompressor) EncodingID() vxarray.EncodingID { return vxarray.BlobID }

func (byteCompressor) CanCompress(a vxarray.Array) bool {
	k := a.DType().Kind()
	if k != dtype.KindPrimitive && k != dtype.KindBool {
		return false
	}
	canon, err := a.IntoCanonical()
	if err != nil {
		return false
	}
	return canon.NumBuffers() == 1 && canon.NumChildren() <= 1
}

func (b byteCompressor) Compress(a vxarray.Array, opts compress.Options, depth int) (vxarray.Array, *compress.Tree, error) {
	canon, err := a.IntoCanonical()
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	out, err := blob.New(canon, b.name)
	if err != nil {
		return vxarray.Array{}, nil, err
	}
	return out, &compress.Tree{Encoding: vxarray.BlobID, Name: b.name}, nil
}
