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

// Package blob implements the sampling compressor's byte-oriented
// fallback encoding: a canonical Primitive or Bool array's single
// values buffer compressed whole with a registered compr.Compressor
// (zstd or s2), with any validity child carried through uncompressed.
// It never implements ScalarAt/Slice/Take itself; the default compute
// dispatch canonicalizes it back to the original encoding on first
// access (§4.7), trading repeated whole-buffer decompression for a
// much smaller on-disk/in-memory footprint.
package blob

import (
	"encoding/binary"

	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/compr"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

func init() {
	vxarray.Register(encoding{})
}

type encoding struct{}

func (encoding) ID() vxarray.EncodingID { return vxarray.BlobID }
func (encoding) Name() string           { return "blob" }

// metadata layout: [nameLen u8][name][rawLen u32 LE]
func encodeMetadata(name string, rawLen int) []byte {
	md := make([]byte, 1+len(name)+4)
	md[0] = byte(len(name))
	copy(md[1:], name)
	binary.LittleEndian.PutUint32(md[1+len(name):], uint32(rawLen))
	return md
}

func decodeMetadata(md []byte) (name string, rawLen int, ok bool) {
	if len(md) < 1 {
		return "", 0, false
	}
	n := int(md[0])
	if len(md) < 1+n+4 {
		return "", 0, false
	}
	name = string(md[1 : 1+n])
	rawLen = int(binary.LittleEndian.Uint32(md[1+n : 1+n+4]))
	return name, rawLen, true
}

func (encoding) Validate(a vxarray.Array) error {
	if _, _, ok := decodeMetadata(a.Metadata()); !ok {
		return vxerror.NewInvalidEncoding("blob: malformed metadata")
	}
	if a.NumBuffers() != 1 {
		return vxerror.NewInvalidEncoding("blob: expected exactly one compressed buffer")
	}
	if a.NumChildren() > 1 {
		return vxerror.NewInvalidEncoding("blob: at most one validity child is allowed")
	}
	if _, ok := vxarray.CanonicalEncodingFor(a.DType().Kind()); !ok {
		return vxerror.NewInvalidDType("blob: no canonical encoding registered for %s", a.DType())
	}
	return nil
}

// New compresses a canonical Primitive or Bool array's values buffer
// with the named compr.Compressor ("zstd", "zstd-better", or "s2"),
// carrying any validity child through unchanged.
func New(canon vxarray.Array, compressorName string) (vxarray.Array, error) {
	if canon.NumBuffers() != 1 {
		return vxarray.Array{}, vxerror.NewInvalidArgument("blob: source array must carry exactly one buffer")
	}
	if canon.NumChildren() > 1 {
		return vxarray.Array{}, vxerror.NewInvalidArgument("blob: source array must carry at most one (validity) child")
	}
	c := compr.Compression(compressorName)
	if c == nil {
		return vxarray.Array{}, vxerror.NewInvalidArgument("blob: unknown compressor %q", compressorName)
	}
	raw := canon.Buffer(0).Bytes()
	compressed := c.Compress(raw, nil)
	md := encodeMetadata(c.Name(), len(raw))
	return vxarray.MustNewParts(vxarray.BlobID, canon.DType(), canon.Len(), md, canon.Children(), []buffer.Buffer{buffer.FromBytes(compressed)}), nil
}

func (encoding) Validity(a vxarray.Array) (vxarray.Validity, error) {
	if !a.DType().Nullable() {
		return vxarray.NonNullable(a.Len()), nil
	}
	return vxarray.NewBitMask(a.Child(0)), nil
}

// Canonicalize decompresses the buffer and reconstructs the original
// canonical array for a's DType.
func (encoding) Canonicalize(a vxarray.Array) (vxarray.Array, error) {
	name, rawLen, ok := decodeMetadata(a.Metadata())
	if !ok {
		return vxarray.Array{}, vxerror.NewInvalidEncoding("blob: malformed metadata")
	}
	d := compr.Decompression(name)
	if d == nil {
		return vxarray.Array{}, vxerror.NewInvalidEncoding("blob: unknown compressor %q", name)
	}
	dst := make([]byte, rawLen)
	if err := d.Decompress(a.Buffer(0).Bytes(), dst); err != nil {
		return vxarray.Array{}, vxerror.NewIOError("blob: decompress: %v", err)
	}
	origID, _ := vxarray.CanonicalEncodingFor(a.DType().Kind())
	return vxarray.TryNewParts(origID, a.DType(), a.Len(), nil, a.Children(), []buffer.Buffer{buffer.FromBytes(dst)})
}

func (encoding) ComputeStatistics(a vxarray.Array, kind vxarray.StatKind) (map[vxarray.StatKind]scalar.Scalar, error) {
	canon, err := (encoding{}).Canonicalize(a)
	if err != nil {
		return nil, err
	}
	return vxarray.Lookup(canon.Encoding()).ComputeStatistics(canon, kind)
}

// CompressionCost implements vxarray.CompressionCoster: decompression
// is a full buffer scan, more expensive than a structural encoding's
// O(1) random access, so it only wins ties against other full scans.
func (encoding) CompressionCost() int { return 2 }
