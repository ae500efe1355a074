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

package main

import (
	"encoding/binary"
	"io"

	"github.com/vortex-data/vortex-go/buffer"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/vxarray"
	"github.com/vortex-data/vortex-go/vxerror"
)

// This file implements a small self-describing binary container
// private to vortexcli, just enough to round-trip a compressed Array
// through a file between "compress" and "inspect" invocations. It is
// deliberately not the wire format §6 describes for the IPC/file-
// format layer (that collaborator is out of scope for this CLI, and
// nothing else in this repo reads or writes it) — the magic bytes
// below identify it as such rather than pretend otherwise.
var magic = [4]byte{'V', 'X', 'C', 'L'}

const wireVersion = 1

func writeContainer(w io.Writer, a vxarray.Array) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if err := writeU8(w, wireVersion); err != nil {
		return err
	}
	return writeArray(w, a)
}

func readContainer(r io.Reader) (vxarray.Array, error) {
	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return vxarray.Array{}, err
	}
	if got != magic {
		return vxarray.Array{}, vxerror.NewIOError("vortexcli: not a vortexcli container (bad magic)")
	}
	version, err := readU8(r)
	if err != nil {
		return vxarray.Array{}, err
	}
	if version != wireVersion {
		return vxarray.Array{}, vxerror.NewIOError("vortexcli: unsupported container version %d", version)
	}
	return readArray(r)
}

func writeArray(w io.Writer, a vxarray.Array) error {
	id, dt, length, metadata, children, buffers := a.IntoParts()
	if err := writeU16(w, uint16(id)); err != nil {
		return err
	}
	if err := writeDType(w, dt); err != nil {
		return err
	}
	if err := writeU32(w, uint32(length)); err != nil {
		return err
	}
	if err := writeBytes(w, metadata); err != nil {
		return err
	}
	if err := writeU8(w, uint8(len(buffers))); err != nil {
		return err
	}
	for _, b := range buffers {
		if err := writeBytes(w, b.Bytes()); err != nil {
			return err
		}
	}
	if err := writeU8(w, uint8(len(children))); err != nil {
		return err
	}
	for _, c := range children {
		if err := writeArray(w, c); err != nil {
			return err
		}
	}
	return nil
}

func readArray(r io.Reader) (vxarray.Array, error) {
	id, err := readU16(r)
	if err != nil {
		return vxarray.Array{}, err
	}
	dt, err := readDType(r)
	if err != nil {
		return vxarray.Array{}, err
	}
	length, err := readU32(r)
	if err != nil {
		return vxarray.Array{}, err
	}
	metadata, err := readBytes(r)
	if err != nil {
		return vxarray.Array{}, err
	}
	nbuf, err := readU8(r)
	if err != nil {
		return vxarray.Array{}, err
	}
	buffers := make([]buffer.Buffer, nbuf)
	for i := range buffers {
		raw, err := readBytes(r)
		if err != nil {
			return vxarray.Array{}, err
		}
		buffers[i] = buffer.FromBytes(raw)
	}
	nchild, err := readU8(r)
	if err != nil {
		return vxarray.Array{}, err
	}
	children := make([]vxarray.Array, nchild)
	for i := range children {
		c, err := readArray(r)
		if err != nil {
			return vxarray.Array{}, err
		}
		children[i] = c
	}
	return vxarray.TryNewParts(vxarray.EncodingID(id), dt, int(length), metadata, children, buffers)
}

// DType kind tags for the wire format. Distinct from dtype.Kind's own
// byte values so the container format doesn't silently break if the
// in-memory enum is ever reordered.
const (
	wireKindNull byte = iota
	wireKindBool
	wireKindPrimitive
	wireKindUtf8
	wireKindBinary
	wireKindStruct
	wireKindExtension
)

func writeDType(w io.Writer, dt dtype.DType) error {
	switch dt.Kind() {
	case dtype.KindNull:
		return writeU8(w, wireKindNull)
	case dtype.KindBool:
		if err := writeU8(w, wireKindBool); err != nil {
			return err
		}
		return writeNullability(w, dt)
	case dtype.KindPrimitive:
		if err := writeU8(w, wireKindPrimitive); err != nil {
			return err
		}
		if err := writeNullability(w, dt); err != nil {
			return err
		}
		return writeU8(w, uint8(dt.PType()))
	case dtype.KindUtf8:
		if err := writeU8(w, wireKindUtf8); err != nil {
			return err
		}
		return writeNullability(w, dt)
	case dtype.KindBinary:
		if err := writeU8(w, wireKindBinary); err != nil {
			return err
		}
		return writeNullability(w, dt)
	case dtype.KindStruct:
		if err := writeU8(w, wireKindStruct); err != nil {
			return err
		}
		if err := writeNullability(w, dt); err != nil {
			return err
		}
		names, types := dt.FieldNames(), dt.FieldTypes()
		if err := writeU8(w, uint8(len(names))); err != nil {
			return err
		}
		for i, name := range names {
			if err := writeBytes(w, []byte(name)); err != nil {
				return err
			}
			if err := writeDType(w, types[i]); err != nil {
				return err
			}
		}
		return nil
	case dtype.KindExtension:
		if err := writeU8(w, wireKindExtension); err != nil {
			return err
		}
		if err := writeNullability(w, dt); err != nil {
			return err
		}
		if err := writeBytes(w, []byte(dt.ExtensionID())); err != nil {
			return err
		}
		if err := writeDType(w, dt.StorageDType()); err != nil {
			return err
		}
		return writeBytes(w, dt.ExtensionMetadata())
	default:
		return vxerror.NewNotImplemented("vortexcli: serialize dtype", dt.Kind().String())
	}
}

func writeNullability(w io.Writer, dt dtype.DType) error {
	if dt.Nullable() {
		return writeU8(w, 1)
	}
	return writeU8(w, 0)
}

func readDType(r io.Reader) (dtype.DType, error) {
	kind, err := readU8(r)
	if err != nil {
		return dtype.DType{}, err
	}
	switch kind {
	case wireKindNull:
		return dtype.Null, nil
	case wireKindBool:
		n, err := readNullability(r)
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.Bool(n), nil
	case wireKindPrimitive:
		n, err := readNullability(r)
		if err != nil {
			return dtype.DType{}, err
		}
		p, err := readU8(r)
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.Primitive(dtype.PType(p), n), nil
	case wireKindUtf8:
		n, err := readNullability(r)
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.Utf8(n), nil
	case wireKindBinary:
		n, err := readNullability(r)
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.Binary(n), nil
	case wireKindStruct:
		n, err := readNullability(r)
		if err != nil {
			return dtype.DType{}, err
		}
		nf, err := readU8(r)
		if err != nil {
			return dtype.DType{}, err
		}
		names := make([]string, nf)
		types := make([]dtype.DType, nf)
		for i := range names {
			nameBytes, err := readBytes(r)
			if err != nil {
				return dtype.DType{}, err
			}
			names[i] = string(nameBytes)
			types[i], err = readDType(r)
			if err != nil {
				return dtype.DType{}, err
			}
		}
		return dtype.Struct(names, types, n), nil
	case wireKindExtension:
		n, err := readNullability(r)
		if err != nil {
			return dtype.DType{}, err
		}
		idBytes, err := readBytes(r)
		if err != nil {
			return dtype.DType{}, err
		}
		storage, err := readDType(r)
		if err != nil {
			return dtype.DType{}, err
		}
		metadata, err := readBytes(r)
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.Extension(string(idBytes), storage, metadata, n), nil
	default:
		return dtype.DType{}, vxerror.NewIOError("vortexcli: unknown dtype tag %d", kind)
	}
}

func readNullability(r io.Reader) (dtype.Nullability, error) {
	v, err := readU8(r)
	if err != nil {
		return dtype.NonNullable, err
	}
	if v != 0 {
		return dtype.Nullable, nil
	}
	return dtype.NonNullable, nil
}

func writeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func readU8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func writeU16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readU16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func writeU32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeBytes(w io.Writer, b []byte) error {
	if err := writeU32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
