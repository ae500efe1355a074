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

// Package fsstkernel wraps github.com/axiomhq/fsst's symbol-table
// string compression for encodings/fsst: Train builds a per-column
// symbol table from a sample of values, Table.Encode/Decode apply it
// to individual strings, and Table's MarshalBinary/UnmarshalBinary
// round trip let the table itself travel alongside the encoded data
// inside an array's metadata.
package fsstkernel

import "github.com/axiomhq/fsst"

// Table is a trained FSST symbol table.
type Table struct {
	inner *fsst.Table
}

// Train builds a symbol table from a sample of byte strings.
func Train(samples [][]byte) *Table {
	return &Table{inner: fsst.Train(samples)}
}

// LoadTable reconstructs a previously trained Table from the bytes
// produced by Table.MarshalBinary.
func LoadTable(data []byte) (*Table, error) {
	inner := &fsst.Table{}
	if err := inner.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &Table{inner: inner}, nil
}

// Encode compresses a single value against the trained table.
func (t *Table) Encode(value []byte) []byte {
	return t.inner.EncodeAll(value)
}

// Decode reverses Encode.
func (t *Table) Decode(compressed []byte) []byte {
	return t.inner.DecodeAll(compressed)
}

// MarshalBinary serializes the symbol table so it can be stored
// alongside the encoded column.
func (t *Table) MarshalBinary() ([]byte, error) {
	return t.inner.MarshalBinary()
}
