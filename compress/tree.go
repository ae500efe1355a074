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

import "github.com/vortex-data/vortex-go/vxarray"

// Tree records the encoding chosen at each level of a compressed
// array, recursively down through its children, so it can be reused
// as the next Chunked chunk's `like` hint (§4.6 step 1/2/6).
type Tree struct {
	Encoding vxarray.EncodingID
	Name     string
	Children []*Tree
}

// identityTree reports a Tree for an array left uncompressed (the input
// was returned unchanged, either because no compressor improved on it
// or the ratio threshold rejected the winner).
func identityTree(a vxarray.Array) *Tree {
	return &Tree{Encoding: a.Encoding(), Name: a.EncodingName()}
}

// childAt returns the like-tree to pass down for child index i, or
// nil if t has no matching child (a fresh search, no hint).
func (t *Tree) childAt(i int) *Tree {
	if t == nil || i >= len(t.Children) {
		return nil
	}
	return t.Children[i]
}
