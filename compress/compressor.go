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
	"sync"

	"github.com/vortex-data/vortex-go/vxarray"
)

// Compressor is one candidate in the sampling compressor's search
// (§4.6 step 5). It mirrors vxarray.Encoding's registration pattern:
// concrete compressors register themselves from an init() function.
type Compressor interface {
	// Name identifies the compressor for logging/CLI output.
	Name() string
	// EncodingID is the vxarray encoding this compressor produces.
	EncodingID() vxarray.EncodingID
	// CanCompress reports whether this compressor applies to a's
	// DType and contents at all (the `can_compress(sample) ==
	// Some(_)` test of §4.6 step 5).
	CanCompress(a vxarray.Array) bool
	// Compress builds the compressed array for a. depth is the
	// current recursion depth, already checked against MaxDepth by
	// the caller; implementations that introduce children call back
	// into Compress (or CompressChild, for Array-typed children)
	// with depth+1.
	Compress(a vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error)
}

var (
	regMu      sync.RWMutex
	registered []Compressor
)

// RegisterCompressor installs c in insertion order, the tie-break
// order §4.6 step 5 falls back to when compression_cost() also ties.
func RegisterCompressor(c Compressor) {
	regMu.Lock()
	defer regMu.Unlock()
	registered = append(registered, c)
}

// RegistryOrder returns all registered compressors in registration
// order.
func RegistryOrder() []Compressor {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]Compressor, len(registered))
	copy(out, registered)
	return out
}

func lookupCompressor(id vxarray.EncodingID) Compressor {
	for _, c := range RegistryOrder() {
		if c.EncodingID() == id {
			return c
		}
	}
	return nil
}

// compressionCost reads the optional vxarray.CompressionCoster off
// the encoding a compressor produces, defaulting to 0.
func compressionCost(c Compressor) int {
	if coster, ok := vxarray.Lookup(c.EncodingID()).(vxarray.CompressionCoster); ok {
		return coster.CompressionCost()
	}
	return 0
}

// CompressChild recursively compresses an Array-typed child (the
// pattern Dict, RunEnd, and Sparse's codes/values/indices/patches
// children all share) at depth+1, inheriting opts. It is exported so
// individual compressors in this package and its subpackages can
// share one recursive entry point.
func CompressChild(child vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	if depth >= opts.MaxDepth {
		return child, identityTree(child), nil
	}
	return compressWithLike(child, opts, depth, nil)
}
