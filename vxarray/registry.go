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

package vxarray

import (
	"sort"
	"sync"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/scalar"
	"github.com/vortex-data/vortex-go/vxerror"
)

// EncodingID is the stable 16-bit identifier used on the wire and as
// the registry's table position, per §4.1.
type EncodingID uint16

// OpaqueID is the sentinel encoding id assigned to any id the local
// registry does not recognize. It supports only introspection.
const OpaqueID EncodingID = 0xFFFF

// Encoding is the single virtual table every physical layout
// registers. It replaces a deep trait hierarchy with flat, looked-up
// behavior keyed by EncodingID (§9): with_dyn becomes "look up the
// Encoding for a.encodingID and type-assert to the narrower op
// interface you need".
type Encoding interface {
	ID() EncodingID
	Name() string

	// Validate checks the array's metadata/children/buffers schema
	// invariants (§3.4). Called on construction.
	Validate(a Array) error

	// Validity computes the logical null mask for a, from whatever
	// private schema this encoding uses to represent it.
	Validity(a Array) (Validity, error)

	// Canonicalize produces the canonical encoding for a's DType,
	// the universal bridge to Arrow and fallback compute target (§3.5).
	Canonicalize(a Array) (Array, error)

	// ComputeStatistics answers requests for one stat kind, but is
	// free to (and encouraged to) populate others it derives for
	// free in the same pass (§3.6, §9).
	ComputeStatistics(a Array, kind StatKind) (map[StatKind]scalar.Scalar, error)
}

// CompressionCoster is an optional capability: encodings with a
// non-default cost used to break search ties (§4.6 step 5).
type CompressionCoster interface {
	CompressionCost() int
}

// ScalarAtFn is an optional per-encoding implementation of scalar_at (§4.7.1).
type ScalarAtFn interface {
	ScalarAt(a Array, i int) (scalar.Scalar, error)
}

// SliceFn is an optional per-encoding implementation of slice (§4.7.2).
type SliceFn interface {
	SliceArray(a Array, start, stop int) (Array, error)
}

// TakeFn is an optional per-encoding implementation of take (§4.7.3).
type TakeFn interface {
	Take(a Array, indices Array) (Array, error)
}

// FilterFn is an optional per-encoding implementation of filter.
type FilterFn interface {
	Filter(a Array, mask Array) (Array, error)
}

// CompareOp enumerates comparison operators (§4.7.5).
type CompareOp int

const (
	Eq CompareOp = iota
	NotEq
	Lt
	Gt
	LtEq
	GtEq
	And
	Or
)

// CompareFn is an optional per-encoding implementation of compare.
type CompareFn interface {
	Compare(a, b Array, op CompareOp) (Array, error)
}

// SearchSide enumerates search_sorted sides (§4.7.6).
type SearchSide int

const (
	Left SearchSide = iota
	Right
	Exact
)

// SearchSortedFn is an optional per-encoding implementation of search_sorted.
type SearchSortedFn interface {
	SearchSorted(a Array, v scalar.Scalar, side SearchSide) (int, bool, error)
}

// CastFn is an optional per-encoding implementation of cast (§4.7.7).
type CastFn interface {
	Cast(a Array, to dtype.DType) (Array, error)
}

// FillForwardFn is an optional per-encoding implementation of fill_forward (§4.7.8).
type FillForwardFn interface {
	FillForward(a Array) (Array, error)
}

// SubtractScalarFn is an optional per-encoding implementation of scalar-subtract.
type SubtractScalarFn interface {
	SubtractScalar(a Array, v scalar.Scalar) (Array, error)
}

// PatchFn is an optional capability for encodings (BitPacked, ALP,
// ALP-RD) that store out-of-band exception values in a Sparse child
// and need to apply a fresh set of patches, e.g. after recompressing.
type PatchFn interface {
	Patch(a Array, patches Array) (Array, error)
}

var (
	regMu      sync.RWMutex
	byID       = map[EncodingID]Encoding{}
	registered []Encoding // insertion order, used for tie-breaking (§4.6 step 5)
)

// Register installs enc into the global registry at program start.
// It panics on a duplicate id, matching the teacher's pattern of
// fail-fast package-level registration (e.g. ion's system symbol
// table is fixed at init time).
func Register(enc Encoding) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := byID[enc.ID()]; exists {
		panic("vxarray: duplicate encoding id " + enc.Name())
	}
	byID[enc.ID()] = enc
	registered = append(registered, enc)
}

// Lookup resolves an EncodingID to its Encoding, or the Opaque
// encoding if id is unknown (§4.1, §7).
func Lookup(id EncodingID) Encoding {
	regMu.RLock()
	defer regMu.RUnlock()
	if enc, ok := byID[id]; ok {
		return enc
	}
	return opaqueEncoding{}
}

// RegistryOrder returns all registered encodings in registration
// order, the tie-break order used by the sampling compressor.
func RegistryOrder() []Encoding {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]Encoding, len(registered))
	copy(out, registered)
	return out
}

var (
	canonicalMu sync.RWMutex
	canonicalByKind = map[dtype.Kind]EncodingID{}
)

// RegisterCanonical records which EncodingID is the canonical physical
// layout for DType kind k (§3.5). Canonical encoding packages call
// this from their init() alongside Register.
func RegisterCanonical(k dtype.Kind, id EncodingID) {
	canonicalMu.Lock()
	defer canonicalMu.Unlock()
	canonicalByKind[k] = id
}

// CanonicalEncodingFor returns the EncodingID of the canonical
// physical layout for the given DType kind.
func CanonicalEncodingFor(k dtype.Kind) (EncodingID, bool) {
	canonicalMu.RLock()
	defer canonicalMu.RUnlock()
	id, ok := canonicalByKind[k]
	return id, ok
}

// ViewContext is the {encoding_id}[] -> registry-index indirection
// an IPC writer needs to make a stream self-describing (§6, SPEC_FULL
// §3): a pure function of the currently registered encodings.
func ViewContext() []EncodingID {
	regMu.RLock()
	defer regMu.RUnlock()
	ids := make([]EncodingID, 0, len(registered))
	for _, e := range registered {
		ids = append(ids, e.ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// opaqueEncoding backs unrecognized ids (§7): it supports
// introspection (children/buffers/len/dtype, all on the Array value
// itself) but no compute and no canonicalization.
type opaqueEncoding struct{}

func (opaqueEncoding) ID() EncodingID   { return OpaqueID }
func (opaqueEncoding) Name() string     { return "opaque" }
func (opaqueEncoding) Validate(Array) error { return nil }

func (opaqueEncoding) Validity(a Array) (Validity, error) {
	return AllValid(a.Len()), nil
}

func (opaqueEncoding) Canonicalize(Array) (Array, error) {
	return Array{}, vxerror.NewNotImplemented("canonicalize", "opaque")
}

func (opaqueEncoding) ComputeStatistics(Array, StatKind) (map[StatKind]scalar.Scalar, error) {
	return nil, nil
}
