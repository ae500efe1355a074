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

// Objective selects what the sampling compressor optimizes for.
type Objective int

const (
	// Ratio minimizes compressed bytes, the only objective §4.6
	// names.
	Ratio Objective = iota
)

// Options configures one run of the sampling compressor (§4.6).
type Options struct {
	// Enabled restricts which compressors may be considered, at the
	// top level and, since CompressChild passes opts down unchanged,
	// for every child as well. A nil map means every registered
	// compressor is permitted.
	Enabled map[vxarray.EncodingID]bool

	// SampleSize is the element count of one sampled stratum.
	SampleSize int
	// SampleCount is the number of strata drawn.
	SampleCount int
	// MaxDepth bounds how many times a compressor may recurse into
	// its own children via the compressor it was called with.
	MaxDepth int
	// RNGSeed makes stratum selection deterministic.
	RNGSeed int64
	// Objective selects the search criterion; only Ratio exists.
	Objective Objective
	// RatioThreshold gates acceptance of the winning candidate: it
	// is kept only if compressed.NBytes() <= RatioThreshold *
	// input.NBytes() (§4.6 step 7).
	RatioThreshold float64
}

// DefaultOptions returns §4.6's documented defaults.
func DefaultOptions() Options {
	return Options{
		SampleSize:     64,
		SampleCount:    16,
		MaxDepth:       3,
		RNGSeed:        0,
		Objective:      Ratio,
		RatioThreshold: 1.0,
	}
}

func (o Options) permits(id vxarray.EncodingID) bool {
	if o.Enabled == nil {
		return true
	}
	return o.Enabled[id]
}

// withNarrowed returns a copy of o in which every id in disable is
// turned off (starting from all registered compressors when Enabled is
// nil). No compressor in this package calls it: children are
// compressed with the parent's opts unchanged.
func (o Options) withNarrowed(disable ...vxarray.EncodingID) Options {
	next := o
	enabled := map[vxarray.EncodingID]bool{}
	if o.Enabled == nil {
		for _, c := range RegistryOrder() {
			enabled[c.EncodingID()] = true
		}
	} else {
		for id, ok := range o.Enabled {
			enabled[id] = ok
		}
	}
	for _, id := range disable {
		enabled[id] = false
	}
	next.Enabled = enabled
	return next
}
