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
	"sync"

	"github.com/vortex-data/vortex-go/scalar"
)

// StatKind enumerates the statistic kinds an encoding may answer (§3.6).
type StatKind int

const (
	StatMin StatKind = iota
	StatMax
	StatIsConstant
	StatIsSorted
	StatIsStrictSorted
	StatRunCount
	StatTrueCount
	StatNullCount
	StatBitWidthFreq
	StatTrailingZeroFreq
)

// statCache is the per-array lazy {stat_kind -> scalar} map guarded by
// a single writer lock (§3.6, §9): reads take the read lock to check
// the cache, and only take the write lock to merge in a freshly
// computed set. Entries are never invalidated; arrays are immutable.
type statCache struct {
	mu      sync.RWMutex
	entries map[StatKind]scalar.Scalar
}

func newStatCache() *statCache {
	return &statCache{entries: make(map[StatKind]scalar.Scalar)}
}

// Statistics is the handle returned by Array.Statistics(); Get
// triggers the cache-miss path described in §3.6.
type Statistics struct {
	arr Array
}

func (s *Statistics) cache() *statCache {
	if s.arr.stats == nil {
		// Arrays constructed without TryNewParts (zero value, tests)
		// get a throwaway cache rather than a nil-pointer panic.
		return newStatCache()
	}
	return s.arr.stats
}

// Get returns the value for kind, computing and caching it (and
// whatever else the encoding computes for free alongside it) on a
// cache miss.
func (s *Statistics) Get(kind StatKind) (scalar.Scalar, error) {
	c := s.cache()
	c.mu.RLock()
	if v, ok := c.entries[kind]; ok {
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	computed, err := Lookup(s.arr.encodingID).ComputeStatistics(s.arr, kind)
	if err != nil {
		return scalar.Scalar{}, err
	}
	c.mu.Lock()
	for k, v := range computed {
		if _, exists := c.entries[k]; !exists {
			c.entries[k] = v
		}
	}
	v, ok := c.entries[kind]
	c.mu.Unlock()
	if !ok {
		return scalar.Null(s.arr.DType()), nil
	}
	return v, nil
}

// ComputeMany asks for several stat kinds in one call so an
// encoding's ComputeStatistics only runs once per distinct pass
// (SPEC_FULL §3, grounded on enc/src/array/stats.rs's bulk accessor).
func (s *Statistics) ComputeMany(kinds ...StatKind) (map[StatKind]scalar.Scalar, error) {
	out := make(map[StatKind]scalar.Scalar, len(kinds))
	for _, k := range kinds {
		v, err := s.Get(k)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// Cached reports whether kind is already cached, without computing it.
func (s *Statistics) Cached(kind StatKind) (scalar.Scalar, bool) {
	c := s.cache()
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[kind]
	return v, ok
}
