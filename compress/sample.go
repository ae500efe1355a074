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
	"math/rand"

	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

// belowSamplingThreshold reports whether a is too small to sample
// from, per §4.6 step 3.
func belowSamplingThreshold(a vxarray.Array, opts Options) bool {
	return opts.SampleSize <= 0 || opts.SampleCount <= 0 || a.Len() < opts.SampleSize*opts.SampleCount
}

// buildSample draws opts.SampleCount strata of opts.SampleSize
// elements each, with block starts picked uniformly without
// replacement from [0, len-sample_size], concatenates them into one
// array and canonicalizes it (§4.6 step 4).
func buildSample(a vxarray.Array, opts Options, rng *rand.Rand) (vxarray.Array, error) {
	maxStart := a.Len() - opts.SampleSize
	starts := rng.Perm(maxStart + 1)[:opts.SampleCount]

	idx := make([]int64, 0, opts.SampleSize*opts.SampleCount)
	for _, s := range starts {
		for i := 0; i < opts.SampleSize; i++ {
			idx = append(idx, int64(s+i))
		}
	}
	gathered, err := vxarray.Take(a, primitive.FromInt64(dtype.I64, idx))
	if err != nil {
		return vxarray.Array{}, err
	}
	return gathered.IntoCanonical()
}
