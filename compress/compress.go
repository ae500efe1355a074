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

// Package compress implements the sampling compressor (§4.6): given a
// canonical array, it searches the registered Compressors for the one
// that shrinks a representative sample the most, applies the winner
// to the full array, and records the choice (recursively, through any
// children) as a Tree that can seed the next Chunked chunk's search.
package compress

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/vortex-data/vortex-go/encodings/chunked"
	"github.com/vortex-data/vortex-go/vxarray"
)

// Compress runs the sampling compressor over a with opts, returning
// the (possibly unchanged) result and the Tree describing the choices
// made.
func Compress(a vxarray.Array, opts Options) (vxarray.Array, *Tree, error) {
	return compressWithLike(a, opts, 0, nil)
}

// CompressLike is Compress but seeded with the previous chunk's
// winning Tree as a hint (§4.6 step 1/2).
func CompressLike(a vxarray.Array, opts Options, like *Tree) (vxarray.Array, *Tree, error) {
	return compressWithLike(a, opts, 0, like)
}

func compressWithLike(a vxarray.Array, opts Options, depth int, like *Tree) (vxarray.Array, *Tree, error) {
	if a.Encoding() == vxarray.ChunkedID {
		return compressChunked(a, opts)
	}
	if depth >= opts.MaxDepth {
		return a, identityTree(a), nil
	}

	if like != nil {
		if c := lookupCompressor(like.Encoding); c != nil && opts.permits(c.EncodingID()) && c.CanCompress(a) {
			if out, tree, err := c.Compress(a, opts, depth); err == nil {
				if acceptable(out, a, opts) {
					return out, tree, nil
				}
			}
		}
	}

	if belowSamplingThreshold(a, opts) {
		return searchAndApply(a, a, opts, depth)
	}

	rng := rand.New(rand.NewSource(opts.RNGSeed + int64(depth)))
	sample, err := buildSample(a, opts, rng)
	if err != nil {
		return a, identityTree(a), nil
	}
	winner := selectWinner(sample, opts, depth)
	if winner == nil {
		return a, identityTree(a), nil
	}
	out, tree, err := winner.Compress(a, opts, depth)
	if err != nil || !acceptable(out, a, opts) {
		return a, identityTree(a), nil
	}
	return out, tree, nil
}

// searchAndApply implements §4.6 step 3: evaluate every permitted
// compressor directly on the full array (no sampling) and keep the
// best.
func searchAndApply(full, evalOn vxarray.Array, opts Options, depth int) (vxarray.Array, *Tree, error) {
	winner := selectWinner(evalOn, opts, depth)
	if winner == nil {
		return full, identityTree(full), nil
	}
	out, tree, err := winner.Compress(full, opts, depth)
	if err != nil || !acceptable(out, full, opts) {
		return full, identityTree(full), nil
	}
	return out, tree, nil
}

type trial struct {
	c     Compressor
	ratio float64
	order int
}

// selectWinner runs every permitted, applicable compressor on sample
// concurrently and returns the one with the lowest compressed/input
// byte ratio, breaking ties by compression cost then registry order
// (§4.6 step 5).
func selectWinner(sample vxarray.Array, opts Options, depth int) Compressor {
	candidates := RegistryOrder()
	trials := make([]*trial, len(candidates))
	var wg sync.WaitGroup
	for i, c := range candidates {
		if !opts.permits(c.EncodingID()) || !c.CanCompress(sample) {
			continue
		}
		wg.Add(1)
		go func(i int, c Compressor) {
			defer wg.Done()
			out, _, err := c.Compress(sample, opts, depth+1)
			if err != nil || sample.NBytes() == 0 {
				return
			}
			trials[i] = &trial{c: c, ratio: float64(out.NBytes()) / float64(sample.NBytes()), order: i}
		}(i, c)
	}
	wg.Wait()

	var live []*trial
	for _, t := range trials {
		if t != nil {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].ratio != live[j].ratio {
			return live[i].ratio < live[j].ratio
		}
		ci, cj := compressionCost(live[i].c), compressionCost(live[j].c)
		if ci != cj {
			return ci < cj
		}
		return live[i].order < live[j].order
	})
	return live[0].c
}

func acceptable(compressed, input vxarray.Array, opts Options) bool {
	threshold := opts.RatioThreshold
	if threshold <= 0 {
		threshold = 1.0
	}
	return float64(compressed.NBytes()) <= threshold*float64(input.NBytes())
}

// compressChunked implements §4.6 step 1: each chunk is compressed
// independently, reusing the previous chunk's winning Tree as `like`
// so a stable column skips the search entirely after its first chunk.
func compressChunked(a vxarray.Array, opts Options) (vxarray.Array, *Tree, error) {
	chunks := a.Children()
	outChunks := make([]vxarray.Array, len(chunks))
	childTrees := make([]*Tree, len(chunks))

	var like *Tree
	for i, chunk := range chunks {
		out, tree, err := compressWithLike(chunk, opts, 0, like)
		if err != nil {
			return vxarray.Array{}, nil, err
		}
		outChunks[i] = out
		childTrees[i] = tree
		like = tree
	}

	dt := a.DType()
	rebuilt := chunked.New(dt, outChunks)
	tree := &Tree{Encoding: vxarray.ChunkedID, Name: "chunked", Children: childTrees}
	return rebuilt, tree, nil
}
