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

// Package alpkernel implements the ALP float factorization search: for
// a chosen pair of decimal exponents (e, f) with 0 <= f <= e <= 18,
// each float is encoded as round(v * 10^e / 10^f), an integer that
// decodes back to the original value whenever the float's decimal
// representation actually has at most e significant digits after the
// point at that scale. The (e, f) pair is picked by a small grid
// search over a sample of the column, exactly as the original ALP
// paper's grid does and as enc-alp's helpers gather exception indices
// for the values the chosen pair can't represent exactly — those
// become patches rather than truncated data.
package alpkernel

import "math"

const maxExponent = 18

// Exponents names the (e, f) pair a grid search settled on.
type Exponents struct {
	E int
	F int
}

var pow10 [maxExponent + 1]float64
var invPow10 [maxExponent + 1]float64

func init() {
	for i := 0; i <= maxExponent; i++ {
		pow10[i] = math.Pow(10, float64(i))
		invPow10[i] = 1 / pow10[i]
	}
}

func encodeOne(v float64, exp Exponents) int64 {
	return int64(math.Round(v * pow10[exp.E] * invPow10[exp.F]))
}

// DecodeOne reconstructs the float a single encoded integer represents
// under exp. It is exact only for integers produced by encodeOne for
// values that didn't become patches.
func DecodeOne(enc int64, exp Exponents) float64 {
	return float64(enc) * pow10[exp.F] * invPow10[exp.E]
}

// Decode reconstructs a slice of floats from their ALP-encoded form.
func Decode(exp Exponents, ints []int64) []float64 {
	out := make([]float64, len(ints))
	for i, v := range ints {
		out[i] = DecodeOne(v, exp)
	}
	return out
}

const sampleSize = 1024

// bestExponents runs the grid search over a (possibly subsampled)
// slice of values, picking the (e, f) pair that exactly round-trips
// the most samples. Ties keep the pair found first: the smallest e,
// and for that e the smallest f.
func bestExponents(sample []float64) Exponents {
	best := Exponents{E: 0, F: 0}
	bestMatches := -1
	for e := 0; e <= maxExponent; e++ {
		for f := 0; f <= e; f++ {
			exp := Exponents{E: e, F: f}
			matches := 0
			for _, v := range sample {
				enc := encodeOne(v, exp)
				if DecodeOne(enc, exp) == v {
					matches++
				}
			}
			if matches > bestMatches {
				bestMatches = matches
				best = exp
			}
		}
	}
	return best
}

func subsample(values []float64) []float64 {
	if len(values) <= sampleSize {
		return values
	}
	stride := len(values) / sampleSize
	out := make([]float64, 0, sampleSize)
	for i := 0; i < len(values); i += stride {
		out = append(out, values[i])
	}
	return out
}

// Encode picks exponents via a grid search over a sample of values,
// then applies them to the full slice. Values that don't round-trip
// exactly under the chosen exponents are reported as patches (their
// index into values); callers are expected to store those original
// values out-of-band, e.g. in a Sparse child, the same as BitPacked's
// exceptions.
func Encode(values []float64) (Exponents, []int64, []int) {
	exp := bestExponents(subsample(values))
	ints := make([]int64, len(values))
	var patches []int
	for i, v := range values {
		enc := encodeOne(v, exp)
		if DecodeOne(enc, exp) != v {
			patches = append(patches, i)
		}
		ints[i] = enc
	}
	return exp, ints, patches
}
