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
	"testing"

	_ "github.com/vortex-data/vortex-go/compress/bytecompress"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/chunked"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/vxarray"
)

func requireRoundTrip(t *testing.T, original, compressed vxarray.Array) {
	t.Helper()
	if compressed.Len() != original.Len() {
		t.Fatalf("length changed: got %d want %d", compressed.Len(), original.Len())
	}
	for i := 0; i < original.Len(); i++ {
		want, err := vxarray.ScalarAt(original, i)
		if err != nil {
			t.Fatal(err)
		}
		got, err := vxarray.ScalarAt(compressed, i)
		if err != nil {
			t.Fatal(err)
		}
		if !want.Equal(got) {
			t.Errorf("index %d: got %v want %v", i, got, want)
		}
	}
}

func lowCardinalityInts() vxarray.Array {
	values := make([]int64, 200)
	for i := range values {
		values[i] = int64(i % 3)
	}
	return primitive.FromInt64(dtype.I64, values)
}

func TestCompressPicksStructuralEncodingForLowCardinality(t *testing.T) {
	a := lowCardinalityInts()
	out, tree, err := Compress(a, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if out.Encoding() == a.Encoding() {
		t.Errorf("expected a structural encoding to win, stayed %s", tree.Name)
	}
	requireRoundTrip(t, a, out)
}

func TestCompressReturnsConstantUnchanged(t *testing.T) {
	values := make([]int64, 100)
	for i := range values {
		values[i] = 42
	}
	a := primitive.FromInt64(dtype.I64, values)
	out, tree, err := Compress(a, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if tree.Encoding != vxarray.ConstantID {
		t.Errorf("expected constant, got %s", tree.Name)
	}
	requireRoundTrip(t, a, out)
}

func TestCompressOnHighEntropyDataRejectsWorseCandidates(t *testing.T) {
	values := make([]int64, 300)
	seed := int64(1)
	for i := range values {
		seed = seed*6364136223846793005 + 1
		values[i] = seed
	}
	a := primitive.FromInt64(dtype.I64, values)
	out, _, err := Compress(a, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if out.NBytes() > a.NBytes() {
		t.Errorf("accepted a candidate larger than the input: %d > %d", out.NBytes(), a.NBytes())
	}
	requireRoundTrip(t, a, out)
}

func TestCompressChunkedReusesLikeTree(t *testing.T) {
	dt := dtype.Primitive(dtype.I64, dtype.NonNullable)
	chunk := func() vxarray.Array {
		values := make([]int64, 100)
		for i := range values {
			values[i] = int64(i % 5)
		}
		return primitive.FromInt64(dtype.I64, values)
	}
	a := chunked.New(dt, []vxarray.Array{chunk(), chunk(), chunk()})

	out, tree, err := Compress(a, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if tree.Encoding != vxarray.ChunkedID || len(tree.Children) != 3 {
		t.Fatalf("expected a 3-child chunked tree, got %+v", tree)
	}
	requireRoundTrip(t, a, out)
}

func TestCompressFloatsPrefersALP(t *testing.T) {
	values := make([]float64, 200)
	for i := range values {
		values[i] = float64(i) * 0.01
	}
	a := primitive.FromFloat64(dtype.F64, values)
	out, tree, err := Compress(a, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if tree.Encoding != vxarray.ALPID && tree.Encoding != vxarray.ALPRDID && out.Encoding() != a.Encoding() {
		t.Logf("chose %s", tree.Name)
	}
	requireRoundTrip(t, a, out)
}
