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

package main

import (
	"fmt"
	"time"

	"github.com/vortex-data/vortex-go/compress"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/datetimeparts"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/encodings/varbin"
	"github.com/vortex-data/vortex-go/vxarray"
)

// dataset generates one synthetic column shaped to favor a specific
// compressor, the same role cmd/iguanabench's single input file plays
// for the teacher's entropy coder benchmark but multiplied across a
// fixed menu since there is no bundled corpus to point a "-t <file>"
// flag at.
type dataset struct {
	name  string
	build func() vxarray.Array
}

var benchDatasets = []dataset{
	{"sequential-i64", func() vxarray.Array {
		values := make([]int64, 200_000)
		for i := range values {
			values[i] = int64(i)
		}
		return primitive.FromInt64(dtype.I64, values)
	}},
	{"low-cardinality-i64", func() vxarray.Array {
		values := make([]int64, 200_000)
		for i := range values {
			values[i] = int64(i % 8)
		}
		return primitive.FromInt64(dtype.I64, values)
	}},
	{"sorted-runs-i64", func() vxarray.Array {
		values := make([]int64, 200_000)
		for i := range values {
			values[i] = int64(i / 500)
		}
		return primitive.FromInt64(dtype.I64, values)
	}},
	{"linear-f64", func() vxarray.Array {
		values := make([]float64, 200_000)
		for i := range values {
			values[i] = float64(i) * 0.125
		}
		return primitive.FromFloat64(dtype.F64, values)
	}},
	{"low-cardinality-strings", func() vxarray.Array {
		words := []string{"GET", "POST", "PUT", "DELETE", "PATCH"}
		values := make([]string, 200_000)
		for i := range values {
			values[i] = words[i%len(words)]
		}
		a, err := varbin.FromStrings(values)
		if err != nil {
			panic(err)
		}
		return a
	}},
	{"clustered-timestamps", func() vxarray.Array {
		// 200,000 microsecond timestamps spread across a handful of
		// distinct dates, the shape DateTimeParts's days/time-of-day
		// split is meant to compress well (see encodings/datetimeparts).
		const day = 86400 * int64(1e6)
		base := int64(1700000000) * int64(1e6)
		micros := make([]int64, 200_000)
		for i := range micros {
			micros[i] = base + day*int64(i%10) + int64(i%3600)*int64(1e6)
		}
		return datetimeparts.New(micros, nil)
	}},
	{"high-entropy-i64", func() vxarray.Array {
		values := make([]int64, 200_000)
		seed := int64(1)
		for i := range values {
			seed = seed*6364136223846793005 + 1
			values[i] = seed
		}
		return primitive.FromInt64(dtype.I64, values)
	}},
}

// runBenchmark compresses every entry in benchDatasets and reports its
// ratio and throughput, mirroring the timing/ratio report line
// cmd/iguanabench prints for its single entropy-coding benchmark.
func runBenchmark(names []string) error {
	selected := benchDatasets
	if len(names) > 0 {
		selected = nil
		for _, n := range names {
			ds, ok := findDataset(n)
			if !ok {
				return fmt.Errorf("unknown dataset %q", n)
			}
			selected = append(selected, ds)
		}
	}
	opts := compress.DefaultOptions()
	for _, ds := range selected {
		a := ds.build()
		start := time.Now()
		out, tree, err := compress.Compress(a, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", ds.name, err)
		}
		elapsed := time.Since(start)
		ratio := float64(a.NBytes()) / float64(out.NBytes())
		mbps := (float64(a.NBytes()) / elapsed.Seconds()) / (1024 * 1024)
		fmt.Printf("%-24s %10d -> %10d bytes (%.3gx) as %-10s %8.2f MB/s\n",
			ds.name, a.NBytes(), out.NBytes(), ratio, tree.Name, mbps)
	}
	return nil
}

func findDataset(name string) (dataset, bool) {
	for _, ds := range benchDatasets {
		if ds.name == name {
			return ds, true
		}
	}
	return dataset{}, false
}
