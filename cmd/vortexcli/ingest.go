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
	"bufio"
	"io"
	"strconv"

	"github.com/vortex-data/vortex-go/date"
	"github.com/vortex-data/vortex-go/dtype"
	"github.com/vortex-data/vortex-go/encodings/datetimeparts"
	"github.com/vortex-data/vortex-go/encodings/primitive"
	"github.com/vortex-data/vortex-go/encodings/varbin"
	"github.com/vortex-data/vortex-go/vxarray"
)

// ingest reads one value per line from r and builds the matching
// canonical Vortex array. There is no parquet reader anywhere in the
// example pack this repo was built from (see DESIGN.md), so the CLI
// ingests the simplest self-describing columnar text format instead:
// every line parses as an int64 first, then a float64, then an
// RFC3339-ish timestamp (via date.Parse, the teacher's own date
// literal parser), falling back to a raw Utf8 string column only if
// a line fails all three — a single column, sniffed rather than
// declared, same spirit as the file-format collaborators this CLI
// stands in front of.
func ingest(r io.Reader) (vxarray.Array, error) {
	lines, err := readLines(r)
	if err != nil {
		return vxarray.Array{}, err
	}
	if ints, ok := asInts(lines); ok {
		return primitive.FromInt64(dtype.I64, ints), nil
	}
	if floats, ok := asFloats(lines); ok {
		return primitive.FromFloat64(dtype.F64, floats), nil
	}
	if micros, ok := asTimestamps(lines); ok {
		return datetimeparts.New(micros, nil), nil
	}
	return varbin.FromStrings(lines)
}

func asTimestamps(lines []string) ([]int64, bool) {
	if len(lines) == 0 {
		return nil, false
	}
	out := make([]int64, len(lines))
	for i, l := range lines {
		t, ok := date.Parse([]byte(l))
		if !ok {
			return nil, false
		}
		out[i] = t.UnixMicro()
	}
	return out, true
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func asInts(lines []string) ([]int64, bool) {
	out := make([]int64, len(lines))
	for i, l := range lines {
		v, err := strconv.ParseInt(l, 10, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func asFloats(lines []string) ([]float64, bool) {
	out := make([]float64, len(lines))
	for i, l := range lines {
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
