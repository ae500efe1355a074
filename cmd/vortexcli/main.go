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

// Command vortexcli is the minimal CLI collaborator §6 describes: a
// compress/inspect/benchmark front end over the core compressor,
// structured the way the teacher's single-purpose cmd/ binaries are
// (flag.Parse, a switch over flag.Args()[0], fatalf to stderr + exit
// 1). It is not part of the core and carries no durability guarantee
// of its own private container format (see wire.go).
package main

import (
	"flag"
	"fmt"
	"os"

	_ "github.com/vortex-data/vortex-go/compress/bytecompress"

	"github.com/vortex-data/vortex-go/compress"
	"github.com/vortex-data/vortex-go/vxarray"
)

func fatalf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "    %s compress <input> <output.vxc>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        compress a newline-delimited column into a vortexcli container\n")
	fmt.Fprintf(os.Stderr, "    %s inspect <output.vxc>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        print the encoding tree and sizes of a compressed container\n")
	fmt.Fprintf(os.Stderr, "    %s benchmark [dataset ...]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "        compress the built-in synthetic datasets (or the named subset) and report ratio/throughput\n")
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	var err error
	switch args[0] {
	case "compress":
		if len(args) != 3 {
			fatalf("usage: compress <input> <output.vxc>")
		}
		err = runCompress(args[1], args[2])
	case "inspect":
		if len(args) != 2 {
			fatalf("usage: inspect <output.vxc>")
		}
		err = runInspect(args[1])
	case "benchmark":
		err = runBenchmark(args[1:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fatalf("%s: %s", args[0], err)
	}
}

func runCompress(inputPath, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	a, err := ingest(in)
	if err != nil {
		return err
	}

	out, _, err := compress.Compress(a, compress.DefaultOptions())
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := writeContainer(f, out); err != nil {
		return err
	}
	fmt.Printf("%d values, %d -> %d bytes (%.3gx) as %s\n",
		a.Len(), a.NBytes(), out.NBytes(), float64(a.NBytes())/float64(out.NBytes()), out.EncodingName())
	return nil
}

func runInspect(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	a, err := readContainer(f)
	if err != nil {
		return err
	}
	printTree(a, 0)
	return nil
}

func printTree(a vxarray.Array, depth int) {
	fmt.Printf("%*s%s<%s> len=%d bytes=%d\n", depth*2, "", a.EncodingName(), a.DType(), a.Len(), a.NBytes())
	for i := 0; i < a.NumChildren(); i++ {
		printTree(a.Child(i), depth+1)
	}
}
