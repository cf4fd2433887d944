package fmindex_test

import (
	"fmt"

	"github.com/grailbio/fmindex"
	"github.com/grailbio/fmindex/dna"
)

func Example() {
	symbols, err := dna.Encode([]byte("ACGTACGT"))
	if err != nil {
		panic(err)
	}
	idx, err := fmindex.NewWithOpts(dna.FromSymbols(symbols), fmindex.Opts{SAIntv: 1, LookupLen: 4})
	if err != nil {
		panic(err)
	}
	seed, err := dna.Encode([]byte("ACGT"))
	if err != nil {
		panic(err)
	}
	beg, end, _ := idx.Range(seed, 0)
	fmt.Printf("ACGT occurs %d times at offsets %v\n", end-beg, idx.Offsets(beg, end))
	// Output:
	// ACGT occurs 2 times at offsets [0 4]
}
