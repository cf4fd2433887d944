// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fmindex

import (
	"math"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/fmindex/dna"
)

const (
	// occIntv is the inner occurrence-sampling period: an exact count is
	// kept for every occIntv BWT rows.
	occIntv = 16
	// occ1Intv is the outer occurrence-sampling period.
	//
	// INVARIANT: occ1Intv is a multiple of occIntv, and occ1Intv <= 256
	// so that inner counts fit in uint8.
	occ1Intv = 256
	// sortLen bounds the suffix comparator: suffixes are ordered by
	// their first sortLen symbols only.  Reference genomes are assumed
	// to contain no two suffixes agreeing on their first sortLen
	// symbols.
	sortLen = 256
)

// Opts are construction-time parameters.  They are baked into the
// program, not into the saved index image: an index must be loaded with
// the same Opts it was built with.
type Opts struct {
	// SAIntv is the suffix-array sampling period. 1 retains the whole
	// suffix array and makes offset resolution a direct read; larger
	// values divide the memory by SAIntv at the cost of an LF walk per
	// resolved offset, whose length is not bounded by SAIntv (see
	// resolve).
	SAIntv int
	// LookupLen is the kmer length of the prefix lookup table. The
	// table holds 4^LookupLen+1 entries.
	LookupLen int
}

// DefaultOpts matches the tuning used for whole-genome references.
var DefaultOpts = Opts{
	SAIntv:    1,
	LookupLen: 13,
}

func (o Opts) valid() error {
	if o.SAIntv < 1 {
		return errors.E("fmindex: SAIntv must be >= 1")
	}
	if o.LookupLen < 1 || o.LookupLen > 15 {
		return errors.E("fmindex: LookupLen must be in [1,15]")
	}
	return nil
}

// Index is an immutable FM-index over a packed DNA reference.  All
// methods are safe for concurrent use once the index is built.
type Index struct {
	opts Opts
	// cnt[c] is one plus the number of BWT symbols strictly less than c,
	// the one reserving row 0 for the sentinel row.
	cnt [4]uint32
	// pri is the BWT row of the original unrotated text.  The symbol
	// stored there is a placeholder 0 and is discounted by rank.
	pri uint32
	bwt dna.Seq
	// occ1[k][c] counts c in bwt[0:k*occ1Intv).  occ2[k][c] counts c
	// from the enclosing occ1 block boundary to k*occIntv.
	occ1 [][4]uint32
	occ2 [][4]uint8
	// sa holds every opts.SAIntv'th suffix-array entry.
	sa []uint32
	// lookup[key] is the left endpoint of the SA interval of the kmer
	// with the given hash; lookup[4^LookupLen] is the total row count.
	lookup []uint32
}

// New builds an index over ref with DefaultOpts.
func New(ref dna.Seq) (*Index, error) {
	return NewWithOpts(ref, DefaultOpts)
}

// NewWithOpts builds an index over ref.  ref is retained conceptually
// only: the index keeps no reference to it after construction.
func NewWithOpts(ref dna.Seq, opts Opts) (*Index, error) {
	if err := opts.valid(); err != nil {
		return nil, err
	}
	if uint64(ref.Len())+1 > math.MaxUint32 {
		return nil, errors.E("fmindex: reference too long for 32-bit row indexes")
	}
	oriSA := suffixArray(&ref, suffixSortShards(ref.Len()+1))

	idx := &Index{opts: opts}
	nRows := len(oriSA)
	idx.bwt.Grow(nRows)
	idx.occ1 = make([][4]uint32, 0, nRows/occ1Intv+2)
	idx.occ2 = make([][4]uint8, 0, nRows/occIntv+2)
	if opts.SAIntv != 1 {
		idx.sa = make([]uint32, 0, nRows/opts.SAIntv+1)
	}

	var cnt1 [4]uint32
	var cnt2 [4]uint8
	idx.occ1 = append(idx.occ1, cnt1)
	idx.occ2 = append(idx.occ2, cnt2)
	for i, v := range oriSA {
		if v != 0 {
			c := ref.At(int(v) - 1)
			idx.bwt.PushBack(c)
			cnt1[c]++
			cnt2[c]++
		} else {
			// The sentinel row: its preceding symbol is the sentinel itself,
			// stored as a placeholder 0.
			idx.bwt.PushBack(0)
			idx.pri = uint32(i)
		}
		if (i+1)%occIntv == 0 {
			if (i+1)%occ1Intv == 0 {
				idx.occ1 = append(idx.occ1, cnt1)
				cnt2 = [4]uint8{}
			}
			idx.occ2 = append(idx.occ2, cnt2)
		}
		if opts.SAIntv != 1 && i%opts.SAIntv == 0 {
			idx.sa = append(idx.sa, v)
		}
	}
	// Convert per-symbol totals into cumulative counts, reserving row 0
	// for the sentinel row.
	sum := uint32(1)
	for c, x := range cnt1 {
		sum += x
		idx.cnt[c] = sum - x
	}
	if opts.SAIntv == 1 {
		idx.sa = oriSA
	}
	idx.buildLookup()
	return idx, nil
}

// buildLookup records the SA interval left endpoint of every possible
// kmer of length opts.LookupLen, plus a final sentinel entry so that
// lookup[key+1]-lookup[key] is always the interval width.
func (idx *Index) buildLookup() {
	size := 1 << uint(2*idx.opts.LookupLen)
	nRows := uint32(idx.bwt.Len())
	log.Printf("fmindex: computing lookup intervals for %d %d-mers", size, idx.opts.LookupLen)
	start := time.Now()
	idx.lookup = make([]uint32, 0, size+1)
	for key := 0; key < size; key++ {
		kmer := dna.UnHash(uint32(key), idx.opts.LookupLen)
		beg, _, _ := idx.computeRange(kmer, 0, nRows, 0)
		idx.lookup = append(idx.lookup, beg)
	}
	idx.lookup = append(idx.lookup, nRows)
	log.Printf("fmindex: lookup build took %v", time.Since(start))
}
