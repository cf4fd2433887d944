// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fmindex

import (
	"sort"

	"github.com/grailbio/fmindex/dna"
)

// computeRange narrows [beg,end) by backward search, consuming seed
// from its last symbol.  The loop stops once the interval width drops
// below stopUpper; stopUpper == 0 never stops early (the width is
// unsigned), which the lookup builder relies on to obtain insertion
// points for absent kmers.  Returns the final interval and the number
// of unconsumed seed symbols.
func (idx *Index) computeRange(seed []byte, beg, end, stopUpper uint32) (uint32, uint32, int) {
	for len(seed) > 0 {
		if end-beg < stopUpper {
			break
		}
		c := seed[len(seed)-1]
		beg = idx.lf(c, beg)
		end = idx.lf(c, end)
		seed = seed[:len(seed)-1]
	}
	return beg, end, len(seed)
}

// Range returns the SA interval [beg,end) of rows prefixed by seed,
// consulting the kmer lookup table for the seed's last LookupLen
// symbols when the seed is long enough.  The search stops once the
// interval holds at most stopCnt rows; the returned remaining count
// reports how much of the seed is unconsumed.  Seed symbols must be in
// {0,1,2,3}.
func (idx *Index) Range(seed []byte, stopCnt uint32) (beg, end uint32, remaining int) {
	beg, end = 0, uint32(idx.bwt.Len())
	if len(seed) >= idx.opts.LookupLen {
		key := dna.Hash(seed[len(seed)-idx.opts.LookupLen:])
		beg = idx.lookup[key]
		end = idx.lookup[key+1]
		// Text suffixes shorter than LookupLen that sort between this kmer
		// and the next one occupy the last rows of [lookup[key],
		// lookup[key+1]); drop them so only rows prefixed by the kmer remain.
		nText := uint32(idx.bwt.Len() - 1)
		for end > beg && nText-idx.resolve(end-1) < uint32(idx.opts.LookupLen) {
			end--
		}
		seed = seed[:len(seed)-idx.opts.LookupLen]
	}
	return idx.RangeFrom(seed, beg, end, stopCnt)
}

// RangeFrom is Range starting from a caller-supplied interval, used for
// incremental seed extension.  An empty seed or an empty interval is
// returned unchanged.
func (idx *Index) RangeFrom(seed []byte, beg, end, stopCnt uint32) (uint32, uint32, int) {
	if end == beg || len(seed) == 0 {
		return beg, end, 0
	}
	return idx.computeRange(seed, beg, end, stopCnt+1)
}

// resolve recovers the text offset of SA row i by walking the LF
// mapping until a sampled row (or the sentinel row) is reached.  Rows
// are sampled by row index, not by text position, so the walk length is
// not bounded by SAIntv; each step moves one text position back, so the
// walk ends at the latest at pri.
func (idx *Index) resolve(i uint32) uint32 {
	intv := uint32(idx.opts.SAIntv)
	var steps uint32
	for i%intv != 0 && i != idx.pri {
		i = idx.lf(idx.bwt.At(int(i)), i)
		steps++
	}
	if i != idx.pri {
		return idx.sa[i/intv] + steps
	}
	return steps
}

// Offsets converts the SA interval [beg,end) into the original-text
// positions of the matches, sorted ascending.
//
// REQUIRES: beg <= end <= number of BWT rows.
func (idx *Index) Offsets(beg, end uint32) []uint32 {
	offsets := make([]uint32, 0, end-beg)
	if idx.opts.SAIntv == 1 {
		offsets = append(offsets, idx.sa[beg:end]...)
	} else {
		for i := beg; i < end; i++ {
			offsets = append(offsets, idx.resolve(i))
		}
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	return offsets
}
