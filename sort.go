// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fmindex

import (
	"runtime"
	"sort"
	"time"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/fmindex/dna"
)

// minSortShardSize keeps tiny inputs on the serial path, where the
// merge machinery only adds overhead.
const minSortShardSize = 1 << 16

// suffixSortShards picks the fan-out for a suffix sort over n rows.
func suffixSortShards(n int) int {
	shards := (n + minSortShardSize - 1) / minSortShardSize
	if p := runtime.NumCPU(); shards > p {
		shards = p
	}
	if shards < 1 {
		shards = 1
	}
	return shards
}

// suffixArray returns the permutation of [0..ref.Len()] that orders the
// suffixes of ref by their first sortLen symbols, suffixes clipped at
// the end of ref (shorter compares less).  The comparator reads only
// the immutable reference, so shard sorting and merging fan out freely.
func suffixArray(ref *dna.Seq, nShard int) []uint32 {
	n := ref.Len() + 1
	sa := make([]uint32, n)
	for i := range sa {
		sa[i] = uint32(i)
	}
	less := func(a, b uint32) bool {
		return ref.CompareSuffixes(int(a), int(b), sortLen) < 0
	}

	start := time.Now()
	log.Printf("fmindex: sorting %d suffixes in %d shards", n, nShard)
	if nShard <= 1 {
		sort.Slice(sa, func(i, j int) bool { return less(sa[i], sa[j]) })
		log.Printf("fmindex: suffix sort took %v", time.Since(start))
		return sa
	}

	bounds := make([]int, nShard+1)
	for i := range bounds {
		bounds[i] = i * n / nShard
	}
	if err := traverse.Each(nShard, func(shard int) error {
		s := sa[bounds[shard]:bounds[shard+1]]
		sort.Slice(s, func(i, j int) bool { return less(s[i], s[j]) })
		return nil
	}); err != nil {
		log.Panic(err)
	}

	// Merge adjacent sorted runs pairwise until one run remains.
	tmp := make([]uint32, n)
	for len(bounds) > 2 {
		nPair := (len(bounds) - 1) / 2
		if err := traverse.Each(nPair, func(pair int) error {
			lo, mid, hi := bounds[2*pair], bounds[2*pair+1], bounds[2*pair+2]
			mergeRuns(tmp[lo:hi], sa[lo:mid], sa[mid:hi], less)
			copy(sa[lo:hi], tmp[lo:hi])
			return nil
		}); err != nil {
			log.Panic(err)
		}
		next := bounds[:0:0]
		next = append(next, 0)
		for pair := 0; pair < nPair; pair++ {
			next = append(next, bounds[2*pair+2])
		}
		if (len(bounds)-1)%2 != 0 {
			next = append(next, bounds[len(bounds)-1])
		}
		bounds = next
	}
	log.Printf("fmindex: suffix sort took %v", time.Since(start))
	return sa
}

// mergeRuns merges sorted runs a and b into dst.
//
// REQUIRES: len(dst) == len(a)+len(b).
func mergeRuns(dst, a, b []uint32, less func(x, y uint32) bool) {
	for len(a) > 0 && len(b) > 0 {
		if less(b[0], a[0]) {
			dst[0] = b[0]
			b = b[1:]
		} else {
			dst[0] = a[0]
			a = a[1:]
		}
		dst = dst[1:]
	}
	copy(dst, a)
	copy(dst[len(a):], b)
}
