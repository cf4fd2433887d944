// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fmindex

// cntTable[b][c] is the number of occurrences of symbol c among the
// four packed symbols of byte b.
var cntTable [256][4]uint8

func init() {
	for b := 0; b < 256; b++ {
		for shift := uint(0); shift < 8; shift += 2 {
			cntTable[b][b>>shift&3]++
		}
	}
}

// rank returns the number of occurrences of c in bwt[0:i), discounting
// the sentinel placeholder at pri when c == 0.
func (idx *Index) rank(c byte, i uint32) uint32 {
	k1 := i / occ1Intv
	k2 := i / occIntv
	beg := k2 * occIntv
	var pass uint32
	if c == 0 && beg <= idx.pri && idx.pri < i {
		pass = 1
	}
	// beg is a multiple of occIntv and therefore byte aligned.
	var cnt uint32
	data := idx.bwt.Bytes()
	for run := (i - beg) / 4; run > 0; run-- {
		cnt += uint32(cntTable[data[beg/4]][c])
		beg += 4
	}
	for ; beg < i; beg++ {
		if idx.bwt.At(int(beg)) == c {
			cnt++
		}
	}
	return idx.occ1[k1][c] + uint32(idx.occ2[k2][c]) + cnt - pass
}

// lf maps BWT row i to the row of its left rotation under symbol c.
func (idx *Index) lf(c byte, i uint32) uint32 {
	return idx.cnt[c] + idx.rank(c, i)
}
