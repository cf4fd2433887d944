package fmindex

import (
	"sort"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

// naiveSuffixArray sorts suffix indexes with plain string comparison
// over the symbol bytes.  For references shorter than sortLen this is
// exactly the clipped ordering the production sorter must produce.
func naiveSuffixArray(symbols []byte) []uint32 {
	sa := make([]uint32, len(symbols)+1)
	for i := range sa {
		sa[i] = uint32(i)
	}
	sort.Slice(sa, func(i, j int) bool {
		return string(symbols[sa[i]:]) < string(symbols[sa[j]:])
	})
	return sa
}

func TestSuffixArray(t *testing.T) {
	for _, ref := range []string{"", "A", "AAAA", "ACGT", "ACGTACGT", "GATTACA", testRandomRef(200)} {
		seq := testSeq(t, ref)
		want := naiveSuffixArray(seq.Symbols())
		// One shard takes the serial path; several exercise the merge
		// rounds, including the odd-count leftover.
		for _, nShard := range []int{1, 2, 4, 5} {
			assert.EQ(t, suffixArray(&seq, nShard), want, "ref len %d shards %d", len(ref), nShard)
		}
	}
}

func TestSuffixArrayOrdering(t *testing.T) {
	seq := testSeq(t, testRandomRef(300))
	sa := suffixArray(&seq, 3)
	for i := 1; i < len(sa); i++ {
		if seq.CompareSuffixes(int(sa[i-1]), int(sa[i]), sortLen) > 0 {
			t.Fatalf("rows %d and %d out of order", i-1, i)
		}
	}
}

func TestMergeRuns(t *testing.T) {
	less := func(x, y uint32) bool { return x < y }
	dst := make([]uint32, 7)
	mergeRuns(dst, []uint32{1, 4, 6}, []uint32{2, 3, 5, 7}, less)
	expect.EQ(t, dst, []uint32{1, 2, 3, 4, 5, 6, 7})

	dst = dst[:3]
	mergeRuns(dst, nil, []uint32{1, 2, 3}, less)
	expect.EQ(t, dst, []uint32{1, 2, 3})
}

func TestSuffixSortShards(t *testing.T) {
	expect.EQ(t, suffixSortShards(0), 1)
	expect.EQ(t, suffixSortShards(1), 1)
	expect.True(t, suffixSortShards(1<<24) >= 1)
}
