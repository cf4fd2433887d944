// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fmindex implements a succinct full-text index over packed
// DNA, built from the Burrows-Wheeler transform of the reference.  It
// answers backward-search queries: given a short seed, it returns the
// contiguous suffix-array interval of rows prefixed by the seed and
// converts the interval into original-text offsets.
//
// The index consists of five mutually consistent structures: the BWT
// itself (2-bit packed, with the sentinel row represented by a
// placeholder symbol at the primary index), cumulative symbol counts,
// a two-level occurrence table sampled every 16 and 256 rows, a
// sampled suffix array, and a lookup table holding the SA interval of
// every kmer of a fixed length, which shortcuts the first steps of
// backward search.
//
// Construction mutates only exclusively owned buffers; the one
// parallel phase is the suffix sort, whose comparator is pure.  A
// fully built index is immutable and safe for unrestricted concurrent
// queries.
package fmindex
