// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fmindex

import (
	"bytes"
	"encoding/binary"
	"io"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/fmindex/encoding/binio"
)

// Save writes the index image: cumulative counts, primary index, BWT,
// the two occurrence tables, the sampled suffix array, and the kmer
// lookup table, in that order.  The image is a local cache format; see
// package binio for the encoding.
func (idx *Index) Save(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, idx.cnt); err != nil {
		return errors.E(err, "fmindex: writing cumulative counts")
	}
	if err := binary.Write(w, binary.LittleEndian, idx.pri); err != nil {
		return errors.E(err, "fmindex: writing primary index")
	}
	if err := idx.bwt.Save(w); err != nil {
		return errors.E(err, "fmindex: writing bwt")
	}
	if err := binio.WriteVec4x32s(w, idx.occ1); err != nil {
		return errors.E(err, "fmindex: writing occ1")
	}
	if err := binio.WriteVec4x8s(w, idx.occ2); err != nil {
		return errors.E(err, "fmindex: writing occ2")
	}
	if err := binio.WriteUint32s(w, idx.sa); err != nil {
		return errors.E(err, "fmindex: writing suffix-array sample")
	}
	if err := binio.WriteUint32s(w, idx.lookup); err != nil {
		return errors.E(err, "fmindex: writing lookup")
	}
	return nil
}

// Load reads an index image written by Save.  opts must equal the Opts
// the index was built with; structural mismatches and trailing bytes
// are rejected.
func Load(r io.Reader, opts Opts) (*Index, error) {
	if err := opts.valid(); err != nil {
		return nil, err
	}
	idx := &Index{opts: opts}
	if err := binary.Read(r, binary.LittleEndian, &idx.cnt); err != nil {
		return nil, errors.E(err, "fmindex: reading cumulative counts")
	}
	if err := binary.Read(r, binary.LittleEndian, &idx.pri); err != nil {
		return nil, errors.E(err, "fmindex: reading primary index")
	}
	if err := idx.bwt.Load(r); err != nil {
		return nil, errors.E(err, "fmindex: reading bwt")
	}
	var err error
	if idx.occ1, err = binio.ReadVec4x32s(r); err != nil {
		return nil, errors.E(err, "fmindex: reading occ1")
	}
	if idx.occ2, err = binio.ReadVec4x8s(r); err != nil {
		return nil, errors.E(err, "fmindex: reading occ2")
	}
	if idx.sa, err = binio.ReadUint32s(r); err != nil {
		return nil, errors.E(err, "fmindex: reading suffix-array sample")
	}
	if idx.lookup, err = binio.ReadUint32s(r); err != nil {
		return nil, errors.E(err, "fmindex: reading lookup")
	}
	var one [1]byte
	if _, err := io.ReadFull(r, one[:]); err != io.EOF {
		return nil, errors.E("fmindex: trailing bytes after index image")
	}
	if err := idx.validate(); err != nil {
		return nil, err
	}
	return idx, nil
}

// validate cross-checks the loaded structures against each other and
// against opts.
func (idx *Index) validate() error {
	nRows := idx.bwt.Len()
	if nRows < 1 {
		return errors.E("fmindex: empty bwt")
	}
	if idx.pri >= uint32(nRows) {
		return errors.E("fmindex: primary index out of range")
	}
	if idx.cnt[0] != 1 {
		return errors.E("fmindex: corrupt cumulative counts")
	}
	if len(idx.occ1) != nRows/occ1Intv+1 {
		return errors.E("fmindex: occ1 size mismatch")
	}
	if len(idx.occ2) != nRows/occIntv+1 {
		return errors.E("fmindex: occ2 size mismatch")
	}
	wantSA := nRows
	if intv := idx.opts.SAIntv; intv != 1 {
		wantSA = (nRows + intv - 1) / intv
	}
	if len(idx.sa) != wantSA {
		return errors.E("fmindex: suffix-array sample size mismatch")
	}
	if len(idx.lookup) != 1<<uint(2*idx.opts.LookupLen)+1 {
		return errors.E("fmindex: lookup size mismatch")
	}
	if idx.lookup[len(idx.lookup)-1] != uint32(nRows) {
		return errors.E("fmindex: corrupt lookup sentinel")
	}
	return nil
}

// Equal reports deep structural equality of two indexes built (or
// loaded) with the same Opts.
func (idx *Index) Equal(other *Index) bool {
	if idx.opts != other.opts || idx.cnt != other.cnt || idx.pri != other.pri {
		return false
	}
	if !idx.bwt.Equal(&other.bwt) {
		return false
	}
	if len(idx.occ1) != len(other.occ1) || len(idx.occ2) != len(other.occ2) ||
		len(idx.sa) != len(other.sa) || len(idx.lookup) != len(other.lookup) {
		return false
	}
	for i, v := range idx.occ1 {
		if v != other.occ1[i] {
			return false
		}
	}
	for i, v := range idx.occ2 {
		if v != other.occ2[i] {
			return false
		}
	}
	for i, v := range idx.sa {
		if v != other.sa[i] {
			return false
		}
	}
	for i, v := range idx.lookup {
		if v != other.lookup[i] {
			return false
		}
	}
	return true
}

// Fingerprint hashes the serialized index image.  It is a cheap
// identity for logs and cross-process comparisons; it is not part of
// the saved image.
func (idx *Index) Fingerprint() uint64 {
	var buf bytes.Buffer
	if err := idx.Save(&buf); err != nil {
		log.Panic(err) // buffer writes cannot fail
	}
	return farm.Hash64(buf.Bytes())
}
