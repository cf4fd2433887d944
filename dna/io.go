package dna

import (
	"io"

	"github.com/grailbio/fmindex/encoding/binio"
	"github.com/pkg/errors"
)

// Save writes the sequence as a 64-bit symbol count followed by the
// packed payload.
func (s *Seq) Save(w io.Writer) error {
	if err := binio.WriteCount(w, s.n); err != nil {
		return err
	}
	_, err := w.Write(s.data[:(s.n+3)/4])
	return err
}

// Load replaces the receiver with a sequence written by Save.
func (s *Seq) Load(r io.Reader) error {
	n, err := binio.ReadCount(r)
	if err != nil {
		return err
	}
	data := make([]byte, (n+3)/4)
	if _, err := io.ReadFull(r, data); err != nil {
		return errors.Wrap(err, "dna: short read")
	}
	s.data, s.n = data, n
	return nil
}
