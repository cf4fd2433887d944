// Package dna provides the packed 2-bit DNA sequence type and the
// base<->symbol codecs used by the FM-index.  Symbols are small integers
// in {0,1,2,3}, mapping A=0, C=1, G=2, T=3.
package dna

import (
	"github.com/pkg/errors"
)

const (
	// NumBases is the alphabet size.
	NumBases = 4

	invalidBase = uint8(255)
)

var (
	baseToSymbol [256]uint8
	symbolToBase = [NumBases]byte{'A', 'C', 'G', 'T'}
)

func init() {
	for i := range baseToSymbol {
		baseToSymbol[i] = invalidBase
	}
	baseToSymbol['A'] = 0
	baseToSymbol['a'] = 0
	baseToSymbol['C'] = 1
	baseToSymbol['c'] = 1
	baseToSymbol['G'] = 2
	baseToSymbol['g'] = 2
	baseToSymbol['T'] = 3
	baseToSymbol['t'] = 3
}

// Encode translates ASCII bases (ACGT, case insensitive) into symbols.
// It reports an error on the first byte outside the alphabet; ambiguity
// codes such as 'N' must be resolved by the caller before encoding.
func Encode(bases []byte) ([]byte, error) {
	symbols := make([]byte, len(bases))
	for i, ch := range bases {
		s := baseToSymbol[ch]
		if s == invalidBase {
			return nil, errors.Errorf("dna: invalid base %q at position %d", ch, i)
		}
		symbols[i] = s
	}
	return symbols, nil
}

// IsBase reports whether ch is an unambiguous ACGT base (either case).
func IsBase(ch byte) bool { return baseToSymbol[ch] != invalidBase }

// Decode is the inverse of Encode. It panics on symbols outside {0,1,2,3}.
func Decode(symbols []byte) []byte {
	bases := make([]byte, len(symbols))
	for i, s := range symbols {
		bases[i] = symbolToBase[s]
	}
	return bases
}
