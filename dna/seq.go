package dna

// Seq is a 2-bit-per-symbol packed sequence over {0,1,2,3}.  Symbol p
// lives in bits 2*(p%4)..2*(p%4)+1 of byte p/4, low bits first.  The
// representation guarantees that every stored symbol is in range, so
// consumers never revalidate the alphabet.
type Seq struct {
	data []byte
	n    int
}

// revKey maps a packed byte to the same four symbols with the 2-bit
// groups reversed, so that numeric order of keys equals lexicographic
// order of the symbols in text order.
var revKey [256]uint8

func init() {
	for b := 0; b < 256; b++ {
		var k uint8
		for shift := uint(0); shift < 8; shift += 2 {
			k = k<<2 | uint8(b)>>shift&3
		}
		revKey[b] = k
	}
}

// FromSymbols packs a symbol slice. It panics on symbols outside the
// alphabet; use Encode to sanitize ASCII input first.
func FromSymbols(symbols []byte) Seq {
	var s Seq
	s.Grow(len(symbols))
	for _, c := range symbols {
		s.PushBack(c)
	}
	return s
}

// Len returns the number of symbols.
func (s *Seq) Len() int { return s.n }

// At returns the symbol at position i.
func (s *Seq) At(i int) byte {
	return s.data[i>>2] >> (uint(i&3) * 2) & 3
}

// PushBack appends one symbol.
func (s *Seq) PushBack(c byte) {
	if c > 3 {
		panic("dna: symbol out of range")
	}
	if s.n&3 == 0 {
		s.data = append(s.data, c)
	} else {
		s.data[s.n>>2] |= c << (uint(s.n&3) * 2)
	}
	s.n++
}

// Grow reserves capacity for n symbols.
func (s *Seq) Grow(n int) {
	need := (n + 3) / 4
	if cap(s.data) >= need {
		return
	}
	data := make([]byte, len(s.data), need)
	copy(data, s.data)
	s.data = data
}

// Bytes exposes the underlying packed bytes. The last byte may be
// partially filled; unused high bits are always zero.
func (s *Seq) Bytes() []byte { return s.data }

// Symbols unpacks the whole sequence.
func (s *Seq) Symbols() []byte {
	symbols := make([]byte, s.n)
	for i := range symbols {
		symbols[i] = s.At(i)
	}
	return symbols
}

// Equal reports whether two sequences hold the same symbols.
func (s *Seq) Equal(other *Seq) bool {
	if s.n != other.n {
		return false
	}
	for i, b := range s.data[:(s.n+3)/4] {
		if b != other.data[i] {
			return false
		}
	}
	return true
}

// CompareSuffixes lexicographically compares the substrings starting at
// i and j, each clipped to at most limit symbols and at the end of the
// sequence. When one clipped substring is a prefix of the other, the
// shorter compares less.
func (s *Seq) CompareSuffixes(i, j, limit int) int {
	if i == j {
		return 0
	}
	ni, nj := s.n-i, s.n-j
	if ni > limit {
		ni = limit
	}
	if nj > limit {
		nj = limit
	}
	m := ni
	if nj < m {
		m = nj
	}
	k := 0
	// When both positions are in the same phase within their bytes, whole
	// bytes compare four symbols at a time through revKey.
	if i&3 == j&3 {
		for k < m && (i+k)&3 != 0 {
			if c := int(s.At(i+k)) - int(s.At(j+k)); c != 0 {
				return c
			}
			k++
		}
		for k+4 <= m {
			bi, bj := revKey[s.data[(i+k)>>2]], revKey[s.data[(j+k)>>2]]
			if bi != bj {
				if bi < bj {
					return -1
				}
				return 1
			}
			k += 4
		}
	}
	for ; k < m; k++ {
		if c := int(s.At(i+k)) - int(s.At(j+k)); c != 0 {
			return c
		}
	}
	return ni - nj
}
