// Package binio implements the length-prefixed binary encoding used by
// locally cached index files.  Each sequence is stored as a 64-bit
// little-endian element count followed by the raw memory image of the
// elements.  The format is a local cache format; it is not intended for
// exchange between machines of different byte orders.
package binio

import (
	"encoding/binary"
	"io"
	"math"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
)

// WriteCount writes a 64-bit element count.
func WriteCount(w io.Writer, n int) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	_, err := w.Write(buf[:])
	return err
}

// ReadCount reads a count written by WriteCount.
func ReadCount(r io.Reader) (int, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	n := binary.LittleEndian.Uint64(buf[:])
	if n > math.MaxInt64/16 {
		return 0, errors.Errorf("binio: implausible element count %d", n)
	}
	return int(n), nil
}

// castBytes reinterprets a slice of fixed-size elements as its raw byte
// image. ptr must point at the first element.
func castBytes(ptr unsafe.Pointer, nBytes int) []byte {
	var b []byte
	h := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	h.Data = uintptr(ptr)
	h.Len = nBytes
	h.Cap = nBytes
	return b
}

// WriteBytes writes a length-prefixed byte slice.
func WriteBytes(w io.Writer, v []byte) error {
	if err := WriteCount(w, len(v)); err != nil {
		return err
	}
	_, err := w.Write(v)
	return err
}

// ReadBytes reads a slice written by WriteBytes.
func ReadBytes(r io.Reader) ([]byte, error) {
	n, err := ReadCount(r)
	if err != nil {
		return nil, err
	}
	v := make([]byte, n)
	if _, err := io.ReadFull(r, v); err != nil {
		return nil, errors.Wrap(err, "binio: short read")
	}
	return v, nil
}

// WriteUint32s writes a length-prefixed []uint32.
func WriteUint32s(w io.Writer, v []uint32) error {
	if err := WriteCount(w, len(v)); err != nil {
		return err
	}
	if len(v) == 0 {
		return nil
	}
	_, err := w.Write(castBytes(unsafe.Pointer(&v[0]), len(v)*4))
	return err
}

// ReadUint32s reads a slice written by WriteUint32s.
func ReadUint32s(r io.Reader) ([]uint32, error) {
	n, err := ReadCount(r)
	if err != nil {
		return nil, err
	}
	v := make([]uint32, n)
	if n == 0 {
		return v, nil
	}
	if _, err := io.ReadFull(r, castBytes(unsafe.Pointer(&v[0]), n*4)); err != nil {
		return nil, errors.Wrap(err, "binio: short read")
	}
	return v, nil
}

// WriteVec4x32s writes a length-prefixed [][4]uint32, 16 bytes per
// record.
func WriteVec4x32s(w io.Writer, v [][4]uint32) error {
	if err := WriteCount(w, len(v)); err != nil {
		return err
	}
	if len(v) == 0 {
		return nil
	}
	_, err := w.Write(castBytes(unsafe.Pointer(&v[0]), len(v)*16))
	return err
}

// ReadVec4x32s reads a slice written by WriteVec4x32s.
func ReadVec4x32s(r io.Reader) ([][4]uint32, error) {
	n, err := ReadCount(r)
	if err != nil {
		return nil, err
	}
	v := make([][4]uint32, n)
	if n == 0 {
		return v, nil
	}
	if _, err := io.ReadFull(r, castBytes(unsafe.Pointer(&v[0]), n*16)); err != nil {
		return nil, errors.Wrap(err, "binio: short read")
	}
	return v, nil
}

// WriteVec4x8s writes a length-prefixed [][4]uint8, 4 bytes per record.
func WriteVec4x8s(w io.Writer, v [][4]uint8) error {
	if err := WriteCount(w, len(v)); err != nil {
		return err
	}
	if len(v) == 0 {
		return nil
	}
	_, err := w.Write(castBytes(unsafe.Pointer(&v[0]), len(v)*4))
	return err
}

// ReadVec4x8s reads a slice written by WriteVec4x8s.
func ReadVec4x8s(r io.Reader) ([][4]uint8, error) {
	n, err := ReadCount(r)
	if err != nil {
		return nil, err
	}
	v := make([][4]uint8, n)
	if n == 0 {
		return v, nil
	}
	if _, err := io.ReadFull(r, castBytes(unsafe.Pointer(&v[0]), n*4)); err != nil {
		return nil, errors.Wrap(err, "binio: short read")
	}
	return v, nil
}
