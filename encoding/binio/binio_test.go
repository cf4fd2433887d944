package binio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCount(&buf, 0))
	require.NoError(t, WriteCount(&buf, 12345))
	n, err := ReadCount(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	n, err = ReadCount(&buf)
	require.NoError(t, err)
	assert.Equal(t, 12345, n)
}

func TestImplausibleCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(1)<<62))
	_, err := ReadCount(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "implausible")
}

func TestUint32sRoundTrip(t *testing.T) {
	for _, v := range [][]uint32{nil, {}, {0}, {1, 2, 3, 0xffffffff}} {
		var buf bytes.Buffer
		require.NoError(t, WriteUint32s(&buf, v))
		assert.Equal(t, 8+4*len(v), buf.Len())
		got, err := ReadUint32s(&buf)
		require.NoError(t, err)
		assert.Equal(t, len(v), len(got))
		for i := range v {
			assert.Equal(t, v[i], got[i])
		}
	}
}

func TestVec4RoundTrip(t *testing.T) {
	v32 := [][4]uint32{{1, 2, 3, 4}, {0, 0, 0, 0xdeadbeef}}
	var buf bytes.Buffer
	require.NoError(t, WriteVec4x32s(&buf, v32))
	assert.Equal(t, 8+16*len(v32), buf.Len())
	got32, err := ReadVec4x32s(&buf)
	require.NoError(t, err)
	assert.Equal(t, v32, got32)

	v8 := [][4]uint8{{1, 2, 3, 4}, {252, 253, 254, 255}}
	buf.Reset()
	require.NoError(t, WriteVec4x8s(&buf, v8))
	assert.Equal(t, 8+4*len(v8), buf.Len())
	got8, err := ReadVec4x8s(&buf)
	require.NoError(t, err)
	assert.Equal(t, v8, got8)
}

func TestBytesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBytes(&buf, []byte("packed")))
	got, err := ReadBytes(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("packed"), got)
}

func TestShortRead(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteUint32s(&buf, []uint32{1, 2, 3}))
	data := buf.Bytes()[:buf.Len()-3]
	_, err := ReadUint32s(bytes.NewReader(data))
	require.Error(t, err)

	_, err = ReadVec4x32s(bytes.NewReader(nil))
	require.Error(t, err)
}
