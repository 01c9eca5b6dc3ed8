package format

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildHeader lays out the given words as little-endian u16 values. It
// computes no checksum: callers pass the trailing checksum word themselves.
func buildHeader(words ...uint16) []byte {
	buf := make([]byte, len(words)*2)
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[i*2:], w)
	}

	return buf
}

func TestChecksum_AllZeros(t *testing.T) {
	header := make([]byte, 52)
	require.Equal(t, uint16(0), Checksum(header))
	require.True(t, VerifyChecksum(header))
}

func TestChecksum_ShiftRegister(t *testing.T) {
	words := []uint16{0x1234, 0x5678, 0x0001, 0x0002}
	want := words[0] ^ words[1] ^ words[2]

	header := buildHeader(words[0], words[1], words[2], want)
	require.True(t, VerifyChecksum(header))
	require.Equal(t, want, Checksum(header))
}

func TestVerifyChecksum_Mismatch(t *testing.T) {
	header := buildHeader(0x1111, 0x2222, 0x0000)
	require.False(t, VerifyChecksum(header))
}

func TestVerifyChecksum_TooShort(t *testing.T) {
	require.False(t, VerifyChecksum([]byte{0x01}))
}
