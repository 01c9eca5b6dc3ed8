package format

import "encoding/binary"

// Checksum computes the MTF header XOR "shift register" checksum: for
// each little-endian u16 word read in order,
// checksum ^= word; word = next. The last word (the stored checksum slot
// itself) is never folded in.
func Checksum(words []byte) uint16 {
	var checksum, word uint16

	for i := 0; i+2 <= len(words); i += 2 {
		newWord := binary.LittleEndian.Uint16(words[i : i+2])
		checksum ^= word
		word = newWord
	}

	return checksum
}

// VerifyChecksum feeds the full header (including its trailing checksum
// word) through Checksum, which by construction never folds the last word
// in, and compares the result against that stored word.
func VerifyChecksum(header []byte) bool {
	if len(header) < 2 {
		return false
	}

	stored := binary.LittleEndian.Uint16(header[len(header)-2:])
	computed := Checksum(header)

	return stored == computed
}
