package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDateTime_BitLayout(t *testing.T) {
	// year=2024 (0b11111101000), month=3, day=15, hour=14, minute=30, second=45
	var year, month, day, hour, minute, second uint64 = 2024, 3, 15, 14, 30, 45

	var packed uint64
	packed |= year << 26
	packed |= month << 22
	packed |= day << 17
	packed |= hour << 12
	packed |= minute << 6
	packed |= second

	var d [5]byte
	for i := range d {
		d[i] = byte(packed >> (32 - 8*i))
	}

	got := ParseDateTime(d)
	require.Equal(t, DateTime{
		Year: uint16(year), Month: uint16(month), Day: uint16(day),
		Hour: uint16(hour), Minute: uint16(minute), Second: uint16(second),
	}, got)
}

func TestParseDateTime_AllZero(t *testing.T) {
	require.Equal(t, DateTime{}, ParseDateTime([5]byte{}))
}

func TestParseDateTime_MaxFields(t *testing.T) {
	d := [5]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	got := ParseDateTime(d)

	require.Equal(t, uint16(0x3FFF), got.Year)
	require.Equal(t, uint16(0xF), got.Month)
	require.Equal(t, uint16(0x1F), got.Day)
	require.Equal(t, uint16(0x1F), got.Hour)
	require.Equal(t, uint16(0x3F), got.Minute)
	require.Equal(t, uint16(0x3F), got.Second)
}
