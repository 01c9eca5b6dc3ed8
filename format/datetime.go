package format

// DateTime is the MTF 40-bit packed date-time. No range validation is
// performed on the individual fields: producers have been observed to
// emit zeroed fields.
type DateTime struct {
	Year   uint16
	Month  uint16
	Day    uint16
	Hour   uint16
	Minute uint16
	Second uint16
}

// ParseDateTime decodes the 5-byte packed representation, MSB-first
// across the five bytes.
func ParseDateTime(d [5]byte) DateTime {
	var w [5]uint16
	for i, b := range d {
		w[i] = uint16(b)
	}

	return DateTime{
		Year:   (w[0] << 6) | (w[1] >> 2),
		Month:  ((w[1] & 0b11) << 2) | (w[2] >> 6),
		Day:    (w[2] >> 1) & 0b11111,
		Hour:   ((w[2] & 0b1) << 4) | (w[3] >> 4),
		Minute: ((w[3] & 0b1111) << 2) | (w[4] >> 6),
		Second: w[4] & 0b111111,
	}
}
