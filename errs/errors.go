// Package errs collects the sentinel errors returned across the mtfgo
// packages. Call sites wrap these with fmt.Errorf("...: %w", errs.ErrXxx)
// so callers can still errors.Is against the sentinel.
package errs

import "errors"

var (
	// ErrUnexpectedEnd is returned when a read runs off the end of the
	// underlying byte slice.
	ErrUnexpectedEnd = errors.New("mtfgo: unexpected end of data")

	// ErrChecksumMismatch is returned when a DBLK or stream header's XOR
	// checksum does not match the stored value.
	ErrChecksumMismatch = errors.New("mtfgo: header checksum mismatch")

	// ErrBadTag is returned when an integer enum (StringType,
	// MediaBasedCatalogType) is out of its defined range.
	ErrBadTag = errors.New("mtfgo: unrecognized tag value")

	// ErrBadFlags is returned when a bitfield has bits set that are not
	// defined for the enclosing block kind.
	ErrBadFlags = errors.New("mtfgo: undefined bits set in attribute flags")

	// ErrMissingTapeContext is returned when an SFMB block is encountered
	// before any TAPE block has been parsed.
	ErrMissingTapeContext = errors.New("mtfgo: SFMB block without a prior TAPE block")

	// ErrInvariant is returned when a structural invariant is violated,
	// e.g. a TAPE body with nonzero format_logical_address/control_block_id.
	ErrInvariant = errors.New("mtfgo: invariant violation")

	// ErrEncoding is returned when string bytes are not valid in their
	// declared StringType encoding.
	ErrEncoding = errors.New("mtfgo: invalid string encoding")

	// ErrStaleCache is returned when a persisted index cache has an
	// incompatible format version or parameters.
	ErrStaleCache = errors.New("mtfgo: stale or incompatible index cache")
)
