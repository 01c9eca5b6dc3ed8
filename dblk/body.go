package dblk

import (
	"fmt"

	"github.com/rroohhh/mtfgo/cursor"
	"github.com/rroohhh/mtfgo/errs"
	"github.com/rroohhh/mtfgo/format"
)

// SoftFileMarkBlockSize is the TAPE body's soft_filemark_block_size field,
// stored in 512-byte blocks.
type SoftFileMarkBlockSize struct {
	Blocks uint16
}

// Bytes returns the size in bytes (blocks * 512).
func (s SoftFileMarkBlockSize) Bytes() uint64 { return 512 * uint64(s.Blocks) }

// TapeBody is the TAPE DBLK's type-specific fields.
type TapeBody struct {
	MediaFamilyID               uint32
	TapeAttrs                   uint32
	MediaSequenceNumber         uint16
	PasswordEncryptionAlgorithm uint16
	SoftFilemarkBlockSize       SoftFileMarkBlockSize
	MediaBasedCatalogType       format.MediaBasedCatalogType
	MediaName                   string
	MediaNamePresent            bool
	MediaDescription            string
	MediaDescriptionPresent     bool
	MediaPassword               string
	MediaPasswordPresent        bool
	SoftwareName                string
	SoftwareNamePresent         bool
	FormatLogicalBlockSize      uint16
	SoftwareVendorID            uint16
	MediaDate                   format.DateTime
	MajorVersion                uint8
}

const (
	tapeAttrSoftFileMark uint32 = 1 << 0
	tapeAttrMediaLabel   uint32 = 1 << 1
	tapeAttrUnknown1     uint32 = 1 << 2 // reserved, unspecified in the source
	tapeAttrsValidMask   uint32 = tapeAttrSoftFileMark | tapeAttrMediaLabel | tapeAttrUnknown1
)

// SSetBody is the SSET DBLK's type-specific fields.
type SSetBody struct {
	Attrs                       uint32
	PasswordEncryptionAlgorithm uint16
	SoftwareCompressionAlgorithm uint16
	SoftwareVendorID            uint16
	DataSetNumber               uint16
	DataSetName                 string
	DataSetNamePresent          bool
	DataSetDescription          string
	DataSetDescriptionPresent   bool
	DataSetPassword             string
	DataSetPasswordPresent      bool
	Username                    string
	UsernamePresent             bool
	PhysicalBlockAddress        uint64
	WriteDate                   format.DateTime
	SoftwareMajorVersion        uint8
	SoftwareMinorVersion        uint8
	Timezone                    int8
	MinorVersion                uint8
	MediaCatalogVersion         uint8
}

const ssetAttrsValidMask uint32 = 1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<4 | 1<<5

// VolbBody is the VOLB DBLK's type-specific fields.
type VolbBody struct {
	Attrs              uint32
	DeviceName         string
	DeviceNamePresent  bool
	VolumeName         string
	VolumeNamePresent  bool
	MachineName        string
	MachineNamePresent bool
	WriteDate          format.DateTime
}

const volbAttrsValidMask uint32 = 1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<4 | 1<<5

// SFMBBody is the SFMB DBLK's type-specific fields: a table of filemark
// entries, sized by the soft_filemark_block_size carried on the prior TAPE
// block.
type SFMBBody struct {
	NumberOfEntries uint32
	UsedEntries     uint32
	Entries         []uint32
}

// UnknownBody carries the raw four-character tag for an unrecognized kind.
type UnknownBody struct {
	Tag string
}

// Body is the decoded type-specific payload of a DBLK. Exactly one of the
// typed fields is meaningful, selected by Header.Kind; DIRB/FILE/CFIL/
// ESPB/ESET/EOTM carry no decoded body (framed only).
type Body struct {
	Tape    *TapeBody
	SSet    *SSetBody
	Volb    *VolbBody
	SFMB    *SFMBBody
	Unknown *UnknownBody
}

func parseTapeBody(c *cursor.Cursor, base int, header Header) (*TapeBody, error) {
	if header.FormatLogicalAddr != 0 {
		return nil, fmt.Errorf("TAPE format_logical_address must be zero, got %d: %w", header.FormatLogicalAddr, errs.ErrInvariant)
	}
	if header.ControlBlockID != 0 {
		return nil, fmt.Errorf("TAPE control_block_id must be zero, got %d: %w", header.ControlBlockID, errs.ErrInvariant)
	}

	mediaFamilyID, err := c.ReadU32()
	if err != nil {
		return nil, err
	}

	tapeAttrs, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if tapeAttrs&^tapeAttrsValidMask != 0 {
		return nil, fmt.Errorf("tape attrs %#x has undefined bits: %w", tapeAttrs, errs.ErrBadFlags)
	}

	mediaSeq, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	pwEncAlg, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	sfmbBlockSize, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	rawCatalogType, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	catalogType, err := format.ParseMediaBasedCatalogType(rawCatalogType)
	if err != nil {
		return nil, err
	}

	mediaName, mediaNamePresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	mediaDescription, mediaDescriptionPresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	mediaPassword, mediaPasswordPresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	softwareName, softwareNamePresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	formatLogicalBlockSize, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	softwareVendorID, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	dateBytes, err := c.ReadExact(5)
	if err != nil {
		return nil, err
	}
	mediaDate := format.ParseDateTime([5]byte(dateBytes))

	majorVersion, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	return &TapeBody{
		MediaFamilyID:               mediaFamilyID,
		TapeAttrs:                   tapeAttrs,
		MediaSequenceNumber:         mediaSeq,
		PasswordEncryptionAlgorithm: pwEncAlg,
		SoftFilemarkBlockSize:       SoftFileMarkBlockSize{Blocks: sfmbBlockSize},
		MediaBasedCatalogType:       catalogType,
		MediaName:                   mediaName,
		MediaNamePresent:            mediaNamePresent,
		MediaDescription:            mediaDescription,
		MediaDescriptionPresent:     mediaDescriptionPresent,
		MediaPassword:               mediaPassword,
		MediaPasswordPresent:        mediaPasswordPresent,
		SoftwareName:                softwareName,
		SoftwareNamePresent:         softwareNamePresent,
		FormatLogicalBlockSize:      formatLogicalBlockSize,
		SoftwareVendorID:            softwareVendorID,
		MediaDate:                   mediaDate,
		MajorVersion:                majorVersion,
	}, nil
}

func parseSSetBody(c *cursor.Cursor, base int, header Header) (*SSetBody, error) {
	attrs, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if attrs&^ssetAttrsValidMask != 0 {
		return nil, fmt.Errorf("sset attrs %#x has undefined bits: %w", attrs, errs.ErrBadFlags)
	}

	pwEncAlg, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	swCompressAlg, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	swVendorID, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	dataSetNumber, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	dataSetName, dataSetNamePresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	dataSetDescription, dataSetDescriptionPresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	dataSetPassword, dataSetPasswordPresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	username, usernamePresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	physicalBlockAddress, err := c.ReadU64()
	if err != nil {
		return nil, err
	}

	dateBytes, err := c.ReadExact(5)
	if err != nil {
		return nil, err
	}
	writeDate := format.ParseDateTime([5]byte(dateBytes))

	swMajor, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	swMinor, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	timezone, err := c.ReadI8()
	if err != nil {
		return nil, err
	}

	minorVersion, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	mediaCatalogVersion, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	return &SSetBody{
		Attrs:                        attrs,
		PasswordEncryptionAlgorithm:  pwEncAlg,
		SoftwareCompressionAlgorithm: swCompressAlg,
		SoftwareVendorID:             swVendorID,
		DataSetNumber:                dataSetNumber,
		DataSetName:                  dataSetName,
		DataSetNamePresent:           dataSetNamePresent,
		DataSetDescription:           dataSetDescription,
		DataSetDescriptionPresent:    dataSetDescriptionPresent,
		DataSetPassword:              dataSetPassword,
		DataSetPasswordPresent:       dataSetPasswordPresent,
		Username:                     username,
		UsernamePresent:              usernamePresent,
		PhysicalBlockAddress:         physicalBlockAddress,
		WriteDate:                    writeDate,
		SoftwareMajorVersion:         swMajor,
		SoftwareMinorVersion:         swMinor,
		Timezone:                     timezone,
		MinorVersion:                 minorVersion,
		MediaCatalogVersion:          mediaCatalogVersion,
	}, nil
}

func parseVolbBody(c *cursor.Cursor, base int, header Header) (*VolbBody, error) {
	attrs, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	if attrs&^volbAttrsValidMask != 0 {
		return nil, fmt.Errorf("volb attrs %#x has undefined bits: %w", attrs, errs.ErrBadFlags)
	}

	deviceName, deviceNamePresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	volumeName, volumeNamePresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	machineName, machineNamePresent, err := readAddrString(c, base, header.StringType)
	if err != nil {
		return nil, err
	}

	dateBytes, err := c.ReadExact(5)
	if err != nil {
		return nil, err
	}
	writeDate := format.ParseDateTime([5]byte(dateBytes))

	return &VolbBody{
		Attrs:              attrs,
		DeviceName:         deviceName,
		DeviceNamePresent:  deviceNamePresent,
		VolumeName:         volumeName,
		VolumeNamePresent:  volumeNamePresent,
		MachineName:        machineName,
		MachineNamePresent: machineNamePresent,
		WriteDate:          writeDate,
	}, nil
}

// parseSFMBBody decodes the SFMB body. tapeBlockSize is the
// soft_filemark_block_size carried by the most recently seen TAPE DBLK;
// its absence is a Dependency error.
func parseSFMBBody(c *cursor.Cursor, tapeBlockSize *SoftFileMarkBlockSize) (*SFMBBody, error) {
	if tapeBlockSize == nil {
		return nil, errs.ErrMissingTapeContext
	}

	numberOfEntries, err := c.ReadU32()
	if err != nil {
		return nil, err
	}

	usedEntries, err := c.ReadU32()
	if err != nil {
		return nil, err
	}

	// 60 = sizeof(common header = 52) + 2 * sizeof(u32)
	entryBytesLen := int(tapeBlockSize.Bytes()) - 60
	if entryBytesLen < 0 {
		return nil, fmt.Errorf("soft_filemark_block_size too small for SFMB body: %w", errs.ErrInvariant)
	}

	entryBytes, err := c.ReadExact(entryBytesLen)
	if err != nil {
		return nil, err
	}

	entries := make([]uint32, entryBytesLen/4)
	ec := cursor.New(entryBytes)
	for i := range entries {
		entries[i], _ = ec.ReadU32()
	}

	return &SFMBBody{
		NumberOfEntries: numberOfEntries,
		UsedEntries:     usedEntries,
		Entries:         entries,
	}, nil
}

// readAddrString reads a packed TapeAddress u32 and immediately resolves
// it against the string table, preserving the cursor's position for the
// body fields that follow (resolving a TapeAddress string).
func readAddrString(c *cursor.Cursor, base int, ty format.StringType) (string, bool, error) {
	raw, err := c.ReadU32()
	if err != nil {
		return "", false, err
	}

	addr := parseTapeAddress(raw, base)

	return addr.ReadString(ty, c)
}
