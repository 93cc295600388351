// Package table defines the wire layout of the ACPI structures consumed by
// the kernel. All multi-byte fields are little-endian and all structures are
// packed; none of the types in this package may be reordered, resized or
// realigned.
package table

// SDTHeaderLen is the size of the common system descriptor table header in
// bytes.
const SDTHeaderLen = 36

// Well known table signatures.
const (
	SignatureDSDT = "DSDT"
	SignatureSSDT = "SSDT"
	SignatureFADT = "FACP"
)

// RSDPDescriptor defines the root system descriptor pointer for ACPI 1.0.
// This is used as the entry-point for locating the ACPI tables.
type RSDPDescriptor struct {
	// The signature must contain "RSD PTR " (last byte is a space).
	Signature [8]byte

	// A value that when added to the sum of all other bytes contained in
	// this descriptor should result in the value 0.
	Checksum uint8

	OEMID [6]byte

	// ACPI revision number. It is 0 for ACPI1.0 and 2 for versions 2.0+.
	Revision uint8

	// Physical address of the 32-bit root system descriptor table.
	RSDTAddr uint32
}

// SDTHeader defines the common 36-byte header shared by all ACPI tables.
type SDTHeader struct {
	// The signature defines the table type.
	Signature [4]byte

	// The length of the table including this header.
	Length uint32

	// The version of the ACPI specification the table complies with. For
	// DSDT/SSDT tables it also selects the integer width used by the AML
	// interpreter.
	Revision uint8

	// A value that when added to the sum of all other bytes in the table
	// should result in the value 0.
	Checksum uint8

	// OEM specific information
	OEMID       [6]byte
	OEMTableID  [8]byte
	OEMRevision uint32

	// Information about the ASL compiler that generated this table
	CreatorID       uint32
	CreatorRevision uint32
}

// Encode serializes the header back into its packed 36-byte wire layout.
func (h *SDTHeader) Encode() [SDTHeaderLen]byte {
	var buf [SDTHeaderLen]byte

	copy(buf[0:4], h.Signature[:])
	putUint32(buf[4:8], h.Length)
	buf[8] = h.Revision
	buf[9] = h.Checksum
	copy(buf[10:16], h.OEMID[:])
	copy(buf[16:24], h.OEMTableID[:])
	putUint32(buf[24:28], h.OEMRevision)
	putUint32(buf[28:32], h.CreatorID)
	putUint32(buf[32:36], h.CreatorRevision)

	return buf
}

func putUint32(dst []byte, v uint32) {
	dst[0] = byte(v)
	dst[1] = byte(v >> 8)
	dst[2] = byte(v >> 16)
	dst[3] = byte(v >> 24)
}

// ValidChecksum returns true if the bytes of an ACPI structure sum to zero
// mod 256. The checksum field participates in the sum so a correctly
// generated table always balances out.
func ValidChecksum(data []byte) bool {
	var sum uint8

	for _, b := range data {
		sum += b
	}

	return sum == 0
}
