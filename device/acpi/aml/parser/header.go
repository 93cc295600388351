package parser

import (
	"vireo/device/acpi/table"
)

// Each field of the table header is a thin production wrapping a primitive
// reader. The wrapper exists so that the resulting branch carries a label a
// consumer can navigate by; the OEM identifier fields additionally wrap a
// string leaf which owns the raw identifier bytes.
var (
	tableSignature  = sequence(LabelTableSignature, dwordData)
	tableLength     = sequence(LabelTableLength, dwordData)
	specCompliance  = sequence(LabelSpecCompliance, byteData)
	checksum        = sequence(LabelChecksum, byteData)
	oemID           = sequence(LabelOEMID, stringData(6))
	oemTableID      = sequence(LabelOEMTableID, stringData(8))
	oemRevision     = sequence(LabelOEMRevision, dwordData)
	creatorID       = sequence(LabelCreatorID, dwordData)
	creatorRevision = sequence(LabelCreatorRevision, dwordData)

	defBlockHeader = sequence(LabelDefBlockHeader,
		tableSignature,
		tableLength,
		specCompliance,
		checksum,
		oemID,
		oemTableID,
		oemRevision,
		creatorID,
		creatorRevision,
	)
)

// DefBlockHeader parses the fixed 36-byte header that prefixes every AML
// definition block (DSDT, SSDT and friends). On success the cursor has
// advanced by exactly 36 bytes and the returned branch carries the nine field
// productions as its children, in wire order. On failure the cursor is left
// at the offset it was handed and no tree is produced.
//
// The header checksum is not verified here; table.ValidChecksum covers the
// whole table and is applied by the ACPI driver.
func DefBlockHeader(c *Cursor) *Node {
	return defBlockHeader(c)
}

// DecodeHeader converts a tree produced by DefBlockHeader into the flat
// table.SDTHeader wire struct. It returns false if root was not built by the
// DefBlockHeader production.
func DecodeHeader(root *Node) (table.SDTHeader, bool) {
	var hdr table.SDTHeader

	if root == nil || root.Label() != LabelDefBlockHeader || root.NumChildren() != 9 {
		return hdr, false
	}

	sig := FieldValue(root, LabelTableSignature)
	for i := range hdr.Signature {
		hdr.Signature[i] = byte(sig >> (8 * i))
	}

	hdr.Length = uint32(FieldValue(root, LabelTableLength))
	hdr.Revision = uint8(FieldValue(root, LabelSpecCompliance))
	hdr.Checksum = uint8(FieldValue(root, LabelChecksum))
	copy(hdr.OEMID[:], FieldBytes(root, LabelOEMID))
	copy(hdr.OEMTableID[:], FieldBytes(root, LabelOEMTableID))
	hdr.OEMRevision = uint32(FieldValue(root, LabelOEMRevision))
	hdr.CreatorID = uint32(FieldValue(root, LabelCreatorID))
	hdr.CreatorRevision = uint32(FieldValue(root, LabelCreatorRevision))

	return hdr, true
}
