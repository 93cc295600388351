package parser

import (
	"bytes"
	"reflect"
	"testing"
)

// validHeader assembles the 36-byte DSDT header used throughout the tests:
// signature "DSDT", length 36, revision 2, checksum 0, OEM id "INTEL ",
// OEM table id "TEMPLATE", OEM revision 1, creator "INTL" revision 0x120.
func validHeader() []byte {
	var buf bytes.Buffer

	buf.WriteString("DSDT")
	buf.Write([]byte{0x24, 0x00, 0x00, 0x00})
	buf.WriteByte(0x02)
	buf.WriteByte(0x00)
	buf.WriteString("INTEL ")
	buf.WriteString("TEMPLATE")
	buf.Write([]byte{0x01, 0x00, 0x00, 0x00})
	buf.WriteString("INTL")
	buf.Write([]byte{0x20, 0x01, 0x00, 0x00})

	return buf.Bytes()
}

func TestDefBlockHeader(t *testing.T) {
	c := NewCursor(validHeader())

	root := DefBlockHeader(c)
	if root == nil {
		t.Fatal("expected parse to succeed")
	}

	if exp, got := uint32(36), c.Offset(); got != exp {
		t.Fatalf("expected cursor to advance by %d bytes; got %d", exp, got)
	}

	if exp, got := LabelDefBlockHeader, root.Label(); got != exp {
		t.Fatalf("expected root label to be %s; got %s", exp, got)
	}

	if exp, got := 9, root.NumChildren(); got != exp {
		t.Fatalf("expected root to contain %d children; got %d", exp, got)
	}

	intSpecs := []struct {
		label  Label
		expVal uint64
	}{
		{LabelTableSignature, 0x54445344},
		{LabelTableLength, 36},
		{LabelSpecCompliance, 2},
		{LabelChecksum, 0},
		{LabelOEMRevision, 1},
		{LabelCreatorID, 0x4c544e49},
		{LabelCreatorRevision, 0x120},
	}

	for specIndex, spec := range intSpecs {
		if got := FieldValue(root, spec.label); got != spec.expVal {
			t.Errorf("[spec %d] expected field %s to hold %x; got %x", specIndex, spec.label, spec.expVal, got)
		}
	}

	strSpecs := []struct {
		label    Label
		expBytes []byte
	}{
		{LabelOEMID, []byte("INTEL ")},
		{LabelOEMTableID, []byte("TEMPLATE")},
	}

	for specIndex, spec := range strSpecs {
		if got := FieldBytes(root, spec.label); !bytes.Equal(got, spec.expBytes) {
			t.Errorf("[spec %d] expected field %s to hold %q; got %q", specIndex, spec.label, spec.expBytes, got)
		}
	}

	// Field order must match the wire layout.
	expOrder := []Label{
		LabelTableSignature,
		LabelTableLength,
		LabelSpecCompliance,
		LabelChecksum,
		LabelOEMID,
		LabelOEMTableID,
		LabelOEMRevision,
		LabelCreatorID,
		LabelCreatorRevision,
	}

	for i, expLabel := range expOrder {
		if got := root.Child(i).Label(); got != expLabel {
			t.Errorf("expected child %d to carry label %s; got %s", i, expLabel, got)
		}
	}
}

func TestDefBlockHeaderTruncatedInput(t *testing.T) {
	data := validHeader()

	// Any prefix shorter than the full header must fail without moving
	// the cursor or producing a tree.
	for prefixLen := 0; prefixLen < len(data); prefixLen++ {
		c := NewCursor(data[:prefixLen])

		if root := DefBlockHeader(c); root != nil {
			t.Fatalf("[prefix %d] expected parse to fail", prefixLen)
		}

		if got := c.Offset(); got != 0 {
			t.Fatalf("[prefix %d] expected cursor offset to remain 0; got %d", prefixLen, got)
		}

		if exp, got := uint32(prefixLen), c.Remaining(); got != exp {
			t.Fatalf("[prefix %d] expected remaining to be %d; got %d", prefixLen, exp, got)
		}
	}
}

func TestDefBlockHeaderAllZeroes(t *testing.T) {
	c := NewCursor(make([]byte, 36))

	root := DefBlockHeader(c)
	if root == nil {
		t.Fatal("expected parse to succeed")
	}

	for _, label := range []Label{
		LabelTableSignature, LabelTableLength, LabelSpecCompliance,
		LabelChecksum, LabelOEMRevision, LabelCreatorID, LabelCreatorRevision,
	} {
		if got := FieldValue(root, label); got != 0 {
			t.Errorf("expected field %s to hold 0; got %x", label, got)
		}
	}

	if exp, got := make([]byte, 6), FieldBytes(root, LabelOEMID); !bytes.Equal(got, exp) {
		t.Errorf("expected OEM id to hold 6 NUL bytes; got %v", got)
	}

	if exp, got := make([]byte, 8), FieldBytes(root, LabelOEMTableID); !bytes.Equal(got, exp) {
		t.Errorf("expected OEM table id to hold 8 NUL bytes; got %v", got)
	}
}

func TestDefBlockHeaderTrailingBytes(t *testing.T) {
	data := append(validHeader(), 0xde, 0xad, 0xbe, 0xef)
	c := NewCursor(data)

	if root := DefBlockHeader(c); root == nil {
		t.Fatal("expected parse to succeed")
	}

	if exp, got := uint32(36), c.Offset(); got != exp {
		t.Fatalf("expected cursor to stop at offset %d; got %d", exp, got)
	}

	if exp, got := uint32(4), c.Remaining(); got != exp {
		t.Fatalf("expected %d bytes to remain; got %d", exp, got)
	}
}

func TestOEMIDTransparency(t *testing.T) {
	data := validHeader()
	copy(data[10:16], "IN\x00EL ")

	root := DefBlockHeader(NewCursor(data))
	if root == nil {
		t.Fatal("expected parse to succeed")
	}

	// The embedded NUL must not terminate the field early.
	if exp, got := []byte("IN\x00EL "), FieldBytes(root, LabelOEMID); !bytes.Equal(got, exp) {
		t.Fatalf("expected OEM id to hold %v verbatim; got %v", exp, got)
	}
}

func TestDefBlockHeaderBackToBack(t *testing.T) {
	data := append(validHeader(), validHeader()...)
	copy(data[36:40], "SSDT")
	c := NewCursor(data)

	first := DefBlockHeader(c)
	if first == nil {
		t.Fatal("expected first parse to succeed")
	}

	second := DefBlockHeader(c)
	if second == nil {
		t.Fatal("expected second parse to succeed")
	}

	if exp, got := uint32(72), c.Offset(); got != exp {
		t.Fatalf("expected cursor to advance to offset %d; got %d", exp, got)
	}

	if exp, got := uint64(0x54445344), FieldValue(first, LabelTableSignature); got != exp {
		t.Errorf("expected first signature to be %x; got %x", exp, got)
	}

	if exp, got := uint64(0x54445353), FieldValue(second, LabelTableSignature); got != exp {
		t.Errorf("expected second signature to be %x; got %x", exp, got)
	}
}

func TestSequenceRollback(t *testing.T) {
	// Fail at each position inside a composite sequence and verify that
	// the cursor is fully restored even when it started at a non-zero
	// offset and earlier sub-parsers already consumed bytes.
	failAt := func(failIndex int, calls *[]int) []parseFn {
		parsers := make([]parseFn, 4)
		for i := range parsers {
			i := i
			parsers[i] = func(c *Cursor) *Node {
				*calls = append(*calls, i)
				if i == failIndex {
					return nil
				}
				return intLeaf(c, 1)
			}
		}
		return parsers
	}

	for failIndex := 0; failIndex < 4; failIndex++ {
		var calls []int

		c := NewCursor([]byte{0xaa, 1, 2, 3, 4, 5})
		c.SetOffset(2)

		root := sequence(LabelNone, failAt(failIndex, &calls)...)(c)
		if root != nil {
			t.Fatalf("[fail %d] expected sequence to fail", failIndex)
		}

		if exp, got := uint32(2), c.Offset(); got != exp {
			t.Fatalf("[fail %d] expected offset to be restored to %d; got %d", failIndex, exp, got)
		}

		if exp, got := uint32(4), c.Remaining(); got != exp {
			t.Fatalf("[fail %d] expected remaining to be restored to %d; got %d", failIndex, exp, got)
		}

		// Sub-parsers past the failing one must not run.
		if exp, got := failIndex+1, len(calls); got != exp {
			t.Fatalf("[fail %d] expected %d sub-parser calls; got %d", failIndex, exp, got)
		}
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	data := validHeader()

	root := DefBlockHeader(NewCursor(data))
	if root == nil {
		t.Fatal("expected parse to succeed")
	}

	hdr, ok := DecodeHeader(root)
	if !ok {
		t.Fatal("expected DecodeHeader to succeed")
	}

	if encoded := hdr.Encode(); !bytes.Equal(encoded[:], data) {
		t.Fatalf("expected re-encoded header to equal the input bytes\nexp: % x\ngot: % x", data, encoded[:])
	}
}

func TestReparseIdempotence(t *testing.T) {
	data := validHeader()

	first := DefBlockHeader(NewCursor(data))
	second := DefBlockHeader(NewCursor(data))

	if first == nil || second == nil {
		t.Fatal("expected both parses to succeed")
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected both parses to yield structurally equal trees")
	}
}

func TestDwordEndianness(t *testing.T) {
	data := validHeader()

	root := DefBlockHeader(NewCursor(data))
	if root == nil {
		t.Fatal("expected parse to succeed")
	}

	specs := []struct {
		label  Label
		offset int
	}{
		{LabelTableSignature, 0},
		{LabelTableLength, 4},
		{LabelOEMRevision, 24},
		{LabelCreatorID, 28},
		{LabelCreatorRevision, 32},
	}

	for specIndex, spec := range specs {
		b := data[spec.offset:]
		exp := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24

		if got := FieldValue(root, spec.label); got != exp {
			t.Errorf("[spec %d] expected field %s to decode little-endian to %x; got %x", specIndex, spec.label, exp, got)
		}
	}
}

func TestPrimitiveReaders(t *testing.T) {
	data := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}

	specs := []struct {
		parse    parseFn
		expWidth int
		expVal   uint64
	}{
		{byteData, 1, 0x11},
		{wordData, 2, 0x2211},
		{dwordData, 4, 0x44332211},
		{qwordData, 8, 0x8877665544332211},
	}

	for specIndex, spec := range specs {
		c := NewCursor(data)

		leaf := spec.parse(c)
		if leaf == nil {
			t.Fatalf("[spec %d] expected parse to succeed", specIndex)
		}

		if !leaf.IsLeaf() {
			t.Fatalf("[spec %d] expected a leaf node", specIndex)
		}

		if got := leaf.Width(); got != spec.expWidth {
			t.Errorf("[spec %d] expected width %d; got %d", specIndex, spec.expWidth, got)
		}

		if got := leaf.Value(); got != spec.expVal {
			t.Errorf("[spec %d] expected value %x; got %x", specIndex, spec.expVal, got)
		}

		if exp, got := uint32(spec.expWidth), c.Offset(); got != exp {
			t.Errorf("[spec %d] expected cursor offset %d; got %d", specIndex, exp, got)
		}

		// Underflow: one byte short of the required width.
		c = NewCursor(data[:spec.expWidth-1])
		if leaf := spec.parse(c); leaf != nil {
			t.Fatalf("[spec %d] expected underflow to fail the parse", specIndex)
		}
		if got := c.Offset(); got != 0 {
			t.Errorf("[spec %d] expected cursor to remain at offset 0 after underflow; got %d", specIndex, got)
		}
	}
}

func TestStringDataCopiesSpan(t *testing.T) {
	data := []byte("OEMIDX")

	leaf := stringData(6)(NewCursor(data))
	if leaf == nil {
		t.Fatal("expected parse to succeed")
	}

	// Mutating the input after the parse must not alter the tree.
	data[0] = '!'
	if exp, got := []byte("OEMIDX"), leaf.Bytes(); !bytes.Equal(got, exp) {
		t.Fatalf("expected leaf to own a copy of %q; got %q", exp, got)
	}
}

func TestFieldNavigation(t *testing.T) {
	root := DefBlockHeader(NewCursor(validHeader()))
	if root == nil {
		t.Fatal("expected parse to succeed")
	}

	if got := Field(root, LabelNone); got != nil {
		t.Fatalf("expected Field to return nil for an unknown label; got %v", got)
	}

	if got := Field(nil, LabelTableLength); got != nil {
		t.Fatalf("expected Field to return nil for a nil root; got %v", got)
	}

	if got := FieldValue(nil, LabelTableLength); got != 0 {
		t.Fatalf("expected FieldValue to return 0 for a nil root; got %d", got)
	}

	if got := FieldBytes(root, LabelTableLength); got != nil {
		t.Fatalf("expected FieldBytes to return nil for an integer field; got %v", got)
	}

	field := Field(root, LabelOEMID)
	if field == nil {
		t.Fatal("expected Field to locate the OEM id production")
	}

	if exp, got := 1, field.NumChildren(); got != exp {
		t.Fatalf("expected the OEM id wrapper to have %d child; got %d", exp, got)
	}

	if got := field.Child(1); got != nil {
		t.Fatalf("expected out of range Child access to return nil; got %v", got)
	}
}

func TestDecodeHeaderRejectsForeignTrees(t *testing.T) {
	if _, ok := DecodeHeader(nil); ok {
		t.Fatal("expected DecodeHeader to reject a nil root")
	}

	leaf := byteData(NewCursor([]byte{1}))
	if _, ok := DecodeHeader(leaf); ok {
		t.Fatal("expected DecodeHeader to reject a non-header tree")
	}
}
