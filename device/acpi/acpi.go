// Package acpi implements the driver that indexes the ACPI tables handed
// over by the platform table loader. Each table is parsed through the AML
// header grammar and verified against its checksum before it becomes visible
// to lookups.
package acpi

import (
	"io"

	"vireo/device"
	"vireo/device/acpi/aml/parser"
	"vireo/device/acpi/table"
	"vireo/kernel"
	"vireo/kernel/kfmt"
)

var (
	errNoTableLoader = &kernel.Error{Module: "acpi", Message: "no ACPI table loader registered"}

	// tableLoader is installed by the platform's early boot code once it
	// has located and mapped the firmware tables.
	tableLoader TableLoaderFn
)

// TableLoaderFn returns the contents of every ACPI table the firmware
// advertises. Each slice covers a full table starting at its 36-byte header;
// the loader guarantees the backing memory stays mapped while the kernel
// runs.
type TableLoaderFn func() [][]byte

// SetTableLoader registers the function the ACPI driver uses to obtain the
// firmware tables. It must be invoked before hardware detection runs.
func SetTableLoader(fn TableLoaderFn) {
	tableLoader = fn
}

// Table pairs the decoded header of an ACPI table with its raw contents.
type Table struct {
	Header table.SDTHeader

	// Data spans the whole table including the header bytes.
	Data []byte
}

// Signature returns the table signature as a string.
func (t *Table) Signature() string {
	return string(t.Header.Signature[:])
}

type acpiDriver struct {
	// The ACPI table map allows the driver to look up a parsed table by
	// its signature. Only tables with intact checksums are included.
	tableMap map[string]*Table
}

// DriverInit initializes this driver.
func (drv *acpiDriver) DriverInit(w io.Writer) *kernel.Error {
	if tableLoader == nil {
		return errNoTableLoader
	}

	drv.enumerateTables(w, tableLoader())
	drv.printTableInfo(w)

	return nil
}

// DriverName returns the name of this driver.
func (*acpiDriver) DriverName() string {
	return "ACPI"
}

// DriverVersion returns the version of this driver.
func (*acpiDriver) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// LookupTable returns the parsed table with the requested signature or nil
// if the firmware does not provide it.
func (drv *acpiDriver) LookupTable(signature string) *Table {
	return drv.tableMap[signature]
}

// enumerateTables parses and validates the header of every supplied table.
// Tables that fail the header parse or the checksum are reported to w and
// skipped; a single corrupted table must not take down table discovery.
func (drv *acpiDriver) enumerateTables(w io.Writer, blobs [][]byte) {
	drv.tableMap = make(map[string]*Table)

	for _, blob := range blobs {
		cursor := parser.NewCursor(blob)

		root := parser.DefBlockHeader(cursor)
		if root == nil {
			kfmt.Fprintf(w, "acpi: skipping table with truncated header (%d bytes)\n", len(blob))
			continue
		}

		hdr, _ := parser.DecodeHeader(root)
		if hdr.Length > uint32(len(blob)) {
			kfmt.Fprintf(w, "%s: header length %d exceeds mapped size %d [skipping]\n",
				hdr.Signature[:], hdr.Length, len(blob))
			continue
		}

		if !table.ValidChecksum(blob[:hdr.Length]) {
			kfmt.Fprintf(w, "%s: checksum mismatch [skipping]\n", hdr.Signature[:])
			continue
		}

		drv.tableMap[string(hdr.Signature[:])] = &Table{
			Header: hdr,
			Data:   blob[:hdr.Length],
		}
	}
}

func (drv *acpiDriver) printTableInfo(w io.Writer) {
	for name, t := range drv.tableMap {
		kfmt.Fprintf(w, "%s rev %d %6x (%6s %8s)\n",
			name,
			t.Header.Revision,
			t.Header.Length,
			t.Header.OEMID[:],
			t.Header.OEMTableID[:],
		)
	}
}

func probeForACPI() device.Driver {
	if tableLoader == nil {
		return nil
	}

	return &acpiDriver{}
}

func init() {
	device.RegisterDriver(&device.DriverInfo{
		Order: device.DetectOrderBeforeACPI,
		Probe: probeForACPI,
	})
}
