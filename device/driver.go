// Package device defines the driver contract implemented by all device
// drivers and the registry the kernel probes at boot.
package device

import (
	"io"

	"vireo/kernel"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprintf.
	DriverInit(io.Writer) *kernel.Error
}

// ProbeFn is a function that scans for the presence of a particular piece of
// hardware and returns a driver for it or nil if the hardware is absent.
type ProbeFn func() Driver

// DetectOrder specifies the order in which the driver probes are invoked
// relative to the kernel hardware detection passes.
type DetectOrder int

// The list of supported detection orders.
const (
	// DetectOrderEarly is used by drivers that other drivers depend on.
	DetectOrderEarly DetectOrder = -128

	// DetectOrderBeforeACPI is used by drivers that must be initialized
	// before the ACPI tables are scanned.
	DetectOrderBeforeACPI DetectOrder = -127

	// DetectOrderACPI is used by drivers that are discovered while
	// scanning the ACPI tables.
	DetectOrderACPI DetectOrder = 0

	// DetectOrderLast is used by drivers that rely on every other device
	// being already initialized.
	DetectOrderLast DetectOrder = 127
)

// DriverInfo associates a driver probe with its detection order.
type DriverInfo struct {
	Order DetectOrder
	Probe ProbeFn
}

// DriverInfoList is a list of DriverInfo entries that implements
// sort.Interface using the detection order.
type DriverInfoList []*DriverInfo

// Len returns the number of entries in the list.
func (l DriverInfoList) Len() int { return len(l) }

// Less reports whether entry i must be probed before entry j.
func (l DriverInfoList) Less(i, j int) bool { return l[i].Order < l[j].Order }

// Swap exchanges two list entries.
func (l DriverInfoList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

var registeredDrivers DriverInfoList

// RegisterDriver adds info to the list of drivers the kernel probes during
// hardware detection. It is meant to be called from driver package init
// blocks.
func RegisterDriver(info *DriverInfo) {
	registeredDrivers = append(registeredDrivers, info)
}

// DriverList returns the list of registered drivers.
func DriverList() DriverInfoList {
	return registeredDrivers
}
