//go:build !386

package cpu

// Host-side no-op implementations so that packages which link against cpu can
// be unit tested outside the 386 kernel target. Tests observe hardware access
// through the function-variable seams in the packages under test, never by
// calling these directly.

// EnableInterrupts enables interrupt handling (STI).
func EnableInterrupts() {}

// DisableInterrupts disables interrupt handling (CLI).
func DisableInterrupts() {}

// Halt stops instruction execution until the next interrupt arrives.
func Halt() {}

// SoftInterrupt raises software interrupt vector 0x20 which hands control to
// the scheduler.
func SoftInterrupt() {}

// PortWriteByte writes a uint8 value to the requested I/O port.
func PortWriteByte(port uint16, val uint8) {}

// PortReadByte reads a uint8 value from the requested I/O port.
func PortReadByte(port uint16) uint8 { return 0 }
