package cpu

// EnableInterrupts enables interrupt handling (STI).
func EnableInterrupts()

// DisableInterrupts disables interrupt handling (CLI).
func DisableInterrupts()

// Halt stops instruction execution until the next interrupt arrives.
func Halt()

// SoftInterrupt raises software interrupt vector 0x20 which hands control to
// the scheduler. The x86 INT instruction only accepts an immediate vector so
// the vector choice is baked into the assembly implementation.
func SoftInterrupt()

// PortWriteByte writes a uint8 value to the requested I/O port.
func PortWriteByte(port uint16, val uint8)

// PortReadByte reads a uint8 value from the requested I/O port.
func PortReadByte(port uint16) uint8
