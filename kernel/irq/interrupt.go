// Package irq provides the interrupt plumbing for the 32-bit kernel: the
// register frame layout pushed on interrupt entry, the well known vector
// numbers and the 8259A interrupt controller driver.
package irq

import "vireo/kernel/kfmt"

// The software interrupt vectors wired up by the kernel.
const (
	// VectorScheduler is raised to force a reschedule.
	VectorScheduler = 0x20

	// VectorSyscall is the gate user code invokes to enter the kernel.
	VectorSyscall = 0x80
)

// Regs contains a snapshot of the general purpose register values at the
// time an interrupt occurred, in the order PUSHA stores them.
type Regs struct {
	EDI uint32
	ESI uint32
	EBP uint32
	ESP uint32
	EBX uint32
	EDX uint32
	ECX uint32
	EAX uint32
}

// Print outputs a dump of the register values to the active console.
func (r *Regs) Print() {
	kfmt.Printf("EAX = %8x EBX = %8x\n", r.EAX, r.EBX)
	kfmt.Printf("ECX = %8x EDX = %8x\n", r.ECX, r.EDX)
	kfmt.Printf("ESI = %8x EDI = %8x\n", r.ESI, r.EDI)
	kfmt.Printf("EBP = %8x ESP = %8x\n", r.EBP, r.ESP)
}

// Frame describes the exception frame that the CPU pushes to the stack when
// an interrupt fires.
type Frame struct {
	EIP    uint32
	CS     uint32
	EFlags uint32
}

// Print outputs a dump of the exception frame to the active console.
func (f *Frame) Print() {
	kfmt.Printf("EIP = %8x CS  = %8x\n", f.EIP, f.CS)
	kfmt.Printf("EFL = %8x\n", f.EFlags)
}
