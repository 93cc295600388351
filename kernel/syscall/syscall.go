// Package syscall implements the kernel side of the int 0x80 gate: a
// dispatch table indexed by the syscall number in EAX and the handlers behind
// it.
package syscall

import (
	"vireo/kernel"
	"vireo/kernel/cpu"
	"vireo/kernel/irq"
	"vireo/kernel/proc"
)

// The syscall numbers recognized by the dispatcher.
const (
	SysExit = 0x01
)

// maxSyscall bounds the dispatch table.
const maxSyscall = 0x40

var (
	errBadSyscall = &kernel.Error{Module: "syscall", Message: "unknown syscall number"}

	// The following functions are used by tests to mock hardware access
	// and are automatically inlined by the compiler.
	picEOIFn           = irq.EOI
	enableInterruptsFn = cpu.EnableInterrupts
	rescheduleFn       = cpu.SoftInterrupt
	haltFn             = cpu.Halt

	handlers [maxSyscall]handlerFn
)

// handlerFn executes a syscall on behalf of p. The returned value is stored
// into the caller's EAX by the gate stub.
type handlerFn func(p *proc.Process, regs *irq.Regs) uint32

// Init populates the syscall dispatch table. It must be invoked before
// interrupts are enabled.
func Init() {
	handlers[SysExit] = sysExit
}

// Dispatch routes a syscall trap to its handler. It is invoked by the int
// 0x80 gate stub with the current process and a snapshot of its registers;
// the syscall number travels in EAX. Unknown numbers report errBadSyscall
// and leave the process untouched.
func Dispatch(p *proc.Process, regs *irq.Regs) *kernel.Error {
	num := regs.EAX
	if num >= maxSyscall || handlers[num] == nil {
		return errBadSyscall
	}

	regs.EAX = handlers[num](p, regs)
	return nil
}

// sysExit terminates the calling process with the status passed in EBX. The
// interrupt that carried the trap is acknowledged at the PIC, interrupts are
// re-enabled and control is handed to the scheduler by raising its software
// interrupt; execution never resumes here. The halt loop guards against a
// spurious return from the scheduler gate.
func sysExit(p *proc.Process, regs *irq.Regs) uint32 {
	p.Exit(uint8(regs.EBX))

	picEOIFn(irq.VectorSyscall)
	enableInterruptsFn()
	rescheduleFn()

	for {
		haltFn()
	}
}
