// Package proc tracks the kernel's view of processes. Only the pieces needed
// by the termination path live here; address-space setup and context
// switching are handled by the architecture layer.
package proc

// PID identifies a process.
type PID uint32

// State describes the lifecycle state of a process.
type State uint8

// The list of process states.
const (
	// StateReady marks a process that is waiting on the run queue.
	StateReady State = iota

	// StateRunning marks the process that currently owns the CPU.
	StateRunning

	// StateZombie marks a terminated process whose exit status has not
	// been collected by its parent yet.
	StateZombie
)

// String implements fmt.Stringer for State.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateZombie:
		return "zombie"
	default:
		return "unknown"
	}
}

// Process describes a single process.
type Process struct {
	pid   PID
	state State

	// exitStatus holds the low byte of the status passed to Exit. It is
	// only meaningful while state == StateZombie.
	exitStatus uint8
}

// runQueue tracks the processes that compete for the CPU.
var runQueue []*Process

// Spawn registers a new ready process with the scheduler and returns it.
func Spawn(pid PID) *Process {
	p := &Process{pid: pid}
	runQueue = append(runQueue, p)
	return p
}

// PID returns the process identifier.
func (p *Process) PID() PID {
	return p.pid
}

// State returns the current lifecycle state of the process.
func (p *Process) State() State {
	return p.state
}

// ExitStatus returns the status a zombie process terminated with.
func (p *Process) ExitStatus() uint8 {
	return p.exitStatus
}

// SetRunning marks the process as owning the CPU.
func (p *Process) SetRunning() {
	p.state = StateRunning
}

// Exit terminates the process: its exit status is recorded for the parent to
// collect, it becomes a zombie and it no longer competes for the CPU. The
// caller is responsible for handing control back to the scheduler.
func (p *Process) Exit(status uint8) {
	p.exitStatus = status
	p.state = StateZombie

	for i, queued := range runQueue {
		if queued == p {
			runQueue = append(runQueue[:i], runQueue[i+1:]...)
			break
		}
	}
}

// RunnableCount returns the number of processes still competing for the CPU.
func RunnableCount() int {
	return len(runQueue)
}
