package irq

import "testing"

type portOp struct {
	port  uint16
	val   uint8
	write bool
}

func mockPorts(t *testing.T, readVal uint8) (*[]portOp, func()) {
	var ops []portOp

	origWrite, origRead := portWriteByteFn, portReadByteFn
	portWriteByteFn = func(port uint16, val uint8) {
		ops = append(ops, portOp{port: port, val: val, write: true})
	}
	portReadByteFn = func(port uint16) uint8 {
		ops = append(ops, portOp{port: port})
		return readVal
	}

	return &ops, func() {
		portWriteByteFn, portReadByteFn = origWrite, origRead
	}
}

func TestPICInit(t *testing.T) {
	ops, restore := mockPorts(t, 0)
	defer restore()

	PICInit(0x20, 0x28)

	expOps := []portOp{
		{picMasterCmd, 0x11, true},
		{picSlaveCmd, 0x11, true},
		{picMasterData, 0x20, true},
		{picSlaveData, 0x28, true},
		{picMasterData, 0x04, true},
		{picSlaveData, 0x02, true},
		{picMasterData, 0x01, true},
		{picSlaveData, 0x01, true},
		{picMasterData, 0xfb, true},
		{picSlaveData, 0xff, true},
	}

	if exp, got := len(expOps), len(*ops); got != exp {
		t.Fatalf("expected %d port operations; got %d", exp, got)
	}

	for opIndex, exp := range expOps {
		if got := (*ops)[opIndex]; got != exp {
			t.Errorf("[op %d] expected port operation %+v; got %+v", opIndex, exp, got)
		}
	}
}

func TestEOI(t *testing.T) {
	ops, restore := mockPorts(t, 0)
	defer restore()

	masterOffset, slaveOffset = 0x20, 0x28

	// A master-handled vector only acknowledges the master chip.
	EOI(0x20)
	if exp, got := 1, len(*ops); got != exp {
		t.Fatalf("expected %d port operation; got %d", exp, got)
	}
	if exp, got := (portOp{picMasterCmd, picCmdEOI, true}), (*ops)[0]; got != exp {
		t.Fatalf("expected %+v; got %+v", exp, got)
	}

	// A slave-handled vector acknowledges both chips, slave first.
	*ops = nil
	EOI(0x2a)
	expOps := []portOp{
		{picSlaveCmd, picCmdEOI, true},
		{picMasterCmd, picCmdEOI, true},
	}
	if exp, got := len(expOps), len(*ops); got != exp {
		t.Fatalf("expected %d port operations; got %d", exp, got)
	}
	for opIndex, exp := range expOps {
		if got := (*ops)[opIndex]; got != exp {
			t.Errorf("[op %d] expected %+v; got %+v", opIndex, exp, got)
		}
	}

	// The syscall gate is raised by software; only the master needs an ack.
	*ops = nil
	EOI(VectorSyscall)
	if exp, got := 1, len(*ops); got != exp {
		t.Fatalf("expected %d port operation; got %d", exp, got)
	}
}

func TestIRQMasking(t *testing.T) {
	ops, restore := mockPorts(t, 0xa5)
	defer restore()

	SetIRQMask(1)
	expOps := []portOp{
		{port: picMasterData},
		{picMasterData, 0xa5 | 1<<1, true},
	}
	for opIndex, exp := range expOps {
		if got := (*ops)[opIndex]; got != exp {
			t.Errorf("[op %d] expected %+v; got %+v", opIndex, exp, got)
		}
	}

	*ops = nil
	ClearIRQMask(10)
	expOps = []portOp{
		{port: picSlaveData},
		{picSlaveData, 0xa5 &^ (1 << 2), true},
	}
	for opIndex, exp := range expOps {
		if got := (*ops)[opIndex]; got != exp {
			t.Errorf("[op %d] expected %+v; got %+v", opIndex, exp, got)
		}
	}
}
