package irq

import "vireo/kernel/cpu"

// 8259A controller ports. The master services IRQ 0-7, the slave IRQ 8-15 and
// is cascaded through master line 2.
const (
	picMasterCmd  = 0x20
	picMasterData = 0x21
	picSlaveCmd   = 0xa0
	picSlaveData  = 0xa1

	picICW1Init   = 0x10
	picICW1NeedW4 = 0x01
	picICW4Mode86 = 0x01

	picCascadeIRQ = 2

	picCmdEOI = 0x20
)

var (
	// The following functions are used by tests to mock port access and
	// are automatically inlined by the compiler.
	portWriteByteFn = cpu.PortWriteByte
	portReadByteFn  = cpu.PortReadByte

	// The vector offsets the two controllers were remapped to.
	masterOffset uint8
	slaveOffset  uint8
)

// PICInit remaps the two cascaded 8259A controllers so that the 16 hardware
// IRQ lines are delivered at offsetMaster and offsetSlave instead of the
// power-on defaults which collide with the CPU exception vectors. All IRQ
// lines except the cascade line are left masked; drivers unmask what they
// service.
func PICInit(offsetMaster, offsetSlave uint8) {
	masterOffset = offsetMaster
	slaveOffset = offsetSlave

	// ICW1: begin initialization, ICW4 follows.
	portWriteByteFn(picMasterCmd, picICW1Init|picICW1NeedW4)
	portWriteByteFn(picSlaveCmd, picICW1Init|picICW1NeedW4)

	// ICW2: vector offsets.
	portWriteByteFn(picMasterData, offsetMaster)
	portWriteByteFn(picSlaveData, offsetSlave)

	// ICW3: wire the slave to master line 2.
	portWriteByteFn(picMasterData, 1<<picCascadeIRQ)
	portWriteByteFn(picSlaveData, picCascadeIRQ)

	// ICW4: 8086 mode.
	portWriteByteFn(picMasterData, picICW4Mode86)
	portWriteByteFn(picSlaveData, picICW4Mode86)

	// Mask everything but the cascade line.
	portWriteByteFn(picMasterData, 0xff&^(1<<picCascadeIRQ))
	portWriteByteFn(picSlaveData, 0xff)
}

// EOI acknowledges the interrupt identified by vector so the controller can
// deliver further interrupts on that line. Vectors handled by the slave
// controller are acknowledged on both chips.
func EOI(vector uint8) {
	if vector >= slaveOffset && vector < slaveOffset+8 {
		portWriteByteFn(picSlaveCmd, picCmdEOI)
	}

	portWriteByteFn(picMasterCmd, picCmdEOI)
}

// SetIRQMask masks the requested IRQ line, suppressing its delivery.
func SetIRQMask(line uint8) {
	port := uint16(picMasterData)
	if line >= 8 {
		port = picSlaveData
		line -= 8
	}

	portWriteByteFn(port, portReadByteFn(port)|1<<line)
}

// ClearIRQMask unmasks the requested IRQ line.
func ClearIRQMask(line uint8) {
	port := uint16(picMasterData)
	if line >= 8 {
		port = picSlaveData
		line -= 8
	}

	portWriteByteFn(port, portReadByteFn(port)&^(1<<line))
}
