// Package kmain hosts the kernel entry point invoked by the rt0 assembly
// stub once the CPU is in 32-bit protected mode with a usable Go stack.
package kmain

import (
	"sort"

	"vireo/device"
	"vireo/kernel/cpu"
	"vireo/kernel/irq"
	"vireo/kernel/kfmt"
	"vireo/kernel/mem/pmm"
	"vireo/kernel/syscall"
	"vireo/multiboot"
)

// The remapped PIC bases. The master must land on VectorScheduler so that
// IRQ0 drives the scheduler tick.
const (
	picMasterOffset = 0x20
	picSlaveOffset  = 0x28
)

// FrameAllocator is the system-wide physical frame allocator. It is
// initialized by Kmain before any driver probes run.
var FrameAllocator pmm.BitmapAllocator

// Kmain is the only Go symbol exported to the rt0 initialization code. The
// rt0 stub passes the physical address of the multiboot info payload provided
// by the bootloader.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the
// CPU.
//
//go:noinline
func Kmain(multibootInfoPtr uintptr) {
	multiboot.SetInfoPtr(multibootInfoPtr)

	kfmt.Printf("vireo: booted via %s\n", multiboot.GetLoaderName())
	printBootInfo()

	irq.PICInit(picMasterOffset, picSlaveOffset)
	syscall.Init()

	if err := FrameAllocator.Init(); err != nil {
		panic(err)
	}
	kfmt.Printf("pmm: managing %d frames\n", FrameAllocator.TotalFrames())

	detectHardware()

	cpu.EnableInterrupts()
	for {
		cpu.Halt()
	}
}

// printBootInfo logs the memory layout reported by the bootloader.
func printBootInfo() {
	if memLower, memUpper, ok := multiboot.GetBasicMemInfo(); ok {
		kfmt.Printf("mem: lower %dKB, upper %dKB\n", memLower, memUpper)
	}

	multiboot.VisitMemRegions(func(region *multiboot.MemoryMapEntry) bool {
		kfmt.Printf("mem: region %16x - %16x %s\n",
			region.PhysAddress,
			region.PhysAddress+region.Length,
			region.Type.String(),
		)
		return true
	})
}

// detectHardware probes the registered drivers in detection order and
// initializes those that report their hardware present.
func detectHardware() {
	drivers := device.DriverList()
	sort.Sort(drivers)

	w := kfmt.GetOutputSink()
	for _, info := range drivers {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(w, "hal: %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)

		if err := drv.DriverInit(w); err != nil {
			kfmt.Fprintf(w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(w, "initialized\n")
	}
}
