// Package pmm manages physical memory frame allocations.
package pmm

import (
	"math"

	"vireo/kernel"
	"vireo/kernel/bitmap"
	"vireo/multiboot"
)

const (
	// PageShift is log2 of the page size for the 32-bit target.
	PageShift = 12

	// PageSize is the size of a physical page in bytes.
	PageSize = 1 << PageShift
)

// Frame describes a physical memory page index.
type Frame uint32

// InvalidFrame is returned by the allocator when it fails to reserve a frame.
const InvalidFrame = Frame(math.MaxUint32)

// Valid returns true if this is a valid frame.
func (f Frame) Valid() bool {
	return f != InvalidFrame
}

// Address returns the physical memory address this Frame points to.
func (f Frame) Address() uintptr {
	return uintptr(f) << PageShift
}

var (
	errOutOfMemory      = &kernel.Error{Module: "pmm", Message: "out of physical memory"}
	errFrameNotManaged  = &kernel.Error{Module: "pmm", Message: "frame not managed by this allocator"}
	errFrameNotReserved = &kernel.Error{Module: "pmm", Message: "frame is not reserved"}

	// visitMemRegionsFn is used by tests to mock multiboot memory map access.
	visitMemRegionsFn = multiboot.VisitMemRegions
)

// framePool tracks the reservation state for a contiguous run of frames
// carved out of one available memory region. Each set bit i in the bitmap
// marks frame (startFrame + i) as reserved.
type framePool struct {
	startFrame Frame

	// endFrame is exclusive; the pool covers [startFrame, endFrame).
	endFrame Frame

	reserved bitmap.Bitmap
}

// BitmapAllocator implements a physical frame allocator that tracks frame
// reservations across the available memory pools using bitmaps.
type BitmapAllocator struct {
	pools []framePool

	totalFrames    uint32
	reservedFrames uint32
}

// Init scans the memory regions reported by the bootloader and builds a frame
// pool for each available region. Reported addresses may not be page-aligned
// so region bounds are rounded inward; regions smaller than a page are
// skipped. Init must run after the Go runtime bootstrap as it allocates the
// pool bitmaps from the kernel heap.
func (alloc *BitmapAllocator) Init() *kernel.Error {
	visitMemRegionsFn(func(region *multiboot.MemoryMapEntry) bool {
		if region.Type != multiboot.MemAvailable {
			return true
		}

		startFrame := Frame((region.PhysAddress + PageSize - 1) >> PageShift)
		endFrame := Frame((region.PhysAddress + region.Length) >> PageShift)
		if endFrame <= startFrame {
			return true
		}

		frameCount := uint32(endFrame - startFrame)
		alloc.pools = append(alloc.pools, framePool{
			startFrame: startFrame,
			endFrame:   endFrame,
			reserved:   bitmap.New(frameCount, make([]uint64, bitmap.WordsFor(frameCount))),
		})
		alloc.totalFrames += frameCount

		return true
	})

	if alloc.totalFrames == 0 {
		return errOutOfMemory
	}

	return nil
}

// AllocFrame reserves and returns the first free frame. It returns
// InvalidFrame together with an error if every managed frame is reserved.
func (alloc *BitmapAllocator) AllocFrame() (Frame, *kernel.Error) {
	for poolIndex := range alloc.pools {
		pool := &alloc.pools[poolIndex]

		// Fully reserved pools are skipped without scanning their bitmap.
		index, ok := pool.reserved.FirstClear()
		if !ok {
			continue
		}

		pool.reserved.Set(index)
		alloc.reservedFrames++
		return pool.startFrame + Frame(index), nil
	}

	return InvalidFrame, errOutOfMemory
}

// FreeFrame releases a frame previously returned by AllocFrame. Releasing a
// frame outside the managed pools or one that is not currently reserved is an
// error.
func (alloc *BitmapAllocator) FreeFrame(frame Frame) *kernel.Error {
	for poolIndex := range alloc.pools {
		pool := &alloc.pools[poolIndex]
		if frame < pool.startFrame || frame >= pool.endFrame {
			continue
		}

		index := uint32(frame - pool.startFrame)
		if !pool.reserved.Bit(index) {
			return errFrameNotReserved
		}

		pool.reserved.Clear(index)
		alloc.reservedFrames--
		return nil
	}

	return errFrameNotManaged
}

// TotalFrames returns the number of frames managed by the allocator.
func (alloc *BitmapAllocator) TotalFrames() uint32 {
	return alloc.totalFrames
}

// ReservedFrames returns the number of currently reserved frames.
func (alloc *BitmapAllocator) ReservedFrames() uint32 {
	return alloc.reservedFrames
}
