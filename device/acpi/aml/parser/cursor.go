package parser

import (
	"unsafe"
)

// Cursor provides sequential, bounds-checked access to a byte stream. It
// tracks a single read offset inside an immutable data window; parsers
// advance the offset on success and restore it on failure so that a failed
// parse leaves no observable trace on the stream.
type Cursor struct {
	data []byte
	off  uint32
}

// NewCursor returns a Cursor reading from the contents of data. The cursor
// borrows data for its lifetime; callers must not mutate it while a parse is
// in flight.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// NewCursorAt returns a Cursor reading dataLen bytes from the virtual memory
// address dataAddr. It is used by kernel code that accesses firmware tables
// through identity-mapped memory.
func NewCursorAt(dataAddr uintptr, dataLen uint32) *Cursor {
	// Overlay a byte slice on top of the memory block to be accessed.
	return &Cursor{
		data: unsafe.Slice((*byte)(unsafe.Pointer(dataAddr)), dataLen),
	}
}

// Offset returns the current read offset.
func (c *Cursor) Offset() uint32 {
	return c.off
}

// SetOffset rewinds or advances the read offset to off. Parsers use it to
// roll the stream back to a previously saved offset.
func (c *Cursor) SetOffset(off uint32) {
	c.off = off
}

// Remaining returns the number of unread bytes in the stream.
func (c *Cursor) Remaining() uint32 {
	return uint32(len(c.data)) - c.off
}

// EOF returns true if the end of the stream has been reached.
func (c *Cursor) EOF() bool {
	return c.off == uint32(len(c.data))
}

// take consumes exactly width bytes and returns the span that was read. If
// fewer than width bytes remain, take returns nil and the offset is not
// advanced.
func (c *Cursor) take(width uint32) []byte {
	if c.Remaining() < width {
		return nil
	}

	span := c.data[c.off : c.off+width]
	c.off += width
	return span
}
