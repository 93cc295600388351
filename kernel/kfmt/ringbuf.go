package kfmt

import "io"

// ringBufferSize defines the capacity of the ring buffer that captures early
// Printf output. The default fits the contents of a standard 80x25 text-mode
// console. The size must always be a power of 2.
const ringBufferSize = 2048

// ringBuffer buffers Printf output generated before the console and TTY
// systems come up. The buffered region is tracked as a start offset plus a
// byte count; once the count reaches the capacity each new byte evicts the
// oldest one.
type ringBuffer struct {
	data  [ringBufferSize]byte
	start uint32
	used  uint32
}

// Write appends the contents of p to the ring buffer, evicting the oldest
// bytes when the buffer is full.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.data[(rb.start+rb.used)&(ringBufferSize-1)] = b
		if rb.used == ringBufferSize {
			// The byte just written replaced the oldest one.
			rb.start = (rb.start + 1) & (ringBufferSize - 1)
		} else {
			rb.used++
		}
	}

	return len(p), nil
}

// Read copies up to len(p) buffered bytes into p, oldest first. It returns
// io.EOF once the buffer has been fully drained.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.used == 0 {
		return 0, io.EOF
	}

	n := rb.used
	if pLen := uint32(len(p)); n > pLen {
		n = pLen
	}

	// A single drain never crosses the wrap point; the next Read picks up
	// the remainder from the start of the backing array.
	if run := ringBufferSize - rb.start; n > run {
		n = run
	}

	copy(p, rb.data[rb.start:rb.start+n])
	rb.start = (rb.start + n) & (ringBufferSize - 1)
	rb.used -= n

	return int(n), nil
}
