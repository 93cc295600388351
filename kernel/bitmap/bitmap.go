// Package bitmap implements a fixed-size bit set backed by a word slice. It
// is used by kernel subsystems that track the state of densely indexed
// resources, primarily physical frame reservations.
package bitmap

const wordBits = 64

// Bitmap tracks len bits across a []uint64 backing slice and maintains a
// running count of the set bits so callers can test for exhaustion without a
// scan.
type Bitmap struct {
	words    []uint64
	numBits  uint32
	setCount uint32
}

// WordsFor returns the number of uint64 words required to track numBits bits.
func WordsFor(numBits uint32) uint32 {
	return ((numBits + wordBits - 1) &^ (wordBits - 1)) / wordBits
}

// New returns a Bitmap tracking numBits bits stored in words. The caller
// provides the backing slice so that early boot code can carve it out of
// whatever memory is available before the allocator is up. All bits start
// cleared; words must hold at least WordsFor(numBits) entries and be zeroed.
func New(numBits uint32, words []uint64) Bitmap {
	return Bitmap{
		words:   words,
		numBits: numBits,
	}
}

// Len returns the number of bits tracked by the bitmap.
func (b *Bitmap) Len() uint32 {
	return b.numBits
}

// SetCount returns the number of set bits.
func (b *Bitmap) SetCount() uint32 {
	return b.setCount
}

// Bit returns true if bit index is set. Out of range indices report false.
func (b *Bitmap) Bit(index uint32) bool {
	if index >= b.numBits {
		return false
	}

	return b.words[index/wordBits]&(1<<(index%wordBits)) != 0
}

// Set sets bit index.
func (b *Bitmap) Set(index uint32) {
	if index >= b.numBits || b.Bit(index) {
		return
	}

	b.words[index/wordBits] |= 1 << (index % wordBits)
	b.setCount++
}

// Clear clears bit index.
func (b *Bitmap) Clear(index uint32) {
	if index >= b.numBits || !b.Bit(index) {
		return
	}

	b.words[index/wordBits] &^= 1 << (index % wordBits)
	b.setCount--
}

// Toggle flips bit index and returns its new value. Out of range indices are
// ignored and report false, matching Bit.
func (b *Bitmap) Toggle(index uint32) bool {
	if index >= b.numBits {
		return false
	}

	if b.Bit(index) {
		b.Clear(index)
		return false
	}

	b.Set(index)
	return true
}

// SetRange sets every bit in the inclusive range [from, to].
func (b *Bitmap) SetRange(from, to uint32) {
	for index := from; index <= to; index++ {
		b.Set(index)
		if index == b.numBits {
			return
		}
	}
}

// ClearRange clears every bit in the inclusive range [from, to].
func (b *Bitmap) ClearRange(from, to uint32) {
	for index := from; index <= to; index++ {
		b.Clear(index)
		if index == b.numBits {
			return
		}
	}
}

// FirstClear returns the index of the lowest cleared bit. The second return
// value is false if every bit is set.
func (b *Bitmap) FirstClear() (uint32, bool) {
	if b.setCount == b.numBits {
		return 0, false
	}

	for wordIndex, word := range b.words {
		if word == ^uint64(0) {
			continue
		}

		for bit := uint32(0); bit < wordBits; bit++ {
			index := uint32(wordIndex)*wordBits + bit
			if index >= b.numBits {
				break
			}

			if word&(1<<bit) == 0 {
				return index, true
			}
		}
	}

	return 0, false
}
