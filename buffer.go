package markov

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// SymbolBuffer is an owned, length-bounded sequence of symbols. It backs
// both training-input framing and the rolling context scratch used by
// the predictor, the same dual role string16.c's STRING16 plays in the
// original source.
type SymbolBuffer struct {
	data   []Symbol
	length int
}

// NewSymbolBuffer allocates a buffer with the given capacity.
func NewSymbolBuffer(capacity int) *SymbolBuffer {
	return &SymbolBuffer{data: make([]Symbol, capacity)}
}

// Len returns the current logical length.
func (b *SymbolBuffer) Len() int {
	return b.length
}

// Cap returns the allocated capacity.
func (b *SymbolBuffer) Cap() int {
	return len(b.data)
}

// Get returns the symbol at index i.
func (b *SymbolBuffer) Get(i int) Symbol {
	return b.data[i]
}

// Put sets the symbol at index i, growing the logical length if needed.
func (b *SymbolBuffer) Put(i int, v Symbol) {
	b.data[i] = v
	if i+1 > b.length {
		b.length = i + 1
	}
}

// CopySlice copies n symbols from src starting at offset into this
// buffer's prefix, setting this buffer's length to n.
func (b *SymbolBuffer) CopySlice(src *SymbolBuffer, offset, n int) error {
	if offset+n > src.Cap() {
		return errors.Errorf("markov: copy_slice out of range: offset=%d n=%d cap=%d", offset, n, src.Cap())
	}
	if n > b.Cap() {
		return errors.Errorf("markov: copy_slice destination too small: n=%d cap=%d", n, b.Cap())
	}
	copy(b.data[:n], src.data[offset:offset+n])
	b.length = n
	return nil
}

// ShiftLeft drops element 0, preserving order, and decrements length.
func (b *SymbolBuffer) ShiftLeft() {
	if b.length == 0 {
		return
	}
	copy(b.data[:b.length-1], b.data[1:b.length])
	b.length--
}

// ReadFromStream performs a raw little-endian read of up to max 16-bit
// symbols from r, setting this buffer's length to the number actually
// read. It returns io.EOF only once no symbols at all were read, mirroring
// fread16's zero-length-read end-of-file signal (spec.md §9: "no
// EOF-in-band signalling in files").
func (b *SymbolBuffer) ReadFromStream(r io.Reader, max int) (int, error) {
	if max > b.Cap() {
		max = b.Cap()
	}
	raw := make([]byte, 2)
	n := 0
	for n < max {
		if _, err := io.ReadFull(r, raw); err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				break
			}
			return n, errors.Wrap(err, "markov: short read from stream")
		}
		b.data[n] = Symbol(int16(binary.LittleEndian.Uint16(raw)))
		n++
	}
	b.length = n
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// FormatHex renders the buffer as a space-separated hex string, for
// diagnostics only (mirrors string16.c's format_string16).
func (b *SymbolBuffer) FormatHex() string {
	s := ""
	for i := 0; i < b.length; i++ {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%04x", uint16(b.data[i]))
	}
	return s
}
