package format

import (
	"encoding/binary"
	"fmt"
)

// Cursor reads sequentially from an immutable byte buffer.
//
// Every successful read advances the offset by exactly the bytes consumed.
// A read that would run past the end returns ErrTruncatedBuffer and leaves
// the offset unchanged. A Cursor is owned by one parse and is not safe for
// concurrent use.
type Cursor struct {
	buf []byte
	pos int
}

// NewCursor returns a cursor at offset 0 of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) need(n int, what string) error {
	if n < 0 || n > c.Remaining() {
		return fmt.Errorf("%w: %s needs %d bytes at offset %d, %d remain",
			ErrTruncatedBuffer, what, n, c.pos, c.Remaining())
	}
	return nil
}

// ReadByte reads one byte.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.need(1, "byte"); err != nil {
		return 0, err
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadUint32LE reads a little-endian uint32.
func (c *Cursor) ReadUint32LE() (uint32, error) {
	if err := c.need(4, "uint32"); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// ReadBytes returns a view of the next n bytes. The slice aliases the
// underlying buffer and has its capacity capped at n, so appending to it
// cannot overwrite data past the view. Callers must not modify it.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n, "bytes"); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, nil
}

// Skip advances past n bytes without returning them.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n, "skip"); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// readLength reads a u32 length prefix as an int. Lengths beyond the int
// range cannot be satisfied by any buffer and report truncation.
func (c *Cursor) readLength() (int, error) {
	v, err := c.ReadUint32LE()
	if err != nil {
		return 0, err
	}
	if uint64(v) > uint64(maxInt) {
		return 0, fmt.Errorf("%w: length %d exceeds addressable size", ErrTruncatedBuffer, v)
	}
	return int(v), nil
}

const maxInt = int(^uint(0) >> 1)
