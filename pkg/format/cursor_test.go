package format

import (
	"errors"
	"testing"
)

func TestCursorReads(t *testing.T) {
	c := NewCursor([]byte{0x6f, 0x01, 0x02, 0x03, 0x04, 0xaa, 0xbb, 0xcc})

	b, err := c.ReadByte()
	if err != nil || b != 0x6f {
		t.Fatalf("ReadByte = %d, %v; want 111", b, err)
	}
	if c.Offset() != 1 {
		t.Errorf("Offset = %d, want 1", c.Offset())
	}

	v, err := c.ReadUint32LE()
	if err != nil {
		t.Fatalf("ReadUint32LE: %v", err)
	}
	if v != 0x04030201 {
		t.Errorf("ReadUint32LE = %#x, want 0x04030201", v)
	}
	if c.Offset() != 5 {
		t.Errorf("Offset = %d, want 5", c.Offset())
	}

	got, err := c.ReadBytes(2)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if len(got) != 2 || got[0] != 0xaa || got[1] != 0xbb {
		t.Errorf("ReadBytes = %x, want aabb", got)
	}
	if cap(got) != 2 {
		t.Errorf("cap(ReadBytes) = %d, want 2", cap(got))
	}
	if c.Remaining() != 1 {
		t.Errorf("Remaining = %d, want 1", c.Remaining())
	}

	if err := c.Skip(1); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", c.Remaining())
	}
}

func TestCursorReadBytesIsView(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	c := NewCursor(buf)
	if err := c.Skip(1); err != nil {
		t.Fatal(err)
	}
	view, err := c.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}
	if &view[0] != &buf[1] {
		t.Error("ReadBytes copied instead of returning a view")
	}
}

func TestCursorTruncation(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		read func(c *Cursor) error
	}{
		{"byte on empty", nil, func(c *Cursor) error { _, err := c.ReadByte(); return err }},
		{"uint32 short", []byte{1, 2, 3}, func(c *Cursor) error { _, err := c.ReadUint32LE(); return err }},
		{"bytes short", []byte{1, 2, 3}, func(c *Cursor) error { _, err := c.ReadBytes(4); return err }},
		{"bytes negative", []byte{1, 2, 3}, func(c *Cursor) error { _, err := c.ReadBytes(-1); return err }},
		{"skip short", []byte{1}, func(c *Cursor) error { return c.Skip(2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.buf)
			err := tt.read(c)
			if !errors.Is(err, ErrTruncatedBuffer) {
				t.Fatalf("err = %v, want ErrTruncatedBuffer", err)
			}
			if c.Offset() != 0 {
				t.Errorf("Offset = %d after failed read, want 0", c.Offset())
			}
		})
	}
}

func TestCursorZeroLengthRead(t *testing.T) {
	c := NewCursor(nil)
	b, err := c.ReadBytes(0)
	if err != nil {
		t.Fatalf("ReadBytes(0): %v", err)
	}
	if len(b) != 0 {
		t.Errorf("len = %d, want 0", len(b))
	}
}
