package codec

import (
	"context"
	"fmt"
	"os"
)

// SubstitutionSize is the length of a byte-substitution table.
const SubstitutionSize = 256

// Substitution is a Compaction that maps every input byte b to table[b].
// The input is never modified; Decode returns a fresh slice.
type Substitution struct {
	table [SubstitutionSize]byte
}

// NewSubstitution builds a Substitution from a 256-byte decode table.
func NewSubstitution(table []byte) (*Substitution, error) {
	if len(table) != SubstitutionSize {
		return nil, fmt.Errorf("substitution table: got %d bytes, want %d", len(table), SubstitutionSize)
	}
	s := &Substitution{}
	copy(s.table[:], table)
	return s, nil
}

// LoadSubstitution reads a decode table from path.
func LoadSubstitution(path string) (*Substitution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read substitution table: %w", err)
	}
	return NewSubstitution(data)
}

// Decode applies the table to data.
func (s *Substitution) Decode(ctx context.Context, data []byte) ([]byte, error) {
	out := make([]byte, len(data))
	for i, b := range data {
		// Large buffers can take a while; honour cancellation every 1 MiB.
		if i&(1<<20-1) == 0 && i > 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = s.table[b]
	}
	return out, nil
}
