package service

import (
	"context"
	"fmt"

	"github.com/sangkips/pos-ledger/internal/domain/repository"
)

// SequenceAllocator hands out the next value of a named counter. It only
// works inside an atomic unit: Reserve runs in the read phase and the
// returned Reservation is applied in the write phase of the same unit, so
// an aborted unit never consumes a value.
type SequenceAllocator struct{}

// NewSequenceAllocator creates a new sequence allocator
func NewSequenceAllocator() *SequenceAllocator {
	return &SequenceAllocator{}
}

// Reservation is a value read but not yet written back.
type Reservation struct {
	Name  string
	Value int64

	// version of the counter row that was read; 0 when it did not exist
	expectedVersion int64
}

// Reserve reads the counter (absent counts as 0) and reserves current+1.
func (a *SequenceAllocator) Reserve(ctx context.Context, r repository.ReadTx, name string) (*Reservation, error) {
	counter, err := r.Counter(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("read counter %s: %w", name, err)
	}

	res := &Reservation{Name: name, Value: 1}
	if counter != nil {
		res.Value = counter.CurrentValue + 1
		res.expectedVersion = counter.Version
	}
	return res, nil
}

// Apply writes the reserved value back. A concurrent allocation between
// Reserve and Apply fails the write with repository.ErrConflict.
func (r *Reservation) Apply(ctx context.Context, w repository.WriteTx) error {
	return w.SaveCounter(ctx, r.Name, r.expectedVersion, r.Value)
}
