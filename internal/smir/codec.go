package smir

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when the snapshot format changes; decoding rejects mismatches
// instead of misreading old data.
const snapshotSchemaVersion uint16 = 1

// Snapshot is the serializable set of stable allocations exported by
// one session, indexed by stable id order.
type Snapshot struct {
	Schema      uint16
	Allocations []Allocation
}

// NewSnapshot wraps allocations in a versioned snapshot.
func NewSnapshot(allocs []Allocation) *Snapshot {
	return &Snapshot{
		Schema:      snapshotSchemaVersion,
		Allocations: allocs,
	}
}

// EncodeSnapshot writes a snapshot in msgpack form.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	enc := msgpack.NewEncoder(w)
	return enc.Encode(s)
}

// DecodeSnapshot reads a snapshot, rejecting unknown schema versions.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	dec := msgpack.NewDecoder(r)
	var s Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	if s.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("smir: snapshot schema %d, want %d", s.Schema, snapshotSchemaVersion)
	}
	return &s, nil
}
