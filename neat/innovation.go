package neat

import (
	"bytes"
	"encoding/gob"
	"sync"
)

// MutationKind enumerates the nine structural/attribute mutation operators.
type MutationKind int

const (
	MutateAddNode MutationKind = iota
	MutateAddConnection
	MutateRemoveNode
	MutateRemoveConnection
	MutateWeight
	MutateBias
	MutateActivation
	MutateAggregation
	MutateToggleConnection
)

// GeneKind distinguishes node genes from connection genes for innovation bookkeeping.
type GeneKind int

const (
	GeneNode GeneKind = iota
	GeneConnection
)

// innovationKey is the four-tuple (mutation kind, gene kind, in, out) that two
// independently-arising structural mutations must match on to share an id.
type innovationKey struct {
	Mutation MutationKind
	Gene     GeneKind
	In       uint64
	Out      uint64
}

// InnovationRegistry hands out historical-marking ids so that genomes built in
// different parts of a run, or by different parents, agree on the id of a
// structurally identical gene. It is owned by a single Trainer and must be
// safe under concurrent Acquire calls from parallel mutation/evaluation workers.
type InnovationRegistry struct {
	mu      sync.Mutex
	next    uint64
	records map[innovationKey]uint64
}

// NewInnovationRegistry creates a registry whose first allocated id is start.
func NewInnovationRegistry(start uint64) *InnovationRegistry {
	return &InnovationRegistry{
		next:    start,
		records: make(map[innovationKey]uint64),
	}
}

// Acquire returns the id for the given structural four-tuple, allocating a new
// one on first sight and returning the existing id on every subsequent call
// with the same tuple.
func (r *InnovationRegistry) Acquire(mutation MutationKind, gene GeneKind, in, out uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := innovationKey{Mutation: mutation, Gene: gene, In: in, Out: out}
	if id, ok := r.records[key]; ok {
		return id, nil
	}
	if r.next == ^uint64(0) {
		return 0, newErr(ErrInnovationExhausted, "innovation counter wrapped", nil)
	}
	id := r.next
	r.next++
	r.records[key] = id
	return id, nil
}

// Reset clears all recorded innovations and reseeds the counter, used when
// starting a fresh run from an existing registry instance.
func (r *InnovationRegistry) Reset(start uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next = start
	r.records = make(map[innovationKey]uint64)
}

// Peek returns the next id that would be allocated, without allocating it.
func (r *InnovationRegistry) Peek() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next
}

// innovationRecord is the exported, gob-friendly form of one records entry;
// InnovationRegistry itself can't be gob-encoded directly since its fields
// are unexported.
type innovationRecord struct {
	Mutation MutationKind
	Gene     GeneKind
	In       uint64
	Out      uint64
	ID       uint64
}

// GobEncode flattens the registry's counter and records map into a slice of
// exported records so checkpointing can carry the full innovation history.
func (r *InnovationRegistry) GobEncode() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]innovationRecord, 0, len(r.records))
	for k, id := range r.records {
		records = append(records, innovationRecord{Mutation: k.Mutation, Gene: k.Gene, In: k.In, Out: k.Out, ID: id})
	}
	payload := struct {
		Next    uint64
		Records []innovationRecord
	}{Next: r.next, Records: records}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode rebuilds the records map and counter from GobEncode's payload.
func (r *InnovationRegistry) GobDecode(data []byte) error {
	var payload struct {
		Next    uint64
		Records []innovationRecord
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
		return err
	}

	r.next = payload.Next
	r.records = make(map[innovationKey]uint64, len(payload.Records))
	for _, rec := range payload.Records {
		r.records[innovationKey{Mutation: rec.Mutation, Gene: rec.Gene, In: rec.In, Out: rec.Out}] = rec.ID
	}
	return nil
}
