package param

import (
	"math"
	"sync/atomic"

	"github.com/vsariola/cave"
)

type (
	// Store is a fixed table of parameter cells indexed by parameter id. Value
	// and Set are wait-free and never allocate, so they are safe to call from
	// the audio thread while the editor and the host main thread use the same
	// store.
	//
	// A read always returns a value that was written at some point (the bits
	// are stored atomically), but a reader may not yet see the latest write.
	// Writes are not clamped: the last writer wins.
	Store struct {
		descs []Descriptor
		cells []cell // indexed by ParamID
	}

	cell struct {
		bits  atomic.Uint64
		index int // position in descs, -1 if no parameter has this id
	}
)

// NewStore creates a store for the given parameters, each initialized to its
// default value. Ids should be small, as the table is indexed by id. Panics if
// two descriptors share an id.
func NewStore(descs ...Descriptor) *Store {
	var maxID cave.ParamID
	for _, d := range descs {
		maxID = max(maxID, d.ID)
	}
	s := &Store{descs: append([]Descriptor(nil), descs...)}
	if len(descs) > 0 {
		s.cells = make([]cell, maxID+1)
	}
	for i := range s.cells {
		s.cells[i].index = -1
	}
	for i, d := range s.descs {
		c := &s.cells[d.ID]
		if c.index >= 0 {
			panic("param: duplicate parameter id " + d.String())
		}
		c.index = i
		c.bits.Store(math.Float64bits(d.Default))
	}
	return s
}

// NewDefaultStore creates a store holding all the parameters of the
// instrument.
func NewDefaultStore() *Store {
	return NewStore(All...)
}

func (s *Store) cell(id cave.ParamID) *cell {
	if int(id) >= len(s.cells) || s.cells[id].index < 0 {
		return nil
	}
	return &s.cells[id]
}

// Value returns the current value of the parameter. ok is false for ids
// that are not part of the store.
func (s *Store) Value(id cave.ParamID) (value float64, ok bool) {
	c := s.cell(id)
	if c == nil {
		return 0, false
	}
	return math.Float64frombits(c.bits.Load()), true
}

// Set stores the value as given. Unknown ids are ignored and reported with
// ok == false; hosts may send ids of other plugin versions.
func (s *Store) Set(id cave.ParamID, value float64) (ok bool) {
	c := s.cell(id)
	if c == nil {
		return false
	}
	c.bits.Store(math.Float64bits(value))
	return true
}

// Reset sets the parameter back to its default value.
func (s *Store) Reset(id cave.ParamID) bool {
	d, ok := s.Lookup(id)
	if !ok {
		return false
	}
	return s.Set(id, d.Default)
}

// Count returns the number of parameters in the store.
func (s *Store) Count() int { return len(s.descs) }

// Descriptor returns the descriptor at the given enumeration index.
func (s *Store) Descriptor(index int) (Descriptor, bool) {
	if index < 0 || index >= len(s.descs) {
		return Descriptor{}, false
	}
	return s.descs[index], true
}

// Lookup returns the descriptor with the given id.
func (s *Store) Lookup(id cave.ParamID) (Descriptor, bool) {
	c := s.cell(id)
	if c == nil {
		return Descriptor{}, false
	}
	return s.descs[c.index], true
}

// Gain returns the current gain. It is a shorthand for Value(GainID), for the
// audio thread.
func (s *Store) Gain() float64 {
	v, _ := s.Value(GainID)
	return v
}
