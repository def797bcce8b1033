// Package storage provides the keyed record containers that back a mesh
// graph. Records refer to one another only through small copyable keys into
// these containers; no record owns another.
package storage

import "iter"

// Reader is read-only access to keyed records.
type Reader[K comparable, T any] interface {
	Get(key K) (T, bool)
	ContainsKey(key K) bool
	Len() int
	Keys() iter.Seq[K]
	All() iter.Seq2[K, T]
}

// AsStorage is implemented by anything that can lend read access to a
// storage. Both owned and ephemeral storages implement it.
type AsStorage[K comparable, T any] interface {
	AsStorage() Reader[K, T]
}

// AsStorageMut is implemented by owned storages only.
type AsStorageMut[K comparable, T any] interface {
	AsStorage[K, T]
	AsStorageMut() *Storage[K, T]
}

// Compile-time interface checks.
var (
	_ AsStorageMut[VertexKey, int] = (*Storage[VertexKey, int])(nil)
	_ AsStorage[VertexKey, int]    = Ephemeral[VertexKey, int]{}
)

// Storage maps keys to records. Lookup, insertion and removal are O(1)
// amortized. Iteration order is unspecified.
type Storage[K comparable, T any] struct {
	records map[K]*T
	seq     uint64
	fromSeq func(uint64) K // nil when keys are always caller supplied
	toSeq   func(K) uint64
}

// New returns an empty storage whose keys are supplied by the caller.
func New[K comparable, T any]() *Storage[K, T] {
	return &Storage[K, T]{records: make(map[K]*T)}
}

// NewGenerated returns an empty storage that can generate its own keys.
// Generated keys start at 1 and are never reused by the same storage.
func NewGenerated[K OpaqueKey, T any]() *Storage[K, T] {
	return &Storage[K, T]{
		records: make(map[K]*T),
		fromSeq: func(n uint64) K { return K(n) },
		toSeq:   func(k K) uint64 { return uint64(k) },
	}
}

// InsertWithGenerator inserts record under a fresh key and returns the key.
// It panics if the storage was not created with NewGenerated.
func (s *Storage[K, T]) InsertWithGenerator(record T) K {
	if s.fromSeq == nil {
		panic("storage: insert with generator into caller-keyed storage")
	}
	s.seq++
	key := s.fromSeq(s.seq)
	s.records[key] = &record
	return key
}

// CanGenerate reports whether InsertWithGenerator may be called.
func (s *Storage[K, T]) CanGenerate() bool {
	return s.fromSeq != nil
}

// InsertWithKey inserts record under key, replacing any existing record.
// On a generating storage the sequence skips past key, so later generated
// keys cannot collide with it.
func (s *Storage[K, T]) InsertWithKey(key K, record T) {
	if s.toSeq != nil {
		s.seq = max(s.seq, s.toSeq(key))
	}
	s.records[key] = &record
}

// Get returns a copy of the record stored under key.
func (s *Storage[K, T]) Get(key K) (T, bool) {
	rec, ok := s.records[key]
	if !ok {
		var zero T
		return zero, false
	}
	return *rec, true
}

// GetMut returns a pointer to the record stored under key. The pointer stays
// valid until the record is removed.
func (s *Storage[K, T]) GetMut(key K) (*T, bool) {
	rec, ok := s.records[key]
	return rec, ok
}

// Remove deletes and returns the record stored under key.
func (s *Storage[K, T]) Remove(key K) (T, bool) {
	rec, ok := s.records[key]
	if !ok {
		var zero T
		return zero, false
	}
	delete(s.records, key)
	return *rec, true
}

// ContainsKey reports whether a record is stored under key.
func (s *Storage[K, T]) ContainsKey(key K) bool {
	_, ok := s.records[key]
	return ok
}

// Len returns the number of records.
func (s *Storage[K, T]) Len() int {
	return len(s.records)
}

// Keys yields every key in unspecified order.
func (s *Storage[K, T]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range s.records {
			if !yield(k) {
				return
			}
		}
	}
}

// All yields every key and a copy of its record in unspecified order.
func (s *Storage[K, T]) All() iter.Seq2[K, T] {
	return func(yield func(K, T) bool) {
		for k, rec := range s.records {
			if !yield(k, *rec) {
				return
			}
		}
	}
}

// Clone returns a deep copy. The clone continues the key sequence of s, so
// keys generated by either storage afterwards do not collide with existing
// keys.
func (s *Storage[K, T]) Clone() *Storage[K, T] {
	return MapValues(s, func(rec T) T { return rec })
}

// AsStorage implements AsStorage.
func (s *Storage[K, T]) AsStorage() Reader[K, T] { return s }

// AsStorageMut implements AsStorageMut.
func (s *Storage[K, T]) AsStorageMut() *Storage[K, T] { return s }

// MapValues returns a new storage holding f applied to every record of s
// under the same key. Key generation state carries over.
func MapValues[K comparable, T, U any](s *Storage[K, T], f func(T) U) *Storage[K, U] {
	out := &Storage[K, U]{
		records: make(map[K]*U, len(s.records)),
		seq:     s.seq,
		fromSeq: s.fromSeq,
		toSeq:   s.toSeq,
	}
	for k, rec := range s.records {
		v := f(*rec)
		out.records[k] = &v
	}
	return out
}

// Ephemeral is a borrowed, read-only view of another container's storage.
type Ephemeral[K comparable, T any] struct {
	source *Storage[K, T]
}

// Borrow returns an ephemeral view of s.
func Borrow[K comparable, T any](s *Storage[K, T]) Ephemeral[K, T] {
	return Ephemeral[K, T]{source: s}
}

// AsStorage implements AsStorage.
func (e Ephemeral[K, T]) AsStorage() Reader[K, T] { return e.source }
