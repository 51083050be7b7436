package kv

import (
	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Storage is an ordered multimap of string pairs. It is primarily used for request
// headers, where the order of appearance and duplicated keys must survive parsing.
// Lookup by key is case-insensitive, values are returned as-is.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return NewPreAlloc(0)
}

// NewPreAlloc returns a Storage with pre-allocated space for n pairs.
func NewPreAlloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// Add appends a new pair, preserving insertion order.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{Key: key, Value: value})
	return s
}

// Value returns the first value corresponding to the key, otherwise an empty string.
func (s *Storage) Value(key string) string {
	return s.ValueOr(key, "")
}

// ValueOr returns either the first value corresponding to the key or the fallback.
func (s *Storage) ValueOr(key, or string) string {
	value, found := s.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns the first value corresponding to the key and a flag, telling whether
// the key is present at all.
func (s *Storage) Get(key string) (string, bool) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Has tells whether the key is present.
func (s *Storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// Values returns all the values by the key in their original order.
func (s *Storage) Values(key string) (values []string) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			values = append(values, pair.Value)
		}
	}

	return values
}

// Pairs exposes the underlying pairs in their original order. The returned slice
// must not be modified.
func (s *Storage) Pairs() []Pair {
	return s.pairs
}

func (s *Storage) Len() int {
	return len(s.pairs)
}

// Clear empties the storage, keeping the underlying memory for reuse.
func (s *Storage) Clear() *Storage {
	s.pairs = s.pairs[:0]
	return s
}
