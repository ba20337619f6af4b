package sequencedmap

import (
	"cmp"
	"iter"
	"slices"
)

// Len returns the number of elements in the map. nil safe.
func Len[K comparable, V any](m *Map[K, V]) int {
	if m == nil {
		return 0
	}
	return len(m.l)
}

// From creates a new map from the given sequence.
func From[K comparable, V any](seq iter.Seq2[K, V]) *Map[K, V] {
	newMap := New[K, V]()

	for k, v := range seq {
		newMap.Set(k, v)
	}

	return newMap
}

// FromSorted creates a new map from a Go map, ordering the keys ascending.
func FromSorted[K cmp.Ordered, V any](in map[K]V) *Map[K, V] {
	keys := make([]K, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := NewWithCapacity[K, V](len(keys))
	for _, k := range keys {
		out.Set(k, in[k])
	}
	return out
}
