// Package stringopts is a small string key/value store handed to plugins
// as an options bag.
package stringopts

import "sort"

// Store maps option names to string values. The zero value is ready to use.
type Store struct {
	m map[string]string
}

// New returns an empty Store.
func New() *Store { return &Store{} }

func (s *Store) Set(key, value string) {
	if s.m == nil {
		s.m = make(map[string]string)
	}
	s.m[key] = value
}

// Unset removes key. Removing an absent key is not an error.
func (s *Store) Unset(key string) {
	delete(s.m, key)
}

func (s *Store) Get(key string) (string, bool) {
	v, ok := s.m[key]
	return v, ok
}

func (s *Store) Clear() {
	clear(s.m)
}

func (s *Store) Len() int { return len(s.m) }

// Keys returns the option names in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
