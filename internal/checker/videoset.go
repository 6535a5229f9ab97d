package checker

import "strings"

// VideoSet is an ordered, de-duplicated collection of provider video IDs.
// The zero value is an empty set ready for use. A VideoSet is not safe for
// concurrent mutation.
type VideoSet struct {
	ids  []string
	seen map[string]struct{}
}

// NewVideoSet builds a set from ids, skipping blanks and duplicates.
func NewVideoSet(ids ...string) *VideoSet {
	set := &VideoSet{}
	for _, id := range ids {
		set.Add(id)
	}
	return set
}

// Add appends id unless it is blank or already present. It reports whether
// the set changed.
func (s *VideoSet) Add(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Contains reports whether id is in the set.
func (s *VideoSet) Contains(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[strings.TrimSpace(id)]
	return ok
}

// IDs returns a copy of the IDs in insertion order.
func (s *VideoSet) IDs() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.ids...)
}

// Len returns the number of IDs in the set.
func (s *VideoSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}
