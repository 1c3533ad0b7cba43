package userstate

import "slices"

// IsFlagged reports whether id is flagged for review.
func (s *State) IsFlagged(id string) bool {
	return slices.Contains(s.FlaggedIDs, id)
}

// ToggleFlag flips the flag of id and returns the new value.
func (s *State) ToggleFlag(id string) bool {
	if i := slices.Index(s.FlaggedIDs, id); i >= 0 {
		s.FlaggedIDs = slices.Delete(s.FlaggedIDs, i, i+1)
		return false
	}
	s.FlaggedIDs = append(s.FlaggedIDs, id)
	return true
}

// FlagSet returns the flagged IDs as a set.
func (s *State) FlagSet() map[string]bool {
	set := make(map[string]bool, len(s.FlaggedIDs))
	for _, id := range s.FlaggedIDs {
		set[id] = true
	}
	return set
}

// DedupeFlags removes repeated flag entries, keeping first occurrences.
func (s *State) DedupeFlags() {
	seen := make(map[string]bool, len(s.FlaggedIDs))
	out := s.FlaggedIDs[:0]
	for _, id := range s.FlaggedIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	s.FlaggedIDs = out
}
