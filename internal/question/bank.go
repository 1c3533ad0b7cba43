package question

// Bank is the union of the fixed catalog and user-authored questions, in
// catalog order followed by custom questions.
type Bank struct {
	all    []Question
	byID   map[string]int
	custom map[string]bool
}

// NewBank builds a Bank. When an ID appears more than once the first
// occurrence wins lookups.
func NewBank(catalog, custom []Question) *Bank {
	b := &Bank{
		all:    make([]Question, 0, len(catalog)+len(custom)),
		byID:   make(map[string]int, len(catalog)+len(custom)),
		custom: make(map[string]bool, len(custom)),
	}
	for _, q := range catalog {
		b.add(q)
	}
	for _, q := range custom {
		if q.ID != "" {
			b.custom[q.ID] = true
		}
		b.add(q)
	}
	return b
}

func (b *Bank) add(q Question) {
	if _, dup := b.byID[q.ID]; !dup {
		b.byID[q.ID] = len(b.all)
	}
	b.all = append(b.all, q)
}

// All returns every question. The slice must not be modified.
func (b *Bank) All() []Question {
	return b.all
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.all)
}

// Get looks up a question by ID.
func (b *Bank) Get(id string) (Question, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Question{}, false
	}
	return b.all[i], true
}

// Has reports whether id is a known question.
func (b *Bank) Has(id string) bool {
	_, ok := b.byID[id]
	return ok
}

// IsCustom reports whether id belongs to a user-authored question.
func (b *Bank) IsCustom(id string) bool {
	return b.custom[id]
}

// CustomIDs returns the set of user-authored question IDs.
func (b *Bank) CustomIDs() map[string]bool {
	return b.custom
}
