package client

// Selection holds either an existing client or a pending-creation draft, never both.
type Selection struct {
	existing *Summary
	draft    *Draft
}

// SelectExisting points the order at a directory record and drops any draft.
func (s *Selection) SelectExisting(summary Summary) {
	s.existing = &summary
	s.draft = nil
}

// StartDraft switches to creating a new client and drops any existing selection.
func (s *Selection) StartDraft(draft Draft) {
	s.draft = &draft
	s.existing = nil
}

func (s *Selection) Clear() {
	s.existing = nil
	s.draft = nil
}

func (s *Selection) Existing() (Summary, bool) {
	if s.existing == nil {
		return Summary{}, false
	}
	return *s.existing, true
}

func (s *Selection) Draft() (Draft, bool) {
	if s.draft == nil {
		return Draft{}, false
	}
	return *s.draft, true
}

// IsResolved reports whether the order has a client that exists in the directory.
func (s *Selection) IsResolved() bool {
	return s.existing != nil
}
