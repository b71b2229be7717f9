package board

// Count returns the total number of cards.
func (e *Engine[P]) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cards)
}

// CountWhere counts the cards whose status satisfies pred.
func (e *Engine[P]) CountWhere(pred func(Status) bool) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	n := 0
	for _, c := range e.cards {
		if pred(c.Status) {
			n++
		}
	}
	return n
}

// CountByStatus returns a count for every defined column, including empty ones.
func (e *Engine[P]) CountByStatus() map[Status]int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[Status]int, len(e.columns))
	for _, col := range e.columns {
		out[col.Status] = 0
	}
	for _, c := range e.cards {
		out[c.Status]++
	}
	return out
}

// Overdue counts cards past their due date that have not reached the
// terminal column.
func (e *Engine[P]) Overdue() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	now := e.now()
	n := 0
	for _, c := range e.cards {
		if c.Status != e.terminal && c.IsOverdue(now) {
			n++
		}
	}
	return n
}

// StatusIn builds a CountWhere predicate matching any of the given statuses.
func StatusIn(statuses ...Status) func(Status) bool {
	set := make(map[Status]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return func(s Status) bool {
		_, ok := set[s]
		return ok
	}
}
