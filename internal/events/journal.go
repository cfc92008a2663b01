package events

// Journal is an append-only, sequence-numbered event log. It is not safe for
// concurrent use; the wrapper guards it with its own lock.
type Journal struct {
	entries []Event
	next    uint64
}

// NewJournal restores a journal from previously recorded events.
func NewJournal(entries []Event) *Journal {
	j := &Journal{}
	for _, e := range entries {
		j.entries = append(j.entries, e)
		if e.Seq >= j.next {
			j.next = e.Seq + 1
		}
	}
	return j
}

// Append assigns the next sequence number to e and records it.
func (j *Journal) Append(e Event) Event {
	e.Seq = j.next
	j.next++
	j.entries = append(j.entries, e)
	return e
}

// Len returns the number of recorded events.
func (j *Journal) Len() int { return len(j.entries) }

// All returns a copy of every event in order.
func (j *Journal) All() []Event {
	out := make([]Event, len(j.entries))
	copy(out, j.entries)
	return out
}

// Since returns events appended after the first n.
func (j *Journal) Since(n int) []Event {
	if n >= len(j.entries) {
		return nil
	}
	out := make([]Event, len(j.entries)-n)
	copy(out, j.entries[n:])
	return out
}

// Truncate drops every event after the first n. Used to discard events of an
// operation that was rolled back.
func (j *Journal) Truncate(n int) {
	if n < 0 || n >= len(j.entries) {
		return
	}
	j.entries = j.entries[:n]
	if n == 0 {
		j.next = 0
		return
	}
	j.next = j.entries[n-1].Seq + 1
}

// Filter returns the events of the given kinds. No kinds means all.
func Filter(in []Event, kinds ...Kind) []Event {
	if len(kinds) == 0 {
		return in
	}
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}
	var out []Event
	for _, e := range in {
		if want[e.Kind] {
			out = append(out, e)
		}
	}
	return out
}
