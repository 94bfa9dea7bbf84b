package portal

// Entry is one slot of a portal queue: either a portal or a group boundary.
// A boundary stops EndFrame's drain; entries below it belong to an
// enclosing drain.
type Entry struct {
	Portal   Portal
	Boundary bool
}

// Queue holds the portals found while drawing one render context, in the
// order they were found. EndFrame consumes it from the back.
type Queue struct {
	entries []Entry
}

// Push appends p. Nil portals are ignored.
func (q *Queue) Push(p Portal) {
	if p == nil {
		return
	}
	q.entries = append(q.entries, Entry{Portal: p})
}

// PushBoundary appends a group boundary.
func (q *Queue) PushBoundary() {
	q.entries = append(q.entries, Entry{Boundary: true})
}

func (q *Queue) Len() int { return len(q.entries) }

func (q *Queue) At(i int) Entry { return q.entries[i] }

// Pop removes and returns the last entry.
func (q *Queue) Pop() (Entry, bool) {
	n := len(q.entries)
	if n == 0 {
		return Entry{}, false
	}
	e := q.entries[n-1]
	q.entries[n-1] = Entry{}
	q.entries = q.entries[:n-1]
	return e, true
}

// Delete removes entry i, keeping the order of the rest.
func (q *Queue) Delete(i int) Entry {
	e := q.entries[i]
	copy(q.entries[i:], q.entries[i+1:])
	q.entries[len(q.entries)-1] = Entry{}
	q.entries = q.entries[:len(q.entries)-1]
	return e
}

// DestroyAll destroys every queued portal and empties the queue.
func (q *Queue) DestroyAll() {
	for _, e := range q.entries {
		if e.Portal != nil {
			e.Portal.Destroy()
		}
	}
	q.entries = q.entries[:0]
}
