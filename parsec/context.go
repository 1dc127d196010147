package parsec

// Context is the immutable parsing state threaded through every parser.
//
// Position is always within [0, len(Source)]. Parsers return a new Context
// instead of modifying the one they were given.
type Context[E any] struct {
	Source   []E
	Position int

	memo *memoTable
}

// At returns a copy of the context positioned at pos.
func (c Context[E]) At(pos int) Context[E] {
	if pos < 0 || pos > len(c.Source) {
		panic(errPosition(pos, len(c.Source)))
	}

	c.Position = pos

	return c
}

// Rest returns the unconsumed suffix of the source.
func (c Context[E]) Rest() []E { return c.Source[c.Position:] }

// Done reports whether the entire source has been consumed.
func (c Context[E]) Done() bool { return c.Position == len(c.Source) }

// Memoized reports whether the context carries a memo table.
func (c Context[E]) Memoized() bool { return c.memo != nil }

// bare returns the context without its memo table, so that errors handed
// back to callers do not keep the table alive.
func (c Context[E]) bare() Context[E] {
	c.memo = nil

	return c
}

// memoEntry is one cached parser outcome.
type memoEntry struct {
	value   any
	err     error
	id      uint64
	next    int
	pending bool
}

// memoTable holds cached results indexed by source position. Each slot is
// a short association list keyed by parser identity.
type memoTable struct {
	slots  [][]memoEntry
	hits   int
	misses int
}

func newMemoTable(size int) *memoTable {
	return &memoTable{slots: make([][]memoEntry, size+1)}
}

func (m *memoTable) lookup(pos int, id uint64) (*memoEntry, bool) {
	slot := m.slots[pos]
	for i := range slot {
		if slot[i].id == id {
			return &slot[i], true
		}
	}

	return nil, false
}

// reserve marks (pos, id) as in progress and returns its index in the slot.
func (m *memoTable) reserve(pos int, id uint64) int {
	m.slots[pos] = append(m.slots[pos], memoEntry{id: id, pending: true})

	return len(m.slots[pos]) - 1
}

func (m *memoTable) store(pos, index int, e memoEntry) {
	m.slots[pos][index] = e
}

// entries returns the number of cached results.
func (m *memoTable) entries() int {
	n := 0
	for _, slot := range m.slots {
		n += len(slot)
	}

	return n
}
