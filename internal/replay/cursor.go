package replay

// Cursor is an index into a Sequence. The zero Cursor has no sequence and
// every navigation call on it is a no-op.
type Cursor struct {
	seq   *Sequence
	index int
}

// NewCursor returns a cursor at the starting position of seq.
func NewCursor(seq *Sequence) Cursor {
	return Cursor{seq: seq}
}

// Loaded reports whether the cursor points into a non-empty sequence.
func (c *Cursor) Loaded() bool {
	return c.seq.Len() > 0
}

func (c *Cursor) Sequence() *Sequence { return c.seq }

// Index returns the current snapshot index.
func (c *Cursor) Index() int { return c.index }

// Current returns the snapshot under the cursor.
func (c *Cursor) Current() Snapshot {
	if !c.Loaded() {
		return Snapshot{}
	}
	return c.seq.At(c.index)
}

// CurrentEntry returns the move list position matching the cursor, or -1
// at the starting position.
func (c *Cursor) CurrentEntry() int {
	return c.index - 1
}

// GoTo moves to i. Out of range requests are ignored. It reports whether
// the index changed.
func (c *Cursor) GoTo(i int) bool {
	if !c.Loaded() || i < 0 || i >= c.seq.Len() || i == c.index {
		return false
	}
	c.index = i
	return true
}

func (c *Cursor) First() bool { return c.GoTo(0) }

func (c *Cursor) Last() bool { return c.GoTo(c.seq.Len() - 1) }

func (c *Cursor) Next() bool { return c.GoTo(c.index + 1) }

func (c *Cursor) Previous() bool { return c.GoTo(c.index - 1) }
