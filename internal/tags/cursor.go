package tags

// Cursor remembers, per tag, how many times the user has jumped to it.
// It is kept across rescans; a missing entry counts as zero.
type Cursor struct {
	next map[string]int
}

// NewCursor returns an empty cursor.
func NewCursor() *Cursor {
	return &Cursor{next: make(map[string]int)}
}

// Get returns the jump counter for tag.
func (c *Cursor) Get(tag string) int {
	return c.next[tag]
}

// advance returns the current counter for tag and increments it.
func (c *Cursor) advance(tag string) int {
	n := c.next[tag]
	c.next[tag] = n + 1
	return n
}

// Reset forgets the counter for tag.
func (c *Cursor) Reset(tag string) {
	delete(c.next, tag)
}
