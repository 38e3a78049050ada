package translator

// Deque is a double-ended queue of text parts. The engine processes
// parts strictly FIFO and reinserts split halves at the front in
// left-to-right order, which keeps the final concatenation in original
// reading order no matter how many splits occur.
type Deque struct {
	items []string
}

// NewDeque creates a deque seeded with the given parts in order.
func NewDeque(parts ...string) *Deque {
	d := &Deque{items: make([]string, 0, len(parts))}
	d.items = append(d.items, parts...)
	return d
}

// Len returns the number of queued parts.
func (d *Deque) Len() int {
	return len(d.items)
}

// PushFront inserts a part at the front of the queue.
func (d *Deque) PushFront(part string) {
	d.items = append([]string{part}, d.items...)
}

// PushBack appends a part at the back of the queue.
func (d *Deque) PushBack(part string) {
	d.items = append(d.items, part)
}

// PopFront removes and returns the front part. The second return is
// false when the deque is empty.
func (d *Deque) PopFront() (string, bool) {
	if len(d.items) == 0 {
		return "", false
	}
	part := d.items[0]
	d.items = d.items[1:]
	return part, true
}
