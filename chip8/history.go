package chip8

import "fmt"

// History is a fixed-capacity ring of machine snapshots, oldest evicted
// first. Machine is an array-only value type, so storing and restoring are
// plain assignments and every snapshot is fully independent of the live
// machine.
type History struct {
	snapshots []Machine
	head      int // slot the next Save writes to
	count     int
}

// NewHistory returns a history buffer holding at most capacity snapshots.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{snapshots: make([]Machine, capacity)}
}

// Save appends a snapshot of the machine, evicting the oldest snapshot if the
// buffer is full.
func (h *History) Save(m *Machine) {
	h.snapshots[h.head] = *m
	h.head = (h.head + 1) % len(h.snapshots)
	if h.count < len(h.snapshots) {
		h.count++
	}
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return h.count
}

// Restore overwrites the machine with the most recent snapshot.
func (h *History) Restore(m *Machine) error {
	return h.RestoreAt(m, h.count-1)
}

// RestoreAt overwrites the machine with snapshot i, where 0 is the oldest
// stored snapshot and Len()-1 the newest.
func (h *History) RestoreAt(m *Machine, i int) error {
	if i < 0 || i >= h.count {
		return fmt.Errorf("no snapshot %d of %d", i, h.count)
	}
	oldest := (h.head - h.count + len(h.snapshots)) % len(h.snapshots)
	*m = h.snapshots[(oldest+i)%len(h.snapshots)]
	return nil
}

// Rewind restores the most recent snapshot and discards it, so repeated calls
// walk backwards through the stored states.
func (h *History) Rewind(m *Machine) error {
	if err := h.Restore(m); err != nil {
		return err
	}
	h.head = (h.head - 1 + len(h.snapshots)) % len(h.snapshots)
	h.count--
	return nil
}
