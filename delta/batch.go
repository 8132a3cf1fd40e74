// delta/batch.go
package delta

import "time"

const (
	// DefaultBatchLimit forces a flush once this many updates are queued.
	DefaultBatchLimit = 10
	// FlushInterval is the process-wide batch flush cadence.
	FlushInterval = 16 * time.Millisecond
)

// Batch is one room's outbound update queue. Updates leave in the order
// they were produced, as a single unit. Not safe for concurrent use; the
// owning room serializes access.
type Batch struct {
	updates []*Update
	limit   int
}

func NewBatch() *Batch {
	return &Batch{limit: DefaultBatchLimit}
}

// Append queues an update and reports whether the batch hit its limit and
// must be flushed now.
func (b *Batch) Append(u *Update) bool {
	b.updates = append(b.updates, u)
	return len(b.updates) >= b.limit
}

// Flush returns the queued updates in production order and clears the
// batch. Returns nil when empty.
func (b *Batch) Flush() []*Update {
	if len(b.updates) == 0 {
		return nil
	}
	out := b.updates
	b.updates = nil
	return out
}

// Len reports the number of queued updates.
func (b *Batch) Len() int {
	return len(b.updates)
}
