// delta/batch_test.go
package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendReportsLimit(t *testing.T) {
	b := NewBatch()
	for i := 0; i < DefaultBatchLimit-1; i++ {
		assert.False(t, b.Append(&Update{Timestamp: int64(i)}))
	}
	assert.True(t, b.Append(&Update{Timestamp: int64(DefaultBatchLimit - 1)}))
	assert.Equal(t, DefaultBatchLimit, b.Len())
}

func TestFlushPreservesOrder(t *testing.T) {
	b := NewBatch()
	for i := 0; i < 5; i++ {
		b.Append(&Update{Timestamp: int64(i + 1)})
	}

	out := b.Flush()
	assert.Len(t, out, 5)
	for i, u := range out {
		assert.Equal(t, int64(i+1), u.Timestamp)
	}
	assert.Equal(t, 0, b.Len())
}

func TestFlushEmptyReturnsNil(t *testing.T) {
	b := NewBatch()
	assert.Nil(t, b.Flush())

	b.Append(&Update{})
	b.Flush()
	assert.Nil(t, b.Flush(), "a second flush with nothing queued returns nil")
}
