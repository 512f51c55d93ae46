package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker(t *testing.T) {
	t.Run("latest search is accepted", func(t *testing.T) {
		tracker := NewTracker()

		seq := tracker.Begin("user-1")
		assert.True(t, tracker.Accept("user-1", seq))
	})

	t.Run("stale response is discarded after a newer search", func(t *testing.T) {
		tracker := NewTracker()

		first := tracker.Begin("user-1")
		second := tracker.Begin("user-1")

		// 慢的第一個回應後到，不得覆蓋第二個搜尋
		assert.False(t, tracker.Accept("user-1", first))
		assert.True(t, tracker.Accept("user-1", second))
	})

	t.Run("out-of-order completion keeps only the newest", func(t *testing.T) {
		tracker := NewTracker()

		seqs := []uint64{
			tracker.Begin("user-1"),
			tracker.Begin("user-1"),
			tracker.Begin("user-1"),
		}

		// 完成順序：2, 3, 1
		assert.False(t, tracker.Accept("user-1", seqs[1]))
		assert.True(t, tracker.Accept("user-1", seqs[2]))
		assert.False(t, tracker.Accept("user-1", seqs[0]))
	})

	t.Run("sessions are independent", func(t *testing.T) {
		tracker := NewTracker()

		a := tracker.Begin("user-a")
		b := tracker.Begin("user-b")
		tracker.Begin("user-b")

		assert.True(t, tracker.Accept("user-a", a))
		assert.False(t, tracker.Accept("user-b", b))
	})

	t.Run("forget clears session state", func(t *testing.T) {
		tracker := NewTracker()

		seq := tracker.Begin("user-1")
		tracker.Forget("user-1")

		assert.False(t, tracker.Accept("user-1", seq))
		assert.Equal(t, uint64(1), tracker.Begin("user-1"))
	})
}
