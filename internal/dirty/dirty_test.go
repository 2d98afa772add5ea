package dirty

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type flushCall struct{ off, n int }

type recordingFlusher struct {
	size  int
	calls []flushCall
	fail  error
}

func (f *recordingFlusher) Len() int { return f.size }

func (f *recordingFlusher) Flush(off, n int) error {
	if f.fail != nil {
		return f.fail
	}
	f.calls = append(f.calls, flushCall{off, n})
	return nil
}

func TestTracker_PageAlignment(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(100, 200)

	got := tracker.CoalescedRanges()
	require.Equal(t, []Range{{Off: 0, Len: 4096}}, got)
}

func TestTracker_CoalesceAdjacentAndOverlapping(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(4096, 4096)
	tracker.Add(8192, 4096)
	tracker.Add(8200, 10)
	tracker.Add(40960, 1)

	got := tracker.CoalescedRanges()
	require.Equal(t, []Range{
		{Off: 4096, Len: 8192},
		{Off: 40960, Len: 4096},
	}, got)
}

func TestTracker_IgnoresEmptyRanges(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(10, 0)
	tracker.Add(10, -3)
	require.False(t, tracker.Pending())
	require.Nil(t, tracker.CoalescedRanges())
}

func TestTracker_FlushClampsToMapping(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(5000, 10)
	tracker.Add(100000, 10)

	f := &recordingFlusher{size: 6000}
	require.NoError(t, tracker.Flush(context.Background(), f))
	require.Equal(t, []flushCall{{off: 4096, n: 6000 - 4096}}, f.calls)
	require.False(t, tracker.Pending())
}

func TestTracker_FlushErrorKeepsRanges(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(0, 1)

	boom := errors.New("boom")
	err := tracker.Flush(context.Background(), &recordingFlusher{size: 4096, fail: boom})
	require.ErrorIs(t, err, boom)
	require.True(t, tracker.Pending())
}

func TestTracker_FlushCancelled(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(0, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &recordingFlusher{size: 4096}
	require.ErrorIs(t, tracker.Flush(ctx, f), context.Canceled)
	require.Empty(t, f.calls)
	require.True(t, tracker.Pending())

	tracker.Reset()
	require.False(t, tracker.Pending())
	require.NoError(t, tracker.Flush(ctx, f))
}
