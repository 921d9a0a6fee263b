package guide

import (
	"testing"
	"time"

	"github.com/MotWakorb/guidearr/internal/app/dispatcharr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func prog(key, start, end, title string) dispatcharr.Program {
	return dispatcharr.Program{
		TvgID:     key,
		StartTime: start,
		EndTime:   end,
		Title:     title,
	}
}

func TestCurrentHalfOpenBounds(t *testing.T) {
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("CH1", "2026-01-02T10:00:00Z", "2026-01-02T11:00:00Z", "News"),
	})

	// start is inclusive
	entry, ok := idx.Current("CH1", ts(t, "2026-01-02T10:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, "News", entry.Title)

	// end is exclusive
	_, ok = idx.Current("CH1", ts(t, "2026-01-02T11:00:00Z"))
	assert.False(t, ok)

	_, ok = idx.Current("CH1", ts(t, "2026-01-02T09:59:59Z"))
	assert.False(t, ok)
}

func TestCurrentPicksBucketWithEarlierProgram(t *testing.T) {
	// same bucket contains an earlier, non-overlapping program
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("CH1", "2026-01-02T09:00:00Z", "2026-01-02T10:00:00Z", "Morning"),
		prog("CH1", "2026-01-02T10:00:00Z", "2026-01-02T11:00:00Z", "News"),
	})

	entry, ok := idx.Current("CH1", ts(t, "2026-01-02T10:30:00Z"))
	require.True(t, ok)
	assert.Equal(t, "News", entry.Title)
}

func TestCurrentOverlapTieBreakIsInputOrder(t *testing.T) {
	// malformed upstream data: two programs overlap the same instant
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("CH1", "2026-01-02T10:00:00Z", "2026-01-02T12:00:00Z", "First"),
		prog("CH1", "2026-01-02T10:30:00Z", "2026-01-02T11:30:00Z", "Second"),
	})

	entry, ok := idx.Current("CH1", ts(t, "2026-01-02T11:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, "First", entry.Title)
}

func TestNextSmallestStartAfterInstant(t *testing.T) {
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("CH1", "2026-01-02T14:00:00Z", "2026-01-02T15:00:00Z", "Late"),
		prog("CH1", "2026-01-02T11:00:00Z", "2026-01-02T12:00:00Z", "Soon"),
		prog("CH1", "2026-01-02T09:00:00Z", "2026-01-02T10:00:00Z", "Past"),
	})

	entry, ok := idx.Next("CH1", ts(t, "2026-01-02T10:30:00Z"))
	require.True(t, ok)
	assert.Equal(t, "Soon", entry.Title)

	// a program starting exactly at the instant is not "next"
	_, ok = idx.Next("CH1", ts(t, "2026-01-02T14:00:00Z"))
	assert.False(t, ok)
}

func TestNextTieBreakIsInputOrder(t *testing.T) {
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("CH1", "2026-01-02T11:00:00Z", "2026-01-02T12:00:00Z", "A"),
		prog("CH1", "2026-01-02T11:00:00Z", "2026-01-02T11:30:00Z", "B"),
	})

	entry, ok := idx.Next("CH1", ts(t, "2026-01-02T10:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, "A", entry.Title)
}

func TestNextNoneWhenNothingStartsLater(t *testing.T) {
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("CH1", "2026-01-02T09:00:00Z", "2026-01-02T10:00:00Z", "Morning"),
		prog("CH1", "2026-01-02T10:00:00Z", "2026-01-02T11:00:00Z", "News"),
	})

	entry, ok := idx.Current("CH1", ts(t, "2026-01-02T10:30:00Z"))
	require.True(t, ok)
	assert.Equal(t, "News", entry.Title)

	_, ok = idx.Next("CH1", ts(t, "2026-01-02T10:30:00Z"))
	assert.False(t, ok)
}

func TestOverlappingHalfOpenWindow(t *testing.T) {
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("CH1", "2026-01-02T08:00:00Z", "2026-01-02T09:00:00Z", "Before"),    // ends at window start: excluded
		prog("CH1", "2026-01-02T08:30:00Z", "2026-01-02T09:30:00Z", "Straddles"), // overlaps
		prog("CH1", "2026-01-02T09:30:00Z", "2026-01-02T10:00:00Z", "Inside"),    // touches window end
		prog("CH1", "2026-01-02T10:00:00Z", "2026-01-02T11:00:00Z", "After"),     // starts at window end: excluded
	})

	result := idx.Overlapping("CH1", ts(t, "2026-01-02T09:00:00Z"), ts(t, "2026-01-02T10:00:00Z"))
	require.Len(t, result, 2)
	assert.Equal(t, "Straddles", result[0].Title)
	assert.Equal(t, "Inside", result[1].Title)
}

func TestOverlappingSortsByStartDespiteInputOrder(t *testing.T) {
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("CH1", "2026-01-02T09:30:00Z", "2026-01-02T10:00:00Z", "Later"),
		prog("CH1", "2026-01-02T09:00:00Z", "2026-01-02T09:30:00Z", "Earlier"),
	})

	result := idx.Overlapping("CH1", ts(t, "2026-01-02T09:00:00Z"), ts(t, "2026-01-02T10:00:00Z"))
	require.Len(t, result, 2)
	assert.Equal(t, "Earlier", result[0].Title)
	assert.Equal(t, "Later", result[1].Title)
}

func TestOverlappingMonotonicInWindow(t *testing.T) {
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("CH1", "2026-01-02T08:30:00Z", "2026-01-02T09:30:00Z", "A"),
		prog("CH1", "2026-01-02T09:30:00Z", "2026-01-02T10:30:00Z", "B"),
		prog("CH1", "2026-01-02T11:00:00Z", "2026-01-02T12:00:00Z", "C"),
	})

	narrow := idx.Overlapping("CH1", ts(t, "2026-01-02T09:00:00Z"), ts(t, "2026-01-02T10:00:00Z"))
	wide := idx.Overlapping("CH1", ts(t, "2026-01-02T08:00:00Z"), ts(t, "2026-01-02T12:00:00Z"))

	// widening the window never removes a program
	for _, entry := range narrow {
		assert.Contains(t, wide, entry)
	}
	assert.Len(t, wide, 3)
}

func TestEmptyScheduleKeyYieldsNoData(t *testing.T) {
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("", "2026-01-02T09:00:00Z", "2026-01-02T10:00:00Z", "Orphan"),
	})

	_, ok := idx.Current("", ts(t, "2026-01-02T09:30:00Z"))
	assert.False(t, ok)
	_, ok = idx.Next("", ts(t, "2026-01-02T09:00:00Z"))
	assert.False(t, ok)
	assert.Empty(t, idx.Overlapping("", ts(t, "2026-01-02T09:00:00Z"), ts(t, "2026-01-02T10:00:00Z")))

	// unknown keys behave the same
	_, ok = idx.Current("CHX", ts(t, "2026-01-02T09:30:00Z"))
	assert.False(t, ok)
}

func TestMalformedTimestampsSkipSingleProgram(t *testing.T) {
	idx := NewProgramIndex([]dispatcharr.Program{
		prog("CH1", "not-a-time", "2026-01-02T10:00:00Z", "Broken"),
		prog("CH1", "2026-01-02T10:00:00Z", "also-broken", "Broken2"),
		prog("CH1", "2026-01-02T10:00:00Z", "2026-01-02T11:00:00Z", "Good"),
	})

	entry, ok := idx.Current("CH1", ts(t, "2026-01-02T10:30:00Z"))
	require.True(t, ok)
	assert.Equal(t, "Good", entry.Title)

	result := idx.Overlapping("CH1", ts(t, "2026-01-02T09:00:00Z"), ts(t, "2026-01-02T12:00:00Z"))
	assert.Len(t, result, 1)
}

func TestNilIndexIsSafe(t *testing.T) {
	var idx *ProgramIndex

	_, ok := idx.Current("CH1", time.Now())
	assert.False(t, ok)
	_, ok = idx.Next("CH1", time.Now())
	assert.False(t, ok)
	assert.Empty(t, idx.Overlapping("CH1", time.Now(), time.Now().Add(time.Hour)))
}
