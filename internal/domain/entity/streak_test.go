package entity_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/bivex/habitpass/internal/domain/entity"
	"github.com/bivex/habitpass/internal/domain/valueobject"
)

var (
	now   = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	today = valueobject.DayOf(now)
)

func day(offset int) valueobject.Day {
	return today.AddDays(offset)
}

func newHabit() *entity.Habit {
	return entity.NewHabit(uuid.New(), "Meditate", entity.Frequency{Type: entity.FrequencyDaily}, 10, now)
}

func TestHabit_MarkComplete(t *testing.T) {
	t.Run("first completion starts at one", func(t *testing.T) {
		h := newHabit()
		assert.True(t, h.MarkComplete(today, nil, now))
		assert.Equal(t, 1, h.Streak())
	})

	t.Run("consecutive days extend", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-2), nil, now)
		h.MarkComplete(day(-1), nil, now)
		h.MarkComplete(today, nil, now)
		assert.Equal(t, 3, h.Streak())
	})

	t.Run("a gap restarts", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-3), nil, now)
		h.MarkComplete(today, nil, now)
		assert.Equal(t, 1, h.Streak())
	})

	t.Run("already completed is a no-op", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(today, nil, now)
		assert.False(t, h.MarkComplete(today, nil, now))
		assert.Equal(t, 1, h.Streak())
		assert.Len(t, h.CompletionHistory, 1)
	})

	t.Run("prior day marked incomplete restarts", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-2), nil, now)
		h.MarkIncomplete(day(-1), nil, now)
		h.MarkComplete(today, nil, now)
		assert.Equal(t, 1, h.Streak())
	})

	t.Run("covered days bridge to the last completion", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-3), nil, now)
		covered := entity.CoveredDays{day(-2): true, day(-1): true}
		h.MarkComplete(today, covered, now)
		assert.Equal(t, 4, h.Streak())
	})

	t.Run("covered days with nothing before count themselves", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(today, entity.CoveredDays{day(-1): true}, now)
		assert.Equal(t, 2, h.Streak())
	})

	t.Run("backfilling the day before a run extends it", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-2), nil, now)
		h.MarkComplete(day(-1), nil, now)
		h.MarkComplete(today, nil, now)
		assert.Equal(t, 3, h.Streak())

		assert.True(t, h.MarkComplete(day(-3), nil, now))
		assert.Equal(t, 4, h.Streak())
		assert.Equal(t, entity.TrailingRun(h.CompletionHistory, nil), h.Streak())
	})

	t.Run("backfilling a detached day keeps the current run", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-1), nil, now)
		h.MarkComplete(today, nil, now)

		assert.True(t, h.MarkComplete(day(-6), nil, now))
		assert.Equal(t, 2, h.Streak())
	})

	t.Run("backfilling flips an incomplete past record", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-3), nil, now)
		h.MarkIncomplete(day(-2), nil, now)
		h.MarkComplete(day(-1), nil, now)
		h.MarkComplete(today, nil, now)
		assert.Equal(t, 2, h.Streak())

		assert.True(t, h.MarkComplete(day(-2), nil, now))
		assert.Equal(t, 4, h.Streak())
	})

	t.Run("history stays sorted", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(today, nil, now)
		h.MarkComplete(day(-5), nil, now)
		h.MarkComplete(day(-2), nil, now)
		for i := 1; i < len(h.CompletionHistory); i++ {
			assert.True(t, h.CompletionHistory[i-1].Date.Before(h.CompletionHistory[i].Date))
		}
	})
}

func TestHabit_MarkIncomplete(t *testing.T) {
	t.Run("a new day zeroes the streak", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-2), nil, now)
		h.MarkComplete(day(-1), nil, now)
		h.MarkIncomplete(today, nil, now)
		assert.Equal(t, 0, h.Streak())
		rec, ok := h.RecordFor(today)
		assert.True(t, ok)
		assert.False(t, rec.Completed)
	})

	t.Run("flipping a recorded day recomputes the longest run", func(t *testing.T) {
		h := newHabit()
		for i := -5; i <= 0; i++ {
			h.MarkComplete(day(i), nil, now)
		}
		assert.Equal(t, 6, h.Streak())

		h.MarkIncomplete(day(-2), nil, now)
		// -5..-3 is three days, -1..0 is two
		assert.Equal(t, 3, h.Streak())
	})
}

func TestHabit_Reconcile(t *testing.T) {
	t.Run("late cover joins two runs", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-3), nil, now)
		h.MarkComplete(day(-1), nil, now)
		assert.Equal(t, 1, h.Streak())

		assert.True(t, h.Reconcile(entity.CoveredDays{day(-2): true}, now))
		assert.Equal(t, 3, h.Streak())
	})

	t.Run("never lowers the streak", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-5), nil, now)
		h.MarkComplete(day(-4), nil, now)
		h.MarkComplete(day(-3), nil, now)
		h.MarkIncomplete(day(-3), nil, now)
		assert.Equal(t, 2, h.Streak())

		assert.False(t, h.Reconcile(nil, now))
		assert.Equal(t, 2, h.Streak())
	})

	t.Run("unchanged run is not rewritten", func(t *testing.T) {
		h := newHabit()
		for i := -3; i <= 0; i++ {
			h.MarkComplete(day(i), nil, now)
		}
		assert.False(t, h.Reconcile(nil, now))
		assert.Equal(t, 4, h.Streak())
	})

	t.Run("covers after the last record wait for the next completion", func(t *testing.T) {
		h := newHabit()
		h.MarkComplete(day(-2), nil, now)
		assert.False(t, h.Reconcile(entity.CoveredDays{day(-1): true}, now))
		assert.Equal(t, 1, h.Streak())
	})
}

func TestTrailingAndLongestRun(t *testing.T) {
	history := []entity.CompletionRecord{
		{Date: day(-6), Completed: true},
		{Date: day(-5), Completed: true},
		{Date: day(-4), Completed: true},
		{Date: day(-3), Completed: false},
		{Date: day(-1), Completed: true},
	}

	assert.Equal(t, 3, entity.LongestRun(history, nil))
	assert.Equal(t, 1, entity.TrailingRun(history, nil))
	assert.Equal(t, 2, entity.TrailingRun(history, entity.CoveredDays{day(-2): true}))
	// a cover overrides an explicit miss
	assert.Equal(t, 6, entity.LongestRun(history, entity.CoveredDays{day(-3): true, day(-2): true}))
}
