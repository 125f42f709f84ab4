package entity

import (
	"time"

	"github.com/bivex/habitpass/internal/domain/valueobject"
)

// CoveredDays is the set of missed days bridged by grace days for one habit
type CoveredDays map[valueobject.Day]bool

// MarkComplete records day as completed and advances the streak.
// It returns false when day was already completed.
//
// Covered days directly before day count as completions: with k of them
// between day and the last real completion, the streak grows by 1+k.
// Backfilling a day older than the latest record can only join runs, so the
// streak becomes the larger of the cached value and the trailing run.
func (h *Habit) MarkComplete(day valueobject.Day, covered CoveredDays, now time.Time) bool {
	idx := h.indexOf(day)
	if idx >= 0 && h.CompletionHistory[idx].Completed {
		return false
	}

	if last, ok := h.lastRecord(); ok && last.Date.After(day) {
		h.setCompleted(idx, day)
		if run := TrailingRun(h.CompletionHistory, covered); run > h.streak {
			h.streak = run
		}
		h.UpdatedAt = now
		return true
	}

	yesterday := day.AddDays(-1)
	bridged := 0
	for d := yesterday; covered[d] && !h.completedOn(d); d = d.AddDays(-1) {
		bridged++
	}

	switch {
	case bridged > 0:
		if h.completedOn(yesterday.AddDays(-bridged)) {
			h.streak += 1 + bridged
		} else {
			h.streak = 1 + bridged
		}
	default:
		prior, ok := h.lastRecordBefore(day)
		if ok && prior.Completed && prior.Date == yesterday {
			h.streak++
		} else {
			// no prior record, a gap, or a prior day explicitly marked incomplete
			h.streak = 1
		}
	}

	h.setCompleted(idx, day)
	h.UpdatedAt = now
	return true
}

func (h *Habit) setCompleted(idx int, day valueobject.Day) {
	if idx >= 0 {
		h.CompletionHistory[idx].Completed = true
		return
	}
	h.insert(CompletionRecord{Date: day, Completed: true})
}

// MarkIncomplete records day as not completed.
//
// A day without a record zeroes the streak directly. A day that already has a
// record is flipped and the streak is recomputed from the whole history.
func (h *Habit) MarkIncomplete(day valueobject.Day, covered CoveredDays, now time.Time) {
	idx := h.indexOf(day)
	if idx < 0 {
		h.insert(CompletionRecord{Date: day, Completed: false})
		h.streak = 0
	} else {
		h.CompletionHistory[idx].Completed = false
		h.streak = LongestRun(h.CompletionHistory, covered)
	}
	h.UpdatedAt = now
}

// Reconcile extends the cached streak when covered days added later join it to
// earlier completions. It never lowers the streak, so explicit resets survive.
// It reports whether the streak changed.
func (h *Habit) Reconcile(covered CoveredDays, now time.Time) bool {
	s := TrailingRun(h.CompletionHistory, covered)
	if s <= h.streak {
		return false
	}
	h.streak = s
	h.UpdatedAt = now
	return true
}

func (h *Habit) completedOn(day valueobject.Day) bool {
	r, ok := h.RecordFor(day)
	return ok && r.Completed
}

// effectiveDays merges covered days into the history as completions, sorted by date
func effectiveDays(history []CompletionRecord, covered CoveredDays) []CompletionRecord {
	effective := make(map[valueobject.Day]bool, len(history)+len(covered))
	for _, r := range history {
		effective[r.Date] = r.Completed
	}
	for d, ok := range covered {
		if ok {
			effective[d] = true
		}
	}

	days := make([]CompletionRecord, 0, len(effective))
	for d, c := range effective {
		days = append(days, CompletionRecord{Date: d, Completed: c})
	}
	sortRecords(days)
	return days
}

// TrailingRun returns the run of consecutive completed days ending at the latest
// real record. Covered days after that record are not counted yet; MarkComplete
// bridges them. It is 0 when the latest record is not completed.
func TrailingRun(history []CompletionRecord, covered CoveredDays) int {
	var last valueobject.Day
	for _, r := range history {
		if r.Date.After(last) {
			last = r.Date
		}
	}
	days := effectiveDays(history, covered)
	run := 0
	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Date.After(last) {
			continue
		}
		if !days[i].Completed {
			break
		}
		if run > 0 && days[i].Date.DaysUntil(days[i+1].Date) != 1 {
			break
		}
		run++
	}
	return run
}

// LongestRun returns the longest run of consecutive completed days.
// Covered days are treated as completed, whether or not they have a record.
func LongestRun(history []CompletionRecord, covered CoveredDays) int {
	days := effectiveDays(history, covered)
	best, current := 0, 0
	for i, r := range days {
		if !r.Completed {
			current = 0
			continue
		}
		if i > 0 && days[i-1].Completed && days[i-1].Date.DaysUntil(r.Date) == 1 {
			current++
		} else {
			current = 1
		}
		if current > best {
			best = current
		}
	}
	return best
}
