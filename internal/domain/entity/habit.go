package entity

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bivex/habitpass/internal/domain/valueobject"
)

var (
	ErrInvalidFrequency = errors.New("invalid habit frequency")
)

// FrequencyType is how often a habit is expected
type FrequencyType string

const (
	FrequencyDaily   FrequencyType = "daily"
	FrequencyWeekly  FrequencyType = "weekly"
	FrequencyMonthly FrequencyType = "monthly"
	FrequencyCustom  FrequencyType = "custom"
)

// Frequency carries the schedule parameters of a habit
type Frequency struct {
	Type     FrequencyType
	Days     []int // 0-6, days of week
	Dates    []int // 1-31, days of month
	Interval int   // every N days/weeks/months
}

// Validate checks the frequency parameters are in range
func (f Frequency) Validate() error {
	switch f.Type {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
	default:
		return ErrInvalidFrequency
	}
	for _, d := range f.Days {
		if d < 0 || d > 6 {
			return ErrInvalidFrequency
		}
	}
	for _, d := range f.Dates {
		if d < 1 || d > 31 {
			return ErrInvalidFrequency
		}
	}
	if f.Interval < 0 {
		return ErrInvalidFrequency
	}
	return nil
}

// CompletionRecord is one day of a habit's history
type CompletionRecord struct {
	Date      valueobject.Day
	Completed bool
}

// Habit is a recurring activity. CompletionHistory is the source of truth;
// the streak is a cache written only by MarkComplete, MarkIncomplete and Reconcile.
type Habit struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Title             string
	Description       string
	Frequency         Frequency
	TimeOfDay         string
	Tags              []string
	XPReward          int
	CompletionHistory []CompletionRecord
	CreatedAt         time.Time
	UpdatedAt         time.Time

	streak int
}

// NewHabit creates a habit with an empty history
func NewHabit(userID uuid.UUID, title string, frequency Frequency, xpReward int, now time.Time) *Habit {
	return &Habit{
		ID:                uuid.New(),
		UserID:            userID,
		Title:             title,
		Frequency:         frequency,
		XPReward:          xpReward,
		CompletionHistory: []CompletionRecord{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// RestoreHabit rebuilds a habit loaded from storage together with its cached streak
func RestoreHabit(h Habit, streak int) *Habit {
	h.streak = streak
	h.sortHistory()
	return &h
}

// SampleHabits returns the starter habits seeded for a new account
func SampleHabits(userID uuid.UUID, now time.Time) []*Habit {
	daily := Frequency{Type: FrequencyDaily}
	samples := []*Habit{
		NewHabit(userID, "Drink water", daily, 5, now),
		NewHabit(userID, "Read for 10 minutes", daily, 10, now),
		NewHabit(userID, "Take a walk", daily, 15, now),
	}
	samples[0].Description = "Stay hydrated by drinking water throughout the day"
	samples[1].Description = "Build a reading habit with just 10 minutes a day"
	samples[2].Description = "Get some fresh air and exercise"
	return samples
}

// Streak returns the cached streak
func (h *Habit) Streak() int {
	return h.streak
}

// RecordFor returns the record for day, if any
func (h *Habit) RecordFor(day valueobject.Day) (CompletionRecord, bool) {
	if i := h.indexOf(day); i >= 0 {
		return h.CompletionHistory[i], true
	}
	return CompletionRecord{}, false
}

func (h *Habit) indexOf(day valueobject.Day) int {
	for i, r := range h.CompletionHistory {
		if r.Date == day {
			return i
		}
	}
	return -1
}

// insert adds a record keeping the history ordered by date
func (h *Habit) insert(rec CompletionRecord) {
	h.CompletionHistory = append(h.CompletionHistory, rec)
	h.sortHistory()
}

func (h *Habit) sortHistory() {
	sort.SliceStable(h.CompletionHistory, func(i, j int) bool {
		return h.CompletionHistory[i].Date.Before(h.CompletionHistory[j].Date)
	})
}

// lastRecordBefore returns the most recent record dated strictly before day
func (h *Habit) lastRecordBefore(day valueobject.Day) (CompletionRecord, bool) {
	for i := len(h.CompletionHistory) - 1; i >= 0; i-- {
		if h.CompletionHistory[i].Date.Before(day) {
			return h.CompletionHistory[i], true
		}
	}
	return CompletionRecord{}, false
}

// lastRecord returns the latest record in the history
func (h *Habit) lastRecord() (CompletionRecord, bool) {
	if len(h.CompletionHistory) == 0 {
		return CompletionRecord{}, false
	}
	return h.CompletionHistory[len(h.CompletionHistory)-1], true
}

func sortRecords(records []CompletionRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}
