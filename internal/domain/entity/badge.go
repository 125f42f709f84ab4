package entity

import (
	"time"

	"github.com/google/uuid"
)

// Badge is an achievement that can be unlocked once
type Badge struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description string
	Icon        string
	UnlockedAt  *time.Time
}

// DefaultBadges returns the badges seeded for a new account
func DefaultBadges(userID uuid.UUID) []*Badge {
	defs := []struct{ name, description, icon string }{
		{"First Steps", "Complete your first task", "🏆"},
		{"Habit Master", "Complete a habit 7 days in a row", "🔥"},
		{"Focus Champion", "Complete 5 Pomodoro sessions", "⏱️"},
		{"Early Bird", "Complete a task before 9 AM", "🌅"},
		{"Night Owl", "Complete a task after 10 PM", "🌙"},
	}
	badges := make([]*Badge, 0, len(defs))
	for _, d := range defs {
		badges = append(badges, &Badge{
			ID:          uuid.New(),
			UserID:      userID,
			Name:        d.name,
			Description: d.description,
			Icon:        d.icon,
		})
	}
	return badges
}

// IsUnlocked returns true once the badge has been earned
func (b *Badge) IsUnlocked() bool {
	return b.UnlockedAt != nil
}

// Unlock marks the badge earned; it returns false if it already was
func (b *Badge) Unlock(now time.Time) bool {
	if b.IsUnlocked() {
		return false
	}
	t := now
	b.UnlockedAt = &t
	return true
}
