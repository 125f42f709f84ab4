package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bivex/habitpass/internal/domain/entity"
	domainErrors "github.com/bivex/habitpass/internal/domain/errors"
	"github.com/bivex/habitpass/internal/domain/repository"
	"github.com/bivex/habitpass/internal/domain/valueobject"
	"github.com/bivex/habitpass/internal/infrastructure/persistence/pool"
)

const habitColumns = `id, user_id, title, description, frequency, time_of_day, tags, xp_reward, streak, created_at, updated_at`

// frequencyJSON is the jsonb shape of a habit frequency
type frequencyJSON struct {
	Type     string `json:"type"`
	Days     []int  `json:"days,omitempty"`
	Dates    []int  `json:"dates,omitempty"`
	Interval int    `json:"interval,omitempty"`
}

// HabitRepositoryImpl implements HabitRepository on PostgreSQL.
// Completion history lives in habit_completions, one row per day.
type HabitRepositoryImpl struct {
	pool *pgxpool.Pool
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(pool *pgxpool.Pool) repository.HabitRepository {
	return &HabitRepositoryImpl{pool: pool}
}

// Create inserts a habit with its history
func (r *HabitRepositoryImpl) Create(ctx context.Context, h *entity.Habit) error {
	return pool.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO habits (` + habitColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err := tx.Exec(ctx, query,
			h.ID, h.UserID, h.Title, h.Description, toFrequencyJSON(h.Frequency), h.TimeOfDay,
			tagsOrEmpty(h.Tags), h.XPReward, h.Streak(), h.CreatedAt, h.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create habit: %w", err)
		}
		return replaceCompletions(ctx, tx, h)
	})
}

// GetByID retrieves a habit owned by userID
func (r *HabitRepositoryImpl) GetByID(ctx context.Context, userID, habitID uuid.UUID) (*entity.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1 AND user_id = $2`

	row, err := scanHabitRow(r.pool.QueryRow(ctx, query, habitID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.NewHabitNotFound(habitID.String())
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	history, err := r.loadCompletions(ctx, []uuid.UUID{habitID})
	if err != nil {
		return nil, err
	}
	return row.toEntity(history[habitID]), nil
}

// ListByUserID retrieves all habits of a user, oldest first
func (r *HabitRepositoryImpl) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	var habitRows []*habitRow
	var ids []uuid.UUID
	for rows.Next() {
		hr, err := scanHabitRow(rows)
		if err != nil {
			return nil, err
		}
		habitRows = append(habitRows, hr)
		ids = append(ids, hr.id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	history, err := r.loadCompletions(ctx, ids)
	if err != nil {
		return nil, err
	}

	habits := make([]*entity.Habit, 0, len(habitRows))
	for _, hr := range habitRows {
		habits = append(habits, hr.toEntity(history[hr.id]))
	}
	return habits, nil
}

// Update writes the habit row, its cached streak and its history in one transaction
func (r *HabitRepositoryImpl) Update(ctx context.Context, h *entity.Habit) error {
	return pool.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE habits SET
				title = $3, description = $4, frequency = $5, time_of_day = $6, tags = $7,
				xp_reward = $8, streak = $9, updated_at = $10
			WHERE id = $1 AND user_id = $2
		`
		tag, err := tx.Exec(ctx, query,
			h.ID, h.UserID, h.Title, h.Description, toFrequencyJSON(h.Frequency), h.TimeOfDay,
			tagsOrEmpty(h.Tags), h.XPReward, h.Streak(), h.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to update habit: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.NewHabitNotFound(h.ID.String())
		}
		return replaceCompletions(ctx, tx, h)
	})
}

// Delete removes a habit owned by userID
func (r *HabitRepositoryImpl) Delete(ctx context.Context, userID, habitID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM habits WHERE id = $1 AND user_id = $2`, habitID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.NewHabitNotFound(habitID.String())
	}
	return nil
}

func (r *HabitRepositoryImpl) loadCompletions(ctx context.Context, habitIDs []uuid.UUID) (map[uuid.UUID][]entity.CompletionRecord, error) {
	out := make(map[uuid.UUID][]entity.CompletionRecord, len(habitIDs))
	if len(habitIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT habit_id, day, completed
		FROM habit_completions
		WHERE habit_id = ANY($1)
		ORDER BY habit_id, day
	`
	rows, err := r.pool.Query(ctx, query, habitIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var habitID uuid.UUID
		var day time.Time
		var completed bool
		if err := rows.Scan(&habitID, &day, &completed); err != nil {
			return nil, err
		}
		out[habitID] = append(out[habitID], entity.CompletionRecord{
			Date:      valueobject.DayOf(day),
			Completed: completed,
		})
	}
	return out, rows.Err()
}

func replaceCompletions(ctx context.Context, tx pgx.Tx, h *entity.Habit) error {
	if _, err := tx.Exec(ctx, `DELETE FROM habit_completions WHERE habit_id = $1`, h.ID); err != nil {
		return fmt.Errorf("failed to clear completions: %w", err)
	}
	if len(h.CompletionHistory) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range h.CompletionHistory {
		batch.Queue(`INSERT INTO habit_completions (habit_id, day, completed) VALUES ($1, $2, $3)`,
			h.ID, rec.Date.Time(), rec.Completed)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to write completions: %w", err)
	}
	return nil
}

type habitRow struct {
	id          uuid.UUID
	userID      uuid.UUID
	title       string
	description string
	frequency   frequencyJSON
	timeOfDay   string
	tags        []string
	xpReward    int
	streak      int
	createdAt   time.Time
	updatedAt   time.Time
}

func scanHabitRow(row pgx.Row) (*habitRow, error) {
	hr := &habitRow{}
	err := row.Scan(
		&hr.id,
		&hr.userID,
		&hr.title,
		&hr.description,
		&hr.frequency,
		&hr.timeOfDay,
		&hr.tags,
		&hr.xpReward,
		&hr.streak,
		&hr.createdAt,
		&hr.updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return hr, nil
}

func (hr *habitRow) toEntity(history []entity.CompletionRecord) *entity.Habit {
	if history == nil {
		history = []entity.CompletionRecord{}
	}
	return entity.RestoreHabit(entity.Habit{
		ID:                hr.id,
		UserID:            hr.userID,
		Title:             hr.title,
		Description:       hr.description,
		Frequency:         fromFrequencyJSON(hr.frequency),
		TimeOfDay:         hr.timeOfDay,
		Tags:              hr.tags,
		XPReward:          hr.xpReward,
		CompletionHistory: history,
		CreatedAt:         hr.createdAt,
		UpdatedAt:         hr.updatedAt,
	}, hr.streak)
}

func toFrequencyJSON(f entity.Frequency) frequencyJSON {
	return frequencyJSON{Type: string(f.Type), Days: f.Days, Dates: f.Dates, Interval: f.Interval}
}

func fromFrequencyJSON(f frequencyJSON) entity.Frequency {
	return entity.Frequency{Type: entity.FrequencyType(f.Type), Days: f.Days, Dates: f.Dates, Interval: f.Interval}
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
