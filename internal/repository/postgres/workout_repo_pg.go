package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nvallon/trainlog-api/internal/domain"
	"github.com/nvallon/trainlog-api/internal/repository/ports"
)

type WorkoutRepository struct {
	db *sqlx.DB
}

func NewWorkoutRepo(db *sqlx.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

type workoutRow struct {
	domain.Workout
	TagsArr pq.StringArray `db:"tags"`
}

func (r *WorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error) {
	const query = `
        INSERT INTO workouts (user_id, workout_date, category, duration_minutes, distance_km, tags, notes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, user_id, workout_date, category, duration_minutes, distance_km, tags, notes, created_at
    `
	tags := workout.Tags
	if tags == nil {
		tags = []string{}
	}

	var stored workoutRow
	row := r.db.QueryRowxContext(ctx, query,
		workout.UserID,
		workout.WorkoutDate,
		workout.Category,
		workout.DurationMinutes,
		workout.DistanceKM,
		pq.Array(tags),
		workout.Notes,
	)
	if err := row.StructScan(&stored); err != nil {
		return nil, err
	}
	stored.Workout.Tags = stored.TagsArr
	return &stored.Workout, nil
}

// buildOwnerFilter always anchors the WHERE clause on the owner id; filter
// values only ever append further AND conditions, so no filter content can
// reach another owner's rows.
func buildOwnerFilter(ownerID uuid.UUID, filter domain.WorkoutFilter) (string, []any) {
	clauses := []string{"w.user_id = $1"}
	args := []any{ownerID}
	idx := 2

	if filter.Search != "" {
		clauses = append(clauses, fmt.Sprintf("w.category ILIKE $%d", idx))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		idx++
	}
	if filter.Tag != "" {
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(w.tags)", idx))
		args = append(args, filter.Tag)
		idx++
	}
	if filter.DateFrom != nil {
		clauses = append(clauses, fmt.Sprintf("w.workout_date >= $%d", idx))
		args = append(args, *filter.DateFrom)
		idx++
	}
	if filter.DateUntil != nil {
		clauses = append(clauses, fmt.Sprintf("w.workout_date <= $%d", idx))
		args = append(args, *filter.DateUntil)
		idx++
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (r *WorkoutRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter domain.WorkoutFilter) ([]domain.Workout, error) {
	where, args := buildOwnerFilter(ownerID, filter)

	query := fmt.Sprintf(`
        SELECT id, user_id, workout_date, category, duration_minutes, distance_km, tags, notes, created_at
        FROM workouts w
        %s
        ORDER BY w.workout_date DESC, w.created_at DESC, w.id DESC
    `, where)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workouts []domain.Workout
	for rows.Next() {
		var row workoutRow
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		row.Workout.Tags = row.TagsArr
		workouts = append(workouts, row.Workout)
	}
	return workouts, rows.Err()
}

func (r *WorkoutRepository) AggregateByOwner(ctx context.Context, ownerID uuid.UUID, filter domain.WorkoutFilter) (*domain.WorkoutAggregate, error) {
	where, args := buildOwnerFilter(ownerID, filter)

	totalsQuery := fmt.Sprintf(`
        SELECT
            COUNT(*)::int AS total_count,
            COALESCE(SUM(w.duration_minutes), 0)::int AS total_duration,
            COALESCE(SUM(w.distance_km), 0)::float8 AS total_distance
        FROM workouts w
        %s
    `, where)

	var totals struct {
		Count    int     `db:"total_count"`
		Duration int     `db:"total_duration"`
		Distance float64 `db:"total_distance"`
	}
	if err := r.db.GetContext(ctx, &totals, totalsQuery, args...); err != nil {
		return nil, err
	}

	breakdownQuery := fmt.Sprintf(`
        SELECT w.category, COALESCE(SUM(w.duration_minutes), 0)::int AS total_duration
        FROM workouts w
        %s
        GROUP BY w.category
        ORDER BY total_duration DESC, w.category ASC
    `, where)

	var byCategory []domain.CategoryTotal
	if err := r.db.SelectContext(ctx, &byCategory, breakdownQuery, args...); err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	return &domain.WorkoutAggregate{
		Count:                totals.Count,
		TotalDurationMinutes: totals.Duration,
		TotalDistanceKM:      totals.Distance,
		ByCategory:           byCategory,
	}, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}

var _ ports.WorkoutRepository = (*WorkoutRepository)(nil)
