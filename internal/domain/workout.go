package domain

import (
	"time"

	"github.com/google/uuid"
)

type Workout struct {
	ID              uuid.UUID `db:"id" json:"id"`
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	WorkoutDate     time.Time `db:"workout_date" json:"workout_date"`
	Category        string    `db:"category" json:"category"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	DistanceKM      float64   `db:"distance_km" json:"distance_km"`
	Tags            []string  `db:"-" json:"tags,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// WorkoutFilter narrows a listing within a single owner's rows. It can
// never widen scope: the owner id is a separate, mandatory argument on
// every repository call.
type WorkoutFilter struct {
	Search    string
	Tag       string
	DateFrom  *time.Time
	DateUntil *time.Time
}

func (f WorkoutFilter) IsZero() bool {
	return f.Search == "" && f.Tag == "" && f.DateFrom == nil && f.DateUntil == nil
}

type CategoryTotal struct {
	Category        string `db:"category" json:"category"`
	DurationMinutes int    `db:"total_duration" json:"duration_minutes"`
}

type WorkoutAggregate struct {
	Count                int             `json:"count"`
	TotalDurationMinutes int             `json:"total_duration_minutes"`
	TotalDistanceKM      float64         `json:"total_distance_km"`
	ByCategory           []CategoryTotal `json:"by_category"`
}
