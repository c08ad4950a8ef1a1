package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nvallon/trainlog-api/internal/domain"
	"github.com/nvallon/trainlog-api/internal/repository/ports"
	"github.com/nvallon/trainlog-api/internal/util"
)

const (
	workoutDateLayout = "2006-01-02"
	categoryMaxLen    = 50
	notesMaxLen       = 1000
	maxTagsPerWorkout = 10
	tagMaxLen         = 30
)

type WorkoutCreateInput struct {
	WorkoutDate     string
	Category        string
	DurationMinutes int
	DistanceKM      float64
	Tags            []string
	Notes           *string
}

// Sanitize escapes markup in every free-text field. It runs before
// validation so rejected input is safe to echo back to the client.
func (in *WorkoutCreateInput) Sanitize() {
	in.Category = util.SanitizeText(in.Category)
	in.Tags = util.SanitizeAll(in.Tags)
	if in.Notes != nil {
		clean := util.SanitizeText(*in.Notes)
		if clean == "" {
			in.Notes = nil
		} else {
			in.Notes = &clean
		}
	}
}

type WorkoutService struct {
	workouts ports.WorkoutRepository
}

func NewWorkoutService(workouts ports.WorkoutRepository) *WorkoutService {
	return &WorkoutService{workouts: workouts}
}

// CreateWorkout validates and persists an entry for ownerID. The owner id
// comes from the resolved session, never from the input: clients cannot
// write rows for other users.
func (s *WorkoutService) CreateWorkout(ctx context.Context, ownerID uuid.UUID, input WorkoutCreateInput) (*domain.Workout, error) {
	input.Sanitize()

	verrs := domain.ValidationErrors{}

	var workoutDate time.Time
	if input.WorkoutDate == "" {
		verrs.Add("workout_date", "is required")
	} else {
		parsed, err := time.Parse(workoutDateLayout, input.WorkoutDate)
		if err != nil {
			verrs.Add("workout_date", "must be a valid date in YYYY-MM-DD format")
		} else {
			workoutDate = parsed
		}
	}

	if input.Category == "" {
		verrs.Add("category", "is required")
	} else if utf8.RuneCountInString(input.Category) > categoryMaxLen {
		verrs.Add("category", fmt.Sprintf("must be at most %d characters", categoryMaxLen))
	}

	if input.DurationMinutes <= 0 {
		verrs.Add("duration_minutes", "must be a positive number of minutes")
	}
	if input.DistanceKM < 0 {
		verrs.Add("distance_km", "cannot be negative")
	}

	if len(input.Tags) > maxTagsPerWorkout {
		verrs.Add("tags", fmt.Sprintf("at most %d tags allowed", maxTagsPerWorkout))
	} else {
		for _, tag := range input.Tags {
			if utf8.RuneCountInString(tag) > tagMaxLen {
				verrs.Add("tags", fmt.Sprintf("each tag must be at most %d characters", tagMaxLen))
				break
			}
		}
	}

	if input.Notes != nil && utf8.RuneCountInString(*input.Notes) > notesMaxLen {
		verrs.Add("notes", fmt.Sprintf("must be at most %d characters", notesMaxLen))
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	return s.workouts.Create(ctx, &domain.Workout{
		UserID:          ownerID,
		WorkoutDate:     workoutDate,
		Category:        input.Category,
		DurationMinutes: input.DurationMinutes,
		DistanceKM:      input.DistanceKM,
		Tags:            input.Tags,
		Notes:           input.Notes,
	})
}

// ListWorkouts returns the owner's entries newest first. The filter only
// narrows within the owner's rows.
func (s *WorkoutService) ListWorkouts(ctx context.Context, ownerID uuid.UUID, filter domain.WorkoutFilter) ([]domain.Workout, error) {
	if ownerID == uuid.Nil {
		return nil, domain.ErrForbidden
	}
	workouts, err := s.workouts.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	return workouts, nil
}

// Aggregate sums the owner's entries under the same filter as ListWorkouts.
// An owner with no entries gets a zero-valued aggregate, not an error.
func (s *WorkoutService) Aggregate(ctx context.Context, ownerID uuid.UUID, filter domain.WorkoutFilter) (*domain.WorkoutAggregate, error) {
	if ownerID == uuid.Nil {
		return nil, domain.ErrForbidden
	}
	agg, err := s.workouts.AggregateByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}
	if agg.ByCategory == nil {
		agg.ByCategory = []domain.CategoryTotal{}
	}
	return agg, nil
}
