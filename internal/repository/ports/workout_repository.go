package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/nvallon/trainlog-api/internal/domain"
)

type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (*domain.Workout, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter domain.WorkoutFilter) ([]domain.Workout, error)
	AggregateByOwner(ctx context.Context, ownerID uuid.UUID, filter domain.WorkoutFilter) (*domain.WorkoutAggregate, error)
}
