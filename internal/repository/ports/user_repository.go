package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/nvallon/trainlog-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, username, email, passwordDigest string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
