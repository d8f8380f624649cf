package ports

import (
	"ContinuingEducation/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// FormationLookup resolves a formation reference.
type FormationLookup interface {
	// GetFormation returns domain.ErrNotFound when the formation does not exist.
	GetFormation(ctx context.Context, id uuid.UUID) (*domain.Formation, error)
}
