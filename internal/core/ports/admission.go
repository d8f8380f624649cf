package ports

import (
	"ContinuingEducation/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// AdmissionRepository defines the persistence operations for admission aggregates.
type AdmissionRepository interface {
	// Create saves a new aggregate. Person and addresses are upserted.
	Create(ctx context.Context, agg *domain.AdmissionAggregate) error

	// Load finds an admission with its person and addresses.
	// It returns domain.ErrNotFound when the admission does not exist.
	Load(ctx context.Context, id uuid.UUID) (*domain.AdmissionAggregate, error)

	// Save persists the aggregate and bumps its version.
	// It returns domain.ErrNotFound or domain.ErrConflict.
	Save(ctx context.Context, agg *domain.AdmissionAggregate) error

	// ListByPerson returns a person's admissions, newest first.
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]*domain.Admission, error)
}
