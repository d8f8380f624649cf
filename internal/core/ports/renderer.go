package ports

import (
	"ContinuingEducation/internal/core/domain"
	"context"
)

// RegistrationFormRenderer fills the registration PDF form.
type RegistrationFormRenderer interface {
	// Render returns the PDF bytes, or nil, nil when the template is missing.
	Render(ctx context.Context, agg *domain.AdmissionAggregate) ([]byte, error)
}
