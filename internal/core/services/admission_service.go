package services

import (
	"ContinuingEducation/internal/core/domain"
	"ContinuingEducation/internal/core/lifecycle"
	"ContinuingEducation/internal/core/ports"
	"ContinuingEducation/internal/core/submission"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrTemplateMissing is returned when the renderer has no registration form template.
	ErrTemplateMissing = errors.New("registration form template is missing")

	// ErrRendererUnavailable is returned when no renderer is configured.
	ErrRendererUnavailable = errors.New("registration form renderer is not configured")
)

// AdmissionService loads aggregates, runs the validators and the lifecycle
// decisions, then persists and announces the result.
type AdmissionService struct {
	repo       ports.AdmissionRepository
	formations ports.FormationLookup
	renderer   ports.RegistrationFormRenderer // Optional
	bus        ports.EventBus
	aggregator *submission.Aggregator
	log        zerolog.Logger
}

// NewAdmissionService creates the service. renderer may be nil.
func NewAdmissionService(
	repo ports.AdmissionRepository,
	formations ports.FormationLookup,
	renderer ports.RegistrationFormRenderer,
	bus ports.EventBus,
	aggregator *submission.Aggregator,
	baseLogger *zerolog.Logger,
) *AdmissionService {
	if aggregator == nil {
		aggregator = submission.NewAggregator(nil)
	}
	return &AdmissionService{
		repo:       repo,
		formations: formations,
		renderer:   renderer,
		bus:        bus,
		aggregator: aggregator,
		log:        baseLogger.With().Str("component", "admission_service").Logger(),
	}
}

// Start creates a new admission file in DRAFT.
func (s *AdmissionService) Start(ctx context.Context, agg *domain.AdmissionAggregate) error {
	adm := agg.Admission
	if adm.State == "" {
		adm.State = domain.StateDraft
	}
	if err := lifecycle.CanEdit(adm); err != nil {
		return err
	}

	agg.ResolveAddresses()
	if err := agg.CheckAddressAliasing(); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, agg); err != nil {
		s.log.Error().Err(err).Str("admission_id", adm.ID.String()).Msg("Failed to create admission")
		return err
	}
	s.log.Info().Str("admission_id", adm.ID.String()).Msg("Admission started")
	return nil
}

// SaveDraft stores the applicant's edits. Edits are format-checked only; a
// non-empty report means nothing was saved. The state stored in the database
// always wins over the one carried by agg.
func (s *AdmissionService) SaveDraft(ctx context.Context, agg *domain.AdmissionAggregate) (submission.Report, error) {
	log := s.log.With().Str("admission_id", agg.Admission.ID.String()).Logger()

	current, err := s.repo.Load(ctx, agg.Admission.ID)
	if err != nil {
		return submission.Report{}, err
	}
	if err := lifecycle.CanEdit(current.Admission); err != nil {
		log.Warn().Str("state", current.Admission.State.String()).Msg("Refused edit outside DRAFT")
		return submission.Report{}, err
	}
	agg.Admission.State = current.Admission.State
	agg.Admission.StateReason = current.Admission.StateReason

	report := s.aggregator.ForDraft(agg)
	if !report.IsEmpty() {
		log.Info().Strs("fields", report.Fields()).Msg("Draft has invalid fields, not saved")
		return report, nil
	}

	agg.ResolveAddresses()
	if err := agg.CheckAddressAliasing(); err != nil {
		return submission.Report{}, err
	}
	if err := s.repo.Save(ctx, agg); err != nil {
		log.Error().Err(err).Msg("Failed to save draft")
		return submission.Report{}, err
	}
	return report, nil
}

// Warnings returns the report for the stage the admission is in. It is empty
// for states where the applicant has nothing left to submit.
func (s *AdmissionService) Warnings(ctx context.Context, id uuid.UUID) (submission.Report, error) {
	agg, err := s.repo.Load(ctx, id)
	if err != nil {
		return submission.Report{}, err
	}
	stage, ok := lifecycle.StageFor(agg.Admission)
	if !ok {
		return submission.Report{}, nil
	}
	return s.aggregator.For(stage, agg), nil
}

// ListForPerson returns a person's admission files, newest first.
func (s *AdmissionService) ListForPerson(ctx context.Context, personID uuid.UUID) ([]*domain.Admission, error) {
	admissions, err := s.repo.ListByPerson(ctx, personID)
	if err != nil {
		s.log.Error().Err(err).Str("person_id", personID.String()).Msg("Failed to list admissions")
		return nil, err
	}
	s.log.Debug().Str("person_id", personID.String()).Int("count", len(admissions)).Msg("Admissions listed")
	return admissions, nil
}

// Submit moves a complete DRAFT admission to SUBMITTED.
func (s *AdmissionService) Submit(ctx context.Context, id uuid.UUID) (*domain.AdmissionAggregate, error) {
	return s.transition(ctx, id, ports.TopicAdmissionSubmitted, func(agg *domain.AdmissionAggregate) (lifecycle.Transition, error) {
		return lifecycle.Submit(agg.Admission, s.aggregator.ForAdmission(agg))
	})
}

// SubmitRegistration moves a complete ACCEPTED admission to REGISTRATION_SUBMITTED.
func (s *AdmissionService) SubmitRegistration(ctx context.Context, id uuid.UUID) (*domain.AdmissionAggregate, error) {
	return s.transition(ctx, id, ports.TopicRegistrationSubmitted, func(agg *domain.AdmissionAggregate) (lifecycle.Transition, error) {
		return lifecycle.SubmitRegistration(agg.Admission, s.aggregator.ForRegistration(agg))
	})
}

// Decide applies an administrator's decision. Accepting an admission whose
// formation has no registration step lands in ACCEPTED_NO_REGISTRATION_REQUIRED.
func (s *AdmissionService) Decide(ctx context.Context, id uuid.UUID, target domain.AdmissionState, reason *string) (*domain.AdmissionAggregate, error) {
	return s.transition(ctx, id, ports.TopicAdmissionDecided, func(agg *domain.AdmissionAggregate) (lifecycle.Transition, error) {
		if target == domain.StateAccepted {
			formation, err := s.formationOf(ctx, agg.Admission)
			if err != nil {
				return lifecycle.Transition{}, err
			}
			target = lifecycle.AcceptanceState(formation)
		}
		return lifecycle.Decide(agg.Admission, target, reason)
	})
}

// RegistrationForm renders the filled registration PDF.
func (s *AdmissionService) RegistrationForm(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if s.renderer == nil {
		return nil, ErrRendererUnavailable
	}
	agg, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.Render(ctx, agg)
	if err != nil {
		s.log.Error().Err(err).Str("admission_id", id.String()).Msg("Failed to render registration form")
		return nil, fmt.Errorf("render registration form: %w", err)
	}
	if pdf == nil {
		return nil, ErrTemplateMissing
	}
	return pdf, nil
}

// transition is the shared load, decide, apply, save, publish sequence. The
// loaded aggregate is only returned when every step succeeded.
func (s *AdmissionService) transition(
	ctx context.Context,
	id uuid.UUID,
	topic string,
	decide func(agg *domain.AdmissionAggregate) (lifecycle.Transition, error),
) (*domain.AdmissionAggregate, error) {
	log := s.log.With().Str("admission_id", id.String()).Str("topic", topic).Logger()

	agg, err := s.repo.Load(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load admission")
		return nil, err
	}

	tr, err := decide(agg)
	if err != nil {
		var notSubmittable *lifecycle.NotSubmittableError
		if errors.As(err, &notSubmittable) {
			log.Info().Strs("fields", notSubmittable.Report.Fields()).Msg("Admission is not submittable")
			for _, d := range notSubmittable.Report.Details() {
				log.Debug().
					Str("entity", string(d.Entity)).
					Str("profile", d.Profile).
					Str("field", d.Field).
					Strs("rules", d.Rules).
					Msg("Validation failure")
			}
		} else {
			log.Warn().Err(err).Str("state", agg.Admission.State.String()).Msg("Transition refused")
		}
		return nil, err
	}

	tr.Apply(agg.Admission)
	if err := s.repo.Save(ctx, agg); err != nil {
		log.Error().Err(err).Msg("Failed to save admission after transition")
		return nil, err
	}
	log.Info().Str("from", tr.From.String()).Str("to", tr.To.String()).Msg("Admission state changed")

	s.publish(ctx, topic, agg, tr)
	return agg, nil
}

func (s *AdmissionService) publish(ctx context.Context, topic string, agg *domain.AdmissionAggregate, tr lifecycle.Transition) {
	if s.bus == nil {
		return
	}
	formation, err := s.formationOf(ctx, agg.Admission)
	if err != nil {
		// The event still goes out, without the managers.
		s.log.Warn().Err(err).Str("admission_id", agg.Admission.ID.String()).Msg("Failed to resolve formation for event")
	}

	event := ports.AdmissionEvent{
		AdmissionID: agg.Admission.ID,
		PersonID:    agg.Admission.PersonID,
		From:        tr.From,
		To:          tr.To,
		Reason:      tr.Reason,
		Applicant:   applicantName(agg.Person),
		Formation:   formation,
	}
	if err := s.bus.Publish(ctx, topic, event); err != nil {
		// Don't fail the whole operation, just log the error
		s.log.Error().Err(err).Str("topic", topic).Msg("Failed to publish admission event")
	}
}

func (s *AdmissionService) formationOf(ctx context.Context, adm *domain.Admission) (*domain.Formation, error) {
	if adm.FormationID == nil || s.formations == nil {
		return nil, nil
	}
	formation, err := s.formations.GetFormation(ctx, *adm.FormationID)
	if err != nil {
		return nil, fmt.Errorf("lookup formation %s: %w", adm.FormationID, err)
	}
	return formation, nil
}

func applicantName(p *domain.Person) string {
	if p == nil {
		return ""
	}
	var parts []string
	if p.FirstName != nil {
		parts = append(parts, *p.FirstName)
	}
	if p.LastName != nil {
		parts = append(parts, *p.LastName)
	}
	return strings.Join(parts, " ")
}
