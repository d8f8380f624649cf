// Package lifecycle decides admission state transitions. It never persists:
// callers apply the returned Transition and save the aggregate themselves.
package lifecycle

import (
	"ContinuingEducation/internal/core/domain"
	"ContinuingEducation/internal/core/submission"
	"fmt"
)

// Actions exposed to callers.
const (
	ActionSubmit             = "submit"
	ActionSubmitRegistration = "submit_registration"
	ActionDecide             = "decide"
	ActionEdit               = "edit"
)

const (
	msgSubmitFromDraft                = "To submit an admission, its state must be DRAFT."
	msgSubmitRegistrationFromAccepted = "To submit a registration, its state must be ACCEPTED."
	msgEditDraftOnly                  = "To edit an admission, its state must be DRAFT."
	msgReservedState                  = "This state can only be reached by the applicant's submission."
)

// Transition is a decided state change.
type Transition struct {
	Action string
	From   domain.AdmissionState
	To     domain.AdmissionState
	Reason *string
}

// Apply writes the decision onto adm.
func (t Transition) Apply(adm *domain.Admission) {
	adm.State = t.To
	if t.Reason != nil {
		adm.StateReason = t.Reason
	}
}

// NotSubmittableError is returned when the origin state is right but the
// aggregate is incomplete. It carries the report for display.
type NotSubmittableError struct {
	Action string
	Report submission.Report
}

func (e *NotSubmittableError) Error() string {
	return fmt.Sprintf("%s: file is not submittable (%d missing or invalid fields)", e.Action, e.Report.Len())
}

// Is makes the error match domain.ErrPermissionDenied.
func (e *NotSubmittableError) Is(target error) bool {
	return target == domain.ErrPermissionDenied
}

// Submit decides DRAFT -> SUBMITTED. report must come from the admission stage.
func Submit(adm *domain.Admission, report submission.Report) (Transition, error) {
	return guarded(ActionSubmit, adm, domain.StateDraft, domain.StateSubmitted, msgSubmitFromDraft, report)
}

// SubmitRegistration decides ACCEPTED -> REGISTRATION_SUBMITTED. report must
// come from the registration stage.
func SubmitRegistration(adm *domain.Admission, report submission.Report) (Transition, error) {
	return guarded(ActionSubmitRegistration, adm, domain.StateAccepted, domain.StateRegistrationSubmitted, msgSubmitRegistrationFromAccepted, report)
}

func guarded(action string, adm *domain.Admission, from, to domain.AdmissionState, msg string, report submission.Report) (Transition, error) {
	if adm.State != from {
		return Transition{}, &domain.IllegalTransitionError{Action: action, From: adm.State, Message: msg}
	}
	if !report.IsEmpty() {
		return Transition{}, &NotSubmittableError{Action: action, Report: report}
	}
	return Transition{Action: action, From: from, To: to}, nil
}

// Decide records an administrator's decision. Any known state is accepted
// except the two reached only through the applicant's guarded submissions.
func Decide(adm *domain.Admission, target domain.AdmissionState, reason *string) (Transition, error) {
	if !target.IsValid() {
		return Transition{}, fmt.Errorf("%w: %q", domain.ErrInvalidState, target)
	}
	if target == domain.StateSubmitted || target == domain.StateRegistrationSubmitted {
		return Transition{}, &domain.IllegalTransitionError{Action: ActionDecide, From: adm.State, Message: msgReservedState}
	}
	return Transition{Action: ActionDecide, From: adm.State, To: target, Reason: reason}, nil
}

// AcceptanceState is the state an accepted admission lands in: formations
// without a registration step skip straight past it.
func AcceptanceState(formation *domain.Formation) domain.AdmissionState {
	if formation != nil && !formation.RegistrationRequired {
		return domain.StateAcceptedNoRegistrationRequired
	}
	return domain.StateAccepted
}

// CanEdit fails unless the applicant may still modify adm.
func CanEdit(adm *domain.Admission) error {
	if !adm.IsDraft() {
		return &domain.IllegalTransitionError{Action: ActionEdit, From: adm.State, Message: msgEditDraftOnly}
	}
	return nil
}

// StageFor returns the validation stage relevant to adm's current state and
// whether one applies at all.
func StageFor(adm *domain.Admission) (submission.Stage, bool) {
	switch adm.State {
	case domain.StateDraft:
		return submission.StageAdmission, true
	case domain.StateAccepted:
		return submission.StageRegistration, true
	default:
		return "", false
	}
}
