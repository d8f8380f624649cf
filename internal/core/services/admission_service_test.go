package services

import (
	"ContinuingEducation/internal/core/domain"
	"ContinuingEducation/internal/core/domain/domaintest"
	"ContinuingEducation/internal/core/lifecycle"
	"ContinuingEducation/internal/core/ports"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

// MockAdmissionRepository
type MockAdmissionRepository struct {
	mock.Mock
}

var _ ports.AdmissionRepository = (*MockAdmissionRepository)(nil)

func (m *MockAdmissionRepository) Create(ctx context.Context, agg *domain.AdmissionAggregate) error {
	args := m.Called(ctx, agg)
	return args.Error(0)
}

func (m *MockAdmissionRepository) Load(ctx context.Context, id uuid.UUID) (*domain.AdmissionAggregate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdmissionAggregate), args.Error(1)
}

func (m *MockAdmissionRepository) Save(ctx context.Context, agg *domain.AdmissionAggregate) error {
	args := m.Called(ctx, agg)
	return args.Error(0)
}

func (m *MockAdmissionRepository) ListByPerson(ctx context.Context, personID uuid.UUID) ([]*domain.Admission, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Admission), args.Error(1)
}

// MockFormationLookup
type MockFormationLookup struct {
	mock.Mock
}

var _ ports.FormationLookup = (*MockFormationLookup)(nil)

func (m *MockFormationLookup) GetFormation(ctx context.Context, id uuid.UUID) (*domain.Formation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Formation), args.Error(1)
}

// MockEventBus
type MockEventBus struct {
	mock.Mock
}

var _ ports.EventBus = (*MockEventBus)(nil)

func (m *MockEventBus) Publish(ctx context.Context, topic string, data interface{}) error {
	args := m.Called(ctx, topic, data)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(topic string, handler ports.EventHandler) {
	m.Called(topic, handler)
}

func (m *MockEventBus) Wait() {}

// MockRenderer
type MockRenderer struct {
	mock.Mock
}

var _ ports.RegistrationFormRenderer = (*MockRenderer)(nil)

func (m *MockRenderer) Render(ctx context.Context, agg *domain.AdmissionAggregate) ([]byte, error) {
	args := m.Called(ctx, agg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type fixture struct {
	repo       *MockAdmissionRepository
	formations *MockFormationLookup
	bus        *MockEventBus
	renderer   *MockRenderer
	svc        *AdmissionService
}

func newFixture() *fixture {
	nopLogger := zerolog.Nop()
	f := &fixture{
		repo:       new(MockAdmissionRepository),
		formations: new(MockFormationLookup),
		bus:        new(MockEventBus),
		renderer:   new(MockRenderer),
	}
	f.svc = NewAdmissionService(f.repo, f.formations, f.renderer, f.bus, nil, &nopLogger)
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.formations.AssertExpectations(t)
	f.bus.AssertExpectations(t)
	f.renderer.AssertExpectations(t)
}

// --- Tests ---

func TestSubmit_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	agg := domaintest.SubmittableAggregate()
	formation := domaintest.Formation()
	id := agg.Admission.ID

	f.repo.On("Load", mock.Anything, id).Return(agg, nil).Once()
	f.repo.On("Save", mock.Anything, mock.MatchedBy(func(a *domain.AdmissionAggregate) bool {
		return a.Admission.State == domain.StateSubmitted
	})).Return(nil).Once()
	f.formations.On("GetFormation", mock.Anything, *agg.Admission.FormationID).Return(formation, nil).Once()
	f.bus.On("Publish", mock.Anything, ports.TopicAdmissionSubmitted, mock.MatchedBy(func(e ports.AdmissionEvent) bool {
		return e.AdmissionID == id && e.From == domain.StateDraft && e.To == domain.StateSubmitted &&
			e.Applicant == "Jane Doe" && e.Formation == formation
	})).Return(nil).Once()

	got, err := f.svc.Submit(ctx, id)

	require.NoError(t, err)
	assert.Equal(t, domain.StateSubmitted, got.Admission.State)
	f.assertExpectations(t)
}

func TestSubmit_NotDraft(t *testing.T) {
	f := newFixture()
	agg := domaintest.InState(domain.StateSubmitted)
	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(agg, nil).Once()

	got, err := f.svc.Submit(context.Background(), agg.Admission.ID)

	assert.Nil(t, got)
	var illegal *domain.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "To submit an admission, its state must be DRAFT.", illegal.Message)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_IncompleteThenFixed(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	agg := domaintest.SubmittableAggregate()
	agg.Admission.LastDegreeLevel = domaintest.Ptr("")
	id := agg.Admission.ID

	f.repo.On("Load", mock.Anything, id).Return(agg, nil)

	_, err := f.svc.Submit(ctx, id)
	var notSubmittable *lifecycle.NotSubmittableError
	require.ErrorAs(t, err, &notSubmittable)
	assert.Equal(t, []string{"Last degree level"}, notSubmittable.Report.Labels())
	assert.Equal(t, domain.StateDraft, agg.Admission.State)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)

	agg.Admission.LastDegreeLevel = domaintest.Ptr("Bachelor")
	report, err := f.svc.Warnings(ctx, id)
	require.NoError(t, err)
	assert.True(t, report.IsEmpty())

	f.repo.On("Save", mock.Anything, agg).Return(nil).Once()
	f.formations.On("GetFormation", mock.Anything, mock.Anything).Return(domaintest.Formation(), nil).Once()
	f.bus.On("Publish", mock.Anything, ports.TopicAdmissionSubmitted, mock.Anything).Return(nil).Once()

	got, err := f.svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StateSubmitted, got.Admission.State)
	f.assertExpectations(t)
}

func TestSubmit_LoadError(t *testing.T) {
	f := newFixture()
	id := uuid.New()
	f.repo.On("Load", mock.Anything, id).Return(nil, domain.ErrNotFound).Once()

	_, err := f.svc.Submit(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmit_SaveConflict(t *testing.T) {
	f := newFixture()
	agg := domaintest.SubmittableAggregate()
	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(agg, nil).Once()
	f.repo.On("Save", mock.Anything, agg).Return(domain.ErrConflict).Once()

	got, err := f.svc.Submit(context.Background(), agg.Admission.ID)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrConflict)
	f.bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	agg := domaintest.SubmittableAggregate()
	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(agg, nil).Once()
	f.repo.On("Save", mock.Anything, agg).Return(nil).Once()
	f.formations.On("GetFormation", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound).Once()
	f.bus.On("Publish", mock.Anything, ports.TopicAdmissionSubmitted, mock.MatchedBy(func(e ports.AdmissionEvent) bool {
		return e.Formation == nil
	})).Return(errors.New("bus closed")).Once()

	_, err := f.svc.Submit(context.Background(), agg.Admission.ID)

	assert.NoError(t, err)
	f.assertExpectations(t)
}

func TestSubmitRegistration_Success(t *testing.T) {
	f := newFixture()
	agg := domaintest.InState(domain.StateAccepted)
	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(agg, nil).Once()
	f.repo.On("Save", mock.Anything, agg).Return(nil).Once()
	f.formations.On("GetFormation", mock.Anything, mock.Anything).Return(domaintest.Formation(), nil).Once()
	f.bus.On("Publish", mock.Anything, ports.TopicRegistrationSubmitted, mock.Anything).Return(nil).Once()

	got, err := f.svc.SubmitRegistration(context.Background(), agg.Admission.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.StateRegistrationSubmitted, got.Admission.State)
	f.assertExpectations(t)
}

func TestSubmitRegistration_AlreadySubmitted(t *testing.T) {
	f := newFixture()
	agg := domaintest.InState(domain.StateRegistrationSubmitted)
	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(agg, nil).Once()

	_, err := f.svc.SubmitRegistration(context.Background(), agg.Admission.ID)

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, domain.StateRegistrationSubmitted, agg.Admission.State)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDecide_AcceptWithoutRegistrationStep(t *testing.T) {
	f := newFixture()
	agg := domaintest.InState(domain.StateSubmitted)
	formation := domaintest.Formation()
	formation.RegistrationRequired = false

	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(agg, nil).Once()
	f.formations.On("GetFormation", mock.Anything, *agg.Admission.FormationID).Return(formation, nil).Twice()
	f.repo.On("Save", mock.Anything, agg).Return(nil).Once()
	f.bus.On("Publish", mock.Anything, ports.TopicAdmissionDecided, mock.MatchedBy(func(e ports.AdmissionEvent) bool {
		return e.To == domain.StateAcceptedNoRegistrationRequired
	})).Return(nil).Once()

	got, err := f.svc.Decide(context.Background(), agg.Admission.ID, domain.StateAccepted, nil)

	require.NoError(t, err)
	assert.Equal(t, domain.StateAcceptedNoRegistrationRequired, got.Admission.State)
	f.assertExpectations(t)
}

func TestDecide_Reject(t *testing.T) {
	f := newFixture()
	agg := domaintest.InState(domain.StateSubmitted)
	reason := "Prerequisites not met"

	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(agg, nil).Once()
	f.repo.On("Save", mock.Anything, agg).Return(nil).Once()
	f.formations.On("GetFormation", mock.Anything, mock.Anything).Return(domaintest.Formation(), nil).Once()
	f.bus.On("Publish", mock.Anything, ports.TopicAdmissionDecided, mock.Anything).Return(nil).Once()

	got, err := f.svc.Decide(context.Background(), agg.Admission.ID, domain.StateRejected, &reason)

	require.NoError(t, err)
	assert.Equal(t, domain.StateRejected, got.Admission.State)
	assert.Equal(t, reason, *got.Admission.StateReason)
}

func TestDecide_CannotForceSubmission(t *testing.T) {
	f := newFixture()
	agg := domaintest.InState(domain.StateDraft)
	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(agg, nil).Once()

	_, err := f.svc.Decide(context.Background(), agg.Admission.ID, domain.StateSubmitted, nil)

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSaveDraft_Saves(t *testing.T) {
	f := newFixture()
	stored := domaintest.SubmittableAggregate()
	edited := domaintest.SubmittableAggregate()
	edited.Admission.ID = stored.Admission.ID
	edited.Admission.State = domain.StateValidated // ignored, stored state wins
	edited.Admission.Motivation = nil

	f.repo.On("Load", mock.Anything, stored.Admission.ID).Return(stored, nil).Once()
	f.repo.On("Save", mock.Anything, edited).Return(nil).Once()

	report, err := f.svc.SaveDraft(context.Background(), edited)

	require.NoError(t, err)
	assert.True(t, report.IsEmpty())
	assert.Equal(t, domain.StateDraft, edited.Admission.State)
	f.assertExpectations(t)
}

func TestSaveDraft_InvalidFormatIsNotSaved(t *testing.T) {
	f := newFixture()
	agg := domaintest.SubmittableAggregate()
	agg.Admission.PhoneMobile = domaintest.Ptr("12")
	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(domaintest.SubmittableAggregate(), nil).Once()

	report, err := f.svc.SaveDraft(context.Background(), agg)

	require.NoError(t, err)
	assert.Equal(t, []string{"Mobile phone"}, report.Labels())
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSaveDraft_OutsideDraft(t *testing.T) {
	f := newFixture()
	agg := domaintest.SubmittableAggregate()
	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(domaintest.InState(domain.StateSubmitted), nil).Once()

	_, err := f.svc.SaveDraft(context.Background(), agg)

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestStart(t *testing.T) {
	f := newFixture()
	agg := domaintest.SubmittableAggregate()
	agg.Admission.State = ""
	f.repo.On("Create", mock.Anything, agg).Return(nil).Once()

	err := f.svc.Start(context.Background(), agg)

	require.NoError(t, err)
	assert.Equal(t, domain.StateDraft, agg.Admission.State)
	f.assertExpectations(t)
}

func TestStart_RefusesNonDraft(t *testing.T) {
	f := newFixture()
	agg := domaintest.InState(domain.StateAccepted)

	err := f.svc.Start(context.Background(), agg)

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWarnings_ByState(t *testing.T) {
	f := newFixture()
	accepted := domaintest.InState(domain.StateAccepted)
	accepted.Admission.NationalRegistryNumber = nil
	validated := domaintest.InState(domain.StateValidated)
	validated.Admission.Motivation = nil

	f.repo.On("Load", mock.Anything, accepted.Admission.ID).Return(accepted, nil).Once()
	f.repo.On("Load", mock.Anything, validated.Admission.ID).Return(validated, nil).Once()

	report, err := f.svc.Warnings(context.Background(), accepted.Admission.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"National registry number"}, report.Labels())

	report, err = f.svc.Warnings(context.Background(), validated.Admission.ID)
	require.NoError(t, err)
	assert.True(t, report.IsEmpty())
}

func TestRegistrationForm(t *testing.T) {
	f := newFixture()
	agg := domaintest.InState(domain.StateAccepted)
	f.repo.On("Load", mock.Anything, agg.Admission.ID).Return(agg, nil).Twice()
	f.renderer.On("Render", mock.Anything, agg).Return([]byte("%PDF-1.7"), nil).Once()
	f.renderer.On("Render", mock.Anything, agg).Return(nil, nil).Once()

	pdf, err := f.svc.RegistrationForm(context.Background(), agg.Admission.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), pdf)

	_, err = f.svc.RegistrationForm(context.Background(), agg.Admission.ID)
	assert.ErrorIs(t, err, ErrTemplateMissing)
	f.assertExpectations(t)
}

func TestRegistrationForm_NoRenderer(t *testing.T) {
	nopLogger := zerolog.Nop()
	svc := NewAdmissionService(new(MockAdmissionRepository), nil, nil, nil, nil, &nopLogger)

	_, err := svc.RegistrationForm(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrRendererUnavailable)
}

func TestListForPerson(t *testing.T) {
	f := newFixture()
	personID := uuid.New()
	admissions := []*domain.Admission{
		domaintest.InState(domain.StateSubmitted).Admission,
		domaintest.SubmittableAggregate().Admission,
	}
	f.repo.On("ListByPerson", mock.Anything, personID).Return(admissions, nil).Once()

	got, err := f.svc.ListForPerson(context.Background(), personID)

	require.NoError(t, err)
	assert.Equal(t, admissions, got)
	f.assertExpectations(t)
}

func TestListForPerson_RepositoryError(t *testing.T) {
	f := newFixture()
	personID := uuid.New()
	f.repo.On("ListByPerson", mock.Anything, personID).Return(nil, errors.New("connection reset")).Once()

	got, err := f.svc.ListForPerson(context.Background(), personID)

	assert.ErrorContains(t, err, "connection reset")
	assert.Nil(t, got)
	f.assertExpectations(t)
}
