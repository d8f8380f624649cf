package postgres

import (
	"ContinuingEducation/internal/core/domain"
	"ContinuingEducation/internal/core/domain/domaintest"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmissionUpdate_GuardsOnVersion(t *testing.T) {
	assert.Contains(t, admissionUpdate, "WHERE id = $1 AND version = $56")
	assert.Contains(t, admissionUpdate, "person_id = $2")
	assert.Contains(t, admissionUpdate, "condition = $55")
	assert.NotContains(t, admissionUpdate, "id = $1,")
	assert.Equal(t, 56, strings.Count(admissionInsert, "$"))
}

func newTestAggregate(t *testing.T) *domain.AdmissionAggregate {
	agg := domaintest.SubmittableAggregate()
	f := createTestFormation(t)
	agg.Admission.FormationID = &f.ID
	return agg
}

func TestAdmissionRepository_Create_Load_Roundtrip(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewAdmissionRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()

	agg := newTestAggregate(t)
	agg.Admission.PassportNumber = domaintest.Ptr("EH123456")
	defer cleanupTestAggregate(t, agg)

	require.NoError(t, repo.Create(ctx, agg))
	assert.Equal(t, 1, agg.Admission.Version)

	found, err := repo.Load(ctx, agg.Admission.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StateDraft, found.Admission.State)
	assert.Equal(t, *agg.Person.FirstName, *found.Person.FirstName)
	assert.Equal(t, domain.GenderFemale, *found.Person.Gender)
	assert.Equal(t, "85.07.30-033.61", *found.Admission.NationalRegistryNumber, "decryption failed?")
	assert.Equal(t, "EH123456", *found.Admission.PassportNumber)
	assert.Nil(t, found.Admission.IDCardNumber)
	assert.Equal(t, domain.RegistrationPrivate, *found.Admission.RegistrationType)
	assert.Equal(t, 2010, *found.Admission.LastDegreeGraduationYear)

	// Aliased references come back as a single address.
	require.NotNil(t, found.Contact)
	assert.Same(t, found.Contact, found.Billing)
	assert.Same(t, found.Contact, found.Residence)
	assert.NoError(t, found.CheckAddressAliasing())
}

func TestAdmissionRepository_IdentityNumbersEncryptedAtRest(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewAdmissionRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()

	agg := newTestAggregate(t)
	defer cleanupTestAggregate(t, agg)
	require.NoError(t, repo.Create(ctx, agg))

	var stored string
	err := testDB.pool.QueryRow(ctx,
		"SELECT national_registry_number FROM admissions WHERE id = $1", agg.Admission.ID).Scan(&stored)
	require.NoError(t, err)
	assert.NotEqual(t, "85.07.30-033.61", stored)
}

func TestAdmissionRepository_Save_BumpsVersion(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewAdmissionRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()

	agg := newTestAggregate(t)
	defer cleanupTestAggregate(t, agg)
	require.NoError(t, repo.Create(ctx, agg))

	agg.Admission.State = domain.StateSubmitted
	agg.Admission.Motivation = domaintest.Ptr("Changed my mind")
	require.NoError(t, repo.Save(ctx, agg))
	assert.Equal(t, 2, agg.Admission.Version)

	found, err := repo.Load(ctx, agg.Admission.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateSubmitted, found.Admission.State)
	assert.Equal(t, "Changed my mind", *found.Admission.Motivation)
	assert.Equal(t, 2, found.Admission.Version)
}

func TestAdmissionRepository_Save_StaleVersion(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewAdmissionRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()

	agg := newTestAggregate(t)
	defer cleanupTestAggregate(t, agg)
	require.NoError(t, repo.Create(ctx, agg))

	first, err := repo.Load(ctx, agg.Admission.ID)
	require.NoError(t, err)
	second, err := repo.Load(ctx, agg.Admission.ID)
	require.NoError(t, err)

	first.Admission.State = domain.StateSubmitted
	require.NoError(t, repo.Save(ctx, first))

	second.Admission.Motivation = domaintest.Ptr("Lost update")
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAdmissionRepository_Save_SeparateBillingAddress(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewAdmissionRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()

	agg := newTestAggregate(t)
	defer cleanupTestAggregate(t, agg)
	require.NoError(t, repo.Create(ctx, agg))

	agg.Admission.UseAddressForBilling = false
	agg.Billing = domaintest.Address()
	agg.Billing.City = domaintest.Ptr("Bruxelles")
	agg.ResolveAddresses()
	require.NoError(t, repo.Save(ctx, agg))

	found, err := repo.Load(ctx, agg.Admission.ID)
	require.NoError(t, err)
	assert.NotSame(t, found.Contact, found.Billing)
	assert.Equal(t, "Bruxelles", *found.Billing.City)
	assert.Same(t, found.Contact, found.Residence)
}

func TestAdmissionRepository_NotFound(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewAdmissionRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()

	_, err := repo.Load(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	agg := domaintest.SubmittableAggregate()
	agg.Admission.FormationID = nil
	agg.Admission.Version = 1
	defer cleanupTestAggregate(t, agg)
	assert.ErrorIs(t, repo.Save(ctx, agg), domain.ErrNotFound)
}

func TestAdmissionRepository_ListByPerson(t *testing.T) {
	requireDB(t)
	nopLogger := zerolog.Nop()
	repo := NewAdmissionRepository(testDB, testSecSvc, &nopLogger)
	ctx := context.Background()

	agg := newTestAggregate(t)
	defer cleanupTestAggregate(t, agg)
	require.NoError(t, repo.Create(ctx, agg))

	other := &domain.AdmissionAggregate{
		Admission: domain.NewAdmission(agg.Person.ID),
		Person:    agg.Person,
	}
	require.NoError(t, repo.Create(ctx, other))

	list, err := repo.ListByPerson(ctx, agg.Person.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, other.Admission.ID, list[0].ID)
	assert.Equal(t, agg.Admission.ID, list[1].ID)

	empty, err := repo.ListByPerson(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
