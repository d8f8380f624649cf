// Package domaintest builds complete admission aggregates for tests.
package domaintest

import (
	"ContinuingEducation/internal/core/domain"

	"github.com/google/uuid"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Person returns a person with every strict field filled in.
func Person() *domain.Person {
	return &domain.Person{
		ID:            uuid.New(),
		FirstName:     Ptr("Jane"),
		LastName:      Ptr("Doe"),
		Gender:        Ptr(domain.GenderFemale),
		Email:         Ptr("jane.doe@example.org"),
		BirthLocation: Ptr("Namur"),
		BirthCountry:  Ptr("BE"),
	}
}

// Address returns a fully specified address.
func Address() *domain.Address {
	return &domain.Address{
		ID:         uuid.New(),
		Location:   Ptr("Place de l'Université 1"),
		PostalCode: Ptr("1348"),
		City:       Ptr("Louvain-la-Neuve"),
		Country:    Ptr("BE"),
	}
}

// Formation returns a formation that requires registration.
func Formation() *domain.Formation {
	return &domain.Formation{
		ID:                   uuid.New(),
		Acronym:              "DATA2C",
		Title:                "Certificate in data science",
		RegistrationRequired: true,
		Managers:             []domain.Manager{{Email: "manager@example.org"}},
	}
}

// SubmittableAggregate returns a DRAFT aggregate that passes admission and
// registration validation. Billing and residence reuse the contact address.
func SubmittableAggregate() *domain.AdmissionAggregate {
	person := Person()
	contact := Address()
	formationID := uuid.New()

	adm := domain.NewAdmission(person.ID)
	adm.FormationID = &formationID
	adm.CitizenshipCountry = Ptr("BE")
	adm.PhoneMobile = Ptr("0474123456")
	adm.Email = Ptr("jane.doe@example.org")
	adm.HighSchoolDiploma = Ptr(true)
	adm.HighSchoolGraduationYear = Ptr(2005)
	adm.LastDegreeLevel = Ptr("Master")
	adm.LastDegreeField = Ptr("Computer science")
	adm.LastDegreeInstitution = Ptr("UCLouvain")
	adm.LastDegreeGraduationYear = Ptr(2010)
	adm.ProfessionalStatus = Ptr("EMPLOYEE")
	adm.CurrentOccupation = Ptr("Analyst")
	adm.CurrentEmployer = Ptr("ACME")
	adm.ActivitySector = Ptr("PRIVATE")
	adm.Motivation = Ptr("Move into data engineering")
	adm.ProfessionalImpact = Ptr("Lead the analytics team")
	adm.RegistrationType = Ptr(domain.RegistrationPrivate)
	adm.MaritalStatus = Ptr(domain.MaritalSingle)
	adm.PreviousUCLRegistration = Ptr(false)
	adm.NationalRegistryNumber = Ptr("85.07.30-033.61")
	adm.ContactAddressID = &contact.ID
	adm.BillingAddressID = &contact.ID
	adm.ResidenceAddressID = &contact.ID

	return &domain.AdmissionAggregate{
		Admission: adm,
		Person:    person,
		Contact:   contact,
		Billing:   contact,
		Residence: contact,
	}
}

// InState returns SubmittableAggregate moved to state, bypassing the lifecycle.
func InState(state domain.AdmissionState) *domain.AdmissionAggregate {
	agg := SubmittableAggregate()
	agg.Admission.State = state
	return agg
}
