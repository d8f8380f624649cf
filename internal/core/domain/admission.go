package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdmissionState is where an admission file stands in its lifecycle.
type AdmissionState string

const (
	StateDraft                          AdmissionState = "DRAFT"
	StateSubmitted                      AdmissionState = "SUBMITTED"
	StateAccepted                       AdmissionState = "ACCEPTED"
	StateAcceptedNoRegistrationRequired AdmissionState = "ACCEPTED_NO_REGISTRATION_REQUIRED"
	StateRejected                       AdmissionState = "REJECTED"
	StateWaiting                        AdmissionState = "WAITING"
	StateRegistrationSubmitted          AdmissionState = "REGISTRATION_SUBMITTED"
	StateValidated                      AdmissionState = "VALIDATED"
)

// AllStates lists every state in lifecycle order.
var AllStates = []AdmissionState{
	StateDraft,
	StateSubmitted,
	StateAccepted,
	StateAcceptedNoRegistrationRequired,
	StateRejected,
	StateWaiting,
	StateRegistrationSubmitted,
	StateValidated,
}

// IsValid reports whether s is one of the known states.
func (s AdmissionState) IsValid() bool {
	for _, known := range AllStates {
		if s == known {
			return true
		}
	}
	return false
}

func (s AdmissionState) String() string {
	return string(s)
}

// RegistrationType is how the participant is billed.
type RegistrationType string

const (
	RegistrationPrivate      RegistrationType = "PRIVATE"
	RegistrationProfessional RegistrationType = "PROFESSIONAL"
)

// MaritalStatus is the applicant's civil status.
type MaritalStatus string

const (
	MaritalSingle    MaritalStatus = "SINGLE"
	MaritalMarried   MaritalStatus = "MARRIED"
	MaritalWidowed   MaritalStatus = "WIDOWED"
	MaritalDivorced  MaritalStatus = "DIVORCED"
	MaritalSeparated MaritalStatus = "SEPARATED"
	MaritalPartner   MaritalStatus = "LEGAL_COHABITANT"
)

// Admission is an applicant's admission file. Registration data lives on the
// same record once the admission is accepted.
//
// State is only ever changed with a decision from the lifecycle package; the
// repository persists whatever the caller applied.
type Admission struct {
	ID          uuid.UUID
	PersonID    uuid.UUID
	FormationID *uuid.UUID // Nullable while drafting
	State       AdmissionState
	StateReason *string // Nullable

	// Contact
	CitizenshipCountry *string // ISO code, nullable
	PhoneMobile        *string
	Email              *string

	// Education
	HighSchoolDiploma        *bool
	HighSchoolGraduationYear *int
	LastDegreeLevel          *string
	LastDegreeField          *string
	LastDegreeInstitution    *string
	LastDegreeGraduationYear *int
	OtherEducations          *string

	// Professional background
	ProfessionalStatus  *string
	CurrentOccupation   *string
	CurrentEmployer     *string
	ActivitySector      *string
	PastProfessionalExp *string

	// Motivation
	Motivation         *string
	ProfessionalImpact *string

	// Awareness
	AwarenessUCLWebsite      bool
	AwarenessFormationSite   bool
	AwarenessPress           bool
	AwarenessFacebook        bool
	AwarenessLinkedin        bool
	AwarenessCustomerMailing bool
	AwarenessWordOfMouth     bool
	AwarenessFriends         bool
	AwarenessFormerStudents  bool
	AwarenessMooc            bool
	AwarenessOther           *string

	// Billing
	RegistrationType       *RegistrationType
	UseAddressForBilling   bool
	HeadOfficeName         *string
	CompanyNumber          *string
	VATNumber              *string
	PurchaseOrderReference *string

	// Identity documents. At least one is needed before registration submission.
	NationalRegistryNumber *string // Encrypted at rest
	IDCardNumber           *string // Encrypted at rest
	PassportNumber         *string // Encrypted at rest

	// Family
	MaritalStatus  *MaritalStatus
	SpouseName     *string
	ChildrenNumber *int

	// Post
	UseAddressForPost bool

	// Previous registration at the university
	PreviousUCLRegistration *bool
	PreviousNOMA            *string

	// Addresses. Billing and residence may alias the contact address.
	ContactAddressID   *uuid.UUID
	BillingAddressID   *uuid.UUID
	ResidenceAddressID *uuid.UUID

	// Progress flags
	RegistrationFileReceived bool
	RegistrationComplete     bool
	PaymentComplete          bool
	Condition                *string

	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAdmission starts a new admission file in DRAFT.
func NewAdmission(personID uuid.UUID) *Admission {
	return &Admission{
		ID:                   uuid.New(),
		PersonID:             personID,
		State:                StateDraft,
		UseAddressForBilling: true,
		UseAddressForPost:    true,
	}
}

// IsDraft reports whether the applicant may still edit the file.
func (a *Admission) IsDraft() bool {
	return a.State == StateDraft
}
