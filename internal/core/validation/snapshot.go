package validation

import (
	"ContinuingEducation/internal/core/domain"

	"github.com/google/uuid"
)

// PersonSnapshot builds the field view of p. A nil person yields an empty snapshot.
func PersonSnapshot(p *domain.Person) Snapshot {
	if p == nil {
		return Snapshot{}
	}
	s := Snapshot{
		KeyFirstName: str(p.FirstName),
		KeyLastName:  str(p.LastName),
		KeyEmail:     str(p.Email),
	}
	if p.Gender != nil {
		s[KeyGender] = string(*p.Gender)
	}
	return s
}

// AddressSnapshot builds the field view of a. A nil address yields an empty snapshot.
func AddressSnapshot(a *domain.Address) Snapshot {
	if a == nil {
		return Snapshot{}
	}
	return Snapshot{
		KeyLocation:   str(a.Location),
		KeyPostalCode: str(a.PostalCode),
		KeyCity:       str(a.City),
		KeyCountry:    str(a.Country),
	}
}

// AdmissionSnapshot builds the field view of an admission record, registration
// fields included.
func AdmissionSnapshot(a *domain.Admission) Snapshot {
	if a == nil {
		return Snapshot{}
	}
	s := Snapshot{
		KeyCitizenship:              str(a.CitizenshipCountry),
		KeyPhoneMobile:              str(a.PhoneMobile),
		KeyEmail:                    str(a.Email),
		KeyHighSchoolDiploma:        boolean(a.HighSchoolDiploma),
		KeyHighSchoolGraduationYear: integer(a.HighSchoolGraduationYear),
		KeyLastDegreeLevel:          str(a.LastDegreeLevel),
		KeyLastDegreeField:          str(a.LastDegreeField),
		KeyLastDegreeInstitution:    str(a.LastDegreeInstitution),
		KeyLastDegreeGraduationYear: integer(a.LastDegreeGraduationYear),
		KeyOtherEducations:          str(a.OtherEducations),
		KeyProfessionalStatus:       str(a.ProfessionalStatus),
		KeyCurrentOccupation:        str(a.CurrentOccupation),
		KeyCurrentEmployer:          str(a.CurrentEmployer),
		KeyActivitySector:           str(a.ActivitySector),
		KeyPastProfessionalExp:      str(a.PastProfessionalExp),
		KeyMotivation:               str(a.Motivation),
		KeyProfessionalImpact:       str(a.ProfessionalImpact),
		KeyFormation:                id(a.FormationID),
		KeyHeadOfficeName:           str(a.HeadOfficeName),
		KeyCompanyNumber:            str(a.CompanyNumber),
		KeyVATNumber:                str(a.VATNumber),
		KeyPurchaseOrderReference:   str(a.PurchaseOrderReference),
		KeySpouseName:               str(a.SpouseName),
		KeyChildrenNumber:           integer(a.ChildrenNumber),
		KeyPreviousUCLRegistration:  boolean(a.PreviousUCLRegistration),
		KeyPreviousNOMA:             str(a.PreviousNOMA),
		KeyNationalRegistryNumber:   str(a.NationalRegistryNumber),
		KeyIDCardNumber:             str(a.IDCardNumber),
		KeyPassportNumber:           str(a.PassportNumber),
	}
	if a.RegistrationType != nil {
		s[KeyRegistrationType] = string(*a.RegistrationType)
	}
	if a.MaritalStatus != nil {
		s[KeyMaritalStatus] = string(*a.MaritalStatus)
	}
	return s
}

// The helpers below keep nil pointers as untyped nil so IsEmpty sees them.

func str(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolean(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func integer(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func id(p *uuid.UUID) any {
	if p == nil || *p == uuid.Nil {
		return nil
	}
	return p.String()
}
