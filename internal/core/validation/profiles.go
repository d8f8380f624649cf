package validation

import "ContinuingEducation/internal/core/domain"

// Field keys shared by snapshots, profiles and labels.
const (
	KeyFirstName = "first_name"
	KeyLastName  = "last_name"
	KeyGender    = "gender"
	KeyEmail     = "email"

	KeyLocation   = "location"
	KeyPostalCode = "postal_code"
	KeyCity       = "city"
	KeyCountry    = "country"

	KeyCitizenship              = "citizenship"
	KeyPhoneMobile              = "phone_mobile"
	KeyHighSchoolDiploma        = "high_school_diploma"
	KeyHighSchoolGraduationYear = "high_school_graduation_year"
	KeyLastDegreeLevel          = "last_degree_level"
	KeyLastDegreeField          = "last_degree_field"
	KeyLastDegreeInstitution    = "last_degree_institution"
	KeyLastDegreeGraduationYear = "last_degree_graduation_year"
	KeyOtherEducations          = "other_educations"
	KeyProfessionalStatus       = "professional_status"
	KeyCurrentOccupation        = "current_occupation"
	KeyCurrentEmployer          = "current_employer"
	KeyActivitySector           = "activity_sector"
	KeyPastProfessionalExp      = "past_professional_activities"
	KeyMotivation               = "motivation"
	KeyProfessionalImpact       = "professional_impact"
	KeyFormation                = "formation"

	KeyRegistrationType        = "registration_type"
	KeyHeadOfficeName          = "head_office_name"
	KeyCompanyNumber           = "company_number"
	KeyVATNumber               = "vat_number"
	KeyPurchaseOrderReference  = "purchase_order_reference"
	KeyMaritalStatus           = "marital_status"
	KeySpouseName              = "spouse_name"
	KeyChildrenNumber          = "children_number"
	KeyPreviousUCLRegistration = "previous_ucl_registration"
	KeyPreviousNOMA            = "previous_noma"
	KeyNationalRegistryNumber  = "national_registry_number"
	KeyIDCardNumber            = "id_card_number"
	KeyPassportNumber          = "passport_number"
)

// Graduation years outside this window are typos.
const (
	minGraduationYear = 1900
	maxGraduationYear = 2100
)

var (
	shortText = MaxLength(50)
	text      = MaxLength(255)
	longText  = MaxLength(2000)
	year      = NumericRange(minGraduationYear, maxGraduationYear)
)

// DraftPerson is applied while the applicant edits their file.
var DraftPerson = Profile{
	Name: "draft_person",
	Fields: []FieldSpec{
		field(KeyFirstName, shortText),
		field(KeyLastName, shortText),
		field(KeyGender, Choice(string(domain.GenderFemale), string(domain.GenderMale), string(domain.GenderOther))),
		field(KeyEmail, Email, text),
	},
}

// DraftAddress is applied to every address while drafting.
var DraftAddress = Profile{
	Name: "draft_address",
	Fields: []FieldSpec{
		field(KeyLocation, text),
		field(KeyPostalCode, MaxLength(20)),
		field(KeyCity, text),
		field(KeyCountry, Regex(`^[A-Z]{2}$`, CodeInvalidFormat)),
	},
}

// DraftAdmission covers every format rule of the admission record,
// registration fields included.
var DraftAdmission = Profile{
	Name: "draft_admission",
	Fields: []FieldSpec{
		field(KeyCitizenship, Regex(`^[A-Z]{2}$`, CodeInvalidFormat)),
		field(KeyPhoneMobile, Phone),
		field(KeyEmail, Email, text),
		field(KeyHighSchoolDiploma),
		field(KeyHighSchoolGraduationYear, year),
		field(KeyLastDegreeLevel, text),
		field(KeyLastDegreeField, text),
		field(KeyLastDegreeInstitution, text),
		field(KeyLastDegreeGraduationYear, year),
		field(KeyOtherEducations, longText),
		field(KeyProfessionalStatus, text),
		field(KeyCurrentOccupation, text),
		field(KeyCurrentEmployer, text),
		field(KeyActivitySector, text),
		field(KeyPastProfessionalExp, longText),
		field(KeyMotivation, longText),
		field(KeyProfessionalImpact, longText),
		field(KeyFormation),
		field(KeyRegistrationType, Choice(string(domain.RegistrationPrivate), string(domain.RegistrationProfessional))),
		field(KeyHeadOfficeName, text),
		field(KeyCompanyNumber, text),
		field(KeyVATNumber, text),
		field(KeyPurchaseOrderReference, text),
		field(KeyMaritalStatus, Choice(
			string(domain.MaritalSingle),
			string(domain.MaritalMarried),
			string(domain.MaritalWidowed),
			string(domain.MaritalDivorced),
			string(domain.MaritalSeparated),
			string(domain.MaritalPartner),
		)),
		field(KeySpouseName, text),
		field(KeyChildrenNumber, NumericRange(0, 30)),
		field(KeyPreviousUCLRegistration),
		field(KeyPreviousNOMA, MaxLength(20)),
		field(KeyNationalRegistryNumber, MaxLength(20)),
		field(KeyIDCardNumber, MaxLength(50)),
		field(KeyPassportNumber, MaxLength(50)),
	},
}

// StrictPerson is checked before any submission.
var StrictPerson = DraftPerson.Strict("strict_person",
	KeyFirstName, KeyLastName, KeyGender, KeyEmail,
)

// StrictAddress is checked on every address a submission depends on.
var StrictAddress = DraftAddress.Strict("strict_address",
	KeyLocation, KeyPostalCode, KeyCity, KeyCountry,
)

// StrictAdmission is checked before an admission is submitted.
var StrictAdmission = onlyFields(DraftAdmission, admissionFields...).Strict("strict_admission", admissionFields...)

// StrictRegistration is checked before a registration is submitted.
var StrictRegistration = onlyFields(DraftAdmission, registrationFields...).
	Strict("strict_registration", KeyRegistrationType, KeyMaritalStatus, KeyPreviousUCLRegistration).
	WithCheck(AtLeastOneOf(KeyNationalRegistryNumber, CodeOneOfIdentityDocuments, IdentityDocumentKeys...))

// IdentityDocumentKeys are the fields of which at least one is needed to register.
var IdentityDocumentKeys = []string{KeyNationalRegistryNumber, KeyIDCardNumber, KeyPassportNumber}

var admissionFields = []string{
	KeyCitizenship,
	KeyPhoneMobile,
	KeyEmail,
	KeyHighSchoolDiploma,
	KeyLastDegreeLevel,
	KeyLastDegreeField,
	KeyLastDegreeInstitution,
	KeyLastDegreeGraduationYear,
	KeyProfessionalStatus,
	KeyCurrentOccupation,
	KeyCurrentEmployer,
	KeyActivitySector,
	KeyMotivation,
	KeyProfessionalImpact,
	KeyFormation,
}

var registrationFields = []string{
	KeyRegistrationType,
	KeyMaritalStatus,
	KeyPreviousUCLRegistration,
	KeyNationalRegistryNumber,
	KeyIDCardNumber,
	KeyPassportNumber,
}

// onlyFields keeps the specs of p named in keys, in p's order.
func onlyFields(p Profile, keys ...string) Profile {
	keep := make(map[string]bool, len(keys))
	for _, k := range keys {
		keep[k] = true
	}
	out := Profile{Name: p.Name}
	for _, spec := range p.Fields {
		if keep[spec.Key] {
			out.Fields = append(out.Fields, spec)
		}
	}
	return out
}
