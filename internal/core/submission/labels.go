package submission

import (
	"ContinuingEducation/internal/core/validation"
	"strings"
)

// Labeler maps a field key to its display label.
type Labeler func(fieldKey string) string

// DefaultLabels are the English display labels.
var DefaultLabels = map[string]string{
	validation.KeyFirstName: "First name",
	validation.KeyLastName:  "Last name",
	validation.KeyGender:    "Gender",
	validation.KeyEmail:     "Email",

	validation.KeyLocation:   "Location",
	validation.KeyPostalCode: "Postal code",
	validation.KeyCity:       "City",
	validation.KeyCountry:    "Country",

	validation.KeyCitizenship:              "Citizenship",
	validation.KeyPhoneMobile:              "Mobile phone",
	validation.KeyHighSchoolDiploma:        "High school diploma",
	validation.KeyHighSchoolGraduationYear: "High school graduation year",
	validation.KeyLastDegreeLevel:          "Last degree level",
	validation.KeyLastDegreeField:          "Last degree field",
	validation.KeyLastDegreeInstitution:    "Last degree institution",
	validation.KeyLastDegreeGraduationYear: "Last degree graduation year",
	validation.KeyOtherEducations:          "Other educations",
	validation.KeyProfessionalStatus:       "Professional status",
	validation.KeyCurrentOccupation:        "Current occupation",
	validation.KeyCurrentEmployer:          "Current employer",
	validation.KeyActivitySector:           "Activity sector",
	validation.KeyPastProfessionalExp:      "Past professional activities",
	validation.KeyMotivation:               "Motivation",
	validation.KeyProfessionalImpact:       "Professional impact",
	validation.KeyFormation:                "Formation",

	validation.KeyRegistrationType:        "Registration type",
	validation.KeyHeadOfficeName:          "Head office name",
	validation.KeyCompanyNumber:           "Company number",
	validation.KeyVATNumber:               "VAT number",
	validation.KeyPurchaseOrderReference:  "Purchase order reference",
	validation.KeyMaritalStatus:           "Marital status",
	validation.KeySpouseName:              "Spouse name",
	validation.KeyChildrenNumber:          "Children number",
	validation.KeyPreviousUCLRegistration: "Previous UCLouvain registration",
	validation.KeyPreviousNOMA:            "Previous NOMA",
	validation.KeyNationalRegistryNumber:  "National registry number",
	validation.KeyIDCardNumber:            "ID card number",
	validation.KeyPassportNumber:          "Passport number",
}

// DefaultLabeler looks the key up in DefaultLabels and falls back to a
// capitalised version of the key.
func DefaultLabeler(fieldKey string) string {
	if label, ok := DefaultLabels[fieldKey]; ok {
		return label
	}
	label := strings.ReplaceAll(fieldKey, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
