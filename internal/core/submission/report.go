package submission

import (
	"ContinuingEducation/internal/core/validation"
	"strings"
)

const (
	// WarningPrefix starts the summary shown on files that cannot be submitted yet.
	WarningPrefix = "Your file is not submittable because you did not provide the following data: "

	// IdentityDocumentsMessage replaces the national registry number label when
	// no identity document was given.
	IdentityDocumentsMessage = "At least one of the following fields: national registry number, ID card number or passport number"
)

// Entity names the sub-record a validation error comes from.
type Entity string

const (
	EntityPerson           Entity = "person"
	EntityContactAddress   Entity = "contact_address"
	EntityBillingAddress   Entity = "billing_address"
	EntityResidenceAddress Entity = "residence_address"
	EntityAdmission        Entity = "admission"
	EntityRegistration     Entity = "registration"
)

// Detail is one failing field, keyed by entity and field so nothing collapses.
type Detail struct {
	Entity  Entity
	Profile string // Name of the validation profile that failed
	Field   string
	Label   string
	Codes   []validation.ErrorCode
	Rules   []string
}

// Report is the merged result of every entity validator for one aggregate.
//
// The label view keeps the first-seen order of labels. A label reported by a
// later entity replaces the codes of the earlier one, as the legacy portal
// did; Details keeps every failure.
type Report struct {
	order   []string
	byLabel map[string][]validation.ErrorCode
	fields  []string
	details []Detail
}

// IsEmpty reports whether the aggregate is submittable.
func (r Report) IsEmpty() bool {
	return len(r.order) == 0
}

// Len is the number of distinct labels.
func (r Report) Len() int {
	return len(r.order)
}

// Labels returns the failing labels in first-seen order.
func (r Report) Labels() []string {
	return append([]string(nil), r.order...)
}

// Errors returns the codes reported under label.
func (r Report) Errors(label string) []validation.ErrorCode {
	return append([]validation.ErrorCode(nil), r.byLabel[label]...)
}

// Map returns the label to codes mapping.
func (r Report) Map() map[string][]validation.ErrorCode {
	m := make(map[string][]validation.ErrorCode, len(r.order))
	for _, label := range r.order {
		m[label] = r.Errors(label)
	}
	return m
}

// Fields returns the flat list of failing field keys, one entry per failure.
func (r Report) Fields() []string {
	return append([]string(nil), r.fields...)
}

// Details returns every failure with its entity.
func (r Report) Details() []Detail {
	return append([]Detail(nil), r.details...)
}

// Has reports whether any label carries code.
func (r Report) Has(code validation.ErrorCode) bool {
	for _, codes := range r.byLabel {
		for _, c := range codes {
			if c == code {
				return true
			}
		}
	}
	return false
}

// Warning renders the summary shown to the applicant, or "" when submittable.
func (r Report) Warning() string {
	if r.IsEmpty() {
		return ""
	}
	items := make([]string, 0, len(r.order))
	for _, label := range r.order {
		if containsCode(r.byLabel[label], validation.CodeOneOfIdentityDocuments) {
			items = append(items, IdentityDocumentsMessage)
			continue
		}
		items = append(items, label)
	}
	return WarningPrefix + "• " + strings.Join(items, " • ")
}

// merge runs profile on snapshot and records its failures under entity.
func (r *Report) merge(entity Entity, profile validation.Profile, snapshot validation.Snapshot, labeler Labeler) {
	errs := profile.Validate(snapshot)
	if r.byLabel == nil {
		r.byLabel = make(map[string][]validation.ErrorCode)
	}
	for _, fe := range errs {
		label := labeler(fe.Key)
		if _, seen := r.byLabel[label]; !seen {
			r.order = append(r.order, label)
		}
		codes := append([]validation.ErrorCode(nil), fe.Codes...)
		r.byLabel[label] = codes
		r.fields = append(r.fields, fe.Key)
		r.details = append(r.details, Detail{
			Entity:  entity,
			Profile: profile.Name,
			Field:   fe.Key,
			Label:   label,
			Codes:   codes,
			Rules:   append([]string(nil), fe.Rules...),
		})
	}
}

func containsCode(codes []validation.ErrorCode, code validation.ErrorCode) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
