// Package submission merges the entity validators' output for one admission
// aggregate into a single report.
package submission

import (
	"ContinuingEducation/internal/core/domain"
	"ContinuingEducation/internal/core/validation"
)

// Stage selects which profiles the aggregator runs.
type Stage string

const (
	// StageDraft checks formats only, on everything the applicant can edit.
	StageDraft Stage = "draft"
	// StageAdmission is checked before submit.
	StageAdmission Stage = "admission"
	// StageRegistration is checked before submit_registration.
	StageRegistration Stage = "registration"
)

// Aggregator runs the entity validators and labels their errors. It holds no
// state between calls.
type Aggregator struct {
	labeler Labeler
}

// NewAggregator creates an aggregator. A nil labeler uses DefaultLabeler.
func NewAggregator(labeler Labeler) *Aggregator {
	if labeler == nil {
		labeler = DefaultLabeler
	}
	return &Aggregator{labeler: labeler}
}

// For dispatches on stage.
func (a *Aggregator) For(stage Stage, agg *domain.AdmissionAggregate) Report {
	switch stage {
	case StageDraft:
		return a.ForDraft(agg)
	case StageRegistration:
		return a.ForRegistration(agg)
	default:
		return a.ForAdmission(agg)
	}
}

// ForAdmission checks person, contact address, then the admission fields.
func (a *Aggregator) ForAdmission(agg *domain.AdmissionAggregate) Report {
	var r Report
	r.merge(EntityPerson, validation.StrictPerson, validation.PersonSnapshot(agg.Person), a.labeler)
	r.merge(EntityContactAddress, validation.StrictAddress, validation.AddressSnapshot(agg.Contact), a.labeler)
	r.merge(EntityAdmission, validation.StrictAdmission, validation.AdmissionSnapshot(agg.Admission), a.labeler)
	return r
}

// ForRegistration checks person, the billing and residence addresses, then
// the registration fields. An address reused by both is checked once, under
// billing.
func (a *Aggregator) ForRegistration(agg *domain.AdmissionAggregate) Report {
	var r Report
	billing, residence := agg.BillingAddress(), agg.ResidenceAddress()
	r.merge(EntityPerson, validation.StrictPerson, validation.PersonSnapshot(agg.Person), a.labeler)
	r.merge(EntityBillingAddress, validation.StrictAddress, validation.AddressSnapshot(billing), a.labeler)
	if residence != billing {
		r.merge(EntityResidenceAddress, validation.StrictAddress, validation.AddressSnapshot(residence), a.labeler)
	}
	r.merge(EntityRegistration, validation.StrictRegistration, validation.AdmissionSnapshot(agg.Admission), a.labeler)
	return r
}

// ForDraft runs the lenient profiles on every editable record.
func (a *Aggregator) ForDraft(agg *domain.AdmissionAggregate) Report {
	var r Report
	adm := agg.Admission
	r.merge(EntityPerson, validation.DraftPerson, validation.PersonSnapshot(agg.Person), a.labeler)
	r.merge(EntityContactAddress, validation.DraftAddress, validation.AddressSnapshot(agg.Contact), a.labeler)
	if !adm.UseAddressForBilling {
		r.merge(EntityBillingAddress, validation.DraftAddress, validation.AddressSnapshot(agg.Billing), a.labeler)
	}
	if !adm.UseAddressForPost {
		r.merge(EntityResidenceAddress, validation.DraftAddress, validation.AddressSnapshot(agg.Residence), a.labeler)
	}
	r.merge(EntityAdmission, validation.DraftAdmission, validation.AdmissionSnapshot(adm), a.labeler)
	return r
}
