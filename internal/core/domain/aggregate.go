package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// AdmissionAggregate is an admission loaded together with the records it
// points at. Billing and Residence may be the same *Address as Contact.
type AdmissionAggregate struct {
	Admission *Admission
	Person    *Person
	Contact   *Address
	Billing   *Address
	Residence *Address
}

// BillingAddress returns the address billing documents go to.
func (g *AdmissionAggregate) BillingAddress() *Address {
	if g.Admission.UseAddressForBilling {
		return g.Contact
	}
	return g.Billing
}

// ResidenceAddress returns the address post goes to.
func (g *AdmissionAggregate) ResidenceAddress() *Address {
	if g.Admission.UseAddressForPost {
		return g.Contact
	}
	return g.Residence
}

// ResolveAddresses points billing and residence at the contact address when
// the matching reuse flag is set, and detaches them from it otherwise.
func (g *AdmissionAggregate) ResolveAddresses() {
	adm := g.Admission
	if g.Contact != nil {
		adm.ContactAddressID = &g.Contact.ID
	}

	if adm.UseAddressForBilling {
		g.Billing = g.Contact
		adm.BillingAddressID = adm.ContactAddressID
	} else if g.Billing != nil && g.Billing == g.Contact {
		g.Billing = nil
		adm.BillingAddressID = nil
	} else if g.Billing != nil {
		adm.BillingAddressID = &g.Billing.ID
	}

	if adm.UseAddressForPost {
		g.Residence = g.Contact
		adm.ResidenceAddressID = adm.ContactAddressID
	} else if g.Residence != nil && g.Residence == g.Contact {
		g.Residence = nil
		adm.ResidenceAddressID = nil
	} else if g.Residence != nil {
		adm.ResidenceAddressID = &g.Residence.ID
	}
}

// CheckAddressAliasing verifies the reuse flags agree with the references.
func (g *AdmissionAggregate) CheckAddressAliasing() error {
	adm := g.Admission
	if err := checkAlias("billing", adm.UseAddressForBilling, adm.ContactAddressID, adm.BillingAddressID); err != nil {
		return err
	}
	return checkAlias("residence", adm.UseAddressForPost, adm.ContactAddressID, adm.ResidenceAddressID)
}

func checkAlias(kind string, reuse bool, contactID, otherID *uuid.UUID) error {
	contact, other := idString(contactID), idString(otherID)
	if reuse && contact != other {
		return fmt.Errorf("%w: %s address must be the contact address", ErrAddressAliasing, kind)
	}
	if !reuse && other != "" && contact == other {
		return fmt.Errorf("%w: %s address must be distinct from the contact address", ErrAddressAliasing, kind)
	}
	return nil
}

func idString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
