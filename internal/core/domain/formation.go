package domain

import "github.com/google/uuid"

// Manager is a staff member in charge of a formation.
type Manager struct {
	Email string
}

// Formation is the training an admission applies to.
type Formation struct {
	ID                   uuid.UUID
	Acronym              string
	Title                string
	RegistrationRequired bool
	Managers             []Manager
}

// ManagerEmails returns the managers' addresses in declaration order.
func (f *Formation) ManagerEmails() []string {
	emails := make([]string, 0, len(f.Managers))
	for _, m := range f.Managers {
		emails = append(emails, m.Email)
	}
	return emails
}
