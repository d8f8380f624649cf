package domain

import (
	"time"

	"github.com/google/uuid"
)

// Gender is the applicant's declared gender.
type Gender string

const (
	GenderFemale Gender = "F"
	GenderMale   Gender = "M"
	GenderOther  Gender = "X"
)

// Person represents an applicant. One person may own many admissions over time.
type Person struct {
	ID        uuid.UUID
	FirstName *string // Nullable
	LastName  *string // Nullable
	Gender    *Gender // Nullable
	Email     *string // Nullable

	BirthDate     *time.Time
	BirthLocation *string
	BirthCountry  *string // ISO code

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address is a postal location. Admissions reference addresses, they do not own them.
type Address struct {
	ID         uuid.UUID
	Location   *string
	PostalCode *string
	City       *string
	Country    *string // ISO code
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
