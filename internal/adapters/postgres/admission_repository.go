package postgres

import (
	"ContinuingEducation/internal/core/domain"
	"ContinuingEducation/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type admissionRepository struct {
	db     *DB
	secSvc ports.SecurityPort // Identity document numbers are encrypted at rest
	log    zerolog.Logger
}

var _ ports.AdmissionRepository = (*admissionRepository)(nil) // Ensure compliance

// NewAdmissionRepository creates a new repository for admission aggregates.
func NewAdmissionRepository(db *DB, secSvc ports.SecurityPort, baseLogger *zerolog.Logger) ports.AdmissionRepository {
	return &admissionRepository{
		db:     db,
		secSvc: secSvc,
		log:    baseLogger.With().Str("component", "admission_repo").Logger(),
	}
}

// admissionCols is the column order shared by insert, update and scans.
// id comes first and version last.
var admissionCols = []string{
	"id", "person_id", "formation_id", "state", "state_reason",
	"citizenship_country", "phone_mobile", "email",
	"high_school_diploma", "high_school_graduation_year", "last_degree_level",
	"last_degree_field", "last_degree_institution", "last_degree_graduation_year", "other_educations",
	"professional_status", "current_occupation", "current_employer", "activity_sector", "past_professional_exp",
	"motivation", "professional_impact",
	"awareness_ucl_website", "awareness_formation_site", "awareness_press", "awareness_facebook",
	"awareness_linkedin", "awareness_customer_mailing", "awareness_word_of_mouth", "awareness_friends",
	"awareness_former_students", "awareness_mooc", "awareness_other",
	"registration_type", "use_address_for_billing", "head_office_name", "company_number",
	"vat_number", "purchase_order_reference",
	"national_registry_number", "id_card_number", "passport_number",
	"marital_status", "spouse_name", "children_number",
	"use_address_for_post", "previous_ucl_registration", "previous_noma",
	"contact_address_id", "billing_address_id", "residence_address_id",
	"registration_file_received", "registration_complete", "payment_complete", "condition",
	"version",
}

var (
	admissionSelect = `SELECT ` + strings.Join(admissionCols, ", ") + `, created_at, updated_at FROM admissions`

	admissionInsert = `INSERT INTO admissions (` + strings.Join(admissionCols, ", ") + `)
		VALUES (` + placeholders(1, len(admissionCols)) + `)
		RETURNING created_at, updated_at`

	admissionUpdate = buildAdmissionUpdate()
)

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ", ")
}

// buildAdmissionUpdate sets every column but id and version, then guards on
// the version the caller loaded.
func buildAdmissionUpdate() string {
	last := len(admissionCols)
	sets := make([]string, 0, last)
	for i, col := range admissionCols[1 : last-1] {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+2))
	}
	return fmt.Sprintf(`UPDATE admissions SET %s, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $%d
		RETURNING version, updated_at`, strings.Join(sets, ", "), last)
}

// Create upserts the person and addresses, then inserts the admission at version 1.
func (r *admissionRepository) Create(ctx context.Context, agg *domain.AdmissionAggregate) error {
	adm := agg.Admission
	adm.Version = 1

	values, err := r.admissionValues(adm)
	if err != nil {
		return err
	}

	err = r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := r.upsertRelated(ctx, tx, agg); err != nil {
			return err
		}
		return tx.QueryRow(ctx, admissionInsert, values...).Scan(&adm.CreatedAt, &adm.UpdatedAt)
	})
	if err != nil {
		r.log.Error().Err(err).Str("admission_id", adm.ID.String()).Msg("Failed to create admission")
		return err
	}

	r.log.Info().Str("admission_id", adm.ID.String()).Str("state", adm.State.String()).Msg("Admission created")
	return nil
}

// Save persists the aggregate if nobody changed it since it was loaded.
func (r *admissionRepository) Save(ctx context.Context, agg *domain.AdmissionAggregate) error {
	adm := agg.Admission

	values, err := r.admissionValues(adm)
	if err != nil {
		return err
	}

	var (
		version   int
		updatedAt time.Time
	)
	err = r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := r.upsertRelated(ctx, tx, agg); err != nil {
			return err
		}
		err := tx.QueryRow(ctx, admissionUpdate, values...).Scan(&version, &updatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missOrConflict(ctx, tx, adm.ID)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			r.log.Warn().Str("admission_id", adm.ID.String()).Int("version", adm.Version).Msg("Stale admission")
		} else if !errors.Is(err, domain.ErrNotFound) {
			r.log.Error().Err(err).Str("admission_id", adm.ID.String()).Msg("Failed to save admission")
		}
		return err
	}

	adm.Version = version
	adm.UpdatedAt = updatedAt
	r.log.Info().
		Str("admission_id", adm.ID.String()).
		Str("state", adm.State.String()).
		Int("version", version).
		Msg("Admission saved")
	return nil
}

func (r *admissionRepository) missOrConflict(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admissions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("admission %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("admission %s: %w", id, domain.ErrConflict)
}

// Load finds an admission and the records it points at.
func (r *admissionRepository) Load(ctx context.Context, id uuid.UUID) (*domain.AdmissionAggregate, error) {
	adm, err := r.scanAdmission(r.db.pool.QueryRow(ctx, admissionSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Info().Str("admission_id", id.String()).Msg("Admission not found")
			return nil, fmt.Errorf("admission %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	agg := &domain.AdmissionAggregate{Admission: adm}

	agg.Person, err = r.getPerson(ctx, adm.PersonID)
	if err != nil {
		return nil, err
	}

	// Shared references load as one *Address so aliasing stays visible.
	loaded := map[uuid.UUID]*domain.Address{}
	fetch := func(ref *uuid.UUID) (*domain.Address, error) {
		if ref == nil {
			return nil, nil
		}
		if a, ok := loaded[*ref]; ok {
			return a, nil
		}
		a, err := r.getAddress(ctx, *ref)
		if err != nil {
			return nil, err
		}
		loaded[*ref] = a
		return a, nil
	}
	if agg.Contact, err = fetch(adm.ContactAddressID); err != nil {
		return nil, err
	}
	if agg.Billing, err = fetch(adm.BillingAddressID); err != nil {
		return nil, err
	}
	if agg.Residence, err = fetch(adm.ResidenceAddressID); err != nil {
		return nil, err
	}

	return agg, nil
}

// ListByPerson returns a person's admissions, newest first.
func (r *admissionRepository) ListByPerson(ctx context.Context, personID uuid.UUID) ([]*domain.Admission, error) {
	rows, err := r.db.pool.Query(ctx, admissionSelect+` WHERE person_id = $1 ORDER BY created_at DESC`, personID)
	if err != nil {
		r.log.Error().Err(err).Str("person_id", personID.String()).Msg("Failed to list admissions")
		return nil, err
	}
	defer rows.Close()

	admissions := []*domain.Admission{}
	for rows.Next() {
		adm, err := r.scanAdmission(rows)
		if err != nil {
			return nil, err
		}
		admissions = append(admissions, adm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return admissions, nil
}

func (r *admissionRepository) upsertRelated(ctx context.Context, tx pgx.Tx, agg *domain.AdmissionAggregate) error {
	if agg.Person == nil {
		return errors.New("admission aggregate has no person")
	}
	if err := upsertPerson(ctx, tx, agg.Person); err != nil {
		return fmt.Errorf("upsert person: %w", err)
	}

	seen := map[uuid.UUID]bool{}
	for _, addr := range []*domain.Address{agg.Contact, agg.Billing, agg.Residence} {
		if addr == nil || seen[addr.ID] {
			continue
		}
		seen[addr.ID] = true
		if err := upsertAddress(ctx, tx, addr); err != nil {
			return fmt.Errorf("upsert address: %w", err)
		}
	}
	return nil
}

func upsertPerson(ctx context.Context, tx pgx.Tx, p *domain.Person) error {
	var gender *string
	if p.Gender != nil {
		g := string(*p.Gender)
		gender = &g
	}

	query := `
		INSERT INTO persons (id, first_name, last_name, gender, email, birth_date, birth_location, birth_country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			gender = EXCLUDED.gender,
			email = EXCLUDED.email,
			birth_date = EXCLUDED.birth_date,
			birth_location = EXCLUDED.birth_location,
			birth_country = EXCLUDED.birth_country,
			updated_at = now()
		RETURNING created_at, updated_at
	`
	return tx.QueryRow(ctx, query,
		p.ID, p.FirstName, p.LastName, gender, p.Email, p.BirthDate, p.BirthLocation, p.BirthCountry,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func upsertAddress(ctx context.Context, tx pgx.Tx, a *domain.Address) error {
	query := `
		INSERT INTO addresses (id, location, postal_code, city, country)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			location = EXCLUDED.location,
			postal_code = EXCLUDED.postal_code,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			updated_at = now()
		RETURNING created_at, updated_at
	`
	return tx.QueryRow(ctx, query, a.ID, a.Location, a.PostalCode, a.City, a.Country).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *admissionRepository) getPerson(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	var (
		p      domain.Person
		gender *string
	)
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, gender, email, birth_date, birth_location, birth_country,
			created_at, updated_at
		FROM persons WHERE id = $1`, id,
	).Scan(&p.ID, &p.FirstName, &p.LastName, &gender, &p.Email, &p.BirthDate, &p.BirthLocation, &p.BirthCountry,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	if gender != nil {
		g := domain.Gender(*gender)
		p.Gender = &g
	}
	return &p, nil
}

func (r *admissionRepository) getAddress(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	var a domain.Address
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, location, postal_code, city, country, created_at, updated_at
		FROM addresses WHERE id = $1`, id,
	).Scan(&a.ID, &a.Location, &a.PostalCode, &a.City, &a.Country, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("address %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

// admissionValues returns the arguments in admissionCols order, encrypting
// identity document numbers.
func (r *admissionRepository) admissionValues(a *domain.Admission) ([]any, error) {
	nrn, err := r.encrypt(a.NationalRegistryNumber)
	if err != nil {
		return nil, err
	}
	idCard, err := r.encrypt(a.IDCardNumber)
	if err != nil {
		return nil, err
	}
	passport, err := r.encrypt(a.PassportNumber)
	if err != nil {
		return nil, err
	}

	var regType, marital *string
	if a.RegistrationType != nil {
		s := string(*a.RegistrationType)
		regType = &s
	}
	if a.MaritalStatus != nil {
		s := string(*a.MaritalStatus)
		marital = &s
	}

	return []any{
		a.ID, a.PersonID, a.FormationID, string(a.State), a.StateReason,
		a.CitizenshipCountry, a.PhoneMobile, a.Email,
		a.HighSchoolDiploma, a.HighSchoolGraduationYear, a.LastDegreeLevel,
		a.LastDegreeField, a.LastDegreeInstitution, a.LastDegreeGraduationYear, a.OtherEducations,
		a.ProfessionalStatus, a.CurrentOccupation, a.CurrentEmployer, a.ActivitySector, a.PastProfessionalExp,
		a.Motivation, a.ProfessionalImpact,
		a.AwarenessUCLWebsite, a.AwarenessFormationSite, a.AwarenessPress, a.AwarenessFacebook,
		a.AwarenessLinkedin, a.AwarenessCustomerMailing, a.AwarenessWordOfMouth, a.AwarenessFriends,
		a.AwarenessFormerStudents, a.AwarenessMooc, a.AwarenessOther,
		regType, a.UseAddressForBilling, a.HeadOfficeName, a.CompanyNumber,
		a.VATNumber, a.PurchaseOrderReference,
		nrn, idCard, passport,
		marital, a.SpouseName, a.ChildrenNumber,
		a.UseAddressForPost, a.PreviousUCLRegistration, a.PreviousNOMA,
		a.ContactAddressID, a.BillingAddressID, a.ResidenceAddressID,
		a.RegistrationFileReceived, a.RegistrationComplete, a.PaymentComplete, a.Condition,
		a.Version,
	}, nil
}

// scanAdmission scans a row selected with admissionSelect and decrypts it.
func (r *admissionRepository) scanAdmission(row pgx.Row) (*domain.Admission, error) {
	var (
		a                     domain.Admission
		state                 string
		regType, marital      *string
		nrn, idCard, passport *string
	)
	err := row.Scan(
		&a.ID, &a.PersonID, &a.FormationID, &state, &a.StateReason,
		&a.CitizenshipCountry, &a.PhoneMobile, &a.Email,
		&a.HighSchoolDiploma, &a.HighSchoolGraduationYear, &a.LastDegreeLevel,
		&a.LastDegreeField, &a.LastDegreeInstitution, &a.LastDegreeGraduationYear, &a.OtherEducations,
		&a.ProfessionalStatus, &a.CurrentOccupation, &a.CurrentEmployer, &a.ActivitySector, &a.PastProfessionalExp,
		&a.Motivation, &a.ProfessionalImpact,
		&a.AwarenessUCLWebsite, &a.AwarenessFormationSite, &a.AwarenessPress, &a.AwarenessFacebook,
		&a.AwarenessLinkedin, &a.AwarenessCustomerMailing, &a.AwarenessWordOfMouth, &a.AwarenessFriends,
		&a.AwarenessFormerStudents, &a.AwarenessMooc, &a.AwarenessOther,
		&regType, &a.UseAddressForBilling, &a.HeadOfficeName, &a.CompanyNumber,
		&a.VATNumber, &a.PurchaseOrderReference,
		&nrn, &idCard, &passport,
		&marital, &a.SpouseName, &a.ChildrenNumber,
		&a.UseAddressForPost, &a.PreviousUCLRegistration, &a.PreviousNOMA,
		&a.ContactAddressID, &a.BillingAddressID, &a.ResidenceAddressID,
		&a.RegistrationFileReceived, &a.RegistrationComplete, &a.PaymentComplete, &a.Condition,
		&a.Version,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.State = domain.AdmissionState(state)
	if regType != nil {
		t := domain.RegistrationType(*regType)
		a.RegistrationType = &t
	}
	if marital != nil {
		m := domain.MaritalStatus(*marital)
		a.MaritalStatus = &m
	}

	if a.NationalRegistryNumber, err = r.decrypt(a.ID, nrn); err != nil {
		return nil, err
	}
	if a.IDCardNumber, err = r.decrypt(a.ID, idCard); err != nil {
		return nil, err
	}
	if a.PassportNumber, err = r.decrypt(a.ID, passport); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *admissionRepository) encrypt(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	enc, err := r.secSvc.EncryptString(*value)
	if err != nil {
		r.log.Error().Err(err).Msg("Failed to encrypt identity document")
		return nil, err
	}
	return &enc, nil
}

func (r *admissionRepository) decrypt(id uuid.UUID, value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	dec, err := r.secSvc.DecryptString(*value)
	if err != nil {
		r.log.Error().Err(err).Str("admission_id", id.String()).Msg("Failed to decrypt identity document (tampered?)")
		return nil, err
	}
	return &dec, nil
}
