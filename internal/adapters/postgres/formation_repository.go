package postgres

import (
	"ContinuingEducation/internal/core/domain"
	"ContinuingEducation/internal/core/ports"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// FormationRepository reads formations and their managers.
type FormationRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.FormationLookup = (*FormationRepository)(nil)

// NewFormationRepository creates a new formation repository.
func NewFormationRepository(db *DB, baseLogger *zerolog.Logger) *FormationRepository {
	return &FormationRepository{
		db:  db,
		log: baseLogger.With().Str("component", "formation_repo").Logger(),
	}
}

// GetFormation returns a formation with its managers in declaration order.
func (r *FormationRepository) GetFormation(ctx context.Context, id uuid.UUID) (*domain.Formation, error) {
	var f domain.Formation
	err := r.db.pool.QueryRow(ctx,
		`SELECT id, acronym, title, registration_required FROM formations WHERE id = $1`, id,
	).Scan(&f.ID, &f.Acronym, &f.Title, &f.RegistrationRequired)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.Info().Str("formation_id", id.String()).Msg("Formation not found")
			return nil, fmt.Errorf("formation %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	rows, err := r.db.pool.Query(ctx,
		`SELECT email FROM formation_managers WHERE formation_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.Manager
		if err := rows.Scan(&m.Email); err != nil {
			return nil, err
		}
		f.Managers = append(f.Managers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Save upserts a formation and replaces its managers.
func (r *FormationRepository) Save(ctx context.Context, f *domain.Formation) error {
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO formations (id, acronym, title, registration_required)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				acronym = EXCLUDED.acronym,
				title = EXCLUDED.title,
				registration_required = EXCLUDED.registration_required`,
			f.ID, f.Acronym, f.Title, f.RegistrationRequired)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM formation_managers WHERE formation_id = $1`, f.ID); err != nil {
			return err
		}
		for i, m := range f.Managers {
			_, err := tx.Exec(ctx,
				`INSERT INTO formation_managers (formation_id, position, email) VALUES ($1, $2, $3)`,
				f.ID, i, m.Email)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error().Err(err).Str("formation_id", f.ID.String()).Msg("Failed to save formation")
		return err
	}

	r.log.Info().Str("formation_id", f.ID.String()).Str("acronym", f.Acronym).Msg("Formation saved")
	return nil
}
