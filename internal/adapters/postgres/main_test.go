package postgres

import (
	"ContinuingEducation/internal/adapters/security"
	"ContinuingEducation/internal/core/domain"
	"ContinuingEducation/internal/core/domain/domaintest"
	"ContinuingEducation/internal/core/ports"
	"ContinuingEducation/internal/shared/config"
	"context"
	"log"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

var (
	testDB     *DB
	testSecSvc ports.SecurityPort
)

// TestMain connects to the database named by DATABASE_URL. Without one the
// integration tests skip and only the pure tests run.
func TestMain(m *testing.M) {
	// .env lives at the project root: /postgres -> /adapters -> /internal -> ROOT
	if err := os.Chdir("../../../"); err != nil {
		log.Fatalf("TestMain: %v", err)
	}

	nopLogger := zerolog.Nop()
	cfg, err := config.Load()
	if err != nil {
		log.Printf("TestMain: no usable config, integration tests skip: %v", err)
		os.Exit(m.Run())
	}

	testSecSvc, err = security.NewAESServiceFromHex(cfg.EncryptionKey, &nopLogger)
	if err != nil {
		log.Fatalf("TestMain: Failed to create security service: %v", err)
	}

	testDB, err = NewDB(context.Background(), cfg.DatabaseURL, cfg.DatabaseMaxConns, &nopLogger)
	if err != nil {
		log.Printf("TestMain: database unreachable, integration tests skip: %v", err)
		os.Exit(m.Run())
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("DATABASE_URL not reachable")
	}
}

// createTestFormation stores a formation the aggregate can reference.
func createTestFormation(t *testing.T) *domain.Formation {
	t.Helper()
	nopLogger := zerolog.Nop()
	f := domaintest.Formation()
	f.Acronym = f.Acronym + "-" + f.ID.String()[:8]
	if err := NewFormationRepository(testDB, &nopLogger).Save(t.Context(), f); err != nil {
		t.Fatalf("createTestFormation failed: %v", err)
	}
	t.Cleanup(func() {
		_, err := testDB.pool.Exec(context.Background(), "DELETE FROM formations WHERE id = $1", f.ID)
		if err != nil {
			t.Logf("Warning: Failed to cleanup formation %s: %v", f.ID, err)
		}
	})
	return f
}

// cleanupTestAggregate removes the admission, its person and its addresses.
func cleanupTestAggregate(t *testing.T, agg *domain.AdmissionAggregate) {
	ctx := context.Background()
	if _, err := testDB.pool.Exec(ctx, "DELETE FROM admissions WHERE person_id = $1", agg.Person.ID); err != nil {
		t.Logf("Warning: Failed to cleanup admissions of %s: %v", agg.Person.ID, err)
	}
	for _, a := range []*domain.Address{agg.Contact, agg.Billing, agg.Residence} {
		if a == nil {
			continue
		}
		if _, err := testDB.pool.Exec(ctx, "DELETE FROM addresses WHERE id = $1", a.ID); err != nil {
			t.Logf("Warning: Failed to cleanup address %s: %v", a.ID, err)
		}
	}
	if _, err := testDB.pool.Exec(ctx, "DELETE FROM persons WHERE id = $1", agg.Person.ID); err != nil {
		t.Logf("Warning: Failed to cleanup person %s: %v", agg.Person.ID, err)
	}
}
