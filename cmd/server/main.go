package main

import (
	"ContinuingEducation/internal/adapters/eventbus"
	"ContinuingEducation/internal/adapters/postgres"
	"ContinuingEducation/internal/adapters/security"
	"ContinuingEducation/internal/adapters/telegram"
	"ContinuingEducation/internal/core/domain"
	"ContinuingEducation/internal/core/lifecycle"
	"ContinuingEducation/internal/core/services"
	"ContinuingEducation/internal/core/submission"
	"ContinuingEducation/internal/shared/config"
	"ContinuingEducation/internal/shared/logger"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	actionCheck              = "check"
	actionSubmit             = "submit"
	actionSubmitRegistration = "submit-registration"
	actionDecide             = "decide"
	actionList               = "list"
)

type options struct {
	action      string
	admissionID uuid.UUID
	personID    uuid.UUID
	state       domain.AdmissionState
	reason      *string
}

func main() {
	// 1. Parse flags. log-level overrides LOG_LEVEL through viper.
	flags := pflag.NewFlagSet("continuing-education", pflag.ExitOnError)
	flags.String("action", actionCheck, "check | submit | submit-registration | decide | list")
	flags.String("admission", "", "admission file id")
	flags.String("person", "", "applicant id for list")
	flags.String("state", "", "target state for decide")
	flags.String("reason", "", "reason recorded with a decision")
	flags.String("log-level", "", "trace | debug | info | warn | error")
	_ = flags.Parse(os.Args[1:])

	v := viper.GetViper()
	if err := v.BindPFlag("log.level", flags.Lookup("log-level")); err != nil {
		fmt.Printf("FATAL: Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	opts, err := parseOptions(flags)
	if err != nil {
		fmt.Printf("FATAL: %v\n", err)
		os.Exit(2)
	}

	// 2. Load Configuration
	cfg, err := config.LoadFrom(v)
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 3. Initialize Logger
	baseLogger := logger.New(cfg.IsDev(), cfg.LogLevel)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Bool("telegram", cfg.Telegram.Enabled()).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Initialize the Security Service
	secSvc, err := security.NewAESServiceFromHex(cfg.EncryptionKey, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to initialize security service")
	}

	// 5. Initialize Database
	db, err := postgres.NewDB(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, &baseLogger)
	if err != nil {
		baseLogger.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// 6. Initialize Repositories
	admissionRepo := postgres.NewAdmissionRepository(db, secSvc, &baseLogger)
	formationRepo := postgres.NewFormationRepository(db, &baseLogger)

	// 7. Event bus and staff notifications
	bus := eventbus.NewInMemoryEventBus(&baseLogger)
	defer bus.Wait()
	if cfg.Telegram.Enabled() {
		api, err := telegram.NewBotAPI(cfg.Telegram.BotToken, cfg.Telegram.Debug)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize telegram bot")
		}
		client := telegram.NewClient(api, &baseLogger)
		telegram.NewStaffNotifier(client, cfg.Telegram.StaffChannelID, &baseLogger).Register(bus)
	}

	// 8. Admission service. No registration form renderer is configured.
	svc := services.NewAdmissionService(admissionRepo, formationRepo, nil, bus, submission.NewAggregator(nil), &baseLogger)

	if err := run(ctx, svc, opts, os.Stdout); err != nil {
		var notSubmittable *lifecycle.NotSubmittableError
		if errors.As(err, &notSubmittable) {
			printReport(os.Stdout, notSubmittable.Report)
		}
		baseLogger.Error().Err(err).Str("action", opts.action).Msg("Action failed")
		bus.Wait()
		db.Close()
		os.Exit(1)
	}
}

func parseOptions(flags *pflag.FlagSet) (options, error) {
	var opts options
	opts.action, _ = flags.GetString("action")

	if opts.action == actionList {
		raw, _ := flags.GetString("person")
		id, err := uuid.Parse(raw)
		if err != nil {
			return opts, fmt.Errorf("--person must be a uuid: %w", err)
		}
		opts.personID = id
		return opts, nil
	}

	raw, _ := flags.GetString("admission")
	id, err := uuid.Parse(raw)
	if err != nil {
		return opts, fmt.Errorf("--admission must be a uuid: %w", err)
	}
	opts.admissionID = id

	switch opts.action {
	case actionCheck, actionSubmit, actionSubmitRegistration:
	case actionDecide:
		state, _ := flags.GetString("state")
		opts.state = domain.AdmissionState(strings.ToUpper(state))
		if !opts.state.IsValid() {
			return opts, fmt.Errorf("--state %q is not a known state", state)
		}
		if reason, _ := flags.GetString("reason"); reason != "" {
			opts.reason = &reason
		}
	default:
		return opts, fmt.Errorf("unknown action %q", opts.action)
	}
	return opts, nil
}

// admissionActions is the part of the service the CLI drives.
type admissionActions interface {
	Warnings(ctx context.Context, id uuid.UUID) (submission.Report, error)
	Submit(ctx context.Context, id uuid.UUID) (*domain.AdmissionAggregate, error)
	SubmitRegistration(ctx context.Context, id uuid.UUID) (*domain.AdmissionAggregate, error)
	Decide(ctx context.Context, id uuid.UUID, target domain.AdmissionState, reason *string) (*domain.AdmissionAggregate, error)
	ListForPerson(ctx context.Context, personID uuid.UUID) ([]*domain.Admission, error)
}

func run(ctx context.Context, svc admissionActions, opts options, out io.Writer) error {
	var (
		agg *domain.AdmissionAggregate
		err error
	)
	switch opts.action {
	case actionCheck:
		report, err := svc.Warnings(ctx, opts.admissionID)
		if err != nil {
			return err
		}
		if report.IsEmpty() {
			fmt.Fprintln(out, "Nothing to complete.")
			return nil
		}
		printReport(out, report)
		return nil
	case actionList:
		admissions, err := svc.ListForPerson(ctx, opts.personID)
		if err != nil {
			return err
		}
		if len(admissions) == 0 {
			fmt.Fprintln(out, "No admission files.")
			return nil
		}
		for _, adm := range admissions {
			fmt.Fprintf(out, "%s  %-34s  %s\n", adm.ID, adm.State, adm.CreatedAt.Format("2006-01-02"))
		}
		return nil
	case actionSubmit:
		agg, err = svc.Submit(ctx, opts.admissionID)
	case actionSubmitRegistration:
		agg, err = svc.SubmitRegistration(ctx, opts.admissionID)
	case actionDecide:
		agg, err = svc.Decide(ctx, opts.admissionID, opts.state, opts.reason)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Admission %s is now %s.\n", agg.Admission.ID, agg.Admission.State)
	return nil
}

func printReport(out io.Writer, report submission.Report) {
	fmt.Fprintln(out, report.Warning())
	for _, d := range report.Details() {
		codes := make([]string, len(d.Codes))
		for i, c := range d.Codes {
			codes[i] = string(c)
		}
		fmt.Fprintf(out, "  %s.%s: %s [%s: %s]\n",
			d.Entity, d.Field, strings.Join(codes, ", "), d.Profile, strings.Join(d.Rules, ", "))
	}
}
