package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"panchayat/internal/models"
	"panchayat/internal/observability"
	"panchayat/internal/security"

	"go.opentelemetry.io/otel/attribute"
)

const maskedPassword = "********"

// UserStore is the persistence client the seeder needs. FindUserByEmail
// returns nil, nil when no user has the email.
type UserStore interface {
	Connect(ctx context.Context) error
	Disconnect() error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// Options configures a Seeder. The zero value writes notices to io.Discard,
// masks every password and seeds users only.
type Options struct {
	// Out receives the operator notices.
	Out io.Writer
	// ShowPasswords echoes plaintext passwords in creation notices.
	ShowPasswords bool
	Logger        *slog.Logger
	Metrics       *observability.SeedMetrics
	// Catalog, when set, also seeds the reference tables (registrations,
	// schemes, complaints, certificates, notices, revenue and settings)
	// through the same connection.
	Catalog CatalogStore
}

// Result summarizes a run. Users holds the created or pre-existing account
// for every processed email.
type Result struct {
	Created []string
	Skipped []string
	Users   map[string]*models.User
}

// Seeder inserts a fixed list of accounts that do not exist yet.
type Seeder struct {
	store   UserStore
	hasher  security.Hasher
	records []UserSeedRecord
	opts    Options
}

// NewSeeder returns a seeder over a private copy of records.
func NewSeeder(store UserStore, hasher security.Hasher, records []UserSeedRecord, opts Options) *Seeder {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = observability.Logger
	}
	return &Seeder{
		store:   store,
		hasher:  hasher,
		records: append([]UserSeedRecord(nil), records...),
		opts:    opts,
	}
}

// Records returns a copy of the records the seeder will process.
func (s *Seeder) Records() []UserSeedRecord {
	return append([]UserSeedRecord(nil), s.records...)
}

// Run connects, processes every record in order and disconnects. The first
// failure aborts the run; the connection is released on every path.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	defer s.opts.Metrics.TrackRun()()

	span, ctx := observability.NewSpan(ctx, "seed.run", attribute.Int("seed.records", len(s.records)))
	defer span.End()

	started := time.Now()
	s.opts.Logger.InfoContext(ctx, "seeding started", slog.Int("records", len(s.records)))

	res, err := s.run(ctx)
	if err != nil {
		span.SetError(err)
		s.opts.Metrics.Failure(errorCode(err))
		s.opts.Logger.ErrorContext(ctx, "seeding failed", slog.String("error", err.Error()))
		return res, err
	}

	span.AddAttributes(
		attribute.Int("seed.created", len(res.Created)),
		attribute.Int("seed.skipped", len(res.Skipped)),
	)
	s.opts.Logger.InfoContext(ctx, "seeding completed",
		slog.Int("created", len(res.Created)),
		slog.Int("skipped", len(res.Skipped)),
		slog.Duration("elapsed", time.Since(started)),
	)
	fmt.Fprintln(s.opts.Out, "\n🎉 Seeding complete!")
	return res, nil
}

func (s *Seeder) run(ctx context.Context) (res *Result, err error) {
	res = &Result{Users: make(map[string]*models.User, len(s.records))}

	if err := ValidateRecords(s.records); err != nil {
		return res, err
	}

	if err := s.store.Connect(ctx); err != nil {
		return res, fmt.Errorf("connect: %w", err)
	}
	defer func() {
		if cerr := s.store.Disconnect(); cerr != nil {
			s.opts.Logger.WarnContext(ctx, "disconnect failed", slog.String("error", cerr.Error()))
			if err == nil {
				err = fmt.Errorf("disconnect: %w", cerr)
			}
		}
	}()

	for _, record := range s.records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := s.seedUser(ctx, record, res); err != nil {
			return res, err
		}
	}

	if s.opts.Catalog != nil {
		if err := seedCatalog(ctx, s.opts.Catalog, s.hasher, catalogRefsFor(s.records, res), s.opts); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (s *Seeder) seedUser(ctx context.Context, record UserSeedRecord, res *Result) error {
	span, ctx := observability.NewSpan(ctx, "seed.user",
		attribute.String("user.email", record.Email),
		attribute.String("user.role", string(record.Role)),
	)
	defer span.End()

	existing, err := s.store.FindUserByEmail(ctx, record.Email)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("seed user %s: %w", record.Email, err)
	}
	if existing != nil {
		span.AddAttributes(attribute.String("seed.outcome", "skipped"))
		fmt.Fprintf(s.opts.Out, "⚠️  Already exists: %s  (skipped)\n", record.Email)
		s.opts.Logger.DebugContext(ctx, "seed user skipped", slog.String("email", record.Email))
		s.opts.Metrics.UserSkipped()
		res.Skipped = append(res.Skipped, record.Email)
		res.Users[record.Email] = existing
		return nil
	}

	hash, err := s.hasher.Hash(record.Password)
	if err != nil {
		err = models.NewHashError(record.Email, err)
		span.SetError(err)
		return fmt.Errorf("seed user %s: %w", record.Email, err)
	}

	user, err := record.toUser(hash)
	if err != nil {
		err = models.NewFixtureError(err.Error())
		span.SetError(err)
		return fmt.Errorf("seed user %s: %w", record.Email, err)
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if !models.HasCode(err, models.CodeInsertion) {
			err = models.NewInsertionError("user", record.Email, err)
		}
		span.SetError(err)
		return fmt.Errorf("seed user %s: %w", record.Email, err)
	}

	span.AddAttributes(attribute.String("seed.outcome", "created"))
	fmt.Fprintf(s.opts.Out, "✅ Created: %s  |  role: %s  |  password: %s\n", record.Email, record.Role, s.displayPassword(record.Password))
	s.opts.Logger.DebugContext(ctx, "seed user created",
		slog.String("email", record.Email),
		slog.String("role", string(record.Role)),
		slog.Uint64("id", uint64(user.ID)),
	)
	s.opts.Metrics.UserCreated()
	res.Created = append(res.Created, record.Email)
	res.Users[record.Email] = user
	return nil
}

func (s *Seeder) displayPassword(plaintext string) string {
	if s.opts.ShowPasswords {
		return plaintext
	}
	return maskedPassword
}

// WriteCredentials prints the login details of records, masked unless show is set.
func WriteCredentials(w io.Writer, records []UserSeedRecord, show bool) {
	fmt.Fprintln(w, "\n📋 Test Credentials:")
	for _, r := range records {
		password := maskedPassword
		if show {
			password = r.Password
		}
		fmt.Fprintf(w, "  %-8s %s / %s\n", roleLabel(r.Role)+":", r.Email, password)
	}
}

func roleLabel(r models.Role) string {
	switch r {
	case models.RoleAdmin:
		return "Admin"
	case models.RoleClerk:
		return "Clerk"
	default:
		return "Citizen"
	}
}

func errorCode(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "CANCELED"
	}
	return "UNKNOWN"
}
