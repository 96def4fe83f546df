// Package database owns the seeder's connection to the portal database.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"panchayat/internal/config"
	"panchayat/internal/models"
	"panchayat/internal/repository"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ErrNotConnected is returned by queries issued before Connect or after Disconnect.
var ErrNotConnected = errors.New("database client is not connected")

// Dialector builds the GORM dialector selected by cfg.DBDriver.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.DBPath), nil
	case config.DriverPostgres, "":
		return postgres.Open(PostgresDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// PostgresDSN returns DATABASE_URL when set, otherwise a keyword/value DSN.
func PostgresDSN(cfg *config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		sslMode,
	)
}

// Client is the seeder's persistence client. It is connected once per run
// and released with Disconnect.
type Client struct {
	dialector      gorm.Dialector
	logger         *slog.Logger
	connectTimeout time.Duration

	db      *gorm.DB
	users   repository.UserRepository
	catalog repository.CatalogRepository
}

// NewClient returns an unconnected client for the database described by cfg.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	c := NewClientWithDialector(dialector, logger)
	c.connectTimeout = time.Duration(cfg.DBConnectTimeoutSeconds) * time.Second
	return c, nil
}

// NewClientWithDialector returns an unconnected client over an explicit dialector.
func NewClientWithDialector(dialector gorm.Dialector, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		dialector:      dialector,
		logger:         logger,
		connectTimeout: 5 * time.Second,
	}
}

// Connect opens the database and verifies it with a ping.
func (c *Client) Connect(ctx context.Context) error {
	if c.db != nil {
		return nil
	}

	// Driver errors are kept untranslated so unique violations still name
	// the column that clashed.
	db, err := gorm.Open(c.dialector, &gorm.Config{
		Logger: NewGormLogger(c.logger),
	})
	if err != nil {
		return models.NewConnectionError(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return models.NewConnectionError(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return models.NewConnectionError(err)
	}

	// Records are processed one at a time.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	c.db = db
	c.users = repository.NewUserRepository(db)
	c.catalog = repository.NewCatalogRepository(db)

	c.logger.InfoContext(ctx, "Database connected successfully", slog.String("dialect", c.dialector.Name()))
	return nil
}

// Disconnect closes the underlying connection pool. It is safe to call more than once.
func (c *Client) Disconnect() error {
	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	c.db, c.users, c.catalog = nil, nil, nil
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	c.logger.Info("Database connection closed")
	return nil
}

// FindUserByEmail returns the user with email, or nil when none exists.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if c.users == nil {
		return nil, models.NewLookupError(email, ErrNotConnected)
	}
	return c.users.GetByEmail(ctx, email)
}

// CreateUser inserts user and its profiles.
func (c *Client) CreateUser(ctx context.Context, user *models.User) error {
	if c.users == nil {
		return models.NewInsertionError("user", user.Email, ErrNotConnected)
	}
	return c.users.Create(ctx, user)
}

// Count returns the number of rows in model's table.
func (c *Client) Count(ctx context.Context, model any) (int64, error) {
	if c.catalog == nil {
		return 0, ErrNotConnected
	}
	return c.catalog.Count(ctx, model)
}

// CreateAll inserts a slice of catalog rows.
func (c *Client) CreateAll(ctx context.Context, records any) error {
	if c.catalog == nil {
		return ErrNotConnected
	}
	return c.catalog.CreateAll(ctx, records)
}

// DB exposes the connected handle, or nil.
func (c *Client) DB() *gorm.DB {
	return c.db
}
