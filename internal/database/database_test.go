package database_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"panchayat/internal/config"
	"panchayat/internal/database"
	"panchayat/internal/models"
	"panchayat/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestPostgresDSN(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		DBHost:     "db.internal",
		DBPort:     "5433",
		DBUser:     "panchayat",
		DBPassword: "s3cret",
		DBName:     "gram",
	}
	assert.Equal(t, "host=db.internal port=5433 user=panchayat password=s3cret dbname=gram sslmode=disable", database.PostgresDSN(cfg))

	cfg.DBSSLMode = "require"
	assert.Contains(t, database.PostgresDSN(cfg), "sslmode=require")

	cfg.DatabaseURL = "postgres://u:p@localhost:5432/gram"
	assert.Equal(t, cfg.DatabaseURL, database.PostgresDSN(cfg))
}

func TestDialector(t *testing.T) {
	t.Parallel()

	d, err := database.Dialector(&config.Config{DBDriver: config.DriverSQLite, DBPath: "x.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = database.Dialector(&config.Config{DBDriver: config.DriverPostgres})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = database.Dialector(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestClient_ConnectAndDisconnect(t *testing.T) {
	cfg, _ := testutil.NewSQLiteConfig(t)
	client, err := database.NewClient(cfg, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, client.Connect(ctx))
	require.NotNil(t, client.DB())
	require.NoError(t, client.Connect(ctx), "second connect is a no-op")

	u, err := client.FindUserByEmail(ctx, "nobody@gram.in")
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, client.CreateUser(ctx, &models.User{
		Email: "admin@gram.in", PasswordHash: "hash", Role: models.RoleAdmin, FullName: "Admin User", IsActive: true,
	}))
	u, err = client.FindUserByEmail(ctx, "admin@gram.in")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, models.RoleAdmin, u.Role)

	n, err := client.Count(ctx, &models.User{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, client.Disconnect())
	require.NoError(t, client.Disconnect(), "disconnect is idempotent")
	assert.Nil(t, client.DB())
}

func TestClient_DuplicateEmail(t *testing.T) {
	cfg, _ := testutil.NewSQLiteConfig(t)
	client, err := database.NewClient(cfg, nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))
	t.Cleanup(func() { _ = client.Disconnect() })

	user := func() *models.User {
		return &models.User{Email: "clerk@gram.in", PasswordHash: "hash", Role: models.RoleClerk, FullName: "Clerk User", IsActive: true}
	}
	require.NoError(t, client.CreateUser(ctx, user()))

	err = client.CreateUser(ctx, user())
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeInsertion))
	assert.True(t, models.HasCode(err, models.CodeDuplicate))
	assert.Contains(t, err.Error(), "user clerk@gram.in already exists")
}

func TestClient_ProfileKeyTaken(t *testing.T) {
	cfg, db := testutil.NewSQLiteConfig(t)
	client, err := database.NewClient(cfg, nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))
	t.Cleanup(func() { _ = client.Disconnect() })

	clerk := func(email string) *models.User {
		return &models.User{
			Email: email, PasswordHash: "hash", Role: models.RoleClerk, FullName: "Clerk User", IsActive: true,
			ClerkProfile: &models.ClerkProfile{EmployeeID: "EMP-001", Department: "Revenue"},
		}
	}
	require.NoError(t, client.CreateUser(ctx, clerk("a@gram.in")))

	err = client.CreateUser(ctx, clerk("b@gram.in"))
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeDuplicate))
	assert.Contains(t, err.Error(), "employee_id is already taken")
	assert.NotContains(t, err.Error(), "already exists")

	var n int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", "b@gram.in").Count(&n).Error)
	assert.Zero(t, n, "the user row is rolled back with its profile")
}

func TestClient_NotConnected(t *testing.T) {
	t.Parallel()

	client, err := database.NewClient(&config.Config{DBDriver: config.DriverSQLite, DBPath: "unused.db"}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.FindUserByEmail(ctx, "admin@gram.in")
	assert.ErrorIs(t, err, database.ErrNotConnected)
	assert.True(t, models.HasCode(err, models.CodeLookup))

	err = client.CreateUser(ctx, &models.User{Email: "admin@gram.in"})
	assert.ErrorIs(t, err, database.ErrNotConnected)

	_, err = client.Count(ctx, &models.Scheme{})
	assert.ErrorIs(t, err, database.ErrNotConnected)
	assert.ErrorIs(t, client.CreateAll(ctx, &[]models.Scheme{}), database.ErrNotConnected)
	assert.NoError(t, client.Disconnect())
}

func TestClient_ConnectFailure(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		DBDriver:                config.DriverSQLite,
		DBPath:                  filepath.Join(t.TempDir(), "no", "such", "dir", "gram.db"),
		DBConnectTimeoutSeconds: 1,
	}
	client, err := database.NewClient(cfg, nil)
	require.NoError(t, err)

	err = client.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConnection))
	assert.Nil(t, client.DB())
}

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestGormLogger_Trace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	query := func() (string, int64) { return `SELECT * FROM "users"`, 1 }

	l, buf := newBufferLogger()
	gl := database.NewGormLogger(l)
	gl.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is an expected outcome")

	gl.Trace(ctx, time.Now(), query, errors.New("relation \"users\" does not exist"))
	assert.Contains(t, buf.String(), "GORM query error")
	assert.Contains(t, buf.String(), "does not exist")

	buf.Reset()
	gl.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	assert.Contains(t, buf.String(), "GORM slow query")

	buf.Reset()
	gl.Trace(ctx, time.Now(), query, nil)
	assert.Empty(t, buf.String(), "fast queries are not logged at warn level")

	gl.LogMode(logger.Info).Trace(ctx, time.Now(), query, nil)
	assert.Contains(t, buf.String(), "GORM query")

	buf.Reset()
	gl.LogMode(logger.Silent).Trace(ctx, time.Now(), query, errors.New("boom"))
	assert.Empty(t, buf.String())
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	t.Parallel()

	gl := database.NewGormLogger(slog.Default())
	sql, params := gl.ParamsFilter(context.Background(), `INSERT INTO "users" ("password_hash") VALUES ($1)`, "$2a$10$secret")
	assert.Equal(t, `INSERT INTO "users" ("password_hash") VALUES ($1)`, sql)
	assert.Empty(t, params)
}

func TestGormLogger_FailedInsertHidesHash(t *testing.T) {
	cfg, _ := testutil.NewSQLiteConfig(t)
	l, buf := newBufferLogger()
	client, err := database.NewClient(cfg, l)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, client.Connect(ctx))
	t.Cleanup(func() { _ = client.Disconnect() })

	user := func() *models.User {
		return &models.User{Email: "clerk@gram.in", PasswordHash: "$2a$10$do-not-log-me", Role: models.RoleClerk, FullName: "Clerk User", IsActive: true}
	}
	require.NoError(t, client.CreateUser(ctx, user()))
	require.Error(t, client.CreateUser(ctx, user()))

	assert.Contains(t, buf.String(), "GORM query error")
	assert.Contains(t, buf.String(), "INSERT INTO")
	assert.NotContains(t, buf.String(), "do-not-log-me")
	assert.NotContains(t, buf.String(), "clerk@gram.in")
}

func TestGormLogger_Levels(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	l, buf := newBufferLogger()
	gl := database.NewGormLogger(l)
	gl.Info(ctx, "hidden %d", 1)
	assert.Empty(t, buf.String())

	gl.Warn(ctx, "pool %s", "saturated")
	gl.Error(ctx, "dial %s", "failed")
	assert.Contains(t, buf.String(), "pool saturated")
	assert.Contains(t, buf.String(), "dial failed")
}
