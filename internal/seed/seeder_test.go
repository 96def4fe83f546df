package seed

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"panchayat/internal/models"
	"panchayat/internal/observability"
	"panchayat/internal/security"
	"panchayat/internal/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/prometheus/client_golang/prometheus/testutil/promlint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newHasher(t *testing.T) *security.BcryptHasher {
	t.Helper()
	h, err := security.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

type failingHasher struct{}

func (failingHasher) Hash(string) (string, error) { return "", errors.New("entropy exhausted") }

func noticeLines(out string, prefix string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix) {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestSeeder_EmptyStoreCreatesEveryRecord(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub()
	var out bytes.Buffer
	records := DefaultRecords()

	res, err := NewSeeder(store, newHasher(t), records, Options{Out: &out, ShowPasswords: true}).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Created, 3)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, 3, store.Len())

	created := noticeLines(out.String(), "✅ Created:")
	require.Len(t, created, 3)
	assert.Equal(t, "✅ Created: admin@gram.in  |  role: admin  |  password: password123", created[0])
	assert.Empty(t, noticeLines(out.String(), "⚠️"))
	assert.True(t, strings.HasSuffix(out.String(), "\n🎉 Seeding complete!\n"))

	for _, r := range records {
		u, ok := store.User(r.Email)
		require.True(t, ok, r.Email)
		assert.True(t, u.IsActive)
		assert.Equal(t, r.Role, u.Role)
		assert.Equal(t, r.FullName, u.FullName)
		assert.Equal(t, r.Mobile, u.Mobile)
		assert.NotEqual(t, r.Password, u.PasswordHash)
		assert.True(t, security.Verify(u.PasswordHash, r.Password))
	}
}

func TestSeeder_SkipsExistingEmail(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub(models.User{Email: "admin@gram.in", Role: models.RoleAdmin, PasswordHash: "existing"})
	var out bytes.Buffer

	res, err := NewSeeder(store, newHasher(t), DefaultRecords(), Options{Out: &out}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"admin@gram.in"}, res.Skipped)
	assert.Equal(t, []string{"clerk@gram.in", "citizen@gram.in"}, res.Created)

	skipped := noticeLines(out.String(), "⚠️")
	require.Len(t, skipped, 1)
	assert.Equal(t, "⚠️  Already exists: admin@gram.in  (skipped)", skipped[0])
	assert.Len(t, noticeLines(out.String(), "✅ Created:"), 2)

	admin, _ := store.User("admin@gram.in")
	assert.Equal(t, "existing", admin.PasswordHash, "existing users are never updated")
}

func TestSeeder_ConnectionFailureAborts(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub()
	store.ConnectErr = errors.New("dial tcp 127.0.0.1:5432: connection refused")
	var out bytes.Buffer

	res, err := NewSeeder(store, newHasher(t), DefaultRecords(), Options{Out: &out}).Run(context.Background())
	require.Error(t, err)

	assert.True(t, models.HasCode(err, models.CodeConnection))
	assert.Empty(t, res.Created)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, []string{"connect"}, store.Calls)
	assert.Zero(t, store.DisconnectCalls, "nothing to release when connect failed")
	assert.NotContains(t, out.String(), "Seeding complete")
}

func TestSeeder_InsertionFailureAbortsRun(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub()
	store.CreateErrs["clerk@gram.in"] = errors.New("value too long for type character varying(20)")
	var out bytes.Buffer

	res, err := NewSeeder(store, newHasher(t), DefaultRecords(), Options{Out: &out}).Run(context.Background())
	require.Error(t, err)

	assert.True(t, models.HasCode(err, models.CodeInsertion))
	assert.Contains(t, err.Error(), "clerk@gram.in")
	assert.Equal(t, []string{"admin@gram.in"}, res.Created)
	_, seeded := store.User("citizen@gram.in")
	assert.False(t, seeded, "records after the failure are not processed")
	assert.Equal(t, 1, store.DisconnectCalls)
	assert.Equal(t, "disconnect", store.Calls[len(store.Calls)-1])
	assert.NotContains(t, out.String(), "Seeding complete")
}

func TestSeeder_DuplicateOnInsertIsFatal(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub()
	store.CreateErrs["admin@gram.in"] = models.NewDuplicateError("user", "admin@gram.in")

	_, err := NewSeeder(store, newHasher(t), DefaultRecords(), Options{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeDuplicate))
	assert.True(t, models.HasCode(err, models.CodeInsertion))
	assert.Equal(t, 1, store.DisconnectCalls)
}

func TestSeeder_LookupFailureAborts(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub()
	store.LookupErr = errors.New("canceling statement due to statement timeout")

	_, err := NewSeeder(store, newHasher(t), DefaultRecords(), Options{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeLookup))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, store.DisconnectCalls)
}

func TestSeeder_HashFailureAborts(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub()

	_, err := NewSeeder(store, failingHasher{}, DefaultRecords(), Options{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeHash))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, store.DisconnectCalls)
}

func TestSeeder_ProcessesInListOrder(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub(models.User{Email: "clerk@gram.in"})

	_, err := NewSeeder(store, newHasher(t), DefaultRecords(), Options{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"connect",
		"find:admin@gram.in", "create:admin@gram.in",
		"find:clerk@gram.in",
		"find:citizen@gram.in", "create:citizen@gram.in",
		"disconnect",
	}, store.Calls)
}

func TestSeeder_SecondRunSkipsEverything(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub()
	hasher := newHasher(t)

	_, err := NewSeeder(store, hasher, DefaultRecords(), Options{}).Run(context.Background())
	require.NoError(t, err)
	first := map[string]models.User{}
	for _, r := range DefaultRecords() {
		first[r.Email], _ = store.User(r.Email)
	}

	var out bytes.Buffer
	res, err := NewSeeder(store, hasher, DefaultRecords(), Options{Out: &out}).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, res.Created)
	assert.Len(t, res.Skipped, 3)
	assert.Len(t, noticeLines(out.String(), "⚠️"), 3)
	assert.Equal(t, 3, store.Len())
	for email, before := range first {
		after, _ := store.User(email)
		assert.Equal(t, before, after)
	}
}

func TestSeeder_MasksPasswords(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer

	_, err := NewSeeder(testutil.NewUserStoreStub(), newHasher(t), DefaultRecords(), Options{Out: &out}).Run(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, out.String(), "password123")
	assert.Contains(t, out.String(), "password: ********")
}

func TestSeeder_InvalidRecordsNeverConnect(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub()
	records := DefaultRecords()
	records[1].Role = "sarpanch"

	_, err := NewSeeder(store, newHasher(t), records, Options{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeFixture))
	assert.Zero(t, store.ConnectCalls)
}

func TestSeeder_ProfileKeyClashNeverConnects(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub()
	records := []UserSeedRecord{
		{Email: "a@gram.in", Password: "clerk123", Role: models.RoleClerk, FullName: "A", Clerk: &ClerkSeed{Department: "Revenue"}},
		{Email: "b@gram.in", Password: "clerk123", Role: models.RoleClerk, FullName: "B", Clerk: &ClerkSeed{Department: "Revenue"}},
	}

	_, err := NewSeeder(store, newHasher(t), records, Options{}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeFixture))
	assert.Zero(t, store.ConnectCalls)
	assert.Zero(t, store.Len(), "no account is created before the list is rejected")
}

func TestSeeder_CanceledContextStops(t *testing.T) {
	t.Parallel()
	store := testutil.NewUserStoreStub()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSeeder(store, newHasher(t), DefaultRecords(), Options{}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, store.DisconnectCalls)
}

func TestSeeder_KeepsOwnCopyOfRecords(t *testing.T) {
	t.Parallel()
	records := DefaultRecords()
	s := NewSeeder(testutil.NewUserStoreStub(), newHasher(t), records, Options{})

	records[0].Email = "mutated@gram.in"
	assert.Equal(t, "admin@gram.in", s.Records()[0].Email)
}

func TestSeeder_RecordsMetrics(t *testing.T) {
	t.Parallel()
	metrics := observability.NewSeedMetrics()
	store := testutil.NewUserStoreStub(models.User{Email: "citizen@gram.in"})

	_, err := NewSeeder(store, newHasher(t), DefaultRecords(), Options{Metrics: metrics}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, promtest.ToFloat64(metrics.UsersCreated))
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.UsersSkipped))

	problems, err := promtest.GatherAndLint(metrics.Registry)
	require.NoError(t, err)
	assert.Empty(t, problems, "metric names should follow Prometheus conventions: %v", problemsString(problems))
}

func TestSeeder_FailureMetricCarriesCode(t *testing.T) {
	t.Parallel()
	metrics := observability.NewSeedMetrics()
	store := testutil.NewUserStoreStub()
	store.ConnectErr = errors.New("no route to host")

	_, err := NewSeeder(store, newHasher(t), DefaultRecords(), Options{Metrics: metrics}).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1.0, promtest.ToFloat64(metrics.Failures.WithLabelValues(models.CodeConnection)))
}

func TestWriteCredentials(t *testing.T) {
	t.Parallel()
	var shown, masked bytes.Buffer

	WriteCredentials(&shown, DefaultRecords(), true)
	WriteCredentials(&masked, DefaultRecords(), false)

	assert.Contains(t, shown.String(), "📋 Test Credentials:")
	assert.Contains(t, shown.String(), "Admin:   admin@gram.in / password123")
	assert.Contains(t, shown.String(), "Citizen: citizen@gram.in / password123")
	assert.NotContains(t, masked.String(), "password123")
}

func problemsString(problems []promlint.Problem) string {
	parts := make([]string, 0, len(problems))
	for _, p := range problems {
		parts = append(parts, p.Metric+": "+p.Text)
	}
	return strings.Join(parts, "; ")
}
