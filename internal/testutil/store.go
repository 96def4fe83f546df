package testutil

import (
	"context"
	"reflect"
	"sync"

	"panchayat/internal/models"
)

// UserStoreStub is an in-memory persistence client for seeder tests.
type UserStoreStub struct {
	mu sync.Mutex

	users   map[string]*models.User
	rows    map[string]int64
	catalog map[string][]any
	nextID  uint

	// ConnectErr is returned by Connect when set.
	ConnectErr error
	// LookupErr is returned by FindUserByEmail when set.
	LookupErr error
	// CreateErrs maps an email to the error CreateUser returns for it.
	CreateErrs map[string]error
	// CreateAllErrs maps an element type name to the error CreateAll returns.
	CreateAllErrs map[string]error

	Connected       bool
	ConnectCalls    int
	DisconnectCalls int
	// Calls records the operations in order, e.g. "find:a@b", "create:a@b".
	Calls []string
}

// NewUserStoreStub creates an empty store seeded with existing users.
func NewUserStoreStub(existing ...models.User) *UserStoreStub {
	s := &UserStoreStub{
		users:         make(map[string]*models.User),
		rows:          make(map[string]int64),
		catalog:       make(map[string][]any),
		nextID:        1,
		CreateErrs:    make(map[string]error),
		CreateAllErrs: make(map[string]error),
	}
	for i := range existing {
		u := existing[i]
		u.ID = s.nextID
		s.nextID++
		s.users[u.Email] = &u
	}
	return s
}

func (s *UserStoreStub) Connect(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ConnectCalls++
	s.Calls = append(s.Calls, "connect")
	if s.ConnectErr != nil {
		return models.NewConnectionError(s.ConnectErr)
	}
	s.Connected = true
	return nil
}

func (s *UserStoreStub) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DisconnectCalls++
	s.Calls = append(s.Calls, "disconnect")
	s.Connected = false
	return nil
}

func (s *UserStoreStub) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "find:"+email)
	if s.LookupErr != nil {
		return nil, models.NewLookupError(email, s.LookupErr)
	}
	u, ok := s.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *UserStoreStub) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "create:"+user.Email)
	if err, ok := s.CreateErrs[user.Email]; ok {
		return models.NewInsertionError("user", user.Email, err)
	}
	if _, ok := s.users[user.Email]; ok {
		return models.NewInsertionError("user", user.Email, models.NewDuplicateError("user", user.Email))
	}
	user.ID = s.nextID
	s.nextID++
	cp := *user
	s.users[user.Email] = &cp
	return nil
}

// Count returns the number of rows stored for model's type.
func (s *UserStoreStub) Count(_ context.Context, model any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[typeName(model)], nil
}

// CreateAll stores len(records) rows for the element type of records and
// assigns an ID to each row, as the database would.
func (s *UserStoreStub) CreateAll(_ context.Context, records any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "create_all:"+typeName(records))
	if err, ok := s.CreateAllErrs[typeName(records)]; ok {
		return err
	}
	v := reflect.Indirect(reflect.ValueOf(records))
	if v.Kind() != reflect.Slice {
		return nil
	}
	name := v.Type().Elem().Name()
	for i := 0; i < v.Len(); i++ {
		row := v.Index(i)
		id := row.FieldByName("ID")
		if id.IsValid() && id.CanSet() && id.Kind() == reflect.Uint && id.Uint() == 0 {
			id.SetUint(uint64(s.nextID))
			s.nextID++
		}
		s.catalog[name] = append(s.catalog[name], row.Interface())
	}
	s.rows[name] += int64(v.Len())
	return nil
}

// Rows returns the rows stored by CreateAll for the named element type,
// e.g. "Complaint".
func (s *UserStoreStub) Rows(name string) []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.catalog[name]...)
}

// User returns a copy of the stored user with email.
func (s *UserStoreStub) User(email string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

// Len returns the number of stored users.
func (s *UserStoreStub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// typeName is the name of model's type, or of its element type for slices.
func typeName(model any) string {
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t.Name()
}
