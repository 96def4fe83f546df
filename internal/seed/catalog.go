package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"panchayat/internal/models"
	"panchayat/internal/observability"
	"panchayat/internal/security"

	"github.com/brianvoe/gofakeit/v6"
)

// CatalogStore counts and bulk-inserts reference rows. CreateAll fills in the
// primary keys of the inserted rows.
type CatalogStore interface {
	Count(ctx context.Context, model any) (int64, error)
	CreateAll(ctx context.Context, records any) error
}

const (
	// catalogOwnerEmail owns schemes, notices and revenue when it is part of the run.
	catalogOwnerEmail = "admin@gram.in"
	// noticeLifetime is how long seeded notices stay on the board.
	noticeLifetime = 60 * 24 * time.Hour
	// maxCatalogCitizens is how many citizens complaints and applications refer to.
	maxCatalogCitizens = 5
	day                = 24 * time.Hour
)

// catalogRefs are the accounts catalog rows point at. Zero means absent.
type catalogRefs struct {
	adminID  uint
	clerkID  uint
	citizens []uint
}

// citizen returns the i-th citizen of the run, or 0.
func (r catalogRefs) citizen(i int) uint {
	if i < len(r.citizens) {
		return r.citizens[i]
	}
	return 0
}

// catalogRefsFor picks the catalog owner, the first clerk and the first
// citizens among the accounts the run created or found.
func catalogRefsFor(records []UserSeedRecord, res *Result) catalogRefs {
	var refs catalogRefs
	if u := res.Users[catalogOwnerEmail]; u != nil && u.Role == models.RoleAdmin {
		refs.adminID = u.ID
	}
	for _, r := range records {
		u := res.Users[r.Email]
		if u == nil {
			continue
		}
		switch r.Role {
		case models.RoleAdmin:
			if refs.adminID == 0 {
				refs.adminID = u.ID
			}
		case models.RoleClerk:
			if refs.clerkID == 0 {
				refs.clerkID = u.ID
			}
		case models.RoleCitizen:
			if len(refs.citizens) < maxCatalogCitizens {
				refs.citizens = append(refs.citizens, u.ID)
			}
		}
	}
	return refs
}

// seedCatalog fills the reference tables. Each table is only touched when it
// is empty. Admin-owned tables are skipped when the run has no admin.
func seedCatalog(ctx context.Context, store CatalogStore, hasher security.Hasher, refs catalogRefs, opts Options) error {
	span, ctx := observability.NewSpan(ctx, "seed.catalog")
	defer span.End()

	if err := seedCatalogTables(ctx, store, hasher, refs, opts, time.Now()); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

func seedCatalogTables(ctx context.Context, store CatalogStore, hasher security.Hasher, refs catalogRefs, opts Options, now time.Time) error {
	faker := gofakeit.New(FakeSeed)

	if _, err := seedTable(ctx, store, "registration_requests", "registration requests", &models.RegistrationRequest{}, opts, func() (any, int, error) {
		rows, err := RegistrationRequests(hasher)
		return &rows, len(rows), err
	}); err != nil {
		return err
	}

	if refs.adminID == 0 {
		fmt.Fprintln(opts.Out, "⚠️  No admin account in this run; schemes, certificates, notices and revenue skipped")
		opts.Logger.WarnContext(ctx, "catalog seeding without admin", slog.String("skipped", "schemes,certificates,notices,revenue"))
	} else {
		var schemes []models.Scheme
		created, err := seedTable(ctx, store, "schemes", "schemes", &models.Scheme{}, opts, func() (any, int, error) {
			schemes = Schemes(refs.adminID)
			return &schemes, len(schemes), nil
		})
		if err != nil {
			return err
		}
		if created {
			if _, err := seedTable(ctx, store, "scheme_applications", "scheme applications", &models.SchemeApplication{}, opts, func() (any, int, error) {
				rows := schemeApplications(schemes, refs, now)
				return &rows, len(rows), nil
			}); err != nil {
				return err
			}
		}
	}

	if _, err := seedTable(ctx, store, "complaints", "complaints", &models.Complaint{}, opts, func() (any, int, error) {
		rows := complaints(refs, now, faker)
		return &rows, len(rows), nil
	}); err != nil {
		return err
	}

	if refs.adminID != 0 {
		if _, err := seedTable(ctx, store, "certificates", "certificates", &models.Certificate{}, opts, func() (any, int, error) {
			rows := certificates(refs, now, faker)
			return &rows, len(rows), nil
		}); err != nil {
			return err
		}
		if _, err := seedTable(ctx, store, "notices", "notices", &models.Notice{}, opts, func() (any, int, error) {
			rows := Notices(refs.adminID, now)
			return &rows, len(rows), nil
		}); err != nil {
			return err
		}
		if _, err := seedTable(ctx, store, "revenues", "revenue records", &models.Revenue{}, opts, func() (any, int, error) {
			rows := revenue(refs.adminID, now, faker)
			return &rows, len(rows), nil
		}); err != nil {
			return err
		}
	}

	_, err := seedTable(ctx, store, "system_settings", "system settings", &models.SystemSetting{}, opts, func() (any, int, error) {
		rows := SystemSettings()
		return &rows, len(rows), nil
	})
	return err
}

// seedTable inserts the rows from build when model's table is empty. It
// reports whether rows were written.
func seedTable(ctx context.Context, store CatalogStore, table, label string, model any, opts Options, build func() (any, int, error)) (bool, error) {
	count, err := store.Count(ctx, model)
	if err != nil {
		return false, &models.AppError{Code: models.CodeLookup, Message: "count " + table, Err: err}
	}
	if count > 0 {
		opts.Logger.DebugContext(ctx, "catalog table already populated", slog.String("table", table), slog.Int64("rows", count))
		return false, nil
	}

	rows, n, err := build()
	if err != nil {
		return false, err
	}
	if n == 0 {
		opts.Logger.DebugContext(ctx, "no catalog rows to insert", slog.String("table", table))
		return false, nil
	}

	if err := store.CreateAll(ctx, rows); err != nil {
		return false, models.NewInsertionError("rows into", table, err)
	}
	opts.Metrics.RowsAdded(table, n)
	fmt.Fprintf(opts.Out, "✅ %d %s created\n", n, label)
	return true, nil
}

// SystemSettings returns the default portal settings.
func SystemSettings() []models.SystemSetting {
	return []models.SystemSetting{
		{Key: "village_name", Value: "Sarahi Village"},
		{Key: "district", Value: "Katni"},
		{Key: "state", Value: "Madhya Pradesh"},
		{Key: "sarpanch_name", Value: "Ramesh Kumar"},
		{Key: "contact_email", Value: "admin@panchayat.gov.in"},
		{Key: "contact_phone", Value: "9999999999"},
		{Key: "digitization_target", Value: "90"},
		{Key: "financial_year", Value: "2025-26"},
	}
}

// RegistrationRequests returns the pending citizen sign-ups with hashed passwords.
func RegistrationRequests(hasher security.Hasher) ([]models.RegistrationRequest, error) {
	pending := []struct {
		name, email, mobile, aadhaar, dob, gender, address string
	}{
		{"Suresh Yadav", "suresh@example.com", "9600000001", "101010101010", "1988-04-10", "male", "Village Road, Sarahi"},
		{"Kavita Singh", "kavita@example.com", "9600000002", "202020202020", "1993-09-25", "female", "Block B, Sarahi"},
		{"Rakesh Mishra", "rakesh@example.com", "9600000003", "303030303030", "1980-12-01", "male", "Colony No 3, Sarahi"},
	}

	requests := make([]models.RegistrationRequest, 0, len(pending))
	for _, p := range pending {
		hash, err := hasher.Hash("pass123")
		if err != nil {
			return nil, models.NewHashError(p.email, err)
		}
		dob, err := time.Parse(dateLayout, p.dob)
		if err != nil {
			return nil, err
		}
		requests = append(requests, models.RegistrationRequest{
			FullName:      p.name,
			DateOfBirth:   dob,
			Gender:        p.gender,
			AadhaarNumber: p.aadhaar,
			Email:         p.email,
			Mobile:        p.mobile,
			Address:       p.address,
			Village:       "Sarahi",
			Pincode:       "483880",
			PasswordHash:  hash,
			Status:        "pending",
		})
	}
	return requests, nil
}

// Schemes returns the welfare schemes run by the panchayat.
func Schemes(createdBy uint) []models.Scheme {
	schemes := []models.Scheme{
		{SchemeName: "PM Awas Yojana", Description: "Housing scheme for rural poor citizens providing financial assistance for house construction.", AllocatedFunds: 5000000, UtilizedFunds: 3100000, TotalApplications: 450, ApprovedApplications: 120},
		{SchemeName: "MGNREGA Employment", Description: "Guaranteed 100 days of wage employment to rural households under MGNREGA.", AllocatedFunds: 3000000, UtilizedFunds: 2790000, TotalApplications: 1200, ApprovedApplications: 1100},
		{SchemeName: "CM Health Mission", Description: "Free healthcare services and medicines for BPL families.", AllocatedFunds: 1500000, UtilizedFunds: 600000, TotalApplications: 85, ApprovedApplications: 40},
		{SchemeName: "Village Solar Project", Description: "Installing solar panels in rural homes for clean energy at subsidized rates.", AllocatedFunds: 2000000, UtilizedFunds: 400000, TotalApplications: 30, ApprovedApplications: 10},
		{SchemeName: "Jal Jeevan Mission", Description: "Providing safe drinking water to every rural household through tap water connections.", AllocatedFunds: 4000000, UtilizedFunds: 2400000, TotalApplications: 320, ApprovedApplications: 280},
	}
	for i := range schemes {
		schemes[i].CreatedByID = createdBy
		schemes[i].IsActive = true
	}
	return schemes
}

// schemeApplications files one application per citizen, cycling through schemes.
func schemeApplications(schemes []models.Scheme, refs catalogRefs, now time.Time) []models.SchemeApplication {
	if len(schemes) == 0 {
		return nil
	}
	statuses := []string{"pending", "approved", "rejected", "approved", "pending"}
	apps := make([]models.SchemeApplication, 0, len(refs.citizens))
	for i, citizenID := range refs.citizens {
		app := models.SchemeApplication{
			SchemeID:  schemes[i%len(schemes)].ID,
			CitizenID: citizenID,
			Status:    statuses[i%len(statuses)],
			Notes:     "Application submitted via Panchayat portal",
		}
		if app.Status != "pending" {
			app.ReviewedAt = timePtr(now)
		}
		apps = append(apps, app)
	}
	return apps
}

// complaints returns the grievances of the run's citizens. Entries whose
// citizen is absent are left out and numbering stays contiguous.
func complaints(refs catalogRefs, now time.Time, faker *gofakeit.Faker) []models.Complaint {
	var clerk *uint
	if refs.clerkID != 0 {
		clerk = uintPtr(refs.clerkID)
	}
	templates := []struct {
		citizen  int
		kind     string
		subject  string
		desc     string
		location string
		priority string
		status   string
		assigned *uint
		resolved *time.Time
	}{
		{0, "Water Supply", "No water supply for 3 days", "Water supply has been disrupted for 3 consecutive days in our area. Request immediate action.", "Ward 2, Main Street", "high", "open", nil, nil},
		{1, "Sanitation", "Drainage blocked near school", "The main drainage near the government school is completely blocked causing unhygienic conditions.", "Near Government School", "high", "in_progress", clerk, nil},
		{2, "Road", "Road damaged after rain", "The road connecting Ward 3 to main market has severe potholes after recent rains.", "Ward 3 to Market Road", "medium", "resolved", nil, timePtr(now.Add(-5 * day))},
		{3, "Street Light", "Street lights not working", "5 street lights in our colony have not been working for 2 weeks. Area is very dark at night.", "Colony Block A", "medium", "open", nil, nil},
		{4, "Garbage", "Garbage not collected", "Garbage has not been collected for over a week in our area causing health concerns.", "Old Market Area", "low", "resolved", nil, timePtr(now.Add(-2 * day))},
		{0, "Water Supply", "Water quality issue", "The tap water supplied has a foul smell and yellow color. Not fit for drinking.", "Ward 2", "high", "in_progress", clerk, nil},
		{1, "Road", "Speed breaker needed", "There is no speed breaker near the school zone causing accidents. Need urgent installation.", "School Road", "medium", "open", nil, nil},
	}

	var rows []models.Complaint
	for _, c := range templates {
		citizenID := refs.citizen(c.citizen)
		if citizenID == 0 {
			continue
		}
		rows = append(rows, models.Complaint{
			ComplaintNumber: fmt.Sprintf("COMP-%d-%d", now.Year(), 1001+len(rows)),
			CitizenID:       citizenID,
			ComplaintType:   c.kind,
			Subject:         c.subject,
			Description:     c.desc,
			Location:        c.location,
			Priority:        c.priority,
			Status:          c.status,
			AssignedToID:    c.assigned,
			ResolvedAt:      c.resolved,
			SubmittedAt:     recentPast(now, faker),
		})
	}
	return rows
}

// certificates returns certificate applications of the run's citizens.
func certificates(refs catalogRefs, now time.Time, faker *gofakeit.Faker) []models.Certificate {
	admin := uintPtr(refs.adminID)
	var clerk *uint
	if refs.clerkID != 0 {
		clerk = uintPtr(refs.clerkID)
	}
	templates := []struct {
		certType  string
		purpose   string
		status    string
		processor *uint
	}{
		{"Residence Certificate", "Bank Account Opening", "approved", admin},
		{"Income Certificate", "Government Job Application", "pending", nil},
		{"Caste Certificate", "College Admission", "approved", admin},
		{"Residence Certificate", "Passport Application", "rejected", clerk},
		{"Income Certificate", "Scholarship Application", "pending", nil},
	}

	var rows []models.Certificate
	for i, c := range templates {
		citizenID := refs.citizen(i)
		if citizenID == 0 {
			continue
		}
		cert := models.Certificate{
			ApplicationNumber: fmt.Sprintf("CERT-%d-%d", now.Year(), 3001+len(rows)),
			CitizenID:         citizenID,
			CertificateType:   c.certType,
			Purpose:           c.purpose,
			Data:              `{"notes":"Submitted via portal"}`,
			Status:            c.status,
			ProcessedByID:     c.processor,
			SubmittedAt:       recentPast(now, faker),
		}
		if c.status != "pending" {
			cert.ProcessedAt = timePtr(now)
		}
		rows = append(rows, cert)
	}
	return rows
}

// Notices returns the notice board entries; they expire 60 days after now.
func Notices(createdBy uint, now time.Time) []models.Notice {
	notices := []models.Notice{
		{Title: "Gram Sabha Meeting - March 2026", Content: "Monthly Gram Sabha meeting will be held on 15th March 2026 at Panchayat Bhawan at 10 AM. All villagers are requested to attend.", NoticeType: "meeting", Priority: "high", IsPublished: true},
		{Title: "Water Supply Interruption Notice", Content: "Water supply will be interrupted on 5th March 2026 between 8 AM to 2 PM for pipeline maintenance work.", NoticeType: "infrastructure", Priority: "normal", IsPublished: true},
		{Title: "Property Tax Payment Deadline", Content: "Last date for property tax payment is 31st March 2026. Citizens are requested to pay before the deadline to avoid penalties.", NoticeType: "financial", Priority: "urgent", IsPublished: true},
		{Title: "New Scheme: PM Kisan Enrollment", Content: "Enrollment for PM Kisan Samman Nidhi is now open. Eligible farmers can apply at Panchayat office with required documents.", NoticeType: "scheme", Priority: "high", IsPublished: true, IsGlobal: true},
		{Title: "Health Camp - Free Checkup", Content: "Free health camp organized by District Health Department on 20th March 2026. All villagers can avail free medical checkup.", NoticeType: "health", Priority: "normal", IsPublished: false},
	}
	for i := range notices {
		notices[i].CreatedByID = createdBy
		notices[i].ExpiryDate = now.Add(noticeLifetime)
	}
	return notices
}

// revenue returns twelve months of collections in three categories. Months
// after the current one belong to the previous year.
func revenue(collectedBy uint, now time.Time, faker *gofakeit.Faker) []models.Revenue {
	categories := []struct {
		name, desc   string
		base, spread float64
	}{
		{"tax", "Property Tax Collection", 45000, 20000},
		{"fee", "Certificate Fee Collection", 15000, 10000},
		{"scheme_fund", "Government Scheme Funds Received", 25000, 15000},
	}

	rows := make([]models.Revenue, 0, 12*len(categories))
	for m := 1; m <= 12; m++ {
		year := now.Year()
		if int(now.Month()) < m {
			year--
		}
		for _, c := range categories {
			rows = append(rows, models.Revenue{
				Amount:        int64(c.base + faker.Float64Range(0, c.spread) + 0.5),
				Category:      c.name,
				Description:   c.desc,
				Month:         m,
				Year:          year,
				CollectedByID: collectedBy,
				CollectedAt:   time.Date(year, time.Month(m), faker.Number(1, 28), 0, 0, 0, 0, now.Location()),
			})
		}
	}
	return rows
}

// recentPast is a point within the 30 days before now.
func recentPast(now time.Time, faker *gofakeit.Faker) time.Time {
	return now.Add(-time.Duration(faker.Number(0, 30*24*60)) * time.Minute)
}

func timePtr(t time.Time) *time.Time { return &t }

func uintPtr(v uint) *uint { return &v }
