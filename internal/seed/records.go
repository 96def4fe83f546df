// Package seed populates the portal database with a fixed set of accounts
// and reference data for development and bootstrap.
package seed

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"panchayat/internal/models"
)

const (
	dateLayout = "2006-01-02"
	aadhaarLen = 12
	pincodeLen = 6
)

// UserSeedRecord describes one account to create. Password is plaintext and
// only lives long enough to be hashed.
type UserSeedRecord struct {
	Email    string       `yaml:"email"`
	Password string       `yaml:"password"`
	Role     models.Role  `yaml:"role"`
	FullName string       `yaml:"full_name"`
	Mobile   string       `yaml:"mobile"`
	Clerk    *ClerkSeed   `yaml:"clerk,omitempty"`
	Citizen  *CitizenSeed `yaml:"citizen,omitempty"`
}

// ClerkSeed is the optional clerk profile of a record.
type ClerkSeed struct {
	EmployeeID  string `yaml:"employee_id"`
	Department  string `yaml:"department"`
	Designation string `yaml:"designation"`
}

// CitizenSeed is the optional citizen profile of a record. DateOfBirth uses
// the YYYY-MM-DD layout.
type CitizenSeed struct {
	Aadhaar     string `yaml:"aadhaar"`
	DateOfBirth string `yaml:"dob"`
	Gender      string `yaml:"gender"`
	Address     string `yaml:"address"`
	Village     string `yaml:"village"`
	Pincode     string `yaml:"pincode"`
}

// toUser builds the model to insert. New accounts are always active.
func (r UserSeedRecord) toUser(passwordHash string) (*models.User, error) {
	user := &models.User{
		Email:        r.Email,
		PasswordHash: passwordHash,
		Role:         r.Role,
		FullName:     r.FullName,
		Mobile:       r.Mobile,
		IsActive:     true,
	}
	if r.Clerk != nil {
		user.ClerkProfile = &models.ClerkProfile{
			EmployeeID:  r.Clerk.EmployeeID,
			Department:  r.Clerk.Department,
			Designation: r.Clerk.Designation,
		}
	}
	if r.Citizen != nil {
		dob, err := time.Parse(dateLayout, r.Citizen.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("parse date of birth for %s: %w", r.Email, err)
		}
		user.CitizenProfile = &models.CitizenProfile{
			AadhaarNumber: r.Citizen.Aadhaar,
			DateOfBirth:   dob,
			Gender:        r.Citizen.Gender,
			Address:       r.Citizen.Address,
			Village:       r.Citizen.Village,
			Pincode:       r.Citizen.Pincode,
		}
	}
	return user, nil
}

// ValidateRecords checks a record list before anything touches the database.
// Emails, clerk employee IDs and aadhaar numbers are unique in the portal
// schema, so they must be present and distinct within the list.
func ValidateRecords(records []UserSeedRecord) error {
	if len(records) == 0 {
		return models.NewFixtureError("no seed records")
	}

	seen := make(map[string]int, len(records))
	employeeIDs := make(map[string]int)
	aadhaars := make(map[string]int)
	for i, r := range records {
		pos := i + 1
		if r.Email == "" {
			return models.NewFixtureError(fmt.Sprintf("record %d: email is required", pos))
		}
		if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
			return models.NewFixtureError(fmt.Sprintf("record %d: invalid email %q", pos, r.Email))
		}
		key := strings.ToLower(r.Email)
		if prev, dup := seen[key]; dup {
			return models.NewFixtureError(fmt.Sprintf("record %d: email %s duplicates record %d", pos, r.Email, prev))
		}
		seen[key] = pos

		if r.Password == "" {
			return models.NewFixtureError(fmt.Sprintf("record %d (%s): password is required", pos, r.Email))
		}
		if !r.Role.Valid() {
			return models.NewFixtureError(fmt.Sprintf("record %d (%s): unknown role %q", pos, r.Email, r.Role))
		}
		if strings.TrimSpace(r.FullName) == "" {
			return models.NewFixtureError(fmt.Sprintf("record %d (%s): full_name is required", pos, r.Email))
		}
		if r.Clerk != nil {
			if r.Role != models.RoleClerk {
				return models.NewFixtureError(fmt.Sprintf("record %d (%s): clerk profile on a %s account", pos, r.Email, r.Role))
			}
			id := strings.TrimSpace(r.Clerk.EmployeeID)
			if id == "" {
				return models.NewFixtureError(fmt.Sprintf("record %d (%s): clerk employee_id is required", pos, r.Email))
			}
			if prev, dup := employeeIDs[id]; dup {
				return models.NewFixtureError(fmt.Sprintf("record %d (%s): employee_id %s duplicates record %d", pos, r.Email, id, prev))
			}
			employeeIDs[id] = pos
		}
		if r.Citizen != nil {
			if r.Role != models.RoleCitizen {
				return models.NewFixtureError(fmt.Sprintf("record %d (%s): citizen profile on a %s account", pos, r.Email, r.Role))
			}
			if !isDigits(r.Citizen.Aadhaar, aadhaarLen) {
				return models.NewFixtureError(fmt.Sprintf("record %d (%s): aadhaar must be %d digits", pos, r.Email, aadhaarLen))
			}
			if prev, dup := aadhaars[r.Citizen.Aadhaar]; dup {
				return models.NewFixtureError(fmt.Sprintf("record %d (%s): aadhaar duplicates record %d", pos, r.Email, prev))
			}
			aadhaars[r.Citizen.Aadhaar] = pos
			if !isDigits(r.Citizen.Pincode, pincodeLen) {
				return models.NewFixtureError(fmt.Sprintf("record %d (%s): pincode must be %d digits", pos, r.Email, pincodeLen))
			}
			if _, err := time.Parse(dateLayout, r.Citizen.DateOfBirth); err != nil {
				return models.NewFixtureError(fmt.Sprintf("record %d (%s): dob must be YYYY-MM-DD", pos, r.Email))
			}
		}
	}
	return nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Preset names accepted by Preset.
const (
	PresetDefault = "default"
	PresetDemo    = "demo"
)

// Preset returns a fresh copy of the named record list.
func Preset(name string) ([]UserSeedRecord, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetDefault:
		return DefaultRecords(), nil
	case PresetDemo:
		return DemoRecords(), nil
	default:
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(PresetNames(), ", "))
	}
}

// PresetNames lists the available presets.
func PresetNames() []string {
	names := []string{PresetDefault, PresetDemo}
	sort.Strings(names)
	return names
}

// DefaultRecords is one account per role.
func DefaultRecords() []UserSeedRecord {
	return []UserSeedRecord{
		{Email: "admin@gram.in", Password: "password123", Role: models.RoleAdmin, FullName: "Admin User", Mobile: "9000000001"},
		{Email: "clerk@gram.in", Password: "password123", Role: models.RoleClerk, FullName: "Clerk User", Mobile: "9000000002"},
		{Email: "citizen@gram.in", Password: "password123", Role: models.RoleCitizen, FullName: "Citizen User", Mobile: "9000000003"},
	}
}

// DemoRecords is a populated village: two admins, two clerks with profiles
// and five citizens with profiles.
func DemoRecords() []UserSeedRecord {
	return []UserSeedRecord{
		{Email: "admin@panchayat.com", Password: "admin123", Role: models.RoleAdmin, FullName: "Ramesh Kumar", Mobile: "9999999999"},
		{Email: "admin@gram.in", Password: "password123", Role: models.RoleAdmin, FullName: "Sunita Patel", Mobile: "9000000001"},
		{
			Email: "clerk1@gram.in", Password: "clerk123", Role: models.RoleClerk, FullName: "Vijay Sharma", Mobile: "9000000002",
			Clerk: &ClerkSeed{EmployeeID: "EMP-001", Department: "Revenue", Designation: "Senior Clerk"},
		},
		{
			Email: "clerk2@gram.in", Password: "clerk123", Role: models.RoleClerk, FullName: "Priya Gupta", Mobile: "9000000003",
			Clerk: &ClerkSeed{EmployeeID: "EMP-002", Department: "Civil Works", Designation: "Junior Clerk"},
		},
		{
			Email: "citizen1@gram.in", Password: "citizen123", Role: models.RoleCitizen, FullName: "Mohanlal Verma", Mobile: "9111111111",
			Citizen: &CitizenSeed{Aadhaar: "111122223333", DateOfBirth: "1985-06-15", Gender: "male", Address: "House No 5, Main Street", Village: "Sarahi", Pincode: "483880"},
		},
		{
			Email: "citizen2@gram.in", Password: "citizen123", Role: models.RoleCitizen, FullName: "Savita Devi", Mobile: "9222222222",
			Citizen: &CitizenSeed{Aadhaar: "444455556666", DateOfBirth: "1990-03-22", Gender: "female", Address: "Near Temple, Ward 2", Village: "Sarahi", Pincode: "483880"},
		},
		{
			Email: "citizen3@gram.in", Password: "citizen123", Role: models.RoleCitizen, FullName: "Raju Singh", Mobile: "9333333333",
			Citizen: &CitizenSeed{Aadhaar: "777788889999", DateOfBirth: "1978-11-08", Gender: "male", Address: "Farmers Colony, Lane 4", Village: "Sarahi", Pincode: "483880"},
		},
		{
			Email: "citizen4@gram.in", Password: "citizen123", Role: models.RoleCitizen, FullName: "Anita Kumari", Mobile: "9444444444",
			Citizen: &CitizenSeed{Aadhaar: "000011112222", DateOfBirth: "1995-07-19", Gender: "female", Address: "Block A, Government Housing", Village: "Sarahi", Pincode: "483880"},
		},
		{
			Email: "citizen5@gram.in", Password: "citizen123", Role: models.RoleCitizen, FullName: "Dinesh Patel", Mobile: "9555555555",
			Citizen: &CitizenSeed{Aadhaar: "333344445555", DateOfBirth: "1982-02-14", Gender: "male", Address: "Old Market Area, Shop No 22", Village: "Sarahi", Pincode: "483880"},
		},
	}
}
