package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"panchayat/internal/models"

	"gopkg.in/yaml.v3"
)

type fixtureFile struct {
	Users []UserSeedRecord `yaml:"users"`
}

// LoadRecords reads a YAML fixtures file of the form
//
//	users:
//	  - email: admin@gram.in
//	    password: password123
//	    role: admin
//	    full_name: Admin User
//	    mobile: "9000000001"
//
// and validates the records it contains.
func LoadRecords(path string) ([]UserSeedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseRecords(data)
}

// ParseRecords decodes fixture YAML. Unknown keys are rejected so typos in a
// fixture do not silently drop data.
func ParseRecords(data []byte) ([]UserSeedRecord, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file fixtureFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, models.NewFixtureError("fixtures file is empty")
		}
		return nil, &models.AppError{Code: models.CodeFixture, Message: "decode fixtures", Err: err}
	}

	if err := ValidateRecords(file.Users); err != nil {
		return nil, err
	}
	return file.Users, nil
}
