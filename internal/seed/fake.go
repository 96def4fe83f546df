package seed

import (
	"fmt"
	"time"

	"panchayat/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// FakeSeed fixes the faker so repeated runs produce the same citizens.
const FakeSeed int64 = 483880

const fakeCitizenPassword = "citizen123"

// FakeCitizens builds n synthetic citizen records. Emails are numbered
// (citizen.0001@gram.in, ...) and the faker is seeded, so the same n always
// yields the same records and reruns skip them.
func FakeCitizens(n int, seed int64) []UserSeedRecord {
	if n <= 0 {
		return nil
	}

	faker := gofakeit.New(seed)
	oldest := time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)
	youngest := time.Date(2006, time.December, 31, 0, 0, 0, 0, time.UTC)

	records := make([]UserSeedRecord, 0, n)
	for i := 1; i <= n; i++ {
		first, last := faker.FirstName(), faker.LastName()
		records = append(records, UserSeedRecord{
			Email:    fmt.Sprintf("citizen.%04d@gram.in", i),
			Password: fakeCitizenPassword,
			Role:     models.RoleCitizen,
			FullName: first + " " + last,
			Mobile:   faker.Numerify("9#########"),
			Citizen: &CitizenSeed{
				Aadhaar:     faker.Numerify("############"),
				DateOfBirth: faker.DateRange(oldest, youngest).Format(dateLayout),
				Gender:      faker.RandomString([]string{"male", "female"}),
				Address:     faker.Street(),
				Village:     "Sarahi",
				Pincode:     "483880",
			},
		})
	}
	return records
}
