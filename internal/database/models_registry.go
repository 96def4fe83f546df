package database

import "panchayat/internal/models"

// PersistentModels returns the portal tables the seeder writes to. The
// portal owns the schema; this list is used to build scratch databases.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.ClerkProfile{},
		&models.CitizenProfile{},
		&models.SystemSetting{},
		&models.Scheme{},
		&models.Notice{},
		&models.RegistrationRequest{},
		&models.SchemeApplication{},
		&models.Complaint{},
		&models.Certificate{},
		&models.Revenue{},
	}
}
