// Package models contains the GORM models the seeder writes.
package models

import (
	"strings"
	"time"
)

// Role is the access role of a panchayat portal user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleClerk   Role = "clerk"
	RoleCitizen Role = "citizen"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClerk, RoleCitizen:
		return true
	}
	return false
}

// ParseRole normalizes s and returns the matching role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// User represents a portal account. Email is the natural key.
type User struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Email          string          `gorm:"uniqueIndex;not null;size:254" json:"email"`
	PasswordHash   string          `gorm:"column:password_hash;not null" json:"-"`
	Role           Role            `gorm:"not null;size:16;index" json:"role"`
	FullName       string          `gorm:"column:full_name;not null" json:"full_name"`
	Mobile         string          `gorm:"size:20" json:"mobile"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	ClerkProfile   *ClerkProfile   `gorm:"foreignKey:UserID" json:"clerk_profile,omitempty"`
	CitizenProfile *CitizenProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// ClerkProfile holds employment details for clerk accounts.
type ClerkProfile struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	EmployeeID  string `gorm:"column:employee_id;uniqueIndex;not null" json:"employee_id"`
	Department  string `json:"department"`
	Designation string `json:"designation"`
}

// CitizenProfile holds identity and address details for citizen accounts.
type CitizenProfile struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	AadhaarNumber string    `gorm:"column:aadhaar_number;uniqueIndex;size:12" json:"aadhaar_number"`
	DateOfBirth   time.Time `gorm:"column:date_of_birth" json:"date_of_birth"`
	Gender        string    `gorm:"size:16" json:"gender"`
	Address       string    `json:"address"`
	Village       string    `json:"village"`
	Pincode       string    `gorm:"size:6" json:"pincode"`
}

// TableName keeps the table name aligned with the portal schema.
func (CitizenProfile) TableName() string {
	return "citizen_profiles"
}
