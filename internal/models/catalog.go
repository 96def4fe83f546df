package models

import "time"

// SystemSetting is a key/value pair shown on the admin settings page.
type SystemSetting struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Key   string `gorm:"uniqueIndex;not null" json:"key"`
	Value string `json:"value"`
}

// Scheme is a government welfare scheme administered by the panchayat.
type Scheme struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	SchemeName           string    `gorm:"column:scheme_name;not null" json:"scheme_name"`
	Description          string    `json:"description"`
	AllocatedFunds       int64     `json:"allocated_funds"`
	UtilizedFunds        int64     `json:"utilized_funds"`
	TotalApplications    int       `json:"total_applications"`
	ApprovedApplications int       `json:"approved_applications"`
	IsActive             bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedByID          uint      `gorm:"column:created_by_id" json:"created_by_id"`
	CreatedAt            time.Time `json:"created_at"`
}

// Notice is a public announcement on the village notice board.
type Notice struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `json:"content"`
	NoticeType  string    `gorm:"column:notice_type" json:"notice_type"`
	Priority    string    `json:"priority"`
	IsPublished bool      `json:"is_published"`
	IsGlobal    bool      `json:"is_global"`
	CreatedByID uint      `gorm:"column:created_by_id" json:"created_by_id"`
	ExpiryDate  time.Time `json:"expiry_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegistrationRequest is a citizen sign-up awaiting review by the panchayat.
type RegistrationRequest struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FullName        string    `gorm:"column:full_name;not null" json:"full_name"`
	DateOfBirth     time.Time `gorm:"column:date_of_birth" json:"date_of_birth"`
	Gender          string    `gorm:"size:16" json:"gender"`
	AadhaarNumber   string    `gorm:"column:aadhaar_number;size:12" json:"aadhaar_number"`
	Email           string    `gorm:"not null;size:254" json:"email"`
	Mobile          string    `gorm:"size:20" json:"mobile"`
	Address         string    `json:"address"`
	Village         string    `json:"village"`
	Pincode         string    `gorm:"size:6" json:"pincode"`
	PasswordHash    string    `gorm:"column:password_hash;not null" json:"-"`
	Status          string    `gorm:"not null;default:pending" json:"status"`
	RejectionReason string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SchemeApplication is a citizen's application to a welfare scheme.
type SchemeApplication struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	SchemeID   uint       `gorm:"column:scheme_id;not null;index" json:"scheme_id"`
	CitizenID  uint       `gorm:"column:citizen_id;not null;index" json:"citizen_id"`
	Status     string     `gorm:"not null" json:"status"`
	Notes      string     `json:"notes"`
	ReviewedAt *time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Complaint is a grievance raised by a citizen.
type Complaint struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ComplaintNumber string     `gorm:"column:complaint_number;uniqueIndex;not null" json:"complaint_number"`
	CitizenID       uint       `gorm:"column:citizen_id;not null;index" json:"citizen_id"`
	ComplaintType   string     `gorm:"column:complaint_type" json:"complaint_type"`
	Subject         string     `gorm:"not null" json:"subject"`
	Description     string     `json:"description"`
	Location        string     `json:"location"`
	Priority        string     `json:"priority"`
	Status          string     `gorm:"not null" json:"status"`
	AssignedToID    *uint      `gorm:"column:assigned_to_id" json:"assigned_to_id"`
	ResolvedAt      *time.Time `gorm:"column:resolved_at" json:"resolved_at"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
}

// Certificate is an application for an official certificate.
type Certificate struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ApplicationNumber string     `gorm:"column:application_number;uniqueIndex;not null" json:"application_number"`
	CitizenID         uint       `gorm:"column:citizen_id;not null;index" json:"citizen_id"`
	CertificateType   string     `gorm:"column:certificate_type" json:"certificate_type"`
	Purpose           string     `json:"purpose"`
	Data              string     `gorm:"type:jsonb" json:"data"`
	Status            string     `gorm:"not null" json:"status"`
	ProcessedByID     *uint      `gorm:"column:processed_by_id" json:"processed_by_id"`
	ProcessedAt       *time.Time `gorm:"column:processed_at" json:"processed_at"`
	SubmittedAt       time.Time  `gorm:"column:submitted_at" json:"submitted_at"`
}

// Revenue is one monthly collection entry in a category.
type Revenue struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Amount        int64     `gorm:"not null" json:"amount"`
	Category      string    `gorm:"not null;index" json:"category"`
	Description   string    `json:"description"`
	Month         int       `gorm:"not null" json:"month"`
	Year          int       `gorm:"not null" json:"year"`
	CollectedByID uint      `gorm:"column:collected_by_id" json:"collected_by_id"`
	CollectedAt   time.Time `gorm:"column:collected_at" json:"collected_at"`
}
