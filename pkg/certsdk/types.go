package certsdk

import "time"

// ============================================================================
// Errors
// ============================================================================

// ErrorResponse is the body of every non-2xx response. The optional fields
// are filled only for the error codes that carry them.
type ErrorResponse struct {
	// Error is the machine readable code (e.g. "not_eligible").
	Error string `json:"error"`

	// ErrorDescription is a human readable message.
	ErrorDescription string `json:"error_description"`

	// Field names the offending input for invalid_name.
	Field string `json:"field,omitempty"`

	// Reason, CompletedLessons and RequiredLessons accompany not_eligible.
	Reason           string `json:"reason,omitempty"`
	CompletedLessons *int   `json:"completed_lessons,omitempty"`
	RequiredLessons  *int   `json:"required_lessons,omitempty"`

	// NextAllowedAt and DaysRemaining accompany name_change_throttled.
	NextAllowedAt *time.Time `json:"next_allowed_at,omitempty"`
	DaysRemaining *int       `json:"days_remaining,omitempty"`

	// CertificateID and IssuedAt accompany already_issued.
	CertificateID string     `json:"certificate_id,omitempty"`
	IssuedAt      *time.Time `json:"issued_at,omitempty"`
}

// ============================================================================
// Certificates
// ============================================================================

// Certificate is the public view of an issued certificate.
type Certificate struct {
	CertificateID    string    `json:"certificate_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	FullName         string    `json:"full_name"`
	IssuedAt         time.Time `json:"issued_at"`
	CompletionDate   time.Time `json:"completion_date"`
	LessonsCompleted int       `json:"lessons_completed"`
	TotalXP          int       `json:"total_xp"`
	LongestStreak    int       `json:"longest_streak"`
	CertificateHash  string    `json:"certificate_hash"`
	VerifyURL        string    `json:"verify_url,omitempty"`
}

// VerifyRequest is the body of POST /v1/certificates/verify.
type VerifyRequest struct {
	CertificateID string `json:"certificate_id" validate:"required,max=64"`
	Name          string `json:"name" validate:"required,max=128"`
}

// VerifyResponse reports a verification outcome. Invalid certificates are a
// 200 with Valid false and a Reason.
type VerifyResponse struct {
	Valid       bool         `json:"valid"`
	Reason      string       `json:"reason,omitempty"`
	Certificate *Certificate `json:"certificate,omitempty"`
}

// Requirements lists what a learner still needs before issuance.
type Requirements struct {
	Eligible             bool   `json:"eligible"`
	Reason               string `json:"reason,omitempty"`
	Tier                 string `json:"tier"`
	SubscriptionActive   bool   `json:"subscription_active"`
	CompletedLessons     int    `json:"completed_lessons"`
	RequiredLessons      int    `json:"required_lessons"`
	CertificationNameSet bool   `json:"certification_name_set"`
	ReadyToIssue         bool   `json:"ready_to_issue"`
}

// CertificateStatusResponse is returned by GET /v1/certificates/me.
type CertificateStatusResponse struct {
	HasCertificate bool         `json:"has_certificate"`
	Certificate    *Certificate `json:"certificate,omitempty"`
	Requirements   Requirements `json:"requirements"`
}

// ============================================================================
// Certification name
// ============================================================================

// CertificationNameRequest is the body of PUT /v1/certification-name.
type CertificationNameRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
}

type CertificationNameResponse struct {
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	CanChange     bool       `json:"can_change"`
	NextAllowedAt *time.Time `json:"next_allowed_at,omitempty"`
	DaysRemaining int        `json:"days_remaining"`
}

// ============================================================================
// Progress
// ============================================================================

type LessonCompletionResponse struct {
	LessonID         string `json:"lesson_id"`
	Recorded         bool   `json:"recorded"`
	TotalXP          int    `json:"total_xp"`
	CompletedLessons int    `json:"completed_lessons"`
	CurrentStreak    int    `json:"current_streak"`
	LongestStreak    int    `json:"longest_streak"`
}

// ============================================================================
// Health
// ============================================================================

type HealthChecks struct {
	Database string `json:"database"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
