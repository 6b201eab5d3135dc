package domain

import "time"

// Certificate is the permanent record of a learner's course completion.
// Every field is frozen at issuance.
type Certificate struct {
	ID     string // UC-YYYY-MM-DD-HH-MM-SS-NNN
	UserID string

	FirstName string
	LastName  string

	IssuedAt       time.Time
	CompletionDate time.Time

	TotalXPAtCompletion          int
	LongestStreakAtCompletion    int
	LessonsCompletedAtCompletion int

	Hash string
}

// FullName is the name as printed on the certificate.
func (c Certificate) FullName() string {
	return c.FirstName + " " + c.LastName
}
