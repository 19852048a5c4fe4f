package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PatientStatus string

const (
	StatusActive   PatientStatus = "active"
	StatusInactive PatientStatus = "inactive"
)

type AnalysisResult string

const (
	AnalysisNormal   AnalysisResult = "normal"
	AnalysisAbnormal AnalysisResult = "abnormal"
	AnalysisPending  AnalysisResult = "pending"
)

// Patient is a clinical directory entry, distinct from the patient's login
// account. Doctors and admins browse it; it never gates authentication.
type Patient struct {
	ID                 uuid.UUID
	Name               string
	Email              string
	Phone              string
	LastVisit          *time.Time
	NextAppointment    *time.Time
	Status             PatientStatus
	TotalAnalyses      int
	LastAnalysisResult AnalysisResult
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Matches reports whether the entry matches a free-text directory search.
func (p Patient) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Email), term)
}
