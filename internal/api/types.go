package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/Luisxcv/neuro-insight-agenda/internal/account"
	"github.com/Luisxcv/neuro-insight-agenda/internal/booking"
	"github.com/Luisxcv/neuro-insight-agenda/internal/patient"
)

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role,omitempty"`
	Specialty       string `json:"specialty,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

type AppointmentRequest struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	DoctorName      string `json:"doctorName"`
	DoctorSpecialty string `json:"doctorSpecialty"`
	PatientName     string `json:"patientName"`
}

type PatientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type AccountResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Specialty  string    `json:"specialty,omitempty"`
	IsApproved bool      `json:"isApproved"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuthData is the payload of register and login responses.
type AuthData struct {
	User  AccountResponse `json:"user"`
	Token string          `json:"token"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	DoctorName      string    `json:"doctorName"`
	DoctorSpecialty string    `json:"doctorSpecialty,omitempty"`
	PatientName     string    `json:"patientName"`
	PatientEmail    string    `json:"patientEmail"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type PatientResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	LastVisit          *time.Time `json:"lastVisit,omitempty"`
	NextAppointment    *time.Time `json:"nextAppointment,omitempty"`
	Status             string     `json:"status"`
	TotalAnalyses      int        `json:"totalAnalyses"`
	LastAnalysisResult string     `json:"lastAnalysisResult"`
}

type StatsResponse struct {
	ActivePatients       int64 `json:"activePatients"`
	PendingAnalyses      int64 `json:"pendingAnalyses"`
	UpcomingAppointments int64 `json:"upcomingAppointments"`
}

func toAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID,
		Name:       a.DisplayName,
		Email:      a.Email,
		Role:       string(a.Role),
		Specialty:  a.Specialty,
		IsApproved: a.IsApproved,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt,
	}
}

func toAccountResponses(accounts []account.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}
	return out
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		Date:            a.Date,
		Time:            a.Time,
		DoctorName:      a.DoctorName,
		DoctorSpecialty: a.DoctorSpecialty,
		PatientName:     a.PatientName,
		PatientEmail:    a.PatientEmail,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
	}
}

func toAppointmentResponses(appts []booking.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		out = append(out, toAppointmentResponse(&appts[i]))
	}
	return out
}

func toPatientResponse(p *patient.Patient) PatientResponse {
	return PatientResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Email:              p.Email,
		Phone:              p.Phone,
		LastVisit:          p.LastVisit,
		NextAppointment:    p.NextAppointment,
		Status:             string(p.Status),
		TotalAnalyses:      p.TotalAnalyses,
		LastAnalysisResult: string(p.LastAnalysisResult),
	}
}

func toPatientResponses(patients []patient.Patient) []PatientResponse {
	out := make([]PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, toPatientResponse(&patients[i]))
	}
	return out
}
