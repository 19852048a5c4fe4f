package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Luisxcv/neuro-insight-agenda/internal/account"
	"github.com/Luisxcv/neuro-insight-agenda/internal/booking"
	"github.com/Luisxcv/neuro-insight-agenda/internal/patient"
	"github.com/Luisxcv/neuro-insight-agenda/internal/token"
)

// Envelope is the uniform response shape: every mutating response carries
// success plus data and/or a message.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, Envelope{Success: true, Data: data, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message})
}

// respondServiceError translates a core error to a transport status without
// altering its kind: the message stays the sentinel's own text.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, account.ErrPasswordMismatch),
		errors.Is(err, account.ErrWeakPassword),
		errors.Is(err, account.ErrUnknownRole),
		errors.Is(err, account.ErrAdminRegistration),
		errors.Is(err, account.ErrNotADoctor),
		errors.Is(err, booking.ErrInvalidSlot):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, token.ErrInvalidToken),
		errors.Is(err, account.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, account.ErrAccountDisabled),
		errors.Is(err, account.ErrPendingApproval),
		errors.Is(err, account.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, booking.ErrAppointmentNotFound),
		errors.Is(err, patient.ErrPatientNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, account.ErrDuplicateAccount),
		errors.Is(err, booking.ErrSlotConflict),
		errors.Is(err, booking.ErrSlotBusy),
		errors.Is(err, booking.ErrNotPending):
		respondError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("internal error request_id=%s: %v", GetRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
