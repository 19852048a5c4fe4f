package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Luisxcv/neuro-insight-agenda/internal/account"
	"github.com/Luisxcv/neuro-insight-agenda/internal/booking"
)

func createAppointmentHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFrom(r.Context())

		var req AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		appt, err := bookings.Create(r.Context(), booking.CreateInput{
			Date:            req.Date,
			Time:            req.Time,
			DoctorName:      req.DoctorName,
			DoctorSpecialty: req.DoctorSpecialty,
			PatientName:     req.PatientName,
		}, id)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		respondMessage(w, http.StatusCreated, toAppointmentResponse(appt), "appointment booked successfully")
	}
}

func myAppointmentsHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFrom(r.Context())

		appts, err := bookings.ForPatient(r.Context(), id.Email)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func allAppointmentsHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := bookings.All(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func appointmentsByStatusHandler(bookings *booking.Service, status booking.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := bookings.ByStatus(r.Context(), status)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func doctorAppointmentsHandler(bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorName := chi.URLParam(r, "doctorName")
		if doctorName == "" {
			respondError(w, http.StatusBadRequest, "doctor name is required")
			return
		}

		appts, err := bookings.ForDoctor(r.Context(), doctorName)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func appointmentIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

// transitionHandler wires one status-transition endpoint. The service runs
// the capability check, so the route itself carries no role gate.
func transitionHandler(
	message string,
	transition func(r *http.Request, id uuid.UUID, caller account.Identity) (*booking.Appointment, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := IdentityFrom(r.Context())

		id, ok := appointmentIDParam(w, r)
		if !ok {
			return
		}

		appt, err := transition(r, id, caller)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondMessage(w, http.StatusOK, toAppointmentResponse(appt), message)
	}
}

func cancelAppointmentHandler(bookings *booking.Service) http.HandlerFunc {
	return transitionHandler("appointment cancelled successfully",
		func(r *http.Request, id uuid.UUID, caller account.Identity) (*booking.Appointment, error) {
			return bookings.Cancel(r.Context(), id, caller)
		})
}

func approveAppointmentHandler(bookings *booking.Service) http.HandlerFunc {
	return transitionHandler("appointment approved successfully",
		func(r *http.Request, id uuid.UUID, caller account.Identity) (*booking.Appointment, error) {
			return bookings.Approve(r.Context(), id, caller)
		})
}

func rejectAppointmentHandler(bookings *booking.Service) http.HandlerFunc {
	return transitionHandler("appointment rejected",
		func(r *http.Request, id uuid.UUID, caller account.Identity) (*booking.Appointment, error) {
			return bookings.Reject(r.Context(), id, caller)
		})
}

func requestRescheduleHandler(bookings *booking.Service) http.HandlerFunc {
	return transitionHandler("reschedule request submitted",
		func(r *http.Request, id uuid.UUID, caller account.Identity) (*booking.Appointment, error) {
			return bookings.RequestReschedule(r.Context(), id, caller)
		})
}
