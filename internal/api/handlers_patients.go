package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Luisxcv/neuro-insight-agenda/internal/patient"
)

func listPatientsHandler(patients *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := patients.Search(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, toPatientResponses(result))
	}
}

func patientStatsHandler(patients *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := patients.DashboardStats(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, StatsResponse{
			ActivePatients:       stats.ActivePatients,
			PendingAnalyses:      stats.PendingAnalyses,
			UpcomingAppointments: stats.UpcomingAppointments,
		})
	}
}

func patientIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func getPatientHandler(patients *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := patientIDParam(w, r)
		if !ok {
			return
		}

		p, err := patients.Get(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, toPatientResponse(p))
	}
}

func createPatientHandler(patients *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if req.Name == "" || req.Email == "" {
			respondError(w, http.StatusBadRequest, "name and email are required")
			return
		}

		p, err := patients.Create(r.Context(), patient.UpsertInput{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		})
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondMessage(w, http.StatusCreated, toPatientResponse(p), "patient created successfully")
	}
}

func updatePatientHandler(patients *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := patientIDParam(w, r)
		if !ok {
			return
		}

		var req PatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}

		p, err := patients.Update(r.Context(), id, patient.UpsertInput{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
		})
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondMessage(w, http.StatusOK, toPatientResponse(p), "patient updated successfully")
	}
}

func deletePatientHandler(patients *patient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := patientIDParam(w, r)
		if !ok {
			return
		}

		if err := patients.Delete(r.Context(), id); err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondMessage(w, http.StatusOK, nil, "patient deleted")
	}
}
