package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Luisxcv/neuro-insight-agenda/internal/account"
)

func listUsersHandler(accounts *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := accounts.ListAccounts(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, toAccountResponses(users))
	}
}

func pendingDoctorsHandler(accounts *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := accounts.PendingDoctors(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, toAccountResponses(doctors))
	}
}

func doctorRosterHandler(accounts *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := accounts.DoctorRoster(r.Context())
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, toAccountResponses(doctors))
	}
}

func accountIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func approveDoctorHandler(accounts *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountIDParam(w, r)
		if !ok {
			return
		}

		acct, err := accounts.ApproveDoctor(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondMessage(w, http.StatusOK, toAccountResponse(acct), "doctor approved successfully")
	}
}

func toggleUserStatusHandler(accounts *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountIDParam(w, r)
		if !ok {
			return
		}

		acct, err := accounts.ToggleActive(r.Context(), id)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondMessage(w, http.StatusOK, toAccountResponse(acct), "account status updated")
	}
}

func deleteUserHandler(accounts *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := accountIDParam(w, r)
		if !ok {
			return
		}

		if err := accounts.DeleteAccount(r.Context(), id); err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondMessage(w, http.StatusOK, nil, "account deleted permanently")
	}
}
