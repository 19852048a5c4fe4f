package api

import (
	"encoding/json"
	"net/http"

	"github.com/Luisxcv/neuro-insight-agenda/internal/account"
)

func registerHandler(accounts *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if req.Name == "" || req.Email == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "name, email and password are required")
			return
		}

		acct, tok, err := accounts.Register(r.Context(), account.RegisterInput{
			Name:            req.Name,
			Email:           req.Email,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			Role:            req.Role,
			Specialty:       req.Specialty,
		})
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		respondMessage(w, http.StatusCreated, AuthData{
			User:  toAccountResponse(acct),
			Token: tok,
		}, "account registered successfully")
	}
}

func loginHandler(accounts *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if req.Email == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		acct, tok, err := accounts.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}

		respondMessage(w, http.StatusOK, AuthData{
			User:  toAccountResponse(acct),
			Token: tok,
		}, "login successful")
	}
}

func currentUserHandler(accounts *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFrom(r.Context())

		acct, err := accounts.Profile(r.Context(), id.Email)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondData(w, http.StatusOK, toAccountResponse(acct))
	}
}

func updateProfileHandler(accounts *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := IdentityFrom(r.Context())

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if req.Name == "" {
			respondError(w, http.StatusBadRequest, "no update fields provided")
			return
		}

		acct, err := accounts.UpdateProfile(r.Context(), id.Email, req.Name)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		respondMessage(w, http.StatusOK, toAccountResponse(acct), "profile updated successfully")
	}
}
