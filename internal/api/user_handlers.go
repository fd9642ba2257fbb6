package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/user"
)

func loginHandler(auth *user.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		token, u, err := auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
			case errors.Is(err, user.ErrUserInactive):
				writeError(w, http.StatusForbidden, "user_inactive", "account is disabled")
			default:
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, LoginResponse{
			Token: token,
			User:  toUserResponse(u),
		})
	}
}

func listUsersHandler(repo user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := repo.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]UserResponse, len(users))
		for i := range users {
			out[i] = toUserResponse(&users[i])
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createUserHandler(auth *user.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		u, err := auth.CreateUser(r.Context(), user.CreateInput{
			Name:     req.Nombre,
			Email:    req.Email,
			Password: req.Password,
			Role:     user.Role(req.Rol),
		})
		if err != nil {
			if errors.Is(err, user.ErrEmailTaken) {
				writeError(w, http.StatusConflict, "email_taken", err.Error())
				return
			}
			writeError(w, http.StatusUnprocessableEntity, "invalid_user", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func updateUserHandler(repo user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
			return
		}

		var req UserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if !user.ValidRole(user.Role(req.Rol)) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_role", "rol must be admin, recepcion or terapeuta")
			return
		}

		existing, err := repo.GetByID(r.Context(), id)
		if err != nil {
			handleUserError(w, err)
			return
		}

		existing.Name = req.Nombre
		existing.Email = req.Email
		existing.Role = user.Role(req.Rol)
		existing.Active = req.Activo

		u, err := repo.Update(r.Context(), *existing)
		if err != nil {
			handleUserError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

type PasswordChangeRequest struct {
	Password string `json:"password"`
}

func changePasswordHandler(auth *user.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
			return
		}

		var req PasswordChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := auth.ChangePassword(r.Context(), id, req.Password); err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "user_not_found", err.Error())
				return
			}
			writeError(w, http.StatusUnprocessableEntity, "invalid_password", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteUserHandler(repo user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
			return
		}

		if err := repo.Delete(r.Context(), id); err != nil {
			handleUserError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler returns the account behind the presented token.
func meHandler(repo user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}

		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid subject")
			return
		}

		u, err := repo.GetByID(r.Context(), id)
		if err != nil {
			handleUserError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func handleUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, user.ErrEmailTaken):
		writeError(w, http.StatusConflict, "email_taken", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
