package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clinicore/agenda-api/internal/space"
)

func listSpacesHandler(repo space.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		onlyAvailable := r.URL.Query().Get("disponibles") == "true"

		spaces, err := repo.List(r.Context(), onlyAvailable)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]SpaceResponse, len(spaces))
		for i := range spaces {
			out[i] = toSpaceResponse(&spaces[i])
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getSpaceHandler(repo space.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_space_id", "id must be a valid UUID")
			return
		}

		sp, err := repo.GetByID(r.Context(), id)
		if err != nil {
			handleSpaceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSpaceResponse(sp))
	}
}

func createSpaceHandler(repo space.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SpaceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.Nombre == "" {
			writeError(w, http.StatusUnprocessableEntity, "invalid_space", "nombre is required")
			return
		}

		sp, err := repo.Create(r.Context(), space.Space{
			Name:        req.Nombre,
			Type:        req.Tipo,
			Available:   req.Disponible,
			CostPerHour: req.CostoPorHora,
		})
		if err != nil {
			handleSpaceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toSpaceResponse(sp))
	}
}

func updateSpaceHandler(repo space.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_space_id", "id must be a valid UUID")
			return
		}

		var req SpaceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		sp, err := repo.Update(r.Context(), space.Space{
			ID:          id,
			Name:        req.Nombre,
			Type:        req.Tipo,
			Available:   req.Disponible,
			CostPerHour: req.CostoPorHora,
		})
		if err != nil {
			handleSpaceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSpaceResponse(sp))
	}
}

func deleteSpaceHandler(repo space.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_space_id", "id must be a valid UUID")
			return
		}

		if err := repo.Delete(r.Context(), id); err != nil {
			handleSpaceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSpaceError(w http.ResponseWriter, err error) {
	if errors.Is(err, space.ErrSpaceNotFound) {
		writeError(w, http.StatusNotFound, "space_not_found", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}
