package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/notification"
)

// listNotificationsHandler returns the authenticated user's inbox;
// ?noLeidas=true narrows to unread entries.
func listNotificationsHandler(repo notification.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing credentials")
			return
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid subject")
			return
		}

		unreadOnly := r.URL.Query().Get("noLeidas") == "true"

		items, err := repo.ListByUser(r.Context(), userID, unreadOnly)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		out := make([]NotificationResponse, len(items))
		for i, n := range items {
			out[i] = NotificationResponse{
				ID:        n.ID,
				Kind:      string(n.Kind),
				Message:   n.Message,
				RefID:     n.RefID,
				Read:      n.Read,
				CreatedAt: n.CreatedAt,
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func markNotificationReadHandler(repo notification.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_notification_id", "id must be a valid UUID")
			return
		}

		if err := repo.MarkRead(r.Context(), id); err != nil {
			if errors.Is(err, notification.ErrNotificationNotFound) {
				writeError(w, http.StatusNotFound, "notification_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
