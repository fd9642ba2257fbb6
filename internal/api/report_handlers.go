package api

import (
	"fmt"
	"net/http"

	"github.com/clinicore/agenda-api/internal/appointment"
	"github.com/clinicore/agenda-api/internal/payment"
	"github.com/clinicore/agenda-api/internal/report"
)

func dashboardHandler(stats *report.StatsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		from, err := parseDate(q.Get("desde"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", "desde must be YYYY-MM-DD")
			return
		}
		to, err := parseDate(q.Get("hasta"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", "hasta must be YYYY-MM-DD")
			return
		}
		if to.Before(from) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_range", "hasta must not be before desde")
			return
		}

		d, err := stats.GetDashboard(r.Context(), from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func exportAppointmentsCSVHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		from, err := parseDate(q.Get("desde"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", "desde must be YYYY-MM-DD")
			return
		}
		to, err := parseDate(q.Get("hasta"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", "hasta must be YYYY-MM-DD")
			return
		}

		appts, err := svc.ListByRange(r.Context(), from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="citas_%s_%s.csv"`, q.Get("desde"), q.Get("hasta")))
		_ = report.WriteAppointmentsCSV(w, appts)
	}
}

func exportPaymentsCSVHandler(repo payment.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		from, err := parseDate(q.Get("desde"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", "desde must be YYYY-MM-DD")
			return
		}
		to, err := parseDate(q.Get("hasta"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_range", "hasta must be YYYY-MM-DD")
			return
		}

		payments, err := repo.ListByRange(r.Context(), from, to)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="pagos_%s_%s.csv"`, q.Get("desde"), q.Get("hasta")))
		_ = report.WritePaymentsCSV(w, payments)
	}
}
