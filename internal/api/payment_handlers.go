package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/payment"
)

func createPaymentHandler(repo payment.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		day, err := parseDate(req.Fecha)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "fecha must be YYYY-MM-DD")
			return
		}
		patientID, err := uuid.Parse(req.PacienteID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "pacienteId must be a valid UUID")
			return
		}
		if !payment.ValidMethod(payment.Method(req.Metodo)) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_method", "metodo must be Efectivo, Tarjeta or Transferencia")
			return
		}

		var apptID *uuid.UUID
		if req.CitaID != "" {
			id, err := uuid.Parse(req.CitaID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_appointment_id", "citaId must be a valid UUID")
				return
			}
			apptID = &id
		}

		p, err := repo.Create(r.Context(), payment.Payment{
			AppointmentID: apptID,
			PatientID:     patientID,
			PatientName:   req.PacienteNombre,
			AmountCents:   req.MontoCents,
			Method:        payment.Method(req.Metodo),
			Concept:       req.Concepto,
			Date:          day,
		})
		if err != nil {
			handlePaymentError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPaymentResponse(p))
	}
}

// listPaymentsHandler supports ?desde=&hasta= and ?pacienteId= lookups.
func listPaymentsHandler(repo payment.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var (
			payments []payment.Payment
			err      error
		)

		if pid := q.Get("pacienteId"); pid != "" {
			patientID, parseErr := uuid.Parse(pid)
			if parseErr != nil {
				writeError(w, http.StatusBadRequest, "invalid_patient_id", "pacienteId must be a valid UUID")
				return
			}
			payments, err = repo.ListByPatient(r.Context(), patientID)
		} else {
			from, parseErr := parseDate(q.Get("desde"))
			if parseErr != nil {
				writeError(w, http.StatusBadRequest, "invalid_range", "desde must be YYYY-MM-DD")
				return
			}
			to, parseErr := parseDate(q.Get("hasta"))
			if parseErr != nil {
				writeError(w, http.StatusBadRequest, "invalid_range", "hasta must be YYYY-MM-DD")
				return
			}
			payments, err = repo.ListByRange(r.Context(), from, to)
		}

		if err != nil {
			handlePaymentError(w, err)
			return
		}

		out := make([]PaymentResponse, len(payments))
		for i := range payments {
			out[i] = toPaymentResponse(&payments[i])
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func updatePaymentStatusHandler(repo payment.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_payment_id", "id must be a valid UUID")
			return
		}

		var req StatusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if !payment.ValidStatus(payment.Status(req.Estado)) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_status", "estado must be Pendiente, Pagado or Anulado")
			return
		}

		p, err := repo.UpdateStatus(r.Context(), id, payment.Status(req.Estado))
		if err != nil {
			handlePaymentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPaymentResponse(p))
	}
}

func deletePaymentHandler(repo payment.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_payment_id", "id must be a valid UUID")
			return
		}

		if err := repo.Delete(r.Context(), id); err != nil {
			handlePaymentError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handlePaymentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payment.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "payment_not_found", err.Error())
	case errors.Is(err, payment.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, "invalid_amount", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
