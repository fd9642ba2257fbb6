package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/appointment"
	"github.com/clinicore/agenda-api/internal/schedule"
)

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

func bookingInputFromRequest(req BookingRequest) (appointment.BookingInput, error) {
	var in appointment.BookingInput

	day, err := parseDate(req.Fecha)
	if err != nil {
		return in, errors.New("fecha must be YYYY-MM-DD")
	}
	spaceID, err := uuid.Parse(req.CubiculoID)
	if err != nil {
		return in, errors.New("cubiculoId must be a valid UUID")
	}
	patientID, err := uuid.Parse(req.PacienteID)
	if err != nil {
		return in, errors.New("pacienteId must be a valid UUID")
	}
	therapistID, err := uuid.Parse(req.TerapeutaID)
	if err != nil {
		return in, errors.New("terapeutaId must be a valid UUID")
	}

	return appointment.BookingInput{
		Date:          day,
		Start:         req.HoraInicio,
		End:           req.HoraFin,
		SpaceID:       spaceID,
		PatientID:     patientID,
		PatientName:   req.PacienteNombre,
		TherapistID:   therapistID,
		TherapistName: req.TerapeutaNombre,
		Modality:      appointment.Modality(req.Modalidad),
		Subject:       req.Materia,
		Notes:         req.Notas,
	}, nil
}

func createAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		in, err := bookingInputFromRequest(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		appt, err := svc.Create(r.Context(), in)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func updateAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		in, err := bookingInputFromRequest(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		appt, err := svc.Update(r.Context(), id, in)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.Get(r.Context(), id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

// listAppointmentsHandler supports ?fecha=, ?desde=&hasta= and
// ?pacienteId= lookups.
func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if pid := q.Get("pacienteId"); pid != "" {
			patientID, err := uuid.Parse(pid)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_patient_id", "pacienteId must be a valid UUID")
				return
			}
			limit, _ := strconv.Atoi(q.Get("limit"))
			offset, _ := strconv.Atoi(q.Get("offset"))

			appts, err := svc.ListByPatient(r.Context(), patientID, limit, offset)
			if err != nil {
				handleBookingError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
			return
		}

		if desde, hasta := q.Get("desde"), q.Get("hasta"); desde != "" || hasta != "" {
			from, err := parseDate(desde)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_range", "desde must be YYYY-MM-DD")
				return
			}
			to, err := parseDate(hasta)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_range", "hasta must be YYYY-MM-DD")
				return
			}

			appts, err := svc.ListByRange(r.Context(), from, to)
			if err != nil {
				handleBookingError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
			return
		}

		day, err := parseDate(q.Get("fecha"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "fecha must be YYYY-MM-DD")
			return
		}

		appts, err := svc.ListByDay(r.Context(), day)
		if err != nil {
			handleBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
	}
}

func updateAppointmentStatusHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req StatusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		appt, err := svc.UpdateStatus(r.Context(), id, appointment.Status(req.Estado))
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func deleteAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			handleBookingError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// checkSlotHandler runs conflict validation without booking, used by the
// booking form before submit.
func checkSlotHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CheckSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		day, err := parseDate(req.Fecha)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "fecha must be YYYY-MM-DD")
			return
		}
		spaceID, err := uuid.Parse(req.CubiculoID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_space_id", "cubiculoId must be a valid UUID")
			return
		}

		excludeID := uuid.Nil
		if req.ExcludeID != "" {
			excludeID, err = uuid.Parse(req.ExcludeID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_exclude_id", "excludeId must be a valid UUID")
				return
			}
		}

		conflict, err := svc.CheckSlot(r.Context(), spaceID, day, req.HoraInicio, req.HoraFin, excludeID)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		resp := CheckSlotResponse{}
		if conflict != nil {
			c := toAppointmentResponse(conflict)
			resp.Conflict = &c
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	var conflictErr *appointment.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		c := toAppointmentResponse(conflictErr.Conflicting)
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:    "slot_conflict",
			Details:  conflictErr.Error(),
			Conflict: &c,
		})
	case errors.Is(err, appointment.ErrAgendaBusy):
		writeError(w, http.StatusConflict, "agenda_busy", "agenda is being modified, please retry shortly")
	case errors.Is(err, appointment.ErrInvalidTime),
		errors.Is(err, schedule.ErrEndNotAfterStart):
		writeError(w, http.StatusUnprocessableEntity, "invalid_interval", err.Error())
	case errors.Is(err, appointment.ErrInvalidStatus),
		errors.Is(err, appointment.ErrInvalidModality):
		writeError(w, http.StatusUnprocessableEntity, "invalid_value", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
