package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/appointment"
	"github.com/clinicore/agenda-api/internal/dayconfig"
	"github.com/clinicore/agenda-api/internal/schedule"
	"github.com/clinicore/agenda-api/internal/space"
)

// agendaGridHandler renders the day timetable: one row per available
// space, one cell per resolved hour label, appointments placed on their
// start cell with the covered half-hours marked skip.
func agendaGridHandler(appts *appointment.Service, spaces space.Repository, configs *dayconfig.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := parseDate(r.URL.Query().Get("fecha"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "fecha must be YYYY-MM-DD")
			return
		}

		available, err := spaces.List(r.Context(), true)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		dayAppts, err := appts.ListByDay(r.Context(), day)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		bookings := appointment.Bookings(dayAppts)
		byID := make(map[uuid.UUID]*appointment.Appointment, len(dayAppts))
		for i := range dayAppts {
			byID[dayAppts[i].ID] = &dayAppts[i]
		}

		resp := GridResponse{
			Fecha:    day.Format(dateLayout),
			Espacios: make([]GridRow, 0, len(available)),
		}

		for i := range available {
			sp := &available[i]

			ds, err := configs.ResolveFor(r.Context(), sp.ID, day)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
				return
			}

			cells := schedule.BuildRow(sp.ID, day, ds, bookings)
			row := GridRow{
				Espacio: toSpaceResponse(sp),
				Horario: toDayScheduleResponse(resp.Fecha, sp.ID.String(), ds),
				Celdas:  make([]GridCell, 0, len(cells)),
			}
			for _, cell := range cells {
				gc := GridCell{Hora: cell.Label, Span: cell.Span, Skip: cell.Skip}
				if cell.Owner != nil {
					if appt, ok := byID[cell.Owner.ID]; ok {
						ar := toAppointmentResponse(appt)
						gc.Cita = &ar
					}
				}
				row.Celdas = append(row.Celdas, gc)
			}
			resp.Espacios = append(resp.Espacios, row)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type SelectCellRequest struct {
	Fecha     string `json:"fecha"`
	EspacioID string `json:"espacioId"`
	Hora      string `json:"hora"`
}

// selectCellHandler validates a click on a grid cell before the booking
// form opens: disabled hours and occupied cells are rejected.
func selectCellHandler(appts *appointment.Service, configs *dayconfig.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectCellRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		day, err := parseDate(req.Fecha)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "fecha must be YYYY-MM-DD")
			return
		}
		spaceID, err := uuid.Parse(req.EspacioID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_space_id", "espacioId must be a valid UUID")
			return
		}

		ds, err := configs.ResolveFor(r.Context(), spaceID, day)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		dayAppts, err := appts.ListBySpaceAndDay(r.Context(), spaceID, day)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		err = schedule.SelectCell(spaceID, day, req.Hora, ds, appointment.Bookings(dayAppts))
		switch {
		case errors.Is(err, schedule.ErrHourDisabled):
			writeError(w, http.StatusUnprocessableEntity, "hour_disabled", err.Error())
		case errors.Is(err, schedule.ErrCellOccupied):
			writeError(w, http.StatusConflict, "cell_occupied", err.Error())
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		default:
			writeJSON(w, http.StatusOK, map[string]bool{"disponible": true})
		}
	}
}

// getDayConfigHandler returns the resolved schedule for (fecha, espacioId),
// falling back to default hours when no override is saved.
func getDayConfigHandler(configs *dayconfig.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		day, err := parseDate(q.Get("fecha"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "fecha must be YYYY-MM-DD")
			return
		}

		spaceID := uuid.Nil
		if raw := q.Get("espacioId"); raw != "" {
			spaceID, err = uuid.Parse(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_space_id", "espacioId must be a valid UUID")
				return
			}
		}

		ds, err := configs.ResolveFor(r.Context(), spaceID, day)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		espacioID := ""
		if spaceID != uuid.Nil {
			espacioID = spaceID.String()
		}
		writeJSON(w, http.StatusOK, toDayScheduleResponse(day.Format(dateLayout), espacioID, ds))
	}
}

func saveDayConfigHandler(configs *dayconfig.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DayConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		day, err := parseDate(req.Fecha)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "fecha must be YYYY-MM-DD")
			return
		}
		spaceID, err := uuid.Parse(req.EspacioID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_space_id", "espacioId must be a valid UUID")
			return
		}
		if req.HoraInicio < 0 || req.HoraFin > 24 || req.HoraFin <= req.HoraInicio {
			writeError(w, http.StatusUnprocessableEntity, "invalid_hours", "horaFin must be after horaInicio within 0-24")
			return
		}

		saved, err := configs.Save(r.Context(), dayconfig.Config{
			Date:      day,
			SpaceID:   spaceID,
			StartHour: req.HoraInicio,
			EndHour:   req.HoraFin,
			Disabled:  req.HorasDeshabilitadas,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		ds := schedule.Resolve(saved.Override())
		writeJSON(w, http.StatusOK, toDayScheduleResponse(req.Fecha, req.EspacioID, ds))
	}
}

// previewDayConfigHandler resolves a draft override without persisting
// it, so the configuration dialog can show the grid it would produce.
func previewDayConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DayConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		ds := schedule.Resolve(&schedule.Override{
			StartHour: req.HoraInicio,
			EndHour:   req.HoraFin,
			Disabled:  req.HorasDeshabilitadas,
		})
		writeJSON(w, http.StatusOK, toDayScheduleResponse(req.Fecha, req.EspacioID, ds))
	}
}
