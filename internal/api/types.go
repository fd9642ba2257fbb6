package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/agenda-api/internal/appointment"
	"github.com/clinicore/agenda-api/internal/inventory"
	"github.com/clinicore/agenda-api/internal/payment"
	"github.com/clinicore/agenda-api/internal/schedule"
	"github.com/clinicore/agenda-api/internal/space"
	"github.com/clinicore/agenda-api/internal/user"
)

const dateLayout = "2006-01-02"

// The wire format keeps the Spanish field names the existing clients
// already bind to.

type BookingRequest struct {
	Fecha           string `json:"fecha"`
	HoraInicio      string `json:"horaInicio"`
	HoraFin         string `json:"horaFin"`
	CubiculoID      string `json:"cubiculoId"`
	PacienteID      string `json:"pacienteId"`
	PacienteNombre  string `json:"pacienteNombre"`
	TerapeutaID     string `json:"terapeutaId"`
	TerapeutaNombre string `json:"terapeutaNombre"`
	Modalidad       string `json:"modalidad"`
	Materia         string `json:"materia"`
	Notas           string `json:"notas"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	Fecha           string    `json:"fecha"`
	HoraInicio      string    `json:"horaInicio"`
	HoraFin         string    `json:"horaFin"`
	CubiculoID      uuid.UUID `json:"cubiculoId"`
	PacienteID      uuid.UUID `json:"pacienteId"`
	PacienteNombre  string    `json:"pacienteNombre"`
	TerapeutaID     uuid.UUID `json:"terapeutaId"`
	TerapeutaNombre string    `json:"terapeutaNombre"`
	Estado          string    `json:"estado"`
	Modalidad       string    `json:"modalidad"`
	Materia         string    `json:"materia"`
	Notas           string    `json:"notas"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		Fecha:           a.Date.Format(dateLayout),
		HoraInicio:      a.Start,
		HoraFin:         a.End,
		CubiculoID:      a.SpaceID,
		PacienteID:      a.PatientID,
		PacienteNombre:  a.PatientName,
		TerapeutaID:     a.TherapistID,
		TerapeutaNombre: a.TherapistName,
		Estado:          string(a.Status),
		Modalidad:       string(a.Modality),
		Materia:         a.Subject,
		Notas:           a.Notes,
	}
}

func toAppointmentResponses(appts []appointment.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, len(appts))
	for i := range appts {
		out[i] = toAppointmentResponse(&appts[i])
	}
	return out
}

type StatusUpdateRequest struct {
	Estado string `json:"estado"`
}

type CheckSlotRequest struct {
	Fecha      string `json:"fecha"`
	HoraInicio string `json:"horaInicio"`
	HoraFin    string `json:"horaFin"`
	CubiculoID string `json:"cubiculoId"`
	ExcludeID  string `json:"excludeId,omitempty"`
}

type CheckSlotResponse struct {
	Conflict *AppointmentResponse `json:"conflict"`
}

type SpaceRequest struct {
	Nombre       string `json:"nombre"`
	Tipo         string `json:"tipo"`
	Disponible   bool   `json:"disponible"`
	CostoPorHora int64  `json:"costoPorHora"`
}

type SpaceResponse struct {
	ID           uuid.UUID `json:"id"`
	Nombre       string    `json:"nombre"`
	Tipo         string    `json:"tipo"`
	Disponible   bool      `json:"disponible"`
	CostoPorHora int64     `json:"costoPorHora"`
}

func toSpaceResponse(s *space.Space) SpaceResponse {
	return SpaceResponse{
		ID:           s.ID,
		Nombre:       s.Name,
		Tipo:         s.Type,
		Disponible:   s.Available,
		CostoPorHora: s.CostPerHour,
	}
}

type DayConfigRequest struct {
	Fecha               string   `json:"fecha"`
	EspacioID           string   `json:"espacioId"`
	HoraInicio          int      `json:"horaInicio"`
	HoraFin             int      `json:"horaFin"`
	HorasDeshabilitadas []string `json:"horasDeshabilitadas"`
}

// DayScheduleResponse is the resolved grid for one (date, space):
// either the default business day or the saved override.
type DayScheduleResponse struct {
	Fecha               string   `json:"fecha"`
	EspacioID           string   `json:"espacioId,omitempty"`
	HoraInicio          int      `json:"horaInicio"`
	HoraFin             int      `json:"horaFin"`
	Horas               []string `json:"horas"`
	HorasDisponibles    []string `json:"horasDisponibles"`
	HorasDeshabilitadas []string `json:"horasDeshabilitadas"`
	EsHorarioDefault    bool     `json:"esHorarioDefault"`
}

type GridCell struct {
	Hora string               `json:"hora"`
	Cita *AppointmentResponse `json:"cita,omitempty"`
	Span int                  `json:"span"`
	Skip bool                 `json:"skip"`
}

type GridRow struct {
	Espacio SpaceResponse       `json:"espacio"`
	Horario DayScheduleResponse `json:"horario"`
	Celdas  []GridCell          `json:"celdas"`
}

type GridResponse struct {
	Fecha    string    `json:"fecha"`
	Espacios []GridRow `json:"espacios"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Rol      string `json:"rol"`
	Activo   bool   `json:"activo"`
}

type UserResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Email  string    `json:"email"`
	Rol    string    `json:"rol"`
	Activo bool      `json:"activo"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Nombre: u.Name,
		Email:  u.Email,
		Rol:    string(u.Role),
		Activo: u.Active,
	}
}

type PaymentRequest struct {
	CitaID         string `json:"citaId,omitempty"`
	PacienteID     string `json:"pacienteId"`
	PacienteNombre string `json:"pacienteNombre"`
	MontoCents     int64  `json:"montoCents"`
	Metodo         string `json:"metodo"`
	Concepto       string `json:"concepto"`
	Fecha          string `json:"fecha"`
}

type PaymentResponse struct {
	ID             uuid.UUID  `json:"id"`
	CitaID         *uuid.UUID `json:"citaId,omitempty"`
	PacienteID     uuid.UUID  `json:"pacienteId"`
	PacienteNombre string     `json:"pacienteNombre"`
	MontoCents     int64      `json:"montoCents"`
	Metodo         string     `json:"metodo"`
	Estado         string     `json:"estado"`
	Concepto       string     `json:"concepto"`
	Fecha          string     `json:"fecha"`
}

func toPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		CitaID:         p.AppointmentID,
		PacienteID:     p.PatientID,
		PacienteNombre: p.PatientName,
		MontoCents:     p.AmountCents,
		Metodo:         string(p.Method),
		Estado:         string(p.Status),
		Concepto:       p.Concept,
		Fecha:          p.Date.Format(dateLayout),
	}
}

type ItemRequest struct {
	Nombre      string `json:"nombre"`
	Categoria   string `json:"categoria"`
	PrecioCents int64  `json:"precioCents"`
	Stock       int    `json:"stock"`
	Prestable   bool   `json:"prestable"`
}

type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Nombre      string    `json:"nombre"`
	Categoria   string    `json:"categoria"`
	PrecioCents int64     `json:"precioCents"`
	Stock       int       `json:"stock"`
	Prestable   bool      `json:"prestable"`
}

func toItemResponse(it *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Nombre:      it.Name,
		Categoria:   it.Category,
		PrecioCents: it.PriceCents,
		Stock:       it.Stock,
		Prestable:   it.Loanable,
	}
}

type LoanRequest struct {
	ItemID         string `json:"itemId"`
	PacienteID     string `json:"pacienteId"`
	PacienteNombre string `json:"pacienteNombre"`
	Cantidad       int    `json:"cantidad"`
	FechaLimite    string `json:"fechaLimite"`
}

type LoanResponse struct {
	ID             uuid.UUID  `json:"id"`
	ItemID         uuid.UUID  `json:"itemId"`
	ItemNombre     string     `json:"itemNombre"`
	PacienteID     uuid.UUID  `json:"pacienteId"`
	PacienteNombre string     `json:"pacienteNombre"`
	Cantidad       int        `json:"cantidad"`
	Prestado       time.Time  `json:"prestado"`
	FechaLimite    time.Time  `json:"fechaLimite"`
	Devuelto       *time.Time `json:"devuelto,omitempty"`
}

func toLoanResponse(l *inventory.Loan) LoanResponse {
	return LoanResponse{
		ID:             l.ID,
		ItemID:         l.ItemID,
		ItemNombre:     l.ItemName,
		PacienteID:     l.PatientID,
		PacienteNombre: l.PatientName,
		Cantidad:       l.Quantity,
		Prestado:       l.LoanedAt,
		FechaLimite:    l.DueDate,
		Devuelto:       l.ReturnedAt,
	}
}

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Kind      string     `json:"tipo"`
	Message   string     `json:"mensaje"`
	RefID     *uuid.UUID `json:"refId,omitempty"`
	Read      bool       `json:"leida"`
	CreatedAt time.Time  `json:"creada"`
}

func toDayScheduleResponse(fecha, espacioID string, ds schedule.DaySchedule) DayScheduleResponse {
	disabled := make([]string, 0, len(ds.Disabled))
	for _, label := range ds.Labels {
		if ds.Disabled[label] {
			disabled = append(disabled, label)
		}
	}
	return DayScheduleResponse{
		Fecha:               fecha,
		EspacioID:           espacioID,
		HoraInicio:          ds.StartHour,
		HoraFin:             ds.EndHour,
		Horas:               ds.Labels,
		HorasDisponibles:    ds.Available(),
		HorasDeshabilitadas: disabled,
		EsHorarioDefault:    ds.Default,
	}
}
