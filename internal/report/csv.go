package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/clinicore/agenda-api/internal/appointment"
	"github.com/clinicore/agenda-api/internal/payment"
)

// WriteAppointmentsCSV streams appointments as a CSV document with a
// header row, for the dashboard's export action.
func WriteAppointmentsCSV(w io.Writer, appts []appointment.Appointment) error {
	cw := csv.NewWriter(w)

	header := []string{
		"id", "fecha", "horaInicio", "horaFin", "cubiculoId",
		"pacienteNombre", "terapeutaNombre", "estado", "modalidad", "materia",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, a := range appts {
		record := []string{
			a.ID.String(),
			a.Date.Format("2006-01-02"),
			a.Start,
			a.End,
			a.SpaceID.String(),
			a.PatientName,
			a.TherapistName,
			string(a.Status),
			string(a.Modality),
			a.Subject,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WritePaymentsCSV streams payments as CSV. Amounts are formatted as
// decimal currency units.
func WritePaymentsCSV(w io.Writer, payments []payment.Payment) error {
	cw := csv.NewWriter(w)

	header := []string{"id", "fecha", "pacienteNombre", "monto", "metodo", "estado", "concepto"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range payments {
		record := []string{
			p.ID.String(),
			p.Date.Format("2006-01-02"),
			p.PatientName,
			fmt.Sprintf("%d.%02d", p.AmountCents/100, p.AmountCents%100),
			string(p.Method),
			string(p.Status),
			p.Concept,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
