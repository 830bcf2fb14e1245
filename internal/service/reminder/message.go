package reminder

import (
	"fmt"
	"time"
)

// spanishDays and spanishMonths back the reminder template. Clinics
// message their patients in Spanish, matching the confirmation keywords
// the webhook understands.
var spanishDays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// BuildMessage renders the reminder sent the day before an appointment.
// The SI/NO instructions must match the keyword sets in the inbound
// handler.
func BuildMessage(patientName string, start time.Time, dentistName, clinicName string) string {
	date := fmt.Sprintf("%s, %d de %s de %d",
		spanishDays[start.Weekday()],
		start.Day(),
		spanishMonths[start.Month()-1],
		start.Year(),
	)
	clock := start.Format("15:04")

	return fmt.Sprintf(`Hola %s!

Recordatorio de tu cita dental:
Fecha: %s
Hora: %s
Dr. %s
%s

Por favor confirma tu asistencia respondiendo:
"SI" para confirmar
"NO" para cancelar

Te esperamos!`, patientName, date, clock, dentistName, clinicName)
}
