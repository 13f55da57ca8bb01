package csvreport

import (
	"fmt"
	"strings"
	"time"

	"hugo-automotriz/internal/models"
)

// Header is the fixed column set of the workshop appointment report.
var Header = []string{
	"Fecha",
	"Cliente",
	"Vehículo",
	"Placa",
	"Servicio",
	"Precio (Bs)",
	"Estado",
	"Notas",
}

// Build renders the appointment report as UTF-8 CSV. Every field is double
// quoted with internal quotes doubled, and rows are joined by \n, so a report
// with no appointments is exactly the header line. encoding/csv is not used
// here: it terminates records with \r\n and quotes conditionally, which would
// change the exact bytes consumers of this report already parse.
func Build(appointments []models.AppointmentDetail) string {
	lines := make([]string, 0, len(appointments)+1)
	lines = append(lines, strings.Join(Header, ","))

	for _, app := range appointments {
		client := "Sin nombre"
		if app.User != nil && app.User.FullName != nil && *app.User.FullName != "" {
			client = *app.User.FullName
		}
		vehicle, plate := "", ""
		if app.Vehicle != nil {
			vehicle = fmt.Sprintf("%s %s (%d)", app.Vehicle.Make, app.Vehicle.Model, app.Vehicle.Year)
			plate = app.Vehicle.Plate
		}
		service, price := "", ""
		if app.Service != nil {
			service = app.Service.Name
			price = app.Service.Price
		}
		notes := ""
		if app.Notes != nil {
			notes = *app.Notes
		}

		fields := []string{
			app.Date.Format("02/01/2006 15:04"),
			client,
			vehicle,
			plate,
			service,
			price,
			string(app.Status),
			notes,
		}
		lines = append(lines, quoteRow(fields))
	}

	return strings.Join(lines, "\n")
}

// Filename stamps the report name with the given date, e.g.
// reporte_taller_20240131.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("reporte_taller_%s.csv", now.Format("20060102"))
}

func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}
