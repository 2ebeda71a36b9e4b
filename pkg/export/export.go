package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/aguerin/carnet/core/model"
)

// WriteJSON writes the alert list to w in JSON format.
func WriteJSON(w io.Writer, alerts []model.Alert) error {
	enc := json.NewEncoder(w)
	return enc.Encode(alerts)
}

// WriteCSV writes the alert list to w as CSV. Absent projection legs render
// as empty cells.
func WriteCSV(w io.Writer, alerts []model.Alert) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "vehicle_id", "template_id", "name", "category", "urgency", "expired", "target_km", "remaining_km", "target_date", "remaining_days"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, a := range alerts {
		rec := []string{
			a.ID,
			a.VehicleID,
			a.TemplateID,
			a.Name,
			a.Category,
			a.Urgency.String(),
			strconv.FormatBool(a.Expired),
			"", "", "", "",
		}
		if a.Mileage != nil {
			rec[7] = strconv.Itoa(a.Mileage.TargetKm)
			rec[8] = strconv.Itoa(a.Mileage.RemainingKm)
		}
		if a.Date != nil {
			rec[9] = a.Date.TargetDate.Format(time.RFC3339)
			rec[10] = strconv.Itoa(a.Date.RemainingDays)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
