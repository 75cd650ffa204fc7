package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/fitgrid/internal/calendar"
)

// MonthToCSV writes the reconciled month grid as one row per in-month day.
// Padding cells are layout only and are skipped.
func MonthToCSV(weeks []calendar.Week, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Status", "Workout ID", "Workout", "Label"}); err != nil {
		return err
	}

	for _, week := range weeks {
		for _, cell := range week {
			if !cell.InMonth {
				continue
			}
			status := ""
			if cell.Status != calendar.StatusNone {
				status = cell.Status.String()
			}
			row := []string{
				cell.Date.String(),
				status,
				cell.WorkoutID,
				cell.WorkoutTitle,
				cell.Label,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}
