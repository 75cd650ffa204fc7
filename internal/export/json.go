package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/fitgrid/internal/api"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSession struct {
	Date        string `json:"date"`
	WorkoutID   string `json:"workout_id,omitempty"`
	Workout     string `json:"workout"`
	DurationMin int    `json:"duration_min"`
}

// HistoryToJSON writes the workout history to path.
func HistoryToJSON(entries []api.HistoryEntry, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		export.Sessions = append(export.Sessions, jsonSession{
			Date:        e.Date,
			WorkoutID:   e.WorkoutID,
			Workout:     e.WorkoutTitle,
			DurationMin: e.DurationMin,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
