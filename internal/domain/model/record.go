package model

import (
	"time"

	"github.com/mkabbani/evround/internal/domain/types"
)

// InspectionRecord is the immutable snapshot of one completed inspection.
// Records are only ever appended to history (newest first) and read back for
// reporting; nothing mutates one after creation.
type InspectionRecord struct {
	ID            string              `json:"id"`
	InspectorName string              `json:"inspectorName"`
	ZoneName      string              `json:"zoneName"`
	Category      types.Category      `json:"zoneType"`
	Timestamp     time.Time           `json:"timestamp"`
	Scores        map[string]int      `json:"scores"`
	Notes         map[string]string   `json:"notes"`
	Observations  map[string][]string `json:"selectedObservations,omitempty"`
	TotalScore    int                 `json:"totalScore"`
	MaxPossible   int                 `json:"maxPossibleScore"`
	Percentage    float64             `json:"percentage"`
}

// NewRecord builds a record from a finished session's state. Totals are
// computed over exactly the given items, the active checklist of the
// record's category at submission time:
//
//	TotalScore  = sum of scores
//	MaxPossible = sum of item max scores
//	Percentage  = 100 * total / max, or 0 when max is 0
//
// The per-item maps are copied so later session mutations cannot leak in.
func NewRecord(id, inspectorName, zoneName string, cat types.Category, ts time.Time,
	items []ChecklistItem, scores map[string]int, notes map[string]string,
	observations map[string][]string) InspectionRecord {

	total := 0
	for _, s := range scores {
		total += s
	}
	maxPossible := 0
	for _, item := range items {
		maxPossible += item.MaxScore
	}
	pct := 0.0
	if maxPossible > 0 {
		pct = float64(total) / float64(maxPossible) * 100
	}

	copiedScores := make(map[string]int, len(scores))
	for k, v := range scores {
		copiedScores[k] = v
	}
	copiedNotes := make(map[string]string, len(notes))
	for k, v := range notes {
		copiedNotes[k] = v
	}
	copiedObs := make(map[string][]string, len(observations))
	for k, v := range observations {
		if len(v) == 0 {
			continue
		}
		copiedObs[k] = append([]string(nil), v...)
	}

	return InspectionRecord{
		ID:            id,
		InspectorName: inspectorName,
		ZoneName:      zoneName,
		Category:      cat,
		Timestamp:     ts,
		Scores:        copiedScores,
		Notes:         copiedNotes,
		Observations:  copiedObs,
		TotalScore:    total,
		MaxPossible:   maxPossible,
		Percentage:    pct,
	}
}

// Band returns the presentation band of the record's percentage.
func (r InspectionRecord) Band() types.Band {
	return types.ScoreBand(r.Percentage)
}
