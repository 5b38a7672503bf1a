// Package report renders a submitted inspection into a printable document.
package report

import (
	"sort"
	"time"

	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/types"
)

// Line is one scored checklist item in the document, ready for layout.
type Line struct {
	Number       int      `json:"number"`
	Name         string   `json:"name"`
	NameEN       string   `json:"nameEn,omitempty"`
	Score        int      `json:"score"`
	MaxScore     int      `json:"maxScore"`
	Note         string   `json:"note,omitempty"`
	Observations []string `json:"observations,omitempty"`
}

// Document is the full report for one inspection record. It carries the
// record's stored totals untouched; the catalog only contributes item
// presentation data.
type Document struct {
	ID            string         `json:"id"`
	InspectorName string         `json:"inspectorName"`
	ZoneName      string         `json:"zoneName"`
	Category      types.Category `json:"category"`
	CategoryLabel string         `json:"categoryLabel"`
	Timestamp     time.Time      `json:"timestamp"`
	Lines         []Line         `json:"lines"`
	TotalScore    int            `json:"totalScore"`
	MaxPossible   int            `json:"maxPossibleScore"`
	Percentage    float64        `json:"percentage"`
	Band          types.Band     `json:"band"`
}

// Build joins a record with the current catalog. Lines are ordered by item
// number. Score keys no longer present in the catalog are skipped; the
// record's stored totals are authoritative either way, so a catalog edit
// after submission never changes a past score.
func Build(rec model.InspectionRecord, catalog *model.Catalog, lang types.Language) Document {
	lines := make([]Line, 0, len(rec.Scores))
	for itemID, score := range rec.Scores {
		item, ok := catalog.ItemByID(itemID)
		if !ok {
			continue
		}
		lines = append(lines, Line{
			Number:       item.Number,
			Name:         item.Name,
			NameEN:       item.NameEN,
			Score:        score,
			MaxScore:     item.MaxScore,
			Note:         rec.Notes[itemID],
			Observations: append([]string(nil), rec.Observations[itemID]...),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Number < lines[j].Number })

	return Document{
		ID:            rec.ID,
		InspectorName: rec.InspectorName,
		ZoneName:      rec.ZoneName,
		Category:      rec.Category,
		CategoryLabel: rec.Category.Label(lang),
		Timestamp:     rec.Timestamp,
		Lines:         lines,
		TotalScore:    rec.TotalScore,
		MaxPossible:   rec.MaxPossible,
		Percentage:    rec.Percentage,
		Band:          rec.Band(),
	}
}
