// Package types contains common types shared across the application.
package types

// Category is the risk classification that partitions zones and checklist items.
type Category string

// Risk categories. A zone belongs to exactly one; a session only presents
// checklist items of the selected zone's category.
const (
	HighRisk Category = "HIGH_RISK"
	MedRisk  Category = "MED_RISK"
	General  Category = "GENERAL"
)

// Categories lists every category in presentation order.
func Categories() []Category {
	return []Category{HighRisk, MedRisk, General}
}

// Valid reports whether c is a recognized category.
func (c Category) Valid() bool {
	switch c {
	case HighRisk, MedRisk, General:
		return true
	}
	return false
}

// Language selects a label translation.
type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

// Label returns the display label for the category. The switch is exhaustive
// over the enumeration so a new category cannot ship without a label.
func (c Category) Label(lang Language) string {
	switch c {
	case HighRisk:
		if lang == Arabic {
			return "مناطق عالية الخطورة"
		}
		return "High Risk"
	case MedRisk:
		if lang == Arabic {
			return "مناطق متوسطة الخطورة"
		}
		return "Medium Risk"
	case General:
		if lang == Arabic {
			return "مناطق عامة"
		}
		return "General Area"
	}
	return string(c)
}

// Band classifies a percentage score for presentation.
type Band string

const (
	BandExcellent  Band = "excellent"
	BandAcceptable Band = "acceptable"
	BandPoor       Band = "poor"
)

// Thresholds for ScoreBand, matching the report color coding.
const (
	excellentThreshold  = 90.0
	acceptableThreshold = 75.0
)

// ScoreBand maps a percentage to its band.
func ScoreBand(pct float64) Band {
	switch {
	case pct >= excellentThreshold:
		return BandExcellent
	case pct >= acceptableThreshold:
		return BandAcceptable
	default:
		return BandPoor
	}
}
