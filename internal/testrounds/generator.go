package testrounds

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/mkabbani/evround/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor  = 1000000
	profileTypeDivisor  = 8
	notesEveryN         = 5
	observationsEveryN  = 3
	observationPickBias = 2
)

// Constants for score generation ranges, expressed as fractions of the
// item's maximum score.
const (
	solidMin      = 0.6
	solidRange    = 0.3
	strongMin     = 0.8
	strongRange   = 0.2
	weakMin       = 0.1
	weakRange     = 0.4
	spotlessMin   = 0.95
	spotlessRange = 0.05
	failingMin    = 0.0
	failingRange  = 0.2
	decentMin     = 0.5
	decentRange   = 0.3
	mixedMin      = 0.3
	mixedRange    = 0.5
	wideMin       = 0.0
	wideRange     = 1.0
)

// Constants for cleanliness profile cases.
const (
	caseSolidZone    = 0
	caseStrongZone   = 1
	caseWeakZone     = 2
	caseSpotlessZone = 3
	caseFailingZone  = 4
	caseDecentZone   = 5
	caseMixedZone    = 6
	caseWideRange    = 7
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomIndex returns a random index below n.
func getRandomIndex(n int) int {
	if n <= 0 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateRounds plans the specified number of inspection rounds against the
// fetched catalog.
func generateRounds(ctx context.Context, config *Config, catalog *Catalog, stats *Stats) ([]Round, error) {
	logger.Get().Info(ctx, "planning inspection rounds", logger.Int("numRounds", config.NumRounds))

	if len(catalog.Inspectors) == 0 {
		return nil, fmt.Errorf("catalog has no inspectors")
	}

	// Group zones by category; only categories with both zones and
	// checklist items are usable.
	zonesByCategory := make(map[string][]Zone)
	for _, z := range catalog.Zones {
		zonesByCategory[z.Category] = append(zonesByCategory[z.Category], z)
	}
	categories := make([]string, 0, len(zonesByCategory))
	for cat, zones := range zonesByCategory {
		if len(zones) > 0 && len(catalog.Checklists[cat]) > 0 {
			categories = append(categories, cat)
		}
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("catalog has no usable categories")
	}

	rounds := make([]Round, config.NumRounds)
	for i := 0; i < config.NumRounds; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during round planning: %w", ctx.Err())
		default:
		}
		rounds[i] = generateSingleRound(i, catalog, categories, zonesByCategory)
	}

	stats.RoundsPlanned = len(rounds)
	logger.Get().Info(ctx, "planned rounds successfully", logger.Int("count", len(rounds)))

	return rounds, nil
}

// generateSingleRound plans one inspection round with a varied cleanliness
// profile.
func generateSingleRound(index int, catalog *Catalog, categories []string, zonesByCategory map[string][]Zone) Round {
	inspector := catalog.Inspectors[getRandomIndex(len(catalog.Inspectors))]
	category := categories[getRandomIndex(len(categories))]
	zones := zonesByCategory[category]
	zone := zones[getRandomIndex(len(zones))]
	items := catalog.Checklists[category]

	scoreFraction := pickScoreProfile()

	round := Round{
		InspectorID:   inspector.ID,
		InspectorName: inspector.DisplayName,
		Category:      category,
		ZoneID:        zone.ID,
		Scores:        make(map[string]int, len(items)),
		Notes:         make(map[string]string),
		Observations:  make(map[string][]string),
	}

	for _, item := range items {
		score := int(scoreFraction() * float64(item.MaxScore))
		if score > item.MaxScore {
			score = item.MaxScore
		}
		round.Scores[item.ID] = score

		if score < item.MaxScore {
			if len(item.Observations) > 0 && getRandomIndex(observationsEveryN) == 0 {
				picks := 1 + getRandomIndex(minInt(observationPickBias, len(item.Observations)))
				for p := 0; p < picks; p++ {
					tag := item.Observations[getRandomIndex(len(item.Observations))]
					round.Observations[item.ID] = appendUnique(round.Observations[item.ID], tag)
				}
			}
			if getRandomIndex(notesEveryN) == 0 {
				round.Notes[item.ID] = fmt.Sprintf("needs followup (round %d)", index)
			}
		}
	}

	// Leave one item unscored on a fixed cadence so the incomplete
	// rejection path gets exercised.
	if (index+1)%incompleteEveryN == 0 && len(items) > 0 {
		round.Incomplete = true
		delete(round.Scores, items[getRandomIndex(len(items))].ID)
	}

	return round
}

// pickScoreProfile returns a generator of score fractions for one round,
// so all items of a round share the zone's overall cleanliness level.
func pickScoreProfile() func() float64 {
	profile, _ := rand.Int(rand.Reader, big.NewInt(profileTypeDivisor))
	var min, span float64
	switch profile.Int64() {
	case caseSolidZone:
		min, span = solidMin, solidRange
	case caseStrongZone:
		min, span = strongMin, strongRange
	case caseWeakZone:
		min, span = weakMin, weakRange
	case caseSpotlessZone:
		min, span = spotlessMin, spotlessRange
	case caseFailingZone:
		min, span = failingMin, failingRange
	case caseDecentZone:
		min, span = decentMin, decentRange
	case caseMixedZone:
		min, span = mixedMin, mixedRange
	case caseWideRange:
		min, span = wideMin, wideRange
	default:
		min, span = wideMin, wideRange
	}
	return func() float64 {
		return min + getRandomFloat()*span
	}
}

// appendUnique appends tag unless already present.
func appendUnique(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
