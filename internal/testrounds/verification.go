package testrounds

import (
	"context"
	"fmt"
	"log"
	"sort"
)

// verifyResults checks the consistency of the record history and the
// per-inspector statistics against what was driven.
func verifyResults(_ context.Context, config *Config, records []Record, summaries map[string]Summary, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(records) == 0 {
		return fmt.Errorf("no records to verify")
	}

	if len(records) < stats.RoundsSuccessful {
		return fmt.Errorf("history holds %d records but %d rounds were accepted", len(records), stats.RoundsSuccessful)
	}

	if err := verifyRecordConsistency(records); err != nil {
		return fmt.Errorf("record consistency: %w", err)
	}
	log.Println("✅ Record consistency verified")

	if err := verifyStatisticsConsistency(records, summaries); err != nil {
		log.Printf("⚠️  Statistics consistency warning: %v", err)
	} else {
		log.Println("✅ Statistics consistency verified")
	}

	displayTopInspectors(summaries, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyRecordConsistency checks ordering and score arithmetic of the history.
func verifyRecordConsistency(records []Record) error {
	for i, rec := range records {
		if rec.Percentage < 0 || rec.Percentage > PercentageMultiplier {
			return fmt.Errorf("record %s has percentage %.2f outside 0..100", rec.ID, rec.Percentage)
		}
		if rec.TotalScore > rec.MaxPossible {
			return fmt.Errorf("record %s scores %d above its maximum %d", rec.ID, rec.TotalScore, rec.MaxPossible)
		}
		// History is newest first.
		if i > 0 && records[i-1].Timestamp.Before(rec.Timestamp) {
			return fmt.Errorf("record %s is newer than its predecessor %s", rec.ID, records[i-1].ID)
		}
	}
	return nil
}

// verifyStatisticsConsistency checks the summaries against the raw history.
func verifyStatisticsConsistency(records []Record, summaries map[string]Summary) error {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.InspectorName]++
	}

	total := 0
	for name, summary := range summaries {
		if summary.Count > counts[name] {
			return fmt.Errorf("inspector %s summary counts %d rounds but history holds %d", name, summary.Count, counts[name])
		}
		if summary.Count > 0 && (summary.Best < summary.Worst) {
			return fmt.Errorf("inspector %s has best %.2f below worst %.2f", name, summary.Best, summary.Worst)
		}
		total += summary.Count
	}

	if total == 0 {
		return fmt.Errorf("no summary counted any round")
	}
	return nil
}

// displayTopInspectors shows inspectors ranked by average percentage.
func displayTopInspectors(summaries map[string]Summary, verbose bool) {
	type ranked struct {
		name    string
		summary Summary
	}
	entries := make([]ranked, 0, len(summaries))
	for name, summary := range summaries {
		if summary.Count > 0 {
			entries = append(entries, ranked{name: name, summary: summary})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].summary.AveragePercentage > entries[j].summary.AveragePercentage
	})

	topN := 10
	if len(entries) < topN {
		topN = len(entries)
	}

	log.Printf("🏆 Top %d inspectors by average percentage:", topN)
	for i := 0; i < topN; i++ {
		e := entries[i]
		log.Printf("   %d. %s - Average: %.2f%% over %d rounds", i+1, e.name, e.summary.AveragePercentage, e.summary.Count)
	}

	if verbose {
		for _, e := range entries {
			log.Printf(`📊 %s:
   Rounds: %d
   Average: %.2f%%
   Best: %.2f%%
   Worst: %.2f%%
`, e.name, e.summary.Count, e.summary.AveragePercentage, e.summary.Best, e.summary.Worst)
		}
	}
}
