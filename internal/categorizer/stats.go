package categorizer

import (
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
)

// CategorizationStats tracks how rows were categorized.
type CategorizationStats struct {
	Total      int            // rows processed
	ByStrategy map[string]int // rows decided by each strategy
	ByCategory map[string]int // rows per resulting label
	Other      int            // rows that ended up as Other
}

// NewCategorizationStats creates an empty CategorizationStats.
func NewCategorizationStats() *CategorizationStats {
	return &CategorizationStats{
		ByStrategy: make(map[string]int),
		ByCategory: make(map[string]int),
	}
}

// Record counts one categorized row.
func (cs *CategorizationStats) Record(strategy, category string) {
	cs.Total++
	cs.ByStrategy[strategy]++
	cs.ByCategory[category]++
	if category == models.CategoryOther {
		cs.Other++
	}
}

// MatchRate is the percentage of rows decided by a rule rather than the fallback.
func (cs *CategorizationStats) MatchRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	fallback := cs.ByStrategy[StrategyFallback]
	return float64(cs.Total-fallback) / float64(cs.Total) * 100.0
}

// LogSummary logs a summary of categorization statistics
func (cs *CategorizationStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	fields := []logging.Field{
		logging.F("total_transactions", cs.Total),
		logging.F("other", cs.Other),
		logging.F("match_rate", cs.MatchRate()),
	}
	for _, name := range []string{StrategyKeyword, StrategySynonym, StrategyFallback} {
		fields = append(fields, logging.F("strategy_"+name, cs.ByStrategy[name]))
	}
	logger.Info("Categorization summary", fields...)
}
