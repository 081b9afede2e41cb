package categorizer

import (
	"fmt"
	"strings"

	"fjacquet/finance-summary/internal/models"
)

// StrategyResult represents the result of a categorization strategy attempt
type StrategyResult struct {
	Strategy string
	Category models.Category
	Found    bool
}

// StrategyResults aggregates results from every strategy in the chain.
type StrategyResults struct {
	Results []StrategyResult
}

// Winner returns the first successful result.
func (sr StrategyResults) Winner() (StrategyResult, bool) {
	for _, r := range sr.Results {
		if r.Found {
			return r, true
		}
	}
	return StrategyResult{}, false
}

// Summary returns a human-readable summary of all strategy attempts
func (sr StrategyResults) Summary() string {
	parts := make([]string, 0, len(sr.Results))
	for _, result := range sr.Results {
		status := "no_match"
		if result.Found {
			status = "match=" + result.Category.Name
		}
		parts = append(parts, fmt.Sprintf("%s:%s", result.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
