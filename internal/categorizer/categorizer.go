// Package categorizer assigns a spending category to each transaction using an
// ordered chain of strategies:
//  1. keyword match on the description
//  2. synonym remap of the bank's own category
//  3. fallback to the bank's category, title-cased, or "Other"
package categorizer

import (
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
)

// Categorizer runs the strategy chain. It holds no mutable state, so the same
// inputs always produce the same label.
type Categorizer struct {
	strategies []CategorizationStrategy
	logger     logging.Logger
}

// NewCategorizer builds the standard chain from a rule table.
func NewCategorizer(rules *models.RuleTable, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if rules == nil {
		rules = &models.RuleTable{}
	}
	return NewCategorizerWithStrategies(logger,
		NewKeywordStrategy(rules.Categories, logger),
		NewSynonymStrategy(rules.Synonyms, rules.Categories, logger),
		NewFallbackStrategy(logger),
	)
}

// NewCategorizerWithStrategies builds a categorizer over a custom chain.
// A FallbackStrategy is appended when the chain does not end with one, so
// categorization stays total.
func NewCategorizerWithStrategies(logger logging.Logger, strategies ...CategorizationStrategy) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if n := len(strategies); n == 0 {
		strategies = append(strategies, NewFallbackStrategy(logger))
	} else if _, ok := strategies[n-1].(*FallbackStrategy); !ok {
		strategies = append(strategies, NewFallbackStrategy(logger))
	}
	return &Categorizer{strategies: strategies, logger: logger}
}

// Categorize returns the category label for a description and the category
// exported by the bank. It never fails.
func (c *Categorizer) Categorize(description, originalCategory string) string {
	return c.CategorizeTransaction(Transaction{
		Description:      description,
		OriginalCategory: originalCategory,
	}).Name
}

// CategorizeTransaction returns the full category of the first matching strategy.
func (c *Categorizer) CategorizeTransaction(tx Transaction) models.Category {
	category, _ := c.categorize(tx)
	return category
}

// Explain runs every strategy and reports each outcome, including those that
// would not have been reached.
func (c *Categorizer) Explain(tx Transaction) StrategyResults {
	results := StrategyResults{Results: make([]StrategyResult, 0, len(c.strategies))}
	for _, s := range c.strategies {
		category, found := s.Categorize(tx)
		results.Results = append(results.Results, StrategyResult{
			Strategy: s.Name(),
			Category: category,
			Found:    found,
		})
	}
	return results
}

// CategorizeAll fills ProcessedCategory on every row in place and returns
// per-strategy statistics.
func (c *Categorizer) CategorizeAll(rows []models.CanonicalTransaction) *CategorizationStats {
	stats := NewCategorizationStats()
	c.CategorizeInto(rows, stats)
	stats.LogSummary(c.logger)
	return stats
}

// CategorizeInto fills ProcessedCategory on each row and records the outcome
// in stats, which may be shared across several files.
func (c *Categorizer) CategorizeInto(rows []models.CanonicalTransaction, stats *CategorizationStats) {
	for i := range rows {
		category, strategy := c.categorize(Transaction{
			Description:      rows[i].Description,
			OriginalCategory: rows[i].Category,
		})
		rows[i].ProcessedCategory = category.Name
		stats.Record(strategy, category.Name)
	}
}

func (c *Categorizer) categorize(tx Transaction) (models.Category, string) {
	for _, s := range c.strategies {
		if category, found := s.Categorize(tx); found {
			return category, s.Name()
		}
	}
	// unreachable while the chain ends with a FallbackStrategy
	return models.Category{Name: models.CategoryOther}, ""
}
