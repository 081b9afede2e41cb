package categorizer

import (
	"strings"

	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FallbackStrategy keeps the bank's own category, title-cased, and otherwise
// returns models.CategoryOther. It always reports found.
type FallbackStrategy struct {
	logger logging.Logger
}

// NewFallbackStrategy creates a new FallbackStrategy instance.
func NewFallbackStrategy(logger logging.Logger) *FallbackStrategy {
	return &FallbackStrategy{logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *FallbackStrategy) Name() string {
	return StrategyFallback
}

// Categorize returns the title-cased original category, or Other for null markers.
func (s *FallbackStrategy) Categorize(tx Transaction) (models.Category, bool) {
	original := strings.TrimSpace(tx.OriginalCategory)
	if models.IsNullCategory(strings.ToUpper(original)) {
		return models.Category{Name: models.CategoryOther}, true
	}

	// A Caser keeps state between calls, so each call gets its own.
	label := cases.Title(language.Und).String(original)

	s.logger.Debug("Transaction kept its original category",
		logging.F(logging.FieldStrategy, s.Name()),
		logging.F(logging.FieldCategory, label))

	return models.Category{Name: label}, true
}
