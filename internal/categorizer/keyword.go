package categorizer

import (
	"strings"

	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
)

// KeywordStrategy matches rule keywords against the uppercased description.
// Rules are scanned in declaration order, then keywords in declaration order;
// the first keyword found as a substring wins. No scoring is involved.
type KeywordStrategy struct {
	rules  []models.CategoryRule
	logger logging.Logger
}

// NewKeywordStrategy creates a new KeywordStrategy instance.
func NewKeywordStrategy(rules []models.CategoryRule, logger logging.Logger) *KeywordStrategy {
	upper := make([]models.CategoryRule, len(rules))
	for i, r := range rules {
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToUpper(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		upper[i] = models.CategoryRule{Name: r.Name, Keywords: keywords, Description: r.Description}
	}
	return &KeywordStrategy{rules: upper, logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return StrategyKeyword
}

// Categorize attempts to categorize a transaction using keyword pattern matching.
func (s *KeywordStrategy) Categorize(tx Transaction) (models.Category, bool) {
	description := strings.ToUpper(tx.Description)
	if strings.TrimSpace(description) == "" {
		return models.Category{}, false
	}

	for _, rule := range s.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(description, keyword) {
				s.logger.Debug("Transaction categorized using keyword matching",
					logging.F(logging.FieldStrategy, s.Name()),
					logging.F(logging.FieldKeyword, keyword),
					logging.F(logging.FieldCategory, rule.Name))

				return models.Category{Name: rule.Name, Description: rule.Description}, true
			}
		}
	}
	return models.Category{}, false
}
