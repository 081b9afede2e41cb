package categorizer

import (
	"strings"

	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
)

// SynonymStrategy remaps the category exported by the bank onto a rule label,
// e.g. "BILLS & UTILITIES" to "Utilities".
type SynonymStrategy struct {
	synonyms     map[string]string // uppercased, trimmed bank category -> label
	descriptions map[string]string // label -> rule description
	logger       logging.Logger
}

// NewSynonymStrategy creates a new SynonymStrategy instance.
func NewSynonymStrategy(synonyms map[string]string, rules []models.CategoryRule, logger logging.Logger) *SynonymStrategy {
	s := &SynonymStrategy{
		synonyms:     make(map[string]string, len(synonyms)),
		descriptions: make(map[string]string, len(rules)),
		logger:       logger,
	}
	for from, to := range synonyms {
		s.synonyms[strings.ToUpper(strings.TrimSpace(from))] = to
	}
	for _, r := range rules {
		s.descriptions[r.Name] = r.Description
	}
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *SynonymStrategy) Name() string {
	return StrategySynonym
}

// Categorize looks the original category up in the synonym table.
func (s *SynonymStrategy) Categorize(tx Transaction) (models.Category, bool) {
	key := strings.ToUpper(strings.TrimSpace(tx.OriginalCategory))
	if key == "" {
		return models.Category{}, false
	}

	label, found := s.synonyms[key]
	if !found {
		return models.Category{}, false
	}

	s.logger.Debug("Transaction categorized using category synonym",
		logging.F(logging.FieldStrategy, s.Name()),
		logging.F("original_category", tx.OriginalCategory),
		logging.F(logging.FieldCategory, label))

	return models.Category{Name: label, Description: s.descriptions[label]}, true
}
