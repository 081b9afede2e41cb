package categorizer

import "fjacquet/finance-summary/internal/models"

// Transaction is the part of a statement row that categorization looks at.
type Transaction struct {
	Description      string
	OriginalCategory string
}

// CategorizationStrategy defines one step of the categorization chain.
// Strategies are tried in order and the first one that reports found wins.
type CategorizationStrategy interface {
	// Categorize returns the category and whether this strategy decided it.
	// It never fails: inputs it cannot handle are reported as not found.
	Categorize(tx Transaction) (models.Category, bool)

	// Name returns the name of this strategy for logging and statistics.
	Name() string
}

// Names of the built-in strategies.
const (
	StrategyKeyword  = "Keyword"
	StrategySynonym  = "Synonym"
	StrategyFallback = "Fallback"
)
