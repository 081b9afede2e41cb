// Package container provides dependency injection for the finance-summary application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/finance-summary/internal/aggregator"
	"fjacquet/finance-summary/internal/cache"
	"fjacquet/finance-summary/internal/categorizer"
	"fjacquet/finance-summary/internal/config"
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
	"fjacquet/finance-summary/internal/normalizer"
	"fjacquet/finance-summary/internal/processor"
	"fjacquet/finance-summary/internal/report"
	"fjacquet/finance-summary/internal/resolver"
	"fjacquet/finance-summary/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation. The rule table is loaded once here
// and shared read-only by the resolver and the categorizer.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.RuleStore
	rules       *models.RuleTable
	categorizer *categorizer.Categorizer
	processor   *processor.Processor
	generator   *report.Generator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	ruleStore := store.NewRuleStore(cfg.Rules.File, logger)
	rules, err := ruleStore.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	columnResolver := resolver.NewResolver(rules.Aliases, logger)
	fileNormalizer := normalizer.NewFileNormalizer(columnResolver, NormalizerOptions(cfg), logger)
	cat := categorizer.NewCategorizer(rules, logger)

	var resultCache cache.Cache[*processor.Result]
	if cfg.Cache.Enabled {
		resultCache = cache.NewLRUCache[*processor.Result](cfg.Cache.Size)
	}

	proc := processor.NewProcessor(fileNormalizer, cat, aggregator.NewAggregator(logger), resultCache, logger)

	generator := report.NewGenerator(report.Options{
		Currency:    cfg.Report.Currency,
		DateFormat:  cfg.CSV.OutputDateFormat,
		Delimiter:   firstRune(cfg.CSV.OutputDelimiter, ','),
		RecentLimit: cfg.Report.RecentLimit,
	}, logger)

	logger.Info("Container initialized successfully",
		logging.F("categories", len(rules.Categories)),
		logging.F("cache_enabled", cfg.Cache.Enabled))

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       ruleStore,
		rules:       rules,
		categorizer: cat,
		processor:   proc,
		generator:   generator,
	}, nil
}

// NormalizerOptions maps the csv and normalization sections onto normalizer options.
func NormalizerOptions(cfg *config.Config) normalizer.Options {
	n := cfg.Normalization
	return normalizer.Options{
		Delimiter:           firstRune(cfg.CSV.Delimiter, ','),
		SampleSize:          n.SampleSize,
		DateThreshold:       n.DateThreshold,
		AmountThreshold:     n.AmountThreshold,
		AmountMeanMin:       n.AmountMeanMin,
		AmountMeanMax:       n.AmountMeanMax,
		HeaderlessScanCells: n.HeaderlessScanCells,
	}
}

func firstRune(s string, fallback rune) rune {
	for _, r := range s {
		return r
	}
	return fallback
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the rule store the rules were loaded from.
func (c *Container) GetStore() *store.RuleStore {
	return c.store
}

// GetRules returns the loaded rule table. Callers must not modify it.
func (c *Container) GetRules() *models.RuleTable {
	return c.rules
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetProcessor returns the batch processor.
func (c *Container) GetProcessor() *processor.Processor {
	return c.processor
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
