// Package store loads and saves the versioned rule table used by the resolver
// and the categorizer.
package store

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
	"fjacquet/finance-summary/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// SupportedVersion is the rule table schema version this build understands.
const SupportedVersion = 1

// DefaultRulesFile is the file name looked up when no explicit path is configured.
const DefaultRulesFile = "rules.yaml"

//go:embed default_rules.yaml
var defaultRules []byte

// RuleStore manages loading and saving of the rule table.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// NewRuleStore creates a store for the given rules file. An empty path means
// "look for rules.yaml in the standard locations, else use the built-in table".
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &RuleStore{RulesFile: rulesFile, logger: logger}
}

// DefaultRules returns the built-in rule table.
func DefaultRules() (*models.RuleTable, error) {
	return ParseRules(defaultRules, "built-in rules")
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *RuleStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".finance-summary", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadRules loads the rule table.
//
// An explicitly configured file must exist and be valid. Without one, a
// rules.yaml found in the standard locations is used, and the built-in table
// otherwise.
func (s *RuleStore) LoadRules() (*models.RuleTable, error) {
	filename := s.RulesFile
	explicit := filename != ""
	if !explicit {
		filename = DefaultRulesFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if explicit {
			return nil, fmt.Errorf("rules file not found: %s: %w", filename, err)
		}
		s.logger.Debug("No rules file found, using built-in rules")
		return DefaultRules()
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	table, err := ParseRules(data, filePath)
	if err != nil {
		return nil, err
	}
	if len(table.Aliases) == 0 {
		defaults, err := DefaultRules()
		if err != nil {
			return nil, err
		}
		table.Aliases = defaults.Aliases
		s.logger.Debug("Rules file has no aliases, using built-in aliases",
			logging.F(logging.FieldFile, filePath))
	}

	s.logger.Info("Loaded rules",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(table.Categories)))
	return table, nil
}

// SaveRules writes the rule table as YAML, creating parent directories.
func (s *RuleStore) SaveRules(table *models.RuleTable, path string) error {
	if path == "" {
		path = s.RulesFile
	}
	if path == "" {
		path = DefaultRulesFile
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(table)
	if err != nil {
		return fmt.Errorf("error marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing rules: %w", err)
	}

	s.logger.Debug("Saved rules", logging.F(logging.FieldOutputFile, path))
	return nil
}

// ParseRules decodes and validates a YAML rule table. source names the input
// in error messages.
func ParseRules(data []byte, source string) (*models.RuleTable, error) {
	var table models.RuleTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "YAML rule table",
			Msg:            "cannot decode YAML",
			Err:            err,
		}
	}

	if err := validate(&table, source); err != nil {
		return nil, err
	}
	normalize(&table)
	return &table, nil
}

func validate(table *models.RuleTable, source string) error {
	var problems []string

	if table.Version != SupportedVersion {
		problems = append(problems, fmt.Sprintf("unsupported version %d (want %d)", table.Version, SupportedVersion))
	}

	seen := make(map[string]bool, len(table.Categories))
	for i, rule := range table.Categories {
		name := strings.TrimSpace(rule.Name)
		switch {
		case name == "":
			problems = append(problems, fmt.Sprintf("category #%d has no name", i+1))
		case seen[strings.ToUpper(name)]:
			problems = append(problems, fmt.Sprintf("duplicate category %q", name))
		}
		seen[strings.ToUpper(name)] = true
	}

	for _, from := range sortedKeys(table.Synonyms) {
		if strings.TrimSpace(table.Synonyms[from]) == "" {
			problems = append(problems, fmt.Sprintf("synonym %q maps to an empty label", from))
		}
	}

	known := make(map[string]bool, len(models.CanonicalFields))
	for _, f := range models.CanonicalFields {
		known[f] = true
	}
	for _, field := range sortedKeys(table.Aliases) {
		if !known[field] {
			problems = append(problems, fmt.Sprintf("unknown alias field %q", field))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &parsererror.ValidationError{
		FilePath: source,
		Reason:   strings.Join(problems, "; "),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalize trims names and keys so lookups can use the uppercased, trimmed
// forms directly.
func normalize(table *models.RuleTable) {
	for i := range table.Categories {
		rule := &table.Categories[i]
		rule.Name = strings.TrimSpace(rule.Name)
		keywords := rule.Keywords[:0]
		for _, k := range rule.Keywords {
			if k = strings.ToUpper(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		rule.Keywords = keywords
	}

	synonyms := make(map[string]string, len(table.Synonyms))
	for from, to := range table.Synonyms {
		synonyms[strings.ToUpper(strings.TrimSpace(from))] = strings.TrimSpace(to)
	}
	table.Synonyms = synonyms

	if table.Aliases == nil {
		table.Aliases = models.ColumnAliasSet{}
	}
}
