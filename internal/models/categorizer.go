package models

import "strings"

// Category represents a categorization result.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryRule is one keyword rule. Declaration order among rules is their priority.
type CategoryRule struct {
	Name        string   `yaml:"name" json:"name"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// ColumnAliasSet maps a canonical field to the header aliases that identify it, in priority order.
type ColumnAliasSet map[string][]string

// Fields returns the canonical fields that have at least one alias, in resolution order.
func (s ColumnAliasSet) Fields() []string {
	fields := make([]string, 0, len(s))
	for _, f := range CanonicalFields {
		if len(s[f]) > 0 {
			fields = append(fields, f)
		}
	}
	return fields
}

// RuleTable is the versioned set of categorization and column rules.
// It is loaded once and treated as read-only afterwards.
type RuleTable struct {
	Version    int               `yaml:"version" json:"version"`
	Categories []CategoryRule    `yaml:"categories" json:"categories"`
	Synonyms   map[string]string `yaml:"synonyms" json:"synonyms"`
	Aliases    ColumnAliasSet    `yaml:"aliases" json:"aliases"`
}

// Rule returns the rule with the given name, case-insensitively.
func (t *RuleTable) Rule(name string) (CategoryRule, bool) {
	for _, r := range t.Categories {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return CategoryRule{}, false
}

// CategoryNames returns rule names in declaration order.
func (t *RuleTable) CategoryNames() []string {
	names := make([]string, len(t.Categories))
	for i, r := range t.Categories {
		names[i] = r.Name
	}
	return names
}
