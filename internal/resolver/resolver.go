// Package resolver maps the headers of an arbitrary statement export onto the
// canonical transaction fields using alias lists.
package resolver

import (
	"strings"

	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/models"
)

// minReverseMatch is the shortest normalized header that may match as a
// substring of an alias. Shorter headers ("ID", "#") match too many aliases.
const minReverseMatch = 3

// ColumnMapping maps canonical field names to source headers.
type ColumnMapping map[string]string

// Has reports whether a field was resolved.
func (m ColumnMapping) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// Headers returns the set of source headers that are mapped to a field.
func (m ColumnMapping) Headers() map[string]bool {
	used := make(map[string]bool, len(m))
	for _, h := range m {
		used[h] = true
	}
	return used
}

// Resolver resolves headers against a read-only alias set.
type Resolver struct {
	aliases models.ColumnAliasSet
	logger  logging.Logger
}

// NewResolver creates a Resolver over the given aliases.
func NewResolver(aliases models.ColumnAliasSet, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Resolver{aliases: aliases, logger: logger}
}

// Normalize uppercases a header and strips spaces and underscores.
func Normalize(header string) string {
	return strings.NewReplacer(" ", "", "_", "").Replace(strings.ToUpper(strings.TrimSpace(header)))
}

// Resolve returns the header that best matches field.
//
// An exact normalized match wins first, in alias order. Otherwise the first
// alias (in declaration order) that is a substring of a header, or contains
// one, selects that header. Ties between headers go to the earlier column.
func (r *Resolver) Resolve(headers []string, field string) (string, bool) {
	return r.resolve(headers, field, nil)
}

// ResolveAll resolves every canonical field that has aliases.
//
// Fields are resolved in models.CanonicalFields order. All fields get an
// exact-match pass before any substring matching, and a header claimed by one
// field is never offered to another: the first discovered mapping is kept.
func (r *Resolver) ResolveAll(headers []string) ColumnMapping {
	mapping := make(ColumnMapping)
	claimed := make(map[int]bool)
	fields := r.aliases.Fields()

	for _, field := range fields {
		if idx, ok := r.exactIndex(headers, field, claimed); ok {
			mapping[field] = headers[idx]
			claimed[idx] = true
		}
	}
	for _, field := range fields {
		if mapping.Has(field) {
			continue
		}
		if idx, ok := r.substringIndex(headers, field, claimed); ok {
			mapping[field] = headers[idx]
			claimed[idx] = true
		}
	}

	for _, field := range fields {
		if h, ok := mapping[field]; ok {
			r.logger.Debug("Resolved column",
				logging.F(logging.FieldField, field),
				logging.F(logging.FieldColumn, h))
		}
	}
	return mapping
}

func (r *Resolver) resolve(headers []string, field string, claimed map[int]bool) (string, bool) {
	if idx, ok := r.exactIndex(headers, field, claimed); ok {
		return headers[idx], true
	}
	if idx, ok := r.substringIndex(headers, field, claimed); ok {
		return headers[idx], true
	}
	return "", false
}

func (r *Resolver) exactIndex(headers []string, field string, claimed map[int]bool) (int, bool) {
	normalized := normalizeAll(headers)
	for _, alias := range r.aliases[field] {
		a := Normalize(alias)
		for i, h := range normalized {
			if !claimed[i] && h != "" && h == a {
				return i, true
			}
		}
	}
	return -1, false
}

func (r *Resolver) substringIndex(headers []string, field string, claimed map[int]bool) (int, bool) {
	normalized := normalizeAll(headers)
	for _, alias := range r.aliases[field] {
		a := Normalize(alias)
		if a == "" {
			continue
		}
		for i, h := range normalized {
			if claimed[i] || h == "" {
				continue
			}
			if strings.Contains(h, a) || (len(h) >= minReverseMatch && strings.Contains(a, h)) {
				return i, true
			}
		}
	}
	return -1, false
}

func normalizeAll(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = Normalize(h)
	}
	return out
}
