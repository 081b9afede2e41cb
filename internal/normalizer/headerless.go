package normalizer

import (
	"fmt"
	"strings"
	"unicode"

	"fjacquet/finance-summary/internal/models"
)

// DefaultHeaderlessScanCells is how many leading cells LooksHeaderless inspects.
const DefaultHeaderlessScanCells = 3

// LooksHeaderless reports whether the first row of a file is data rather than
// a header. Up to scanCells leading cells are inspected: a cell holding a digit
// and a slash (date-shaped), or a bare number once '.' and '-' are removed,
// marks the row as data. This is a heuristic and can be fooled.
func LooksHeaderless(row []string, scanCells int) bool {
	if scanCells <= 0 {
		scanCells = DefaultHeaderlessScanCells
	}
	for i, cell := range row {
		if i >= scanCells {
			break
		}
		c := strings.TrimSpace(cell)
		if c == "" {
			continue
		}
		if strings.Contains(c, "/") && strings.IndexFunc(c, unicode.IsDigit) >= 0 {
			return true
		}
		if isBareNumber(c) {
			return true
		}
	}
	return false
}

func isBareNumber(s string) bool {
	digits := strings.NewReplacer(".", "", "-", "").Replace(s)
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PositionalNames assigns column names to a headerless file by column count:
// three or more columns read as date, description, amount and then
// column_4 onwards; two columns as date, amount; anything else gets
// column_1 onwards.
func PositionalNames(count int) []string {
	switch {
	case count >= 3:
		names := []string{models.FieldDate, models.FieldDescription, models.FieldAmount}
		for i := 4; i <= count; i++ {
			names = append(names, placeholder(i))
		}
		return names
	case count == 2:
		return []string{models.FieldDate, models.FieldAmount}
	default:
		names := make([]string, count)
		for i := range names {
			names[i] = placeholder(i + 1)
		}
		return names
	}
}

func placeholder(position int) string {
	return fmt.Sprintf("column_%d", position)
}
