package currencyutils

import (
	"testing"

	"fjacquet/finance-summary/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  string
		defaulted bool
	}{
		{"Dollar with thousands", "$1,234.56", "1234.56", false},
		{"Accounting negative", "(500.00)", "-500", false},
		{"Accounting negative with symbol", "($75.10)", "-75.1", false},
		{"Empty string", "", "0", true},
		{"Whitespace only", "   ", "0", true},
		{"Plain negative", "-42.50", "-42.5", false},
		{"Negative before symbol", "-$12.00", "-12", false},
		{"Negative after symbol", "$-12.00", "-12", false},
		{"Euro trailing", "12.30 €", "12.3", false},
		{"ISO code prefix", "USD 1,000", "1000", false},
		{"ISO code suffix", "99.99 CHF", "99.99", false},
		{"Apostrophe thousands", "1'234.50", "1234.5", false},
		{"Zero parsed", "0.00", "0", false},
		{"Not a number", "abc", "0", true},
		{"Null marker", "NaN", "0", true},
		{"Malformed decimal", "123.45.67", "0", true},
		{"Empty parentheses", "()", "0", true},
		{"Huge exponent", "1e999999999", "0", true},
		{"Small exponent", "1e5", "0", true},
		{"Leading decimal point", ".5", "0.5", false},
		{"Explicit plus sign", "+1,234.56", "1234.56", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CleanAmount(tc.input)
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(result.Value),
				"expected %s but got %s", tc.expected, result.Value)
			assert.Equal(t, tc.defaulted, result.Defaulted())
		})
	}
}

func TestCleanAmount_ZeroParsedVersusDefaulted(t *testing.T) {
	parsed := CleanAmount("0")
	failed := CleanAmount("n/a")

	assert.True(t, parsed.Value.Equal(failed.Value))
	assert.Equal(t, models.StatusParsed, parsed.Status)
	assert.Equal(t, models.StatusDefaulted, failed.Status)
}

func TestCombineDebitCredit(t *testing.T) {
	tests := []struct {
		name      string
		debit     string
		credit    string
		expected  string
		defaulted bool
	}{
		{"Debit only", "50", "0", "-50", false},
		{"Credit only", "0", "200", "200", false},
		{"Both sides", "30", "100", "70", false},
		{"Blank credit", "50", "", "-50", false},
		{"Blank debit", "", "200", "200", false},
		{"Signed debit", "-50", "", "-50", false},
		{"Both blank", "", "", "0", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := CombineDebitCredit(CleanAmount(tc.debit), CleanAmount(tc.credit))
			assert.True(t, decimal.RequireFromString(tc.expected).Equal(result.Value),
				"expected %s but got %s", tc.expected, result.Value)
			assert.Equal(t, tc.defaulted, result.Defaulted())
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency string
		expected string
	}{
		{"No currency", decimal.RequireFromString("1234.5"), "", "1,234.50"},
		{"USD", decimal.RequireFromString("1234.56"), "USD", "$1,234.56"},
		{"Negative USD", decimal.RequireFromString("-20"), "usd", "-$20.00"},
		{"Other code", decimal.RequireFromString("10"), "CHF", "CHF 10.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAmount(tc.amount, tc.currency))
		})
	}
}
