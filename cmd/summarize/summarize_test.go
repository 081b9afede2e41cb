package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/finance-summary/internal/config"
	"fjacquet/finance-summary/internal/container"
	"fjacquet/finance-summary/internal/logging"
	"fjacquet/finance-summary/internal/parsererror"
	"fjacquet/finance-summary/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chase = `Transaction Date,Description,Amount
01/15/2024,ACME PAYROLL,3000.00
01/20/2024,NETFLIX.COM,-15.49
02/03/2024,STARBUCKS #123,-4.50
06/01/2023,SHELL OIL,-40.00
`

func setup(t *testing.T) (*container.Container, *logging.MockLogger, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	testChdir(t, dir)

	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(config.Default(), logger)
	require.NoError(t, err)
	return c, logger, dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun_Text(t *testing.T) {
	c, _, dir := setup(t)
	path := writeFile(t, dir, "chase.csv", chase)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), &out, c, Options{Files: []string{path}}))

	text := out.String()
	assert.Contains(t, text, "Financial summary 2024")
	assert.Contains(t, text, "Years available: 2023, 2024")
	assert.Contains(t, text, "Entertainment")
	assert.Contains(t, text, "Dining")
	assert.Contains(t, text, "chase.csv")
}

func TestRun_JSONForYear(t *testing.T) {
	c, _, dir := setup(t)
	writeFile(t, dir, "chase.csv", chase)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), &out, c, Options{Dir: dir, Year: 2023, Format: "json"}))

	var decoded struct {
		Year     int    `json:"year"`
		Expenses string `json:"expenses"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, 2023, decoded.Year)
	assert.Equal(t, "40", decoded.Expenses)
}

func TestRun_OutputFile(t *testing.T) {
	c, _, dir := setup(t)
	path := writeFile(t, dir, "chase.csv", chase)
	target := filepath.Join(dir, "out", "summary.csv")

	var stdout bytes.Buffer
	require.NoError(t, Run(context.Background(), &stdout, c, Options{Files: []string{path}, Format: "csv", Output: target}))

	assert.Empty(t, stdout.String())
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "year,month,month_name,category,total")
}

func TestRun_Errors(t *testing.T) {
	c, _, dir := setup(t)
	path := writeFile(t, dir, "chase.csv", chase)
	empty := writeFile(t, dir, "empty.csv", "")

	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"unknown format", Options{Files: []string{path}, Format: "xml"}, report.ErrUnknownFormat},
		{"missing year", Options{Files: []string{path}, Year: 1999}, report.ErrYearNotAvailable},
		{"no valid data", Options{Files: []string{empty}}, parsererror.ErrNoValidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(context.Background(), &bytes.Buffer{}, c, tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Error(t, Run(context.Background(), &bytes.Buffer{}, c, Options{}), "no inputs")
}

func TestRun_LogsWarnings(t *testing.T) {
	c, logger, dir := setup(t)
	good := writeFile(t, dir, "chase.csv", chase)
	bad := writeFile(t, dir, "empty.csv", "")

	require.NoError(t, Run(context.Background(), &bytes.Buffer{}, c, Options{Files: []string{good, bad}}))
	assert.True(t, logger.HasEntry("WARN", "Skipping file"))
}

// testChdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
