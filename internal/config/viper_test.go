package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory with an empty HOME so no
// stray config.yaml is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	testChdir(t, dir)
	return dir
}

func TestInitializeConfig_Defaults(t *testing.T) {
	isolate(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "2006-01-02", config.CSV.OutputDateFormat)
	assert.Equal(t, "", config.Rules.File)
	assert.Equal(t, 100, config.Normalization.SampleSize)
	assert.Equal(t, 0.5, config.Normalization.DateThreshold)
	assert.Equal(t, 0.7, config.Normalization.AmountThreshold)
	assert.Equal(t, 0.01, config.Normalization.AmountMeanMin)
	assert.Equal(t, 1000000.0, config.Normalization.AmountMeanMax)
	assert.Equal(t, 3, config.Normalization.HeaderlessScanCells)
	assert.True(t, config.Cache.Enabled)
	assert.Equal(t, 8, config.Cache.Size)
	assert.Equal(t, "text", config.Report.Format)
	assert.Equal(t, "USD", config.Report.Currency)
	assert.Equal(t, 10, config.Report.RecentLimit)
}

func TestDefault_MatchesInitializeConfig(t *testing.T) {
	isolate(t)

	loaded, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, loaded, Default())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)

	t.Setenv("FINSUM_LOG_LEVEL", "debug")
	t.Setenv("FINSUM_LOG_FORMAT", "json")
	t.Setenv("FINSUM_CSV_DELIMITER", ";")
	t.Setenv("FINSUM_RULES_FILE", "/etc/finsum/rules.yaml")
	t.Setenv("FINSUM_NORMALIZATION_SAMPLE_SIZE", "25")
	t.Setenv("FINSUM_CACHE_ENABLED", "false")
	t.Setenv("FINSUM_REPORT_FORMAT", "json")

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, ";", config.CSV.Delimiter)
	assert.Equal(t, "/etc/finsum/rules.yaml", config.Rules.File)
	assert.Equal(t, 25, config.Normalization.SampleSize)
	assert.False(t, config.Cache.Enabled)
	assert.Equal(t, "json", config.Report.Format)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	dir := isolate(t)

	content := `
log:
  level: "warn"
csv:
  delimiter: "|"
normalization:
  sample_size: 40
  amount_threshold: 0.8
cache:
  size: 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, 40, config.Normalization.SampleSize)
	assert.Equal(t, 0.8, config.Normalization.AmountThreshold)
	assert.Equal(t, 2, config.Cache.Size)
}

func TestInitializeConfig_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log:\n  level: warn\n"), 0600))
	t.Setenv("FINSUM_LOG_LEVEL", "error")

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)
}

func TestInitializeConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"bad log level", "FINSUM_LOG_LEVEL", "chatty"},
		{"bad log format", "FINSUM_LOG_FORMAT", "xml"},
		{"multi-char delimiter", "FINSUM_CSV_DELIMITER", ";;"},
		{"zero sample size", "FINSUM_NORMALIZATION_SAMPLE_SIZE", "0"},
		{"date threshold above one", "FINSUM_NORMALIZATION_DATE_THRESHOLD", "1.5"},
		{"inverted amount band", "FINSUM_NORMALIZATION_AMOUNT_MEAN_MAX", "0.001"},
		{"bad report format", "FINSUM_REPORT_FORMAT", "pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.envVar, tt.value)

			_, err := InitializeConfig()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	config := Default()
	config.Log.Level = "debug"
	config.Log.Format = "json"

	logger := ConfigureLoggingFromConfig(config)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	_, ok := logger.Formatter.(*logrus.JSONFormatter)
	assert.True(t, ok)
}

func TestLoadEnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FINSUM_FROM_DOTENV=yes\n"), 0600))
	t.Setenv("FINSUM_FROM_DOTENV", "")
	require.NoError(t, os.Unsetenv("FINSUM_FROM_DOTENV"))

	assert.Equal(t, ".env", loadEnvFile())
	assert.Equal(t, "yes", os.Getenv("FINSUM_FROM_DOTENV"))
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
