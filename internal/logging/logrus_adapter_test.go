package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedAdapter(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{"debug level with text format", "debug", "text", logrus.DebugLevel},
		{"info level with json format", "info", "json", logrus.InfoLevel},
		{"warn level with text format", "warn", "text", logrus.WarnLevel},
		{"invalid level defaults to info", "loud", "text", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			logger := NewLogrusAdapterWithOutput(tt.level, tt.format, &out)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.Level())

			if tt.format == "json" {
				_, ok := adapter.logger.Formatter.(*logrus.JSONFormatter)
				assert.True(t, ok, "formatter should be JSONFormatter")
			} else {
				_, ok := adapter.logger.Formatter.(*logrus.TextFormatter)
				assert.True(t, ok, "formatter should be TextFormatter")
			}
		})
	}
}

func TestNewLogrusAdapterFromLogger_Nil(t *testing.T) {
	logger := NewLogrusAdapterFromLogger(nil)
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
}

func TestLogrusAdapter_LevelsAndFields(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.DebugLevel)

	logger.Debug("sniffed amount column", F(FieldColumn, "Withdrawals"))
	logger.Info("normalized file", F(FieldFile, "chase.csv"), F(FieldCount, 12))
	logger.Warn("skipping file", F(FieldReason, "empty"))

	output := buf.String()
	assert.Contains(t, output, "sniffed amount column")
	assert.Contains(t, output, "column=Withdrawals")
	assert.Contains(t, output, "file=chase.csv")
	assert.Contains(t, output, "count=12")
	assert.Contains(t, output, "level=warning")
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.WarnLevel)

	logger.Info("hidden")
	logger.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogrusAdapter_ChainedCalls(t *testing.T) {
	logger, buf := newBufferedAdapter(logrus.InfoLevel)

	logger.
		WithField(FieldFile, "bofa.csv").
		WithFields(F(FieldEncoding, "latin-1")).
		WithError(errors.New("bad quote")).
		Error("file failed")

	output := buf.String()
	assert.Contains(t, output, "file failed")
	assert.Contains(t, output, "bofa.csv")
	assert.Contains(t, output, "latin-1")
	assert.Contains(t, output, "bad quote")
}

func TestToLogrusFields(t *testing.T) {
	logrusFields := toLogrusFields([]Field{F("a", "x"), F("b", 2)})
	assert.Len(t, logrusFields, 2)
	assert.Equal(t, "x", logrusFields["a"])
	assert.Equal(t, 2, logrusFields["b"])
	assert.Len(t, toLogrusFields(nil), 0)
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   logrus.Level
		wantOK bool
	}{
		{"debug", logrus.DebugLevel, true},
		{" WARN ", logrus.WarnLevel, true},
		{"Error", logrus.ErrorLevel, true},
		{"loud", logrus.InfoLevel, false},
		{"", logrus.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
	}
}

func TestLogrusAdapter_DisabledLevelWritesNothing(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogrusAdapterWithOutput("warn", "text", &out)

	logger.Debug("row categorized", F(FieldCategory, "Dining"))
	logger.Info("file normalized")
	assert.Empty(t, out.String())

	logger.WithField(FieldFile, "chase.csv").Warn("Skipping file")
	assert.Contains(t, out.String(), "Skipping file")
	assert.Contains(t, out.String(), "chase.csv")
}
