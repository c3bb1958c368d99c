package log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"tickbook/infra/config"
)

func TestNewLoggerLevel(t *testing.T) {
	var cfg config.Config
	cfg.Logging.Level = "warn"

	var buf bytes.Buffer
	l := newLogger(cfg, &buf)

	l.Info().Msg("hidden")
	l.Warn().Str("component", "test").Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"component":"test"`)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	for _, level := range []string{"", "loud"} {
		var cfg config.Config
		cfg.Logging.Level = level

		l := newLogger(cfg, &bytes.Buffer{})
		assert.Equal(t, zerolog.InfoLevel, l.GetLevel(), level)
	}
}
