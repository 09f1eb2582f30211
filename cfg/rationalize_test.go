package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/free5lot-go/catalogfs/cfg"
)

func TestRationalizeFillsLoggingDefaults(t *testing.T) {
	c := &cfg.Config{}
	require.NoError(t, cfg.Rationalize(c))

	assert.Equal(t, cfg.GetDefaultLoggingConfig().Format, c.Logging.Format)
	assert.Equal(t, cfg.GetDefaultLoggingConfig().Severity, c.Logging.Severity)
	assert.Equal(t, cfg.GetDefaultLoggingConfig().LogRotate, c.Logging.LogRotate)
}

func TestRationalizeLogErrorsOnlyForcesErrorSeverity(t *testing.T) {
	c := &cfg.Config{
		FileSystem: cfg.FileSystemConfig{LogErrorsOnly: true},
		Logging:    cfg.LoggingConfig{Severity: cfg.TraceLogSeverity},
	}
	require.NoError(t, cfg.Rationalize(c))

	assert.Equal(t, cfg.ErrorLogSeverity, c.Logging.Severity)
}

func TestRationalizeLeavesExplicitValuesAlone(t *testing.T) {
	c := &cfg.Config{
		Logging: cfg.LoggingConfig{Format: "json", Severity: cfg.WarningLogSeverity},
	}
	require.NoError(t, cfg.Rationalize(c))

	assert.Equal(t, "json", c.Logging.Format)
	assert.Equal(t, cfg.WarningLogSeverity, c.Logging.Severity)
}
