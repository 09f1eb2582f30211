package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/free5lot-go/catalogfs/cfg"
)

func TestOctalUnmarshalText(t *testing.T) {
	var o cfg.Octal
	require.NoError(t, o.UnmarshalText([]byte("0755")))
	assert.EqualValues(t, 0755, o)
}

func TestOctalUnmarshalTextRejectsGarbage(t *testing.T) {
	var o cfg.Octal
	assert.Error(t, o.UnmarshalText([]byte("not-octal")))
}

func TestOctalMarshalText(t *testing.T) {
	o := cfg.Octal(0644)
	text, err := o.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "644", string(text))
}

func TestLogSeverityRank(t *testing.T) {
	assert.Less(t, cfg.TraceLogSeverity.Rank(), cfg.DebugLogSeverity.Rank())
	assert.Less(t, cfg.ErrorLogSeverity.Rank(), cfg.OffLogSeverity.Rank())
	assert.Equal(t, -1, cfg.LogSeverity("bogus").Rank())
}

func TestLogSeverityUnmarshalTextRejectsUnknown(t *testing.T) {
	var s cfg.LogSeverity
	assert.Error(t, s.UnmarshalText([]byte("NOT_A_SEVERITY")))
}

func TestLogSeverityUnmarshalTextAcceptsKnown(t *testing.T) {
	var s cfg.LogSeverity
	require.NoError(t, s.UnmarshalText([]byte("WARNING")))
	assert.Equal(t, cfg.WarningLogSeverity, s)
}

func TestResolvedPathMakesRelativePathAbsolute(t *testing.T) {
	var p cfg.ResolvedPath
	require.NoError(t, p.UnmarshalText([]byte(".")))
	assert.True(t, len(p) > 1 && p[0] == '/')
}

func TestResolvedPathEmptyStaysEmpty(t *testing.T) {
	var p cfg.ResolvedPath
	require.NoError(t, p.UnmarshalText([]byte("")))
	assert.Equal(t, cfg.ResolvedPath(""), p)
}
