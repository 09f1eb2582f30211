// Package cfg holds catalogfs's configuration surface: the Config struct
// bound from cobra/pflag flags and an optional viper-loaded YAML file, and
// the small set of custom types that need their own text (un)marshalling.
package cfg

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Octal is a uint32 that marshals to and from text in base 8, so a mode
// can be written as "0755" rather than its decimal value. No Config field
// uses it.
type Octal uint32

func (o *Octal) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 8, 32)
	if err != nil {
		return fmt.Errorf("cfg: invalid octal value %q: %w", text, err)
	}
	*o = Octal(v)
	return nil
}

func (o Octal) MarshalText() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(o), 8)), nil
}

// LogSeverity is the logging package's notion of severity, expressed as a
// string for config-file/flag friendliness and ranked so that "does this
// severity pass at that threshold" is a single integer comparison.
type LogSeverity string

const (
	TraceLogSeverity   LogSeverity = "TRACE"
	DebugLogSeverity   LogSeverity = "DEBUG"
	InfoLogSeverity    LogSeverity = "INFO"
	WarningLogSeverity LogSeverity = "WARNING"
	ErrorLogSeverity   LogSeverity = "ERROR"
	OffLogSeverity     LogSeverity = "OFF"
)

var severityRanking = map[LogSeverity]int{
	TraceLogSeverity:   0,
	DebugLogSeverity:   1,
	InfoLogSeverity:    2,
	WarningLogSeverity: 3,
	ErrorLogSeverity:   4,
	OffLogSeverity:     5,
}

// Rank returns this severity's position from most to least verbose, or -1
// if it isn't one of the known severities.
func (s LogSeverity) Rank() int {
	if r, ok := severityRanking[s]; ok {
		return r
	}
	return -1
}

func (s *LogSeverity) UnmarshalText(text []byte) error {
	candidate := LogSeverity(text)
	if _, ok := severityRanking[candidate]; !ok {
		return fmt.Errorf("cfg: unknown log severity %q", text)
	}
	*s = candidate
	return nil
}

func (s LogSeverity) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// ResolvedPath is a filesystem path that has been made absolute relative
// to the process's working directory at parse time.
type ResolvedPath string

func (p *ResolvedPath) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = ""
		return nil
	}
	abs, err := filepath.Abs(string(text))
	if err != nil {
		return fmt.Errorf("cfg: resolving path %q: %w", text, err)
	}
	*p = ResolvedPath(abs)
	return nil
}

func (p ResolvedPath) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

// LogRotateLoggingConfig mirrors lumberjack.Logger's rotation knobs.
type LogRotateLoggingConfig struct {
	MaxFileSizeMb   int  `yaml:"max-file-size-mb,omitempty"`
	BackupFileCount int  `yaml:"backup-file-count,omitempty"`
	Compress        bool `yaml:"compress,omitempty"`
}

// LoggingConfig is the full logging section of Config.
type LoggingConfig struct {
	FilePath  ResolvedPath           `yaml:"file-path,omitempty"`
	Format    string                 `yaml:"format,omitempty"`
	Severity  LogSeverity            `yaml:"severity,omitempty"`
	LogRotate LogRotateLoggingConfig `yaml:"log-rotate,omitempty"`
}
