package cfg

// Rationalize resolves interdependencies between flags after binding and
// before validation: log_errors_only forces the severity floor to ERROR
// regardless of what log-severity said, and an unset
// log-format/severity/rotation falls back to the package defaults.
func Rationalize(c *Config) error {
	defaults := GetDefaultLoggingConfig()

	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Format
	}
	if c.Logging.Severity == "" {
		c.Logging.Severity = defaults.Severity
	}
	if c.Logging.LogRotate == (LogRotateLoggingConfig{}) {
		c.Logging.LogRotate = defaults.LogRotate
	}

	if c.FileSystem.LogErrorsOnly {
		c.Logging.Severity = ErrorLogSeverity
	}

	return nil
}
