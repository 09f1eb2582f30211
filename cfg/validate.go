package cfg

import "fmt"

// ValidateConfig rejects a Config that can't possibly mount: a missing
// source directory or mount point, or a log-format/log-severity the
// logger package wouldn't recognize.
func ValidateConfig(c *Config) error {
	if c.FileSystem.SourceDir == "" {
		return fmt.Errorf("cfg: source-dir is required")
	}
	if c.FileSystem.MountPoint == "" {
		return fmt.Errorf("cfg: mount-point is required")
	}

	if c.Logging.Format != "" && c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("cfg: unsupported log-format %q", c.Logging.Format)
	}

	if c.Logging.Severity != "" && c.Logging.Severity.Rank() < 0 {
		return fmt.Errorf("cfg: unsupported log-severity %q", c.Logging.Severity)
	}

	if err := validateLogRotateConfig(c.Logging.LogRotate); err != nil {
		return err
	}

	return nil
}

func validateLogRotateConfig(r LogRotateLoggingConfig) error {
	if r.MaxFileSizeMb < 0 {
		return fmt.Errorf("cfg: log-rotate max-file-size-mb must not be negative")
	}
	if r.BackupFileCount < 0 {
		return fmt.Errorf("cfg: log-rotate backup-file-count must not be negative")
	}
	return nil
}
