package cfg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/free5lot-go/catalogfs/cfg"
)

func validConfig() *cfg.Config {
	return &cfg.Config{
		FileSystem: cfg.FileSystemConfig{
			SourceDir:  "/src",
			MountPoint: "/mnt",
		},
		Logging: cfg.GetDefaultLoggingConfig(),
	}
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	assert.NoError(t, cfg.ValidateConfig(validConfig()))
}

func TestValidateConfigRequiresSourceDir(t *testing.T) {
	c := validConfig()
	c.FileSystem.SourceDir = ""
	assert.Error(t, cfg.ValidateConfig(c))
}

func TestValidateConfigRequiresMountPoint(t *testing.T) {
	c := validConfig()
	c.FileSystem.MountPoint = ""
	assert.Error(t, cfg.ValidateConfig(c))
}

func TestValidateConfigAcceptsMountInPlace(t *testing.T) {
	c := validConfig()
	c.FileSystem.MountPoint = c.FileSystem.SourceDir
	assert.NoError(t, cfg.ValidateConfig(c))
}

func TestValidateConfigRejectsBadFormat(t *testing.T) {
	c := validConfig()
	c.Logging.Format = "xml"
	assert.Error(t, cfg.ValidateConfig(c))
}

func TestValidateConfigRejectsBadSeverity(t *testing.T) {
	c := validConfig()
	c.Logging.Severity = "CRITICAL"
	assert.Error(t, cfg.ValidateConfig(c))
}

func TestValidateConfigRejectsNegativeRotateSize(t *testing.T) {
	c := validConfig()
	c.Logging.LogRotate.MaxFileSizeMb = -1
	assert.Error(t, cfg.ValidateConfig(c))
}
