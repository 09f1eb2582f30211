package cfg

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileSystemConfig is catalogfs's mount-time policy: where the overlay
// reads from and is mounted, and the five flags that decide how saved
// metadata overrides the sidecar's own real stat.
type FileSystemConfig struct {
	SourceDir  ResolvedPath `yaml:"source-dir,omitempty"`
	MountPoint ResolvedPath `yaml:"mount-point,omitempty"`

	IgnoreSavedMode  bool `yaml:"ignore-saved-mode,omitempty"`
	IgnoreSavedTimes bool `yaml:"ignore-saved-times,omitempty"`
	UseSavedUID      bool `yaml:"use-saved-uid,omitempty"`
	UseSavedGID      bool `yaml:"use-saved-gid,omitempty"`

	LogErrorsOnly bool     `yaml:"log-errors-only,omitempty"`
	Foreground    bool     `yaml:"foreground,omitempty"`
	ReadOnly      bool     `yaml:"read-only,omitempty"`
	MountOptions  []string `yaml:"mount-options,omitempty"`
}

// Config is the root of catalogfs's configuration, bound from flags and
// optionally overlaid with a YAML file via viper.
type Config struct {
	AppName    string           `yaml:"app-name,omitempty"`
	FileSystem FileSystemConfig `yaml:"file-system,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// BindFlags registers every flag this binary accepts on flagSet and binds
// each to viper under the same dotted key its YAML tag above names, so a
// config file and a flag can both set it and viper's own precedence rules
// pick a winner.
func (c *Config) BindFlags(flagSet *pflag.FlagSet) error {
	flagSet.String("source-dir", "", "directory whose files this mount overlays")
	flagSet.String("mount-point", "", "directory to mount the overlay on")

	flagSet.Bool("ignore_saved_mode", false, "report the sidecar's own real mode instead of the saved one")
	flagSet.Bool("ignore_saved_times", false, "report the sidecar's own real timestamps instead of the saved ones")
	flagSet.Bool("use_saved_uid", false, "report the saved uid instead of the sidecar's own real owner")
	flagSet.Bool("use_saved_gid", false, "report the saved gid instead of the sidecar's own real group")

	flagSet.String("log-file", "", "path to write logs to; empty means stderr")
	flagSet.String("log-format", "text", "log format: text or json")
	flagSet.String("log-severity", string(InfoLogSeverity), "minimum severity to log: TRACE, DEBUG, INFO, WARNING, ERROR, or OFF")
	flagSet.Bool("log_errors_only", false, "force log severity to ERROR regardless of log-severity")

	flagSet.Bool("foreground", false, "stay attached to the terminal instead of daemonizing")
	flagSet.Bool("read-only", false, "mount read-only")
	flagSet.StringSlice("o", nil, "additional raw FUSE mount options")

	for _, name := range []string{
		"source-dir", "mount-point",
		"ignore_saved_mode", "ignore_saved_times", "use_saved_uid", "use_saved_gid",
		"log-file", "log-format", "log-severity", "log_errors_only",
		"foreground", "read-only", "o",
	} {
		if err := viper.BindPFlag(bindKey(name), flagSet.Lookup(name)); err != nil {
			return fmt.Errorf("cfg: binding flag %q: %w", name, err)
		}
	}

	return nil
}

// bindKey maps a flag's command-line name to the viper/YAML key it's
// nested under.
func bindKey(flagName string) string {
	switch flagName {
	case "source-dir":
		return "file-system.source-dir"
	case "mount-point":
		return "file-system.mount-point"
	case "ignore_saved_mode":
		return "file-system.ignore-saved-mode"
	case "ignore_saved_times":
		return "file-system.ignore-saved-times"
	case "use_saved_uid":
		return "file-system.use-saved-uid"
	case "use_saved_gid":
		return "file-system.use-saved-gid"
	case "log-file":
		return "logging.file-path"
	case "log-format":
		return "logging.format"
	case "log-severity":
		return "logging.severity"
	case "log_errors_only":
		return "file-system.log-errors-only"
	case "foreground":
		return "file-system.foreground"
	case "read-only":
		return "file-system.read-only"
	case "o":
		return "file-system.mount-options"
	default:
		return flagName
	}
}
