package cfg

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load unmarshals the global viper instance's current state (flags bound
// by BindFlags, plus any config file viper was pointed at) into a Config
// and rationalizes it. It does not validate: the mountpoint is ordinarily
// still a bare positional argument at this point, resolved and folded
// into the result by the caller afterward, so the caller runs
// ValidateConfig itself once every field is in its final form. BindFlags
// binds through the same global instance, so Load takes none of its own.
func Load() (*Config, error) {
	c := &Config{}
	if err := viper.Unmarshal(c, DecoderConfigOption); err != nil {
		return nil, fmt.Errorf("cfg: unmarshalling config: %w", err)
	}

	if err := Rationalize(c); err != nil {
		return nil, fmt.Errorf("cfg: rationalizing config: %w", err)
	}

	return c, nil
}
