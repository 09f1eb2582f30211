package cfg

import (
	"github.com/mitchellh/mapstructure"
)

// DecodeHook composes the mapstructure hooks viper needs to turn its raw
// string/bool/slice values into this package's custom types. Octal,
// LogSeverity, and ResolvedPath all satisfy encoding.TextUnmarshaler, so
// TextUnmarshallerHookFunc covers them without a type-specific switch.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// DecoderConfigOption applies DecodeHook to a viper Unmarshal call's
// mapstructure.DecoderConfig, matching viper's own option signature.
// Fields are matched by their yaml tags, the same dotted keys BindFlags
// binds each flag under.
func DecoderConfigOption(dc *mapstructure.DecoderConfig) {
	dc.TagName = "yaml"
	dc.DecodeHook = DecodeHook()
	dc.WeaklyTypedInput = true
}
