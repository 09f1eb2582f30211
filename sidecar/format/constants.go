package format

// Current (v3) format constants.
const (
	headerLine     = "CatalogFS=3\n"
	CurrentHeader  = "CatalogFS=3"
	Separator      = '='
	MaxHeaderBytes = 120
	MaxSidecarSize = 1 << 20 // 1,048,576 bytes
	MaxKeyBytes    = 1024
	MaxValueBytes  = 1 << 20 // 1,048,576 bytes
)

// Legacy (read-only) format constants.
const (
	LegacyHeaderV1  = "CatalogFS.File.1"
	LegacyHeaderV2  = "CatalogFS.File.2"
	LegacySeparator = ':'
)

// legacyTerminalKeys are keys that, in legacy mode, end parsing successfully
// the moment they're seen; any bytes after them are discarded.
var legacyTerminalKeys = map[string]bool{
	"name": true,
	"path": true,
}

func isLegacyTerminalKey(key string) bool {
	return legacyTerminalKeys[key]
}
