package presets

import (
	"embed"
)

// FS provides the embedded sampling profiles shipped with the binaries.
//
//go:embed *.yaml
var FS embed.FS
