// Package gamedata provides the embedded world data (enemies, block
// palette, picker weights, origin laboratory) and loaders for it.
package gamedata

import (
	"embed"
	"io/fs"
)

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// FS returns the embedded data files.
func FS() fs.FS {
	return dataFS
}
