// Package content embeds the default ChainSpire cards, decks and enemies.
package content

import (
	"embed"
	"io/fs"

	"github.com/nathoo/chainspire/engine/state"
	"github.com/nathoo/chainspire/loader"
)

//go:embed lua/*.lua
var files embed.FS

// FS returns the embedded Lua content files.
func FS() fs.FS {
	sub, err := fs.Sub(files, "lua")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}

// Default loads the embedded content.
func Default() (*state.Defs, error) {
	return loader.LoadFS(files, "lua")
}
