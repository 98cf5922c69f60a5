// Package public embeds the static browser assets served under /assets/.
package public

import (
	"embed"
	"io/fs"
)

//go:embed assets
var files embed.FS

// Assets returns the asset tree rooted at assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(files, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
