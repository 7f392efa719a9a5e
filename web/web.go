// Package web embeds the single-page forum client served at "/".
package web

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var staticFS embed.FS

// Static returns the static assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Index returns the SPA entry document.
func Index() ([]byte, error) {
	return staticFS.ReadFile("static/index.html")
}
