package web

import "embed"

// Templates embeds the console HTML templates.
//
//go:embed templates/*/*.html
var Templates embed.FS

// Static embeds the stylesheet and the delegated event script.
//
//go:embed static/*/*
var Static embed.FS
