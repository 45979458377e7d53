// Package assets holds the files embedded into the binaries.
package assets

import "embed"

// EmailTemplates holds templates/email/*.txt and *.gohtml. Files starting with `_` are base layouts.
//go:embed templates/email/*
var EmailTemplates embed.FS
