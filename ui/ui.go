// Package ui holds the templates rendered by the web application. Embedding
// them keeps template lookup independent of the process working directory.
package ui

import "embed"

//go:embed templates
var Files embed.FS
