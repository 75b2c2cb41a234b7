package prompt

import "embed"

//go:embed templates/*.md
var embeddedTemplates embed.FS
