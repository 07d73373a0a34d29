package dashboard

import "embed"

//go:embed frontend
var frontendFS embed.FS
