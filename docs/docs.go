// Package docs embeds the OpenAPI document of the conversion service.
package docs

import "embed"

//go:embed api.yaml
var Docs embed.FS
