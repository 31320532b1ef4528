// Package configs embeds the profile YAML files so the binaries can load
// configuration without a configs directory next to them.
package configs

import "embed"

// Files holds base.yaml and one file per profile.
//
//go:embed *.yaml
var Files embed.FS
