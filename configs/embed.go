// Package configs embeds the configuration template written by
// `mavenmenu config init`.
//
// Configuration hierarchy (see internal/config Load):
//  1. Defaults (internal/config NewConfig)
//  2. User config ($XDG_CONFIG_HOME/mavenmenu/config.yaml)
//  3. Environment variables (MAVENMENU_*)
//  4. Command-line flags
package configs

import _ "embed"

// UserConfigTemplate is the commented template for the user config.
//
//go:embed config.example.yaml
var UserConfigTemplate string
