// Package config loads scriptmarks settings.
//
// Sources are applied in order, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. SCRIPTMARKS_ environment variables
//
// Command-line flags are applied by the caller on the returned Config.
//
// Env names map to setting paths by section: SCRIPTMARKS_TAGS_FALLBACK_COLOR
// sets tags.fallbackColor. SCRIPTMARKS_LOG_LEVEL, SCRIPTMARKS_LOG_FILE and
// SCRIPTMARKS_DATA_DIR are shorthands for the logging and paths settings.
//
// Unknown settings are rejected when the file is decoded; Validate checks
// value ranges and returns a *ValidationError naming every bad field.
package config
