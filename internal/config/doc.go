// Package config loads and validates the TOML configuration for shelfcheck.
//
// Configuration is resolved from, in order: an explicit --config path, a
// shelfcheck.toml in the working directory, then
// ~/.config/shelfcheck/config.toml. Missing files fall back to defaults so
// the tool works out of the box.
package config
