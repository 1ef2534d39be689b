// Package config loads the optional per-user configuration file from
// ~/.config/anvil/config.yaml.
//
// The file lets a user pin a backend image repository/tag (e.g. a local
// mirror, or a course-specific tag) and point anvil at a non-default
// Docker host, without repeating flags on every invocation. Command-line
// flags always take precedence over the file.
package config
