// Package config provides configuration loading and the city registry for the
// bikeshare explorer.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables use the BIKESHARE_ prefix:
//
//	BIKESHARE_LOGGING_LEVEL=debug
//	BIKESHARE_LOGGING_OUTPUT=console
//	BIKESHARE_DATA_DIR=/srv/trips
//	BIKESHARE_TELEMETRY_TRACE_EXPORTER=stdout
//	BIKESHARE_CONFIG_FILE=/etc/bikeshare/config.yaml
//
// When BIKESHARE_CONFIG_FILE is unset, config.yaml and configs/config.yaml in
// the working directory are tried in turn.
//
// # City Registry
//
// The Registry binds city identifiers to source files and holds the fixed
// month and weekday lists used by the filter:
//
//	reg := config.DefaultRegistry(cfg.Data.Dir)
//	path, err := reg.ResolveCity("new york city")
//
// A different city set can be supplied through Data.RegistryFile:
//
//	cities:
//	  - id: chicago
//	    file: chicago.xlsx
//
// # Validation
//
// Config.Validate checks struct tags with go-playground/validator and returns
// a CONFIG AppError on failure.
package config
