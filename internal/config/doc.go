// Package config provides centralized configuration management for the
// procurement dashboard. It handles loading configuration from multiple
// sources, validation, and a type-safe API for accessing configuration
// values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded in order of precedence:
//
//	1. Environment variables with the PROCDASH prefix (highest priority)
//	2. An optional YAML configuration file
//	3. Compiled-in defaults (lowest priority)
//
// The loaded configuration is validated with go-playground/validator before
// use; a configuration that fails validation aborts startup.
package config
