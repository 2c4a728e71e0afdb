// Package config provides environment-based configuration for the CLI.
//
// Loads an optional .env file (godotenv) and maps variables to Config via
// go-simpler/env struct tags. Validates the store backend and its settings.
package config
