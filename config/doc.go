// Package config loads and validates sportkit configuration.
//
// It uses Viper to merge a YAML config file with environment variables
// (optionally loaded from a .env file via godotenv), then unmarshals the
// result into a caller-supplied struct. File discovery follows the usual
// layout: ./config.yml, ./config/config.yml, or cmd/<service>/config.yml.
//
//	var cfg config.Config
//	if err := config.Load("sportkit", &cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Environment variables override file values using underscore-separated
// paths (e.g. FETCH_BASE_URL maps to fetch.base_url).
package config
