// Package logger provides structured logging for sportkit components
// using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("fetch")
//	log.Info("request completed", logger.Fields("endpoint", ep, "status", 200))
package logger
