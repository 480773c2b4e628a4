// Package logger provides structured logging for speechkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("dataset")
//	log.Info("planned chunks", logger.Fields("chunks", 480))
package logger
