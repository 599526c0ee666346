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
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("assemblyai")
//	log.Info("transcript submitted", logger.Fields(logger.FieldTranscriptID, id))
package logger
