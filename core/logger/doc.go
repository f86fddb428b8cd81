// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production). All client components receive a *zap.Logger at
// construction time; there is no global logger.
//
// # Context Awareness
//
// The WithTable helper attaches the bitable routing pair (app_token, table_id)
// to a logger, ensuring that all logs related to one table's operations can be
// correlated.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("client ready")
//
//	// In a table-scoped operation:
//	l := logger.WithTable(log, appToken, tableID)
//	l.Error("search failed", zap.Error(err))
package logger
