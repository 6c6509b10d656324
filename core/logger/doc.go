// Package logger builds the zap logger shared by the server, the CLI and every
// comparison run.
//
// Config.Level selects the minimum level (debug, info, warn or error). debug switches
// to zap's development preset. Config.Format picks json lines, or a colored console
// encoding without stack traces. Both are read from the log section of the
// application config.
//
// Handlers tag their entries with the request's ray id through WithRayID, so an
// HTTP request and the run it started can be followed in the logs.
//
//	log, err := logger.New(&logger.Config{Level: "info", Format: "json"})
//	if err != nil {
//		return err
//	}
//	log.Info("Server started", zap.Int("port", 8080))
//
//	// inside a fiber handler
//	logger.WithRayID(log, c).Error("Comparison request failed", zap.Error(err))
package logger
