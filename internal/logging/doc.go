// Package logging provides structured logging for nexus.
//
// It wraps log/slog with a JSON handler and a size-rotating file writer so
// that the interactive UI can log without touching the terminal it draws on.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(dir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	clientLog := logger.WithComponent("lookup")
//	clientLog.Info("lookup settled", "code", "SP", "status", 200)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"lookup settled","component":"lookup","code":"SP","status":200}
//
// # Rotation
//
// [RotatingWriter] renames nexus.log to nexus.log.1 when the next write would
// exceed MaxSizeMB, shifting older backups and keeping at most MaxBackups.
package logging
