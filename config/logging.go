package config

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogWriter is the writer used for application and database logs.
var LogWriter io.Writer = os.Stdout

// Logger is the shared structured logger. It is a no-op until InitLogging
// runs, so packages may grab it at construction time.
var Logger = zap.NewNop()

// LogFilePath returns the path to the backend log file.
func LogFilePath() string {
	return filepath.Join("logs", "portal-api.log")
}

// InitLogging prepares the log file and builds the zap logger that tees
// JSON output to stdout and the log file. The returned file handle stays
// open for the process lifetime.
func InitLogging() (*os.File, *zap.Logger) {
	logDir := filepath.Dir(LogFilePath())
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		LogWriter = os.Stdout
	} else {
		LogWriter = io.MultiWriter(os.Stdout, logFile)
	}
	log.SetOutput(LogWriter)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(LogWriter),
		zap.InfoLevel,
	)
	Logger = zap.New(core)

	return logFile, Logger
}
