// Package logger provides a logging capability for logship diagnostics.
//
// Output that is part of the tool's console contract (the run banner,
// progress lines, per-line delivery diagnostics and the final summary) is
// written to stdout by the forwarder and does not go through this package.
package logger

import (
	"os"
	"strconv"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// log is the package-level logger. Initialize replaces it; the init below
// keeps callers that skip Initialize from panicking.
var log *zap.SugaredLogger

func init() {
	log = zap.NewNop().Sugar()
}

// unstructuredLogs reports whether logs should be human-readable text.
// Controlled by the UNSTRUCTURED_LOGS environment variable; defaults to true.
func unstructuredLogs() bool {
	unstructured, err := strconv.ParseBool(os.Getenv("UNSTRUCTURED_LOGS"))
	if err != nil {
		return true
	}
	return unstructured
}

// Initialize creates the package-level logger. Unstructured (default) output
// is a plain console encoding on stderr so it never mixes with the run
// output on stdout; structured output is JSON on stdout for log shippers.
func Initialize() {
	level := zapcore.InfoLevel
	if viper.GetBool("debug") {
		level = zapcore.DebugLevel
	}

	if unstructuredLogs() {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
		log = zap.New(core).Sugar()
		return
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.Lock(os.Stdout), level)
	log = zap.New(core).Sugar()
}

// Debug logs a message at debug level.
func Debug(msg string) {
	log.Debug(msg)
}

// Debugf logs a formatted message at debug level.
func Debugf(msg string, args ...any) {
	log.Debugf(msg, args...)
}

// Debugw logs a message at debug level with additional key-value pairs.
func Debugw(msg string, keysAndValues ...any) {
	log.Debugw(msg, keysAndValues...)
}

// Info logs a message at info level.
func Info(msg string) {
	log.Info(msg)
}

// Infof logs a formatted message at info level.
func Infof(msg string, args ...any) {
	log.Infof(msg, args...)
}

// Infow logs a message at info level with additional key-value pairs.
func Infow(msg string, keysAndValues ...any) {
	log.Infow(msg, keysAndValues...)
}

// Warn logs a message at warning level.
func Warn(msg string) {
	log.Warn(msg)
}

// Warnf logs a formatted message at warning level.
func Warnf(msg string, args ...any) {
	log.Warnf(msg, args...)
}

// Warnw logs a message at warning level with additional key-value pairs.
func Warnw(msg string, keysAndValues ...any) {
	log.Warnw(msg, keysAndValues...)
}

// Error logs a message at error level.
func Error(msg string) {
	log.Error(msg)
}

// Errorf logs a formatted message at error level.
func Errorf(msg string, args ...any) {
	log.Errorf(msg, args...)
}

// Errorw logs a message at error level with additional key-value pairs.
func Errorw(msg string, keysAndValues ...any) {
	log.Errorw(msg, keysAndValues...)
}

// Fatalf logs a formatted message at fatal level and exits the program.
func Fatalf(msg string, args ...any) {
	log.Fatalf(msg, args...)
}
