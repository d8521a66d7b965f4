package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/thrift/internal/constants"
)

// Logger is the process-wide logger. It stays nil until Init runs, and the
// package helpers are no-ops until then.
var Logger *log.Logger

var file string

// Config selects the log directory and verbosity.
type Config struct {
	Debug     bool
	ConfigDir string
}

// Init points the global logger at <ConfigDir>/logs/thrift.log.
func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	file = filepath.Join(dir, constants.AppName+".log")

	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	// The TUI owns the terminal, so stderr only gets a copy with --debug.
	opts := log.Options{ReportTimestamp: true, Level: log.InfoLevel, Prefix: constants.AppName}
	var out io.Writer = rotating
	if cfg.Debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
		out = io.MultiWriter(os.Stderr, rotating)
	}

	Logger = log.NewWithOptions(out, opts)
	return nil
}

// File returns the active log file path, or "" before Init.
func File() string {
	return file
}

func emit(level log.Level, msg string, keyvals []any) {
	if Logger == nil {
		return
	}
	Logger.Log(level, msg, keyvals...)
}

func Debug(msg string, keyvals ...any) { emit(log.DebugLevel, msg, keyvals) }

func Info(msg string, keyvals ...any) { emit(log.InfoLevel, msg, keyvals) }

func Warn(msg string, keyvals ...any) { emit(log.WarnLevel, msg, keyvals) }

func Error(msg string, keyvals ...any) { emit(log.ErrorLevel, msg, keyvals) }
