// Package logger writes the application log to a rotating file under the config directory.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
)

// Logger is nil until Init; the helpers below drop messages until then
var Logger *log.Logger

var sink io.Writer = io.Discard

type Config struct {
	Debug     bool
	ConfigDir string

	// Stderr receives a copy of every line in debug mode. Defaults to os.Stderr.
	Stderr io.Writer
}

func (c Config) level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	return log.WarnLevel
}

func (c Config) writer(file io.Writer) io.Writer {
	if !c.Debug {
		// the board owns the terminal
		return file
	}
	stderr := c.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return io.MultiWriter(stderr, file)
}

// Init points the package logger at <ConfigDir>/logs/turnos.log
func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	sink = cfg.writer(&lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.AppName+".log"),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	})
	Logger = log.NewWithOptions(sink, log.Options{
		Level:           cfg.level(),
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

// Writer is the logger's destination, for producers with their own encoder (the HTTP
// access log). It is io.Discard before Init.
func Writer() io.Writer {
	return sink
}

func emit(level log.Level, msg string, keyvals []any) {
	if Logger == nil {
		return
	}
	Logger.Helper()
	Logger.Log(level, msg, keyvals...)
}

func Debug(msg string, keyvals ...any) { emit(log.DebugLevel, msg, keyvals) }
func Info(msg string, keyvals ...any)  { emit(log.InfoLevel, msg, keyvals) }
func Warn(msg string, keyvals ...any)  { emit(log.WarnLevel, msg, keyvals) }
func Error(msg string, keyvals ...any) { emit(log.ErrorLevel, msg, keyvals) }
