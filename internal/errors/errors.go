// Package errors renders command failures for the terminal.
package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
)

const (
	errorPrefix   = "Error: "
	warningPrefix = "Warning: "
)

// swapped by tests
var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

func prefixed(prefix string, err error) string {
	if err == nil {
		return ""
	}
	return prefix + err.Error()
}

func Format(err error) string {
	return prefixed(errorPrefix, err)
}

func Formatf(format string, args ...any) string {
	return errorPrefix + fmt.Sprintf(format, args...)
}

// Warning renders a problem the command survived, such as a change kept only in memory
func Warning(err error) string {
	return prefixed(warningPrefix, err)
}

// Fatal reports err and exits with status 1. A nil err is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	die(err.Error())
}

func Fatalf(format string, args ...any) {
	die(fmt.Sprintf(format, args...))
}

func die(msg string) {
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintln(stderr, errorPrefix+msg)
	exit(1)
}
