package htmlspan

import (
	"io"

	"github.com/sirupsen/logrus"
)

// logger is the package-level structured logger used for facade-level
// diagnostics (reparse events, invariant-violation recovery, fragment
// context setup). As a library, htmlspan stays silent by default; callers
// that want these events opt in via SetLogger.
var logger logrus.FieldLogger = newDefaultLogger()

func newDefaultLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger replaces the package-level logger used for facade diagnostics.
// Passing nil restores the silent default.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		logger = newDefaultLogger()
		return
	}
	logger = l
}
