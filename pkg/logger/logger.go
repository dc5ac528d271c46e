package logger

import (
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
)

var (
	base *logrus.Logger
	Log  *logrus.Entry
)

// init keeps tests and packages that never call Init from hitting a nil logger.
func init() {
	Init(os.Getenv("ENVIRONMENT"))
}

func Init(environment string) {
	base = logrus.New()
	base.SetOutput(os.Stderr)

	if environment == "production" {
		base.SetFormatter(&logrus.JSONFormatter{})
		base.SetLevel(logrus.InfoLevel)
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if environment == "development" {
			base.SetLevel(logrus.DebugLevel)
		}
	}

	Log = base.WithFields(logrus.Fields{
		"service":        "skillswap",
		"is_development": environment != "production",
	})
}

func Info(format string, v ...interface{}) {
	Log.Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	Log.Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	Log.Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	Log.Warnf(format, v...)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return Log.WithFields(fields)
}

// WithContext prefixes a message with the caller location and an optional context value.
func WithContext(ctx interface{}, format string, v ...interface{}) string {
	_, file, line, _ := runtime.Caller(1)
	contextStr := fmt.Sprintf("%v:%d", file, line)
	if ctx != nil {
		contextStr = fmt.Sprintf("%v - %v", contextStr, ctx)
	}
	return fmt.Sprintf("[%s] %s", contextStr, fmt.Sprintf(format, v...))
}

func LogSwapError(swapID, action string, err error) {
	Log.WithFields(logrus.Fields{"swap_id": swapID, "action": action}).Warnf("swap action refused: %v", err)
}
