package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/2beens/loadtrack/pkg"
)

const sentryFlushTimeout = 2 * time.Second

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger and returns a func that flushes
// buffered Sentry events; call it before the process exits.
func Setup(params LoggerSetupParams) (flush func()) {
	flush = func() {}

	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	if params.SentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Environment:      params.Environment,
			Dsn:              params.SentryDSN,
			TracesSampleRate: 1.0,
			ServerName:       params.SentryServerName,
		})
		if err != nil {
			logrus.Errorf("sentry.Init: %s", err)
		} else {
			logrus.AddHook(NewSentryHook([]logrus.Level{
				logrus.PanicLevel,
				logrus.FatalLevel,
				logrus.ErrorLevel,
			}))
			flush = func() { sentry.Flush(sentryFlushTimeout) }
			logrus.Infoln("sentry set up")
		}
	}

	logrus.SetOutput(Output(params.LogFileName, params.LogToStdout))
	return flush
}

// Output picks where logs go: stdout when no file is set, otherwise a rotated
// file, copied to stdout when toStdout is set.
func Output(fileName string, toStdout bool) io.Writer {
	if fileName == "" {
		return os.Stdout
	}
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}

	rotated := &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    20, // megabytes
		Compress:   true,
		MaxBackups: 30,
		MaxAge:     365, // days
	}
	if toStdout {
		return pkg.NewCombinedWriter(os.Stdout, rotated)
	}
	return rotated
}

// GetLevel parses a level name, falling back to info.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
