package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type LogLevel int

const (
	ERROR LogLevel = iota
	WARN
	INFO
	DEBUG
	TRACE
)

var (
	nullWriter = &NullWriter{}
	backend    = logrus.New()
	mux        sync.Mutex
	current    = INFO
	writers    []*io.PipeWriter
	Info       *log.Logger
	Warn       *log.Logger
	Error      *log.Logger
	Debug      *log.Logger
	Trace      *log.Logger
)

func StringToLogLevel(value string) LogLevel {
	switch strings.ToLower(value) {
	case "error":
		return ERROR
	case "warn":
		return WARN
	case "info":
		return INFO
	case "debug":
		return DEBUG
	case "trace":
		return TRACE
	}
	log.Printf("Invalid log level: '%s'. Returning INFO", value)
	return INFO
}

func (s LogLevel) String() string {
	switch s {
	case ERROR:
		return "ERROR"
	case WARN:
		return "WARN"
	case INFO:
		return "INFO"
	case DEBUG:
		return "DEBUG"
	case TRACE:
		return "TRACE"
	}
	return "UNKNOWN"
}

type NullWriter struct {
	io.Writer
}

func (s *NullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

func init() {
	Error = log.New(nullWriter, "", 0)
	Warn = log.New(nullWriter, "", 0)
	Info = log.New(nullWriter, "", 0)
	Debug = log.New(nullWriter, "", 0)
	Trace = log.New(nullWriter, "", 0)
}

func Initialize(logLevel LogLevel) {
	InitializeWithOutput(logLevel, os.Stderr)
}

// InitializeWithOutput routes every enabled level through one logrus logger
// writing to out. Levels above logLevel are discarded.
func InitializeWithOutput(logLevel LogLevel, out io.Writer) {
	mux.Lock()
	defer mux.Unlock()

	for _, writer := range writers {
		_ = writer.Close()
	}
	writers = nil

	backend.SetOutput(out)
	backend.SetLevel(logrus.TraceLevel)
	backend.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})
	current = logLevel

	Error = newLevelLogger(logLevel >= ERROR, logrus.ErrorLevel)
	Warn = newLevelLogger(logLevel >= WARN, logrus.WarnLevel)
	Info = newLevelLogger(logLevel >= INFO, logrus.InfoLevel)
	Debug = newLevelLogger(logLevel >= DEBUG, logrus.DebugLevel)
	Trace = newLevelLogger(logLevel >= TRACE, logrus.TraceLevel)

	Debug.Printf("Initialize loggers: '%s'", logLevel.String())
}

func newLevelLogger(enabled bool, level logrus.Level) *log.Logger {
	if !enabled {
		return log.New(nullWriter, "", 0)
	}
	writer := backend.WriterLevel(level)
	writers = append(writers, writer)
	return log.New(writer, "", log.Lshortfile)
}

func IsLogLevel(logLevel LogLevel) bool {
	mux.Lock()
	defer mux.Unlock()
	return current >= logLevel
}
