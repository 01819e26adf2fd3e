package logger

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	instance *Logger
	once     sync.Once
)

// Logger writes to files only, so logging never disturbs the terminal UI.
// General messages go to vellum.log; source mutations go to edits.log.
type Logger struct {
	fileLogger *log.Logger
	editLogger *log.Logger
	files      []*os.File
	mu         sync.Mutex
}

// Field is one key/value pair of an edit record
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Init initializes the global logger instance, writing into dir
func Init(dir string) error {
	var err error
	once.Do(func() {
		instance, err = newLogger(dir)
	})
	return err
}

func newLogger(dir string) (*Logger, error) {
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := openAppend(filepath.Join(dir, "vellum.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	editFile, err := openAppend(filepath.Join(dir, "edits.log"))
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to open edit log file: %w", err)
	}

	return &Logger{
		fileLogger: log.New(logFile, "", log.LstdFlags|log.Lshortfile),
		editLogger: log.New(editFile, "", log.LstdFlags),
		files:      []*os.File{logFile, editFile},
	}, nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func Info(format string, args ...interface{})  { write("INFO", format, args...) }
func Warn(format string, args ...interface{})  { write("WARN", format, args...) }
func Error(format string, args ...interface{}) { write("ERROR", format, args...) }
func Debug(format string, args ...interface{}) { write("DEBUG", format, args...) }

func write(level, format string, args ...interface{}) {
	if instance == nil {
		return
	}
	instance.mu.Lock()
	defer instance.mu.Unlock()
	// depth 3 reports the caller of Info/Warn/Error/Debug
	instance.fileLogger.Output(3, "["+level+"] "+fmt.Sprintf(format, args...))
}

// Edit appends one record to the edit log as "[event] key=value ...".
// String values are quoted so patches and removed text stay on one line.
func Edit(event string, fields ...Field) {
	if instance == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString("[" + event + "]")
	for _, f := range fields {
		sb.WriteString(" " + f.Key + "=")
		switch v := f.Value.(type) {
		case string:
			sb.WriteString(fmt.Sprintf("%q", v))
		case fmt.Stringer:
			sb.WriteString(v.String())
		default:
			sb.WriteString(fmt.Sprintf("%v", v))
		}
	}

	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.editLogger.Print(sb.String())
}

// Close closes both log files
func Close() error {
	if instance == nil {
		return nil
	}
	var errs []error
	for _, f := range instance.files {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

// SetOutput allows changing the output destination (useful for testing)
func SetOutput(w io.Writer) {
	if instance != nil {
		instance.mu.Lock()
		defer instance.mu.Unlock()
		instance.fileLogger.SetOutput(w)
	}
}

// SetEditOutput redirects the edit log
func SetEditOutput(w io.Writer) {
	if instance != nil {
		instance.mu.Lock()
		defer instance.mu.Unlock()
		instance.editLogger.SetOutput(w)
	}
}
