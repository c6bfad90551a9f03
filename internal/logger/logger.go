package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogEntry represents a single log record.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Logger    string         `json:"logger,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

var (
	mu          sync.RWMutex
	logEntries  []LogEntry
	maxEntries  = 1000                   // Keep last 1000 in memory
	maxFileSize = int64(5 * 1024 * 1024) // 5MB limit
	logFilePath string
	logFile     *os.File
	logChan     = make(chan LogEntry, 100)
	done        chan struct{}
	workerDone  chan struct{}
	subscribers = make(map[chan LogEntry]bool)
	subsMu      sync.RWMutex

	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	zapMu  sync.RWMutex
	zapLog = zap.New(&ringCore{})

	// npm automation/publish tokens and bearer credentials
	npmTokenRegex = regexp.MustCompile(`npm_[A-Za-z0-9]{36}`)
	bearerRegex   = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/=-]+`)
)

// Init opens the log file under appDir/logs and routes L() to the ring
// buffer, the file and stderr.
func Init(appDir string) error {
	mu.Lock()
	defer mu.Unlock()

	logDir := filepath.Join(appDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFileName := fmt.Sprintf("%s-stackcart.log", time.Now().Format("20060102"))
	logFilePath = filepath.Join(logDir, logFileName)

	f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	logFile = f

	done = make(chan struct{})
	workerDone = make(chan struct{})
	go logWorker(done, workerDone)

	console := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	zapMu.Lock()
	zapLog = zap.New(zapcore.NewTee(&ringCore{file: true}, console))
	zapMu.Unlock()

	return nil
}

// L returns the process logger. Before Init it only feeds the in-memory ring.
func L() *zap.Logger {
	zapMu.RLock()
	defer zapMu.RUnlock()
	return zapLog
}

// SetLevel changes the minimum level, e.g. "debug" or "warn".
func SetLevel(name string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	level.SetLevel(lvl)
	return nil
}

// Redact masks registry credentials in s.
func Redact(s string) string {
	s = npmTokenRegex.ReplaceAllString(s, "npm_REDACTED")
	return bearerRegex.ReplaceAllString(s, "Bearer REDACTED")
}

func record(entry LogEntry, toFile bool) {
	mu.Lock()
	logEntries = append(logEntries, entry)
	if len(logEntries) > maxEntries {
		logEntries = logEntries[len(logEntries)-maxEntries:]
	}
	mu.Unlock()

	if toFile {
		select {
		case logChan <- entry:
		default:
			// Drop log if channel is full to avoid blocking
		}
	}

	subsMu.RLock()
	for sub := range subscribers {
		select {
		case sub <- entry:
		default:
			// Drop if subscriber is slow
		}
	}
	subsMu.RUnlock()
}

// Subscribe returns a channel that receives new log entries.
func Subscribe() chan LogEntry {
	subsMu.Lock()
	defer subsMu.Unlock()
	ch := make(chan LogEntry, 100)
	subscribers[ch] = true
	return ch
}

// Unsubscribe removes a log subscriber.
func Unsubscribe(ch chan LogEntry) {
	subsMu.Lock()
	defer subsMu.Unlock()
	if subscribers[ch] {
		delete(subscribers, ch)
		close(ch)
	}
}

// GetLogs returns all logs currently in memory.
func GetLogs() []LogEntry {
	mu.RLock()
	defer mu.RUnlock()

	res := make([]LogEntry, len(logEntries))
	copy(res, logEntries)
	return res
}

// ClearLogs wipes both memory and file logs.
func ClearLogs() error {
	mu.Lock()
	defer mu.Unlock()

	logEntries = []LogEntry{}

	if logFile == nil {
		return nil
	}
	logFile.Close()

	f, err := os.OpenFile(logFilePath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	logFile = f

	return nil
}

// GetLogFilePath returns the path to the log file.
func GetLogFilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	return logFilePath
}

// Close flushes and closes the log file. L() keeps feeding the ring.
func Close() {
	zapMu.Lock()
	_ = zapLog.Sync()
	zapLog = zap.New(&ringCore{})
	zapMu.Unlock()

	mu.Lock()
	d, wd := done, workerDone
	done, workerDone = nil, nil
	mu.Unlock()

	if d != nil {
		close(d)
		<-wd
	}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func logWorker(done, workerDone chan struct{}) {
	defer close(workerDone)
	for {
		select {
		case entry := <-logChan:
			writeEntry(entry)
		case <-done:
			for {
				select {
				case entry := <-logChan:
					writeEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func writeEntry(entry LogEntry) {
	mu.Lock()
	defer mu.Unlock()

	f := logFile
	if f == nil {
		return
	}

	// Truncate once the file outgrows the limit
	if info, err := f.Stat(); err == nil && info.Size() > maxFileSize {
		f.Close()
		f, err = os.OpenFile(logFilePath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			logFile = nil
			return
		}
		logFile = f
		truncateEntry := LogEntry{
			Timestamp: time.Now().Format(time.RFC3339),
			Level:     "INFO",
			Message:   "Log file reached 5MB limit and was truncated.",
		}
		data, _ := json.Marshal(truncateEntry)
		f.Write(append(data, '\n'))
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	f.Write(append(data, '\n'))
}

// ringCore is a zapcore.Core writing into the ring buffer, the subscribers
// and, when file is set, the log file.
type ringCore struct {
	fields []zapcore.Field
	file   bool
}

func (c *ringCore) Enabled(l zapcore.Level) bool {
	return level.Enabled(l) || l >= zapcore.InfoLevel
}

func (c *ringCore) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return c
	}
	combined := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	combined = append(combined, c.fields...)
	combined = append(combined, fields...)
	return &ringCore{fields: combined, file: c.file}
}

func (c *ringCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *ringCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	encoder := zapcore.NewMapObjectEncoder()
	for _, field := range c.fields {
		field.AddTo(encoder)
	}
	for _, field := range fields {
		field.AddTo(encoder)
	}

	var data map[string]any
	if len(encoder.Fields) > 0 {
		data = make(map[string]any, len(encoder.Fields))
		for k, v := range encoder.Fields {
			if s, ok := v.(string); ok {
				v = Redact(s)
			}
			data[k] = v
		}
	}

	record(LogEntry{
		Timestamp: entry.Time.Format(time.RFC3339),
		Level:     strings.ToUpper(entry.Level.String()),
		Logger:    entry.LoggerName,
		Message:   Redact(entry.Message),
		Fields:    data,
	}, c.file)
	return nil
}

func (c *ringCore) Sync() error {
	return nil
}

var _ zapcore.Core = (*ringCore)(nil)
