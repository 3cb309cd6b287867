// Package logger fornece o logger da aplicação: zap com nível ajustável em
// tempo de execução e um histórico em memória das últimas entradas.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultHistorySize = 1000
	DefaultLogsLimit   = 100
)

// Level é o nível mínimo de log aceito.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel aceita exatamente DEBUG, INFO, WARN ou ERROR.
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	}
	return "", fmt.Errorf("invalid log level %q", s)
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Entry é uma linha do histórico em memória.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

// Logger embute *zap.Logger; Debug/Info/Warn/Error vêm dele.
type Logger struct {
	*zap.Logger
	level   zap.AtomicLevel
	history *history
}

type options struct {
	out         io.Writer
	historySize int
	level       Level
}

type Option func(*options)

// WithOutput troca o destino do console (os.Stdout por padrão).
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

func WithHistorySize(n int) Option {
	return func(o *options) { o.historySize = n }
}

func WithLevel(l Level) Option {
	return func(o *options) { o.level = l }
}

// New cria um Logger que escreve no console e no histórico.
func New(opts ...Option) *Logger {
	o := options{out: os.Stdout, historySize: DefaultHistorySize, level: LevelInfo}
	for _, opt := range opts {
		opt(&o)
	}
	if o.historySize <= 0 {
		o.historySize = DefaultHistorySize
	}

	level := zap.NewAtomicLevelAt(o.level.zapLevel())
	hist := &history{max: o.historySize}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	console := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(o.out)), level)

	core := zapcore.NewTee(console, &historyCore{LevelEnabler: level, history: hist})

	return &Logger{
		Logger:  zap.New(core),
		level:   level,
		history: hist,
	}
}

// Nop descarta o console mas mantém o histórico; usado em testes.
func Nop() *Logger {
	return New(WithOutput(io.Discard), WithLevel(LevelDebug))
}

func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level.zapLevel())
}

func (l *Logger) Level() Level {
	switch l.level.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.InfoLevel:
		return LevelInfo
	default:
		return LevelError
	}
}

// Logs devolve as últimas limit entradas, da mais antiga para a mais recente.
func (l *Logger) Logs(limit int) []Entry {
	return l.history.last(limit)
}

func (l *Logger) ClearLogs() {
	l.history.clear()
}

type history struct {
	mu      sync.Mutex
	max     int
	entries []Entry
}

func (h *history) add(e Entry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, e)
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
}

func (h *history) last(limit int) []Entry {
	if limit <= 0 {
		limit = DefaultLogsLimit
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	start := len(h.entries) - limit
	if start < 0 {
		start = 0
	}
	out := make([]Entry, len(h.entries)-start)
	copy(out, h.entries[start:])
	return out
}

func (h *history) clear() {
	h.mu.Lock()
	h.entries = nil
	h.mu.Unlock()
}

// historyCore é um zapcore.Core que grava no histórico em memória.
type historyCore struct {
	zapcore.LevelEnabler
	history *history
	fields  []zapcore.Field
}

func (c *historyCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &historyCore{LevelEnabler: c.LevelEnabler, history: c.history, fields: merged}
}

func (c *historyCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *historyCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	entry := Entry{
		Timestamp: ent.Time.UTC().Format(time.RFC3339Nano),
		Level:     ent.Level.CapitalString(),
		Message:   ent.Message,
	}

	if n := len(c.fields) + len(fields); n > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range c.fields {
			f.AddTo(enc)
		}
		for _, f := range fields {
			f.AddTo(enc)
		}
		entry.Data = enc.Fields
	}

	c.history.add(entry)
	return nil
}

func (c *historyCore) Sync() error { return nil }
