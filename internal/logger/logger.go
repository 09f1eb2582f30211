// Copyright 2023 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger is the structured logger every package in this module
// writes through: a slog.Logger whose handler renders either plain text or
// JSON, and whose output is a rotated file when one is configured. The
// file-rotation policy is carried by gopkg.in/natefinch/lumberjack.v2.
package logger

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/free5lot-go/catalogfs/cfg"
)

// slog level values for catalogfs's five severities. TRACE sits below
// slog's built-in Debug so it can be filtered out independently of it.
const (
	LevelTrace slog.Level = -8
	LevelDebug slog.Level = slog.LevelDebug
	LevelInfo  slog.Level = slog.LevelInfo
	LevelWarn  slog.Level = slog.LevelWarn
	LevelError slog.Level = slog.LevelError
	LevelOff   slog.Level = 100
)

// asyncLoggerBufferSize bounds how many pending log lines InitLogFile's
// AsyncLogger holds before it starts dropping them rather than blocking
// the FUSE op that triggered the log call.
const asyncLoggerBufferSize = 256

var severityNames = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARNING",
	LevelError: "ERROR",
}

type loggerFactory struct {
	file            *lumberjack.Logger
	sysWriter       io.Writer
	format          string
	level           cfg.LogSeverity
	logRotateConfig cfg.LogRotateLoggingConfig
}

var defaultLoggerFactory = &loggerFactory{
	sysWriter: os.Stderr,
	format:    "text",
	level:     cfg.InfoLogSeverity,
}

var defaultLogger = slog.New(
	defaultLoggerFactory.createJsonOrTextHandler(os.Stderr, programLevelFor(cfg.InfoLogSeverity), ""),
)

func programLevelFor(severity cfg.LogSeverity) *slog.LevelVar {
	v := new(slog.LevelVar)
	setLoggingLevel(severity, v)
	return v
}

// InitLogFile points the default logger at a rotated file and applies its
// format and severity.
func InitLogFile(logConfig cfg.LoggingConfig) error {
	factory := &loggerFactory{
		format:          logConfig.Format,
		level:           logConfig.Severity,
		logRotateConfig: logConfig.LogRotate,
		sysWriter:       os.Stderr,
	}

	var writer io.Writer = os.Stderr
	if logConfig.FilePath != "" {
		factory.file = &lumberjack.Logger{
			Filename:   string(logConfig.FilePath),
			MaxSize:    logConfig.LogRotate.MaxFileSizeMb,
			MaxBackups: logConfig.LogRotate.BackupFileCount,
			Compress:   logConfig.LogRotate.Compress,
		}
		writer = NewAsyncLogger(factory.file, asyncLoggerBufferSize)
	}

	defaultLoggerFactory = factory
	defaultLogger = slog.New(
		factory.createJsonOrTextHandler(writer, programLevelFor(factory.level), ""),
	)
	return nil
}

// SetLogFormat switches the default logger's render format ("json", with
// anything else treated as "text") without touching its destination or
// level.
func SetLogFormat(format string) {
	defaultLoggerFactory.format = format

	var writer io.Writer = defaultLoggerFactory.sysWriter
	if h, ok := defaultLogger.Handler().(*prefixHandler); ok {
		writer = h.w
	} else if defaultLoggerFactory.file != nil {
		writer = defaultLoggerFactory.file
	}

	defaultLogger = slog.New(
		defaultLoggerFactory.createJsonOrTextHandler(writer, programLevelFor(defaultLoggerFactory.level), ""),
	)
}

func setLoggingLevel(severity cfg.LogSeverity, programLevel *slog.LevelVar) {
	switch severity {
	case cfg.TraceLogSeverity:
		programLevel.Set(LevelTrace)
	case cfg.DebugLogSeverity:
		programLevel.Set(LevelDebug)
	case cfg.InfoLogSeverity:
		programLevel.Set(LevelInfo)
	case cfg.WarningLogSeverity:
		programLevel.Set(LevelWarn)
	case cfg.ErrorLogSeverity:
		programLevel.Set(LevelError)
	default:
		programLevel.Set(LevelOff)
	}
}

// createJsonOrTextHandler builds the slog.Handler a logger writes through.
// Text format renders time="..." severity=LEVEL message="prefix: text";
// JSON renders {"timestamp":{"seconds":N,"nanos":N},"severity":"...",
// "message":"prefix: text"} — both formats are pinned down directly by
// logger_test.go.
func (f *loggerFactory) createJsonOrTextHandler(w io.Writer, programLevel *slog.LevelVar, prefix string) slog.Handler {
	return &prefixHandler{
		prefix: prefix,
		json:   f.format == "json",
		w:      w,
		level:  programLevel,
	}
}

// prefixHandler is a minimal slog.Handler: it renders exactly the shape
// catalogfs's two log formats need, nothing more — every call site here
// logs a single formatted message with no structured attributes, so the
// full slog attribute/group machinery has nothing to do.
type prefixHandler struct {
	prefix string
	json   bool
	w      io.Writer
	level  *slog.LevelVar
}

func (h *prefixHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prefixHandler) Handle(_ context.Context, r slog.Record) error {
	severity := severityName(r.Level)
	msg := r.Message
	if h.prefix != "" {
		msg = h.prefix + msg
	}

	var line string
	if h.json {
		line = fmt.Sprintf("{\"timestamp\":{\"seconds\":%d,\"nanos\":%d},\"severity\":%q,\"message\":%q}\n",
			r.Time.Unix(), r.Time.Nanosecond(), severity, msg)
	} else {
		line = fmt.Sprintf("time=%q severity=%s message=%q\n",
			r.Time.Format("2006/01/02 15:04:05.000000"), severity, msg)
	}

	_, err := io.WriteString(h.w, line)
	return err
}

func (h *prefixHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *prefixHandler) WithGroup(_ string) slog.Handler      { return h }

func severityName(level slog.Level) string {
	if name, ok := severityNames[level]; ok {
		return name
	}
	return level.String()
}

func logAt(level slog.Level, format string, args ...interface{}) {
	defaultLogger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

func Tracef(format string, v ...interface{}) { logAt(LevelTrace, format, v...) }
func Debugf(format string, v ...interface{}) { logAt(LevelDebug, format, v...) }
func Infof(format string, v ...interface{})  { logAt(LevelInfo, format, v...) }
func Warnf(format string, v ...interface{})  { logAt(LevelWarn, format, v...) }
func Errorf(format string, v ...interface{}) { logAt(LevelError, format, v...) }

// legacyWriter adapts the default slog logger to io.Writer so it can back a
// stdlib *log.Logger, which is what jacobsa/fuse's MountConfig.ErrorLogger
// and DebugLogger expect. Used in cmd/mount.go to route fuse's own
// internal logging through this package instead of straight to stderr.
type legacyWriter struct {
	level slog.Level
}

func (w legacyWriter) Write(p []byte) (int, error) {
	msg := string(p)
	for len(msg) > 0 && (msg[len(msg)-1] == '\n' || msg[len(msg)-1] == '\r') {
		msg = msg[:len(msg)-1]
	}
	logAt(w.level, "%s", msg)
	return len(p), nil
}

// NewLegacyLogger returns a stdlib *log.Logger that forwards every line it's
// given to the default slog logger at the given level, with prefix and
// name folded into the message instead of stdlib's own header format.
func NewLegacyLogger(level slog.Level, prefix, name string) *stdlog.Logger {
	return stdlog.New(legacyWriter{level: level}, prefix+name+": ", 0)
}
