// Copyright (c) 2021 the tmi-go developers
// released under the MIT license

// Package logger implements the leveled, type-tagged logging used across
// the client. Each configured logger selects which message types it
// captures ("tmi", "caps", "dispatch", ..., or "*") and where they go
// (stdout, stderr, and/or a file).
package logger

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the level to log messages at.
type Level int

const (
	// LogDebug represents debug messages.
	LogDebug Level = iota
	// LogInfo represents informational messages.
	LogInfo
	// LogWarning represents warnings.
	LogWarning
	// LogError represents errors.
	LogError
)

var (
	// LogLevelNames takes a config name and gives the real log level.
	LogLevelNames = map[string]Level{
		"debug":    LogDebug,
		"info":     LogInfo,
		"warn":     LogWarning,
		"warning":  LogWarning,
		"warnings": LogWarning,
		"error":    LogError,
		"errors":   LogError,
	}
	// LogLevelDisplayNames gives the display name to use for our log levels.
	LogLevelDisplayNames = map[Level]string{
		LogDebug:   "debug",
		LogInfo:    "info",
		LogWarning: "warn",
		LogError:   "error",
	}

	// ErrLoggerFilenameMissing indicates a "file" method without a filename.
	ErrLoggerFilenameMissing = errors.New("logging configuration specifies 'file' method but 'filename' is empty")
	// ErrLoggerHasNoTypes indicates a logger that captures nothing.
	ErrLoggerHasNoTypes = errors.New("logger has no types to log")
)

// LoggingConfig represents the configuration of a single logger.
type LoggingConfig struct {
	Method      string
	Filename    string
	TypeString  string `yaml:"type"`
	LevelString string `yaml:"level"`
}

// Manager is the main interface used to log debug/info/error messages.
type Manager struct {
	configMutex     sync.RWMutex
	loggers         []singleLogger
	stdoutWriteLock sync.Mutex // use one lock for both stdout and stderr
	fileWriteLock   sync.Mutex
}

// NewManager returns a new log manager.
func NewManager(config []LoggingConfig) (*Manager, error) {
	var logger Manager

	if err := logger.ApplyConfig(config); err != nil {
		return nil, err
	}

	return &logger, nil
}

// ApplyConfig applies the given config to this logger, replacing any
// loggers from a previous configuration.
func (logger *Manager) ApplyConfig(config []LoggingConfig) error {
	logger.configMutex.Lock()
	defer logger.configMutex.Unlock()

	for _, logger := range logger.loggers {
		logger.Close()
	}

	logger.loggers = nil

	var lastErr error
	for _, logConfig := range config {
		typeMap := make(map[string]bool)
		excludedTypeMap := make(map[string]bool)
		for _, name := range strings.Fields(logConfig.TypeString) {
			if strings.HasPrefix(name, "-") {
				excludedTypeMap[strings.TrimPrefix(name, "-")] = true
			} else {
				typeMap[name] = true
			}
		}
		if len(typeMap) == 0 {
			lastErr = ErrLoggerHasNoTypes
			continue
		}

		level, exists := LogLevelNames[strings.ToLower(logConfig.LevelString)]
		if !exists {
			level = LogInfo
		}

		sLogger := singleLogger{
			Level:           level,
			Types:           typeMap,
			ExcludedTypes:   excludedTypeMap,
			stdoutWriteLock: &logger.stdoutWriteLock,
			fileWriteLock:   &logger.fileWriteLock,
		}
		for _, method := range strings.Fields(strings.ToLower(logConfig.Method)) {
			switch method {
			case "stdout":
				sLogger.MethodSTDOUT = true
			case "stderr":
				sLogger.MethodSTDERR = true
			case "file":
				sLogger.MethodFile.Enabled = true
				sLogger.MethodFile.Filename = logConfig.Filename
			}
		}
		if sLogger.MethodFile.Enabled {
			if sLogger.MethodFile.Filename == "" {
				lastErr = ErrLoggerFilenameMissing
				continue
			}
			file, err := os.OpenFile(sLogger.MethodFile.Filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
			if err != nil {
				lastErr = fmt.Errorf("could not open log file %s [%s]", sLogger.MethodFile.Filename, err.Error())
				continue
			}
			sLogger.MethodFile.File = file
			sLogger.MethodFile.Writer = bufio.NewWriter(file)
		}
		logger.loggers = append(logger.loggers, sLogger)
	}

	return lastErr
}

// Log logs the given message with the given details.
func (logger *Manager) Log(level Level, logType string, messageParts ...string) {
	logger.configMutex.RLock()
	defer logger.configMutex.RUnlock()

	for _, singleLogger := range logger.loggers {
		singleLogger.Log(level, logType, messageParts...)
	}
}

// Debug logs the given message as a debug message.
func (logger *Manager) Debug(logType string, messageParts ...string) {
	logger.Log(LogDebug, logType, messageParts...)
}

// Info logs the given message as an info message.
func (logger *Manager) Info(logType string, messageParts ...string) {
	logger.Log(LogInfo, logType, messageParts...)
}

// Warning logs the given message as a warning message.
func (logger *Manager) Warning(logType string, messageParts ...string) {
	logger.Log(LogWarning, logType, messageParts...)
}

// Error logs the given message as an error message.
func (logger *Manager) Error(logType string, messageParts ...string) {
	logger.Log(LogError, logType, messageParts...)
}

type fileMethod struct {
	Enabled  bool
	Filename string
	File     *os.File
	Writer   *bufio.Writer
}

// singleLogger represents a single logger instance.
type singleLogger struct {
	stdoutWriteLock *sync.Mutex
	fileWriteLock   *sync.Mutex
	MethodSTDOUT    bool
	MethodSTDERR    bool
	MethodFile      fileMethod
	Level           Level
	Types           map[string]bool
	ExcludedTypes   map[string]bool
}

func (logger *singleLogger) Close() error {
	if logger.MethodFile.Enabled {
		flushErr := logger.MethodFile.Writer.Flush()
		closeErr := logger.MethodFile.File.Close()
		if flushErr != nil {
			return flushErr
		}
		return closeErr
	}
	return nil
}

// Log logs the given message with the given details.
func (logger *singleLogger) Log(level Level, logType string, messageParts ...string) {
	// no logging enabled
	if !(logger.MethodSTDOUT || logger.MethodSTDERR || logger.MethodFile.Enabled) {
		return
	}

	// ensure we're logging to the given level
	if level < logger.Level {
		return
	}

	// ensure we're capturing this logType
	capturing := (logger.Types["*"] || logger.Types[logType]) && !logger.ExcludedTypes["*"] && !logger.ExcludedTypes[logType]
	if !capturing {
		return
	}

	// assemble full line
	var rawBuf bytes.Buffer
	// XXX magic number here: 8 is len("dispatch"), the longest log category
	// name in current use. it's not a big deal if this number gets out of date.
	fmt.Fprintf(&rawBuf, "%s : %-5s : %-8s : ", time.Now().UTC().Format("2006-01-02T15:04:05.000Z"), LogLevelDisplayNames[level], logType)
	for i, p := range messageParts {
		rawBuf.WriteString(p)

		if i != len(messageParts)-1 {
			rawBuf.WriteString(" : ")
		}
	}
	rawBuf.WriteRune('\n')

	// output
	if logger.MethodSTDOUT {
		logger.stdoutWriteLock.Lock()
		os.Stdout.Write(rawBuf.Bytes())
		logger.stdoutWriteLock.Unlock()
	}
	if logger.MethodSTDERR {
		logger.stdoutWriteLock.Lock()
		os.Stderr.Write(rawBuf.Bytes())
		logger.stdoutWriteLock.Unlock()
	}
	if logger.MethodFile.Enabled {
		logger.fileWriteLock.Lock()
		logger.MethodFile.Writer.Write(rawBuf.Bytes())
		logger.MethodFile.Writer.Flush()
		logger.fileWriteLock.Unlock()
	}
}
