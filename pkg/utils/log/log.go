// Package log 提供全局日志记录器的初始化和获取功能
// 使用 zerolog 作为日志库，支持控制台、文件（lumberjack 轮转）或两者同时输出
// 控制台日志写入 stderr，stdout 只留给扫描报告
package log

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/yeisme/codescope/pkg/configs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 定义全局日志记录器类型
type Logger = *zerolog.Logger

var (
	globalLogger Logger
	mu           sync.RWMutex
)

// InitLogger 初始化日志记录器
// 优先级：quiet > debug > verbose > config.Level
func InitLogger(ctx context.Context, config *configs.LogConfig, appConfig *configs.AppConfig) Logger {
	if appConfig.Quiet {
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	} else if appConfig.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if appConfig.Verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(ParseLevel(config.Level))
	}

	var writers []io.Writer
	switch strings.ToLower(config.Mode) {
	case "file":
		writers = append(writers, createFileWriter(config))
	case "both":
		writers = append(writers, createConsoleWriter(config.JSON), createFileWriter(config))
	default:
		writers = append(writers, createConsoleWriter(config.JSON))
	}

	var output io.Writer
	if len(writers) == 1 {
		output = writers[0]
	} else {
		output = io.MultiWriter(writers...)
	}

	var logger zerolog.Logger
	if appConfig.Debug {
		logger = zerolog.New(output).With().Caller().
			Str("app", appConfig.Name).
			Ctx(ctx).Timestamp().Logger()
	} else {
		logger = zerolog.New(output).With().Timestamp().Logger()
	}

	set(&logger)
	return &logger
}

// SetLogger 替换全局日志记录器，主要用于测试中捕获日志
func SetLogger(l zerolog.Logger) {
	set(&l)
}

func set(l Logger) {
	mu.Lock()
	globalLogger = l
	log.Logger = *l
	mu.Unlock()
}

// createConsoleWriter 创建控制台输出写入器
func createConsoleWriter(useJSON bool) io.Writer {
	if useJSON {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

// createFileWriter 创建文件输出写入器，目录无法创建时回退到 stderr
func createFileWriter(config *configs.LogConfig) io.Writer {
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0o755); err != nil {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,    // megabytes
		MaxBackups: config.MaxBackups, // 保留备份数量
		MaxAge:     config.MaxAge,     // days
		Compress:   true,
	}
}

// GetLogger 获取全局日志记录器
// 未初始化时（例如作为库使用）返回一个只输出 warn 及以上级别到 stderr 的记录器
func GetLogger() Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	fallback := zerolog.New(createConsoleWriter(false)).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	set(&fallback)
	return &fallback
}

// ParseLevel 解析日志级别，无法识别时返回 info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithFields 带字段的日志记录
func WithFields(fields map[string]any) Logger {
	event := GetLogger().With()
	for key, value := range fields {
		event = event.Interface(key, value)
	}
	result := event.Logger()
	return &result
}

// Debug 创建一个 Debug 级别的日志事件
func Debug() *zerolog.Event {
	return GetLogger().Debug()
}

// Info 创建一个 Info 级别的日志事件
func Info() *zerolog.Event {
	return GetLogger().Info()
}

// Warn 创建一个 Warn 级别的日志事件
func Warn() *zerolog.Event {
	return GetLogger().Warn()
}

// Error 创建一个 Error 级别的日志事件
func Error() *zerolog.Event {
	return GetLogger().Error()
}

// Fatal 创建一个 Fatal 级别的日志事件
func Fatal() *zerolog.Event {
	return GetLogger().Fatal()
}
