package log

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	base  *zap.Logger
	sugar *zap.SugaredLogger
)

// Conf holds logger configuration options.
type Conf struct {
	Output     string // "stdout" or "file"
	Path       string
	Filename   string
	Level      string
	KeepDays   int // days to keep rotated files
	RotateSize int // max size per file in MB
	RotateNum  int // rotated files to keep
}

// SetDefaults returns the default logger configuration.
func SetDefaults() *Conf {
	return &Conf{
		Output:     "stdout",
		Path:       "./logs",
		Filename:   "draftpad.log",
		Level:      "INFO",
		KeepDays:   7,
		RotateSize: 100,
		RotateNum:  10,
	}
}

// Validate checks the configuration and fills file-rotation defaults.
func (c *Conf) Validate() error {
	if c.Output == "file" {
		if c.Path == "" {
			return fmt.Errorf("log path is required when output is 'file'")
		}
		if c.RotateSize <= 0 {
			c.RotateSize = 100
		}
		if c.RotateNum <= 0 {
			c.RotateNum = 10
		}
		if c.KeepDays <= 0 {
			c.KeepDays = 7
		}
	}
	return nil
}

// NewLog initializes the logger and installs it as the package default.
func NewLog(conf *Conf) (*zap.Logger, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log config: %w", err)
	}

	var writeSyncer zapcore.WriteSyncer
	switch conf.Output {
	case "file":
		writeSyncer = getFileLogWriter(conf)
	default:
		writeSyncer = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(getEncoder(), writeSyncer, parseLogLevel(conf.Level))
	newLogger := zap.New(core, zap.AddCallerSkip(1), zap.AddCaller())

	mu.Lock()
	base = newLogger
	sugar = newLogger.Sugar()
	mu.Unlock()

	return newLogger, nil
}

// Init initializes the package default logger.
func Init(conf *Conf) error {
	_, err := NewLog(conf)
	return err
}

// GetLogger returns the package default sugared logger.
func GetLogger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if sugar == nil {
		return zap.NewNop().Sugar()
	}
	return sugar
}

func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.LevelKey = "level"
	encoderConfig.CallerKey = "caller"
	encoderConfig.MessageKey = "msg"
	encoderConfig.StacktraceKey = "stacktrace"
	encoderConfig.LineEnding = zapcore.DefaultLineEnding
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = customTimeEncoder
	encoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05"))
}

func Debug(args ...any)                       { GetLogger().Debug(args...) }
func Debugf(format string, args ...any)       { GetLogger().Debugf(format, args...) }
func Debugw(msg string, keysAndValues ...any) { GetLogger().Debugw(msg, keysAndValues...) }
func Info(args ...any)                        { GetLogger().Info(args...) }
func Infof(format string, args ...any)        { GetLogger().Infof(format, args...) }
func Infow(msg string, keysAndValues ...any)  { GetLogger().Infow(msg, keysAndValues...) }
func Warn(args ...any)                        { GetLogger().Warn(args...) }
func Warnf(format string, args ...any)        { GetLogger().Warnf(format, args...) }
func Error(args ...any)                       { GetLogger().Error(args...) }
func Errorf(format string, args ...any)       { GetLogger().Errorf(format, args...) }
func Errorw(msg string, keysAndValues ...any) { GetLogger().Errorw(msg, keysAndValues...) }
