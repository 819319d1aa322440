package logflags

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Flags struct {
	Level   zapcore.Level
	Mode    string
	Path    string
	MaxSize int
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.Level = zapcore.InfoLevel
	fs.Var(&f.Level, "log.level", "logging level (debug, info, warn, or error)")
	fs.StringVar(&f.Mode, "log.mode", "auto", "log encoding (auto, console, or json)")
	fs.StringVar(&f.Path, "log.path", "", "path of rotated log file (stderr if unset)")
	fs.IntVar(&f.MaxSize, "log.maxsize", 100, "size in megabytes at which the log file is rotated")
}

// Open returns a logger writing to the log file or to stderr.  In auto mode
// the logger writes colored console output to a terminal and JSON
// otherwise.
func (f *Flags) Open() (*zap.Logger, error) {
	if f.Path != "" {
		w := &lumberjack.Logger{
			Filename:   f.Path,
			MaxSize:    f.MaxSize,
			MaxBackups: 3,
		}
		return f.newLogger(zapcore.AddSync(w), false)
	}
	return f.newLogger(zapcore.Lock(os.Stderr), term.IsTerminal(int(os.Stderr.Fd())))
}

func (f *Flags) newLogger(w zapcore.WriteSyncer, terminal bool) (*zap.Logger, error) {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch f.Mode {
	case "console":
		enc = zapcore.NewConsoleEncoder(cfg)
	case "json":
		enc = zapcore.NewJSONEncoder(cfg)
	case "auto", "":
		if terminal {
			cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
			enc = zapcore.NewConsoleEncoder(cfg)
		} else {
			enc = zapcore.NewJSONEncoder(cfg)
		}
	default:
		return nil, fmt.Errorf("unknown log mode %q", f.Mode)
	}
	return zap.New(zapcore.NewCore(enc, w, f.Level)), nil
}
