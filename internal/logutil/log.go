package logutil

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sobadon/sktv/internal/errutil"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// debug, info, warn, error
	Level string

	// 空なら stderr のみ
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// package 変数として NewLogger() されたものも Setup 後の出力先に追従させるため
type switchWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

var output = &switchWriter{w: os.Stderr}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func init() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	zerolog.CallerMarshalFunc = func(file string, line int) string {
		filename := filepath.Base(file)
		return filename + ":" + strconv.Itoa(line)
	}
}

func NewLogger() zerolog.Logger {
	return zerolog.New(output).With().Timestamp().Caller().Logger()
}

// ログレベルと出力先を差し替える
// File が指定されていれば lumberjack でローテーションしつつ stderr にも出す
func Setup(opts Options) (io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		return nil, errors.Wrapf(errutil.ErrConfig, "invalid log level: %q", opts.Level)
	}
	zerolog.SetGlobalLevel(level)

	if opts.File == "" {
		output.set(os.Stderr)
		return nopCloser{}, nil
	}

	rotate := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}
	output.set(io.MultiWriter(os.Stderr, rotate))
	return rotate, nil
}
