package sink

import (
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/sinklog/core"
)

// LumberjackConfig mirrors lumberjack.Logger's rotation settings
type LumberjackConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	LocalTime  bool
}

// Lumberjack delegates size and age based rotation, backup pruning and gzip
// compression to lumberjack
type Lumberjack struct {
	base
	logger *lumberjack.Logger
}

// NewLumberjack returns a sink writing through a lumberjack.Logger
func NewLumberjack(cfg LumberjackConfig, opts ...Option) (*Lumberjack, error) {
	if cfg.Filename == "" {
		return nil, core.Errorf(core.ErrInvalidConfig, "lumberjack sink: filename cannot be empty")
	}
	if cfg.MaxSizeMB < 0 || cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return nil, core.Errorf(core.ErrInvalidConfig, "lumberjack sink: limits cannot be negative")
	}
	o := newOptions(opts)
	s := &Lumberjack{
		logger: &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		},
	}
	s.init(o)
	return s, nil
}

// Log formats and writes rec; lumberjack rotates before an oversized write
func (s *Lumberjack) Log(rec core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.logger.Write(s.formatter.Format(rec)); err != nil {
		return core.Errorf(core.ErrWriteFailed, "lumberjack write %s: %w", s.logger.Filename, err)
	}
	return nil
}

// Flush is a no-op, lumberjack writes straight to the file
func (s *Lumberjack) Flush() error {
	return nil
}

// Rotate closes the current file, moves it aside and opens a new one
func (s *Lumberjack) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.logger.Rotate(); err != nil {
		return core.Errorf(core.ErrRotateFailed, "lumberjack rotate %s: %w", s.logger.Filename, err)
	}
	return nil
}

// Close closes the current file
func (s *Lumberjack) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger.Close()
}
