// FILE: lixenwraith/sinklog/builder.go
package log

import (
	"path/filepath"
	"time"

	"github.com/lixenwraith/sinklog/core"
	"github.com/lixenwraith/sinklog/formatter"
	"github.com/lixenwraith/sinklog/queue"
	"github.com/lixenwraith/sinklog/sanitizer"
	"github.com/lixenwraith/sinklog/sink"
)

// Builder provides a fluent API for building a configured logger.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg      *Config
	registry *Registry
	sinks    []sink.Sink
	err      error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates the sinks described by the configuration and a logger
// registered in the builder's registry (the default registry unless set).
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	r := b.registry
	if r == nil {
		r = DefaultRegistry()
	}
	return newFromConfig(r, b.cfg, b.sinks)
}

// Config returns a validated copy of the accumulated configuration
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return b.cfg.Clone(), nil
}

// Registry sets the registry the logger is created in.
func (b *Builder) Registry(r *Registry) *Builder {
	b.registry = r
	return b
}

// FromConfig replaces the accumulated configuration with a copy of cfg.
func (b *Builder) FromConfig(cfg *Config) *Builder {
	b.cfg = cfg.Clone()
	return b
}

// Override applies "key=value" overrides.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	cfg, err := b.cfg.ApplyOverride(overrides...)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg = cfg
	return b
}

// Sink adds a caller constructed sink next to the configured ones.
func (b *Builder) Sink(s sink.Sink) *Builder {
	b.sinks = append(b.sinks, s)
	return b
}

// Name sets the logger name.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Level sets the log level.
func (b *Builder) Level(level core.Level) *Builder {
	b.cfg.Level = level.String()
	return b
}

// LevelString sets the log level from a string.
func (b *Builder) LevelString(level string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := core.ParseLevel(level); err != nil {
		b.err = err
		return b
	}
	b.cfg.Level = level
	return b
}

// FlushLevel sets the automatic flush level.
func (b *Builder) FlushLevel(level core.Level) *Builder {
	b.cfg.FlushLevel = level.String()
	return b
}

// Format sets the output format.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// Async enables dispatch through the registry pool.
func (b *Builder) Async(async bool) *Builder {
	b.cfg.Async = async
	return b
}

// QueueSize sets the pool queue capacity.
func (b *Builder) QueueSize(size int64) *Builder {
	b.cfg.QueueSize = size
	return b
}

// Workers sets the number of pool workers.
func (b *Builder) Workers(n int64) *Builder {
	b.cfg.Workers = n
	return b
}

// OverflowPolicy sets the full queue behavior.
func (b *Builder) OverflowPolicy(policy queue.OverflowPolicy) *Builder {
	b.cfg.OverflowPolicy = policy.String()
	return b
}

// FileMode selects the file sink.
func (b *Builder) FileMode(mode string) *Builder {
	b.cfg.FileMode = mode
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// FileName sets the base file name.
func (b *Builder) FileName(name string) *Builder {
	b.cfg.FileName = name
	return b
}

// Extension sets the file extension, without the dot.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// MaxSizeKB sets the maximum log file size in KB.
func (b *Builder) MaxSizeKB(size int64) *Builder {
	b.cfg.MaxSizeKB = size
	return b
}

// MaxSizeMB sets the maximum log file size in MB. Convenience.
func (b *Builder) MaxSizeMB(size int64) *Builder {
	b.cfg.MaxSizeKB = size * sizeMultiplier
	return b
}

// MaxFiles sets the number of kept backups or bucket files.
func (b *Builder) MaxFiles(n int64) *Builder {
	b.cfg.MaxFiles = n
	return b
}

// EnableConsole enables mirroring logs to stdout/stderr.
func (b *Builder) EnableConsole(enable bool) *Builder {
	b.cfg.EnableConsole = enable
	return b
}

// FlushIntervalMs sets the periodic flush interval of the registry.
func (b *Builder) FlushIntervalMs(interval int64) *Builder {
	b.cfg.FlushIntervalMs = interval
	return b
}

// HeartbeatIntervalS sets the heartbeat interval.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// NewFromConfig builds the sinks described by cfg and creates a logger in r.
// Async configurations create the registry pool from cfg if r has none.
func NewFromConfig(r *Registry, cfg *Config) (*Logger, error) {
	return newFromConfig(r, cfg, nil)
}

func newFromConfig(r *Registry, cfg *Config, extra []sink.Sink) (*Logger, error) {
	if cfg == nil {
		return nil, invalidConfig("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	SetInternalErrorsToStderr(cfg.InternalErrorsToStderr)

	sinks, err := cfg.NewSinks()
	if err != nil {
		return nil, err
	}
	sinks = append(sinks, extra...)

	var l *Logger
	if cfg.Async {
		if err = r.ensurePool(cfg.PoolConfig()); err == nil {
			l, err = r.CreateAsync(cfg.Name, sinks, cfg.LoggerOptions()...)
		}
	} else {
		l, err = r.Create(cfg.Name, sinks, cfg.LoggerOptions()...)
	}
	if err != nil {
		closeSinks(sinks[:len(sinks)-len(extra)])
		return nil, err
	}

	if cfg.FlushIntervalMs > 0 {
		r.FlushEvery(time.Duration(cfg.FlushIntervalMs) * time.Millisecond)
	}
	if cfg.HeartbeatIntervalS > 0 {
		if err := r.StartHeartbeat(time.Duration(cfg.HeartbeatIntervalS)*time.Second, l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// PoolConfig returns the pool parameters of an async configuration
func (c *Config) PoolConfig() PoolConfig {
	policy, _ := queue.ParsePolicy(c.OverflowPolicy)
	return PoolConfig{
		QueueSize:    int(c.QueueSize),
		Workers:      int(c.Workers),
		Policy:       policy,
		BlockTimeout: time.Duration(c.BlockTimeoutMs) * time.Millisecond,
	}
}

// LoggerOptions returns the logger level, flush level and call site options
func (c *Config) LoggerOptions() []LoggerOption {
	level, _ := core.ParseLevel(c.Level)
	flushLevel, _ := core.ParseLevel(c.FlushLevel)
	return []LoggerOption{
		WithLevel(level),
		WithFlushLevel(flushLevel),
		WithCaller(c.Caller),
		WithTraceDepth(int(c.TraceDepth)),
	}
}

// NewFormatter returns a formatter for the configured output settings
func (c *Config) NewFormatter() *formatter.Formatter {
	policy := sanitizer.PolicyPreset(c.Sanitization)
	if policy == "" {
		policy = sanitizer.PolicyPreset(c.Format)
	}
	return formatter.New(sanitizer.ForPolicy(policy)).
		Type(c.Format).
		TimestampFormat(c.TimestampFormat).
		ShowTimestamp(c.ShowTimestamp).
		ShowLevel(c.ShowLevel).
		ShowLogger(c.ShowLogger).
		ShowSource(c.Caller)
}

// FilePath returns the base file path of the file sink
func (c *Config) FilePath() string {
	name := c.FileName
	if c.Extension != "" {
		name += "." + c.Extension
	}
	return filepath.Join(c.Directory, name)
}

// NewSinks opens the file and console sinks the configuration describes.
// Each sink gets its own formatter.
func (c *Config) NewSinks() ([]sink.Sink, error) {
	f := c.NewFormatter()
	opts := func(extra ...sink.Option) []sink.Option {
		return append([]sink.Option{
			sink.WithFormatter(f.Clone()),
			sink.WithLocking(!c.SingleThreaded),
			sink.WithTruncate(c.Truncate),
			sink.WithMaxFiles(int(c.MaxFiles)),
		}, extra...)
	}

	var sinks []sink.Sink
	var (
		s   sink.Sink
		err error
	)
	path := c.FilePath()
	switch c.FileMode {
	case FileModeBasic:
		s, err = sink.NewBasicFile(path, opts()...)
	case FileModeRotating:
		var extra []sink.Option
		if c.RotateOnOpen {
			extra = append(extra, sink.WithRotateOnOpen())
		}
		s, err = sink.NewRotating(path, c.MaxSizeKB*sizeMultiplier, int(c.MaxFiles), opts(extra...)...)
	case FileModeDaily:
		s, err = sink.NewDaily(path, int(c.RotationHour), int(c.RotationMinute), opts()...)
	case FileModeHourly:
		s, err = sink.NewHourly(path, opts()...)
	case FileModeLumberjack:
		s, err = sink.NewLumberjack(sink.LumberjackConfig{
			Filename:   path,
			MaxSizeMB:  int((c.MaxSizeKB + sizeMultiplier - 1) / sizeMultiplier),
			MaxBackups: int(c.MaxFiles),
			MaxAgeDays: int(c.MaxAgeDays),
			Compress:   c.Compress,
			LocalTime:  true,
		}, opts()...)
	}
	if err != nil {
		return nil, err
	}
	if s != nil {
		sinks = append(sinks, s)
	}

	if c.EnableConsole {
		console, err := sink.NewConsole(c.ConsoleTarget, opts()...)
		if err != nil {
			closeSinks(sinks)
			return nil, err
		}
		sinks = append(sinks, console)
	}
	return sinks, nil
}

// closeSinks closes sinks implementing io.Closer, ignoring failures
func closeSinks(sinks []sink.Sink) {
	for _, s := range sinks {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				internalLog("failed to close sink: %v\n", err)
			}
		}
	}
}
