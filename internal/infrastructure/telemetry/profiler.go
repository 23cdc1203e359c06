package telemetry

import (
	"fmt"
	"os"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// Profiler is a continuous profiling session. A disabled profiler is a no-op.
type Profiler struct {
	session *pyroscope.Profiler
}

// NewProfiler starts pushing CPU, allocation and goroutine profiles to Pyroscope
func NewProfiler(cfg Config, logger *zap.Logger) (*Profiler, error) {
	if !cfg.ProfilingEnabled {
		return &Profiler{}, nil
	}
	if cfg.PyroscopeAddress == "" {
		return nil, fmt.Errorf("pyroscope address is required when profiling is enabled")
	}

	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}

	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.PyroscopeAddress,
		Logger:          pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:            tags,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}
	logger.Info("Profiler started", zap.String("server_address", cfg.PyroscopeAddress))
	return &Profiler{session: session}, nil
}

// Enabled reports whether profiles are being pushed
func (p *Profiler) Enabled() bool {
	return p.session != nil
}

// Stop flushes and ends the session
func (p *Profiler) Stop() error {
	if p.session == nil {
		return nil
	}
	return p.session.Stop()
}

type pyroscopeLogger struct {
	s *zap.SugaredLogger
}

func (l pyroscopeLogger) Infof(format string, args ...any)  { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }
