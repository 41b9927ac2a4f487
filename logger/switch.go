package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Switch turns a logger derived with NewSwitch on and off at runtime.
type Switch struct {
	enabled atomic.Bool
}

// NewSwitch returns a copy of log that writes only while the returned Switch
// is enabled. Loggers derived from the copy share the same Switch.
func NewSwitch(log *zap.Logger, enabled bool) (*zap.Logger, *Switch) {
	s := &Switch{}
	s.enabled.Store(enabled)

	gated := log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &switchCore{Core: core, s: s}
	}))
	return gated, s
}

func (s *Switch) Enable(enabled bool) {
	s.enabled.Store(enabled)
}

func (s *Switch) Enabled() bool {
	return s.enabled.Load()
}

type switchCore struct {
	zapcore.Core
	s *Switch
}

func (c *switchCore) Enabled(level zapcore.Level) bool {
	return c.s.Enabled() && c.Core.Enabled(level)
}

func (c *switchCore) With(fields []zapcore.Field) zapcore.Core {
	return &switchCore{Core: c.Core.With(fields), s: c.s}
}

func (c *switchCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.s.Enabled() {
		return checked
	}
	return c.Core.Check(entry, checked)
}
