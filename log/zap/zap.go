// Package zap adapts a *zap.Logger to the cache.Logger interface.
package zap

import (
	"go.uber.org/zap"

	"github.com/nlhoang/hybrid-cache/cache"
)

type adapter struct {
	s *zap.SugaredLogger
}

// New wraps l as a cache.Logger. Key-value argument pairs are passed through
// to zap's sugared logger.
func New(l *zap.Logger) cache.Logger {
	return &adapter{s: l.Sugar()}
}

func (a *adapter) Debug(msg string, args ...any) { a.s.Debugw(msg, args...) }
func (a *adapter) Info(msg string, args ...any)  { a.s.Infow(msg, args...) }
func (a *adapter) Warn(msg string, args ...any)  { a.s.Warnw(msg, args...) }
func (a *adapter) Error(msg string, args ...any) { a.s.Errorw(msg, args...) }
