package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, failures at warn.
// It implements GraphHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnCompileStart(_ context.Context, target string, nodeCount int) {
	h.logger.Debug("compile start", "target", target, "nodes", nodeCount)
}

func (h *LogHooks) OnCompileComplete(_ context.Context, target string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("compile failed", "target", target, "duration", d, "err", err)
		return
	}
	h.logger.Debug("compile done", "target", target, "duration", d)
}

func (h *LogHooks) OnEvalStart(_ context.Context, node string) {
	h.logger.Debug("evaluate start", "node", node)
}

func (h *LogHooks) OnEvalComplete(_ context.Context, node string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("evaluate failed", "node", node, "duration", d, "err", err)
		return
	}
	h.logger.Debug("evaluate done", "node", node, "duration", d)
}

func (h *LogHooks) OnValidate(_ context.Context, target string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("shader invalid", "target", target, "duration", d, "err", err)
		return
	}
	h.logger.Debug("shader valid", "target", target, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ GraphHooks = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)
