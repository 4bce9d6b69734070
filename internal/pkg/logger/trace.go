package logger

import (
	"context"
	log "log/slog"
	"strings"
)

// TraceIDKey 定义 Context 中的 Key
const TraceIDKey = "trace_id"

// JobTracePrefix 定时任务生成的 trace_id 前缀
const JobTracePrefix = "job-"

// ContextHandler 从 ctx 中提取 trace_id，并标出日志来自 HTTP 请求还是定时任务
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
			source := "http"
			if strings.HasPrefix(traceID, JobTracePrefix) {
				source = "job"
			}
			r.AddAttrs(log.String(TraceIDKey, traceID), log.String("source", source))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
