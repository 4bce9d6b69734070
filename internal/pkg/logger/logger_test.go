package logger

import (
	"bytes"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"testing"
)

func TestMaskCommand(t *testing.T) {
	cmd := `{"insert": "groups", "documents": [{"name": "g", "password_hash": "$2a$10$abcdef"}]}`
	got := MaskCommand(cmd)
	if strings.Contains(got, "$2a$10$abcdef") {
		t.Fatalf("digest leaked: %s", got)
	}
	if !strings.Contains(got, "[PROTECTED]") {
		t.Fatalf("expected placeholder, got %s", got)
	}

	long := strings.Repeat("x", maxCommandLength+10)
	if got := MaskCommand(long); !strings.HasSuffix(got, "...[truncated]") {
		t.Fatalf("expected truncation, got len %d", len(got))
	}
}

func TestContextHandlerAddsTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), TraceIDKey, "trace-1")
	l.InfoContext(ctx, "hello")

	if !strings.Contains(buf.String(), `"trace_id":"trace-1"`) {
		t.Fatalf("trace id missing: %s", buf.String())
	}
}

func TestRemoteFilterHandlerDropsUntraced(t *testing.T) {
	var buf bytes.Buffer
	h := &RemoteFilterHandler{next: log.NewJSONHandler(&buf, nil)}
	l := log.New(&ContextHandler{h})

	l.Info("no trace")
	if buf.Len() != 0 {
		t.Fatalf("untraced record forwarded: %s", buf.String())
	}

	l.InfoContext(context.WithValue(context.Background(), TraceIDKey, "t"), "traced")
	if !strings.Contains(buf.String(), "traced") {
		t.Fatalf("traced record dropped")
	}
}

func TestContextHandlerMarksJobSource(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&ContextHandler{log.NewJSONHandler(&buf, nil)}).With("job", "ownership_repair")

	ctx := context.WithValue(context.Background(), TraceIDKey, JobTracePrefix+"ownership-1")
	l.InfoContext(ctx, "repair")

	out := buf.String()
	for _, want := range []string{`"trace_id":"job-ownership-1"`, `"source":"job"`, `"job":"ownership_repair"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %s in %s", want, out)
		}
	}
}

type failingHandler struct {
	log.Handler
}

func (failingHandler) Handle(context.Context, log.Record) error {
	return errors.New("logstash unreachable")
}

func TestTeeHandlerKeepsWritingWhenOneSinkFails(t *testing.T) {
	var local, debug bytes.Buffer
	warnOnly := log.NewJSONHandler(&local, &log.HandlerOptions{Level: log.LevelWarn})
	verbose := log.NewJSONHandler(&debug, &log.HandlerOptions{Level: log.LevelDebug})
	tee := &TeeHandler{handlers: []log.Handler{failingHandler{warnOnly}, warnOnly, verbose}}

	if !tee.Enabled(context.Background(), log.LevelDebug) {
		t.Fatalf("debug should be enabled through the verbose sink")
	}

	l := log.New(tee)
	l.Debug("detail")
	if local.Len() != 0 {
		t.Fatalf("warn-level sink got debug record: %s", local.String())
	}
	if !strings.Contains(debug.String(), "detail") {
		t.Fatalf("verbose sink missed debug record")
	}

	l.Warn("slow query")
	if !strings.Contains(local.String(), "slow query") || !strings.Contains(debug.String(), "slow query") {
		t.Fatalf("warn record not delivered past failing sink")
	}
}

func TestRedisCommandArgs(t *testing.T) {
	if got := commandArgs("auth", []interface{}{"auth", "secret"}); got != "[PROTECTED]" {
		t.Fatalf("auth args = %s", got)
	}
	if got := commandArgs("sadd", []interface{}{"sadd", "ownership:orphan", "post:3:1"}); got != "[sadd ownership:orphan post:3:1]" {
		t.Fatalf("sadd args = %s", got)
	}

	meta := `{"objectName":"images/2026/03/01/x.png","url":"` + strings.Repeat("u", 300) + `"}`
	got := commandArgs("hset", []interface{}{"hset", "image:pending", "images/x.png", meta})
	if !strings.HasSuffix(got, "...[truncated]") || len(got) > maxRedisArgLength+len("...[truncated]") {
		t.Fatalf("hset args not truncated: %d", len(got))
	}
}
