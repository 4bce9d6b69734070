package logger

import (
	"context"
	"fmt"
	log "log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/event"
)

const maxCommandLength = 1000

var digestPattern = regexp.MustCompile(`"password_hash"\s*:\s*"[^"]*"`)

// MaskCommand 截断命令并抹掉其中的密码摘要
func MaskCommand(cmd string) string {
	cmd = digestPattern.ReplaceAllString(cmd, `"password_hash": "[PROTECTED]"`)
	if len(cmd) > maxCommandLength {
		cmd = cmd[:maxCommandLength] + "...[truncated]"
	}
	return cmd
}

func NewMongoMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			log.DebugContext(ctx, "MongoDB Started",
				log.String("command", evt.CommandName),
				log.String("database", evt.DatabaseName),
				log.String("request_id", fmt.Sprintf("%d", evt.RequestID)),
				log.String("cmd_detail", MaskCommand(evt.Command.String())),
			)
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			fields := []any{
				log.String("command", evt.CommandName),
				log.Duration("latency", evt.Duration),
				log.String("request_id", fmt.Sprintf("%d", evt.RequestID)),
			}

			if evt.Duration > 200*time.Millisecond {
				log.WarnContext(ctx, "MongoDB Slow", fields...)
			} else {
				log.DebugContext(ctx, "MongoDB Success", fields...)
			}
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			log.ErrorContext(ctx, "MongoDB Error",
				log.String("command", evt.CommandName),
				log.Duration("latency", evt.Duration),
				log.String("request_id", fmt.Sprintf("%d", evt.RequestID)),
				log.Any("err", evt.Failure),
			)
		},
	}
}
