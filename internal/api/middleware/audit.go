package middleware

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const (
	maxAuditBody = 16384
	redacted     = "[PROTECTED]"
)

// 请求体与查询串中需要抹掉的字段
var sensitiveKeys = map[string]struct{}{
	"password": {},
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if r.body.Len() < maxAuditBody {
		r.body.Write(b)
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseBodyWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func redactValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, inner := range val {
			if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
				val[k] = redacted
				continue
			}
			val[k] = redactValue(inner)
		}
		return val
	case []interface{}:
		for i, inner := range val {
			val[i] = redactValue(inner)
		}
		return val
	default:
		return v
	}
}

// RedactJSON 抹掉 JSON 中的密码字段，非 JSON 原样返回
func RedactJSON(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	out, err := json.Marshal(redactValue(v))
	if err != nil {
		return string(body)
	}
	return string(out)
}

// RedactQuery 抹掉查询串中的密码参数
func RedactQuery(rawQuery string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return rawQuery
	}
	for k := range values {
		if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
			values[k] = []string{redacted}
		}
	}
	decoded, err := url.QueryUnescape(values.Encode())
	if err != nil {
		return values.Encode()
	}
	return decoded
}

func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		reqBody := ""
		contentType := c.ContentType()
		switch {
		case contentType == gin.MIMEMultipartPOSTForm:
			// 图片上传不落日志，只记大小
			reqBody = "[multipart " + strings.TrimSpace(c.GetHeader("Content-Length")) + " bytes]"
		case c.Request.Body != nil:
			raw, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))
			reqBody = RedactJSON(raw)
		}

		log.InfoContext(ctx, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", c.Request.URL.Path),
			log.String("query", RedactQuery(c.Request.URL.RawQuery)),
			log.String("req_body", reqBody),
		)

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		startTime := time.Now()

		c.Next()

		log.InfoContext(ctx, "Send Response",
			log.Int("status", c.Writer.Status()),
			log.Duration("latency", time.Since(startTime)),
			log.String("res_body", w.body.String()),
		)
	}
}
