package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-insights/pkg/logging"
)

// MCPRequestLogger logs JSON-RPC tool calls on the MCP endpoint: the method,
// tool name and sanitized arguments going in, and the error code coming out.
// Pass nil logger to disable logging.
func MCPRequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logger == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				logger.Error("Failed to read MCP request body", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			var call rpcCall
			if err := json.Unmarshal(bodyBytes, &call); err != nil {
				// Not every request on the endpoint carries a JSON body.
				logger.Debug("Failed to parse MCP request JSON", zap.Error(err))
			}

			logger.Debug("MCP request",
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.String("method", call.Method),
				zap.String("tool", call.Params.Name),
				zap.Any("arguments", sanitizeArguments(call.Params.Arguments)),
			)

			recorder := &bodyRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(recorder, r)

			fields := []zap.Field{
				zap.String("tool", call.Params.Name),
				zap.Duration("duration", time.Since(start)),
			}

			var reply rpcReply
			if err := json.Unmarshal(recorder.body.Bytes(), &reply); err != nil {
				logger.Debug("MCP response (unparsed)", fields...)
				return
			}

			if reply.Error != nil {
				logger.Debug("MCP response error", append(fields,
					zap.Int("error_code", reply.Error.Code),
					zap.String("error_message", reply.Error.Message))...)
				return
			}
			if reply.Result.IsError {
				logger.Debug("MCP tool error", fields...)
				return
			}
			logger.Debug("MCP response success", fields...)
		})
	}
}

type rpcCall struct {
	Method string `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

type rpcReply struct {
	Result struct {
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// bodyRecorder tees the response body so it can be inspected after the handler returns.
type bodyRecorder struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

var sensitiveArgKeywords = []string{"password", "secret", "token", "key", "credential"}

// sanitizeArguments redacts credential-like keys and shortens long strings
// such as free-text questions.
func sanitizeArguments(args map[string]any) map[string]any {
	if args == nil {
		return nil
	}

	result := make(map[string]any, len(args))
	for k, v := range args {
		lowerKey := strings.ToLower(k)
		sensitive := false
		for _, keyword := range sensitiveArgKeywords {
			if strings.Contains(lowerKey, keyword) {
				sensitive = true
				break
			}
		}

		switch {
		case sensitive:
			result[k] = logging.RedactedText
		case isString(v):
			result[k] = logging.SanitizeQuery(v.(string))
		default:
			result[k] = v
		}
	}
	return result
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}
