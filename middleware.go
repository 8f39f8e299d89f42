package hostsdk

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

// Middleware wraps a ByteHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion
// model).
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// UserAgentMiddleware returns a middleware that adds a User-Agent header
// to http_request payloads that do not already carry one.
func UserAgentMiddleware(userAgent string) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			funcName := ""
			if hc, ok := ctx.(HostContext); ok {
				funcName = hc.FunctionName()
			}

			if funcName == "http_request" {
				var req map[string]any
				if err := json.Unmarshal(payload, &req); err == nil {
					headers, ok := req["headers"].(map[string]any)
					if !ok {
						headers = make(map[string]any)
						req["headers"] = headers
					}
					found := false
					for k := range headers {
						if strings.EqualFold(k, "User-Agent") {
							found = true
							break
						}
					}
					if !found {
						headers["User-Agent"] = userAgent
						payload, _ = json.Marshal(req)
					}
				}
			}

			return next(ctx, payload)
		}
	}
}

// PanicRecoveryMiddleware returns a middleware that catches panics and
// converts them to structured ErrorResponse JSON instead of crashing the
// host.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil // Return JSON error, not Go error
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware returns a middleware that logs host function
// invocations through slog.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			funcName := "unknown"
			if hc, ok := ctx.(HostContext); ok {
				funcName = hc.FunctionName()
			}
			logger.Debug("invoking host function", "function", funcName)
			resp, err := next(ctx, payload)
			if err != nil {
				logger.Warn("host function failed", "function", funcName, "error", err)
			} else {
				logger.Debug("host function completed", "function", funcName)
			}
			return resp, err
		}
	}
}
