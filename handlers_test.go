package hostsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	hostsdk "github.com/quillkit-dev/quillkit-host-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	t.Run("built-in http_request is always present", func(t *testing.T) {
		reg, err := hostsdk.NewRegistry()
		require.NoError(t, err)

		_, ok := reg.Handler("http_request")
		assert.True(t, ok)
		assert.Equal(t, []string{"http_request"}, reg.Names())
	})

	t.Run("custom handlers are registered", func(t *testing.T) {
		echo := func(ctx context.Context, payload []byte) ([]byte, error) {
			return payload, nil
		}
		reg, err := hostsdk.NewRegistry(hostsdk.WithHandler("echo", echo))
		require.NoError(t, err)

		assert.Equal(t, []string{"echo", "http_request"}, reg.Names())
	})

	t.Run("nil handler is rejected", func(t *testing.T) {
		_, err := hostsdk.NewRegistry(hostsdk.WithHandler("broken", nil))
		assert.Error(t, err)
	})
}

func TestHandlerRegistry_Invoke(t *testing.T) {
	t.Run("passes function name on context", func(t *testing.T) {
		var seen string
		handler := func(ctx context.Context, payload []byte) ([]byte, error) {
			if hc, ok := ctx.(hostsdk.HostContext); ok {
				seen = hc.FunctionName()
			}
			return nil, nil
		}
		reg, err := hostsdk.NewRegistry(hostsdk.WithHandler("resolve_blob", handler))
		require.NoError(t, err)

		_, err = reg.Invoke(context.Background(), "resolve_blob", nil)
		require.NoError(t, err)
		assert.Equal(t, "resolve_blob", seen)
	})

	t.Run("unknown function", func(t *testing.T) {
		reg, err := hostsdk.NewRegistry()
		require.NoError(t, err)

		_, err = reg.Invoke(context.Background(), "nonexistent", nil)
		assert.ErrorContains(t, err, "unknown host function")
	})
}

func TestHTTPRequestHandler(t *testing.T) {
	t.Run("performs request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"hello":"world"}`))
		}))
		defer server.Close()

		reg, err := hostsdk.NewRegistry()
		require.NoError(t, err)

		payload, _ := json.Marshal(hostsdk.HTTPRequest{Method: "GET", URL: server.URL})
		raw, err := reg.Invoke(context.Background(), "http_request", payload)
		require.NoError(t, err)

		var resp hostsdk.HTTPResponse
		require.NoError(t, json.Unmarshal(raw, &resp))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"hello":"world"}`, string(resp.Body))
	})

	t.Run("malformed payload yields validation error", func(t *testing.T) {
		reg, err := hostsdk.NewRegistry()
		require.NoError(t, err)

		raw, err := reg.Invoke(context.Background(), "http_request", []byte("not json"))
		require.NoError(t, err)

		var resp hostsdk.ErrorResponse
		require.NoError(t, json.Unmarshal(raw, &resp))
		assert.Equal(t, "VALIDATION_FAILED", resp.Code)
	})
}

func TestErrorResponse(t *testing.T) {
	resp := hostsdk.NewValidationError("bad payload")
	assert.Equal(t, "VALIDATION_FAILED: bad payload", resp.Error())

	var decoded hostsdk.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.ToJSON(), &decoded))
	assert.Equal(t, *resp, decoded)

	var asErr error = hostsdk.NewInternalError("boom")
	var target *hostsdk.ErrorResponse
	assert.True(t, errors.As(asErr, &target))
}
