package wazero

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPackPtrLen_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		ptr  uint32
		len  uint32
	}{
		{"zero", 0, 0},
		{"small", 1024, 16},
		{"max", ^uint32(0), ^uint32(0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ptr, length := UnpackPtrLen(PackPtrLen(tc.ptr, tc.len))
			assert.Equal(t, tc.ptr, ptr)
			assert.Equal(t, tc.len, length)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}

func TestConvertSingleAttr(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		attr LogAttr
		want slog.Attr
	}{
		{"string", LogAttr{Key: "name", Value: "drawboard", Type: "string"}, slog.String("name", "drawboard")},
		{"int64", LogAttr{Key: "count", Value: "42", Type: "int64"}, slog.Int64("count", 42)},
		{"bool", LogAttr{Key: "ok", Value: "true", Type: "bool"}, slog.Bool("ok", true)},
		{"float64", LogAttr{Key: "ratio", Value: "0.5", Type: "float64"}, slog.Float64("ratio", 0.5)},
		{"time", LogAttr{Key: "at", Value: ts.Format(time.RFC3339Nano), Type: "time"}, slog.Time("at", ts)},
		{"unparseable int falls back", LogAttr{Key: "count", Value: "many", Type: "int64"}, slog.Any("count", "many")},
		{"unknown type falls back", LogAttr{Key: "blob", Value: "x", Type: "bytes"}, slog.Any("blob", "x")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := convertSingleAttr(tc.attr)
			assert.True(t, got.Equal(tc.want), "got %v, want %v", got, tc.want)
		})
	}
}

func TestConvertLogAttrs_Error(t *testing.T) {
	attrs := convertLogAttrs([]LogAttr{{Key: "err", Value: "boom", Type: "error"}})
	assert.Len(t, attrs, 1)
	assert.Equal(t, "err", attrs[0].Key)
	assert.EqualError(t, attrs[0].Value.Any().(error), "boom")
}
