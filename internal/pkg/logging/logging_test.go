package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Error("expected default logger for empty context")
	}

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")
	ctx := WithLogger(context.Background(), l)

	FromContext(ctx).Info("hello")
	if !strings.Contains(buf.String(), "request_id=abc") {
		t.Errorf("log line missing request id: %q", buf.String())
	}
}
