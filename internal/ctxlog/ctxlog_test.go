package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("stored")
	if !strings.Contains(buf.String(), "msg=stored") {
		t.Fatalf("logger from context not used: %q", buf.String())
	}

	if FromContext(context.Background()) != slog.Default() {
		t.Fatalf("missing logger should fall back to slog.Default")
	}
}
