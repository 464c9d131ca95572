package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAttributesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatText, slog.LevelDebug)

	ctx := AppendCtx(context.Background(), slog.String("service", "web"))
	ctx = AppendCtx(ctx, slog.String("run_id", "abc"))
	logger.DebugContext(ctx, "converting")

	out := buf.String()
	assert.Contains(t, out, "service=web")
	assert.Contains(t, out, "run_id=abc")
	assert.Contains(t, out, "msg=converting")
}

func TestAppendCtxDoesNotShareParentSlice(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("a", "1"))
	left := AppendCtx(parent, slog.String("b", "2"))
	right := AppendCtx(parent, slog.String("c", "3"))

	l := left.Value(slogFields).([]slog.Attr)
	r := right.Value(slogFields).([]slog.Attr)
	require.Len(t, l, 2)
	require.Len(t, r, 2)
	assert.Equal(t, "b", l[1].Key)
	assert.Equal(t, "c", r[1].Key)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, FormatJSON, slog.LevelWarn)
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.With(slog.String("k", "v")).Warn("shown")
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "", want: slog.LevelInfo},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
