package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_SlogTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Backend: BackendSlog, Level: "warn"}, &buf)
	require.NoError(t, err)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown", "k", 1)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "msg=shown")
	require.Contains(t, out, "k=1")
}

func TestNew_SlogJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Format: FormatJSON}, &buf)
	require.NoError(t, err)

	log.Info(context.Background(), "saved", "key", "profile")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "saved", rec["msg"])
	require.Equal(t, "profile", rec["key"])
}

func TestNew_ZapJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Backend: BackendZap, Level: "debug", Format: FormatJSON}, &buf)
	require.NoError(t, err)

	log.With("component", "picker").Debug(context.Background(), "stale pick dropped", "generation", 2)
	require.NoError(t, log.(*ZapLogger).Sync())

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	require.Equal(t, "stale pick dropped", rec["msg"])
	require.Equal(t, "picker", rec["component"])
	require.EqualValues(t, 2, rec["generation"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Options{Level: "loud"}, &bytes.Buffer{})
	require.Error(t, err)

	_, err = New(Options{Backend: "logrus"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestZapLogger_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "d", "a", 1)
	log.Info(ctx, "i")
	log.Warn(ctx, "w")
	log.Error(ctx, "e")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	require.Equal(t, "d", entries[0].Message)
	require.Equal(t, zap.WarnLevel, entries[2].Level)
	require.Equal(t, int64(1), entries[0].ContextMap()["a"])
}
