package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophprofile/internal/cryptox"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
	"github.com/dmitrijs2005/gophprofile/internal/repositories/kv"
	"github.com/dmitrijs2005/gophprofile/internal/services"
)

// captured collects printlnFn output; picks print from their own goroutine.
type captured struct {
	mu    sync.Mutex
	lines []string
}

func (c *captured) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "\n")
}

func capturePrintln(t *testing.T) *captured {
	t.Helper()
	c := &captured{}
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.lines = append(c.lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return c
}

// pipedInput makes readSecret fall back to the line reader.
func pipedInput(t *testing.T) {
	t.Helper()
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })
}

func testApp(t *testing.T, input string) (*App, *services.ProfileManager) {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m := services.NewProfileManager(kv.NewInMemoryRepository(), cryptox.PlainSealer{}, log)
	a := newApp(m, log, bufio.NewReader(strings.NewReader(input)), io.Discard)
	t.Cleanup(func() { require.NoError(t, a.Close()) })
	return a, m
}

// halvesPNG is black on the left half and white on the right.
func halvesPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for x := w / 2; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var bg = context.Background()
