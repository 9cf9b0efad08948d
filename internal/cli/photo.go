package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/form"
	"github.com/dmitrijs2005/gophprofile/internal/netx"
	"github.com/dmitrijs2005/gophprofile/internal/picker"
)

// readFileFn is a test seam for os.ReadFile.
var readFileFn = os.ReadFile

// httpClient is used for photos given as http(s) URLs.
var httpClient = &http.Client{Timeout: 30 * time.Second}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func loadURL(url string) picker.LoadFunc {
	return func(ctx context.Context) ([]byte, error) {
		data, err := netx.Download(ctx, httpClient, url, netx.MaxPhotoSize)
		if err != nil {
			return nil, fmt.Errorf("download photo: %w", err)
		}
		return data, nil
	}
}

func loadFile(path string) picker.LoadFunc {
	return func(ctx context.Context) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := readFileFn(path)
		if err != nil {
			return nil, fmt.Errorf("read photo: %w", err)
		}
		return data, nil
	}
}

// Photo starts loading src, a file path or an http(s) URL, in the
// background. Only the most recent pick is saved; its outcome is printed when
// it completes.
func (a *App) Photo(ctx context.Context, src string) error {
	load := loadFile(src)
	if isURL(src) {
		load = loadURL(src)
	}
	gen := a.session.Pick(ctx, load)
	printlnFn(fmt.Sprintf("Loading photo %s (pick #%d)", src, gen))
	return nil
}

// ClearPhoto drops any pick in flight and removes the stored photo.
func (a *App) ClearPhoto(ctx context.Context) error {
	a.session.Cancel()

	if err := a.manager.ClearImage(ctx); err != nil {
		return fmt.Errorf("clear photo: %w", err)
	}

	a.mu.Lock()
	a.form.Photo = nil
	a.mu.Unlock()

	printlnFn("Photo removed")
	return nil
}

// Clear removes the stored profile and photo and resets the form.
func (a *App) Clear(ctx context.Context) error {
	a.session.Cancel()

	if err := a.manager.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}

	a.mu.Lock()
	a.form = form.New()
	a.mu.Unlock()

	printlnFn("Profile removed")
	return nil
}
