package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophprofile/internal/config"
	"github.com/dmitrijs2005/gophprofile/internal/cryptox"
	"github.com/dmitrijs2005/gophprofile/internal/filex"
	"github.com/dmitrijs2005/gophprofile/internal/form"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
	"github.com/dmitrijs2005/gophprofile/internal/picker"
	"github.com/dmitrijs2005/gophprofile/internal/services"
	"github.com/dmitrijs2005/gophprofile/internal/storage"
)

type App struct {
	manager *services.ProfileManager
	session *picker.Session
	logger  logging.Logger
	closer  io.Closer

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	form *form.Fields
}

// NewApp opens the configured storage, prepares the sealer and builds the
// profile manager. The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if _, err := filex.EnsureDir(c.DataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	var sealer cryptox.Sealer = cryptox.PlainSealer{}
	if c.Insecure {
		logger.Warn(ctx, "profile sealing disabled, password is stored in plaintext")
	} else {
		s, err := cryptox.NewProfileSealer(c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("device key: %w", err)
		}
		sealer = s
	}

	store, err := storage.Open(ctx, c.StorageDriver, c.StorageDSN)
	if err != nil {
		logger.Error(ctx, "error opening storage", "driver", c.StorageDriver, "err", err)
		return nil, err
	}

	manager := services.NewProfileManager(store.Repository(), sealer, logger)
	a := newApp(manager, logger, bufio.NewReader(os.Stdin), os.Stdout)
	a.closer = store
	return a, nil
}

func newApp(manager *services.ProfileManager, logger logging.Logger, r *bufio.Reader, w io.Writer) *App {
	a := &App{
		manager: manager,
		logger:  logger,
		reader:  r,
		out:     w,
		form:    form.New(),
	}
	a.session = picker.NewSession(manager.SaveImage, a.applyPick, logger)
	return a
}

// Hydrate loads whatever is stored into the form. Missing or unreadable
// parts leave the defaults in place.
func (a *App) Hydrate(ctx context.Context) {
	p, img := a.manager.LoadCompleteProfile(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.form.Hydrate(p, img)
}

// Run hydrates the form and serves commands from the App's reader until EOF
// or exit.
func (a *App) Run(ctx context.Context) {
	a.Hydrate(ctx)

	printlnFn("Profile CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)

	a.session.Cancel()
	a.session.Wait()
}

func (a *App) Close() error {
	a.session.Cancel()
	a.session.Wait()
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func (a *App) status() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := a.form.Profile().FullName()
	if name == "" {
		return "(new)"
	}
	return fmt.Sprintf("(%s)", name)
}

// applyPick runs on the picker goroutine for the latest pick only.
func (a *App) applyPick(res picker.Result) {
	if res.Err != nil {
		printlnFn("Photo not updated:", res.Err)
		return
	}

	a.mu.Lock()
	a.form.Photo = res.Image
	a.mu.Unlock()

	printlnFn(fmt.Sprintf("Photo updated: %s", describePhoto(res.Image)))
}

// snapshot returns a copy of the current form.
func (a *App) snapshot() form.Fields {
	a.mu.Lock()
	defer a.mu.Unlock()
	return *a.form
}

var errInvalidForm = errors.New("form is invalid")
