// Package picker runs asynchronous profile photo picks.
//
// Each Pick bumps a generation counter and captures the new value. When the
// pick completes, its result is saved and applied only if the captured value
// still equals the current generation, so an older pick that finishes late
// can never overwrite a newer one.
package picker

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophprofile/internal/logging"
	"github.com/dmitrijs2005/gophprofile/internal/models"
	"github.com/google/uuid"
)

// LoadFunc produces the raw bytes of the picked photo.
type LoadFunc func(ctx context.Context) ([]byte, error)

// SaveFunc persists accepted photo bytes, e.g. (*services.ProfileManager).SaveImage.
type SaveFunc func(ctx context.Context, data []byte) error

// Result is delivered to the apply callback for the latest pick only.
type Result struct {
	Generation uint64
	Image      *models.DecodedImage
	Err        error
}

// Session serialises the effects of photo picks for one form.
type Session struct {
	id     string
	save   SaveFunc
	apply  func(Result)
	logger logging.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc

	wg sync.WaitGroup
}

// NewSession creates a session. apply runs on the pick goroutine while the
// session lock is held; it must not call back into the Session.
func NewSession(save SaveFunc, apply func(Result), logger logging.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:     id,
		save:   save,
		apply:  apply,
		logger: logger.With("component", "picker", "session_id", id),
	}
}

func (s *Session) ID() string { return s.id }

// Generation returns the generation of the most recent Pick or Cancel.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Pick starts loading a photo in the background and returns its generation.
// Any pick still in flight is cancelled and its result will be discarded.
func (s *Session) Pick(ctx context.Context, load LoadFunc) uint64 {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	gen := s.generation
	pickCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.run(pickCtx, gen, load)
	}()

	s.logger.Debug(ctx, "pick started", "generation", gen)
	return gen
}

func (s *Session) run(ctx context.Context, gen uint64, load LoadFunc) {
	data, err := load(ctx)

	var img *models.DecodedImage
	if err == nil {
		img, err = models.DecodeImage(data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.logger.Debug(ctx, "stale pick dropped", "generation", gen, "current", s.generation)
		return
	}

	if err == nil {
		if serr := s.save(ctx, data); serr != nil {
			err = fmt.Errorf("save picked image: %w", serr)
		}
	}

	if err != nil {
		s.logger.Warn(ctx, "pick failed", "generation", gen, "err", err)
		s.apply(Result{Generation: gen, Err: err})
		return
	}

	s.logger.Info(ctx, "pick applied", "generation", gen, "format", img.Format, "bytes", img.Size)
	s.apply(Result{Generation: gen, Image: img})
}

// Cancel aborts the pick in flight, if any, and invalidates its result.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
}

// Wait blocks until every started pick goroutine has returned.
func (s *Session) Wait() {
	s.wg.Wait()
}
