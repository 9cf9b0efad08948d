// Package services contains the application services of gophprofile.
// This file defines the profile manager: the single access point for the
// stored profile record and profile photo.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophprofile/internal/codec"
	"github.com/dmitrijs2005/gophprofile/internal/common"
	"github.com/dmitrijs2005/gophprofile/internal/cryptox"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
	"github.com/dmitrijs2005/gophprofile/internal/models"
	"github.com/dmitrijs2005/gophprofile/internal/repositories/kv"
)

// ProfileManager persists one profile record and one photo in a kv.Repository.
//
// The record is encoded by package codec and sealed before it is written, so
// the password never reaches the store in plaintext. The photo is stored as
// raw bytes. The two keys are independent: saving, clearing or corrupting one
// never affects the other.
type ProfileManager struct {
	repo   kv.Repository
	sealer cryptox.Sealer
	logger logging.Logger
}

// NewProfileManager wires a manager to its store, sealer and logger.
func NewProfileManager(repo kv.Repository, sealer cryptox.Sealer, logger logging.Logger) *ProfileManager {
	return &ProfileManager{
		repo:   repo,
		sealer: sealer,
		logger: logger.With("component", "profile_manager"),
	}
}

// SaveProfile replaces the stored profile with p in a single-key write.
func (m *ProfileManager) SaveProfile(ctx context.Context, p models.Profile) error {
	if err := codec.CheckText(p); err != nil {
		return err
	}

	plain := codec.Encode(p)
	defer common.WipeByteArray(plain)

	sealed, err := m.sealer.Seal(plain)
	if err != nil {
		return fmt.Errorf("seal profile: %w", err)
	}

	if err := m.repo.Set(ctx, common.ProfileKey, sealed); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	m.logger.Debug(ctx, "profile saved", "bytes", len(sealed))
	return nil
}

// LoadProfile returns the stored profile.
//
// Errors: common.ErrNotFound if no profile was ever saved, a *codec.DecodeError
// if the stored bytes cannot be unsealed or decoded, or a wrapped storage error.
func (m *ProfileManager) LoadProfile(ctx context.Context) (models.Profile, error) {
	sealed, err := m.repo.Get(ctx, common.ProfileKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Profile{}, common.ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("load profile: %w", err)
	}

	plain, err := m.sealer.Open(sealed)
	if err != nil {
		return models.Profile{}, &codec.DecodeError{Reason: "cannot unseal stored profile", Err: err}
	}
	defer common.WipeByteArray(plain)

	return codec.Decode(plain)
}

// SaveImage replaces the stored photo. The bytes are not validated.
func (m *ProfileManager) SaveImage(ctx context.Context, data []byte) error {
	if err := m.repo.Set(ctx, common.ProfileImageKey, data); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	m.logger.Debug(ctx, "profile image saved", "bytes", len(data))
	return nil
}

// LoadImage returns the stored photo decoded for display.
//
// Errors: common.ErrNotFound if no photo was saved, models.ErrImageDecode if
// the stored bytes are not an image, or a wrapped storage error.
func (m *ProfileManager) LoadImage(ctx context.Context) (*models.DecodedImage, error) {
	data, err := m.repo.Get(ctx, common.ProfileImageKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("load image: %w", err)
	}
	return models.DecodeImage(data)
}

// LoadCompleteProfile loads the profile and the photo independently. Either
// result is nil when unavailable; the reason is logged so that "never saved",
// "corrupt" and "storage failure" stay distinguishable.
func (m *ProfileManager) LoadCompleteProfile(ctx context.Context) (*models.Profile, *models.DecodedImage) {
	var profile *models.Profile
	p, err := m.LoadProfile(ctx)
	if err == nil {
		profile = &p
	} else {
		m.logUnavailable(ctx, common.ProfileKey, err)
	}

	img, err := m.LoadImage(ctx)
	if err != nil {
		m.logUnavailable(ctx, common.ProfileImageKey, err)
		img = nil
	}

	return profile, img
}

func (m *ProfileManager) logUnavailable(ctx context.Context, key string, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		m.logger.Debug(ctx, "nothing stored", "key", key)
	case errors.Is(err, codec.ErrDecode), errors.Is(err, models.ErrImageDecode):
		m.logger.Warn(ctx, "stored value is corrupt, ignoring", "key", key, "err", err)
	default:
		m.logger.Error(ctx, "storage read failed", "key", key, "err", err)
	}
}

// Stored reports the size in bytes of each owned key currently present in
// the store. It reads raw values and never unseals or decodes them.
func (m *ProfileManager) Stored(ctx context.Context) (map[string]int, error) {
	all, err := m.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored keys: %w", err)
	}

	out := make(map[string]int, 2)
	for _, k := range []string{common.ProfileKey, common.ProfileImageKey} {
		if v, ok := all[k]; ok {
			out[k] = len(v)
		}
	}
	return out, nil
}

// ClearProfile deletes the stored profile. Deleting an absent profile is not an error.
func (m *ProfileManager) ClearProfile(ctx context.Context) error {
	if err := m.repo.Delete(ctx, common.ProfileKey); err != nil {
		return fmt.Errorf("clear profile: %w", err)
	}
	m.logger.Info(ctx, "profile cleared")
	return nil
}

// ClearImage deletes the stored photo. Deleting an absent photo is not an error.
func (m *ProfileManager) ClearImage(ctx context.Context) error {
	if err := m.repo.Delete(ctx, common.ProfileImageKey); err != nil {
		return fmt.Errorf("clear image: %w", err)
	}
	m.logger.Info(ctx, "profile image cleared")
	return nil
}

// ClearAll removes both keys in one repository call.
func (m *ProfileManager) ClearAll(ctx context.Context) error {
	if err := m.repo.DeleteMany(ctx, common.ProfileKey, common.ProfileImageKey); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}
	m.logger.Info(ctx, "profile and image cleared")
	return nil
}
