package cryptox

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/common"
)

// ProfileKeyLabel binds the record sealing key to its purpose.
const ProfileKeyLabel = "gophprofile/profile-record/v1"

// LoadOrCreateKey returns the hex-encoded device key stored at path. On first
// run it generates common.DeviceKeySize random bytes and writes them with
// 0600 permissions, creating parent directories as needed.
func LoadOrCreateKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", common.ErrInvalidKey, path, err)
		}
		if len(key) != common.DeviceKeySize {
			return nil, fmt.Errorf("%w: %s: want %d bytes, got %d", common.ErrInvalidKey, path, common.DeviceKeySize, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read key %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	key := common.GenerateRandByteArray(common.DeviceKeySize)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create key %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(hex.EncodeToString(key) + "\n"); err != nil {
		return nil, fmt.Errorf("write key %s: %w", path, err)
	}
	return key, nil
}

// NewProfileSealer loads (or creates) the device key at path and returns the
// AES sealer used for profile records.
func NewProfileSealer(path string) (*AESSealer, error) {
	master, err := LoadOrCreateKey(path)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(master)

	key, err := DeriveSubkey(master, ProfileKeyLabel)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	return NewAESSealer(key)
}
