package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/png"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophprofile/internal/codec"
	"github.com/dmitrijs2005/gophprofile/internal/common"
	"github.com/dmitrijs2005/gophprofile/internal/cryptox"
	"github.com/dmitrijs2005/gophprofile/internal/logging"
	"github.com/dmitrijs2005/gophprofile/internal/models"
	"github.com/dmitrijs2005/gophprofile/internal/repositories/kv"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func ada() models.Profile {
	return models.Profile{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@x.com",
		Birthday:  models.Date{Year: 1815, Month: time.December, Day: 10},
		Gender:    models.GenderFemale,
		Password:  "p1",
	}
}

func grace() models.Profile {
	return models.Profile{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@navy.mil",
		Birthday:  models.Date{Year: 1906, Month: time.December, Day: 9},
		Gender:    models.GenderFemale,
		Password:  "cobol",
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 3, 2))))
	return buf.Bytes()
}

func newLogger(t *testing.T) (logging.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.NewSlogLogger(slog.New(h)), &buf
}

func newSealer(t *testing.T) cryptox.Sealer {
	t.Helper()
	s, err := cryptox.NewAESSealer(common.GenerateRandByteArray(32))
	require.NoError(t, err)
	return s
}

func newManager(t *testing.T, repo kv.Repository) (*ProfileManager, *bytes.Buffer) {
	t.Helper()
	log, buf := newLogger(t)
	return NewProfileManager(repo, newSealer(t), log), buf
}

func sqliteRepo(t *testing.T) kv.Repository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL, updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`)
	require.NoError(t, err)
	return kv.NewSQLiteRepository(db)
}

// flakyRepo fails writes and reads for one key and delegates everything else.
type flakyRepo struct {
	kv.Repository
	key string
	err error
}

func (f *flakyRepo) Set(ctx context.Context, key string, value []byte) error {
	if key == f.key {
		return f.err
	}
	return f.Repository.Set(ctx, key, value)
}

func (f *flakyRepo) Get(ctx context.Context, key string) ([]byte, error) {
	if key == f.key {
		return nil, f.err
	}
	return f.Repository.Get(ctx, key)
}

var backends = map[string]func(t *testing.T) kv.Repository{
	"memory": func(*testing.T) kv.Repository { return kv.NewInMemoryRepository() },
	"sqlite": sqliteRepo,
}

// ---- tests ----

func TestProfileManager_SaveLoad_Scenario(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			m, _ := newManager(t, mk(t))
			ctx := context.Background()

			require.NoError(t, m.SaveProfile(ctx, ada()))

			got, err := m.LoadProfile(ctx)
			require.NoError(t, err)
			require.Equal(t, ada(), got)

			img, err := m.LoadImage(ctx)
			require.ErrorIs(t, err, common.ErrNotFound)
			require.Nil(t, img)
		})
	}
}

func TestProfileManager_SaveIsIdempotent(t *testing.T) {
	m, _ := newManager(t, kv.NewInMemoryRepository())
	ctx := context.Background()

	require.NoError(t, m.SaveProfile(ctx, ada()))
	require.NoError(t, m.SaveProfile(ctx, ada()))

	got, err := m.LoadProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, ada(), got)
}

func TestProfileManager_SaveRejectsInvalidText(t *testing.T) {
	m, _ := newManager(t, kv.NewInMemoryRepository())
	ctx := context.Background()

	require.NoError(t, m.SaveProfile(ctx, ada()))

	bad := ada()
	bad.Password = "p\xffw"
	require.ErrorIs(t, m.SaveProfile(ctx, bad), codec.ErrInvalidText)

	got, err := m.LoadProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, ada(), got, "rejected save must leave the stored profile untouched")
}

func TestProfileManager_OverwriteIsFullReplace(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			m, _ := newManager(t, mk(t))
			ctx := context.Background()

			r2 := models.Profile{FirstName: "Grace", Email: "g@x"}
			require.NoError(t, m.SaveProfile(ctx, ada()))
			require.NoError(t, m.SaveProfile(ctx, r2))

			got, err := m.LoadProfile(ctx)
			require.NoError(t, err)
			require.Equal(t, r2, got, "second save must not merge with the first")
		})
	}
}

func TestProfileManager_FreshStoreIsAbsent(t *testing.T) {
	m, logs := newManager(t, kv.NewInMemoryRepository())
	ctx := context.Background()

	_, err := m.LoadProfile(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = m.LoadImage(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)

	p, img := m.LoadCompleteProfile(ctx)
	require.Nil(t, p)
	require.Nil(t, img)
	require.Contains(t, logs.String(), "nothing stored")
	require.NotContains(t, logs.String(), "corrupt")
}

func TestProfileManager_CorruptProfile(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			repo := mk(t)
			m, logs := newManager(t, repo)
			ctx := context.Background()

			require.NoError(t, repo.Set(ctx, common.ProfileKey, []byte("\x00garbage{")))

			var err error
			require.NotPanics(t, func() { _, err = m.LoadProfile(ctx) })
			require.ErrorIs(t, err, codec.ErrDecode)

			var de *codec.DecodeError
			require.ErrorAs(t, err, &de)

			p, _ := m.LoadCompleteProfile(ctx)
			require.Nil(t, p)
			require.Contains(t, logs.String(), "stored value is corrupt")
		})
	}
}

func TestProfileManager_SealedWithOtherKeyIsDecodeError(t *testing.T) {
	repo := kv.NewInMemoryRepository()
	ctx := context.Background()

	m1, _ := newManager(t, repo)
	require.NoError(t, m1.SaveProfile(ctx, ada()))

	m2, _ := newManager(t, repo)
	_, err := m2.LoadProfile(ctx)
	require.ErrorIs(t, err, codec.ErrDecode)
	require.ErrorIs(t, err, cryptox.ErrCiphertextInvalid)
}

func TestProfileManager_PasswordIsNotStoredInPlaintext(t *testing.T) {
	repo := kv.NewInMemoryRepository()
	m, _ := newManager(t, repo)
	ctx := context.Background()

	p := ada()
	p.Password = "correct horse battery staple"
	require.NoError(t, m.SaveProfile(ctx, p))

	raw, err := repo.Get(ctx, common.ProfileKey)
	require.NoError(t, err)
	require.NotContains(t, string(raw), p.Password)
	require.NotContains(t, string(raw), p.Email)
}

func TestProfileManager_PlainSealerStoresCodecDocument(t *testing.T) {
	repo := kv.NewInMemoryRepository()
	log, _ := newLogger(t)
	m := NewProfileManager(repo, cryptox.PlainSealer{}, log)
	ctx := context.Background()

	require.NoError(t, m.SaveProfile(ctx, ada()))

	raw, err := repo.Get(ctx, common.ProfileKey)
	require.NoError(t, err)
	require.Equal(t, codec.Encode(ada()), raw)
}

func TestProfileManager_Images(t *testing.T) {
	m, logs := newManager(t, kv.NewInMemoryRepository())
	ctx := context.Background()

	require.NoError(t, m.SaveImage(ctx, pngBytes(t)))
	img, err := m.LoadImage(ctx)
	require.NoError(t, err)
	require.Equal(t, "png", img.Format)
	require.Equal(t, 3, img.Width())

	require.NoError(t, m.SaveImage(ctx, []byte("not an image")), "save does not validate")
	img, err = m.LoadImage(ctx)
	require.ErrorIs(t, err, models.ErrImageDecode)
	require.Nil(t, img)

	_, img = m.LoadCompleteProfile(ctx)
	require.Nil(t, img)
	require.Contains(t, logs.String(), "key=profile_image")
}

func TestProfileManager_ImageAndProfileAreIndependent(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	t.Run("image write failure leaves profile intact", func(t *testing.T) {
		repo := &flakyRepo{Repository: kv.NewInMemoryRepository(), key: common.ProfileImageKey, err: boom}
		m, _ := newManager(t, repo)

		require.NoError(t, m.SaveProfile(ctx, ada()))
		require.ErrorIs(t, m.SaveImage(ctx, pngBytes(t)), boom)

		got, err := m.LoadProfile(ctx)
		require.NoError(t, err)
		require.Equal(t, ada(), got)

		p, img := m.LoadCompleteProfile(ctx)
		require.NotNil(t, p)
		require.Equal(t, ada(), *p)
		require.Nil(t, img)
	})

	t.Run("profile write failure leaves image intact", func(t *testing.T) {
		repo := &flakyRepo{Repository: kv.NewInMemoryRepository(), key: common.ProfileKey, err: boom}
		m, logs := newManager(t, repo)

		require.NoError(t, m.SaveImage(ctx, pngBytes(t)))
		require.ErrorIs(t, m.SaveProfile(ctx, ada()), boom)

		_, err := m.LoadImage(ctx)
		require.NoError(t, err)

		p, img := m.LoadCompleteProfile(ctx)
		require.Nil(t, p)
		require.NotNil(t, img)
		require.Contains(t, logs.String(), "storage read failed")
	})

	t.Run("corrupt image does not affect profile", func(t *testing.T) {
		repo := kv.NewInMemoryRepository()
		m, _ := newManager(t, repo)

		require.NoError(t, m.SaveProfile(ctx, grace()))
		require.NoError(t, repo.Set(ctx, common.ProfileImageKey, []byte{0xde, 0xad}))

		p, img := m.LoadCompleteProfile(ctx)
		require.NotNil(t, p)
		require.Equal(t, grace(), *p)
		require.Nil(t, img)
	})
}

func TestProfileManager_StorageErrorIsWrapped(t *testing.T) {
	boom := errors.New("io error")
	repo := &flakyRepo{Repository: kv.NewInMemoryRepository(), key: common.ProfileKey, err: boom}
	m, _ := newManager(t, repo)

	_, err := m.LoadProfile(context.Background())
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, common.ErrNotFound)
	require.NotErrorIs(t, err, codec.ErrDecode)
}

func TestProfileManager_Clear(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			m, _ := newManager(t, mk(t))
			ctx := context.Background()

			require.NoError(t, m.SaveProfile(ctx, ada()))
			require.NoError(t, m.SaveImage(ctx, pngBytes(t)))

			require.NoError(t, m.ClearImage(ctx))
			_, err := m.LoadImage(ctx)
			require.ErrorIs(t, err, common.ErrNotFound)
			_, err = m.LoadProfile(ctx)
			require.NoError(t, err, "clearing the image keeps the profile")

			require.NoError(t, m.ClearProfile(ctx))
			require.NoError(t, m.ClearProfile(ctx), "clear is idempotent")
			_, err = m.LoadProfile(ctx)
			require.ErrorIs(t, err, common.ErrNotFound)

			require.NoError(t, m.SaveProfile(ctx, ada()))
			require.NoError(t, m.SaveImage(ctx, pngBytes(t)))
			require.NoError(t, m.ClearAll(ctx))

			p, img := m.LoadCompleteProfile(ctx)
			require.Nil(t, p)
			require.Nil(t, img)
		})
	}
}

func TestProfileManager_Stored(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			repo := mk(t)
			m, _ := newManager(t, repo)
			ctx := context.Background()

			got, err := m.Stored(ctx)
			require.NoError(t, err)
			require.Empty(t, got)

			img := pngBytes(t)
			require.NoError(t, m.SaveProfile(ctx, ada()))
			require.NoError(t, m.SaveImage(ctx, img))
			require.NoError(t, repo.Set(ctx, "unrelated", []byte("x")))

			got, err = m.Stored(ctx)
			require.NoError(t, err)
			require.Len(t, got, 2)
			require.Equal(t, len(img), got[common.ProfileImageKey])
			require.Greater(t, got[common.ProfileKey], 0)
		})
	}
}
