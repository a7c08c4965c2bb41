package storage_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
)

const (
	testProfile = "8f2b1a60-5f0e-4a43-9d4d-0f3c8a1f2b77"
	migration   = "../../../migrations/000001_create_storefront_records.up.sql"
)

func newSQLiteStorage(t *testing.T) storage.SQLStorage {
	t.Helper()

	db, err := storage.OpenSQLDB(storage.SQLDriverSQLite, ":memory:")
	require.NoError(t, err)

	schema, err := os.ReadFile(migration)
	require.NoError(t, err)
	_, err = db.ExecContext(t.Context(), string(schema))
	require.NoError(t, err)

	s := storage.NewSQLStorage(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newRedisStorage(t *testing.T) (storage.RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := storage.NewRedisStorage(client, 0)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func backends(t *testing.T) map[string]port.RecordStorage {
	redisStorage, _ := newRedisStorage(t)
	return map[string]port.RecordStorage{
		"Memory": storage.NewMemoryStorage(),
		"File":   storage.NewFileStorage(afero.NewMemMapFs(), "/records"),
		"SQLite": newSQLiteStorage(t),
		"Redis":  redisStorage,
	}
}

func TestRecordStorage(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			require.NoError(t, s.Ping(ctx))

			t.Run("AbsentRecord", func(t *testing.T) {
				_, err := s.Get(ctx, testProfile, "cart")
				assert.ErrorIs(t, err, storage.ErrNotFound)
			})

			t.Run("SetGet", func(t *testing.T) {
				require.NoError(t, s.Set(ctx, testProfile, "cart", []byte(`[{"id":1,"qty":2}]`)))

				v, err := s.Get(ctx, testProfile, "cart")
				require.NoError(t, err)
				assert.JSONEq(t, `[{"id":1,"qty":2}]`, string(v))
			})

			t.Run("Overwrite", func(t *testing.T) {
				require.NoError(t, s.Set(ctx, testProfile, "wishlist", []byte(`[1]`)))
				require.NoError(t, s.Set(ctx, testProfile, "wishlist", []byte(`[1,2]`)))

				v, err := s.Get(ctx, testProfile, "wishlist")
				require.NoError(t, err)
				assert.Equal(t, `[1,2]`, string(v))
			})

			t.Run("ProfilesAreIsolated", func(t *testing.T) {
				require.NoError(t, s.Set(ctx, "other-profile", "cart", []byte(`[]`)))

				v, err := s.Get(ctx, testProfile, "cart")
				require.NoError(t, err)
				assert.JSONEq(t, `[{"id":1,"qty":2}]`, string(v))
			})

			t.Run("Delete", func(t *testing.T) {
				require.NoError(t, s.Delete(ctx, testProfile, "cart"))
				_, err := s.Get(ctx, testProfile, "cart")
				assert.ErrorIs(t, err, storage.ErrNotFound)

				// absent record
				assert.NoError(t, s.Delete(ctx, testProfile, "cart"))
			})

			t.Run("InvalidNames", func(t *testing.T) {
				for _, profile := range []string{"", "..", "a/b", `a\b`, "a:b"} {
					err := s.Set(ctx, profile, "cart", []byte(`[]`))
					assert.ErrorIs(t, err, storage.ErrInvalidProfile, profile)
				}
				err := s.Set(ctx, testProfile, "../cart", []byte(`[]`))
				assert.ErrorIs(t, err, storage.ErrInvalidKey)
			})
		})
	}
}

func TestFileStorage(t *testing.T) {
	t.Run("RecordLayout", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		s := storage.NewFileStorage(fsys, "/records")

		require.NoError(t, s.Set(t.Context(), testProfile, "cart", []byte(`[]`)))

		data, err := afero.ReadFile(fsys, "/records/"+testProfile+"/cart.json")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(data))

		entries, err := afero.ReadDir(fsys, "/records/"+testProfile)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "temp files must not be left behind")
	})

	t.Run("CanceledContext", func(t *testing.T) {
		s := storage.NewFileStorage(afero.NewMemMapFs(), "/records")
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := s.Get(ctx, testProfile, "cart")
		assert.Error(t, err)
	})
}

func TestRedisStorage(t *testing.T) {
	t.Run("KeyLayout", func(t *testing.T) {
		s, mr := newRedisStorage(t)
		require.NoError(t, s.Set(t.Context(), testProfile, "wishlist", []byte(`[3]`)))

		v, err := mr.Get("storefront:" + testProfile + ":wishlist")
		require.NoError(t, err)
		assert.Equal(t, `[3]`, v)
		assert.Zero(t, mr.TTL("storefront:"+testProfile+":wishlist"))
	})

	t.Run("TTL", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		s := storage.NewRedisStorage(client, time.Hour)
		t.Cleanup(func() { _ = s.Close() })

		require.NoError(t, s.Set(t.Context(), testProfile, "cart", []byte(`[]`)))
		assert.Equal(t, time.Hour, mr.TTL("storefront:"+testProfile+":cart"))
	})

	t.Run("Unavailable", func(t *testing.T) {
		s, mr := newRedisStorage(t)
		mr.Close()

		assert.Error(t, s.Ping(t.Context()))
		_, err := s.Get(t.Context(), testProfile, "cart")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestOpenSQLDB(t *testing.T) {
	_, err := storage.OpenSQLDB("mysql", "dsn")
	assert.ErrorIs(t, err, storage.ErrUnknownSQLDriver)

	_, err = storage.OpenSQLDB(storage.SQLDriverPgx, "host=localhost port=notaport")
	assert.Error(t, err)
}
