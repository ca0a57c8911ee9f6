package localstore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"careerhub/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStoreFromClient(client), mr
}

func newTestSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQLStore("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStores_RoundTrip(t *testing.T) {
	ctx := context.Background()
	stores := map[string]Store{
		"memory": NewMemoryStore(),
	}
	rs, _ := newTestRedisStore(t)
	stores["redis"] = rs
	stores["sqlite"] = newTestSQLiteStore(t)

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "session", "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "session", "abc", "token-1", 0))
			got, err := s.Get(ctx, "session", "abc")
			require.NoError(t, err)
			assert.Equal(t, "token-1", got)

			require.NoError(t, s.Set(ctx, "session", "abc", "token-2", time.Hour))
			got, err = s.Get(ctx, "session", "abc")
			require.NoError(t, err)
			assert.Equal(t, "token-2", got)

			// Namespaces do not collide.
			_, err = s.Get(ctx, "recent_searches", "abc")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Delete(ctx, "session", "abc"))
			_, err = s.Get(ctx, "session", "abc")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "session", "abc", "v", time.Minute))
	_, err := s.Get(ctx, "session", "abc")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "session", "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ExpiryAndKeys(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	require.NoError(t, s.Set(ctx, "session", "abc", "v", time.Minute))
	assert.True(t, mr.Exists("careerhub:session:abc"))
	assert.Equal(t, time.Minute, mr.TTL("careerhub:session:abc"))

	mr.FastForward(2 * time.Minute)
	_, err := s.Get(ctx, "session", "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLStore_ExpiryAndPurge(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "session", "a", "1", time.Minute))
	require.NoError(t, s.Set(ctx, "session", "b", "2", time.Hour))
	require.NoError(t, s.Set(ctx, "session", "c", "3", 0))

	now = now.Add(2 * time.Minute)
	_, err := s.Get(ctx, "session", "a")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "session", "d", "4", time.Second))
	now = now.Add(2 * time.Hour)

	removed, err := s.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	got, err := s.Get(ctx, "session", "c")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func setupMockDB(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	s, err := NewSQLStore(gormDB, "postgres", false)
	require.NoError(t, err)
	return s, mock
}

func TestSQLStore_Postgres(t *testing.T) {
	ctx := context.Background()

	t.Run("get found", func(t *testing.T) {
		s, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "local_entries" WHERE namespace = $1 AND key = $2`)).
			WillReturnRows(sqlmock.NewRows([]string{"namespace", "key", "value", "expires_at"}).
				AddRow("session", "abc", "token", nil))

		got, err := s.Get(ctx, "session", "abc")
		require.NoError(t, err)
		assert.Equal(t, "token", got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("get missing", func(t *testing.T) {
		s, mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "local_entries"`)).
			WillReturnRows(sqlmock.NewRows([]string{"namespace", "key", "value"}))

		_, err := s.Get(ctx, "session", "abc")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set upserts", func(t *testing.T) {
		s, mock := setupMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "local_entries"`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, s.Set(ctx, "session", "abc", "token", time.Hour))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOpen_SelectsDriver(t *testing.T) {
	s, err := Open(&config.Config{LocalStoreDriver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(&config.Config{LocalStoreDriver: "etcd"})
	assert.Error(t, err)
}
