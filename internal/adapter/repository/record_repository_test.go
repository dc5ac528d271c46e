package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/config"
)

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	store, err := NewSQLStore(context.Background(), DriverSQLite, "file:"+path)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func exerciseStore(t *testing.T, store repository.RecordStore) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "k", "one"))
	require.NoError(t, store.Set(ctx, "k", "two"))

	value, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "two", value)

	require.NoError(t, store.Delete(ctx, "k"))
	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	// deleting an absent key is not an error
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestRecordRepository_MalformedReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRecordRepository(store)

	require.NoError(t, store.Set(ctx, repository.KeyUsers, "{not json"))
	require.NoError(t, store.Set(ctx, repository.NotificationsKey("2"), `"a string"`))
	require.NoError(t, store.Set(ctx, repository.LastNotificationCheckKey("2"), "garbage"))

	users, err := repo.GetUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.NotNil(t, users)

	notifications, err := repo.GetNotifications(ctx, "2")
	require.NoError(t, err)
	assert.Empty(t, notifications)

	at, err := repo.GetLastNotificationCheck(ctx, "2")
	require.NoError(t, err)
	assert.True(t, at.IsZero())
}

func TestRecordRepository_AbsentCollections(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(NewMemoryStore())

	swaps, err := repo.GetSwaps(ctx)
	require.NoError(t, err)
	assert.Empty(t, swaps)

	chat, err := repo.GetChat(ctx, "swap-1")
	require.NoError(t, err)
	assert.Empty(t, chat)

	current, err := repo.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestRecordRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRecordRepository(store)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	swaps := []entity.SwapRequest{{
		ID:         "s1",
		FromUserID: "2",
		ToUserID:   "3",
		FromSkill:  "Go",
		ToSkill:    "Guitar",
		Status:     entity.SwapPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}}
	require.NoError(t, repo.SetSwaps(ctx, swaps))

	raw, found, err := store.Get(ctx, repository.KeySwapRequests)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, raw, `"fromUserId":"2"`)

	loaded, err := repo.GetSwaps(ctx)
	require.NoError(t, err)
	assert.Equal(t, swaps, loaded)

	require.NoError(t, repo.SetLastNotificationCheck(ctx, "3", now))
	at, err := repo.GetLastNotificationCheck(ctx, "3")
	require.NoError(t, err)
	assert.True(t, now.Equal(at))
}

func TestRecordRepository_CurrentUserDropsPassword(t *testing.T) {
	ctx := context.Background()
	repo := NewRecordRepository(NewMemoryStore())

	require.NoError(t, repo.SetCurrentUser(ctx, entity.User{ID: "2", Name: "John Smith", Password: "hash"}))

	current, err := repo.GetCurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "2", current.ID)
	assert.Empty(t, current.Password)

	require.NoError(t, repo.ClearCurrentUser(ctx))
	current, err = repo.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestNewRecordStore_UnknownDriver(t *testing.T) {
	_, err := NewRecordStore(context.Background(), &config.Config{StoreDriver: "cassandra"})
	assert.Error(t, err)

	store, err := NewRecordStore(context.Background(), &config.Config{StoreDriver: "memory"})
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestRedisStore_Keys(t *testing.T) {
	assert.Equal(t, "skillswap:users", redisKey(repository.KeyUsers))
	assert.Equal(t, "skillswap:chat_s1", redisKey(repository.ChatKey("s1")))
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestNewRecordStore_FirestoreNeedsProject(t *testing.T) {
	_, err := NewRecordStore(context.Background(), &config.Config{StoreDriver: "firestore"})
	assert.Error(t, err)
}
