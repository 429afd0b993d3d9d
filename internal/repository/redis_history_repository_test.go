package repository_test

import (
	"context"
	"testing"

	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/Lutefd/currency-converter/internal/repository"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*repository.RedisHistoryRepository, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub redis server", err)
	}

	repo, err := repository.NewRedisHistoryRepository(mr.Addr(), "", "")
	if err != nil {
		t.Fatalf("failed to create Redis history repository: %v", err)
	}

	return repo, mr
}

func TestNewRedisHistoryRepository_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = repository.NewRedisHistoryRepository(addr, "", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestRedisHistoryRepository_AppendAndList(t *testing.T) {
	repo, mr := setupTestRedis(t)
	defer mr.Close()
	defer repo.Close()

	ctx := context.Background()
	first, second, third := newRecord(1), newRecord(2), newRecord(3)
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	require.NoError(t, repo.Append(ctx, third))

	stored, err := mr.List(repository.DefaultHistoryKey)
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	records, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, third.ID, records[0].ID)
	assert.Equal(t, first.ID, records[2].ID)

	records, err = repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, third.ID, records[0].ID)
	assert.Equal(t, second.ID, records[1].ID)
}

func TestRedisHistoryRepository_Corrupt(t *testing.T) {
	repo, mr := setupTestRedis(t)
	defer mr.Close()
	defer repo.Close()

	_, err := mr.Push(repository.DefaultHistoryKey, "not json")
	require.NoError(t, err)

	_, err = repo.List(context.Background(), 0)
	assert.ErrorIs(t, err, model.ErrHistoryCorrupt)
}

func TestRedisHistoryRepository_Clear(t *testing.T) {
	repo, mr := setupTestRedis(t)
	defer mr.Close()
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, newRecord(1)))
	require.NoError(t, repo.Clear(ctx))

	records, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.False(t, mr.Exists(repository.DefaultHistoryKey))
}

func TestRedisHistoryRepository_Close(t *testing.T) {
	repo, mr := setupTestRedis(t)
	defer mr.Close()

	assert.NoError(t, repo.Close())

	err := repo.Append(context.Background(), newRecord(1))
	assert.Error(t, err)
}
