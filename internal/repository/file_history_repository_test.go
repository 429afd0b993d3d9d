package repository_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Lutefd/currency-converter/internal/model"
	"github.com/Lutefd/currency-converter/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(amount float64) model.ConversionRecord {
	return model.ConversionRecord{
		ID:              uuid.New(),
		Timestamp:       time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC),
		Source:          model.USD,
		Target:          model.EUR,
		Amount:          amount,
		ConvertedAmount: amount * 0.9,
		RateUsed:        0.9,
	}
}

func TestFileHistoryRepository_AppendAndList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	repo := repository.NewFileHistoryRepository(path)
	ctx := context.Background()

	records, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	first, second, third := newRecord(1), newRecord(2), newRecord(3)
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	require.NoError(t, repo.Append(ctx, third))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk []model.ConversionRecord
	require.NoError(t, json.Unmarshal(data, &onDisk), string(data))
	require.Len(t, onDisk, 3)
	assert.Equal(t, first.ID, onDisk[0].ID)
	assert.Equal(t, third.ID, onDisk[2].ID)

	records, err = repo.List(ctx, 0)
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

func TestFileHistoryRepository_AppendToExistingFile(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		expected int
	}{
		{name: "empty array", contents: "[]", expected: 1},
		{name: "empty array with whitespace", contents: "[\n  ]\n\n", expected: 1},
		{name: "blank file", contents: "  \n", expected: 1},
		{name: "compact array", contents: `[{"from":"USD","to":"EUR","amount":1,"result":0.9,"rate":0.9}]`, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "history.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0o644))

			repo := repository.NewFileHistoryRepository(path)
			require.NoError(t, repo.Append(context.Background(), newRecord(10)))

			records, err := repo.List(context.Background(), 0)
			require.NoError(t, err)
			assert.Len(t, records, tt.expected)
			assert.Equal(t, 10.0, records[0].Amount)
		})
	}
}

func TestFileHistoryRepository_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"}`), 0o644))

	repo := repository.NewFileHistoryRepository(path)

	err := repo.Append(context.Background(), newRecord(1))
	assert.ErrorIs(t, err, model.ErrHistoryCorrupt)

	_, err = repo.List(context.Background(), 0)
	assert.ErrorIs(t, err, model.ErrHistoryCorrupt)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"not":"an array"}`, string(data))
}

const legacyHistory = `[
  {
    "amount": 100.0,
    "from": "USD",
    "to": "EUR",
    "rate": 0.92,
    "result": 92.0,
    "timestamp": "2024-03-01T12:00:00.123456"
  },
  {
    "amount": 5,
    "from": "GBP",
    "to": "JPY",
    "rate": 190.5,
    "result": 952.5,
    "timestamp": "2024-03-01T11:58:02"
  }
]`

func TestFileHistoryRepository_AppendToLegacyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversion_history.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyHistory), 0o644))
	repo := repository.NewFileHistoryRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, newRecord(10)))

	records, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 10.0, records[0].Amount)
	assert.Equal(t, model.GBP, records[1].Source)
	assert.Equal(t, 952.5, records[1].ConvertedAmount)
	assert.True(t, time.Date(2024, time.March, 1, 12, 0, 0, 123456000, time.Local).Equal(records[2].Timestamp))
}

func TestFileHistoryRepository_AppendAndListAgree(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		valid    bool
		expected int
	}{
		{name: "long whitespace tail", contents: "[]" + strings.Repeat(" ", 5000), valid: true, expected: 1},
		{name: "long whitespace tail after records", contents: `[{"from":"USD","to":"EUR","amount":1,"result":0.9,"rate":0.9}]` + strings.Repeat("\n", 5000), valid: true, expected: 2},
		{name: "broken element before a valid tail", contents: `[{"from":"USD","amount":"lots"},{"from":"USD","to":"EUR","amount":1}]`},
		{name: "bad timestamp", contents: `[{"from":"USD","to":"EUR","timestamp":"yesterday"}]`},
		{name: "null document", contents: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "history.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0o644))
			repo := repository.NewFileHistoryRepository(path)
			ctx := context.Background()

			_, listErr := repo.List(ctx, 0)
			appendErr := repo.Append(ctx, newRecord(10))

			if !tt.valid {
				assert.ErrorIs(t, listErr, model.ErrHistoryCorrupt)
				assert.ErrorIs(t, appendErr, model.ErrHistoryCorrupt)
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, tt.contents, string(data), "corrupt history must not be modified")
				return
			}

			require.NoError(t, listErr)
			require.NoError(t, appendErr)
			records, err := repo.List(ctx, 0)
			require.NoError(t, err)
			assert.Len(t, records, tt.expected)
			assert.Equal(t, 10.0, records[0].Amount)
		})
	}
}

func TestFileHistoryRepository_ReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	defer os.Chmod(dir, 0o700)

	repo := repository.NewFileHistoryRepository(filepath.Join(dir, "history.json"))
	err := repo.Append(context.Background(), newRecord(1))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open history file")
}

func TestFileHistoryRepository_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	repo := repository.NewFileHistoryRepository(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Append(context.Background(), newRecord(float64(i))))
		}(i)
	}
	wg.Wait()

	records, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestFileHistoryRepository_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	repo := repository.NewFileHistoryRepository(path)
	ctx := context.Background()

	assert.NoError(t, repo.Clear(ctx))

	require.NoError(t, repo.Append(ctx, newRecord(1)))
	require.NoError(t, repo.Clear(ctx))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	records, err := repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, repo.Close())
}

func TestFileHistoryRepository_CanceledContext(t *testing.T) {
	repo := repository.NewFileHistoryRepository(filepath.Join(t.TempDir(), "history.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Append(ctx, newRecord(1)), context.Canceled)
}
