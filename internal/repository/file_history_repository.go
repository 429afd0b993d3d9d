package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Lutefd/currency-converter/internal/model"
)

// FileHistoryRepository keeps the history as a JSON array in a single file.
// Appends overwrite the closing bracket in place instead of rewriting the file.
type FileHistoryRepository struct {
	path string
	mu   sync.Mutex
}

func NewFileHistoryRepository(path string) *FileHistoryRepository {
	return &FileHistoryRepository{path: path}
}

func (r *FileHistoryRepository) Append(ctx context.Context, record model.ConversionRecord) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(record, "  ", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close history file: %w", cerr)
		}
	}()

	offset, empty, err := closingBracket(f)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if offset == 0 {
		buf.WriteString("[")
	}
	if !empty {
		buf.WriteString(",")
	}
	buf.WriteString("\n  ")
	buf.Write(payload)
	buf.WriteString("\n]\n")

	if _, err := f.WriteAt(buf.Bytes(), offset); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	if err := f.Truncate(offset + int64(buf.Len())); err != nil {
		return fmt.Errorf("failed to truncate history file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync history file: %w", err)
	}
	return nil
}

// decodeHistory is the validity rule shared by reads and appends: blank content
// is an empty history, anything else must decode as a JSON array of records.
func decodeHistory(data []byte) ([]model.ConversionRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []model.ConversionRecord{}, nil
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: content is not a JSON array", model.ErrHistoryCorrupt)
	}

	var records []model.ConversionRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrHistoryCorrupt, err)
	}
	return records, nil
}

// closingBracket validates the whole file and finds where the next record must
// be written: offset 0 for a new or blank file, otherwise just past the last
// element (or past '[' when the array has no elements).
func closingBracket(f *os.File) (int64, bool, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read history file: %w", err)
	}
	records, err := decodeHistory(data)
	if err != nil {
		return 0, false, err
	}

	trimmed := bytes.TrimRight(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0, true, nil
	}
	before := bytes.TrimRight(trimmed[:len(trimmed)-1], " \t\r\n")
	return int64(len(before)), len(records) == 0, nil
}

func (r *FileHistoryRepository) List(ctx context.Context, limit int) ([]model.ConversionRecord, error) {
	records, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(records, limit), nil
}

func (r *FileHistoryRepository) readAll(ctx context.Context) ([]model.ConversionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	data, err := os.ReadFile(r.path)
	r.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.ConversionRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	return decodeHistory(data)
}

func (r *FileHistoryRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove history file: %w", err)
	}
	return nil
}

func (r *FileHistoryRepository) Close() error {
	return nil
}
