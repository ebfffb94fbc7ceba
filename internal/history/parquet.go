package history

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/parquet-go/parquet-go"
)

// Export writes the current list to w as a Parquet file.
func (s *Store) Export(ctx context.Context, w io.Writer) (int, error) {
	entries := s.List(ctx)

	writer := parquet.NewGenericWriter[Entry](w)
	n, err := writer.Write(entries)
	if err != nil {
		return n, fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return n, fmt.Errorf("failed to close parquet writer: %w", err)
	}

	slog.Debug("Exported continue watching", "rows", n)
	return n, nil
}

// Import replaces the list with the rows of a Parquet file. Row order is
// kept; duplicate ids and rows past the cap are dropped.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read parquet input: %w", err)
	}

	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Entry](pf)
	defer reader.Close()

	var entries []Entry
	rows := make([]Entry, 64)
	for {
		n, err := reader.Read(rows)
		entries = append(entries, rows[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	entries = normalize(entries)
	if err := s.Replace(ctx, entries); err != nil {
		return 0, err
	}

	slog.Debug("Imported continue watching", "rows", len(entries))
	return len(entries), nil
}
