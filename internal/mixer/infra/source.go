package infra

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

// RawBatchSource hands the analyzer one bounded batch of raw provider
// records. Acquisition (indexer querying, response caching, credentials)
// lives behind this boundary; the core itself never does I/O.
type RawBatchSource interface {
	ReadBatch(ctx context.Context) ([]domain.RawRecord, error)
}

// FileBatchSource reads raw records from a local JSON export: either one
// JSON array or JSONL, one record per line.
type FileBatchSource struct {
	Path string
}

// NewFileBatchSource returns a source over the given file.
func NewFileBatchSource(path string) *FileBatchSource {
	return &FileBatchSource{Path: path}
}

// ReadBatch loads the whole file. The batch is bounded by construction, so
// ctx only guards the open.
func (s *FileBatchSource) ReadBatch(ctx context.Context) ([]domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open batch file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, err := peekNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	if head == '[' {
		var records []domain.RawRecord
		if err := json.NewDecoder(br).Decode(&records); err != nil {
			return nil, fmt.Errorf("decode batch array: %w", err)
		}
		return records, nil
	}

	// JSONL fallback.
	var records []domain.RawRecord
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec domain.RawRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("decode batch line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan batch file: %w", err)
	}
	return records, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(string(b)) == "" {
			if _, err := br.ReadByte(); err != nil {
				return 0, err
			}
			continue
		}
		return b[0], nil
	}
}
