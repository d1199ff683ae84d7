package infra

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/domain"
)

// RunSummary is the listing view of one stored run.
type RunSummary struct {
	RunID        string `json:"run_id"`
	GeneratedAt  int64  `json:"generated_at"`
	PoolCount    int    `json:"pool_count"`
	LinkCount    int    `json:"link_count"`
	ClusterCount int    `json:"cluster_count"`
	FindingCount int    `json:"finding_count"`
}

// ArtifactStore persists completed run results so the API can serve them
// after the analysis process moved on. Runs are immutable once saved.
type ArtifactStore interface {
	SaveRun(result *domain.RunResult) error
	GetRun(runID string) (*domain.RunResult, error)
	LatestRun() (*domain.RunResult, error)
	ListRuns() ([]RunSummary, error)
	Close() error
}

// Key prefixes for the stored record types
const (
	runPrefix    = "run:"
	latestRunKey = "latest-run"
)

// BadgerArtifactStore implements ArtifactStore on BadgerDB.
type BadgerArtifactStore struct {
	db *badger.DB
}

// NewBadgerArtifactStore opens (or creates) the store at dbPath.
func NewBadgerArtifactStore(dbPath string) (*BadgerArtifactStore, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}
	return &BadgerArtifactStore{db: db}, nil
}

// Close closes the BadgerDB connection.
func (s *BadgerArtifactStore) Close() error {
	return s.db.Close()
}

func runKey(runID string) []byte {
	return []byte(runPrefix + runID)
}

// SaveRun stores the result JSON and moves the latest-run pointer.
func (s *BadgerArtifactStore) SaveRun(result *domain.RunResult) error {
	if result == nil || result.RunID == "" {
		return fmt.Errorf("refusing to save run without id")
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal run %s: %w", result.RunID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(runKey(result.RunID), data); err != nil {
			return err
		}
		return txn.Set([]byte(latestRunKey), []byte(result.RunID))
	})
}

// GetRun loads one run by id.
func (s *BadgerArtifactStore) GetRun(runID string) (*domain.RunResult, error) {
	var result domain.RunResult
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(runKey(runID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// LatestRun loads the most recently saved run.
func (s *BadgerArtifactStore) LatestRun() (*domain.RunResult, error) {
	var runID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(latestRunKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			runID = string(val)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, fmt.Errorf("no runs stored yet")
	}
	if err != nil {
		return nil, err
	}
	return s.GetRun(runID)
}

// ListRuns returns summaries of every stored run, newest first.
func (s *BadgerArtifactStore) ListRuns() ([]RunSummary, error) {
	var summaries []RunSummary
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(runPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var result domain.RunResult
				if err := json.Unmarshal(val, &result); err != nil {
					return err
				}
				summaries = append(summaries, RunSummary{
					RunID:        result.RunID,
					GeneratedAt:  result.GeneratedAt,
					PoolCount:    len(result.Pools),
					LinkCount:    len(result.Links),
					ClusterCount: len(result.Clusters),
					FindingCount: len(result.Findings),
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Newest first; id breaks ties.
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].GeneratedAt != summaries[j].GeneratedAt {
			return summaries[i].GeneratedAt > summaries[j].GeneratedAt
		}
		return summaries[i].RunID < summaries[j].RunID
	})
	return summaries, nil
}
