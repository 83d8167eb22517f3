package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
	"github.com/johnquangdev/standup-assistant/internal/domain/repositories"
)

var standupsBucket = []byte("standups")

// BoltStore is the standup archive used by the terminal facilitator
type BoltStore struct {
	db *bolt.DB
}

var _ repositories.StandupRepository = (*BoltStore)(nil)

// DefaultPath is ~/.standup/history.bolt, falling back to the working directory
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".standup", "history.bolt")
}

// Open opens or creates the history file
func Open(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(standupsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare history: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the file
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Create stores a finished standup
func (s *BoltStore) Create(_ context.Context, record *entities.StandupRecord) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	return s.put(record)
}

// FindByID finds a standup
func (s *BoltStore) FindByID(_ context.Context, id uuid.UUID) (*entities.StandupRecord, error) {
	var record *entities.StandupRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(standupsBucket).Get([]byte(id.String()))
		if v == nil {
			return entities.ErrStandupNotFound
		}
		record = &entities.StandupRecord{}
		return json.Unmarshal(v, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListByTeam returns the latest standups of a team; an empty team lists all
func (s *BoltStore) ListByTeam(_ context.Context, teamID string, limit int) ([]*entities.StandupRecord, error) {
	var records []*entities.StandupRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(standupsBucket).ForEach(func(_, v []byte) error {
			var rec entities.StandupRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				// skip malformed entries
				return nil
			}
			if teamID == "" || rec.TeamID == teamID {
				records = append(records, &rec)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].FinishedAt.After(records[j].FinishedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// UpdateArchiveKey records where the export was uploaded
func (s *BoltStore) UpdateArchiveKey(ctx context.Context, id uuid.UUID, key string) error {
	rec, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	rec.SetArchiveKey(key)
	return s.put(rec)
}

func (s *BoltStore) put(record *entities.StandupRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode standup: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(standupsBucket).Put([]byte(record.ID.String()), data)
	})
}
