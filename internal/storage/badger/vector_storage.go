package badger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/tobyvann/lectern/internal/interfaces"
	"github.com/tobyvann/lectern/internal/models"
)

// VectorStorage implements the VectorStorage interface for Badger.
// Similarity search is a brute-force cosine scan over all records, which is
// appropriate for the collection sizes this service targets.
type VectorStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewVectorStorage creates a new VectorStorage instance
func NewVectorStorage(db *BadgerDB, logger arbor.ILogger) interfaces.VectorStorage {
	return &VectorStorage{
		db:     db,
		logger: logger,
	}
}

func (s *VectorStorage) Insert(ctx context.Context, records []*models.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	// Record ids are fresh uuids, so a commit conflict can only come from
	// unrelated concurrent writes; one retry is enough in practice.
	for attempt := 0; ; attempt++ {
		err := s.insertTxn(ctx, records)
		if err == nil {
			return nil
		}
		if errors.Is(err, badgerdb.ErrConflict) && attempt == 0 {
			s.logger.Debug().Int("records", len(records)).Msg("Insert transaction conflict, retrying")
			continue
		}
		return err
	}
}

// insertTxn writes all records in a single badger transaction so a failure
// commits nothing.
func (s *VectorStorage) insertTxn(ctx context.Context, records []*models.VectorRecord) error {
	tx := s.db.Store().Badger().NewTransaction(true)
	defer tx.Discard()

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rec.ID == "" {
			return fmt.Errorf("vector record ID is required")
		}
		if err := s.db.Store().TxInsert(tx, rec.ID, rec); err != nil {
			return fmt.Errorf("failed to insert vector record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vector records: %w", err)
	}
	return nil
}

func (s *VectorStorage) Search(ctx context.Context, embedding []float32, k int, filter *models.SearchFilter) ([]models.ScoredRecord, error) {
	if k <= 0 {
		return []models.ScoredRecord{}, nil
	}

	scored := make([]models.ScoredRecord, 0, k)
	err := s.db.Store().ForEach(nil, func(rec *models.VectorRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !filter.Matches(rec) {
			return nil
		}
		sim, ok := cosineSimilarity(embedding, rec.Embedding)
		if !ok {
			// Dimension mismatch, e.g. records written under a different
			// embedding model. Skip rather than poison the result set.
			s.logger.Warn().Str("record_id", rec.ID).Msg("Skipping record with mismatched embedding dimension")
			return nil
		}
		scored = append(scored, models.ScoredRecord{Record: rec, Similarity: sim})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vector scan failed: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (s *VectorStorage) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count, err := s.db.Store().Count(&models.VectorRecord{}, badgerhold.Where("DocumentID").Eq(documentID))
	if err != nil {
		return 0, fmt.Errorf("failed to count document records: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.VectorRecord{}, badgerhold.Where("DocumentID").Eq(documentID)); err != nil {
		return 0, fmt.Errorf("failed to delete document records: %w", err)
	}
	return int(count), nil
}

func (s *VectorStorage) DropAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Store().DeleteMatching(&models.VectorRecord{}, nil); err != nil {
		return fmt.Errorf("failed to drop vector records: %w", err)
	}
	return nil
}

func (s *VectorStorage) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := s.db.Store().Count(&models.VectorRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count vector records: %w", err)
	}
	return int(count), nil
}

// cosineSimilarity returns the cosine of the angle between a and b.
// ok is false when the dimensions differ; zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, true
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
