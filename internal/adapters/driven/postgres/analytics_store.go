package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
	"github.com/aeromaint-labs/relgraph-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AnalyticsStore = (*AnalyticsStore)(nil)

// AnalyticsStore implements driven.AnalyticsStore using PostgreSQL
type AnalyticsStore struct {
	db *DB
}

// NewAnalyticsStore creates a new AnalyticsStore
func NewAnalyticsStore(db *DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

const analyticsColumns = `document_id, reference_count, view_count, last_referenced_at, last_viewed_at,
	reference_distribution, metadata`

// RecomputeReferences rebuilds the reference aggregates from the live edge
// set in one statement, so concurrent recomputes for the same document
// cannot interleave a stale count between the read and the write.
func (s *AnalyticsStore) RecomputeReferences(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error) {
	query := `
		WITH agg AS (
			SELECT reference_type, COUNT(*) AS cnt
			FROM document_references
			WHERE target_document_id = $1 AND is_active
			GROUP BY reference_type
		)
		INSERT INTO document_analytics (document_id, reference_count, view_count, last_referenced_at, reference_distribution)
		SELECT $1,
			COALESCE((SELECT SUM(cnt) FROM agg), 0)::int,
			0,
			now(),
			COALESCE((SELECT jsonb_object_agg(reference_type, cnt) FROM agg), '{}'::jsonb)
		ON CONFLICT (document_id) DO UPDATE SET
			reference_count = EXCLUDED.reference_count,
			reference_distribution = EXCLUDED.reference_distribution,
			last_referenced_at = EXCLUDED.last_referenced_at
		RETURNING ` + analyticsColumns + `
	`
	return scanAnalyticsFrom(s.db.QueryRowContext(ctx, query, documentID))
}

// RecordView atomically increments the view counter, creating the row on
// first view.
func (s *AnalyticsStore) RecordView(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error) {
	query := `
		INSERT INTO document_analytics (document_id, view_count, last_viewed_at)
		VALUES ($1, 1, now())
		ON CONFLICT (document_id) DO UPDATE SET
			view_count = document_analytics.view_count + 1,
			last_viewed_at = EXCLUDED.last_viewed_at
		RETURNING ` + analyticsColumns + `
	`
	return scanAnalyticsFrom(s.db.QueryRowContext(ctx, query, documentID))
}

// Get retrieves the analytics row for a document
func (s *AnalyticsStore) Get(ctx context.Context, documentID string) (*domain.DocumentAnalytics, error) {
	query := `
		SELECT ` + analyticsColumns + `
		FROM document_analytics
		WHERE document_id = $1
	`
	return scanAnalyticsFrom(s.db.QueryRowContext(ctx, query, documentID))
}

// TopByReferences returns up to limit rows by reference count descending
func (s *AnalyticsStore) TopByReferences(ctx context.Context, limit int) ([]*domain.DocumentAnalytics, error) {
	return s.top(ctx, "reference_count", limit)
}

// TopByViews returns up to limit rows by view count descending
func (s *AnalyticsStore) TopByViews(ctx context.Context, limit int) ([]*domain.DocumentAnalytics, error) {
	return s.top(ctx, "view_count", limit)
}

func (s *AnalyticsStore) top(ctx context.Context, column string, limit int) ([]*domain.DocumentAnalytics, error) {
	query := `
		SELECT ` + analyticsColumns + `
		FROM document_analytics
		ORDER BY ` + column + ` DESC, document_id
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.DocumentAnalytics
	for rows.Next() {
		a, err := scanAnalyticsFrom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAnalyticsFrom(row rowScanner) (*domain.DocumentAnalytics, error) {
	var a domain.DocumentAnalytics
	var lastReferencedAt, lastViewedAt sql.NullTime
	var distributionJSON, metadataJSON []byte

	err := row.Scan(
		&a.DocumentID,
		&a.ReferenceCount,
		&a.ViewCount,
		&lastReferencedAt,
		&lastViewedAt,
		&distributionJSON,
		&metadataJSON,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	a.LastReferencedAt = TimePtr(lastReferencedAt)
	a.LastViewedAt = TimePtr(lastViewedAt)

	if len(distributionJSON) > 0 {
		if err := json.Unmarshal(distributionJSON, &a.ReferenceDistribution); err != nil {
			return nil, err
		}
	}
	if a.ReferenceDistribution == nil {
		a.ReferenceDistribution = make(map[domain.ReferenceType]int)
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &a.Metadata); err != nil {
			return nil, err
		}
	}
	return &a, nil
}
