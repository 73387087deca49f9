package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
	"github.com/aeromaint-labs/relgraph-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConflictStore = (*ConflictStore)(nil)

// ConflictStore implements driven.ConflictStore using PostgreSQL
type ConflictStore struct {
	db *DB
}

// NewConflictStore creates a new ConflictStore
func NewConflictStore(db *DB) *ConflictStore {
	return &ConflictStore{db: db}
}

const conflictColumns = `id, document_id_1, document_id_2, conflict_type, description, severity, status,
	resolution, metadata, created_at, updated_at, resolved_at`

// Add inserts a conflict, relying on the (document_id_1, document_id_2,
// conflict_type) unique constraint for dedup: a duplicate key returns the
// stored conflict rather than an error.
func (s *ConflictStore) Add(ctx context.Context, c *domain.DocumentConflict) (*domain.DocumentConflict, bool, error) {
	metadataJSON, err := json.Marshal(c.Metadata)
	if err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO document_conflicts (id, document_id_1, document_id_2, conflict_type, description,
			severity, status, resolution, metadata, created_at, updated_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (document_id_1, document_id_2, conflict_type) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		c.ID,
		c.DocumentID1,
		c.DocumentID2,
		c.ConflictType,
		c.Description,
		c.Severity.String(),
		c.Status.String(),
		NullString(c.Resolution),
		metadataJSON,
		c.CreatedAt,
		c.UpdatedAt,
		NullTime(c.ResolvedAt),
	)
	if err != nil {
		return nil, false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if rows > 0 {
		return c, true, nil
	}

	existing, err := s.getByKey(ctx, c.DocumentID1, c.DocumentID2, c.ConflictType)
	if err != nil {
		return nil, false, fmt.Errorf("fetch existing conflict: %w", err)
	}
	return existing, false, nil
}

func (s *ConflictStore) getByKey(ctx context.Context, doc1, doc2, conflictType string) (*domain.DocumentConflict, error) {
	query := `
		SELECT ` + conflictColumns + `
		FROM document_conflicts
		WHERE document_id_1 = $1 AND document_id_2 = $2 AND conflict_type = $3
	`
	return scanConflictFrom(s.db.QueryRowContext(ctx, query, doc1, doc2, conflictType))
}

// Get retrieves a conflict by ID
func (s *ConflictStore) Get(ctx context.Context, id string) (*domain.DocumentConflict, error) {
	query := `
		SELECT ` + conflictColumns + `
		FROM document_conflicts
		WHERE id = $1
	`
	return scanConflictFrom(s.db.QueryRowContext(ctx, query, id))
}

// List returns conflicts matching the filter, newest first. The filter
// document ID matches either side of the pair.
func (s *ConflictStore) List(ctx context.Context, filter domain.ConflictFilter) ([]*domain.DocumentConflict, error) {
	query := `
		SELECT ` + conflictColumns + `
		FROM document_conflicts
		WHERE TRUE
	`
	var args []any

	if filter.DocumentID != nil {
		args = append(args, *filter.DocumentID)
		query += fmt.Sprintf(` AND (document_id_1 = $%d OR document_id_2 = $%d)`, len(args), len(args))
	}
	if filter.Status != nil {
		args = append(args, filter.Status.String())
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Severity != nil {
		args = append(args, filter.Severity.String())
		query += fmt.Sprintf(` AND severity = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conflicts []*domain.DocumentConflict
	for rows.Next() {
		c, err := scanConflictFrom(rows)
		if err != nil {
			return nil, err
		}
		conflicts = append(conflicts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return conflicts, nil
}

// Resolve transitions a conflict out of the open state
func (s *ConflictStore) Resolve(ctx context.Context, id, resolution string, status domain.ConflictStatus) (*domain.DocumentConflict, error) {
	query := `
		UPDATE document_conflicts
		SET resolution = $2, status = $3, resolved_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING ` + conflictColumns + `
	`
	return scanConflictFrom(s.db.QueryRowContext(ctx, query, id, resolution, status.String()))
}

func scanConflictFrom(row rowScanner) (*domain.DocumentConflict, error) {
	var c domain.DocumentConflict
	var severity, status string
	var resolution sql.NullString
	var resolvedAt sql.NullTime
	var metadataJSON []byte

	err := row.Scan(
		&c.ID,
		&c.DocumentID1,
		&c.DocumentID2,
		&c.ConflictType,
		&c.Description,
		&severity,
		&status,
		&resolution,
		&metadataJSON,
		&c.CreatedAt,
		&c.UpdatedAt,
		&resolvedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c.Severity = domain.Severity(severity)
	c.Status = domain.ConflictStatus(status)
	c.Resolution = StringPtr(resolution)
	c.ResolvedAt = TimePtr(resolvedAt)

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &c.Metadata); err != nil {
			return nil, err
		}
	}
	return &c, nil
}
