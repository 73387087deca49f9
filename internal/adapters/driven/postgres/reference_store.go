package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
	"github.com/aeromaint-labs/relgraph-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ReferenceStore = (*ReferenceStore)(nil)

// ReferenceStore implements driven.ReferenceStore using PostgreSQL
type ReferenceStore struct {
	db *DB
}

// NewReferenceStore creates a new ReferenceStore
func NewReferenceStore(db *DB) *ReferenceStore {
	return &ReferenceStore{db: db}
}

const referenceColumns = `id, source_document_id, target_document_id, source_version_id, target_version_id,
	reference_type, source_section_id, target_section_id, context, relevance_score, is_active, metadata,
	created_at, updated_at`

// Add inserts an edge, relying on the COALESCEd unique index over the edge
// tuple for dedup under concurrent callers: a duplicate key returns the
// stored edge rather than an error.
func (s *ReferenceStore) Add(ctx context.Context, ref *domain.DocumentReference) (*domain.DocumentReference, bool, error) {
	metadataJSON, err := json.Marshal(ref.Metadata)
	if err != nil {
		return nil, false, err
	}

	query := `
		INSERT INTO document_references (id, source_document_id, target_document_id, source_version_id,
			target_version_id, reference_type, source_section_id, target_section_id, context,
			relevance_score, is_active, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (source_document_id, target_document_id,
			COALESCE(source_version_id, ''), COALESCE(target_version_id, ''),
			COALESCE(source_section_id, ''), COALESCE(target_section_id, '')) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		ref.ID,
		ref.SourceDocumentID,
		ref.TargetDocumentID,
		NullString(ref.SourceVersionID),
		NullString(ref.TargetVersionID),
		ref.ReferenceType.String(),
		NullString(ref.SourceSectionID),
		NullString(ref.TargetSectionID),
		ref.Context,
		ref.RelevanceScore,
		ref.IsActive,
		metadataJSON,
		ref.CreatedAt,
		ref.UpdatedAt,
	)
	if err != nil {
		return nil, false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	if rows > 0 {
		return ref, true, nil
	}

	existing, err := s.getByTuple(ctx, ref)
	if err != nil {
		return nil, false, fmt.Errorf("fetch existing reference: %w", err)
	}
	return existing, false, nil
}

func (s *ReferenceStore) getByTuple(ctx context.Context, ref *domain.DocumentReference) (*domain.DocumentReference, error) {
	query := `
		SELECT ` + referenceColumns + `
		FROM document_references
		WHERE source_document_id = $1 AND target_document_id = $2
			AND COALESCE(source_version_id, '') = COALESCE($3, '')
			AND COALESCE(target_version_id, '') = COALESCE($4, '')
			AND COALESCE(source_section_id, '') = COALESCE($5, '')
			AND COALESCE(target_section_id, '') = COALESCE($6, '')
	`
	return scanReferenceFrom(s.db.QueryRowContext(ctx, query,
		ref.SourceDocumentID,
		ref.TargetDocumentID,
		NullString(ref.SourceVersionID),
		NullString(ref.TargetVersionID),
		NullString(ref.SourceSectionID),
		NullString(ref.TargetSectionID),
	))
}

// Get retrieves an edge by ID
func (s *ReferenceStore) Get(ctx context.Context, id string) (*domain.DocumentReference, error) {
	query := `
		SELECT ` + referenceColumns + `
		FROM document_references
		WHERE id = $1
	`
	return scanReferenceFrom(s.db.QueryRowContext(ctx, query, id))
}

// ListFrom returns edges whose source is documentID, newest first
func (s *ReferenceStore) ListFrom(ctx context.Context, documentID string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error) {
	return s.list(ctx, documentID, "source_document_id", "source_version_id", filter)
}

// ListTo returns edges whose target is documentID, newest first
func (s *ReferenceStore) ListTo(ctx context.Context, documentID string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error) {
	return s.list(ctx, documentID, "target_document_id", "target_version_id", filter)
}

func (s *ReferenceStore) list(ctx context.Context, documentID, docColumn, versionColumn string, filter domain.ReferenceFilter) ([]*domain.DocumentReference, error) {
	query := `
		SELECT ` + referenceColumns + `
		FROM document_references
		WHERE ` + docColumn + ` = $1
	`
	args := []any{documentID}

	if !filter.IncludeInactive {
		query += ` AND is_active`
	}
	if filter.VersionID != nil {
		args = append(args, *filter.VersionID)
		query += fmt.Sprintf(` AND %s = $%d`, versionColumn, len(args))
	}
	if filter.Type != nil {
		args = append(args, filter.Type.String())
		query += fmt.Sprintf(` AND reference_type = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []*domain.DocumentReference
	for rows.Next() {
		ref, err := scanReferenceFrom(rows)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return refs, nil
}

// AffectedDocuments returns the distinct source document IDs of active
// edges targeting documentID
func (s *ReferenceStore) AffectedDocuments(ctx context.Context, documentID string) ([]string, error) {
	query := `
		SELECT DISTINCT source_document_id
		FROM document_references
		WHERE target_document_id = $1 AND is_active
		ORDER BY source_document_id
	`
	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes an edge and returns the removed record
func (s *ReferenceStore) Delete(ctx context.Context, id string) (*domain.DocumentReference, error) {
	query := `
		DELETE FROM document_references
		WHERE id = $1
		RETURNING ` + referenceColumns + `
	`
	return scanReferenceFrom(s.db.QueryRowContext(ctx, query, id))
}

// Deactivate marks the given edges inactive
func (s *ReferenceStore) Deactivate(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE document_references
		SET is_active = FALSE, updated_at = now()
		WHERE id = ANY($1)
	`
	_, err := s.db.ExecContext(ctx, query, pq.Array(ids))
	return err
}

func scanReferenceFrom(row rowScanner) (*domain.DocumentReference, error) {
	var ref domain.DocumentReference
	var sourceVersionID, targetVersionID, sourceSectionID, targetSectionID sql.NullString
	var referenceType string
	var metadataJSON []byte

	err := row.Scan(
		&ref.ID,
		&ref.SourceDocumentID,
		&ref.TargetDocumentID,
		&sourceVersionID,
		&targetVersionID,
		&referenceType,
		&sourceSectionID,
		&targetSectionID,
		&ref.Context,
		&ref.RelevanceScore,
		&ref.IsActive,
		&metadataJSON,
		&ref.CreatedAt,
		&ref.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	ref.SourceVersionID = StringPtr(sourceVersionID)
	ref.TargetVersionID = StringPtr(targetVersionID)
	ref.SourceSectionID = StringPtr(sourceSectionID)
	ref.TargetSectionID = StringPtr(targetSectionID)
	ref.ReferenceType = domain.ReferenceType(referenceType)

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &ref.Metadata); err != nil {
			return nil, err
		}
	}
	return &ref, nil
}
