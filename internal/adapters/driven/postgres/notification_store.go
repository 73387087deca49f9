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
var _ driven.NotificationStore = (*NotificationStore)(nil)

// NotificationStore implements driven.NotificationStore using PostgreSQL
type NotificationStore struct {
	db *DB
}

// NewNotificationStore creates a new NotificationStore
func NewNotificationStore(db *DB) *NotificationStore {
	return &NotificationStore{db: db}
}

const notificationColumns = `id, notification_id, document_id, version_id, title, description, severity,
	is_read, affected_documents, metadata, created_at`

// Add inserts a notification record
func (s *NotificationStore) Add(ctx context.Context, n *domain.UpdateNotification) (*domain.UpdateNotification, error) {
	err := s.db.Transaction(ctx, func(tx *sql.Tx) error {
		return insertNotificationTx(ctx, tx, n)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// insertNotificationTx writes a notification inside an existing
// transaction. The version store uses it to commit a version row and its
// notification atomically.
func insertNotificationTx(ctx context.Context, tx *sql.Tx, n *domain.UpdateNotification) error {
	affectedJSON, err := json.Marshal(n.AffectedDocuments)
	if err != nil {
		return err
	}
	metadataJSON, err := json.Marshal(n.Metadata)
	if err != nil {
		return err
	}

	// An unbound notification stores NULL so the version FK holds
	var versionID sql.NullString
	if n.VersionID != "" {
		versionID = sql.NullString{String: n.VersionID, Valid: true}
	}

	query := `
		INSERT INTO update_notifications (id, notification_id, document_id, version_id, title,
			description, severity, is_read, affected_documents, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, query,
		n.ID,
		n.NotificationID,
		n.DocumentID,
		versionID,
		n.Title,
		n.Description,
		n.Severity.String(),
		n.IsRead,
		affectedJSON,
		metadataJSON,
		n.CreatedAt,
	)
	return err
}

// List returns notifications newest first. An empty documentID includes all
// documents.
func (s *NotificationStore) List(ctx context.Context, documentID string, unreadOnly bool, limit int) ([]*domain.UpdateNotification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM update_notifications
		WHERE TRUE
	`
	var args []any

	if documentID != "" {
		args = append(args, documentID)
		query += fmt.Sprintf(` AND document_id = $%d`, len(args))
	}
	if unreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.UpdateNotification
	for rows.Next() {
		n, err := scanNotificationFrom(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flips the read flag on a notification token
func (s *NotificationStore) MarkRead(ctx context.Context, notificationID string) error {
	query := `
		UPDATE update_notifications
		SET is_read = TRUE
		WHERE notification_id = $1
	`
	result, err := s.db.ExecContext(ctx, query, notificationID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanNotificationFrom(row rowScanner) (*domain.UpdateNotification, error) {
	var n domain.UpdateNotification
	var severity string
	var versionID sql.NullString
	var affectedJSON, metadataJSON []byte

	err := row.Scan(
		&n.ID,
		&n.NotificationID,
		&n.DocumentID,
		&versionID,
		&n.Title,
		&n.Description,
		&severity,
		&n.IsRead,
		&affectedJSON,
		&metadataJSON,
		&n.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	n.Severity = domain.Severity(severity)
	n.VersionID = versionID.String
	if len(affectedJSON) > 0 {
		if err := json.Unmarshal(affectedJSON, &n.AffectedDocuments); err != nil {
			return nil, err
		}
	}
	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &n.Metadata); err != nil {
			return nil, err
		}
	}
	return &n, nil
}
