package driven

import (
	"context"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// NotificationStore persists document update notifications.
type NotificationStore interface {
	// Add inserts a notification record.
	Add(ctx context.Context, n *domain.UpdateNotification) (*domain.UpdateNotification, error)

	// List returns notifications for a document, newest first. With an
	// empty documentID all documents are included. unreadOnly restricts to
	// IsRead == false. limit <= 0 means no bound.
	List(ctx context.Context, documentID string, unreadOnly bool, limit int) ([]*domain.UpdateNotification, error)

	// MarkRead flips IsRead on the notification with the given
	// notification token. Returns domain.ErrNotFound if missing.
	MarkRead(ctx context.Context, notificationID string) error
}
