package driving

import (
	"context"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
)

// NotificationService announces document updates to the documents affected
// by them. It sits above the RelationshipEngine: where AddDocumentVersion
// files a single notification on the updated document itself, this service
// files one notification per affected document, each describing that a
// document it references has changed.
type NotificationService interface {
	// NotifyAffectedDocuments re-derives the affected set for documentID
	// at newVersion and creates one notification per affected document.
	// Returns the notifications created.
	NotifyAffectedDocuments(ctx context.Context, documentID, newVersion string, changes map[string]any) ([]*domain.UpdateNotification, error)
}
