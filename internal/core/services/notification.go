package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aeromaint-labs/relgraph-core/internal/core/domain"
	"github.com/aeromaint-labs/relgraph-core/internal/core/ports/driving"
)

// Ensure NotificationService implements the driving port
var _ driving.NotificationService = (*NotificationService)(nil)

// NotificationService drives the "notify affected documents" workflow on
// top of the relationship engine. Where AddDocumentVersion files a single
// notification on the updated document, this service fans out one
// notification per affected document.
type NotificationService struct {
	engine driving.RelationshipEngine
	logger *slog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(engine driving.RelationshipEngine, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{engine: engine, logger: logger}
}

// NotifyAffectedDocuments creates one update notification per document that
// actively references documentID, each describing that the referenced
// document changed to newVersion.
func (s *NotificationService) NotifyAffectedDocuments(ctx context.Context, documentID, newVersion string, changes map[string]any) ([]*domain.UpdateNotification, error) {
	version, err := s.engine.GetVersion(ctx, documentID, newVersion)
	if err != nil {
		return nil, fmt.Errorf("resolve version %s/%s: %w", documentID, newVersion, err)
	}

	affected, err := s.engine.AffectedDocuments(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("derive affected documents for %s: %w", documentID, err)
	}
	if len(affected) == 0 {
		s.logger.Info("no affected documents to notify", "document_id", documentID, "version", newVersion)
		return nil, nil
	}

	title := fmt.Sprintf("Referenced document %s updated to version %s", documentID, newVersion)
	description := formatChangeSummary(documentID, newVersion, changes)

	notifications := make([]*domain.UpdateNotification, 0, len(affected))
	for _, affectedID := range affected {
		n, err := s.engine.CreateNotification(ctx, &domain.UpdateNotification{
			DocumentID:        affectedID,
			VersionID:         version.ID,
			Title:             title,
			Description:       description,
			Severity:          domain.SeverityMedium,
			AffectedDocuments: []string{affectedID},
		})
		if err != nil {
			return notifications, fmt.Errorf("notify %s: %w", affectedID, err)
		}
		notifications = append(notifications, n)
	}

	s.logger.Info("affected documents notified",
		"document_id", documentID,
		"version", newVersion,
		"notified", len(notifications))
	return notifications, nil
}

// formatChangeSummary renders the change set as a stable, human-readable
// line. Keys are sorted so the same change set always formats identically.
func formatChangeSummary(documentID, version string, changes map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document %s, which this document references, changed in version %s.", documentID, version)
	if len(changes) == 0 {
		return b.String()
	}

	keys := make([]string, 0, len(changes))
	for k := range changes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString(" Changes: ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %v", k, changes[k])
	}
	return b.String()
}
