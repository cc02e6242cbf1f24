// internal/services/other_services.go
// Notification and analytics services. Grounded on
// original_source/backend/app/services/notification_service.py (fire-and-
// forget notification stubs) and the teacher's AnalyticsService (MongoDB
// sink, errors swallowed rather than surfaced).

package services

import (
	"context"
	"log"
	"time"

	"tourney-engine/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationService handles fire-and-forget match notifications. Full
// delivery (email/push/SMS) is out of scope; this logs what would be sent.
type NotificationService struct {
	logger *log.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(logger *log.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// NotifyFixturesGenerated announces a competition's fixtures have been
// emitted (league, group, or cup draw).
func (s *NotificationService) NotifyFixturesGenerated(competitionID int64, teamCount int) {
	s.logger.Printf("Would notify %d teams about fixtures generated for competition %d", teamCount, competitionID)
}

// NotifyMatchScheduled notifies a match's participants of its date.
func (s *NotificationService) NotifyMatchScheduled(match *models.Match) {
	s.logger.Printf("Would notify participants about match %d scheduled for %v", match.ID, match.MatchDate)
}

// NotifyMatchConfirmed notifies participants a result has been confirmed.
func (s *NotificationService) NotifyMatchConfirmed(match *models.Match) {
	s.logger.Printf("Would notify participants about match %d confirmed %v-%v", match.ID, match.HomeScore, match.AwayScore)
}

// ========================================

// AnalyticsService records one-way instrumentation events to MongoDB. This
// is explicitly not the audit/replay log the spec rules out — it is
// unqueried by the engine itself and safe to drop without affecting
// correctness (mirrors the teacher's "don't break the app" posture).
type AnalyticsService struct {
	db     *mongo.Database
	logger *log.Logger
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(db *mongo.Database, logger *log.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, logger: logger}
}

// LogEvent records a domain event (fixtures_generated, groups_drawn,
// bracket_generated, qualification_run) to the tpe_analytics collection.
func (s *AnalyticsService) LogEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	event := bson.M{
		"type":       eventType,
		"data":       data,
		"created_at": time.Now().UTC(),
	}
	if _, err := s.db.Collection("tpe_analytics").InsertOne(ctx, event); err != nil {
		s.logger.Printf("failed to log analytics event %s: %v", eventType, err)
	}
}
