package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeReportSubmitted = "report.submitted"
	EventTypeReportReviewed  = "report.reviewed"
	EventTypeReportDeleted   = "report.deleted"

	EventTypeAccountCreated = "account.created"
	EventTypeAccountDeleted = "account.deleted"
)

// AllEventTypes lists the lifecycle events published by the services.
var AllEventTypes = []string{
	EventTypeReportSubmitted,
	EventTypeReportReviewed,
	EventTypeReportDeleted,
	EventTypeAccountCreated,
	EventTypeAccountDeleted,
}

// Publisher is the part of the bus the services depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type ReportEvent struct {
	BaseEvent
	ReportID     int64 `json:"report_id"`
	AuthorID     int64 `json:"author_id"`
	DepartmentID int64 `json:"department_id"`
	ActorID      int64 `json:"actor_id"`
}

func NewReportEvent(eventType string, reportID, authorID, departmentID, actorID int64) *ReportEvent {
	return &ReportEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"report_id":     reportID,
				"author_id":     authorID,
				"department_id": departmentID,
				"actor_id":      actorID,
			},
		},
		ReportID:     reportID,
		AuthorID:     authorID,
		DepartmentID: departmentID,
		ActorID:      actorID,
	}
}

type AccountEvent struct {
	BaseEvent
	AccountID int64  `json:"account_id"`
	Role      string `json:"role"`
	ActorID   int64  `json:"actor_id"`
}

func NewAccountEvent(eventType string, accountID int64, role string, actorID int64) *AccountEvent {
	return &AccountEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"account_id": accountID,
				"role":       role,
				"actor_id":   actorID,
			},
		},
		AccountID: accountID,
		Role:      role,
		ActorID:   actorID,
	}
}
