package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/auth"
	"github.com/frahmantamala/attendance-report/internal/core/common/store"
	reportDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/report"
	"github.com/frahmantamala/attendance-report/internal/core/events"
	"github.com/frahmantamala/attendance-report/internal/department"
)

// Repository is the report store. Every read and write takes the caller's
// ReportScope; rows outside it behave as if they did not exist.
type Repository interface {
	Create(ctx context.Context, r *reportDatamodel.Report) error
	List(ctx context.Context, scope auth.ReportScope, filter ListFilter) ([]*reportDatamodel.Report, error)
	GetByID(ctx context.Context, scope auth.ReportScope, id int64) (*reportDatamodel.Report, error)
	// MarkReviewed moves a submitted report to reviewed in one conditional
	// update and reports whether a row changed.
	MarkReviewed(ctx context.Context, scope auth.ReportScope, id, reviewerID int64, at time.Time) (bool, error)
	Delete(ctx context.Context, scope auth.ReportScope, id int64) (bool, error)
}

type DepartmentLookup interface {
	Get(ctx context.Context, id int64) (*department.Department, error)
}

type Service struct {
	repo        Repository
	departments DepartmentLookup
	publisher   events.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(repo Repository, departments DepartmentLookup, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		departments: departments,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock overrides the time source used for submission and review stamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Submit(ctx context.Context, author *auth.User, dto CreateReportDTO) (*Report, error) {
	if err := auth.Authorize(author, auth.ActionReportSubmit); err != nil {
		return nil, err
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if author.DepartmentID == nil {
		return nil, internal.NewValidationError("your account has no department", internal.ErrCodeDepartmentRule)
	}
	dept, err := s.departments.Get(ctx, *author.DepartmentID)
	if err != nil {
		return nil, err
	}

	r := &reportDatamodel.Report{
		UserID:         author.ID,
		FullName:       author.FullName,
		DepartmentID:   dept.ID,
		DepartmentName: dept.Name,
		ReasonChoice:   dto.ReasonChoice,
		ReasonText:     dto.ReasonText,
		ReportDate:     dto.ReportDate,
		TimeOut:        dto.TimeOut,
		TimeReturn:     dto.TimeReturn,
		Note:           dto.Note,
		Status:         StatusSubmitted,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("failed to create report", "error", err, "user_id", author.ID)
		return nil, internal.NewInternalError("failed to submit report", err)
	}

	s.logger.Info("report submitted",
		"report_id", r.ID,
		"user_id", author.ID,
		"department_id", r.DepartmentID,
		"reason", r.ReasonChoice)
	s.publish(ctx, events.NewReportEvent(events.EventTypeReportSubmitted, r.ID, r.UserID, r.DepartmentID, author.ID))

	return FromDataModel(r), nil
}

// List returns the reports visible to caller, most recent first.
func (s *Service) List(ctx context.Context, caller *auth.User, filter ListFilter) ([]*Report, error) {
	if err := auth.Authorize(caller, auth.ActionReportList); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter.Limit = store.ClampLimit(filter.Limit)

	rs, err := s.repo.List(ctx, auth.ReportScopeFor(caller), filter)
	if err != nil {
		s.logger.Error("failed to list reports", "error", err, "user_id", caller.ID)
		return nil, internal.NewInternalError("failed to list reports", err)
	}
	return FromDataModels(rs), nil
}

func (s *Service) Get(ctx context.Context, caller *auth.User, id int64) (*Report, error) {
	if err := auth.Authorize(caller, auth.ActionReportRead); err != nil {
		return nil, err
	}

	r, err := s.load(ctx, auth.ReportScopeFor(caller), id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(r), nil
}

// Review marks a submitted report as reviewed by caller. Reviewing an already
// reviewed report returns it unchanged.
func (s *Service) Review(ctx context.Context, caller *auth.User, id int64) (*Report, error) {
	if err := auth.Authorize(caller, auth.ActionReportReview); err != nil {
		return nil, err
	}
	scope := auth.ReportScopeFor(caller)

	r, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if r.Status == StatusReviewed {
		return FromDataModel(r), nil
	}

	changed, err := s.repo.MarkReviewed(ctx, scope, id, caller.ID, s.now().UTC())
	if err != nil {
		s.logger.Error("failed to review report", "error", err, "report_id", id)
		return nil, internal.NewInternalError("failed to review report", err)
	}

	r, err = s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.Info("report reviewed", "report_id", id, "reviewer_id", caller.ID)
		s.publish(ctx, events.NewReportEvent(events.EventTypeReportReviewed, r.ID, r.UserID, r.DepartmentID, caller.ID))
	}
	return FromDataModel(r), nil
}

func (s *Service) Delete(ctx context.Context, caller *auth.User, id int64) error {
	if err := auth.Authorize(caller, auth.ActionReportDelete); err != nil {
		return err
	}
	scope := auth.ReportScopeFor(caller)

	r, err := s.load(ctx, scope, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, scope, id)
	if err != nil {
		s.logger.Error("failed to delete report", "error", err, "report_id", id)
		return internal.NewInternalError("failed to delete report", err)
	}
	if !deleted {
		return internal.ErrReportNotFound
	}

	s.logger.Info("report deleted", "report_id", id, "caller_id", caller.ID)
	s.publish(ctx, events.NewReportEvent(events.EventTypeReportDeleted, r.ID, r.UserID, r.DepartmentID, caller.ID))
	return nil
}

func (s *Service) load(ctx context.Context, scope auth.ReportScope, id int64) (*reportDatamodel.Report, error) {
	r, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		s.logger.Error("failed to load report", "error", err, "report_id", id)
		return nil, internal.NewInternalError("failed to load report", err)
	}
	if r == nil {
		return nil, internal.ErrReportNotFound
	}
	return r, nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}
