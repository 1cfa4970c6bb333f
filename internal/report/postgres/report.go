package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/attendance-report/internal/auth"
	"github.com/frahmantamala/attendance-report/internal/core/common/store"
	reportDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/report"
	"github.com/frahmantamala/attendance-report/internal/report"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.Repository {
	return &ReportRepository{db: db}
}

func scoped(q *gorm.DB, scope auth.ReportScope) *gorm.DB {
	if scope.Nothing {
		return q.Where("1 = 0")
	}
	if scope.UserID != nil {
		q = q.Where("user_id = ?", *scope.UserID)
	}
	if scope.DepartmentID != nil {
		q = q.Where("department_id = ?", *scope.DepartmentID)
	}
	return q
}

func (r *ReportRepository) Create(ctx context.Context, rep *reportDatamodel.Report) error {
	if err := r.db.WithContext(ctx).Create(rep).Error; err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

func (r *ReportRepository) List(ctx context.Context, scope auth.ReportScope, filter report.ListFilter) ([]*reportDatamodel.Report, error) {
	q := scoped(r.db.WithContext(ctx), scope)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rs []*reportDatamodel.Report
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rs).Error
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return rs, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, scope auth.ReportScope, id int64) (*reportDatamodel.Report, error) {
	var rep reportDatamodel.Report
	err := scoped(r.db.WithContext(ctx), scope).Where("id = ?", id).First(&rep).Error
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &rep, nil
}

func (r *ReportRepository) MarkReviewed(ctx context.Context, scope auth.ReportScope, id, reviewerID int64, at time.Time) (bool, error) {
	res := scoped(r.db.WithContext(ctx).Model(&reportDatamodel.Report{}), scope).
		Where("id = ? AND status = ?", id, report.StatusSubmitted).
		Updates(map[string]interface{}{
			"status":      report.StatusReviewed,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("mark report reviewed: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *ReportRepository) Delete(ctx context.Context, scope auth.ReportScope, id int64) (bool, error) {
	res := scoped(r.db.WithContext(ctx), scope).Where("id = ?", id).Delete(&reportDatamodel.Report{})
	if res.Error != nil {
		return false, fmt.Errorf("delete report: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
