package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/core/common/store"
	departmentDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/department"
	reportDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/report"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
	"github.com/frahmantamala/attendance-report/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) List(ctx context.Context) ([]*departmentDatamodel.Department, error) {
	var ds []*departmentDatamodel.Department
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&ds).Error; err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return ds, nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error) {
	var d departmentDatamodel.Department
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, d *departmentDatamodel.Department) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return internal.ErrDepartmentNameTaken.WithCause(err)
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d *departmentDatamodel.Department) error {
	if err := r.db.WithContext(ctx).Save(d).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return internal.ErrDepartmentNameTaken.WithCause(err)
		}
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&departmentDatamodel.Department{}, id).Error; err != nil {
		if store.IsForeignKeyViolation(err) {
			return internal.ErrDepartmentInUse.WithCause(err)
		}
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}

func (r *DepartmentRepository) CountReferences(ctx context.Context, id int64) (int64, int64, error) {
	var users, reports int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&userDatamodel.User{}).Where("department_id = ?", id).Count(&users).Error; err != nil {
		return 0, 0, fmt.Errorf("count department users: %w", err)
	}
	if err := db.Model(&reportDatamodel.Report{}).Where("department_id = ?", id).Count(&reports).Error; err != nil {
		return 0, 0, fmt.Errorf("count department reports: %w", err)
	}
	return users, reports, nil
}
