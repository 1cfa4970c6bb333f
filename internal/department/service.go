package department

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/auth"
	departmentDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/department"
)

// RepositoryAPI is the department store. GetByID returns nil, nil when the
// row does not exist; Create and Update return ErrDepartmentNameTaken on a
// unique violation; Delete returns ErrDepartmentInUse when a foreign key
// still points at the row.
type RepositoryAPI interface {
	List(ctx context.Context) ([]*departmentDatamodel.Department, error)
	GetByID(ctx context.Context, id int64) (*departmentDatamodel.Department, error)
	Create(ctx context.Context, d *departmentDatamodel.Department) error
	Update(ctx context.Context, d *departmentDatamodel.Department) error
	Delete(ctx context.Context, id int64) error
	CountReferences(ctx context.Context, id int64) (users int64, reports int64, err error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Department, error) {
	ds, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, internal.NewInternalError("failed to list departments", err)
	}
	return FromDataModels(ds), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Department, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(d), nil
}

// Exists is used by account administration to check department references.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, internal.NewInternalError("failed to load department", err)
	}
	return d != nil, nil
}

func (s *Service) Create(ctx context.Context, caller *auth.User, dto DepartmentDTO) (*Department, error) {
	if err := auth.Authorize(caller, auth.ActionDepartmentManage); err != nil {
		return nil, err
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d := &departmentDatamodel.Department{Name: dto.Name}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, s.storeError("failed to create department", err)
	}

	s.logger.Info("department created", "department_id", d.ID, "name", d.Name, "caller_id", caller.ID)
	return FromDataModel(d), nil
}

func (s *Service) Rename(ctx context.Context, caller *auth.User, id int64, dto DepartmentDTO) (*Department, error) {
	if err := auth.Authorize(caller, auth.ActionDepartmentManage); err != nil {
		return nil, err
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	d.Name = dto.Name
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, s.storeError("failed to rename department", err)
	}

	s.logger.Info("department renamed", "department_id", d.ID, "name", d.Name, "caller_id", caller.ID)
	return FromDataModel(d), nil
}

// Delete refuses departments still referenced by accounts or reports. A
// reference added after the count is caught by the foreign key.
func (s *Service) Delete(ctx context.Context, caller *auth.User, id int64) error {
	if err := auth.Authorize(caller, auth.ActionDepartmentManage); err != nil {
		return err
	}

	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	users, reports, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		s.logger.Error("failed to count department references", "error", err, "department_id", id)
		return internal.NewInternalError("failed to delete department", err)
	}
	if users > 0 || reports > 0 {
		s.logger.Warn("department delete rejected: still referenced",
			"department_id", id,
			"users", users,
			"reports", reports)
		return internal.ErrDepartmentInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, internal.ErrDepartmentInUse) {
			s.logger.Warn("department delete rejected: referenced concurrently", "department_id", id)
		}
		return s.storeError("failed to delete department", err)
	}

	s.logger.Info("department deleted", "department_id", id, "caller_id", caller.ID)
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*departmentDatamodel.Department, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load department", "error", err, "department_id", id)
		return nil, internal.NewInternalError("failed to load department", err)
	}
	if d == nil {
		return nil, internal.ErrDepartmentNotFound
	}
	return d, nil
}

func (s *Service) storeError(msg string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(msg, "error", err)
	return internal.NewInternalError(msg, err)
}
