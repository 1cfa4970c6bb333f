package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/auth"
	"github.com/frahmantamala/attendance-report/internal/core/common/store"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
	"github.com/frahmantamala/attendance-report/internal/core/events"
)

// Repository is the account store. Lookups take an AccountScope and treat rows
// outside it as absent (nil, nil). Create and Update return ErrUsernameTaken
// on a unique violation; Delete also removes the account's sessions.
type Repository interface {
	List(ctx context.Context, scope auth.AccountScope, limit, offset int) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, scope auth.AccountScope, id int64) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	Delete(ctx context.Context, id int64) error
}

type DepartmentChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	repo        Repository
	departments DepartmentChecker
	publisher   events.Publisher
	bcryptCost  int
	logger      *slog.Logger
}

func NewService(repo Repository, departments DepartmentChecker, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		departments: departments,
		publisher:   publisher,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

func (s *Service) CreateUser(ctx context.Context, caller *auth.User, dto CreateUserDTO) (*Account, error) {
	if err := auth.Authorize(caller, auth.ActionAccountCreate); err != nil {
		return nil, err
	}

	dto.Normalize()
	if forced := auth.ForceDepartment(caller); forced != nil {
		dto.Role = string(auth.RoleUser)
		dto.DepartmentID = forced
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role, _ := auth.ParseRole(dto.Role)
	if !auth.CanAssignRole(caller, role) {
		s.logger.Warn("account create denied: role not assignable",
			"caller_id", caller.ID,
			"caller_role", caller.Role,
			"role", role)
		return nil, internal.ErrForbidden
	}

	if err := s.checkDepartmentRule(ctx, role, dto.DepartmentID, true); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to create user", err)
	}

	u := &userDatamodel.User{
		Username:     dto.Username,
		FullName:     dto.FullName,
		PasswordHash: hash,
		Role:         string(role),
		DepartmentID: dto.DepartmentID,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, s.storeError("failed to create user", err)
	}

	s.logger.Info("account created", "user_id", u.ID, "role", u.Role, "caller_id", caller.ID)
	s.publish(ctx, events.NewAccountEvent(events.EventTypeAccountCreated, u.ID, u.Role, caller.ID))
	return FromDataModel(u), nil
}

func (s *Service) ListUsers(ctx context.Context, caller *auth.User, limit, offset int) ([]*Account, error) {
	if err := auth.Authorize(caller, auth.ActionAccountManage); err != nil {
		return nil, err
	}

	us, err := s.repo.List(ctx, auth.AccountScopeFor(caller), store.ClampLimit(limit), offset)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return FromDataModels(us), nil
}

func (s *Service) GetUser(ctx context.Context, caller *auth.User, id int64) (*Account, error) {
	if err := auth.Authorize(caller, auth.ActionAccountManage); err != nil {
		return nil, err
	}

	u, err := s.load(ctx, auth.AccountScopeFor(caller), id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

func (s *Service) UpdateUser(ctx context.Context, caller *auth.User, id int64, dto UpdateUserDTO) (*Account, error) {
	if err := auth.Authorize(caller, auth.ActionAccountManage); err != nil {
		return nil, err
	}

	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.load(ctx, auth.AccountScopeFor(caller), id)
	if err != nil {
		return nil, err
	}

	if err := s.applyUpdate(ctx, caller, u, dto); err != nil {
		return nil, err
	}

	s.logger.Info("account updated", "user_id", u.ID, "caller_id", caller.ID)
	return FromDataModel(u), nil
}

// DeleteUser removes the account and its sessions. Reports it authored stay.
func (s *Service) DeleteUser(ctx context.Context, caller *auth.User, id int64) error {
	if err := auth.Authorize(caller, auth.ActionAccountManage); err != nil {
		return err
	}
	if caller.IsSuperAdmin() && caller.ID == id {
		return internal.ErrSelfDelete
	}

	u, err := s.load(ctx, auth.AccountScopeFor(caller), id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, u.ID); err != nil {
		return s.storeError("failed to delete user", err)
	}

	s.logger.Info("account deleted", "user_id", u.ID, "role", u.Role, "caller_id", caller.ID)
	s.publish(ctx, events.NewAccountEvent(events.EventTypeAccountDeleted, u.ID, u.Role, caller.ID))
	return nil
}

func (s *Service) GetProfile(ctx context.Context, caller *auth.User) (*Account, error) {
	if err := auth.Authorize(caller, auth.ActionProfileSelf); err != nil {
		return nil, err
	}

	u, err := s.load(ctx, selfScope(caller), caller.ID)
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

func (s *Service) UpdateProfile(ctx context.Context, caller *auth.User, dto UpdateProfileDTO) (*Account, error) {
	if err := auth.Authorize(caller, auth.ActionProfileSelf); err != nil {
		return nil, err
	}

	update := dto.AsUpdate()
	update.Normalize()
	if err := update.Validate(); err != nil {
		return nil, err
	}

	u, err := s.load(ctx, selfScope(caller), caller.ID)
	if err != nil {
		return nil, err
	}

	if err := s.applyUpdate(ctx, caller, u, update); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", u.ID)
	return FromDataModel(u), nil
}

// applyUpdate merges dto into u, enforces the role and department rules and
// stores the result.
func (s *Service) applyUpdate(ctx context.Context, caller *auth.User, u *userDatamodel.User, dto UpdateUserDTO) error {
	if dto.Username != nil {
		u.Username = *dto.Username
	}
	if dto.FullName != nil {
		u.FullName = *dto.FullName
	}
	if dto.Password != nil {
		hash, err := auth.HashPassword(*dto.Password, s.bcryptCost)
		if err != nil {
			return internal.NewInternalError("failed to update user", err)
		}
		u.PasswordHash = hash
	}

	role := auth.Role(u.Role)
	roleChanged := false
	if dto.Role != nil && *dto.Role != u.Role {
		if !caller.IsSuperAdmin() || caller.ID == u.ID {
			return internal.ErrForbidden
		}
		role, _ = auth.ParseRole(*dto.Role)
		roleChanged = true
	}

	deptChanged := false
	if dto.DepartmentID != nil {
		if caller.Role != auth.RoleAdmin && caller.Role != auth.RoleSuperAdmin {
			return internal.ErrForbidden
		}
		deptChanged = u.DepartmentID == nil || *u.DepartmentID != *dto.DepartmentID
		u.DepartmentID = dto.DepartmentID
	}

	if roleChanged && !role.RequiresDepartment() && dto.DepartmentID == nil {
		u.DepartmentID = nil
	}
	if err := s.checkDepartmentRule(ctx, role, u.DepartmentID, deptChanged || roleChanged); err != nil {
		return err
	}
	u.Role = string(role)

	if err := s.repo.Update(ctx, u); err != nil {
		return s.storeError("failed to update user", err)
	}
	return nil
}

// checkDepartmentRule enforces that user and manager accounts belong to an
// existing department and admin accounts to none. The existence lookup runs
// only when verify is set.
func (s *Service) checkDepartmentRule(ctx context.Context, role auth.Role, departmentID *int64, verify bool) error {
	if !role.RequiresDepartment() {
		if departmentID != nil {
			return internal.NewValidationFieldError("departmentId",
				"departmentId must be empty for role "+string(role), internal.ErrCodeDepartmentRule)
		}
		return nil
	}

	if departmentID == nil {
		return internal.NewValidationFieldError("departmentId",
			"departmentId is required for role "+string(role), internal.ErrCodeDepartmentRule)
	}
	if !verify {
		return nil
	}

	ok, err := s.departments.Exists(ctx, *departmentID)
	if err != nil {
		return err
	}
	if !ok {
		return internal.NewValidationFieldError("departmentId", "department does not exist", internal.ErrCodeDepartmentRule)
	}
	return nil
}

func (s *Service) load(ctx context.Context, scope auth.AccountScope, id int64) (*userDatamodel.User, error) {
	u, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		s.logger.Error("failed to load user", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) storeError(msg string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error(msg, "error", err)
	return internal.NewInternalError(msg, err)
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}

func selfScope(u *auth.User) auth.AccountScope {
	return auth.AccountScope{IncludeSelf: true, SelfID: u.ID}
}
