package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/auth"
	"github.com/frahmantamala/attendance-report/internal/core/common/store"
	sessionDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/session"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// scoped restricts q to the rows visible under scope.
func scoped(q *gorm.DB, scope auth.AccountScope) *gorm.DB {
	if scope.Nothing() {
		return q.Where("1 = 0")
	}

	var clauses []string
	var args []interface{}
	if len(scope.Roles) > 0 {
		roles := make([]string, len(scope.Roles))
		for i, r := range scope.Roles {
			roles[i] = string(r)
		}
		clause := "role IN ?"
		args = append(args, roles)
		if scope.DepartmentID != nil {
			clause += " AND department_id = ?"
			args = append(args, *scope.DepartmentID)
		}
		clauses = append(clauses, "("+clause+")")
	}
	if scope.IncludeSelf {
		clauses = append(clauses, "id = ?")
		args = append(args, scope.SelfID)
	}
	return q.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func (r *UserRepository) List(ctx context.Context, scope auth.AccountScope, limit, offset int) ([]*userDatamodel.User, error) {
	var us []*userDatamodel.User
	err := scoped(r.db.WithContext(ctx), scope).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&us).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return us, nil
}

func (r *UserRepository) GetByID(ctx context.Context, scope auth.AccountScope, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := scoped(r.db.WithContext(ctx), scope).Where("id = ?", id).First(&u).Error
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetByUsername is an unscoped lookup used by the seeder.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if store.IsUniqueViolation(err) {
			return internal.ErrUsernameTaken.WithCause(err)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	err := r.db.WithContext(ctx).Model(u).Select("username", "full_name", "password_hash", "role", "department_id", "updated_at").Updates(u).Error
	if err != nil {
		if store.IsUniqueViolation(err) {
			return internal.ErrUsernameTaken.WithCause(err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&sessionDatamodel.Session{}).Error; err != nil {
			return fmt.Errorf("delete user sessions: %w", err)
		}
		res := tx.Delete(&userDatamodel.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return internal.ErrUserNotFound
		}
		return nil
	})
}
