package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Roles lists every role from least to most privileged.
var Roles = []Role{RoleUser, RoleManager, RoleAdmin, RoleSuperAdmin}

func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// RequiresDepartment reports whether accounts of this role must belong to a
// department. Admins and superadmins must not.
func (r Role) RequiresDepartment() bool {
	return r == RoleUser || r == RoleManager
}

// User is the identity resolved from a session. It never carries the
// password hash.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	Role         Role   `json:"role"`
	DepartmentID *int64 `json:"departmentId"`
}

func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleSuperAdmin
}

func IdentityFromDataModel(u *userDatamodel.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Role:         Role(u.Role),
		DepartmentID: u.DepartmentID,
	}
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateRandomToken returns 32 bytes from crypto/rand as 64 hex characters.
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
