package auth

import (
	"github.com/frahmantamala/attendance-report/internal"
)

type Action string

const (
	ActionReportSubmit Action = "report:submit"
	ActionReportList   Action = "report:list"
	ActionReportRead   Action = "report:read"
	ActionReportReview Action = "report:review"
	ActionReportDelete Action = "report:delete"

	ActionAccountCreate Action = "account:create"
	ActionAccountManage Action = "account:manage"

	ActionDepartmentRead   Action = "department:read"
	ActionDepartmentManage Action = "department:manage"

	ActionProfileSelf Action = "profile:self"
)

var everyone = []Role{RoleUser, RoleManager, RoleAdmin, RoleSuperAdmin}

// permissions is the coarse role table. Record level scoping happens in the
// repositories through ReportScope and AccountScope.
var permissions = map[Action][]Role{
	ActionReportSubmit: {RoleUser, RoleManager},
	ActionReportList:   everyone,
	ActionReportRead:   everyone,
	ActionReportReview: {RoleManager, RoleAdmin, RoleSuperAdmin},
	ActionReportDelete: {RoleAdmin, RoleSuperAdmin},

	ActionAccountCreate: {RoleManager, RoleAdmin, RoleSuperAdmin},
	ActionAccountManage: {RoleManager, RoleAdmin, RoleSuperAdmin},

	ActionDepartmentRead:   everyone,
	ActionDepartmentManage: {RoleAdmin, RoleSuperAdmin},

	ActionProfileSelf: everyone,
}

// Authorize returns ErrInvalidSession without an identity and ErrForbidden
// when the role is not allowed to perform action.
func Authorize(u *User, action Action) error {
	if u == nil {
		return internal.ErrInvalidSession
	}
	for _, r := range permissions[action] {
		if r == u.Role {
			return nil
		}
	}
	return internal.ErrForbidden
}

// ReportScope restricts report queries. Zero value means unrestricted.
type ReportScope struct {
	UserID       *int64
	DepartmentID *int64
	// Nothing is set when the caller can see no reports at all.
	Nothing bool
}

func (s ReportScope) Unrestricted() bool {
	return !s.Nothing && s.UserID == nil && s.DepartmentID == nil
}

func ReportScopeFor(u *User) ReportScope {
	if u == nil {
		return ReportScope{Nothing: true}
	}
	switch u.Role {
	case RoleUser:
		id := u.ID
		return ReportScope{UserID: &id}
	case RoleManager:
		if u.DepartmentID == nil {
			return ReportScope{Nothing: true}
		}
		dept := *u.DepartmentID
		return ReportScope{DepartmentID: &dept}
	case RoleAdmin, RoleSuperAdmin:
		return ReportScope{}
	}
	return ReportScope{Nothing: true}
}

// AccountScope restricts account queries to Roles, optionally within
// DepartmentID. When IncludeSelf is set the caller's own row matches as well.
type AccountScope struct {
	Roles        []Role
	DepartmentID *int64
	IncludeSelf  bool
	SelfID       int64
}

func (s AccountScope) Nothing() bool {
	return len(s.Roles) == 0 && !s.IncludeSelf
}

// Allows reports whether an account with role and department falls inside the
// scope. It mirrors the repository filter for rows not yet stored.
func (s AccountScope) Allows(id int64, role Role, departmentID *int64) bool {
	if s.IncludeSelf && id != 0 && id == s.SelfID {
		return true
	}
	if !containsRole(s.Roles, role) {
		return false
	}
	if s.DepartmentID != nil {
		return departmentID != nil && *departmentID == *s.DepartmentID
	}
	return true
}

func AccountScopeFor(u *User) AccountScope {
	if u == nil {
		return AccountScope{}
	}
	switch u.Role {
	case RoleManager:
		if u.DepartmentID == nil {
			return AccountScope{}
		}
		dept := *u.DepartmentID
		return AccountScope{Roles: []Role{RoleUser}, DepartmentID: &dept}
	case RoleAdmin:
		return AccountScope{Roles: []Role{RoleUser}}
	case RoleSuperAdmin:
		return AccountScope{
			Roles:       []Role{RoleUser, RoleManager, RoleAdmin},
			IncludeSelf: true,
			SelfID:      u.ID,
		}
	}
	return AccountScope{}
}

// CreatableRoles lists the roles the caller may assign to a new account.
func CreatableRoles(u *User) []Role {
	if u == nil {
		return nil
	}
	switch u.Role {
	case RoleManager, RoleAdmin:
		return []Role{RoleUser}
	case RoleSuperAdmin:
		return []Role{RoleUser, RoleManager, RoleAdmin, RoleSuperAdmin}
	}
	return nil
}

func CanAssignRole(u *User, role Role) bool {
	return containsRole(CreatableRoles(u), role)
}

// ForceDepartment returns the department every account created or edited by
// u must belong to, or nil when u may choose.
func ForceDepartment(u *User) *int64 {
	if u == nil || u.Role != RoleManager || u.DepartmentID == nil {
		return nil
	}
	dept := *u.DepartmentID
	return &dept
}

func containsRole(roles []Role, role Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
