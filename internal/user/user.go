package user

import (
	"time"

	"github.com/frahmantamala/attendance-report/internal/auth"
	userDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/user"
)

// Account is the API view of a user row. The password hash never leaves the
// repository layer.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Role         auth.Role `json:"role"`
	DepartmentID *int64    `json:"departmentId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func FromDataModel(u *userDatamodel.User) *Account {
	return &Account{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Role:         auth.Role(u.Role),
		DepartmentID: u.DepartmentID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModels(us []*userDatamodel.User) []*Account {
	out := make([]*Account, 0, len(us))
	for _, u := range us {
		out = append(out, FromDataModel(u))
	}
	return out
}
