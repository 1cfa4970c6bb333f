package user

import (
	"strings"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/auth"
	"github.com/frahmantamala/attendance-report/internal/core/common/validation"
)

const (
	MinPasswordLength = 6
	MaxUsernameLength = 64
	MaxFullNameLength = 150
)

type CreateUserDTO struct {
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"departmentId"`
}

func (d *CreateUserDTO) Normalize() {
	d.Username = normalizeUsername(d.Username)
	d.FullName = strings.TrimSpace(d.FullName)
	d.Role = strings.TrimSpace(d.Role)
}

func (d CreateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(MaxUsernameLength)
	v.Field("fullName", d.FullName).Required().MaxLength(MaxFullNameLength)
	v.Field("password", d.Password).Required().Custom(passwordRule("password"))
	v.Field("role", d.Role).Required().OneOf(roleNames(), internal.ErrCodeInvalidRole)
	return v.Validate()
}

// UpdateUserDTO is a partial update; nil fields keep their stored value.
type UpdateUserDTO struct {
	Username     *string `json:"username"`
	FullName     *string `json:"fullName"`
	Password     *string `json:"password"`
	Role         *string `json:"role"`
	DepartmentID *int64  `json:"departmentId"`
}

func (d *UpdateUserDTO) Normalize() {
	if d.Username != nil {
		u := normalizeUsername(*d.Username)
		d.Username = &u
	}
	if d.FullName != nil {
		n := strings.TrimSpace(*d.FullName)
		d.FullName = &n
	}
	if d.Role != nil {
		r := strings.TrimSpace(*d.Role)
		d.Role = &r
	}
}

func (d UpdateUserDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Username != nil {
		v.Field("username", *d.Username).Required().MaxLength(MaxUsernameLength)
	}
	if d.FullName != nil {
		v.Field("fullName", *d.FullName).Required().MaxLength(MaxFullNameLength)
	}
	if d.Password != nil {
		v.Field("password", *d.Password).Custom(passwordRule("password"))
	}
	if d.Role != nil {
		v.Field("role", *d.Role).Required().OneOf(roleNames(), internal.ErrCodeInvalidRole)
	}
	return v.Validate()
}

// UpdateProfileDTO is the self-service subset of UpdateUserDTO.
type UpdateProfileDTO struct {
	Username *string `json:"username"`
	FullName *string `json:"fullName"`
	Password *string `json:"password"`
}

func (d UpdateProfileDTO) AsUpdate() UpdateUserDTO {
	return UpdateUserDTO{Username: d.Username, FullName: d.FullName, Password: d.Password}
}

type UsersResponse struct {
	Users  []*Account `json:"users"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func roleNames() []string {
	names := make([]string, len(auth.Roles))
	for i, r := range auth.Roles {
		names[i] = string(r)
	}
	return names
}

func passwordRule(field string) func(interface{}) *internal.ValidationError {
	return func(value interface{}) *internal.ValidationError {
		s, _ := value.(string)
		if len([]rune(s)) < MinPasswordLength {
			return &internal.ValidationError{
				Field:   field,
				Message: "password must be at least 6 characters",
				Code:    string(internal.ErrCodePasswordTooShort),
			}
		}
		if len(s) > auth.MaxPasswordBytes {
			return &internal.ValidationError{
				Field:   field,
				Message: "password must be at most 72 bytes",
				Code:    string(internal.ErrCodePasswordTooLong),
			}
		}
		return nil
	}
}
