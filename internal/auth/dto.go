package auth

import (
	"strings"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/core/common/validation"
)

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Normalize trims and lower-cases the username.
func (d *LoginDTO) Normalize() {
	d.Username = strings.ToLower(strings.TrimSpace(d.Username))
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}
