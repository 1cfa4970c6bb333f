package department

import (
	"strings"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/core/common/validation"
)

const MaxNameLength = 100

type DepartmentDTO struct {
	Name string `json:"name"`
}

func (d *DepartmentDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
}

func (d DepartmentDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(MaxNameLength)
	return v.Validate()
}

type DepartmentsResponse struct {
	Departments []*Department `json:"departments"`
}
