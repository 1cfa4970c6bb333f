package department

import (
	"time"

	departmentDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/department"
)

type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func FromDataModel(d *departmentDatamodel.Department) *Department {
	return &Department{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func FromDataModels(ds []*departmentDatamodel.Department) []*Department {
	out := make([]*Department, 0, len(ds))
	for _, d := range ds {
		out = append(out, FromDataModel(d))
	}
	return out
}
