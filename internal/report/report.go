package report

import (
	"time"

	reportDatamodel "github.com/frahmantamala/attendance-report/internal/core/datamodel/report"
)

const (
	StatusSubmitted = "submitted"
	StatusReviewed  = "reviewed"
)

var Statuses = []string{StatusSubmitted, StatusReviewed}

// ReasonChoices is the fixed set of early-leave reasons.
var ReasonChoices = []string{
	"Personal leave",
	"Medical appointment",
	"Family emergency",
	"Official duty",
	"Other",
}

// Report is an early-leave report. FullName, DepartmentID and DepartmentName
// are copied from the author at submission and never change afterwards.
type Report struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"userId"`
	FullName       string     `json:"fullName"`
	DepartmentID   int64      `json:"departmentId"`
	DepartmentName string     `json:"departmentName"`
	ReasonChoice   string     `json:"reasonChoice"`
	ReasonText     *string    `json:"reasonText"`
	ReportDate     string     `json:"reportDate"`
	TimeOut        string     `json:"timeOut"`
	TimeReturn     *string    `json:"timeReturn"`
	Note           *string    `json:"note"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	ReviewedBy     *int64     `json:"reviewedBy"`
	ReviewedAt     *time.Time `json:"reviewedAt"`
}

func FromDataModel(r *reportDatamodel.Report) *Report {
	return &Report{
		ID:             r.ID,
		UserID:         r.UserID,
		FullName:       r.FullName,
		DepartmentID:   r.DepartmentID,
		DepartmentName: r.DepartmentName,
		ReasonChoice:   r.ReasonChoice,
		ReasonText:     r.ReasonText,
		ReportDate:     r.ReportDate,
		TimeOut:        r.TimeOut,
		TimeReturn:     r.TimeReturn,
		Note:           r.Note,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
		ReviewedBy:     r.ReviewedBy,
		ReviewedAt:     r.ReviewedAt,
	}
}

func FromDataModels(rs []*reportDatamodel.Report) []*Report {
	out := make([]*Report, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromDataModel(r))
	}
	return out
}
