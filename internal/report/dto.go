package report

import (
	"strings"

	"github.com/frahmantamala/attendance-report/internal"
	"github.com/frahmantamala/attendance-report/internal/core/common/validation"
)

const (
	MaxReasonTextLength = 500
	MaxNoteLength       = 2000
)

type CreateReportDTO struct {
	ReasonChoice string  `json:"reasonChoice"`
	ReasonText   *string `json:"reasonText"`
	ReportDate   string  `json:"reportDate"`
	TimeOut      string  `json:"timeOut"`
	TimeReturn   *string `json:"timeReturn"`
	Note         *string `json:"note"`
}

// Normalize trims every field and turns blank optional fields into nil.
func (d *CreateReportDTO) Normalize() {
	d.ReasonChoice = strings.TrimSpace(d.ReasonChoice)
	d.ReportDate = strings.TrimSpace(d.ReportDate)
	d.TimeOut = strings.TrimSpace(d.TimeOut)
	d.ReasonText = trimOptional(d.ReasonText)
	d.TimeReturn = trimOptional(d.TimeReturn)
	d.Note = trimOptional(d.Note)
}

func (d CreateReportDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("reasonChoice", d.ReasonChoice).Required().OneOf(ReasonChoices, internal.ErrCodeInvalidChoice)
	v.Field("reportDate", d.ReportDate).Required().Layout(validation.DateLayout, "YYYY-MM-DD", internal.ErrCodeInvalidDate)
	v.Field("timeOut", d.TimeOut).Required().Layout(validation.ClockLayout, "HH:MM", internal.ErrCodeInvalidTime)
	v.Field("timeReturn", d.TimeReturn).Optional().Layout(validation.ClockLayout, "HH:MM", internal.ErrCodeInvalidTime)
	v.Field("reasonText", d.ReasonText).Optional().MaxLength(MaxReasonTextLength)
	v.Field("note", d.Note).Optional().MaxLength(MaxNoteLength)
	return v.Validate()
}

// ListFilter narrows a report listing. Zero Limit means the default page.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

func (f ListFilter) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("status", f.Status).Optional().OneOf(Statuses, internal.ErrCodeValidationFailed)
	return v.Validate()
}

type ReportsResponse struct {
	Reports []*Report `json:"reports"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
