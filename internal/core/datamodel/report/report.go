package report

import "time"

type Report struct {
	ID             int64      `gorm:"primaryKey"`
	UserID         int64      `gorm:"column:user_id;not null;index"`
	FullName       string     `gorm:"column:full_name;not null"`
	DepartmentID   int64      `gorm:"column:department_id;not null;index"`
	DepartmentName string     `gorm:"column:department_name;not null"`
	ReasonChoice   string     `gorm:"column:reason_choice;not null"`
	ReasonText     *string    `gorm:"column:reason_text"`
	ReportDate     string     `gorm:"column:report_date;not null;size:10"`
	TimeOut        string     `gorm:"column:time_out;not null;size:5"`
	TimeReturn     *string    `gorm:"column:time_return;size:5"`
	Note           *string    `gorm:"column:note"`
	Status         string     `gorm:"column:status;not null;default:submitted;index"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null;index"`
	ReviewedBy     *int64     `gorm:"column:reviewed_by"`
	ReviewedAt     *time.Time `gorm:"column:reviewed_at"`
}

func (Report) TableName() string {
	return "reports"
}
