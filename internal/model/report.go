package model

import "time"

// 举报类别
const (
	ReportCategoryTable    = "Table (general)"
	ReportCategoryTask     = "Task"
	ReportCategoryMessages = "Messages"
	ReportCategoryOther    = "Other"
)

// ValidReportCategory 校验举报类别
func ValidReportCategory(category string) bool {
	switch category {
	case ReportCategoryTable, ReportCategoryTask, ReportCategoryMessages, ReportCategoryOther:
		return true
	}
	return false
}

// Report 举报表 — 对应 reports
type Report struct {
	ReportID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"report_id"`
	Title     string    `gorm:"type:varchar(50);not null"                      json:"title"`
	Category  string    `gorm:"type:varchar(20);not null"                      json:"category"`
	Detail    string    `gorm:"type:varchar(250);not null"                     json:"detail"`
	TableID   string    `gorm:"type:uuid;not null"                             json:"table_id"`
	FlaggedBy string    `gorm:"type:uuid;not null"                             json:"flagged_by"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Table   *CafeTable `gorm:"foreignKey:TableID;references:TableID"   json:"table,omitempty"`
	Flagger *User      `gorm:"foreignKey:FlaggedBy;references:UserID"  json:"flagger,omitempty"`
}

// TableName 指定表名
func (Report) TableName() string { return "reports" }
