package model

import "time"

// ── 任务常量 ──

// RecurrenceInterval 任务重复周期
type RecurrenceInterval string

const (
	RecurrenceNone   RecurrenceInterval = "n"
	RecurrenceDaily  RecurrenceInterval = "d"
	RecurrenceWeekly RecurrenceInterval = "w"
)

// 每日配额上限（非教职工用户）
const (
	DailySetLimit      = 2 // 每天最多发布的任务数
	DailyCompleteLimit = 2 // 每天最多完成的学生任务数
)

// GroupBonusPoints 全桌完成奖励分
const GroupBonusPoints = 2

// AllowedTaskPoints 任务可设置的全部分值
var AllowedTaskPoints = []int{1, 2, 3, 4, 5, 10, 15, 20, 25, 30}

// StudentMaxTaskPoints 非教职工用户可设置的最大分值
const StudentMaxTaskPoints = 5

// ValidTaskPoints 校验分值是否在枚举集中
// staff 为 false 时限制为 1..5 子集，服务端强制执行
func ValidTaskPoints(points int, staff bool) bool {
	for _, p := range AllowedTaskPoints {
		if p == points {
			if !staff && points > StudentMaxTaskPoints {
				return false
			}
			return true
		}
	}
	return false
}

// Task 任务表 — 对应 tasks
type Task struct {
	TaskID             string             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	TableID            string             `gorm:"type:uuid;not null"                             json:"table_id"`
	CreatedBy          string             `gorm:"type:uuid;not null"                             json:"created_by"`
	Name               string             `gorm:"type:varchar(50);not null"                      json:"name"`
	Content            string             `gorm:"type:text;not null"                             json:"content"`
	Points             int                `gorm:"not null;default:0"                             json:"points"`
	DateSet            time.Time          `gorm:"type:date;not null"                             json:"date_set"`
	RecurringDate      *time.Time         `gorm:"type:date"                                      json:"recurring_date,omitempty"`
	RecurrenceInterval RecurrenceInterval `gorm:"type:varchar(1);not null;default:'n'"           json:"recurrence_interval"`
	NoOfRepeats        int                `gorm:"not null;default:0"                             json:"no_of_repeats"`
	MaxRepeats         int                `gorm:"not null;default:0"                             json:"max_repeats"`
	// BonusAwarded 当前期次是否已发放全桌完成奖励（防止重复发放）
	BonusAwarded bool `gorm:"not null;default:false" json:"bonus_awarded"`
	BaseModel

	// 关联
	Table       *CafeTable `gorm:"foreignKey:TableID;references:TableID"   json:"table,omitempty"`
	Creator     *User      `gorm:"foreignKey:CreatedBy;references:UserID"  json:"creator,omitempty"`
	CompletedBy []User     `gorm:"many2many:task_completions;foreignKey:TaskID;joinForeignKey:TaskID;References:UserID;joinReferences:UserID" json:"completed_by,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }

// IsCompletedBy 判断某用户是否已完成当前期次
func (t *Task) IsCompletedBy(userID string) bool {
	for _, u := range t.CompletedBy {
		if u.UserID == userID {
			return true
		}
	}
	return false
}

// RescheduleRecurrence 根据重复周期推进下一期的到期日
// 每次完成事件都会调用，与 max_repeats 是否达到无关；
// recurrence_interval = none 的任务保持不变
func (t *Task) RescheduleRecurrence() {
	switch t.RecurrenceInterval {
	case RecurrenceDaily:
		next := t.DateSet.AddDate(0, 0, 1)
		t.RecurringDate = &next
	case RecurrenceWeekly:
		next := t.DateSet.AddDate(0, 0, 7)
		t.RecurringDate = &next
	}
}

// DueForRecurrence 判断任务在指定日期是否需要重新开启新一期
func (t *Task) DueForRecurrence(today time.Time) bool {
	return t.MaxRepeats > 0 &&
		t.RecurrenceInterval != RecurrenceNone &&
		t.RecurringDate != nil &&
		DateEqual(*t.RecurringDate, today) &&
		t.NoOfRepeats <= t.MaxRepeats
}

// AdvanceOccurrence 开启新一期：清空完成名单、重置奖励标记、计数加一
// 新一期即"重新到期"，不产生新行
func (t *Task) AdvanceOccurrence(today time.Time) {
	t.CompletedBy = nil
	t.BonusAwarded = false
	t.NoOfRepeats++
	t.DateSet = today
}
