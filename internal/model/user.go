package model

import "time"

// User 用户表 — 对应 users
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	FirstName    string `gorm:"type:varchar(50);not null"                      json:"first_name"`
	LastName     string `gorm:"type:varchar(50);not null"                      json:"last_name"`
	University   string `gorm:"type:varchar(100);not null"                     json:"university"`
	IsStaff      bool   `gorm:"not null;default:false"                         json:"is_staff"`
	Year         *int   `json:"year,omitempty"`
	Course       string `gorm:"type:varchar(50);not null;default:''"           json:"course"`

	// 积分与每日配额状态
	Points                int        `gorm:"not null;default:0"  json:"points"`
	TasksSetToday         int        `gorm:"not null;default:0"  json:"tasks_set_today"`
	NextPossibleSet       *time.Time `gorm:"type:date"           json:"next_possible_set,omitempty"`
	StudentTasksCompleted int        `gorm:"not null;default:0"  json:"student_tasks_completed"`
	NextPossibleComplete  *time.Time `gorm:"type:date"           json:"next_possible_complete,omitempty"`

	// 学习专注模式：到该时刻前视为"学习中"
	StudyingUntil *time.Time `json:"studying_until,omitempty"`
	ShareTables   bool       `gorm:"not null;default:true" json:"share_tables"`

	// 社交链接（存完整 URL，空表示未设置）
	Facebook  *string `gorm:"type:varchar(255)" json:"facebook,omitempty"`
	Instagram *string `gorm:"type:varchar(255)" json:"instagram,omitempty"`
	Twitter   *string `gorm:"type:varchar(255)" json:"twitter,omitempty"`

	BaseModel

	// 关联
	Tables []CafeTable `gorm:"many2many:table_members;foreignKey:UserID;joinForeignKey:UserID;References:TableID;joinReferences:TableID" json:"tables,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// FullName 返回 "名 姓" 形式的展示名
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// ResetSetQuotaIfDue 任务发布配额到期重置
// 仅当计数已达上限且存储的重置日期已到（今天或更早）时清零；
// 重置依赖显式记录的日期，而不是滚动时间窗。
// 返回 true 表示发生了重置，需要持久化。
func (u *User) ResetSetQuotaIfDue(today time.Time) bool {
	if u.TasksSetToday >= DailySetLimit && u.NextPossibleSet != nil &&
		DateOnOrAfter(today, *u.NextPossibleSet) {
		u.TasksSetToday = 0
		return true
	}
	return false
}

// ResetCompleteQuotaIfDue 学生任务完成配额到期重置
func (u *User) ResetCompleteQuotaIfDue(today time.Time) bool {
	if u.StudentTasksCompleted >= DailyCompleteLimit && u.NextPossibleComplete != nil &&
		DateOnOrAfter(today, *u.NextPossibleComplete) {
		u.StudentTasksCompleted = 0
		return true
	}
	return false
}

// RecordTaskSet 记录一次任务发布；计数达到上限时锁定到次日
func (u *User) RecordTaskSet(today time.Time) {
	u.TasksSetToday++
	if u.TasksSetToday >= DailySetLimit {
		next := today.AddDate(0, 0, 1)
		u.NextPossibleSet = &next
	}
}

// RecordStudentTaskCompleted 记录一次学生任务完成；并锁定到次日
func (u *User) RecordStudentTaskCompleted(today time.Time) {
	u.StudentTasksCompleted++
	next := today.AddDate(0, 0, 1)
	u.NextPossibleComplete = &next
}

// IsStudying 判断当前是否处于学习专注状态
// 已过期的 studying_until 视为未在学习，由调用方负责清理持久化状态
func (u *User) IsStudying(now time.Time) bool {
	return u.StudyingUntil != nil && u.StudyingUntil.After(now)
}
