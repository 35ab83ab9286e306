package model

import "time"

// NotificationType 通知类型
type NotificationType int16

const (
	NotificationAward  NotificationType = 1 // 收藏品/奖励相关
	NotificationPoints NotificationType = 2 // 积分变动
	NotificationTask   NotificationType = 3 // 任务发布/完成
)

// NotificationPreviewMaxLen 通知摘要最大长度
const NotificationPreviewMaxLen = 90

// Notification 通知表 — 对应 notifications
// 只追加记录：本服务创建后不修改、不删除（清理归档由外部运维负责）
type Notification struct {
	NotificationID string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	TableID        *string          `gorm:"type:uuid"                                      json:"table_id,omitempty"`
	Type           NotificationType `gorm:"type:smallint;not null"                         json:"type"`
	TextPreview    string           `gorm:"type:varchar(90);not null"                      json:"text_preview"`
	CreatedAt      time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

// TruncatePreview 将摘要截断到字段上限
func TruncatePreview(text string) string {
	r := []rune(text)
	if len(r) <= NotificationPreviewMaxLen {
		return text
	}
	return string(r[:NotificationPreviewMaxLen])
}
