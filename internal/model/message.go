package model

import "time"

// Message 桌内聊天消息表 — 对应 messages
type Message struct {
	MessageID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"message_id"`
	TableID      string    `gorm:"type:uuid;not null"                             json:"table_id"`
	CreatedBy    string    `gorm:"type:uuid;not null"                             json:"created_by"`
	Content      string    `gorm:"type:text;not null"                             json:"content"`
	TotalUpvotes int       `gorm:"not null;default:0"                             json:"total_upvotes"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Creator  *User  `gorm:"foreignKey:CreatedBy;references:UserID" json:"creator,omitempty"`
	Upvoters []User `gorm:"many2many:message_upvotes;foreignKey:MessageID;joinForeignKey:MessageID;References:UserID;joinReferences:UserID" json:"-"`
}

// TableName 指定表名
func (Message) TableName() string { return "messages" }

// IsUpvotedBy 判断某用户是否已点赞
func (m *Message) IsUpvotedBy(userID string) bool {
	for _, u := range m.Upvoters {
		if u.UserID == userID {
			return true
		}
	}
	return false
}
