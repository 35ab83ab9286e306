package dto

// ── 消息模块 DTO ──

// PostMessageRequest 发消息请求
type PostMessageRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// MessageResponse 消息信息响应
type MessageResponse struct {
	ID           string `json:"id"`
	TableID      string `json:"table_id"`
	CreatorID    string `json:"creator_id"`
	CreatorName  string `json:"creator_name,omitempty"`
	Content      string `json:"content"`
	TotalUpvotes int    `json:"total_upvotes"`
	CreatedAt    string `json:"created_at"` // RFC 3339（UTC），前端做时区换算
}
