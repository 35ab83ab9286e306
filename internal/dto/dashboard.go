package dto

// ── 仪表盘模块 DTO ──

// NotificationResponse 通知信息响应
type NotificationResponse struct {
	ID          string `json:"id"`
	TableID     string `json:"table_id,omitempty"`
	Type        int    `json:"type"` // 1=Award 2=Points 3=Task
	TextPreview string `json:"text_preview"`
	CreatedAt   string `json:"created_at"`
}

// DashboardResponse 仪表盘聚合响应
type DashboardResponse struct {
	User          UserResponse           `json:"user"`
	Tables        []TableResponse        `json:"tables"`
	Notifications []NotificationResponse `json:"notifications"`
	Leaderboard   []LeaderboardEntry     `json:"leaderboard"`

	// 收藏品（仅学生用户填充）
	Collectable          string   `json:"collectable,omitempty"`      // 当前收藏品图片
	CollectableName      string   `json:"collectable_name,omitempty"` // 当前收藏品名称
	PointsToGo           int      `json:"points_to_go"`               // 距下一收藏品所需积分
	PreviousCollectables []string `json:"previous_collectables,omitempty"`

	Studying    bool `json:"studying"`
	CanSetTasks bool `json:"can_set_tasks"`
	NumOnline   int  `json:"num_online"`
}
