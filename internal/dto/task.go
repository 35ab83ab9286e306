package dto

// ── 任务模块 DTO ──

// CreateTaskRequest 创建任务请求
// points 的枚举与非教职工子集限制在 Service 层强制校验
type CreateTaskRequest struct {
	TableID            string `json:"table_id"            binding:"required,uuid"`
	Name               string `json:"name"                binding:"required,max=50"`
	Content            string `json:"content"             binding:"required,max=4000"`
	Points             int    `json:"points"              binding:"required"`
	RecurrenceInterval string `json:"recurrence_interval" binding:"omitempty,oneof=n d w"`
	MaxRepeats         int    `json:"max_repeats"         binding:"omitempty,min=0"`
}

// TaskResponse 任务信息响应
type TaskResponse struct {
	ID                 string `json:"id"`
	TableID            string `json:"table_id"`
	TableName          string `json:"table_name,omitempty"`
	Name               string `json:"name"`
	Content            string `json:"content"`
	Points             int    `json:"points"`
	CreatorID          string `json:"creator_id"`
	CreatorName        string `json:"creator_name,omitempty"`
	CreatorIsStaff     bool   `json:"creator_is_staff"`
	DateSet            string `json:"date_set"`
	RecurrenceInterval string `json:"recurrence_interval"`
	NoOfRepeats        int    `json:"no_of_repeats"`
	MaxRepeats         int    `json:"max_repeats"`
	// 完成进度：当前完成人数 / 可完成人数
	CompletionsCurrent int `json:"completions_current"`
	CompletionsTotal   int `json:"completions_total"`
}

// CompleteTaskResponse 完成任务响应
type CompleteTaskResponse struct {
	Awarded      bool `json:"awarded"`       // 本次是否计分
	PointsEarned int  `json:"points_earned"` // 本次获得的基础分
	BonusIssued  bool `json:"bonus_issued"`  // 是否触发了全桌完成奖励
	TotalPoints  int  `json:"total_points"`  // 用户当前累计积分
}
