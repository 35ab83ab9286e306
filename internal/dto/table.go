package dto

// ── 咖啡桌模块 DTO ──

// TableResponse 咖啡桌信息响应
type TableResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	University  string `json:"university"`
	MemberCount int    `json:"member_count,omitempty"`
}

// TableMemberResponse 桌成员信息（含学习状态）
type TableMemberResponse struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	IsStaff       bool   `json:"is_staff"`
	Points        int    `json:"points"`
	StudyingUntil string `json:"studying_until,omitempty"`
}

// TableDetailResponse 咖啡桌详情（聊天视图）
type TableDetailResponse struct {
	Table         TableResponse         `json:"table"`
	Messages      []MessageResponse     `json:"messages"`
	TasksToday    []TaskResponse        `json:"tasks_today"`
	UsersStudying []TableMemberResponse `json:"users_studying"` // 按 studying_until 倒序
	OtherUsers    []TableMemberResponse `json:"other_users"`
}

// JoinTableRequest 加入（或按需创建）咖啡桌请求
type JoinTableRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}
