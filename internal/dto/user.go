package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	University string `json:"university"`
	IsStaff    bool   `json:"is_staff"`
	Points     int    `json:"points"`
	DateJoined string `json:"date_joined"`
}

// UpdateProfileRequest 编辑个人信息请求
// 全部字段可选：nil 表示本次不修改该字段
// 社交字段传 "/" 表示清除已设置的链接
type UpdateProfileRequest struct {
	FirstName         *string `json:"first_name"         binding:"omitempty,max=50"`
	LastName          *string `json:"last_name"          binding:"omitempty,max=50"`
	Year              *int    `json:"year"               binding:"omitempty,min=1"`
	Course            *string `json:"course"             binding:"omitempty,max=50"`
	AddTable          *string `json:"add_table"          binding:"omitempty,max=50"`
	RemoveTable       *string `json:"remove_table"       binding:"omitempty,max=50"`
	ShareTables       *bool   `json:"share_tables"`
	FacebookLink      *string `json:"facebook_link"      binding:"omitempty,max=255"`
	InstagramUsername *string `json:"instagram_username" binding:"omitempty,max=200"`
	TwitterHandle     *string `json:"twitter_handle"     binding:"omitempty,max=200"`
}

// ProfileResponse 个人主页响应
type ProfileResponse struct {
	ID            string   `json:"id"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	University    string   `json:"university"`
	IsStaff       bool     `json:"is_staff"`
	Course        string   `json:"course,omitempty"`
	Year          *int     `json:"year,omitempty"`
	Points        int      `json:"points"`
	Facebook      string   `json:"facebook,omitempty"`
	Instagram     string   `json:"instagram,omitempty"`
	Twitter       string   `json:"twitter,omitempty"`
	Tables        []string `json:"tables"`       // 对外共享的桌名（不含课程桌）
	Collectables  []string `json:"collectables"` // 已解锁的收藏品图片
	StudyingUntil string   `json:"studying_until,omitempty"`
}

// StudyBreakRequest 设置学习专注时长请求
type StudyBreakRequest struct {
	Minutes int `json:"minutes" binding:"required,min=5,max=300"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Points    int    `json:"points"`
	Tier      int    `json:"tier"`
}
