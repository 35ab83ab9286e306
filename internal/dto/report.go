package dto

// ── 举报模块 DTO ──

// CreateReportRequest 提交举报请求
type CreateReportRequest struct {
	Title    string `json:"title"    binding:"required,max=50"`
	Category string `json:"category" binding:"required,max=20"`
	Detail   string `json:"detail"   binding:"required,max=250"`
	TableID  string `json:"table_id" binding:"required,uuid"`
}

// ReportResponse 举报信息响应（教职工查看）
type ReportResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Detail    string `json:"detail"`
	TableID   string `json:"table_id"`
	TableName string `json:"table_name,omitempty"`
	FlaggedBy string `json:"flagged_by"`
	CreatedAt string `json:"created_at"`
}
