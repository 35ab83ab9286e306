package model

// CafeTable 咖啡桌（小组）表 — 对应 cafe_tables
// 桌名在同一大学内唯一（数据库唯一索引硬约束）
type CafeTable struct {
	TableID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"table_id"`
	Name       string `gorm:"type:varchar(50);not null;uniqueIndex:uniq_uni_name"     json:"name"`
	University string `gorm:"type:varchar(100);not null;uniqueIndex:uniq_uni_name"    json:"university"`
	BaseModel

	// 关联
	Members []User `gorm:"many2many:table_members;foreignKey:TableID;joinForeignKey:TableID;References:UserID;joinReferences:UserID" json:"members,omitempty"`
}

// TableName 指定表名
func (CafeTable) TableName() string { return "cafe_tables" }

// CourseTablePrefix 课程桌的名称前缀
// 课程桌由系统在用户设置课程时自动创建/加入，用户不能手动加入
const CourseTablePrefix = "course: "

// IsCourseTable 判断是否为课程桌
func (t *CafeTable) IsCourseTable() bool {
	return len(t.Name) >= len(CourseTablePrefix) && t.Name[:len(CourseTablePrefix)] == CourseTablePrefix
}
