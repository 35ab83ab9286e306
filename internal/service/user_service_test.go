package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/model"
	"campus-cafe/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestUserService() (UserService, *mockUserRepo, *mockTableRepo) {
	userRepo := newMockUserRepo()
	tableRepo := newMockTableRepo(userRepo)
	repo := &repository.Repository{
		User:  userRepo,
		Table: tableRepo,
	}
	svc := NewUserService(repo, zap.NewNop())
	return svc, userRepo, tableRepo
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }

// ── UpdateProfile 测试 ──

func TestUpdateProfile_PartialPatch(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	user := createCafeUser(userRepo, "stu-1", "小明", false)
	user.LastName = "张"

	profile, err := svc.UpdateProfile(context.Background(), "stu-1", &dto.UpdateProfileRequest{
		FirstName: strPtr("明明"),
		Year:      intPtr(2),
	})
	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}
	if profile.FirstName != "明明" {
		t.Errorf("期望名字更新为 明明，实际 %s", profile.FirstName)
	}
	if profile.LastName != "张" {
		t.Errorf("未提交的字段不应变化，实际姓 %s", profile.LastName)
	}
	if profile.Year == nil || *profile.Year != 2 {
		t.Errorf("期望年级 2，实际 %v", profile.Year)
	}
}

func TestUpdateProfile_CourseChangeMigratesCourseTable(t *testing.T) {
	svc, userRepo, tableRepo := setupTestUserService()
	user := createCafeUser(userRepo, "stu-1", "小明", false)
	user.Course = "maths"

	// 先挂在旧课程桌上
	oldTable := createCafeTable(tableRepo, "table-old", model.CourseTablePrefix+"maths", "stu-1")

	_, err := svc.UpdateProfile(context.Background(), "stu-1", &dto.UpdateProfileRequest{
		Course: strPtr("Physics"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}

	if userRepo.users["stu-1"].Course != "physics" {
		t.Errorf("课程应统一小写存储，实际 %s", userRepo.users["stu-1"].Course)
	}
	if tableRepo.members[oldTable.TableID]["stu-1"] {
		t.Error("改课程后应退出旧课程桌")
	}

	newTable, err := tableRepo.GetByName(context.Background(), "Test uni", model.CourseTablePrefix+"physics")
	if err != nil {
		t.Fatalf("新课程桌应按需创建: %v", err)
	}
	if !tableRepo.members[newTable.TableID]["stu-1"] {
		t.Error("改课程后应加入新课程桌")
	}
}

func TestUpdateProfile_AddTableCreatesOnDemand(t *testing.T) {
	svc, userRepo, tableRepo := setupTestUserService()
	createCafeUser(userRepo, "stu-1", "小明", false)

	_, err := svc.UpdateProfile(context.Background(), "stu-1", &dto.UpdateProfileRequest{
		AddTable: strPtr("  Study Group  "),
	})
	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}

	// 桌名去空格并小写
	table, err := tableRepo.GetByName(context.Background(), "Test uni", "study group")
	if err != nil {
		t.Fatalf("桌应按需创建: %v", err)
	}
	if !tableRepo.members[table.TableID]["stu-1"] {
		t.Error("加桌后应成为成员")
	}
}

func TestUpdateProfile_AddCourseTableRefused(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	createCafeUser(userRepo, "stu-1", "小明", false)

	_, err := svc.UpdateProfile(context.Background(), "stu-1", &dto.UpdateProfileRequest{
		AddTable: strPtr("course: cs101"),
	})
	if !errors.Is(err, ErrCourseTableJoin) {
		t.Errorf("手动加课程桌应拒绝，实际: %v", err)
	}
}

func TestUpdateProfile_RemoveTable(t *testing.T) {
	svc, userRepo, tableRepo := setupTestUserService()
	createCafeUser(userRepo, "stu-1", "小明", false)
	table := createCafeTable(tableRepo, "table-1", "study group", "stu-1")

	_, err := svc.UpdateProfile(context.Background(), "stu-1", &dto.UpdateProfileRequest{
		RemoveTable: strPtr("study group"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}
	if tableRepo.members[table.TableID]["stu-1"] {
		t.Error("退桌后不应仍是成员")
	}
}

func TestUpdateProfile_SocialLinks(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	createCafeUser(userRepo, "stu-1", "小明", false)

	// Facebook 必须是完整链接
	_, err := svc.UpdateProfile(context.Background(), "stu-1", &dto.UpdateProfileRequest{
		FacebookLink: strPtr("http://evil.com/xiaoming"),
	})
	if !errors.Is(err, ErrInvalidFacebook) {
		t.Errorf("非 Facebook 链接应拒绝，实际: %v", err)
	}

	// Instagram/Twitter 由用户名拼接
	profile, err := svc.UpdateProfile(context.Background(), "stu-1", &dto.UpdateProfileRequest{
		FacebookLink:      strPtr("https://www.facebook.com/xiaoming"),
		InstagramUsername: strPtr("@xiaoming"),
		TwitterHandle:     strPtr("xiaoming"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}
	if profile.Instagram != "https://www.instagram.com/xiaoming" {
		t.Errorf("Instagram 链接拼接错误: %s", profile.Instagram)
	}
	if profile.Twitter != "https://www.twitter.com/xiaoming" {
		t.Errorf("Twitter 链接拼接错误: %s", profile.Twitter)
	}

	// "/" 清除已设置的链接
	profile, err = svc.UpdateProfile(context.Background(), "stu-1", &dto.UpdateProfileRequest{
		InstagramUsername: strPtr("/"),
	})
	if err != nil {
		t.Fatalf("UpdateProfile 应成功: %v", err)
	}
	if profile.Instagram != "" {
		t.Errorf("传 / 应清除链接，实际 %s", profile.Instagram)
	}
	if profile.Twitter == "" {
		t.Error("未提交的社交字段不应被清除")
	}
}

func TestUpdateProfile_StaffFieldLimited(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	createCafeUser(userRepo, "staff-1", "王老师", true)

	// 教职工改名字和课程可以
	_, err := svc.UpdateProfile(context.Background(), "staff-1", &dto.UpdateProfileRequest{
		FirstName: strPtr("老王"),
		Course:    strPtr("cs101"),
	})
	if err != nil {
		t.Fatalf("教职工改姓名课程应成功: %v", err)
	}

	// 其他字段一律拒绝
	_, err = svc.UpdateProfile(context.Background(), "staff-1", &dto.UpdateProfileRequest{
		ShareTables: boolPtr(false),
	})
	if !errors.Is(err, ErrStaffFieldLimited) {
		t.Errorf("教职工改共享开关应拒绝，实际: %v", err)
	}
}

// ── GetProfile 测试 ──

func TestGetProfile_HidesCourseTables(t *testing.T) {
	svc, userRepo, tableRepo := setupTestUserService()
	createCafeUser(userRepo, "stu-1", "小明", false)
	createCafeUser(userRepo, "stu-2", "小红", false)
	createCafeTable(tableRepo, "table-1", "study group", "stu-1")
	createCafeTable(tableRepo, "table-2", model.CourseTablePrefix+"cs101", "stu-1")

	profile, err := svc.GetProfile(context.Background(), "stu-2", "stu-1")
	if err != nil {
		t.Fatalf("GetProfile 应成功: %v", err)
	}
	if len(profile.Tables) != 1 || profile.Tables[0] != "study group" {
		t.Errorf("课程桌不应对外展示，实际 %v", profile.Tables)
	}
}

func TestGetProfile_RespectsShareToggle(t *testing.T) {
	svc, userRepo, tableRepo := setupTestUserService()
	user := createCafeUser(userRepo, "stu-1", "小明", false)
	user.ShareTables = false
	createCafeUser(userRepo, "stu-2", "小红", false)
	createCafeTable(tableRepo, "table-1", "study group", "stu-1")

	// 他人视角：共享关闭则不可见
	profile, err := svc.GetProfile(context.Background(), "stu-2", "stu-1")
	if err != nil {
		t.Fatalf("GetProfile 应成功: %v", err)
	}
	if len(profile.Tables) != 0 {
		t.Errorf("共享关闭后他人不应看到桌列表，实际 %v", profile.Tables)
	}

	// 本人视角：始终可见
	profile, err = svc.GetProfile(context.Background(), "stu-1", "stu-1")
	if err != nil {
		t.Fatalf("GetProfile 应成功: %v", err)
	}
	if len(profile.Tables) != 1 {
		t.Errorf("本人应始终看到自己的桌，实际 %v", profile.Tables)
	}
}

func TestGetProfile_Collectables(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	user := createCafeUser(userRepo, "stu-1", "小明", false)
	user.Points = 120 // 2 级

	profile, err := svc.GetProfile(context.Background(), "stu-1", "stu-1")
	if err != nil {
		t.Fatalf("GetProfile 应成功: %v", err)
	}
	if len(profile.Collectables) != 3 {
		t.Errorf("120 分应解锁 3 个收藏品（0/1/2 级），实际 %d", len(profile.Collectables))
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	svc, _, _ := setupTestUserService()

	_, err := svc.GetProfile(context.Background(), "stu-1", "nobody")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// ── StudyBreak 测试 ──

func TestStudyBreak_SetsDeadline(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	createCafeUser(userRepo, "stu-1", "小明", false)

	if err := svc.StudyBreak(context.Background(), "stu-1", 45); err != nil {
		t.Fatalf("StudyBreak 应成功: %v", err)
	}

	stored := userRepo.users["stu-1"]
	if stored.StudyingUntil == nil {
		t.Fatal("应记录学习截止时刻")
	}
	remaining := time.Until(*stored.StudyingUntil)
	if remaining < 44*time.Minute || remaining > 46*time.Minute {
		t.Errorf("学习时长应约为 45 分钟，实际剩余 %v", remaining)
	}
}

// ── Leaderboard 测试 ──

func TestLeaderboard_OrderAndStaffExcluded(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	createCafeUser(userRepo, "stu-1", "小明", false).Points = 30
	createCafeUser(userRepo, "stu-2", "小红", false).Points = 120
	createCafeUser(userRepo, "staff-1", "王老师", true).Points = 999

	entries, err := svc.Leaderboard(context.Background(), 10)
	if err != nil {
		t.Fatalf("Leaderboard 应成功: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("教职工不应上榜，期望 2 条，实际 %d", len(entries))
	}
	if entries[0].ID != "stu-2" {
		t.Errorf("榜首应为积分最高的学生，实际 %s", entries[0].ID)
	}
	if entries[0].Tier != 2 {
		t.Errorf("120 分应为 2 级，实际 %d", entries[0].Tier)
	}
}
