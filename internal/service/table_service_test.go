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

func setupTestTableService() (TableService, *mockUserRepo, *mockTableRepo, *mockTaskRepo, *mockMessageRepo) {
	userRepo := newMockUserRepo()
	tableRepo := newMockTableRepo(userRepo)
	taskRepo := newMockTaskRepo(userRepo, tableRepo)
	messageRepo := newMockMessageRepo(userRepo)
	repo := &repository.Repository{
		User:         userRepo,
		Table:        tableRepo,
		Task:         taskRepo,
		Message:      messageRepo,
		Notification: newMockNotificationRepo(),
	}
	logger := zap.NewNop()
	svc := NewTableService(repo, NewTaskService(repo, logger), logger)
	return svc, userRepo, tableRepo, taskRepo, messageRepo
}

// ── JoinTable 测试 ──

func TestJoinTable_CreatesOnDemand(t *testing.T) {
	svc, userRepo, tableRepo, _, _ := setupTestTableService()
	createCafeUser(userRepo, "stu-1", "小明", false)

	table, err := svc.JoinTable(context.Background(), "stu-1", &dto.JoinTableRequest{Name: "Exam Prep"})
	if err != nil {
		t.Fatalf("JoinTable 应成功: %v", err)
	}
	if table.Name != "exam prep" {
		t.Errorf("桌名应小写存储，实际 %s", table.Name)
	}
	if !tableRepo.members[table.ID]["stu-1"] {
		t.Error("加入后应成为成员")
	}
}

func TestJoinTable_ExistingTableShared(t *testing.T) {
	svc, userRepo, tableRepo, _, _ := setupTestTableService()
	createCafeUser(userRepo, "stu-1", "小明", false)
	createCafeUser(userRepo, "stu-2", "小红", false)

	first, err := svc.JoinTable(context.Background(), "stu-1", &dto.JoinTableRequest{Name: "exam prep"})
	if err != nil {
		t.Fatalf("首次加入应成功: %v", err)
	}
	second, err := svc.JoinTable(context.Background(), "stu-2", &dto.JoinTableRequest{Name: "exam prep"})
	if err != nil {
		t.Fatalf("第二人加入应成功: %v", err)
	}
	if first.ID != second.ID {
		t.Error("同大学同名桌应是同一张桌")
	}
	if len(tableRepo.members[first.ID]) != 2 {
		t.Errorf("期望 2 名成员，实际 %d", len(tableRepo.members[first.ID]))
	}
}

func TestJoinTable_CourseTableRefused(t *testing.T) {
	svc, userRepo, _, _, _ := setupTestTableService()
	createCafeUser(userRepo, "stu-1", "小明", false)

	_, err := svc.JoinTable(context.Background(), "stu-1", &dto.JoinTableRequest{Name: "course: cs101"})
	if !errors.Is(err, ErrCourseTableJoin) {
		t.Errorf("手动加课程桌应拒绝，实际: %v", err)
	}
}

// ── GetTableDetail 测试 ──

func TestGetTableDetail_DeniedForNonMember(t *testing.T) {
	svc, userRepo, tableRepo, _, _ := setupTestTableService()
	createCafeUser(userRepo, "stu-1", "小明", false)
	createCafeTable(tableRepo, "table-1", "study group") // stu-1 不是成员

	_, err := svc.GetTableDetail(context.Background(), "stu-1", "table-1")
	if !errors.Is(err, ErrTableAccessDenied) {
		t.Errorf("非成员查看详情应拒绝，实际: %v", err)
	}
}

func TestGetTableDetail_DeniedAcrossUniversities(t *testing.T) {
	svc, userRepo, tableRepo, _, _ := setupTestTableService()
	user := createCafeUser(userRepo, "stu-1", "小明", false)
	user.University = "Other uni"
	createCafeTable(tableRepo, "table-1", "study group", "stu-1")

	_, err := svc.GetTableDetail(context.Background(), "stu-1", "table-1")
	if !errors.Is(err, ErrTableAccessDenied) {
		t.Errorf("跨大学访问应拒绝，实际: %v", err)
	}
}

func TestGetTableDetail_SplitsStudyingMembers(t *testing.T) {
	svc, userRepo, tableRepo, taskRepo, messageRepo := setupTestTableService()
	createCafeUser(userRepo, "stu-1", "小明", false)
	studying := createCafeUser(userRepo, "stu-2", "小红", false)
	until := time.Now().Add(30 * time.Minute)
	studying.StudyingUntil = &until
	createCafeTable(tableRepo, "table-1", "study group", "stu-1", "stu-2")

	injectTask(taskRepo, "task-1", "table-1", "stu-1", 2)
	messageRepo.Create(context.Background(), &model.Message{
		TableID: "table-1", CreatedBy: "stu-1", Content: "大家好",
	})

	detail, err := svc.GetTableDetail(context.Background(), "stu-1", "table-1")
	if err != nil {
		t.Fatalf("GetTableDetail 应成功: %v", err)
	}
	if len(detail.UsersStudying) != 1 || detail.UsersStudying[0].ID != "stu-2" {
		t.Errorf("学习中的成员分组错误: %+v", detail.UsersStudying)
	}
	if len(detail.OtherUsers) != 1 || detail.OtherUsers[0].ID != "stu-1" {
		t.Errorf("其他成员分组错误: %+v", detail.OtherUsers)
	}
	if len(detail.TasksToday) != 1 {
		t.Errorf("期望 1 个今日任务，实际 %d", len(detail.TasksToday))
	}
	if len(detail.Messages) != 1 || detail.Messages[0].Content != "大家好" {
		t.Errorf("消息列表错误: %+v", detail.Messages)
	}
	if detail.Table.MemberCount != 2 {
		t.Errorf("期望成员数 2，实际 %d", detail.Table.MemberCount)
	}
}

// ── LeaveTable 测试 ──

func TestLeaveTable_Success(t *testing.T) {
	svc, userRepo, tableRepo, _, _ := setupTestTableService()
	createCafeUser(userRepo, "stu-1", "小明", false)
	table := createCafeTable(tableRepo, "table-1", "study group", "stu-1")

	if err := svc.LeaveTable(context.Background(), "stu-1", "table-1"); err != nil {
		t.Fatalf("LeaveTable 应成功: %v", err)
	}
	if tableRepo.members[table.TableID]["stu-1"] {
		t.Error("退桌后不应仍是成员")
	}
}

func TestLeaveTable_CourseTableRefused(t *testing.T) {
	svc, userRepo, tableRepo, _, _ := setupTestTableService()
	createCafeUser(userRepo, "stu-1", "小明", false)
	createCafeTable(tableRepo, "table-1", model.CourseTablePrefix+"cs101", "stu-1")

	err := svc.LeaveTable(context.Background(), "stu-1", "table-1")
	if !errors.Is(err, ErrCourseTableJoin) {
		t.Errorf("直接退课程桌应拒绝，实际: %v", err)
	}
}
