package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/model"
	"campus-cafe/backend/internal/repository"
)

// 桌详情一次最多返回的消息数
const tableMessageLimit = 100

// TableService 咖啡桌业务接口
type TableService interface {
	// ListMyTables 当前用户所属的全部桌
	ListMyTables(ctx context.Context, userID string) ([]dto.TableResponse, error)
	// GetTableDetail 桌详情：消息、今日任务、成员（按学习状态分组）
	GetTableDetail(ctx context.Context, userID, tableID string) (*dto.TableDetailResponse, error)
	// JoinTable 按名称加入桌，不存在则创建（课程桌除外）
	JoinTable(ctx context.Context, userID string, req *dto.JoinTableRequest) (*dto.TableResponse, error)
	LeaveTable(ctx context.Context, userID, tableID string) error
}

type tableService struct {
	repo   *repository.Repository
	tasks  TaskService
	logger *zap.Logger
}

// NewTableService 创建 TableService 实例
func NewTableService(repo *repository.Repository, tasks TaskService, logger *zap.Logger) TableService {
	return &tableService{repo: repo, tasks: tasks, logger: logger}
}

func (s *tableService) ListMyTables(ctx context.Context, userID string) ([]dto.TableResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tables, err := s.repo.Table.ListByUser(ctx, userID, user.University)
	if err != nil {
		s.logger.Error("查询用户咖啡桌失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		result = append(result, dto.TableResponse{
			ID:         tables[i].TableID,
			Name:       tables[i].Name,
			University: tables[i].University,
		})
	}
	return result, nil
}

// ────────────────────── GetTableDetail ──────────────────────

func (s *tableService) GetTableDetail(ctx context.Context, userID, tableID string) (*dto.TableDetailResponse, error) {
	_, table, err := s.authorizeTable(ctx, userID, tableID)
	if err != nil {
		return nil, err
	}

	// 读桌详情前先顺带推进到期的重复任务，保证"今日任务"完整
	if err := s.tasks.AdvanceRecurringTasks(ctx); err != nil {
		s.logger.Warn("推进重复任务失败", zap.Error(err))
	}

	messages, err := s.repo.Message.ListByTable(ctx, tableID, tableMessageLimit)
	if err != nil {
		s.logger.Error("查询桌消息失败", zap.String("table_id", tableID), zap.Error(err))
		return nil, err
	}

	today := model.Today()
	tasksToday, err := s.repo.Task.ListByTableAndDate(ctx, tableID, today)
	if err != nil {
		s.logger.Error("查询今日任务失败", zap.String("table_id", tableID), zap.Error(err))
		return nil, err
	}

	members, err := s.repo.Table.ListMembers(ctx, tableID)
	if err != nil {
		s.logger.Error("查询桌成员失败", zap.String("table_id", tableID), zap.Error(err))
		return nil, err
	}

	resp := &dto.TableDetailResponse{
		Table: dto.TableResponse{
			ID:          table.TableID,
			Name:        table.Name,
			University:  table.University,
			MemberCount: len(members),
		},
		Messages:      make([]dto.MessageResponse, 0, len(messages)),
		TasksToday:    make([]dto.TaskResponse, 0, len(tasksToday)),
		UsersStudying: []dto.TableMemberResponse{},
		OtherUsers:    []dto.TableMemberResponse{},
	}

	for i := range messages {
		resp.Messages = append(resp.Messages, toMessageResponse(&messages[i]))
	}
	for i := range tasksToday {
		tasksToday[i].Table = table
		resp.TasksToday = append(resp.TasksToday, buildTaskResponse(ctx, s.repo, s.logger, &tasksToday[i]))
	}

	// 成员按学习状态分组：学习中的按结束时刻倒序，其余按名字排序
	now := time.Now()
	var studying, others []model.User
	for i := range members {
		if members[i].IsStudying(now) {
			studying = append(studying, members[i])
		} else {
			others = append(others, members[i])
		}
	}
	sort.Slice(studying, func(i, j int) bool {
		return studying[i].StudyingUntil.After(*studying[j].StudyingUntil)
	})
	sort.Slice(others, func(i, j int) bool {
		return strings.ToLower(others[i].FullName()) < strings.ToLower(others[j].FullName())
	})
	for i := range studying {
		resp.UsersStudying = append(resp.UsersStudying, toTableMemberResponse(&studying[i], now))
	}
	for i := range others {
		resp.OtherUsers = append(resp.OtherUsers, toTableMemberResponse(&others[i], now))
	}

	return resp, nil
}

// ────────────────────── JoinTable / LeaveTable ──────────────────────

func (s *tableService) JoinTable(ctx context.Context, userID string, req *dto.JoinTableRequest) (*dto.TableResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))
	if strings.HasPrefix(name, strings.TrimSpace(model.CourseTablePrefix)) {
		return nil, ErrCourseTableJoin
	}

	if err := joinTableByName(ctx, s.repo, user, name); err != nil {
		return nil, err
	}

	table, err := s.repo.Table.GetByName(ctx, user.University, name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("用户加入咖啡桌",
		zap.String("user_id", userID),
		zap.String("table", table.Name),
	)

	return &dto.TableResponse{
		ID:         table.TableID,
		Name:       table.Name,
		University: table.University,
	}, nil
}

func (s *tableService) LeaveTable(ctx context.Context, userID, tableID string) error {
	_, table, err := s.authorizeTable(ctx, userID, tableID)
	if err != nil {
		return err
	}

	// 课程桌通过修改课程退出，不允许直接离开
	if table.IsCourseTable() {
		return ErrCourseTableJoin
	}

	return s.repo.Table.RemoveMember(ctx, tableID, userID)
}

// ── 内部辅助方法 ──

// authorizeTable 校验桌存在、同大学且为成员；任一不满足返回 ErrTableAccessDenied
// （存在性与权限对外不作区分，避免桌名枚举）
func (s *tableService) authorizeTable(ctx context.Context, userID, tableID string) (*model.User, *model.CafeTable, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	table, err := s.repo.Table.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTableAccessDenied
		}
		return nil, nil, err
	}
	if table.University != user.University {
		return nil, nil, ErrTableAccessDenied
	}

	isMember, err := s.repo.Table.IsMember(ctx, tableID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !isMember {
		return nil, nil, ErrTableAccessDenied
	}

	return user, table, nil
}

// joinTableByName 加入同大学同名桌，不存在则创建
func joinTableByName(ctx context.Context, repo *repository.Repository, user *model.User, name string) error {
	table, err := repo.Table.GetByName(ctx, user.University, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		table = &model.CafeTable{Name: name, University: user.University}
		if err := repo.Table.Create(ctx, table); err != nil {
			// 并发创建撞上唯一索引时重查一次
			table, err = repo.Table.GetByName(ctx, user.University, name)
			if err != nil {
				return err
			}
		}
	} else if err != nil {
		return err
	}
	return repo.Table.AddMember(ctx, table.TableID, user.UserID)
}

func toTableMemberResponse(user *model.User, now time.Time) dto.TableMemberResponse {
	resp := dto.TableMemberResponse{
		ID:        user.UserID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsStaff:   user.IsStaff,
		Points:    user.Points,
	}
	if user.IsStudying(now) {
		resp.StudyingUntil = user.StudyingUntil.UTC().Format(time.RFC3339)
	}
	return resp
}

func toMessageResponse(message *model.Message) dto.MessageResponse {
	resp := dto.MessageResponse{
		ID:           message.MessageID,
		TableID:      message.TableID,
		CreatorID:    message.CreatedBy,
		Content:      message.Content,
		TotalUpvotes: message.TotalUpvotes,
		CreatedAt:    message.CreatedAt.UTC().Format(time.RFC3339),
	}
	if message.Creator != nil {
		resp.CreatorName = message.Creator.FullName()
	}
	return resp
}
