package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/model"
	"campus-cafe/backend/internal/repository"
	"campus-cafe/backend/pkg/redis"
)

const (
	// 仪表盘展示的通知与排行榜条数
	dashboardNotificationLimit = 10
	dashboardLeaderboardLimit  = 10

	// 距下一收藏品不足该分数时提醒全桌
	collectableNearThreshold = 10
)

// DashboardService 仪表盘聚合业务接口
type DashboardService interface {
	GetDashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	users  UserService
	rdb    *redis.Client
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(
	repo *repository.Repository,
	users UserService,
	rdb *redis.Client,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		repo:   repo,
		users:  users,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := time.Now()
	today := model.Today()
	dirty := false

	// 学习专注已到期则顺带清理持久化状态
	if user.StudyingUntil != nil && !user.IsStudying(now) {
		user.StudyingUntil = nil
		dirty = true
	}

	// 发布配额到了重置日期也顺带清零（避免"次日仍显示不可发布"）
	if !user.IsStaff && user.ResetSetQuotaIfDue(today) {
		dirty = true
	}

	if dirty {
		if err := s.repo.User.Update(ctx, user); err != nil {
			s.logger.Warn("刷新用户状态失败", zap.String("user_id", userID), zap.Error(err))
		}
	}

	tables, err := s.repo.Table.ListByUser(ctx, userID, user.University)
	if err != nil {
		s.logger.Error("查询用户咖啡桌失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	tableIDs := make([]string, 0, len(tables))
	tableResponses := make([]dto.TableResponse, 0, len(tables))
	for i := range tables {
		tableIDs = append(tableIDs, tables[i].TableID)
		tableResponses = append(tableResponses, dto.TableResponse{
			ID:         tables[i].TableID,
			Name:       tables[i].Name,
			University: tables[i].University,
		})
	}

	resp := &dto.DashboardResponse{
		User:        toUserResponse(user),
		Tables:      tableResponses,
		Studying:    user.IsStudying(now),
		CanSetTasks: user.IsStaff || user.TasksSetToday < model.DailySetLimit,
	}

	// 收藏品进度仅对学生有意义
	if !user.IsStaff {
		tier := Tier(user.Points)
		image, name := CollectableForTier(tier)
		resp.Collectable = image
		resp.CollectableName = name
		resp.PointsToGo = PointsToNextTier(user.Points)
		resp.PreviousCollectables = CollectablesBelowTier(tier)

		// 快到手的收藏品提醒全桌（Award 通知）
		if resp.PointsToGo > 0 && resp.PointsToGo < collectableNearThreshold && len(tableIDs) > 0 {
			s.notifyCollectableNear(ctx, user, tableIDs[0])
		}
	}

	notifications, err := s.repo.Notification.ListByTables(ctx, tableIDs, dashboardNotificationLimit)
	if err != nil {
		s.logger.Error("查询通知失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp.Notifications = make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		n := dto.NotificationResponse{
			ID:          notifications[i].NotificationID,
			Type:        int(notifications[i].Type),
			TextPreview: notifications[i].TextPreview,
			CreatedAt:   notifications[i].CreatedAt.UTC().Format(time.RFC3339),
		}
		if notifications[i].TableID != nil {
			n.TableID = *notifications[i].TableID
		}
		resp.Notifications = append(resp.Notifications, n)
	}

	leaderboard, err := s.users.Leaderboard(ctx, dashboardLeaderboardLimit)
	if err != nil {
		s.logger.Error("查询排行榜失败", zap.Error(err))
		return nil, err
	}
	resp.Leaderboard = leaderboard

	// 在线人数来自 Redis presence；Redis 不可用时显示 0
	if s.rdb != nil {
		online, err := s.rdb.CountOnline(ctx)
		if err != nil {
			s.logger.Warn("统计在线人数失败", zap.Error(err))
		} else {
			resp.NumOnline = online
		}
	}

	return resp, nil
}

// notifyCollectableNear 发出"快解锁新收藏品"的桌内通知
// 通知失败不影响仪表盘返回
func (s *dashboardService) notifyCollectableNear(ctx context.Context, user *model.User, tableID string) {
	preview := fmt.Sprintf("%s 还差不到 %d 积分就能解锁新收藏品了！", user.FirstName, collectableNearThreshold)
	notification := &model.Notification{
		TableID:     &tableID,
		Type:        model.NotificationAward,
		TextPreview: model.TruncatePreview(preview),
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Warn("创建收藏品通知失败", zap.String("user_id", user.UserID), zap.Error(err))
	}
}
