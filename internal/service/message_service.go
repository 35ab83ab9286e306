package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-cafe/backend/internal/dto"
	"campus-cafe/backend/internal/model"
	"campus-cafe/backend/internal/repository"
)

// ── 消息模块业务错误 ──

var (
	ErrMessageNotFound = errors.New("消息不存在")
	ErrAlreadyUpvoted  = errors.New("已点赞过该消息")
)

// MessageService 桌内聊天业务接口
type MessageService interface {
	PostMessage(ctx context.Context, userID, tableID string, req *dto.PostMessageRequest) (*dto.MessageResponse, error)
	ListMessages(ctx context.Context, userID, tableID string) ([]dto.MessageResponse, error)
	// UpvoteMessage 点赞消息；同一用户对同一消息只计一次
	UpvoteMessage(ctx context.Context, userID, messageID string) error
}

type messageService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMessageService 创建 MessageService 实例
func NewMessageService(repo *repository.Repository, logger *zap.Logger) MessageService {
	return &messageService{repo: repo, logger: logger}
}

func (s *messageService) PostMessage(ctx context.Context, userID, tableID string, req *dto.PostMessageRequest) (*dto.MessageResponse, error) {
	user, err := s.authorize(ctx, userID, tableID)
	if err != nil {
		return nil, err
	}

	message := &model.Message{
		TableID:   tableID,
		CreatedBy: userID,
		Content:   req.Content,
	}
	if err := s.repo.Message.Create(ctx, message); err != nil {
		s.logger.Error("发送消息失败", zap.String("table_id", tableID), zap.Error(err))
		return nil, err
	}

	message.Creator = user
	resp := toMessageResponse(message)
	return &resp, nil
}

func (s *messageService) ListMessages(ctx context.Context, userID, tableID string) ([]dto.MessageResponse, error) {
	if _, err := s.authorize(ctx, userID, tableID); err != nil {
		return nil, err
	}

	messages, err := s.repo.Message.ListByTable(ctx, tableID, tableMessageLimit)
	if err != nil {
		s.logger.Error("查询桌消息失败", zap.String("table_id", tableID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		result = append(result, toMessageResponse(&messages[i]))
	}
	return result, nil
}

func (s *messageService) UpvoteMessage(ctx context.Context, userID, messageID string) error {
	message, err := s.repo.Message.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}

	// 点赞限定在消息所在桌的成员内
	if _, err := s.authorize(ctx, userID, message.TableID); err != nil {
		return err
	}

	upvoted, err := s.repo.Message.HasUpvoted(ctx, messageID, userID)
	if err != nil {
		return err
	}
	if upvoted {
		return ErrAlreadyUpvoted
	}

	return s.repo.Message.AddUpvote(ctx, messageID, userID)
}

// authorize 校验用户为桌成员且大学一致
func (s *messageService) authorize(ctx context.Context, userID, tableID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	table, err := s.repo.Table.GetByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTableAccessDenied
		}
		return nil, err
	}
	if table.University != user.University {
		return nil, ErrTableAccessDenied
	}

	isMember, err := s.repo.Table.IsMember(ctx, tableID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrTableAccessDenied
	}

	return user, nil
}
